// Package game implements the rules of a single live poker table.
//
// The whole table is a GameState value and every change is an Action fed
// through Apply, which returns a new state and never mutates its input:
//
//	s := game.NewState()
//	s = game.Apply(s, game.SetPlayers{Players: []game.SeatSpec{
//	    {Name: "Alice", Stack: 200},
//	    {Name: "Bob", Stack: 200},
//	}})
//	s = game.Apply(s, game.StartHand{})
//	s = game.Apply(s, game.PlayerAct{Seat: s.ActionSeat, Move: game.MoveCall})
//	if s.LastError != "" {
//	    // the action was rejected and nothing else changed
//	}
//
// Illegal actions are reported through GameState.LastError rather than a
// returned error, so a state always carries the outcome of the last action.
//
// # Components
//
//   - Apply: the hand lifecycle (setup, hand, showdown) and betting rules
//   - ComputeSidePots and DistributePots: tiered pots and odd-chip payout
//   - RollbackStack: a bounded undo history of player actions
//   - Session: stacks, rebuys and hands played across a sitting
//   - DecodeSnapshot and Normalize: versioned snapshot ingestion
//
// Cards are typed as text and only parsed by SuggestWinners, which runs the
// poker package evaluator. Nothing in this package performs I/O or keeps
// goroutines.
package game
