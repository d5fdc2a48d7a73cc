package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/gameid"
	"github.com/lox/pokertable/poker"
)

// SimulateCmd plays random legal hands through the reducer
type SimulateCmd struct {
	Hands      int   `default:"1000" help:"Number of hands to play"`
	Players    int   `default:"6" help:"Number of seats"`
	Stack      int   `default:"200" help:"Starting stack and rebuy amount"`
	SmallBlind int   `default:"1" help:"Small blind"`
	BigBlind   int   `default:"2" help:"Big blind"`
	Ante       int   `default:"0" help:"Ante"`
	Seed       int64 `default:"0" help:"RNG seed (0 for random)"`
	Verbose    bool  `short:"V" help:"Log every hand"`
}

type simOptions struct {
	Hands      int
	Players    int
	Stack      int
	SmallBlind int
	BigBlind   int
	Ante       int
}

// simReport summarises a simulation run
type simReport struct {
	SessionID string
	Hands     int
	Showdowns int
	Walks     int
	Actions   int
	Rollbacks int
	Rebuys    int
	Chips     int
	Names     []string
	Net       []int
}

func (c *SimulateCmd) Run(g *Globals) error {
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	level := g.LogLevel
	if c.Verbose {
		level = "debug"
	}
	logger, err := newLogger(os.Stderr, level)
	if err != nil {
		return err
	}
	logger.Info("Starting simulation", "hands", c.Hands, "players", c.Players, "seed", seed)

	start := time.Now()
	report, err := simulate(simOptions{
		Hands:      c.Hands,
		Players:    c.Players,
		Stack:      c.Stack,
		SmallBlind: c.SmallBlind,
		BigBlind:   c.BigBlind,
		Ante:       c.Ante,
	}, rand.New(rand.NewSource(seed)), logger)
	if err != nil {
		return fmt.Errorf("seed %d: %w", seed, err)
	}
	printReport(os.Stdout, report, time.Since(start))
	return nil
}

// simulator drives one table and checks chip conservation after every action
type simulator struct {
	state    game.GameState
	expected int
	hand     int
	report   *simReport
}

func (sim *simulator) step(a game.Action) error {
	next := game.Apply(sim.state, a)
	if next.LastError != "" {
		return fmt.Errorf("hand %d: %s rejected: %s", sim.hand, a.Type(), next.LastError)
	}
	if got := next.TotalChips(); got != sim.expected {
		return fmt.Errorf("hand %d: chips not conserved after %s: have %d, want %d", sim.hand, a.Type(), got, sim.expected)
	}
	sim.state = next
	return nil
}

func simulate(opts simOptions, rng *rand.Rand, logger *log.Logger) (simReport, error) {
	if opts.Players < 2 || opts.Players > game.MaxSeats {
		return simReport{}, fmt.Errorf("players must be between 2 and %d", game.MaxSeats)
	}
	if opts.Stack <= 0 {
		return simReport{}, fmt.Errorf("stack must be positive")
	}

	report := simReport{Names: make([]string, opts.Players)}
	sim := &simulator{state: game.NewState(), report: &report}

	seats := make([]game.SeatSpec, opts.Players)
	for i := range seats {
		seats[i] = game.SeatSpec{Name: fmt.Sprintf("Bot%d", i+1), Stack: opts.Stack}
		report.Names[i] = seats[i].Name
	}
	sim.expected = opts.Players * opts.Stack

	ids := gameid.NewGenerator(quartz.NewReal(), rng)
	report.SessionID = ids.Generate()
	setup := []game.Action{
		game.Configure{SmallBlind: opts.SmallBlind, BigBlind: opts.BigBlind, Ante: opts.Ante},
		game.SetPlayers{Players: seats},
		game.SetDealer{Seat: rng.Intn(opts.Players)},
		game.StartSession{ID: report.SessionID, At: time.Now().UTC()},
	}
	for _, a := range setup {
		// chips only exist once SetPlayers has run, so setup skips the conservation check
		sim.state = game.Apply(sim.state, a)
		if sim.state.LastError != "" {
			return report, fmt.Errorf("setup %s: %s", a.Type(), sim.state.LastError)
		}
	}

	for sim.hand = 1; sim.hand <= opts.Hands; sim.hand++ {
		if err := sim.playHand(opts, rng, logger); err != nil {
			return report, err
		}
	}

	report.Hands = opts.Hands
	report.Chips = sim.state.TotalChips()
	report.Net = sim.state.Session.Net(sim.state.Players)
	return report, nil
}

func (sim *simulator) playHand(opts simOptions, rng *rand.Rand, logger *log.Logger) error {
	for i, p := range sim.state.Players {
		if p.Stack == 0 {
			sim.expected += opts.Stack
			if err := sim.step(game.Rebuy{Seat: i, Amount: opts.Stack}); err != nil {
				return err
			}
			sim.report.Rebuys++
		}
	}

	if err := sim.step(game.StartHand{}); err != nil {
		return err
	}

	deck := poker.NewDeck(rng)
	for i, p := range sim.state.Players {
		if p.Status == game.StatusOut {
			continue
		}
		if err := sim.step(game.SetHole{Seat: i, Text: deck.DealText(2)}); err != nil {
			return err
		}
	}
	board := deck.Deal(5)

	for sim.state.Phase == game.PhaseHand {
		if text := poker.FormatCards(board[:boardSize(sim.state.Street)]); sim.state.Board != text {
			if err := sim.step(game.SetBoard{Text: text}); err != nil {
				return err
			}
		}

		before := sim.state
		if err := sim.step(randomAct(sim.state, rng)); err != nil {
			return err
		}
		sim.report.Actions++

		if rng.Intn(20) == 0 {
			if err := sim.step(game.Rollback{}); err != nil {
				return err
			}
			if sim.state.ActionSeat != before.ActionSeat || sim.state.Street != before.Street || sim.state.PotTotal() != before.PotTotal() {
				return fmt.Errorf("hand %d: rollback did not restore the previous action", sim.hand)
			}
			sim.report.Rollbacks++
		}
	}

	live := 0
	for _, p := range sim.state.Players {
		if p.InHand() {
			live++
		}
	}
	if live > 1 {
		if err := sim.step(game.SetBoard{Text: poker.FormatCards(board)}); err != nil {
			return err
		}
		winners, err := game.SuggestWinners(sim.state)
		if err != nil {
			return fmt.Errorf("hand %d: %w", sim.hand, err)
		}
		if err := sim.step(game.ApplyPotWinners{Winners: winners}); err != nil {
			return err
		}
		sim.report.Showdowns++
	} else {
		sim.report.Walks++
	}

	pot := sim.state.PotTotal()
	if err := sim.step(game.SettleHand{}); err != nil {
		return err
	}
	if left := sim.state.PotTotal(); left != 0 {
		return fmt.Errorf("hand %d: %d chips left in the pot after settling", sim.hand, left)
	}
	logger.Debug("Hand settled", "hand", sim.hand, "pot", pot, "showdown", live > 1)
	return nil
}

// randomAct picks a uniformly random legal move for the seat to act
func randomAct(s game.GameState, rng *rand.Rand) game.PlayerAct {
	seat := s.ActionSeat
	moves := s.LegalMoves(seat)
	move := moves[rng.Intn(len(moves))]
	if move == game.MoveFold && s.ToCall(seat) == 0 {
		move = game.MoveCheck
	}

	act := game.PlayerAct{Seat: seat, Move: move}
	if move == game.MoveBetTo {
		p := s.Players[seat]
		lo, hi := s.MinBetTo(seat), p.StreetBet+p.Stack
		act.Amount = lo + rng.Intn(hi-lo+1)
	}
	return act
}

func boardSize(street game.Street) int {
	switch street {
	case game.Flop:
		return 3
	case game.Turn:
		return 4
	case game.River:
		return 5
	default:
		return 0
	}
}

func printReport(w io.Writer, r simReport, elapsed time.Duration) {
	fmt.Fprintf(w, "Session %s: %d hands in %s\n", r.SessionID, r.Hands, elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "Showdowns %d, walks %d, actions %d, rollbacks %d, rebuys %d\n",
		r.Showdowns, r.Walks, r.Actions, r.Rollbacks, r.Rebuys)
	fmt.Fprintf(w, "Chips on table: %d\n\n", r.Chips)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Seat\tName\tNet\t")
	for i, name := range r.Names {
		net := 0
		if i < len(r.Net) {
			net = r.Net[i]
		}
		fmt.Fprintf(tw, "%d\t%s\t%+d\t\n", i, name, net)
	}
	_ = tw.Flush()
}
