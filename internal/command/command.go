// Package command turns the text a dealer types into table actions.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/poker"
)

// ErrEmpty is returned for a blank line
var ErrEmpty = errors.New("empty command")

// Help lists every command, one per line
const Help = `check | call | fold | allin [seat]   betting action, seat defaults to the player to act
bet N | raise [to] N [seat]        bet or raise to a street total of N
start | settle | cancel | undo     hand lifecycle
board CARDS                        set the board, e.g. board As Kd 7c
hole SEAT CARDS                    set a seat's hole cards, e.g. hole 2 As Kd
winners POT SEAT...                assign the winners of one pot
auto                               rank the typed cards and assign every pot
dealer SEAT                        move the dealer button
rebuy SEAT N                       add chips to a seat
session start [ID] | session end   open or close a session
blinds SB BB [ANTE]                set the stakes
players NAME:STACK...              replace the roster
reset                              start over with the same roster`

// Parse converts one line into an action against state s. Betting actions
// default to the seat that is to act in s.
func Parse(line string, s game.GameState) (game.Action, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, ErrEmpty
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "k", "check":
		return move(s, game.MoveCheck, args)
	case "c", "call":
		return move(s, game.MoveCall, args)
	case "f", "fold":
		return move(s, game.MoveFold, args)
	case "a", "all", "allin":
		return move(s, game.MoveAllIn, args)
	case "b", "bet", "r", "raise":
		return betTo(s, args)

	case "start", "deal":
		return noArgs(cmd, args, game.StartHand{})
	case "settle":
		return noArgs(cmd, args, game.SettleHand{})
	case "cancel":
		return noArgs(cmd, args, game.CancelHand{})
	case "undo":
		return noArgs(cmd, args, game.Rollback{})
	case "reset":
		return noArgs(cmd, args, game.Reset{})

	case "board":
		text, n, err := cardText(args, 5)
		if err != nil {
			return nil, err
		}
		if n == 1 || n == 2 {
			return nil, fmt.Errorf("board needs 0, 3, 4 or 5 cards, got %d", n)
		}
		return game.SetBoard{Text: text}, nil

	case "hole":
		if len(args) == 0 {
			return nil, errors.New("usage: hole SEAT CARDS")
		}
		seat, err := number("seat", args[0])
		if err != nil {
			return nil, err
		}
		text, n, err := cardText(args[1:], 2)
		if err != nil {
			return nil, err
		}
		if n == 1 {
			return nil, errors.New("hole needs two cards")
		}
		return game.SetHole{Seat: seat, Text: text}, nil

	case "winners", "w":
		if len(args) < 2 {
			return nil, errors.New("usage: winners POT SEAT...")
		}
		nums, err := numbers(args)
		if err != nil {
			return nil, err
		}
		return game.AssignPotWinners{Pot: nums[0], Seats: nums[1:]}, nil

	case "auto":
		if len(args) > 0 {
			return nil, errors.New("auto takes no arguments")
		}
		winners, err := game.SuggestWinners(s)
		if err != nil {
			return nil, err
		}
		return game.ApplyPotWinners{Winners: winners}, nil

	case "dealer", "button":
		if len(args) != 1 {
			return nil, errors.New("usage: dealer SEAT")
		}
		seat, err := number("seat", args[0])
		if err != nil {
			return nil, err
		}
		return game.SetDealer{Seat: seat}, nil

	case "rebuy":
		if len(args) != 2 {
			return nil, errors.New("usage: rebuy SEAT AMOUNT")
		}
		nums, err := numbers(args)
		if err != nil {
			return nil, err
		}
		return game.Rebuy{Seat: nums[0], Amount: nums[1]}, nil

	case "session":
		return session(args)

	case "blinds", "stakes":
		if len(args) < 2 || len(args) > 3 {
			return nil, errors.New("usage: blinds SB BB [ANTE]")
		}
		nums, err := numbers(args)
		if err != nil {
			return nil, err
		}
		c := game.Configure{SmallBlind: nums[0], BigBlind: nums[1]}
		if len(nums) == 3 {
			c.Ante = nums[2]
		}
		return c, nil

	case "players", "seats":
		return players(args)

	default:
		return nil, fmt.Errorf("unknown command %q", fields[0])
	}
}

func noArgs(cmd string, args []string, a game.Action) (game.Action, error) {
	if len(args) > 0 {
		return nil, fmt.Errorf("%s takes no arguments", cmd)
	}
	return a, nil
}

// actingSeat returns the explicit seat in args or the seat to act in s
func actingSeat(s game.GameState, args []string) (int, error) {
	switch len(args) {
	case 0:
		if s.Phase != game.PhaseHand || s.ActionSeat == game.NoSeat {
			return 0, errors.New("no hand in progress")
		}
		return s.ActionSeat, nil
	case 1:
		return number("seat", args[0])
	default:
		return 0, fmt.Errorf("unexpected %q", strings.Join(args[1:], " "))
	}
}

func move(s game.GameState, m game.Move, args []string) (game.Action, error) {
	seat, err := actingSeat(s, args)
	if err != nil {
		return nil, err
	}
	return game.PlayerAct{Seat: seat, Move: m}, nil
}

func betTo(s game.GameState, args []string) (game.Action, error) {
	if len(args) > 0 && strings.EqualFold(args[0], "to") {
		args = args[1:]
	}
	if len(args) == 0 {
		return nil, errors.New("usage: bet N")
	}
	amount, err := number("amount", args[0])
	if err != nil {
		return nil, err
	}
	seat, err := actingSeat(s, args[1:])
	if err != nil {
		return nil, err
	}
	return game.PlayerAct{Seat: seat, Move: game.MoveBetTo, Amount: amount}, nil
}

func session(args []string) (game.Action, error) {
	if len(args) == 0 {
		return nil, errors.New("usage: session start [ID] | session end")
	}
	switch strings.ToLower(args[0]) {
	case "start", "open":
		if len(args) > 2 {
			return nil, errors.New("usage: session start [ID]")
		}
		a := game.StartSession{}
		if len(args) == 2 {
			a.ID = args[1]
		}
		return a, nil
	case "end", "close":
		return noArgs("session end", args[1:], game.EndSession{})
	default:
		return nil, fmt.Errorf("unknown session command %q", args[0])
	}
}

func players(args []string) (game.Action, error) {
	if len(args) == 0 {
		return nil, errors.New("usage: players NAME:STACK...")
	}
	seats := make([]game.SeatSpec, len(args))
	for i, arg := range args {
		name, stack, ok := strings.Cut(arg, ":")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid player %q, want NAME:STACK", arg)
		}
		n, err := number("stack", stack)
		if err != nil {
			return nil, err
		}
		seats[i] = game.SeatSpec{Name: name, Stack: n}
	}
	return game.SetPlayers{Players: seats}, nil
}

// cardText validates card tokens and returns them in canonical form
func cardText(args []string, limit int) (string, int, error) {
	cards, err := poker.ParseCardsText(strings.Join(args, " "))
	if err != nil {
		return "", 0, err
	}
	if len(cards) > limit {
		return "", 0, fmt.Errorf("at most %d cards, got %d", limit, len(cards))
	}
	return poker.FormatCards(cards), len(cards), nil
}

func number(what, arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, arg)
	}
	return n, nil
}

func numbers(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, arg := range args {
		n, err := number("number", arg)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}
