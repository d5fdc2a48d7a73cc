package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/pokertable/poker"
)

// EvalCmd ranks hands on a complete board
type EvalCmd struct {
	Hands   []string `arg:"" help:"Hole cards per seat, e.g. 'AcKh' 'Qs Qd'" required:"true"`
	Board   string   `short:"b" required:"" help:"Five board cards, e.g. 'Td 7s 8h 2c Ac'"`
	NoColor bool     `help:"Disable colored output"`
}

var (
	evalHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	evalHandStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	evalWinStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	evalCategoryStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("12"))
)

// seatResult is one evaluated hand
type seatResult struct {
	Seat    int
	Cards   string
	Preflop poker.HoleCardCategory
	Rank    poker.HandRank
	Winner  bool
}

func (c *EvalCmd) Run(_ *Globals) error {
	if c.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	board, results, err := evaluateHands(c.Board, c.Hands)
	if err != nil {
		return err
	}
	printResults(os.Stdout, board, results)
	return nil
}

// splitHand accepts "AcKh" as well as "Ac Kh"
func splitHand(text string) string {
	text = strings.TrimSpace(text)
	if strings.ContainsAny(text, " ,") {
		return text
	}
	runes := []rune(text)
	if len(runes) == 4 {
		return string(runes[:2]) + " " + string(runes[2:])
	}
	return text
}

// evaluateHands ranks every hand on board and marks the winners of a
// single pot all seats are eligible for.
func evaluateHands(board string, hands []string) (string, []seatResult, error) {
	if len(hands) < 1 {
		return "", nil, fmt.Errorf("at least one hand required")
	}
	boardCards, err := poker.ParseCardsText(board)
	if err != nil {
		return "", nil, fmt.Errorf("board: %w", err)
	}
	board = poker.FormatCards(boardCards)

	holes := make([]poker.SeatHole, len(hands))
	eligible := make([]int, len(hands))
	for i, h := range hands {
		holes[i] = poker.SeatHole{Seat: i, Cards: splitHand(h)}
		eligible[i] = i
	}

	ranks, err := poker.RankSeats(board, holes)
	if err != nil {
		return "", nil, err
	}
	winners, err := poker.ComputePotWinners(poker.ShowdownInput{
		Board: board,
		Holes: holes,
		Pots:  [][]int{eligible},
	})
	if err != nil {
		return "", nil, err
	}

	results := make([]seatResult, len(hands))
	for i, h := range holes {
		cards, _ := poker.ParseCardsText(h.Cards)
		results[i] = seatResult{
			Seat:    i,
			Cards:   poker.FormatCards(cards),
			Preflop: poker.CategorizeHoleText(h.Cards),
			Rank:    ranks[i],
			Winner:  slices.Contains(winners[0], i),
		}
	}
	return board, results, nil
}

func printResults(w io.Writer, board string, results []seatResult) {
	fmt.Fprintln(w, evalHeaderStyle.Render("Board: "+board))
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, evalHeaderStyle.Render("Seat")+"\t"+evalHeaderStyle.Render("Hand")+"\t"+
		evalHeaderStyle.Render("Preflop")+"\t"+evalHeaderStyle.Render("Best five"))

	var winners []string
	for _, r := range results {
		rank := r.Rank.String()
		if r.Winner {
			rank = evalWinStyle.Render(rank + " *")
			winners = append(winners, fmt.Sprintf("seat %d", r.Seat))
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", r.Seat, evalHandStyle.Render(r.Cards),
			evalCategoryStyle.Render(string(r.Preflop)), rank)
	}
	_ = tw.Flush()

	fmt.Fprintln(w)
	if len(winners) > 1 {
		fmt.Fprintln(w, evalWinStyle.Render("Split pot: "+strings.Join(winners, ", ")))
	} else {
		fmt.Fprintln(w, evalWinStyle.Render("Winner: "+strings.Join(winners, ", ")))
	}
}
