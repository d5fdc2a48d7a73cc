package tui

import (
	"fmt"
	"strings"

	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/server"
	"github.com/lox/pokertable/poker"
)

func renderTable(u server.Update) string {
	s := u.State
	var b strings.Builder

	title := fmt.Sprintf("Table v%d", u.Version)
	if s.Session.Open() {
		title += " • session " + s.Session.ID
	}
	b.WriteString(HeaderStyle.Render(title))
	b.WriteString("\n")

	stakes := fmt.Sprintf("Blinds %d/%d", s.Config.SmallBlind, s.Config.BigBlind)
	if s.Config.Ante > 0 {
		stakes += fmt.Sprintf(" ante %d", s.Config.Ante)
	}
	b.WriteString(InfoStyle.Render(fmt.Sprintf("%s • hand %d", stakes, s.HandNumber+1)))
	b.WriteString("\n\n")

	switch s.Phase {
	case game.PhaseSetup:
		b.WriteString(HandInfoStyle.Render("Between hands"))
	case game.PhaseHand:
		b.WriteString(HandInfoStyle.Render(fmt.Sprintf("%s • to call %d", strings.ToUpper(string(s.Street)), s.CurrentBet)))
	case game.PhaseShowdown:
		b.WriteString(HandInfoStyle.Render("SHOWDOWN"))
	}
	b.WriteString("\n")
	if s.Phase != game.PhaseSetup {
		b.WriteString("Board: " + formatCards(s.Board))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for _, p := range s.Players {
		b.WriteString(renderSeat(s, p))
		b.WriteString("\n")
	}

	if s.Phase != game.PhaseSetup {
		b.WriteString("\n")
		for i, pot := range s.Pots() {
			line := fmt.Sprintf("Pot %d: %d  eligible %v", i, pot.Amount, pot.Eligible)
			if s.Phase == game.PhaseShowdown && i < len(s.PotWinners) && len(s.PotWinners[i]) > 0 {
				line += fmt.Sprintf("  winners %v", s.PotWinners[i])
			}
			b.WriteString(WarningStyle.Render(line))
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func renderSeat(s game.GameState, p game.Player) string {
	marker := "  "
	switch {
	case s.Phase == game.PhaseHand && p.Seat == s.ActionSeat:
		marker = "▶ "
	case p.Seat == s.DealerSeat:
		marker = "D "
	}

	line := fmt.Sprintf("%s%d %-10s %6d", marker, p.Seat, p.Name, p.Stack)
	if s.Phase != game.PhaseSetup {
		if p.StreetBet > 0 {
			line += fmt.Sprintf("  bet %d", p.StreetBet)
		}
		if p.Status != game.StatusActive {
			line += "  " + string(p.Status)
		}
	} else if p.Status == game.StatusOut {
		line += "  out"
	}

	switch {
	case p.Status == game.StatusFolded || p.Status == game.StatusOut:
		line = FoldedSeatStyle.Render(line)
	case s.Phase == game.PhaseHand && p.Seat == s.ActionSeat:
		line = ActiveSeatStyle.Render(line)
	}

	if p.Hole != "" && p.Status != game.StatusOut {
		line += " " + formatCards(p.Hole)
	}
	return line
}

func renderMoves(s game.GameState, moves []game.Move) string {
	seat := s.ActionSeat
	parts := make([]string, 0, len(moves))
	for _, mv := range moves {
		switch mv {
		case game.MoveFold:
			parts = append(parts, ErrorStyle.Render("[fold]"))
		case game.MoveCheck:
			parts = append(parts, HandInfoStyle.Render("[check]"))
		case game.MoveCall:
			parts = append(parts, HandInfoStyle.Render(fmt.Sprintf("[call %d]", s.ToCall(seat))))
		case game.MoveBetTo:
			parts = append(parts, WarningStyle.Render(fmt.Sprintf("[bet %d+]", s.MinBetTo(seat))))
		case game.MoveAllIn:
			p := s.Players[seat]
			parts = append(parts, WarningStyle.Render(fmt.Sprintf("[allin %d]", p.StreetBet+p.Stack)))
		}
	}
	name := s.Players[seat].Name
	return ActionsStyle.Render(fmt.Sprintf("%s to act: ", name)) + strings.Join(parts, " ")
}

// formatCards colours valid card text and leaves anything else as typed
func formatCards(text string) string {
	if strings.TrimSpace(text) == "" {
		return InfoStyle.Render("--")
	}
	cards, err := poker.ParseCardsText(text)
	if err != nil {
		return ErrorStyle.Render(text)
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		if c.Suit.IsRed() {
			parts[i] = RedCardStyle.Render(c.Pretty())
		} else {
			parts[i] = BlackCardStyle.Render(c.Pretty())
		}
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// describe summarises an accepted action as log lines
func describe(a game.Action, prev, next game.GameState) []string {
	var out []string
	name := func(seat int) string {
		if seat >= 0 && seat < len(next.Players) {
			return next.Players[seat].Name
		}
		return fmt.Sprintf("seat %d", seat)
	}

	switch a := a.(type) {
	case game.StartHand:
		out = append(out, HandInfoStyle.Render(fmt.Sprintf("*** HAND %d ***", next.HandNumber+1)))
	case game.PlayerAct:
		p, before := next.Players[a.Seat], prev.Players[a.Seat]
		paid := p.TotalCommitted - before.TotalCommitted
		switch a.Move {
		case game.MoveFold:
			out = append(out, fmt.Sprintf("%s folds", name(a.Seat)))
		case game.MoveCheck:
			out = append(out, fmt.Sprintf("%s checks", name(a.Seat)))
		case game.MoveCall:
			out = append(out, fmt.Sprintf("%s calls %d", name(a.Seat), paid))
		case game.MoveBetTo, game.MoveAllIn:
			verb := "bets to"
			if p.Status == game.StatusAllIn {
				verb = "is all-in for"
			}
			out = append(out, fmt.Sprintf("%s %s %d", name(a.Seat), verb, before.StreetBet+paid))
		}
	case game.SettleHand:
		for i, p := range next.Players {
			if i < len(prev.Players) {
				if won := p.Stack - prev.Players[i].Stack; won > 0 {
					out = append(out, HandInfoStyle.Render(fmt.Sprintf("%s wins %d", p.Name, won)))
				}
			}
		}
	case game.ApplyPotWinners, game.AssignPotWinners:
		out = append(out, fmt.Sprintf("winners: %v", next.PotWinners))
	case game.Rollback:
		out = append(out, WarningStyle.Render("undone"))
	default:
		out = append(out, string(a.Type()))
	}

	if next.Phase == game.PhaseHand && prev.Phase == game.PhaseHand && next.Street != prev.Street {
		out = append(out, HandInfoStyle.Render(fmt.Sprintf("*** %s ***", strings.ToUpper(string(next.Street)))))
	}
	if next.Phase == game.PhaseShowdown && prev.Phase != game.PhaseShowdown {
		out = append(out, HandInfoStyle.Render("*** SHOWDOWN ***"))
	}
	return out
}
