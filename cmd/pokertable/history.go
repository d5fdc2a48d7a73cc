package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/pokertable/internal/history"
)

// HistoryCmd reads recorded sessions
type HistoryCmd struct {
	List HistoryListCmd `cmd:"" default:"1" help:"List recorded sessions"`
	Show HistoryShowCmd `cmd:"" help:"Show every hand of a session"`
}

// StoreFlags locate the history directory
type StoreFlags struct {
	Dir string `short:"d" help:"History directory (overrides config)"`
}

func (h StoreFlags) open(g *Globals) (*history.Store, error) {
	dir := h.Dir
	if dir == "" {
		cfg, err := g.loadConfig()
		if err != nil {
			return nil, err
		}
		dir = cfg.History.Dir
	}
	return history.NewStore(dir)
}

type HistoryListCmd struct {
	StoreFlags
}

func (c *HistoryListCmd) Run(g *Globals) error {
	store, err := c.open(g)
	if err != nil {
		return err
	}
	sessions, err := store.List()
	if err != nil {
		return err
	}
	printSessions(os.Stdout, sessions)
	return nil
}

type HistoryShowCmd struct {
	StoreFlags
	ID string `arg:"" help:"Session ID"`
}

func (c *HistoryShowCmd) Run(g *Globals) error {
	store, err := c.open(g)
	if err != nil {
		return err
	}
	rec, err := store.Load(c.ID)
	if err != nil {
		return err
	}
	printSession(os.Stdout, rec)
	return nil
}

var (
	historyTitleStyle = lipgloss.NewStyle().Bold(true)
	historyWinStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	historyLossStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func printSessions(w io.Writer, sessions []history.Summary) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No sessions recorded")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tENDED\tHANDS\tPLAYERS")
	for _, s := range sessions {
		ended := "open"
		if s.EndedAt != nil {
			ended = s.EndedAt.Format(time.DateTime)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			s.ID, s.StartedAt.Format(time.DateTime), ended, s.Hands, strings.Join(s.Players, ", "))
	}
	_ = tw.Flush()
}

func signed(n int) string {
	text := fmt.Sprintf("%+d", n)
	switch {
	case n > 0:
		return historyWinStyle.Render(text)
	case n < 0:
		return historyLossStyle.Render(text)
	default:
		return text
	}
}

func printSession(w io.Writer, rec *history.SessionRecord) {
	fmt.Fprintln(w, historyTitleStyle.Render("Session "+rec.ID))
	fmt.Fprintf(w, "Started %s", rec.StartedAt.Format(time.DateTime))
	if rec.EndedAt != nil {
		fmt.Fprintf(w, ", ended %s", rec.EndedAt.Format(time.DateTime))
	}
	fmt.Fprintf(w, ", blinds %d/%d", rec.Config.SmallBlind, rec.Config.BigBlind)
	if rec.Config.Ante > 0 {
		fmt.Fprintf(w, " ante %d", rec.Config.Ante)
	}
	fmt.Fprintf(w, ", %d hands\n\n", len(rec.Hands))

	for _, h := range rec.Hands {
		line := fmt.Sprintf("Hand %d", h.Number)
		if h.Board != "" {
			line += " [" + h.Board + "]"
		}
		fmt.Fprintln(w, historyTitleStyle.Render(line))
		for _, s := range h.Seats {
			if s.Committed == 0 && s.Won == 0 {
				continue
			}
			detail := s.Name
			if s.Hole != "" {
				detail += " [" + s.Hole + "]"
			}
			if s.Folded {
				detail += " folded"
			}
			fmt.Fprintf(w, "  %-24s %s\n", detail, signed(s.Net()))
		}
	}
	if len(rec.Hands) > 0 {
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, historyTitleStyle.Render("Results"))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEAT\tPLAYER\tBUY-IN\tREBUYS\tSTACK\tNET")
	net := rec.Net()
	for i, name := range rec.Players {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%s\n", i, name,
			at(rec.InitialStacks, i), at(rec.Rebuys, i), at(rec.FinalStacks, i), signed(at(net, i)))
	}
	_ = tw.Flush()
}

func at(values []int, i int) int {
	if i < len(values) {
		return values[i]
	}
	return 0
}
