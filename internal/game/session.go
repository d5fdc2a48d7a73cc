package game

import (
	"slices"
	"time"
)

// Session is a multi-hand sitting. It survives across hands and records what
// each seat brought to the table so results can be netted out at the end.
type Session struct {
	ID            string     `json:"id"`
	StartedAt     time.Time  `json:"startedAt"`
	EndedAt       *time.Time `json:"endedAt,omitempty"`
	InitialStacks []int      `json:"initialStacks"`
	Rebuys        []int      `json:"rebuys"`
	HandsPlayed   int        `json:"handsPlayed"`
}

// Open returns true if the session has started and not ended
func (s *Session) Open() bool {
	return s != nil && s.EndedAt == nil
}

// Ended returns true once EndSession has been applied
func (s *Session) Ended() bool {
	return s != nil && s.EndedAt != nil
}

// Net returns each seat's result: current stack minus buy-in and rebuys.
func (s *Session) Net(players []Player) []int {
	net := make([]int, len(players))
	for i, p := range players {
		net[i] = p.Stack + p.TotalCommitted
		if s == nil {
			continue
		}
		if i < len(s.InitialStacks) {
			net[i] -= s.InitialStacks[i]
		}
		if i < len(s.Rebuys) {
			net[i] -= s.Rebuys[i]
		}
	}
	return net
}

func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.InitialStacks = slices.Clone(s.InitialStacks)
	out.Rebuys = slices.Clone(s.Rebuys)
	if s.EndedAt != nil {
		ended := *s.EndedAt
		out.EndedAt = &ended
	}
	return &out
}
