package game

// Status is a seat's standing in the current hand
type Status string

const (
	StatusActive Status = "active"
	StatusFolded Status = "folded"
	StatusAllIn  Status = "allin"
	StatusOut    Status = "out"
)

// Player represents one seat at the table
type Player struct {
	Seat           int    `json:"seat"`
	Name           string `json:"name"`
	Stack          int    `json:"stack"`
	StreetBet      int    `json:"streetBet"`      // Chips put in on the current street
	TotalCommitted int    `json:"totalCommitted"` // Chips put in this hand, antes included
	Status         Status `json:"status"`
	Acted          bool   `json:"acted"`
	Hole           string `json:"hole,omitempty"`
}

// InHand returns true if the player can still win a pot
func (p Player) InHand() bool {
	return p.Status == StatusActive || p.Status == StatusAllIn
}

// CanAct returns true if the player can still put chips in
func (p Player) CanAct() bool {
	return p.Status == StatusActive && p.Stack > 0
}

func statusForStack(stack int) Status {
	if stack <= 0 {
		return StatusOut
	}
	return StatusActive
}
