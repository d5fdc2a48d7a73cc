package game

import (
	"encoding/json"
	"fmt"
	"time"
)

// ActionType names an Action variant on the wire
type ActionType string

const (
	TypeConfigure        ActionType = "configure"
	TypeSetPlayers       ActionType = "set_players"
	TypeSetDealer        ActionType = "set_dealer"
	TypeStartSession     ActionType = "start_session"
	TypeEndSession       ActionType = "end_session"
	TypeRebuy            ActionType = "rebuy"
	TypeStartHand        ActionType = "start_hand"
	TypePlayerAct        ActionType = "player_act"
	TypeSetBoard         ActionType = "set_board"
	TypeSetHole          ActionType = "set_hole"
	TypeAssignPotWinners ActionType = "assign_pot_winners"
	TypeApplyPotWinners  ActionType = "apply_pot_winners"
	TypeSettleHand       ActionType = "settle_hand"
	TypeCancelHand       ActionType = "cancel_hand"
	TypeRollback         ActionType = "rollback"
	TypeAdoptSnapshot    ActionType = "adopt_snapshot"
	TypeReset            ActionType = "reset"
)

// Move is a betting decision
type Move string

const (
	MoveCheck Move = "check"
	MoveCall  Move = "call"
	MoveFold  Move = "fold"
	MoveAllIn Move = "allin"
	MoveBetTo Move = "bet_to"
)

// Action is an input to Apply. The set of variants is closed.
type Action interface {
	Type() ActionType
	isAction()
}

type (
	// Configure sets the stakes.
	Configure struct {
		SmallBlind int `json:"smallBlind"`
		BigBlind   int `json:"bigBlind"`
		Ante       int `json:"ante"`
	}

	// SetPlayers replaces the roster. Seats are assigned in order.
	SetPlayers struct {
		Players []SeatSpec `json:"players"`
	}

	SetDealer struct {
		Seat int `json:"seat"`
	}

	// StartSession opens a session. The caller supplies the ID and time.
	StartSession struct {
		ID string    `json:"id"`
		At time.Time `json:"at"`
	}

	EndSession struct {
		At time.Time `json:"at"`
	}

	Rebuy struct {
		Seat   int `json:"seat"`
		Amount int `json:"amount"`
	}

	StartHand struct{}

	// PlayerAct is a betting action. Amount is only read for MoveBetTo and
	// is the street total the player wants to reach.
	PlayerAct struct {
		Seat   int  `json:"seat"`
		Move   Move `json:"move"`
		Amount int  `json:"amount,omitempty"`
	}

	SetBoard struct {
		Text string `json:"text"`
	}

	SetHole struct {
		Seat int    `json:"seat"`
		Text string `json:"text"`
	}

	AssignPotWinners struct {
		Pot   int   `json:"pot"`
		Seats []int `json:"seats"`
	}

	// ApplyPotWinners replaces every pot's winners at once.
	ApplyPotWinners struct {
		Winners [][]int `json:"winners"`
	}

	SettleHand struct{}

	CancelHand struct{}

	Rollback struct{}

	// AdoptSnapshot replaces the whole state.
	AdoptSnapshot struct {
		State GameState `json:"state"`
	}

	Reset struct{}
)

// SeatSpec describes one seat for SetPlayers
type SeatSpec struct {
	Name  string `json:"name"`
	Stack int    `json:"stack"`
}

func (Configure) Type() ActionType        { return TypeConfigure }
func (SetPlayers) Type() ActionType       { return TypeSetPlayers }
func (SetDealer) Type() ActionType        { return TypeSetDealer }
func (StartSession) Type() ActionType     { return TypeStartSession }
func (EndSession) Type() ActionType       { return TypeEndSession }
func (Rebuy) Type() ActionType            { return TypeRebuy }
func (StartHand) Type() ActionType        { return TypeStartHand }
func (PlayerAct) Type() ActionType        { return TypePlayerAct }
func (SetBoard) Type() ActionType         { return TypeSetBoard }
func (SetHole) Type() ActionType          { return TypeSetHole }
func (AssignPotWinners) Type() ActionType { return TypeAssignPotWinners }
func (ApplyPotWinners) Type() ActionType  { return TypeApplyPotWinners }
func (SettleHand) Type() ActionType       { return TypeSettleHand }
func (CancelHand) Type() ActionType       { return TypeCancelHand }
func (Rollback) Type() ActionType         { return TypeRollback }
func (AdoptSnapshot) Type() ActionType    { return TypeAdoptSnapshot }
func (Reset) Type() ActionType            { return TypeReset }

func (Configure) isAction()        {}
func (SetPlayers) isAction()       {}
func (SetDealer) isAction()        {}
func (StartSession) isAction()     {}
func (EndSession) isAction()       {}
func (Rebuy) isAction()            {}
func (StartHand) isAction()        {}
func (PlayerAct) isAction()        {}
func (SetBoard) isAction()         {}
func (SetHole) isAction()          {}
func (AssignPotWinners) isAction() {}
func (ApplyPotWinners) isAction()  {}
func (SettleHand) isAction()       {}
func (CancelHand) isAction()       {}
func (Rollback) isAction()         {}
func (AdoptSnapshot) isAction()    {}
func (Reset) isAction()            {}

// MarshalAction encodes an action as a JSON object with a "type" field
// alongside the variant's own fields.
func MarshalAction(a Action) ([]byte, error) {
	if a == nil {
		return nil, fmt.Errorf("marshal action: nil action")
	}
	body, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", a.Type(), err)
	}

	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("marshal %s: %w", a.Type(), err)
	}
	typ, _ := json.Marshal(a.Type())
	fields["type"] = typ
	return json.Marshal(fields)
}

// UnmarshalAction decodes the output of MarshalAction. Snapshots carried by
// adopt_snapshot go through DecodeSnapshot so legacy states are migrated.
func UnmarshalAction(data []byte) (Action, error) {
	var head struct {
		Type ActionType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode action: %w", err)
	}

	switch head.Type {
	case TypeConfigure:
		return decodeAction[Configure](data)
	case TypeSetPlayers:
		return decodeAction[SetPlayers](data)
	case TypeSetDealer:
		return decodeAction[SetDealer](data)
	case TypeStartSession:
		return decodeAction[StartSession](data)
	case TypeEndSession:
		return decodeAction[EndSession](data)
	case TypeRebuy:
		return decodeAction[Rebuy](data)
	case TypeStartHand:
		return StartHand{}, nil
	case TypePlayerAct:
		return decodeAction[PlayerAct](data)
	case TypeSetBoard:
		return decodeAction[SetBoard](data)
	case TypeSetHole:
		return decodeAction[SetHole](data)
	case TypeAssignPotWinners:
		return decodeAction[AssignPotWinners](data)
	case TypeApplyPotWinners:
		return decodeAction[ApplyPotWinners](data)
	case TypeSettleHand:
		return SettleHand{}, nil
	case TypeCancelHand:
		return CancelHand{}, nil
	case TypeRollback:
		return Rollback{}, nil
	case TypeAdoptSnapshot:
		var body struct {
			State json.RawMessage `json:"state"`
		}
		if err := json.Unmarshal(data, &body); err != nil {
			return nil, fmt.Errorf("decode %s: %w", head.Type, err)
		}
		state, err := DecodeSnapshot(body.State)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", head.Type, err)
		}
		return AdoptSnapshot{State: state}, nil
	case TypeReset:
		return Reset{}, nil
	case "":
		return nil, fmt.Errorf("decode action: missing type")
	default:
		return nil, fmt.Errorf("decode action: unknown type %q", head.Type)
	}
}

func decodeAction[T Action](data []byte) (Action, error) {
	var a T
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode %s: %w", a.Type(), err)
	}
	return a, nil
}
