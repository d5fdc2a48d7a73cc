package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	s := play(t, NewTestTable(), StartHand{}, betTo(0, 10), act(1, MoveCall), SetHole{Seat: 2, Text: "As Kd"})
	require.Equal(t, 2, s.Rollback.Len())

	data, err := json.Marshal(s)
	require.NoError(t, err)

	decoded, err := DecodeSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, s, decoded)

	// Undo still works on the decoded copy.
	undone := play(t, decoded, Rollback{}, Rollback{})
	assert.Equal(t, []int{200, 199, 198}, stacks(undone))
}

func TestDecodeLegacySnapshot(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"config": {"smallBlind": 1, "bigBlind": 2},
		"phase": "showdown",
		"street": "river",
		"players": [
			{"name": "A", "stack": 0, "totalCommitted": 50, "status": "allin"},
			{"name": "B", "stack": 0, "totalCommitted": 100, "status": "allin"},
			{"name": "C", "stack": 100, "totalCommitted": 100, "status": "active"}
		],
		"dealerSeat": 0,
		"actionSeat": 2,
		"board": "2c 7d 9h Js 3d",
		"winners": [0, 1]
	}`)

	s, err := DecodeSnapshot(raw)
	require.NoError(t, err)

	assert.Equal(t, SnapshotVersion, s.Version)
	assert.Equal(t, NoSeat, s.ActionSeat)
	assert.Equal(t, []int{0, 1, 2}, []int{s.Players[0].Seat, s.Players[1].Seat, s.Players[2].Seat})
	assert.Equal(t, [][]int{{0, 1}, {1}}, s.PotWinners, "shared winners are split per pot")
	assert.Equal(t, 0, s.Rollback.Len())

	s = play(t, s, SettleHand{})
	assert.Equal(t, []int{75, 175, 100}, stacks(s))
}

func TestDecodeLegacySnapshotWithoutWinners(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"phase": "showdown",
		"players": [
			{"name": "A", "stack": 10, "totalCommitted": 5, "status": "folded"},
			{"name": "B", "stack": 10, "totalCommitted": 5}
		]
	}`)

	s, err := DecodeSnapshot(raw)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, s.Players[1].Status, "missing status derived from stack")
	assert.Equal(t, Preflop, s.Street)
	assert.Equal(t, [][]int{{1}}, s.PotWinners)
}

func TestDecodeSnapshotErrors(t *testing.T) {
	t.Parallel()

	_, err := DecodeSnapshot([]byte(`{"version": 7}`))
	assert.EqualError(t, err, "unsupported snapshot version 7")

	_, err = DecodeSnapshot([]byte(`not json`))
	assert.ErrorContains(t, err, "decode snapshot")
}

func TestNormalizeFillsMissingFields(t *testing.T) {
	t.Parallel()

	s := Normalize(GameState{
		Config:     DefaultConfig(),
		Phase:      PhaseHand,
		DealerSeat: 4,
		ActionSeat: 9,
		Players:    []Player{{Name: "A", Stack: 5}, {Name: "B", Stack: -3}},
		Session:    &Session{ID: "s"},
	})

	assert.Equal(t, Preflop, s.Street)
	assert.Equal(t, 0, s.DealerSeat)
	assert.Equal(t, NoSeat, s.ActionSeat)
	assert.Equal(t, PhaseShowdown, s.Phase, "a hand with one live player goes to showdown")
	assert.Equal(t, 2, s.MinRaise)
	assert.Equal(t, 0, s.Players[1].Stack)
	assert.Equal(t, StatusOut, s.Players[1].Status)
	assert.Equal(t, []int{0, 0}, s.Session.Rebuys)

	empty := Normalize(GameState{})
	assert.Equal(t, PhaseSetup, empty.Phase)
	assert.NotNil(t, empty.Players)
}

func TestDecodeLegacyHandFindsActionSeat(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"config": {"smallBlind": 1, "bigBlind": 2},
		"phase": "hand",
		"currentBet": 2,
		"players": [
			{"name": "A", "stack": 100, "status": "folded"},
			{"name": "B", "stack": 99, "streetBet": 1, "totalCommitted": 1, "status": "active"},
			{"name": "C", "stack": 98, "streetBet": 2, "totalCommitted": 2, "status": "active"}
		],
		"dealerSeat": 0
	}`)

	s, err := DecodeSnapshot(raw)
	require.NoError(t, err)
	require.Equal(t, PhaseHand, s.Phase)
	assert.Equal(t, 1, s.ActionSeat, "folded seat is skipped")

	s = play(t, s, act(1, MoveCall))
	assert.Equal(t, 2, s.ActionSeat)
	assert.Equal(t, []int{100, 98, 98}, stacks(s))
}

func TestNormalizeMovesActionOffSeatThatCannotAct(t *testing.T) {
	t.Parallel()

	s := play(t, NewTestTable(), StartHand{}, betTo(0, 10))
	require.Equal(t, 1, s.ActionSeat)

	stuck := s.Clone()
	stuck.ActionSeat = 0
	fixed := Normalize(stuck)
	assert.Equal(t, 1, fixed.ActionSeat, "seat 0 has already matched the bet")

	stuck = s.Clone()
	stuck.ActionSeat = 1
	stuck.Players[1].Status = StatusFolded
	fixed = Normalize(stuck)
	assert.Equal(t, 2, fixed.ActionSeat)
	fixed = play(t, fixed, act(2, MoveCall))
	assert.Equal(t, Flop, fixed.Street)
}

func TestNormalizeRunsOutAllInHand(t *testing.T) {
	t.Parallel()

	s := play(t, NewTestTable(WithStacks(10, 10)), StartHand{})
	for i := range s.Players {
		s.Players[i].Stack = 0
		s.Players[i].Status = StatusAllIn
	}
	s.ActionSeat = 0

	fixed := Normalize(s)
	assert.Equal(t, PhaseShowdown, fixed.Phase)
	assert.Equal(t, NoSeat, fixed.ActionSeat)
}
