package poker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputePotWinners(t *testing.T) {
	t.Parallel()

	t.Run("side pots resolved independently", func(t *testing.T) {
		winners, err := ComputePotWinners(ShowdownInput{
			Board: "2c 7d 9h Js 3d",
			Holes: []SeatHole{
				{Seat: 0, Cards: "As Ah"},
				{Seat: 1, Cards: "Ks Kh"},
				{Seat: 2, Cards: "Qs Qh"},
			},
			Pots: [][]int{{0, 1, 2}, {1, 2}, {2}},
		})
		require.NoError(t, err)
		assert.Equal(t, [][]int{{0}, {1}, {2}}, winners)
	})

	t.Run("board plays for everyone", func(t *testing.T) {
		winners, err := ComputePotWinners(ShowdownInput{
			Board: "As Ks Qs Js Ts",
			Holes: []SeatHole{
				{Seat: 0, Cards: "2c 3d"},
				{Seat: 1, Cards: "4h 5h"},
				{Seat: 3, Cards: "6c 7c"},
			},
			Pots: [][]int{{0, 1, 3}},
		})
		require.NoError(t, err)
		assert.Equal(t, [][]int{{0, 1, 3}}, winners)
	})

	t.Run("folded hole is ignored", func(t *testing.T) {
		winners, err := ComputePotWinners(ShowdownInput{
			Board: "2c 7d 9h Js 3d",
			Holes: []SeatHole{
				{Seat: 0, Cards: "", Folded: true},
				{Seat: 1, Cards: "Ks Kh"},
				{Seat: 2, Cards: "4s 5h"},
			},
			Pots: [][]int{{1, 2}},
		})
		require.NoError(t, err)
		assert.Equal(t, [][]int{{1}}, winners)
	})

	t.Run("single eligible pot needs no cards", func(t *testing.T) {
		winners, err := ComputePotWinners(ShowdownInput{
			Board: "2c 7d 9h Js 3d",
			Holes: []SeatHole{
				{Seat: 0, Cards: "Ks Kh"},
				{Seat: 1, Cards: "4s 5h"},
				{Seat: 2, Folded: true},
			},
			Pots: [][]int{{0, 1}, {2}},
		})
		require.NoError(t, err)
		assert.Equal(t, [][]int{{0}, {2}}, winners)
	})
}

func TestComputePotWinnersErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   ShowdownInput
		wantErr string
	}{
		{
			name:    "short board",
			input:   ShowdownInput{Board: "2c 7d 9h Js", Holes: []SeatHole{{Seat: 0, Cards: "As Ah"}}, Pots: [][]int{{0}}},
			wantErr: "exactly 5 cards",
		},
		{
			name:    "bad board token",
			input:   ShowdownInput{Board: "2c 7d 9h Js 1z", Pots: [][]int{{0}}},
			wantErr: `"1z"`,
		},
		{
			name:    "three hole cards",
			input:   ShowdownInput{Board: "2c 7d 9h Js 3d", Holes: []SeatHole{{Seat: 1, Cards: "As Ah Ac"}}, Pots: [][]int{{1}}},
			wantErr: "seat 1: hole must have exactly 2 cards",
		},
		{
			name: "card shared with board",
			input: ShowdownInput{
				Board: "2c 7d 9h Js 3d",
				Holes: []SeatHole{{Seat: 0, Cards: "As 2c"}},
				Pots:  [][]int{{0}},
			},
			wantErr: `duplicate card "2c"`,
		},
		{
			name: "card shared between seats",
			input: ShowdownInput{
				Board: "2c 7d 9h Js 3d",
				Holes: []SeatHole{{Seat: 0, Cards: "As Ah"}, {Seat: 1, Cards: "Ks As"}},
				Pots:  [][]int{{0, 1}},
			},
			wantErr: "seat 0",
		},
		{
			name: "no comparable hands",
			input: ShowdownInput{
				Board: "2c 7d 9h Js 3d",
				Holes: []SeatHole{{Seat: 0, Folded: true}, {Seat: 1, Folded: true}},
				Pots:  [][]int{{0, 1}},
			},
			wantErr: "no comparable hands",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			winners, err := ComputePotWinners(tt.input)
			require.Error(t, err)
			assert.Nil(t, winners)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
