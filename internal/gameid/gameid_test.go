package gameid

import (
	"math/rand"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	t.Parallel()

	id := Generate()
	assert.Len(t, id, 26)
	assert.NoError(t, Validate(id))
}

func TestGeneratorIsMonotonic(t *testing.T) {
	t.Parallel()

	clock := quartz.NewMock(t)
	clock.Set(time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC))
	gen := NewGenerator(clock, rand.New(rand.NewSource(1)))

	prev := gen.Generate()
	for range 50 {
		id := gen.Generate()
		require.Greater(t, id, prev, "same millisecond must still sort")
		prev = id
	}

	clock.Advance(time.Second)
	later := gen.Generate()
	assert.Greater(t, later, prev)
}

func TestGeneratorEncodesClockTime(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC)
	clock := quartz.NewMock(t)
	clock.Set(at)

	id := NewGenerator(clock, rand.New(rand.NewSource(7))).Generate()
	got, err := Time(id)
	require.NoError(t, err)
	assert.True(t, got.Equal(at), "got %s", got)
}

func TestGeneratorIsDeterministic(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC)
	newGen := func() *Generator {
		clock := quartz.NewMock(t)
		clock.Set(at)
		return NewGenerator(clock, rand.New(rand.NewSource(42)))
	}

	assert.Equal(t, newGen().Generate(), newGen().Generate())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "valid", id: "01HQ3W4Z8N6B5K2M9P7R3T1V0X"},
		{name: "lowercase", id: "01hq3w4z8n6b5k2m9p7r3t1v0x"},
		{name: "too short", id: "01HQ3W4Z8N6B5K2M9P7R3T", wantErr: true},
		{name: "too long", id: "01HQ3W4Z8N6B5K2M9P7R3T1V0XYZ", wantErr: true},
		{name: "invalid character", id: "01HQ3W4Z8N6B5K2M9P7R3T1V0U", wantErr: true},
		{name: "overflows 128 bits", id: "81HQ3W4Z8N6B5K2M9P7R3T1V0X", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
