// Package gameid generates session identifiers.
//
// IDs are ULIDs: 26 characters of Crockford base32 that sort by creation
// time, so history files list in the order sessions were started.
package gameid

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/oklog/ulid/v2"
)

// Generator hands out IDs from an injectable clock and entropy source
type Generator struct {
	mu      sync.Mutex
	clock   quartz.Clock
	entropy io.Reader
}

// NewGenerator creates a generator. A nil clock uses the wall clock and a nil
// entropy source uses crypto/rand.
func NewGenerator(clock quartz.Clock, entropy io.Reader) *Generator {
	if clock == nil {
		clock = quartz.NewReal()
	}
	if entropy == nil {
		entropy = rand.Reader
	}
	return &Generator{
		clock:   clock,
		entropy: ulid.Monotonic(entropy, 0),
	}
}

var defaultGenerator = NewGenerator(nil, nil)

// Generate returns a new ID from the default generator
func Generate() string {
	return defaultGenerator.Generate()
}

// Generate returns a new ID. IDs from one generator are strictly increasing,
// even within the same millisecond.
func (g *Generator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(g.clock.Now()), g.entropy).String()
}

// Validate checks that id is a well-formed ID
func Validate(id string) error {
	if _, err := ulid.ParseStrict(id); err != nil {
		return fmt.Errorf("invalid session id %q: %w", id, err)
	}
	return nil
}

// Time returns the creation time encoded in id
func Time(id string) (time.Time, error) {
	u, err := ulid.ParseStrict(id)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid session id %q: %w", id, err)
	}
	return ulid.Time(u.Time()), nil
}
