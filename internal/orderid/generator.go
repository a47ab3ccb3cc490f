package orderid

import (
	"fmt"
	"math/rand"
	"time"
)

const (
	// Prefix starts every order code handed to the gateway and the Order API.
	Prefix = "APP"

	segmentMin  = 100
	segmentMax  = 999
	maxAttempts = 100
)

// Generator produces human-readable order codes of the form APP-###-###,
// avoiding repeats within the locally tracked identifier set. There is no
// global uniqueness guarantee across installs.
type Generator struct {
	rand *rand.Rand
	now  func() time.Time
}

// Option adjusts a Generator, mainly for deterministic tests.
type Option func(*Generator)

// WithRand swaps the random source.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) {
		if r != nil {
			g.rand = r
		}
	}
}

// WithNow swaps the clock used by the timestamp fallback.
func WithNow(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// NewGenerator builds a Generator seeded from the current time.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns a fresh order code and records it in existing before
// returning, so the caller only has to persist the updated set. After a
// bounded number of collisions it falls back to a code derived from the
// current millisecond timestamp.
func (g *Generator) Generate(existing map[string]struct{}) string {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate := fmt.Sprintf("%s-%d-%d", Prefix, g.segment(), g.segment())
		if _, taken := existing[candidate]; taken {
			continue
		}
		existing[candidate] = struct{}{}
		return candidate
	}

	code := g.timestampFallback()
	existing[code] = struct{}{}
	return code
}

func (g *Generator) segment() int {
	return segmentMin + g.rand.Intn(segmentMax-segmentMin+1)
}

// timestampFallback splits the last six digits of the unix-milli clock 3/3.
// Two exhausted calls inside the same millisecond collide; accepted limitation.
func (g *Generator) timestampFallback() string {
	digits := g.now().UnixMilli() % 1_000_000
	return fmt.Sprintf("%s-%03d-%03d", Prefix, digits/1000, digits%1000)
}
