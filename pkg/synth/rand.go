package synth

import (
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Rand is the random source a fitted model draws from. It is safe for
// concurrent use, so one fitted model can be sampled from several goroutines.
type Rand struct {
	mu  sync.Mutex
	src *rand.Rand
}

// NewRand returns a Rand seeded with seed. Two models fit from the same data
// with generators of the same seed produce the same sample sequence.
func NewRand(seed int64) *Rand {
	return &Rand{src: rand.New(rand.NewSource(seed))}
}

// Float64 returns a uniform draw in [0, 1).
func (r *Rand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Float64()
}

// Int63 returns a non-negative pseudo-random int64, used to derive seeds for
// independent generators.
func (r *Rand) Int63() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Int63()
}

// Option configures model construction.
type Option func(*settings)

type settings struct {
	rng    *Rand
	logger *zap.Logger
}

// WithRand makes the model and all of its sub-models draw from r.
func WithRand(r *Rand) Option {
	return func(s *settings) {
		s.rng = r
	}
}

// WithSeed is shorthand for WithRand(NewRand(seed)).
func WithSeed(seed int64) Option {
	return WithRand(NewRand(seed))
}

// WithLogger sets the logger used while fitting.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

func newSettings(opts []Option) *settings {
	s := &settings{}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = NewRand(time.Now().UnixNano())
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}
