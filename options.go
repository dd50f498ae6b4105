package rubik

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// DefaultScrambleLength is the number of moves Scramble draws when
	// asked for ScrambleDefault and no other length is configured.
	DefaultScrambleLength = 25

	// ScrambleDefault asks Scramble for the configured length.
	ScrambleDefault = -1
)

// Option configures Executor behavior.
type Option func(*config)

type config struct {
	animationHold  bool
	seed           int64
	scrambleLength int
	logger         *log.Logger
}

func defaultConfig() *config {
	return &config{
		animationHold:  false,
		seed:           time.Now().UnixNano(),
		scrambleLength: DefaultScrambleLength,
		logger:         log.New(io.Discard),
	}
}

// WithAnimationHold makes every committed move leave the executor in the
// Rotating status until Settle is called. Renderers that animate turns use
// this to keep new moves out until the animation ends.
func WithAnimationHold(enabled bool) Option {
	return func(c *config) {
		c.animationHold = enabled
	}
}

// WithSeed fixes the scramble random source.
func WithSeed(seed int64) Option {
	return func(c *config) {
		c.seed = seed
	}
}

// WithScrambleLength sets the default scramble length.
func WithScrambleLength(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.scrambleLength = n
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
