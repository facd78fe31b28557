package ecs

import "github.com/rs/zerolog"

// defaultGenerationWarnThreshold is where generation growth starts getting
// surfaced. It sits far below the uint64 wraparound point while still leaving
// headroom measured in centuries of reuse.
const defaultGenerationWarnThreshold = 1 << 62

type worldConfig struct {
	logger                  zerolog.Logger
	generationWarnThreshold uint64
	initialCapacity         int
}

func defaultConfig() worldConfig {
	return worldConfig{
		logger:                  zerolog.Nop(),
		generationWarnThreshold: defaultGenerationWarnThreshold,
	}
}

// Option configures a world at construction time.
type Option func(*worldConfig)

// WithLogger routes the world's structured log events to the given logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *worldConfig) {
		c.logger = logger
	}
}

// WithGenerationWarnThreshold overrides the generation at which index reuse
// gets logged as a warning.
func WithGenerationWarnThreshold(threshold uint64) Option {
	return func(c *worldConfig) {
		c.generationWarnThreshold = threshold
	}
}

// WithInitialCapacity pre-sizes the allocator for an expected entity count.
func WithInitialCapacity(capacity int) Option {
	return func(c *worldConfig) {
		c.initialCapacity = capacity
	}
}
