// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package poller

import (
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/blinklabs-io/shardclient/ledger"
)

const (
	DefaultBaseInterval = 2 * time.Second
	DefaultMultiplier   = 1.5
	DefaultMaxInterval  = 5 * time.Second
	// DefaultMaxAttempts covers roughly two minutes at the base interval, which is
	// the lifetime of an unconfirmed transaction on the ledger.
	DefaultMaxAttempts = 60
)

// TransitionFunc is called from the session goroutine after every state change.
type TransitionFunc func(session *Session, from State, to State)

// Config holds configuration for a Poller.
type Config struct {
	// BaseInterval is the delay after the first tick.
	BaseInterval time.Duration
	// Multiplier grows the delay after each consecutive tick.
	Multiplier float64
	// MaxInterval caps the delay between ticks.
	MaxInterval time.Duration
	// MaxAttempts is the number of ticks after which a session gives up.
	MaxAttempts int
	// Shards is the fallback priority used after the transaction's own shard.
	// When empty, the engine's default priority is used.
	Shards []ledger.ShardId
	// OnTransition observes state changes.
	OnTransition TransitionFunc
	// Clock schedules ticks. Defaults to SystemClock.
	Clock Clock
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns a Config with the defaults described on each field.
func DefaultConfig() Config {
	return Config{
		BaseInterval: DefaultBaseInterval,
		Multiplier:   DefaultMultiplier,
		MaxInterval:  DefaultMaxInterval,
		MaxAttempts:  DefaultMaxAttempts,
		Shards:       append([]ledger.ShardId{}, ledger.DefaultShardPriority...),
		Clock:        SystemClock,
	}
}

// Validate checks the config for values that would make polling unbounded or stall.
func (c Config) Validate() error {
	var errs []error
	if c.BaseInterval <= 0 {
		errs = append(errs, errors.New("base interval must be positive"))
	}
	if c.Multiplier < 1 || math.IsNaN(c.Multiplier) || math.IsInf(c.Multiplier, 0) {
		errs = append(errs, errors.New("multiplier must be a finite value of at least 1"))
	}
	if c.MaxInterval < c.BaseInterval {
		errs = append(errs, errors.New("max interval must not be below the base interval"))
	}
	if c.MaxAttempts < 1 {
		errs = append(errs, errors.New("max attempts must be at least 1"))
	}
	return errors.Join(errs...)
}

// Interval returns the delay following the given 1-based tick:
// min(BaseInterval * Multiplier^(tick-1), MaxInterval).
func (c Config) Interval(tick int) time.Duration {
	if tick < 1 {
		tick = 1
	}
	d := float64(c.BaseInterval) * math.Pow(c.Multiplier, float64(tick-1))
	if math.IsNaN(d) || d >= float64(c.MaxInterval) {
		return c.MaxInterval
	}
	return time.Duration(d)
}

// OptionFunc is a functional option for configuring a Poller.
type OptionFunc func(*Config)

// WithConfig applies a complete Config, replacing all default values.
// Options applied after WithConfig still override the config values.
func WithConfig(config Config) OptionFunc {
	return func(c *Config) {
		*c = config
	}
}

// WithBaseInterval sets the delay after the first tick.
func WithBaseInterval(d time.Duration) OptionFunc {
	return func(c *Config) {
		if d > 0 {
			c.BaseInterval = d
		}
	}
}

// WithMultiplier sets the growth factor between consecutive delays.
func WithMultiplier(m float64) OptionFunc {
	return func(c *Config) {
		if m >= 1 {
			c.Multiplier = m
		}
	}
}

// WithMaxInterval caps the delay between ticks.
func WithMaxInterval(d time.Duration) OptionFunc {
	return func(c *Config) {
		if d > 0 {
			c.MaxInterval = d
		}
	}
}

// WithMaxAttempts sets the attempt budget.
func WithMaxAttempts(n int) OptionFunc {
	return func(c *Config) {
		if n > 0 {
			c.MaxAttempts = n
		}
	}
}

// WithShards sets the fallback shard priority.
func WithShards(shards ...ledger.ShardId) OptionFunc {
	return func(c *Config) {
		c.Shards = append([]ledger.ShardId{}, shards...)
	}
}

// WithOnTransition sets the transition observer.
// A nil function is ignored.
func WithOnTransition(fn TransitionFunc) OptionFunc {
	return func(c *Config) {
		if fn != nil {
			c.OnTransition = fn
		}
	}
}

// WithClock sets the scheduler used between ticks.
func WithClock(clock Clock) OptionFunc {
	return func(c *Config) {
		if clock != nil {
			c.Clock = clock
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) OptionFunc {
	return func(c *Config) {
		c.Logger = logger
	}
}
