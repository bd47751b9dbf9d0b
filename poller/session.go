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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/blinklabs-io/shardclient/ledger"
	"github.com/blinklabs-io/shardclient/shard"
	"github.com/google/uuid"
)

// Status is a snapshot of a session
type Status struct {
	State State
	// Attempts is the number of completed ticks
	Attempts int
	// Address is the verified contract address. It is only set once the session
	// has succeeded with a contract kind
	Address ledger.Address
	// Shard is the shard that last reported the transaction status
	Shard ledger.ShardId
	// Transaction is the last transaction envelope received
	Transaction *shard.TransactionResult
	// LastError is the most recent transient error, kept for diagnostics
	LastError error
	// Err is the terminal error of a failed or cancelled session
	Err error
	// Cancelled is true when the session was stopped before reaching a terminal state
	Cancelled bool
	UpdatedAt time.Time
}

type transition struct {
	from State
	to   State
}

// Session tracks a single transaction. Its state is only mutated by its own loop
type Session struct {
	id       string
	pointer  ledger.TransactionPointer
	kind     ledger.AddressKind
	poller   *Poller
	logger   *slog.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	doneChan chan struct{}

	mutex   sync.Mutex
	status  Status
	derived ledger.Address
	stopped bool
}

func newSession(
	ctx context.Context,
	p *Poller,
	pointer ledger.TransactionPointer,
	kind ledger.AddressKind,
) *Session {
	s := &Session{
		id:       uuid.NewString(),
		pointer:  pointer,
		kind:     kind,
		poller:   p,
		doneChan: make(chan struct{}),
		status: Status{
			State:     StatePending,
			Shard:     pointer.DestinationShard,
			UpdatedAt: time.Now(),
		},
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.logger = p.logger.With(
		"session",
		s.id,
		"tx",
		pointer.Identifier.String(),
	)
	return s
}

// ID returns the unique session ID
func (s *Session) ID() string {
	return s.id
}

// Pointer returns the tracked transaction
func (s *Session) Pointer() ledger.TransactionPointer {
	return s.pointer
}

// Kind returns the kind of the derived contract
func (s *Session) Kind() ledger.AddressKind {
	return s.kind
}

// Status returns a snapshot of the session
func (s *Session) Status() Status {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.status
}

// Done returns a channel that is closed when the session loop exits
func (s *Session) Done() <-chan struct{} {
	return s.doneChan
}

// Cancel stops the session. A tick in flight is abandoned and its result is discarded
func (s *Session) Cancel() {
	s.mutex.Lock()
	if !s.stopped {
		s.stopped = true
		s.status.Cancelled = true
		s.status.Err = ErrSessionCancelled
		s.status.UpdatedAt = time.Now()
	}
	s.mutex.Unlock()
	s.cancel()
}

// Wait blocks until the session ends or ctx is done. The error is nil only when
// the session succeeded
func (s *Session) Wait(ctx context.Context) (Status, error) {
	select {
	case <-s.doneChan:
	case <-ctx.Done():
		return s.Status(), ctx.Err()
	}
	status := s.Status()
	if status.State == StateSucceeded {
		return status, nil
	}
	if status.Err != nil {
		return status, status.Err
	}
	return status, ErrSessionCancelled
}

func (s *Session) loop() {
	defer close(s.doneChan)
	defer s.cancel()
	config := s.poller.config
	s.logger.Debug(
		"tracking transaction",
		"shard",
		s.pointer.DestinationShard.String(),
		"kind",
		s.kind.String(),
	)
	for tick := 1; ; tick++ {
		if s.ctx.Err() != nil {
			s.stop()
			return
		}
		if s.tick(tick) {
			return
		}
		if tick >= config.MaxAttempts {
			s.exhaust()
			return
		}
		timer := config.Clock.NewTimer(config.Interval(tick))
		select {
		case <-s.ctx.Done():
			timer.Stop()
			s.stop()
			return
		case <-timer.C():
		}
	}
}

// tick runs one poll and reports whether the session is finished
func (s *Session) tick(n int) bool {
	shards := shard.Prefer(s.pointer.DestinationShard, s.poller.config.Shards)
	res, fetchErr := s.poller.engine.FetchTransaction(s.ctx, s.pointer.Identifier, shards)

	s.mutex.Lock()
	if s.discard() {
		s.mutex.Unlock()
		return true
	}
	s.status.Attempts = n
	var transitions []transition
	state := s.status.State
	switch {
	case fetchErr != nil:
		s.status.LastError = fetchErr
		if state == StatePending {
			transitions = s.moveLocked(transitions, StateExecuting)
		}
	case !res.Status.Success:
		s.status.Transaction = res
		s.status.Shard = res.Shard
		s.status.Err = &ExecutionFailedError{
			TransactionId: s.pointer.Identifier,
			Shard:         res.Shard,
		}
		transitions = s.moveLocked(transitions, StateFailed)
	case !res.Status.Finalized:
		s.status.Transaction = res
		s.status.Shard = res.Shard
		s.status.LastError = nil
		// A lagging shard may report an older status, but the session never goes back
		if state != StateAwaitingReplication {
			transitions = s.moveLocked(transitions, StateExecuting)
		}
	default:
		s.status.Transaction = res
		s.status.Shard = res.Shard
		s.status.LastError = nil
		if s.kind == ledger.AddressKindNone {
			transitions = s.moveLocked(transitions, StateSucceeded)
			break
		}
		if state != StateAwaitingReplication {
			derived, err := ledger.DeriveAddress(s.pointer.Identifier, s.kind)
			if err != nil {
				s.status.Err = err
				transitions = s.moveLocked(transitions, StateFailed)
				break
			}
			s.derived = derived
			transitions = s.moveLocked(transitions, StateAwaitingReplication)
		}
	}
	// Finalization is sticky, so a failed status fetch still lets verification run
	verify := s.status.State == StateAwaitingReplication
	derived := s.derived
	s.status.UpdatedAt = time.Now()
	s.mutex.Unlock()
	s.notify(transitions)

	if !verify {
		return s.Status().State.Terminal()
	}
	return s.verify(derived)
}

// verify checks that the derived contract exists and reports whether the session is
// finished
func (s *Session) verify(derived ledger.Address) bool {
	found, err := s.poller.engine.RecordExists(
		s.ctx,
		derived,
		shard.Prefer(s.pointer.DestinationShard, s.poller.config.Shards),
	)

	s.mutex.Lock()
	if s.discard() {
		s.mutex.Unlock()
		return true
	}
	var transitions []transition
	if err != nil {
		s.status.LastError = &VerificationPendingError{Address: derived, Err: err}
		s.mutex.Unlock()
		s.logger.Debug(
			"derived contract not visible yet",
			"address",
			derived.String(),
			"error",
			err,
		)
		return false
	}
	s.status.Address = derived
	s.status.LastError = nil
	s.status.UpdatedAt = time.Now()
	transitions = s.moveLocked(transitions, StateSucceeded)
	s.mutex.Unlock()
	s.logger.Debug(
		"derived contract verified",
		"address",
		derived.String(),
		"shard",
		found.String(),
	)
	s.notify(transitions)
	return true
}

// discard reports whether results must no longer be applied. The caller must hold
// the mutex
func (s *Session) discard() bool {
	if s.stopped {
		return true
	}
	if s.ctx.Err() != nil {
		s.stopLocked()
		return true
	}
	return false
}

// moveLocked changes the state if the transition is allowed. The caller must hold
// the mutex
func (s *Session) moveLocked(transitions []transition, to State) []transition {
	from := s.status.State
	if from == to || !CanTransition(from, to) {
		return transitions
	}
	s.status.State = to
	if to.Terminal() {
		s.stopped = true
	}
	return append(transitions, transition{from: from, to: to})
}

func (s *Session) notify(transitions []transition) {
	for _, t := range transitions {
		s.logger.Debug(
			"state transition",
			"from",
			t.from.String(),
			"to",
			t.to.String(),
		)
		if fn := s.poller.config.OnTransition; fn != nil {
			fn(s, t.from, t.to)
		}
	}
}

func (s *Session) fail(err error) {
	s.mutex.Lock()
	s.status.Err = err
	transitions := s.moveLocked(nil, StateFailed)
	s.status.UpdatedAt = time.Now()
	s.mutex.Unlock()
	s.logger.Debug("transaction tracking failed", "error", err)
	s.notify(transitions)
}

func (s *Session) exhaust() {
	s.mutex.Lock()
	if s.discard() {
		s.mutex.Unlock()
		return
	}
	s.status.Err = &AttemptBudgetExceededError{
		TransactionId: s.pointer.Identifier,
		Attempts:      s.status.Attempts,
		LastState:     s.status.State,
		LastError:     s.status.LastError,
	}
	transitions := s.moveLocked(nil, StateFailed)
	s.status.UpdatedAt = time.Now()
	s.mutex.Unlock()
	s.notify(transitions)
}

func (s *Session) stop() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.stopLocked()
}

func (s *Session) stopLocked() {
	if s.stopped {
		return
	}
	s.stopped = true
	s.status.Cancelled = true
	s.status.Err = ErrSessionCancelled
	if err := context.Cause(s.ctx); err != nil && !errors.Is(err, context.Canceled) {
		s.status.Err = fmt.Errorf("%w: %w", ErrSessionCancelled, err)
	}
	s.status.UpdatedAt = time.Now()
}
