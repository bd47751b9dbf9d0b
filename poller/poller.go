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

// Package poller tracks submitted transactions until they reach a verified outcome.
//
// Each tracked transaction gets a Session running a single sequential loop. A tick
// fetches the execution status across shards, starting with the shard the transaction
// was submitted to. Once the ledger reports the transaction as finalized, the address
// of the contract it created is derived from the transaction ID, and the session only
// succeeds after that contract is found on a shard.
package poller

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/blinklabs-io/shardclient/ledger"
	"github.com/blinklabs-io/shardclient/shard"
)

// Engine is the subset of the shard client used for polling
type Engine interface {
	FetchTransaction(
		ctx context.Context,
		id ledger.TransactionId,
		shards []ledger.ShardId,
	) (*shard.TransactionResult, error)
	RecordExists(
		ctx context.Context,
		addr ledger.Address,
		shards []ledger.ShardId,
	) (ledger.ShardId, error)
}

// Poller starts tracking sessions. It holds no per-session state and may be shared
type Poller struct {
	engine Engine
	config Config
	logger *slog.Logger
}

// New returns a Poller using the given engine and options
func New(engine Engine, opts ...OptionFunc) *Poller {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Clock == nil {
		config.Clock = SystemClock
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		engine: engine,
		config: config,
		logger: logger.With("component", "poller"),
	}
}

// Config returns a copy of the poller config
func (p *Poller) Config() Config {
	ret := p.config
	ret.Shards = append([]ledger.ShardId{}, p.config.Shards...)
	return ret
}

// Track starts polling a transaction. The kind selects the derived contract whose
// existence confirms success. With ledger.AddressKindNone, the transaction does not
// create a contract and succeeds once finalized. The session stops when it reaches a
// terminal state, when Cancel is called or when ctx is done
func (p *Poller) Track(
	ctx context.Context,
	pointer ledger.TransactionPointer,
	kind ledger.AddressKind,
) *Session {
	pointer, err := p.validate(pointer, kind)
	s := newSession(ctx, p, pointer, kind)
	if err != nil {
		s.fail(err)
		close(s.doneChan)
		s.cancel()
		return s
	}
	go s.loop()
	return s
}

// validate checks the tracking request and normalizes the transaction ID
func (p *Poller) validate(
	pointer ledger.TransactionPointer,
	kind ledger.AddressKind,
) (ledger.TransactionPointer, error) {
	if err := p.config.Validate(); err != nil {
		return pointer, fmt.Errorf("poller: invalid config: %w", err)
	}
	id, err := ledger.NewTransactionId(string(pointer.Identifier))
	if err != nil {
		return pointer, err
	}
	pointer.Identifier = id
	if kind != ledger.AddressKindNone && !kind.Valid() {
		return pointer, fmt.Errorf("%w: unknown kind %d", ledger.ErrInvalidAddress, kind)
	}
	return pointer, nil
}

// SubmitAndTrack submits a payload using the submitter and starts tracking the
// resulting transaction
func SubmitAndTrack(
	ctx context.Context,
	p *Poller,
	submitter ledger.Submitter,
	target ledger.Address,
	payload []byte,
	kind ledger.AddressKind,
) (*Session, error) {
	pointer, err := submitter.Submit(ctx, target, payload)
	if err != nil {
		return nil, fmt.Errorf("poller: submit to %s: %w", target, err)
	}
	return p.Track(ctx, pointer, kind), nil
}
