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

package shard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/blinklabs-io/shardclient/abi"
	"github.com/blinklabs-io/shardclient/ledger"
)

// StateResult holds the raw state of a contract
type StateResult struct {
	Shard   ledger.ShardId
	Address ledger.Address
	Data    []byte
}

// RecordResult holds the decoded state of a contract
type RecordResult struct {
	Shard   ledger.ShardId
	Address ledger.Address
	Value   any
	// Consumed is the number of state bytes read by the schema
	Consumed int
	Size     int
}

// Record returns the decoded value as a record, or nil if the schema is not a struct
func (r *RecordResult) Record() *abi.Record {
	ret, _ := r.Value.(*abi.Record)
	return ret
}

// TransactionResult holds the execution status of a transaction along with the
// auxiliary fields of the envelope
type TransactionResult struct {
	Shard           ledger.ShardId
	Identifier      ledger.TransactionId
	Status          ledger.ExecutionStatus
	Events          []json.RawMessage
	TransactionCost json.RawMessage
	Content         string
	IsEvent         bool
}

// Prefer returns a priority list starting with first, followed by the remaining
// shards in their original order
func Prefer(first ledger.ShardId, shards []ledger.ShardId) []ledger.ShardId {
	ret := make([]ledger.ShardId, 0, len(shards)+1)
	ret = append(ret, first)
	for _, shard := range shards {
		if shard != first {
			ret = append(ret, shard)
		}
	}
	return ret
}

// shardFunc performs one attempt against a single shard
type shardFunc[T any] func(ctx context.Context, shard ledger.ShardId) (T, *ShardMissError)

// fallback tries each shard in order and returns the first hit. Exactly one attempt is
// made per shard, and no shard after the first hit is contacted
func fallback[T any](
	ctx context.Context,
	c *Client,
	op string,
	shards []ledger.ShardId,
	fn shardFunc[T],
) (T, error) {
	var zero T
	shards = c.priority(shards)
	causes := make([]*ShardMissError, 0, len(shards))
	for _, shard := range shards {
		if err := ctx.Err(); err != nil {
			return zero, fmt.Errorf("shard: %s: %w", op, err)
		}
		ret, miss := fn(ctx, shard)
		if miss == nil {
			c.logger.Debug(
				"shard hit",
				"op",
				op,
				"shard",
				shard.String(),
			)
			return ret, nil
		}
		c.logger.Debug(
			"shard miss",
			"op",
			op,
			"shard",
			shard.String(),
			"kind",
			string(miss.Kind),
			"error",
			miss.Err,
		)
		causes = append(causes, miss)
	}
	// A cancelled caller is not a data problem
	if err := ctx.Err(); err != nil {
		return zero, fmt.Errorf("shard: %s: %w", op, err)
	}
	return zero, &NoDataError{Causes: causes}
}

func (c *Client) fetchState(
	ctx context.Context,
	shard ledger.ShardId,
	addr ledger.Address,
) ([]byte, *ShardMissError) {
	body, miss := c.get(ctx, shard, c.stateURL(shard, addr))
	if miss != nil {
		return nil, miss
	}
	env, err := parseContractEnvelope(body)
	if err != nil {
		return nil, newMiss(shard, MissMalformed, err)
	}
	data, err := env.stateData()
	if err != nil {
		return nil, newMiss(shard, classify(err), err)
	}
	return data, nil
}

// FetchState returns the raw state bytes of a contract from the first shard that has it
func (c *Client) FetchState(
	ctx context.Context,
	addr ledger.Address,
	shards []ledger.ShardId,
) (*StateResult, error) {
	return fallback(ctx, c, "state", shards,
		func(ctx context.Context, shard ledger.ShardId) (*StateResult, *ShardMissError) {
			data, miss := c.fetchState(ctx, shard, addr)
			if miss != nil {
				return nil, miss
			}
			return &StateResult{Shard: shard, Address: addr, Data: data}, nil
		},
	)
}

// FetchRecord returns the decoded state of a contract from the first shard whose state
// decodes with the schema
func (c *Client) FetchRecord(
	ctx context.Context,
	addr ledger.Address,
	schema *abi.Type,
	shards []ledger.ShardId,
) (*RecordResult, error) {
	if schema == nil {
		return nil, fmt.Errorf("shard: %w: nil schema", abi.ErrInvalidSchema)
	}
	return fallback(ctx, c, "record", shards,
		func(ctx context.Context, shard ledger.ShardId) (*RecordResult, *ShardMissError) {
			data, miss := c.fetchState(ctx, shard, addr)
			if miss != nil {
				return nil, miss
			}
			value, n, err := abi.DecodeState(schema, data)
			if err != nil {
				return nil, newMiss(shard, MissDecode, err)
			}
			return &RecordResult{
				Shard:    shard,
				Address:  addr,
				Value:    value,
				Consumed: n,
				Size:     len(data),
			}, nil
		},
	)
}

// FetchTransaction returns the execution status of a transaction from the first shard
// that knows about it
func (c *Client) FetchTransaction(
	ctx context.Context,
	id ledger.TransactionId,
	shards []ledger.ShardId,
) (*TransactionResult, error) {
	return fallback(ctx, c, "transaction", shards,
		func(ctx context.Context, shard ledger.ShardId) (*TransactionResult, *ShardMissError) {
			body, miss := c.get(ctx, shard, c.transactionURL(shard, id))
			if miss != nil {
				return nil, miss
			}
			ret, err := parseTransactionEnvelope(body, shard, id)
			if err != nil {
				return nil, newMiss(shard, classify(err), err)
			}
			return ret, nil
		},
	)
}

// RecordExists returns the first shard on which the contract is deployed
func (c *Client) RecordExists(
	ctx context.Context,
	addr ledger.Address,
	shards []ledger.ShardId,
) (ledger.ShardId, error) {
	return fallback(ctx, c, "exists", shards,
		func(ctx context.Context, shard ledger.ShardId) (ledger.ShardId, *ShardMissError) {
			body, miss := c.get(ctx, shard, c.stateURL(shard, addr))
			if miss != nil {
				return 0, miss
			}
			env, err := parseContractEnvelope(body)
			if err != nil {
				return 0, newMiss(shard, MissMalformed, err)
			}
			if !env.exists() {
				return 0, newMiss(
					shard,
					MissMissingPayload,
					fmt.Errorf("%w: serializedContract is absent", ErrMissingPayload),
				)
			}
			return shard, nil
		},
	)
}

func classify(err error) MissKind {
	switch {
	case errors.Is(err, ErrMissingPayload):
		return MissMissingPayload
	case errors.Is(err, ErrIdentifierMismatch):
		return MissMissingPayload
	default:
		return MissMalformed
	}
}
