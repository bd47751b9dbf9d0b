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
	"errors"
	"fmt"
	"strings"

	"github.com/blinklabs-io/shardclient/ledger"
)

var (
	ErrUnexpectedStatus   = errors.New("unexpected HTTP status")
	ErrMissingPayload     = errors.New("response has no payload")
	ErrMalformed          = errors.New("malformed response")
	ErrIdentifierMismatch = errors.New("response identifier does not match")

	// ErrNoData matches any NoDataError via errors.Is
	ErrNoData = errors.New("no shard returned data")
)

// MissKind classifies why a shard did not produce data
type MissKind string

const (
	MissNetwork        MissKind = "network"
	MissHTTPStatus     MissKind = "http-status"
	MissMissingPayload MissKind = "missing-payload"
	MissMalformed      MissKind = "malformed"
	MissDecode         MissKind = "decode"
)

// ShardMissError reports that a single shard did not have the requested data. It is
// recoverable by trying the next shard
type ShardMissError struct {
	Shard ledger.ShardId
	Kind  MissKind
	Err   error
}

func newMiss(shard ledger.ShardId, kind MissKind, err error) *ShardMissError {
	return &ShardMissError{Shard: shard, Kind: kind, Err: err}
}

func (e *ShardMissError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Shard, e.Kind, e.Err)
}

func (e *ShardMissError) Unwrap() error { return e.Err }

// NoDataError is returned when every shard attempted missed. It carries one cause per
// shard, in the order the shards were tried
type NoDataError struct {
	Causes []*ShardMissError
}

func (e *NoDataError) Error() string {
	parts := make([]string, 0, len(e.Causes))
	for _, cause := range e.Causes {
		parts = append(parts, cause.Error())
	}
	return fmt.Sprintf("shard: no data from %d shard(s): %s", len(e.Causes), strings.Join(parts, "; "))
}

// Unwrap exposes the per-shard causes to errors.Is and errors.As
func (e *NoDataError) Unwrap() []error {
	ret := make([]error, 0, len(e.Causes)+1)
	ret = append(ret, ErrNoData)
	for _, cause := range e.Causes {
		ret = append(ret, cause)
	}
	return ret
}

// Has reports whether any shard missed for the given reason
func (e *NoDataError) Has(kind MissKind) bool {
	for _, cause := range e.Causes {
		if cause.Kind == kind {
			return true
		}
	}
	return false
}
