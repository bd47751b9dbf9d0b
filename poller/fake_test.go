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

package poller_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/blinklabs-io/shardclient/ledger"
	"github.com/blinklabs-io/shardclient/poller"
	"github.com/blinklabs-io/shardclient/shard"
)

var errNotVisible = errors.New("not visible")

type txReply struct {
	success   bool
	finalized bool
	err       error
}

var (
	replyPending   = txReply{success: true}
	replyFinalized = txReply{success: true, finalized: true}
	replyFailed    = txReply{}
	replyError     = txReply{err: errors.New("all shards missed")}
)

// fakeEngine replays scripted replies. Once a script is exhausted, its last entry
// is repeated
type fakeEngine struct {
	mutex         sync.Mutex
	txReplies     []txReply
	existsReplies []error
	txCalls       [][]ledger.ShardId
	existsCalls   []ledger.Address
	// entered and release, when set, block FetchTransaction until release is closed
	entered chan struct{}
	release chan struct{}
}

func (e *fakeEngine) FetchTransaction(
	_ context.Context,
	id ledger.TransactionId,
	shards []ledger.ShardId,
) (*shard.TransactionResult, error) {
	e.mutex.Lock()
	idx := min(len(e.txCalls), len(e.txReplies)-1)
	e.txCalls = append(e.txCalls, shards)
	reply := e.txReplies[idx]
	entered, release := e.entered, e.release
	e.mutex.Unlock()
	if release != nil {
		entered <- struct{}{}
		<-release
	}
	if reply.err != nil {
		return nil, reply.err
	}
	return &shard.TransactionResult{
		Shard:      shards[0],
		Identifier: id,
		Status: ledger.ExecutionStatus{
			Success:   reply.success,
			Finalized: reply.finalized,
		},
	}, nil
}

func (e *fakeEngine) RecordExists(
	_ context.Context,
	addr ledger.Address,
	shards []ledger.ShardId,
) (ledger.ShardId, error) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	idx := min(len(e.existsCalls), len(e.existsReplies)-1)
	e.existsCalls = append(e.existsCalls, addr)
	if idx < 0 {
		return 0, errNotVisible
	}
	if err := e.existsReplies[idx]; err != nil {
		return 0, err
	}
	return shards[0], nil
}

func (e *fakeEngine) calls() (int, int) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return len(e.txCalls), len(e.existsCalls)
}

// instantClock fires every timer immediately and records the requested delays
type instantClock struct {
	mutex  sync.Mutex
	delays []time.Duration
}

func (c *instantClock) NewTimer(d time.Duration) poller.Timer {
	c.mutex.Lock()
	c.delays = append(c.delays, d)
	c.mutex.Unlock()
	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return &fakeTimer{ch: ch}
}

func (c *instantClock) Delays() []time.Duration {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return append([]time.Duration{}, c.delays...)
}

// manualClock hands out timers that never fire on their own
type manualClock struct {
	mutex  sync.Mutex
	timers []*fakeTimer
	made   chan struct{}
}

func newManualClock() *manualClock {
	return &manualClock{made: make(chan struct{}, 100)}
}

func (c *manualClock) NewTimer(time.Duration) poller.Timer {
	t := &fakeTimer{ch: make(chan time.Time, 1)}
	c.mutex.Lock()
	c.timers = append(c.timers, t)
	c.mutex.Unlock()
	c.made <- struct{}{}
	return t
}

func (c *manualClock) last() *fakeTimer {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.timers[len(c.timers)-1]
}

type fakeTimer struct {
	mutex   sync.Mutex
	ch      chan time.Time
	stopped bool
}

func (t *fakeTimer) C() <-chan time.Time {
	return t.ch
}

func (t *fakeTimer) Stop() bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

func (t *fakeTimer) isStopped() bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.stopped
}

// transitionLog collects state changes reported by a session
type transitionLog struct {
	mutex   sync.Mutex
	entries []string
}

func (l *transitionLog) record(_ *poller.Session, from poller.State, to poller.State) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.entries = append(l.entries, from.String()+"->"+to.String())
}

func (l *transitionLog) Entries() []string {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return append([]string{}, l.entries...)
}
