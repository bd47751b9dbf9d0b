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
	"fmt"

	"github.com/blinklabs-io/shardclient/ledger"
)

var ErrSessionCancelled = errors.New("poller: session cancelled")

// ExecutionFailedError is returned when the ledger reports that the transaction did
// not execute successfully. It is terminal
type ExecutionFailedError struct {
	TransactionId ledger.TransactionId
	Shard         ledger.ShardId
}

func (e *ExecutionFailedError) Error() string {
	return fmt.Sprintf(
		"poller: transaction %s failed (reported by %s)",
		e.TransactionId,
		e.Shard,
	)
}

// VerificationPendingError records that the transaction is finalized but the derived
// contract is not yet visible. It is retried and never surfaced as a failure
type VerificationPendingError struct {
	Address ledger.Address
	Err     error
}

func (e *VerificationPendingError) Error() string {
	return fmt.Sprintf("poller: contract %s not visible yet: %s", e.Address, e.Err)
}

func (e *VerificationPendingError) Unwrap() error { return e.Err }

// AttemptBudgetExceededError is returned when the session gave up without reaching an
// outcome. The transaction may still succeed later
type AttemptBudgetExceededError struct {
	TransactionId ledger.TransactionId
	Attempts      int
	LastState     State
	LastError     error
}

func (e *AttemptBudgetExceededError) Error() string {
	msg := fmt.Sprintf(
		"poller: gave up on transaction %s after %d attempts in state %s",
		e.TransactionId,
		e.Attempts,
		e.LastState,
	)
	if e.LastError != nil {
		msg += ": " + e.LastError.Error()
	}
	return msg
}

func (e *AttemptBudgetExceededError) Unwrap() error { return e.LastError }
