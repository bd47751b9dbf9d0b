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

package ledger

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// TransactionIdLength is the size of a transaction identifier in bytes
const TransactionIdLength = 32

// TransactionId uniquely names a submitted transaction. It is the lowercase hex
// encoding of the transaction hash
type TransactionId string

// NewTransactionId validates and normalizes a transaction identifier
func NewTransactionId(id string) (TransactionId, error) {
	ret := TransactionId(strings.ToLower(strings.TrimPrefix(id, "0x")))
	if _, err := ret.Bytes(); err != nil {
		return "", err
	}
	return ret, nil
}

// Bytes returns the decoded transaction hash
func (id TransactionId) Bytes() ([]byte, error) {
	if len(id) != TransactionIdLength*2 {
		return nil, fmt.Errorf(
			"%w: expected %d hex chars, got %d",
			ErrInvalidTransactionId,
			TransactionIdLength*2,
			len(id),
		)
	}
	ret, err := hex.DecodeString(string(id))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTransactionId, err)
	}
	return ret, nil
}

func (id TransactionId) String() string {
	return string(id)
}

// ExecutionStatus is the ledger's verdict on a transaction. Success=false is terminal.
// Finalized=true means the result is permanent, but not that every shard has seen it
type ExecutionStatus struct {
	Success   bool `json:"success"`
	Finalized bool `json:"finalized"`
}

// TransactionPointer is returned at submission time and names the transaction and
// the shard it landed on
type TransactionPointer struct {
	Identifier       TransactionId `json:"identifier"`
	DestinationShard ShardId       `json:"destinationShardId"`
}
