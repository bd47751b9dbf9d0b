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
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/blinklabs-io/shardclient/ledger"
)

// contractEnvelope is the body returned by the state endpoint. The serialized
// contract is either a base64 string, an object with a data field, a state object
// with a data field, or the nested open state object used by public and ZK contracts
type contractEnvelope struct {
	SerializedContract json.RawMessage `json:"serializedContract"`
}

type serializedContract struct {
	Data  *string `json:"data"`
	State *struct {
		Data *string `json:"data"`
	} `json:"state"`
	OpenState *struct {
		OpenState *struct {
			Data *string `json:"data"`
		} `json:"openState"`
	} `json:"openState"`
}

var (
	jsonNull        = []byte("null")
	jsonEmptyString = []byte(`""`)
)

func parseContractEnvelope(body []byte) (*contractEnvelope, error) {
	var env contractEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return &env, nil
}

// exists reports whether the envelope describes a deployed contract. A null or
// empty string serializedContract means the address holds nothing yet
func (e *contractEnvelope) exists() bool {
	raw := bytes.TrimSpace(e.SerializedContract)
	return len(raw) > 0 && !bytes.Equal(raw, jsonNull) && !bytes.Equal(raw, jsonEmptyString)
}

// stateData extracts the raw state bytes
func (e *contractEnvelope) stateData() ([]byte, error) {
	if !e.exists() {
		return nil, fmt.Errorf("%w: serializedContract is absent", ErrMissingPayload)
	}
	raw := bytes.TrimSpace(e.SerializedContract)
	var encoded *string
	switch raw[0] {
	case '"':
		var tmp string
		if err := json.Unmarshal(raw, &tmp); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		encoded = &tmp
	case '{':
		var sc serializedContract
		if err := json.Unmarshal(raw, &sc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		switch {
		case sc.OpenState != nil && sc.OpenState.OpenState != nil:
			encoded = sc.OpenState.OpenState.Data
		case sc.State != nil:
			encoded = sc.State.Data
		default:
			encoded = sc.Data
		}
	default:
		return nil, fmt.Errorf("%w: unexpected serializedContract type", ErrMalformed)
	}
	if encoded == nil {
		return nil, fmt.Errorf("%w: serializedContract carries no state data", ErrMissingPayload)
	}
	data, err := base64.StdEncoding.DecodeString(*encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: state data: %w", ErrMalformed, err)
	}
	return data, nil
}

// transactionEnvelope is the body returned by the transaction endpoint
type transactionEnvelope struct {
	Identifier      string                   `json:"identifier"`
	ExecutionStatus *executionStatusEnvelope `json:"executionStatus"`
	Content         string                   `json:"content"`
	IsEvent         bool                     `json:"isEvent"`
}

type executionStatusEnvelope struct {
	Success         bool              `json:"success"`
	Finalized       bool              `json:"finalized"`
	Events          []json.RawMessage `json:"events"`
	TransactionCost json.RawMessage   `json:"transactionCost"`
}

func parseTransactionEnvelope(
	body []byte,
	shard ledger.ShardId,
	id ledger.TransactionId,
) (*TransactionResult, error) {
	var env transactionEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if !strings.EqualFold(env.Identifier, string(id)) {
		return nil, fmt.Errorf("%w: got %q", ErrIdentifierMismatch, env.Identifier)
	}
	if env.ExecutionStatus == nil {
		return nil, fmt.Errorf("%w: executionStatus is absent", ErrMissingPayload)
	}
	return &TransactionResult{
		Shard:      shard,
		Identifier: id,
		Status: ledger.ExecutionStatus{
			Success:   env.ExecutionStatus.Success,
			Finalized: env.ExecutionStatus.Finalized,
		},
		Events:          env.ExecutionStatus.Events,
		TransactionCost: env.ExecutionStatus.TransactionCost,
		Content:         env.Content,
		IsEvent:         env.IsEvent,
	}, nil
}
