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

package shardmock

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/blinklabs-io/shardclient/ledger"
)

// Response is a single scripted reply
type Response struct {
	Status int
	Body   string
	Delay  time.Duration
}

// Pre-defined responses
var (
	ResponseNotFound    = Response{Status: http.StatusNotFound, Body: `{"message":"not found"}`}
	ResponseServerError = Response{Status: http.StatusInternalServerError}
	ResponseNullState   = Response{Body: `{"serializedContract":null}`}
	ResponseEmptyState  = Response{Body: `{"serializedContract":""}`}
	ResponseMalformed   = Response{Body: `{"serializedContract":`}
	ResponseEmptyObject = Response{Body: `{}`}
)

// StatePath returns the state endpoint path for an address on a shard
func StatePath(shard ledger.ShardId, addr ledger.Address) string {
	return fmt.Sprintf("/shards/%s/blockchain/contracts/%s", shard, addr)
}

// TransactionPath returns the transaction endpoint path for an identifier on a shard
func TransactionPath(shard ledger.ShardId, id ledger.TransactionId) string {
	return fmt.Sprintf("/chain/shards/%s/transactions/%s", shard, id)
}

// JSON returns a 200 response with the JSON encoding of v
func JSON(v any) Response {
	body, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("error encoding response: %s", err))
	}
	return Response{Body: string(body)}
}

// State returns a state envelope carrying data in the nested open state form
func State(data []byte) Response {
	return JSON(map[string]any{
		"address": "",
		"serializedContract": map[string]any{
			"openState": map[string]any{
				"openState": map[string]any{
					"data": base64.StdEncoding.EncodeToString(data),
				},
			},
		},
	})
}

// WrappedState returns a state envelope carrying data under serializedContract.state,
// as served for the factory contract
func WrappedState(data []byte) Response {
	return JSON(map[string]any{
		"serializedContract": map[string]any{
			"state": map[string]any{
				"data": base64.StdEncoding.EncodeToString(data),
			},
		},
	})
}

// FlatState returns a state envelope carrying data as a plain base64 string
func FlatState(data []byte) Response {
	return JSON(map[string]any{
		"serializedContract": base64.StdEncoding.EncodeToString(data),
	})
}

// Transaction returns a transaction envelope with the given execution status
func Transaction(id ledger.TransactionId, success bool, finalized bool) Response {
	return JSON(map[string]any{
		"identifier": id.String(),
		"executionStatus": map[string]any{
			"success":         success,
			"finalized":       finalized,
			"events":          []any{},
			"transactionCost": map[string]any{"cpu": 1},
		},
		"content": "",
		"isEvent": false,
	})
}

// Delayed returns a copy of the response that is held back for d
func Delayed(resp Response, d time.Duration) Response {
	resp.Delay = d
	return resp
}
