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

package render_test

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/blinklabs-io/shardclient/abi"
	"github.com/blinklabs-io/shardclient/internal/render"
	"github.com/blinklabs-io/shardclient/internal/test"
	"github.com/blinklabs-io/shardclient/ledger"
	"github.com/blinklabs-io/shardclient/poller"
	"github.com/blinklabs-io/shardclient/shard"
	_cbor "github.com/fxamacker/cbor/v2"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const testTxId = "a3f1c2d4e5b60718293a4b5c6d7e8f90112233445566778899aabbccddeeff00"

func testBallot() *abi.Record {
	return abi.NewRecord(
		"BallotState",
		abi.FV("organization", test.MustAddress("022c2353d9d52f50713581b9d5979997a84fdbf38d")),
		abi.FV("title", "Lunch"),
		abi.FV("options", []any{"pizza", "sushi"}),
		abi.FV("startTime", big.NewInt(1700000000000)),
		abi.FV("status", &abi.EnumValue{
			Enum:         "BallotStatus",
			Discriminant: 1,
			Variant:      "Active",
			Fields:       abi.NewRecord("Active"),
		}),
		abi.FV("voters", []any{}),
		abi.FV("tally", nil),
		abi.FV("result", &abi.EnumValue{
			Enum:         "Outcome",
			Discriminant: 3,
			Variant:      "Completed",
			Fields:       abi.NewRecord("Completed", abi.FV("winner", uint8(1))),
		}),
		abi.FV("salt", []byte{0xde, 0xad}),
		abi.FV("weights", &abi.Map{Entries: []abi.MapEntry{
			{Key: "pizza", Value: uint32(3)},
			{Key: "sushi", Value: uint32(2)},
		}}),
	)
}

func testStatus() poller.Status {
	id := test.MustTransactionId(testTxId)
	addr, err := ledger.DeriveAddress(id, ledger.AddressKindZkContract)
	if err != nil {
		panic(err)
	}
	return poller.Status{
		State:    poller.StateSucceeded,
		Attempts: 4,
		Address:  addr,
		Shard:    1,
		Transaction: &shard.TransactionResult{
			Shard:           1,
			Identifier:      id,
			Status:          ledger.ExecutionStatus{Success: true, Finalized: true},
			Events:          []json.RawMessage{},
			TransactionCost: json.RawMessage(`{"cpu":1}`),
		},
		UpdatedAt: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC),
	}
}

func renderString(t *testing.T, format render.Format, v any) []byte {
	t.Helper()
	buf := bytes.NewBuffer(nil)
	require.NoError(t, render.Render(buf, format, v))
	return buf.Bytes()
}

func TestRenderGolden(t *testing.T) {
	g := goldie.New(t)
	g.Assert(t, "ballot_text", renderString(t, render.FormatText, testBallot()))
	g.Assert(t, "ballot_json", renderString(t, render.FormatJSON, testBallot()))
	g.Assert(t, "status_text", renderString(t, render.FormatText, testStatus()))
}

func TestRenderYAMLKeepsFieldOrder(t *testing.T) {
	out := string(renderString(t, render.FormatYAML, testBallot()))
	var node yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(out), &node))
	require.Len(t, node.Content, 1)
	mapping := node.Content[0]
	keys := []string{}
	for i := 0; i < len(mapping.Content); i += 2 {
		keys = append(keys, mapping.Content[i].Value)
	}
	assert.Equal(
		t,
		[]string{
			"organization", "title", "options", "startTime", "status",
			"voters", "tally", "result", "salt", "weights",
		},
		keys,
	)

	var tmp map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &tmp))
	assert.Equal(t, 1700000000000, tmp["startTime"])
	assert.Equal(t, "022c2353d9d52f50713581b9d5979997a84fdbf38d", tmp["organization"])
	assert.Equal(t, "Active", tmp["status"])
	assert.Nil(t, tmp["tally"])
}

func TestRenderCBOR(t *testing.T) {
	out := strings.TrimSpace(string(renderString(t, render.FormatCBOR, testBallot())))
	data, err := hex.DecodeString(out)
	require.NoError(t, err)
	// Definite length map with 10 entries, starting with the first schema field
	assert.Equal(t, byte(0xaa), data[0])
	assert.Equal(t, append([]byte{0x6c}, "organization"...), data[1:14])

	var tmp map[any]any
	require.NoError(t, _cbor.Unmarshal(data, &tmp))
	assert.Equal(t, "Lunch", tmp["title"])
	assert.Equal(t, uint64(1700000000000), tmp["startTime"])
	assert.Equal(t, []byte{0xde, 0xad}, tmp["salt"])
	assert.Equal(t, []any{"pizza", "sushi"}, tmp["options"])
}

func TestRenderWideInteger(t *testing.T) {
	val := test.BigInt("340282366920938463463374607431768211455")
	assert.Equal(t, "340282366920938463463374607431768211455\n", string(renderString(t, render.FormatJSON, val)))
	assert.Equal(t, "340282366920938463463374607431768211455\n", string(renderString(t, render.FormatYAML, val)))
	assert.Equal(t, "340282366920938463463374607431768211455\n", string(renderString(t, render.FormatText, val)))
	// Values beyond 64 bits become a tagged bignum, smaller ones a plain integer
	assert.Equal(t, "c250"+strings.Repeat("ff", 16)+"\n", string(renderString(t, render.FormatCBOR, val)))
	assert.Equal(t, "07\n", string(renderString(t, render.FormatCBOR, big.NewInt(7))))
}

func TestRenderMapWithRecordKeys(t *testing.T) {
	m := &abi.Map{Entries: []abi.MapEntry{
		{Key: uint8(7), Value: "seven"},
	}}
	out := string(renderString(t, render.FormatJSON, m))
	assert.JSONEq(t, `[{"key":7,"value":"seven"}]`, out)
}

func TestRenderRecordResult(t *testing.T) {
	res := &shard.RecordResult{
		Shard:   2,
		Address: test.MustAddress("022c2353d9d52f50713581b9d5979997a84fdbf38d"),
		Value:   abi.NewRecord("S", abi.FV("a", uint8(1))),
		Size:    1,
	}
	assert.Equal(
		t,
		"address: 022c2353d9d52f50713581b9d5979997a84fdbf38d\nshard: Shard2\nsize: 1\nstate:\n  a: 1\n",
		string(renderString(t, render.FormatText, res)),
	)
}

func TestParseFormat(t *testing.T) {
	for _, format := range render.Formats {
		parsed, err := render.ParseFormat(strings.ToUpper(string(format)))
		require.NoError(t, err)
		assert.Equal(t, format, parsed)
	}
	_, err := render.ParseFormat("xml")
	assert.Error(t, err)
}
