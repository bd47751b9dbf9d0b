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

// Package render formats decoded contract state and session status for output
package render

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"slices"
	"strings"
	"time"

	"github.com/blinklabs-io/shardclient/abi"
	"github.com/blinklabs-io/shardclient/ledger"
	"github.com/blinklabs-io/shardclient/poller"
	"github.com/blinklabs-io/shardclient/shard"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	// FormatCBOR writes hex encoded CBOR
	FormatCBOR Format = "cbor"
)

var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatCBOR}

// ParseFormat returns the named output format
func ParseFormat(name string) (Format, error) {
	format := Format(strings.ToLower(name))
	if !slices.Contains(Formats, format) {
		return "", fmt.Errorf("unknown output format %q", name)
	}
	return format, nil
}

// Render writes v in the given format. Struct fields keep their schema order in
// every format
func Render(w io.Writer, format Format, v any) error {
	tree := Normalize(v)
	switch format {
	case FormatText:
		_, err := io.WriteString(w, Text(tree))
		return err
	case FormatJSON:
		data, err := json.MarshalIndent(tree, "", "  ")
		if err != nil {
			return err
		}
		_, err = w.Write(append(data, '\n'))
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tree); err != nil {
			return err
		}
		return enc.Close()
	case FormatCBOR:
		data, err := MarshalCBOR(tree)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, hex.EncodeToString(data)+"\n")
		return err
	}
	return fmt.Errorf("unknown output format %q", format)
}

// field is a single entry of an object
type field struct {
	Key   string
	Value any
}

// object is a map which keeps insertion order
type object []field

func (o object) add(key string, value any) object {
	return append(o, field{Key: key, Value: value})
}

// number is an integer of arbitrary width
type number struct {
	*big.Int
}

// blob is rendered as hex in text formats and as a byte string in CBOR
type blob []byte

func (b blob) String() string {
	return hex.EncodeToString(b)
}

// Normalize converts decoded values into a tree of objects, slices and scalars that
// every output format can handle
func Normalize(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case *abi.Record:
		if val == nil {
			return nil
		}
		ret := make(object, 0, len(val.Fields))
		for _, f := range val.Fields {
			ret = ret.add(f.Name, Normalize(f.Value))
		}
		return ret
	case *abi.EnumValue:
		if val == nil {
			return nil
		}
		if val.Fields == nil || len(val.Fields.Fields) == 0 {
			return val.Variant
		}
		return object{}.add(val.Variant, Normalize(val.Fields))
	case *abi.Map:
		return normalizeMap(val)
	case []any:
		ret := make([]any, len(val))
		for i, item := range val {
			ret[i] = Normalize(item)
		}
		return ret
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		ret := make(object, 0, len(val))
		for _, k := range keys {
			ret = ret.add(k, Normalize(val[k]))
		}
		return ret
	case *big.Int:
		if val == nil {
			return nil
		}
		return number{val}
	case ledger.Address:
		return val.String()
	case ledger.ShardId:
		return val.String()
	case ledger.TransactionId:
		return val.String()
	case []byte:
		return blob(val)
	case [abi.HashLength]byte:
		return blob(val[:])
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	case error:
		return val.Error()
	case poller.State:
		return val.String()
	case poller.Status:
		return normalizeStatus(&val)
	case *poller.Status:
		return normalizeStatus(val)
	case *shard.TransactionResult:
		return normalizeTransaction(val)
	case *shard.StateResult:
		return object{}.
			add("address", val.Address.String()).
			add("shard", val.Shard.String()).
			add("size", len(val.Data)).
			add("data", blob(val.Data))
	case *shard.RecordResult:
		return object{}.
			add("address", val.Address.String()).
			add("shard", val.Shard.String()).
			add("size", val.Size).
			add("state", Normalize(val.Value))
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return val
	}
	return fmt.Sprint(v)
}

func normalizeMap(m *abi.Map) any {
	if m == nil {
		return nil
	}
	keyed := true
	for _, e := range m.Entries {
		switch e.Key.(type) {
		case string, ledger.Address:
		default:
			keyed = false
		}
	}
	if keyed {
		ret := make(object, 0, len(m.Entries))
		for _, e := range m.Entries {
			ret = ret.add(fmt.Sprint(Normalize(e.Key)), Normalize(e.Value))
		}
		return ret
	}
	// Keys such as records or integers are kept as entry objects
	ret := make([]any, len(m.Entries))
	for i, e := range m.Entries {
		ret[i] = object{}.add("key", Normalize(e.Key)).add("value", Normalize(e.Value))
	}
	return ret
}

func normalizeStatus(s *poller.Status) any {
	if s == nil {
		return nil
	}
	ret := object{}.
		add("state", s.State.String()).
		add("attempts", s.Attempts).
		add("shard", s.Shard.String())
	if !s.Address.IsZero() {
		ret = ret.add("address", s.Address.String())
	}
	if s.Transaction != nil {
		ret = ret.add("transaction", normalizeTransaction(s.Transaction))
	}
	if s.LastError != nil {
		ret = ret.add("lastError", s.LastError.Error())
	}
	if s.Err != nil {
		ret = ret.add("error", s.Err.Error())
	}
	ret = ret.add("cancelled", s.Cancelled)
	if !s.UpdatedAt.IsZero() {
		ret = ret.add("updatedAt", Normalize(s.UpdatedAt))
	}
	return ret
}

func normalizeTransaction(t *shard.TransactionResult) any {
	if t == nil {
		return nil
	}
	ret := object{}.
		add("identifier", t.Identifier.String()).
		add("shard", t.Shard.String()).
		add("success", t.Status.Success).
		add("finalized", t.Status.Finalized).
		add("isEvent", t.IsEvent)
	if t.Content != "" {
		ret = ret.add("content", t.Content)
	}
	events := make([]any, 0, len(t.Events))
	for _, raw := range t.Events {
		events = append(events, normalizeRaw(raw))
	}
	ret = ret.add("events", events)
	if len(t.TransactionCost) > 0 {
		ret = ret.add("transactionCost", normalizeRaw(t.TransactionCost))
	}
	return ret
}

// normalizeRaw decodes an opaque JSON value from a node response
func normalizeRaw(raw json.RawMessage) any {
	var tmp any
	if err := json.Unmarshal(raw, &tmp); err != nil {
		return string(raw)
	}
	if items, ok := tmp.([]any); ok {
		return Normalize(items)
	}
	return Normalize(tmp)
}
