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

package render

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"math"

	_cbor "github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

var cborEncMode = func() _cbor.EncMode {
	opts := _cbor.EncOptions{
		// Make sure that plain maps have ordered keys
		Sort: _cbor.SortCoreDeterministic,
		// Integers that fit are encoded as major type 0/1 rather than bignums
		BigIntConvert: _cbor.BigIntConvertShortest,
	}
	em, err := opts.EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// MarshalCBOR encodes a normalized tree
func MarshalCBOR(tree any) ([]byte, error) {
	return cborEncMode.Marshal(tree)
}

func (o object) MarshalJSON() ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (o object) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, f := range o {
		val := &yaml.Node{}
		if err := val.Encode(f.Value); err != nil {
			return nil, err
		}
		node.Content = append(
			node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Key},
			val,
		)
	}
	return node, nil
}

func (o object) MarshalCBOR() ([]byte, error) {
	buf := bytes.NewBuffer(cborMapHeader(len(o)))
	for _, f := range o {
		key, err := cborEncMode.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		val, err := cborEncMode.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.Write(val)
	}
	return buf.Bytes(), nil
}

// cborMapHeader returns the initial bytes of a definite length map (major type 5)
func cborMapHeader(n int) []byte {
	switch {
	case n < 24:
		return []byte{0xa0 | byte(n)}
	case n <= math.MaxUint8:
		return []byte{0xb8, byte(n)}
	case n <= math.MaxUint16:
		return binary.BigEndian.AppendUint16([]byte{0xb9}, uint16(n))
	default:
		return binary.BigEndian.AppendUint32([]byte{0xba}, uint32(n)) // #nosec G115
	}
}

func (n number) MarshalJSON() ([]byte, error) {
	return []byte(n.String()), nil
}

// MarshalYAML writes the digits as a plain scalar. Values beyond 64 bits would
// otherwise be written with an explicit !!int tag
func (n number) MarshalYAML() (any, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: n.String()}, nil
}

func (n number) MarshalCBOR() ([]byte, error) {
	return cborEncMode.Marshal(n.Int)
}

func (b blob) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

func (b blob) MarshalYAML() (any, error) {
	return b.String(), nil
}
