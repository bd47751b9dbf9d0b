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

package abi

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/blinklabs-io/shardclient/ledger"
)

var (
	// StateByteOrder is used for state read from the ledger
	StateByteOrder binary.ByteOrder = binary.LittleEndian
	// ActionByteOrder is used for action payloads sent to the ledger
	ActionByteOrder binary.ByteOrder = binary.BigEndian
)

// DecodeState decodes ledger state using the little-endian state format. It returns
// the decoded value and the number of bytes read
func DecodeState(schema *Type, data []byte) (any, int, error) {
	return Decode(schema, data, StateByteOrder)
}

// DecodeStateStrict is like DecodeState, but fails if the schema does not consume
// the entire buffer
func DecodeStateStrict(schema *Type, data []byte) (any, error) {
	ret, n, err := DecodeState(schema, data)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, &DecodeError{
			Reason: fmt.Sprintf("%d bytes left after %s", len(data)-n, schema),
			Offset: n,
			Err:    ErrTrailingBytes,
		}
	}
	return ret, nil
}

// Decode decodes data according to the schema using the given byte order. Either the
// complete value or an error is returned, never both
func Decode(schema *Type, data []byte, order binary.ByteOrder) (any, int, error) {
	if schema == nil {
		return nil, 0, fmt.Errorf("%w: nil schema", ErrInvalidSchema)
	}
	d := &decoder{data: data, order: order}
	ret, err := d.decodeValue(schema, schema.String())
	if err != nil {
		return nil, 0, err
	}
	return ret, d.pos, nil
}

type decoder struct {
	data  []byte
	pos   int
	order binary.ByteOrder
}

func (d *decoder) fail(sentinel error, offset int, path string, format string, args ...any) error {
	return &DecodeError{
		Reason: path + ": " + fmt.Sprintf(format, args...),
		Offset: offset,
		Err:    sentinel,
	}
}

// take consumes n bytes. The returned slice aliases the input and must be copied
// before it is handed out
func (d *decoder) take(n int, path string) ([]byte, error) {
	if n < 0 || n > len(d.data)-d.pos {
		return nil, d.fail(
			ErrUnderrun,
			d.pos,
			path,
			"need %d bytes, %d remaining",
			n,
			len(d.data)-d.pos,
		)
	}
	ret := d.data[d.pos : d.pos+n]
	d.pos += n
	return ret, nil
}

func (d *decoder) readLength(path string) (int, error) {
	offset := d.pos
	buf, err := d.take(4, path)
	if err != nil {
		return 0, err
	}
	length := int32(d.order.Uint32(buf)) // #nosec G115
	if length < 0 {
		return 0, d.fail(ErrNegativeLength, offset, path, "length %d", length)
	}
	return int(length), nil
}

// readCount reads a collection count and checks it against the remaining input. Every
// element occupies at least width bytes, so a larger count can never be satisfied
func (d *decoder) readCount(width int, path string) (int, error) {
	offset := d.pos
	count, err := d.readLength(path)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, nil
	}
	if width <= 0 {
		return 0, d.fail(ErrInvalidSchema, offset, path, "%d elements of zero width", count)
	}
	remaining := len(d.data) - d.pos
	if count > remaining/width {
		return 0, d.fail(
			ErrUnderrun,
			offset,
			path,
			"%d elements need at least %d bytes, %d remaining",
			count,
			count*width,
			remaining,
		)
	}
	return count, nil
}

func (d *decoder) readBool(path string) (bool, error) {
	offset := d.pos
	buf, err := d.take(1, path)
	if err != nil {
		return false, err
	}
	switch buf[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, d.fail(ErrInvalidBool, offset, path, "value 0x%02x", buf[0])
}

func (d *decoder) decodeValue(t *Type, path string) (any, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: %s: missing type", ErrInvalidSchema, path)
	}
	switch t.Kind {
	case KindU8, KindI8, KindU16, KindI16, KindU32, KindI32:
		return d.decodeSmallInt(t, path)
	case KindU64, KindI64, KindU128, KindI128:
		return d.decodeBigInt(t, path)
	case KindBool:
		return d.readBool(path)
	case KindString:
		length, err := d.readLength(path)
		if err != nil {
			return nil, err
		}
		offset := d.pos
		buf, err := d.take(length, path)
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(buf) {
			return nil, d.fail(ErrInvalidUTF8, offset, path, "string of %d bytes", length)
		}
		return string(buf), nil
	case KindBytes:
		length, err := d.readLength(path)
		if err != nil {
			return nil, err
		}
		buf, err := d.take(length, path)
		if err != nil {
			return nil, err
		}
		return append([]byte{}, buf...), nil
	case KindFixed:
		buf, err := d.take(t.Size, path)
		if err != nil {
			return nil, err
		}
		return append([]byte{}, buf...), nil
	case KindAddress:
		offset := d.pos
		buf, err := d.take(ledger.AddressLength, path)
		if err != nil {
			return nil, err
		}
		addr, err := ledger.NewAddressFromBytes(buf)
		if err != nil {
			return nil, d.fail(err, offset, path, "%s", err)
		}
		return addr, nil
	case KindHash:
		buf, err := d.take(HashLength, path)
		if err != nil {
			return nil, err
		}
		var ret [HashLength]byte
		copy(ret[:], buf)
		return ret, nil
	case KindVec, KindSet:
		count, err := d.readCount(t.Elem.MinWidth(), path)
		if err != nil {
			return nil, err
		}
		ret := make([]any, 0, count)
		for i := range count {
			elem, err := d.decodeValue(t.Elem, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			ret = append(ret, elem)
		}
		return ret, nil
	case KindMap:
		count, err := d.readCount(t.Key.MinWidth()+t.Elem.MinWidth(), path)
		if err != nil {
			return nil, err
		}
		ret := &Map{Entries: make([]MapEntry, 0, count)}
		for i := range count {
			key, err := d.decodeValue(t.Key, fmt.Sprintf("%s{%d}.key", path, i))
			if err != nil {
				return nil, err
			}
			val, err := d.decodeValue(t.Elem, fmt.Sprintf("%s{%d}.value", path, i))
			if err != nil {
				return nil, err
			}
			ret.Entries = append(ret.Entries, MapEntry{Key: key, Value: val})
		}
		return ret, nil
	case KindOption:
		present, err := d.readBool(path)
		if err != nil {
			return nil, err
		}
		if !present {
			return nil, nil
		}
		return d.decodeValue(t.Elem, path)
	case KindStruct:
		return d.decodeFields(t.Name, t.Fields, path)
	case KindEnum:
		offset := d.pos
		buf, err := d.take(1, path)
		if err != nil {
			return nil, err
		}
		variant, ok := t.Variant(buf[0])
		if !ok {
			return nil, d.fail(
				ErrUnknownDiscriminant,
				offset,
				path,
				"discriminant %d for enum %s",
				buf[0],
				t,
			)
		}
		fields, err := d.decodeFields(variant.Name, variant.Fields, path+"::"+variant.Name)
		if err != nil {
			return nil, err
		}
		return &EnumValue{
			Enum:         t.Name,
			Discriminant: variant.Discriminant,
			Variant:      variant.Name,
			Fields:       fields,
		}, nil
	}
	return nil, fmt.Errorf("%w: %s: unsupported kind %s", ErrInvalidSchema, path, t.Kind)
}

func (d *decoder) decodeFields(name string, fields []Field, path string) (*Record, error) {
	ret := &Record{Name: name, Fields: make([]FieldValue, 0, len(fields))}
	for _, f := range fields {
		val, err := d.decodeValue(f.Type, path+"."+f.Name)
		if err != nil {
			return nil, err
		}
		ret.Fields = append(ret.Fields, FieldValue{Name: f.Name, Value: val})
	}
	return ret, nil
}

func (d *decoder) decodeSmallInt(t *Type, path string) (any, error) {
	width := intWidths[t.Kind]
	buf, err := d.take(width.size, path)
	if err != nil {
		return nil, err
	}
	// #nosec G115
	switch t.Kind {
	case KindU8:
		return buf[0], nil
	case KindI8:
		return int8(buf[0]), nil
	case KindU16:
		return d.order.Uint16(buf), nil
	case KindI16:
		return int16(d.order.Uint16(buf)), nil
	case KindU32:
		return d.order.Uint32(buf), nil
	default:
		return int32(d.order.Uint32(buf)), nil
	}
}

// decodeBigInt handles integers wider than 32 bits, which are never narrowed to a
// native type
func (d *decoder) decodeBigInt(t *Type, path string) (any, error) {
	width := intWidths[t.Kind]
	buf, err := d.take(width.size, path)
	if err != nil {
		return nil, err
	}
	// big.Int wants big-endian magnitude bytes
	be := make([]byte, len(buf))
	copy(be, buf)
	if isLittleEndian(d.order) {
		reverse(be)
	}
	ret := new(big.Int).SetBytes(be)
	if width.signed && be[0]&0x80 != 0 {
		ret.Sub(ret, new(big.Int).Lsh(big.NewInt(1), uint(width.size*8)))
	}
	return ret, nil
}

func isLittleEndian(order binary.ByteOrder) bool {
	return order.Uint16([]byte{1, 0}) == 1
}

func reverse(buf []byte) {
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
}
