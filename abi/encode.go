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
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"unicode/utf8"

	"github.com/blinklabs-io/shardclient/ledger"
)

// EncodeState encodes a value using the little-endian state format
func EncodeState(schema *Type, value any) ([]byte, error) {
	return Encode(schema, value, StateByteOrder)
}

// Encode encodes a value according to the schema using the given byte order
func Encode(schema *Type, value any, order binary.ByteOrder) ([]byte, error) {
	if schema == nil {
		return nil, fmt.Errorf("%w: nil schema", ErrInvalidSchema)
	}
	e := &encoder{buf: bytes.NewBuffer(nil), order: order}
	if err := e.encodeValue(schema, value, schema.String()); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

type encoder struct {
	buf   *bytes.Buffer
	order binary.ByteOrder
}

func (e *encoder) fail(path string, format string, args ...any) error {
	return &EncodeError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

func (e *encoder) writeLength(length int, path string) error {
	if length > math.MaxInt32 {
		return e.fail(path, "length %d does not fit in i32", length)
	}
	tmp := make([]byte, 4)
	e.order.PutUint32(tmp, uint32(length)) // #nosec G115
	e.buf.Write(tmp)
	return nil
}

func (e *encoder) writeBool(val bool) {
	if val {
		e.buf.WriteByte(1)
	} else {
		e.buf.WriteByte(0)
	}
}

func (e *encoder) encodeValue(t *Type, value any, path string) error {
	if t == nil {
		return fmt.Errorf("%w: %s: missing type", ErrInvalidSchema, path)
	}
	switch t.Kind {
	case KindU8, KindI8, KindU16, KindI16, KindU32, KindI32, KindU64, KindI64, KindU128, KindI128:
		return e.encodeInt(t, value, path)
	case KindBool:
		val, ok := value.(bool)
		if !ok {
			return e.fail(path, "expected bool, got %T", value)
		}
		e.writeBool(val)
	case KindString:
		val, ok := value.(string)
		if !ok {
			return e.fail(path, "expected string, got %T", value)
		}
		if !utf8.ValidString(val) {
			return e.fail(path, "string is not valid UTF-8")
		}
		if err := e.writeLength(len(val), path); err != nil {
			return err
		}
		e.buf.WriteString(val)
	case KindBytes:
		val, ok := value.([]byte)
		if !ok {
			return e.fail(path, "expected []byte, got %T", value)
		}
		if err := e.writeLength(len(val), path); err != nil {
			return err
		}
		e.buf.Write(val)
	case KindFixed:
		val, ok := value.([]byte)
		if !ok || len(val) != t.Size {
			return e.fail(path, "expected %d bytes, got %T of length %d", t.Size, value, reflectLen(value))
		}
		e.buf.Write(val)
	case KindAddress:
		val, ok := value.(ledger.Address)
		if !ok {
			return e.fail(path, "expected ledger.Address, got %T", value)
		}
		e.buf.Write(val[:])
	case KindHash:
		val, ok := value.([HashLength]byte)
		if !ok {
			return e.fail(path, "expected [%d]byte, got %T", HashLength, value)
		}
		e.buf.Write(val[:])
	case KindVec, KindSet:
		items, err := toList(value)
		if err != nil {
			return e.fail(path, "%s", err)
		}
		if err := e.writeLength(len(items), path); err != nil {
			return err
		}
		for i, item := range items {
			if err := e.encodeValue(t.Elem, item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	case KindMap:
		val, ok := value.(*Map)
		if !ok || val == nil {
			return e.fail(path, "expected *abi.Map, got %T", value)
		}
		if err := e.writeLength(len(val.Entries), path); err != nil {
			return err
		}
		for i, entry := range val.Entries {
			if err := e.encodeValue(t.Key, entry.Key, fmt.Sprintf("%s{%d}.key", path, i)); err != nil {
				return err
			}
			if err := e.encodeValue(t.Elem, entry.Value, fmt.Sprintf("%s{%d}.value", path, i)); err != nil {
				return err
			}
		}
	case KindOption:
		if value == nil {
			e.writeBool(false)
			return nil
		}
		e.writeBool(true)
		return e.encodeValue(t.Elem, value, path)
	case KindStruct:
		val, ok := value.(*Record)
		if !ok || val == nil {
			return e.fail(path, "expected *abi.Record, got %T", value)
		}
		return e.encodeFields(t.Fields, val, path)
	case KindEnum:
		val, ok := value.(*EnumValue)
		if !ok || val == nil {
			return e.fail(path, "expected *abi.EnumValue, got %T", value)
		}
		variant, ok := t.Variant(val.Discriminant)
		if !ok {
			return e.fail(path, "enum %s has no discriminant %d", t, val.Discriminant)
		}
		e.buf.WriteByte(variant.Discriminant)
		return e.encodeFields(variant.Fields, val.Fields, path+"::"+variant.Name)
	default:
		return fmt.Errorf("%w: %s: unsupported kind %s", ErrInvalidSchema, path, t.Kind)
	}
	return nil
}

func (e *encoder) encodeFields(fields []Field, rec *Record, path string) error {
	for _, f := range fields {
		val, ok := rec.Get(f.Name)
		if !ok {
			return e.fail(path+"."+f.Name, "missing field")
		}
		if err := e.encodeValue(f.Type, val, path+"."+f.Name); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) encodeInt(t *Type, value any, path string) error {
	width := intWidths[t.Kind]
	val, err := toBigInt(value)
	if err != nil {
		return e.fail(path, "%s", err)
	}
	bits := uint(width.size * 8)
	lo, hi := new(big.Int), new(big.Int).Lsh(big.NewInt(1), bits)
	if width.signed {
		hi.Rsh(hi, 1)
		lo.Neg(hi)
	}
	// Valid range is [lo, hi)
	if val.Cmp(lo) < 0 || val.Cmp(hi) >= 0 {
		return e.fail(path, "value %s out of range for %s", val, t.Kind)
	}
	if val.Sign() < 0 {
		// Two's complement
		val = new(big.Int).Add(val, new(big.Int).Lsh(big.NewInt(1), bits))
	}
	out := make([]byte, width.size)
	val.FillBytes(out)
	if isLittleEndian(e.order) {
		reverse(out)
	}
	e.buf.Write(out)
	return nil
}

func toBigInt(value any) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		if v == nil {
			return nil, errors.New("nil *big.Int")
		}
		return v, nil
	case int:
		return big.NewInt(int64(v)), nil
	case int8:
		return big.NewInt(int64(v)), nil
	case int16:
		return big.NewInt(int64(v)), nil
	case int32:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	}
	return nil, fmt.Errorf("expected integer, got %T", value)
}

// toList accepts []any as well as any other slice type, such as []ledger.Address
func toList(value any) ([]any, error) {
	if items, ok := value.([]any); ok {
		return items, nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("expected slice, got %T", value)
	}
	ret := make([]any, rv.Len())
	for i := range ret {
		ret[i] = rv.Index(i).Interface()
	}
	return ret, nil
}

func reflectLen(value any) int {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.String:
		return rv.Len()
	}
	return 0
}
