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
	"fmt"
	"math/big"
	"reflect"

	"github.com/blinklabs-io/shardclient/ledger"
)

// Record is a decoded struct. Fields keep schema order
type Record struct {
	Name   string
	Fields []FieldValue
}

// FieldValue is a named value within a Record
type FieldValue struct {
	Name  string
	Value any
}

// NewRecord returns a Record with the given fields
func NewRecord(name string, fields ...FieldValue) *Record {
	return &Record{Name: name, Fields: fields}
}

// FV returns a FieldValue
func FV(name string, value any) FieldValue {
	return FieldValue{Name: name, Value: value}
}

// Get returns the value of the named field
func (r *Record) Get(name string) (any, bool) {
	if r == nil {
		return nil, false
	}
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// GetString returns the named field as a string
func (r *Record) GetString(name string) (string, error) {
	return fieldAs[string](r, name)
}

// GetAddress returns the named field as an address
func (r *Record) GetAddress(name string) (ledger.Address, error) {
	return fieldAs[ledger.Address](r, name)
}

// GetBigInt returns the named field as an arbitrary precision integer
func (r *Record) GetBigInt(name string) (*big.Int, error) {
	return fieldAs[*big.Int](r, name)
}

// GetList returns the named vec or set field
func (r *Record) GetList(name string) ([]any, error) {
	return fieldAs[[]any](r, name)
}

// GetRecord returns the named nested struct field
func (r *Record) GetRecord(name string) (*Record, error) {
	return fieldAs[*Record](r, name)
}

// GetEnum returns the named enum field
func (r *Record) GetEnum(name string) (*EnumValue, error) {
	return fieldAs[*EnumValue](r, name)
}

// GetMap returns the named map field
func (r *Record) GetMap(name string) (*Map, error) {
	return fieldAs[*Map](r, name)
}

func fieldAs[T any](r *Record, name string) (T, error) {
	var zero T
	val, ok := r.Get(name)
	if !ok {
		return zero, fmt.Errorf("field %q not found", name)
	}
	ret, ok := val.(T)
	if !ok {
		return zero, fmt.Errorf("field %q has type %T, expected %T", name, val, zero)
	}
	return ret, nil
}

// EnumValue is a decoded tagged union value
type EnumValue struct {
	Enum         string
	Discriminant uint8
	Variant      string
	Fields       *Record
}

// NewEnumValue returns an EnumValue for the named variant of an enum type
func NewEnumValue(t *Type, variant string, fields ...FieldValue) (*EnumValue, error) {
	v, ok := t.VariantByName(variant)
	if !ok {
		return nil, fmt.Errorf("enum %s has no variant %q", t, variant)
	}
	return &EnumValue{
		Enum:         t.Name,
		Discriminant: v.Discriminant,
		Variant:      v.Name,
		Fields:       NewRecord(v.Name, fields...),
	}, nil
}

// Map is a decoded map. Entries keep wire order since keys are not always comparable
type Map struct {
	Entries []MapEntry
}

// MapEntry is a single key/value pair
type MapEntry struct {
	Key   any
	Value any
}

// Len returns the number of entries
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Entries)
}

// Get returns the value for a comparable key, such as a string or an address
func (m *Map) Get(key any) (any, bool) {
	if m == nil || key == nil || !reflect.TypeOf(key).Comparable() {
		return nil, false
	}
	for _, e := range m.Entries {
		if e.Key == nil || !reflect.TypeOf(e.Key).Comparable() {
			continue
		}
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}
