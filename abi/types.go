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
	"errors"
	"fmt"
	"strings"

	"github.com/blinklabs-io/shardclient/ledger"
)

// Kind identifies the wire representation of a Type
type Kind uint8

const (
	KindU8 Kind = iota + 1
	KindI8
	KindU16
	KindI16
	KindU32
	KindI32
	KindU64
	KindI64
	KindU128
	KindI128
	KindBool
	KindString
	KindBytes
	KindFixed
	KindAddress
	KindHash
	KindVec
	KindSet
	KindMap
	KindOption
	KindStruct
	KindEnum
)

// HashLength is the size of a hash value in bytes
const HashLength = 32

var kindNames = map[Kind]string{
	KindU8:      "u8",
	KindI8:      "i8",
	KindU16:     "u16",
	KindI16:     "i16",
	KindU32:     "u32",
	KindI32:     "i32",
	KindU64:     "u64",
	KindI64:     "i64",
	KindU128:    "u128",
	KindI128:    "i128",
	KindBool:    "bool",
	KindString:  "string",
	KindBytes:   "bytes",
	KindFixed:   "fixed",
	KindAddress: "address",
	KindHash:    "hash",
	KindVec:     "vec",
	KindSet:     "set",
	KindMap:     "map",
	KindOption:  "option",
	KindStruct:  "struct",
	KindEnum:    "enum",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// intWidths holds the wire size and signedness of the integer kinds
var intWidths = map[Kind]struct {
	size   int
	signed bool
}{
	KindU8:   {1, false},
	KindI8:   {1, true},
	KindU16:  {2, false},
	KindI16:  {2, true},
	KindU32:  {4, false},
	KindI32:  {4, true},
	KindU64:  {8, false},
	KindI64:  {8, true},
	KindU128: {16, false},
	KindI128: {16, true},
}

// Type is a schema descriptor. Schemas are static trees of Type values built with
// the constructors in this file and are never modified after construction
type Type struct {
	Kind     Kind
	Name     string
	Size     int
	Elem     *Type
	Key      *Type
	Fields   []Field
	Variants []Variant
}

// Field is a named member of a struct or enum variant
type Field struct {
	Name string
	Type *Type
}

// Variant is one case of an enum, selected by its discriminant byte
type Variant struct {
	Discriminant uint8
	Name         string
	Fields       []Field
}

// Primitive types
var (
	U8      = &Type{Kind: KindU8}
	I8      = &Type{Kind: KindI8}
	U16     = &Type{Kind: KindU16}
	I16     = &Type{Kind: KindI16}
	U32     = &Type{Kind: KindU32}
	I32     = &Type{Kind: KindI32}
	U64     = &Type{Kind: KindU64}
	I64     = &Type{Kind: KindI64}
	U128    = &Type{Kind: KindU128}
	I128    = &Type{Kind: KindI128}
	Bool    = &Type{Kind: KindBool}
	String  = &Type{Kind: KindString}
	Bytes   = &Type{Kind: KindBytes}
	Address = &Type{Kind: KindAddress, Size: ledger.AddressLength}
	Hash    = &Type{Kind: KindHash, Size: HashLength}
)

// Fixed returns a type for a byte array of a fixed size with no length prefix
func Fixed(size int) *Type {
	return &Type{Kind: KindFixed, Size: size}
}

// Vec returns a type for a count-prefixed sequence
func Vec(elem *Type) *Type {
	return &Type{Kind: KindVec, Elem: elem}
}

// Set returns a type for a count-prefixed set. Sets share the vec wire format and
// keep wire order
func Set(elem *Type) *Type {
	return &Type{Kind: KindSet, Elem: elem}
}

// MapOf returns a type for count-prefixed key/value pairs
func MapOf(key *Type, value *Type) *Type {
	return &Type{Kind: KindMap, Key: key, Elem: value}
}

// Option returns a type for a value preceded by a presence flag
func Option(elem *Type) *Type {
	return &Type{Kind: KindOption, Elem: elem}
}

// Struct returns a named record type whose fields are read in order
func Struct(name string, fields ...Field) *Type {
	return &Type{Kind: KindStruct, Name: name, Fields: fields}
}

// Enum returns a tagged union type
func Enum(name string, variants ...Variant) *Type {
	return &Type{Kind: KindEnum, Name: name, Variants: variants}
}

// F returns a Field
func F(name string, t *Type) Field {
	return Field{Name: name, Type: t}
}

// V returns an enum Variant
func V(discriminant uint8, name string, fields ...Field) Variant {
	return Variant{Discriminant: discriminant, Name: name, Fields: fields}
}

// Variant returns the variant with the given discriminant
func (t *Type) Variant(discriminant uint8) (*Variant, bool) {
	for i := range t.Variants {
		if t.Variants[i].Discriminant == discriminant {
			return &t.Variants[i], true
		}
	}
	return nil, false
}

// VariantByName returns the variant with the given name
func (t *Type) VariantByName(name string) (*Variant, bool) {
	for i := range t.Variants {
		if t.Variants[i].Name == name {
			return &t.Variants[i], true
		}
	}
	return nil, false
}

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindFixed:
		return fmt.Sprintf("fixed(%d)", t.Size)
	case KindVec, KindSet, KindOption:
		return fmt.Sprintf("%s<%s>", t.Kind, t.Elem)
	case KindMap:
		return fmt.Sprintf("map<%s, %s>", t.Key, t.Elem)
	case KindStruct, KindEnum:
		if t.Name != "" {
			return t.Name
		}
	}
	return t.Kind.String()
}

// MinWidth returns the smallest number of bytes a value of this type occupies on
// the wire
func (t *Type) MinWidth() int {
	if t == nil {
		return 0
	}
	switch t.Kind {
	case KindBool:
		return 1
	case KindString, KindBytes, KindVec, KindSet, KindMap:
		return 4
	case KindFixed:
		return max(t.Size, 0)
	case KindAddress:
		return ledger.AddressLength
	case KindHash:
		return HashLength
	case KindOption:
		return 1
	case KindStruct:
		return fieldsWidth(t.Fields)
	case KindEnum:
		if len(t.Variants) == 0 {
			return 1
		}
		narrowest := fieldsWidth(t.Variants[0].Fields)
		for _, v := range t.Variants[1:] {
			narrowest = min(narrowest, fieldsWidth(v.Fields))
		}
		return 1 + narrowest
	}
	return intWidths[t.Kind].size
}

func fieldsWidth(fields []Field) int {
	ret := 0
	for _, f := range fields {
		ret += f.Type.MinWidth()
	}
	return ret
}

// Validate checks that a schema tree is well formed: every child type is present,
// field names are unique within a struct or variant and enum discriminants are unique
func (t *Type) Validate() error {
	return t.validate(t.String())
}

func (t *Type) validate(path string) error {
	if t == nil {
		return fmt.Errorf("%s: missing type", path)
	}
	switch t.Kind {
	case KindFixed:
		if t.Size <= 0 {
			return fmt.Errorf("%s: fixed size must be positive", path)
		}
	case KindOption:
		return t.Elem.validate(path + "." + t.Kind.String())
	case KindVec, KindSet:
		if err := t.Elem.validate(path + "." + t.Kind.String()); err != nil {
			return err
		}
		if t.Elem.MinWidth() == 0 {
			return fmt.Errorf("%s: element type %s has zero width", path, t.Elem)
		}
	case KindMap:
		if err := t.Key.validate(path + ".key"); err != nil {
			return err
		}
		if err := t.Elem.validate(path + ".value"); err != nil {
			return err
		}
		if t.Key.MinWidth()+t.Elem.MinWidth() == 0 {
			return fmt.Errorf("%s: entry type has zero width", path)
		}
	case KindStruct:
		return validateFields(path, t.Fields)
	case KindEnum:
		if len(t.Variants) == 0 {
			return fmt.Errorf("%s: enum has no variants", path)
		}
		seen := map[uint8]bool{}
		for _, v := range t.Variants {
			if seen[v.Discriminant] {
				return fmt.Errorf("%s: duplicate discriminant %d", path, v.Discriminant)
			}
			seen[v.Discriminant] = true
			if err := validateFields(path+"::"+v.Name, v.Fields); err != nil {
				return err
			}
		}
	default:
		if _, ok := kindNames[t.Kind]; !ok {
			return fmt.Errorf("%s: unknown kind %d", path, t.Kind)
		}
	}
	return nil
}

func validateFields(path string, fields []Field) error {
	seen := map[string]bool{}
	var errs []error
	for _, f := range fields {
		if f.Name == "" {
			errs = append(errs, fmt.Errorf("%s: unnamed field", path))
			continue
		}
		if seen[f.Name] {
			errs = append(errs, fmt.Errorf("%s: duplicate field %q", path, f.Name))
		}
		seen[f.Name] = true
		if err := f.Type.validate(path + "." + f.Name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Describe renders a schema as an indented, human readable tree
func Describe(t *Type) string {
	var sb strings.Builder
	describe(&sb, t, 0)
	return sb.String()
}

func describe(sb *strings.Builder, t *Type, depth int) {
	indent := strings.Repeat("  ", depth)
	switch t.Kind {
	case KindStruct:
		fmt.Fprintf(sb, "%sstruct %s\n", indent, t)
		describeFields(sb, t.Fields, depth+1)
	case KindEnum:
		fmt.Fprintf(sb, "%senum %s\n", indent, t)
		for _, v := range t.Variants {
			fmt.Fprintf(sb, "%s  %d => %s\n", indent, v.Discriminant, v.Name)
			describeFields(sb, v.Fields, depth+2)
		}
	default:
		fmt.Fprintf(sb, "%s%s\n", indent, t)
	}
}

func describeFields(sb *strings.Builder, fields []Field, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, f := range fields {
		switch f.Type.Kind {
		case KindStruct, KindEnum:
			fmt.Fprintf(sb, "%s%s:\n", indent, f.Name)
			describe(sb, f.Type, depth+1)
		default:
			fmt.Fprintf(sb, "%s%s: %s\n", indent, f.Name, f.Type)
		}
	}
}
