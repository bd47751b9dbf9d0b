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

package abi_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/blinklabs-io/shardclient/abi"
	"github.com/blinklabs-io/shardclient/internal/test"
	"github.com/blinklabs-io/shardclient/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStatusType = abi.Enum(
	"Status",
	abi.V(0, "Created"),
	abi.V(1, "Active"),
	abi.V(3, "Completed", abi.F("winner", abi.U8)),
)

var testBallotType = abi.Struct(
	"Ballot",
	abi.F("organization", abi.Address),
	abi.F("title", abi.String),
	abi.F("options", abi.Vec(abi.String)),
	abi.F("startTime", abi.U64),
	abi.F("status", abi.Option(testStatusType)),
	abi.F("voters", abi.Set(abi.Address)),
	abi.F("tally", abi.Option(abi.Struct(
		"Tally",
		abi.F("option0", abi.U32),
		abi.F("total", abi.U32),
	))),
)

// Layout (little-endian):
//
//	0   organization (21)
//	21  title length, 25 title bytes
//	30  options count, 34 options
//	52  startTime (8)
//	60  status presence, 61 discriminant, 62 winner
//	63  voters count, 67 voter 1, 88 voter 2
//	109 tally presence, 110 option0, 114 total
const testBallotHex = `
022c2353d9d52f50713581b9d5979997a84fdbf38d
050000004c756e6368
02000000 0500000070697a7a61 050000007375736869
0068e5cf8b010000
01 03 01
02000000 001111111111111111111111111111111111111111 002222222222222222222222222222222222222222
01 07000000 09000000
`

func TestDecodeState(t *testing.T) {
	data := test.DecodeHexString(testBallotHex)
	val, n, err := abi.DecodeState(testBallotType, data)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)

	rec, ok := val.(*abi.Record)
	require.True(t, ok, "expected *abi.Record, got %T", val)
	assert.Equal(t, "Ballot", rec.Name)

	org, err := rec.GetAddress("organization")
	require.NoError(t, err)
	assert.Equal(t, "022c2353d9d52f50713581b9d5979997a84fdbf38d", org.String())

	title, err := rec.GetString("title")
	require.NoError(t, err)
	assert.Equal(t, "Lunch", title)

	options, err := rec.GetList("options")
	require.NoError(t, err)
	assert.Equal(t, []any{"pizza", "sushi"}, options)

	startTime, err := rec.GetBigInt("startTime")
	require.NoError(t, err)
	assert.Equal(t, 0, startTime.Cmp(big.NewInt(1700000000000)))

	status, err := rec.GetEnum("status")
	require.NoError(t, err)
	assert.Equal(t, "Completed", status.Variant)
	assert.Equal(t, uint8(3), status.Discriminant)
	winner, ok := status.Fields.Get("winner")
	require.True(t, ok)
	assert.Equal(t, uint8(1), winner)

	voters, err := rec.GetList("voters")
	require.NoError(t, err)
	assert.Equal(
		t,
		[]any{
			test.MustAddress("001111111111111111111111111111111111111111"),
			test.MustAddress("002222222222222222222222222222222222222222"),
		},
		voters,
	)

	tally, err := rec.GetRecord("tally")
	require.NoError(t, err)
	total, _ := tally.Get("total")
	assert.Equal(t, uint32(9), total)
}

func TestDecodeStateOptionAbsent(t *testing.T) {
	schema := abi.Struct(
		"Opt",
		abi.F("a", abi.Option(abi.String)),
		abi.F("b", abi.U8),
	)
	val, n, err := abi.DecodeState(schema, []byte{0x00, 0x2a})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	rec := val.(*abi.Record)
	a, ok := rec.Get("a")
	assert.True(t, ok)
	assert.Nil(t, a)
	b, _ := rec.Get("b")
	assert.Equal(t, uint8(42), b)
}

func TestDecodeStateErrors(t *testing.T) {
	testDefs := []struct {
		name     string
		mutate   func([]byte) []byte
		sentinel error
		offset   int
	}{
		{
			name: "count exceeds remaining bytes",
			mutate: func(b []byte) []byte {
				return b[:100]
			},
			sentinel: abi.ErrUnderrun,
			offset:   63,
		},
		{
			name: "underrun",
			mutate: func(b []byte) []byte {
				return b[:112]
			},
			sentinel: abi.ErrUnderrun,
			offset:   110,
		},
		{
			name: "unknown discriminant",
			mutate: func(b []byte) []byte {
				b[61] = 0x07
				return b
			},
			sentinel: abi.ErrUnknownDiscriminant,
			offset:   61,
		},
		{
			name: "invalid utf-8",
			mutate: func(b []byte) []byte {
				b[25] = 0xff
				return b
			},
			sentinel: abi.ErrInvalidUTF8,
			offset:   25,
		},
		{
			name: "negative length",
			mutate: func(b []byte) []byte {
				copy(b[30:34], []byte{0xff, 0xff, 0xff, 0xff})
				return b
			},
			sentinel: abi.ErrNegativeLength,
			offset:   30,
		},
		{
			name: "invalid option flag",
			mutate: func(b []byte) []byte {
				b[60] = 0x02
				return b
			},
			sentinel: abi.ErrInvalidBool,
			offset:   60,
		},
		{
			name: "invalid address kind",
			mutate: func(b []byte) []byte {
				b[67] = 0x42
				return b
			},
			sentinel: ledger.ErrInvalidAddress,
			offset:   67,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			data := testDef.mutate(test.DecodeHexString(testBallotHex))
			val, n, err := abi.DecodeState(testBallotType, data)
			require.Error(t, err)
			assert.Nil(t, val, "no partial value on error")
			assert.Equal(t, 0, n)
			assert.ErrorIs(t, err, testDef.sentinel)
			var decErr *abi.DecodeError
			require.True(t, errors.As(err, &decErr))
			assert.Equal(t, testDef.offset, decErr.Offset)
		})
	}
}

func TestDecodeStateStrict(t *testing.T) {
	data := append(test.DecodeHexString(testBallotHex), 0xaa, 0xbb)
	_, n, err := abi.DecodeState(testBallotType, data)
	require.NoError(t, err)
	assert.Equal(t, len(data)-2, n)

	_, err = abi.DecodeStateStrict(testBallotType, data)
	assert.ErrorIs(t, err, abi.ErrTrailingBytes)

	_, err = abi.DecodeStateStrict(testBallotType, data[:len(data)-2])
	assert.NoError(t, err)
}

func TestDecodeWideIntegers(t *testing.T) {
	testDefs := []struct {
		schema   *abi.Type
		hex      string
		expected string
	}{
		{abi.U64, "ffffffffffffffff", "18446744073709551615"},
		{abi.I64, "ffffffffffffffff", "-1"},
		{abi.I64, "0000000000000080", "-9223372036854775808"},
		{abi.U128, "ffffffffffffffffffffffffffffffff", "340282366920938463463374607431768211455"},
		{abi.U128, "00000000000000000100000000000000", "18446744073709551616"},
		{abi.I128, "feffffffffffffffffffffffffffffff", "-2"},
	}
	for _, testDef := range testDefs {
		val, _, err := abi.DecodeState(testDef.schema, test.DecodeHexString(testDef.hex))
		require.NoError(t, err)
		bi, ok := val.(*big.Int)
		require.True(t, ok, "expected *big.Int, got %T", val)
		assert.Equal(t, testDef.expected, bi.String(), "%s %s", testDef.schema, testDef.hex)
	}
}

func TestDecodeSmallIntegers(t *testing.T) {
	testDefs := []struct {
		schema   *abi.Type
		hex      string
		expected any
	}{
		{abi.U8, "ff", uint8(255)},
		{abi.I8, "ff", int8(-1)},
		{abi.U16, "3412", uint16(0x1234)},
		{abi.I16, "feff", int16(-2)},
		{abi.U32, "78563412", uint32(0x12345678)},
		{abi.I32, "ffffff7f", int32(2147483647)},
	}
	for _, testDef := range testDefs {
		val, _, err := abi.DecodeState(testDef.schema, test.DecodeHexString(testDef.hex))
		require.NoError(t, err)
		assert.Equal(t, testDef.expected, val)
	}
}

func TestDecodeByteOrder(t *testing.T) {
	data := test.DecodeHexString("00000001")
	le, _, err := abi.Decode(abi.U32, data, abi.StateByteOrder)
	require.NoError(t, err)
	be, _, err := abi.Decode(abi.U32, data, abi.ActionByteOrder)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x01000000), le)
	assert.Equal(t, uint32(1), be)
}

func TestDecodeMap(t *testing.T) {
	schema := abi.MapOf(abi.String, abi.Vec(abi.U8))
	data := test.DecodeHexString(`
		02000000
		0100000061 02000000 0102
		0100000062 00000000
	`)
	val, n, err := abi.DecodeState(schema, data)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)
	m := val.(*abi.Map)
	assert.Equal(t, 2, m.Len())
	a, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, []any{uint8(1), uint8(2)}, a)
	b, ok := m.Get("b")
	require.True(t, ok)
	assert.Equal(t, []any{}, b)
	_, ok = m.Get([]byte("a"))
	assert.False(t, ok)
}

func TestDecodeBytesAreCopied(t *testing.T) {
	data := test.DecodeHexString("03000000 aabbcc")
	val, _, err := abi.DecodeState(abi.Bytes, data)
	require.NoError(t, err)
	data[4] = 0x00
	assert.Equal(t, []byte{0xaa, 0xbb, 0xcc}, val)
}

func TestDecodeHugeCountDoesNotAllocate(t *testing.T) {
	// A count of 0x7fffffff with no elements must fail quickly with an underrun
	_, _, err := abi.DecodeState(abi.Vec(abi.U8), test.DecodeHexString("ffffff7f"))
	assert.ErrorIs(t, err, abi.ErrUnderrun)
}

func TestDecodeZeroWidthElements(t *testing.T) {
	unit := abi.Struct("Unit")
	testDefs := []struct {
		name   string
		schema *abi.Type
	}{
		{"vec", abi.Vec(unit)},
		{"set", abi.Set(unit)},
		{"map", abi.MapOf(unit, unit)},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			assert.Error(t, testDef.schema.Validate())

			val, n, err := abi.DecodeState(testDef.schema, test.DecodeHexString("002d3101"))
			require.Error(t, err)
			assert.Nil(t, val)
			assert.Equal(t, 0, n)
			assert.ErrorIs(t, err, abi.ErrInvalidSchema)
			var decErr *abi.DecodeError
			require.True(t, errors.As(err, &decErr))
			assert.Equal(t, 0, decErr.Offset)

			// An empty collection consumes only its count
			_, n, err = abi.DecodeState(testDef.schema, test.DecodeHexString("00000000"))
			require.NoError(t, err)
			assert.Equal(t, 4, n)
		})
	}
}

func TestDecodeCountBoundedByElementWidth(t *testing.T) {
	// Three u32 elements need 12 bytes, only 8 follow the count
	_, _, err := abi.DecodeState(abi.Vec(abi.U32), test.DecodeHexString("03000000 01000000 02000000"))
	assert.ErrorIs(t, err, abi.ErrUnderrun)
	var decErr *abi.DecodeError
	require.True(t, errors.As(err, &decErr))
	assert.Equal(t, 0, decErr.Offset)

	assert.Equal(t, 1, abi.Option(abi.U128).MinWidth())
	assert.Equal(t, 25, abi.Struct("S", abi.F("a", abi.Address), abi.F("b", abi.String)).MinWidth())
	assert.Equal(t, 1, testStatusType.MinWidth())
}

func TestDecodeNilSchema(t *testing.T) {
	_, _, err := abi.DecodeState(nil, []byte{0x00})
	assert.ErrorIs(t, err, abi.ErrInvalidSchema)
}
