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

// Package abi implements the binary format used for ledger-resident records and
// for the action payloads sent to the ledger.
//
// Records are described by static schema descriptors (see Type) which are
// consumed by a single generic decoder and encoder. The format is not
// self-validating: the schema alone determines how many bytes each field
// consumes.
//
// # Byte order
//
// State read from the ledger is little-endian. Action payloads sent to the
// ledger are big-endian. DecodeState and EncodeState use the former,
// Action.Encode and DecodeAction the latter. Decode and Encode take the byte
// order explicitly.
//
// # Value mapping
//
//   - u8, i8, u16, i16, u32, i32: uint8, int8, uint16, int16, uint32, int32
//   - u64, i64, u128, i128: *big.Int
//   - bool: bool
//   - string: string (i32 length prefix, UTF-8)
//   - bytes: []byte (i32 length prefix)
//   - fixed(n): []byte of length n
//   - address: ledger.Address
//   - hash: [32]byte
//   - vec, set: []any (i32 count prefix)
//   - map: *Map (i32 count prefix, key/value pairs in wire order)
//   - option: nil when absent (1-byte presence flag)
//   - struct: *Record
//   - enum: *EnumValue (1-byte discriminant)
package abi
