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

package ledger

import (
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// AddressLength is the size of an address in bytes, including the kind prefix
	AddressLength = 21
	// AddressSuffixLength is the number of bytes following the kind prefix
	AddressSuffixLength = AddressLength - 1
)

// AddressKind is the leading byte of an address, which identifies the kind of record
// it points to
type AddressKind uint8

const (
	AddressKindAccount            AddressKind = 0x00
	AddressKindSystemContract     AddressKind = 0x01
	AddressKindPublicContract     AddressKind = 0x02
	AddressKindZkContract         AddressKind = 0x03
	AddressKindGovernanceContract AddressKind = 0x04

	// AddressKindNone is used when a transaction is not expected to create a record
	AddressKindNone AddressKind = 0xff
)

var addressKindNames = map[AddressKind]string{
	AddressKindAccount:            "account",
	AddressKindSystemContract:     "system",
	AddressKindPublicContract:     "public",
	AddressKindZkContract:         "zk",
	AddressKindGovernanceContract: "governance",
	AddressKindNone:               "none",
}

func (k AddressKind) String() string {
	if name, ok := addressKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("unknown(0x%02x)", uint8(k))
}

// Valid returns true if the kind can appear as an address prefix
func (k AddressKind) Valid() bool {
	return k <= AddressKindGovernanceContract
}

// AddressKindByName returns the address kind with the given name
func AddressKindByName(name string) (AddressKind, error) {
	for kind, kindName := range addressKindNames {
		if kindName == strings.ToLower(name) {
			return kind, nil
		}
	}
	return AddressKindNone, fmt.Errorf("%w: unknown address kind %q", ErrInvalidAddress, name)
}

// Address identifies a record on the ledger. It is immutable once assigned
type Address [AddressLength]byte

// NewAddress returns an Address from its hex representation
func NewAddress(addr string) (Address, error) {
	addrBytes, err := hex.DecodeString(strings.TrimPrefix(addr, "0x"))
	if err != nil {
		return Address{}, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	return NewAddressFromBytes(addrBytes)
}

// NewAddressFromBytes returns an Address based on the raw bytes provided
func NewAddressFromBytes(addrBytes []byte) (Address, error) {
	var ret Address
	if len(addrBytes) != AddressLength {
		return ret, fmt.Errorf(
			"%w: expected %d bytes, got %d",
			ErrInvalidAddress,
			AddressLength,
			len(addrBytes),
		)
	}
	if !AddressKind(addrBytes[0]).Valid() {
		return ret, fmt.Errorf(
			"%w: unknown kind prefix 0x%02x",
			ErrInvalidAddress,
			addrBytes[0],
		)
	}
	copy(ret[:], addrBytes)
	return ret, nil
}

// NewAddressFromParts builds an Address from a kind prefix and a 20-byte suffix
func NewAddressFromParts(kind AddressKind, suffix []byte) (Address, error) {
	if !kind.Valid() {
		return Address{}, fmt.Errorf("%w: kind %s cannot prefix an address", ErrInvalidAddress, kind)
	}
	if len(suffix) != AddressSuffixLength {
		return Address{}, fmt.Errorf(
			"%w: expected %d byte suffix, got %d",
			ErrInvalidAddress,
			AddressSuffixLength,
			len(suffix),
		)
	}
	var ret Address
	ret[0] = byte(kind)
	copy(ret[1:], suffix)
	return ret, nil
}

// Kind returns the record kind encoded in the address prefix
func (a Address) Kind() AddressKind {
	return AddressKind(a[0])
}

// Bytes returns a copy of the raw address bytes
func (a Address) Bytes() []byte {
	ret := make([]byte, AddressLength)
	copy(ret, a[:])
	return ret
}

// IsZero returns true for the zero value, which is never assigned by the ledger
func (a Address) IsZero() bool {
	return a == Address{}
}

// String returns the lowercase hex representation of the address
func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(data []byte) error {
	tmp, err := NewAddress(string(data))
	if err != nil {
		return err
	}
	*a = tmp
	return nil
}

// DeriveAddress computes the address of the record created by a transaction. The
// result is the kind prefix followed by the last 20 bytes of the transaction
// identifier, and never depends on anything the ledger returned
func DeriveAddress(id TransactionId, kind AddressKind) (Address, error) {
	idBytes, err := id.Bytes()
	if err != nil {
		return Address{}, err
	}
	return NewAddressFromParts(kind, idBytes[len(idBytes)-AddressSuffixLength:])
}
