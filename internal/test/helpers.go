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

package test

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/blinklabs-io/shardclient/ledger"
)

// DecodeHexString is a helper function for tests that decodes hex strings. It doesn't return
// an error value, which makes it usable inline. Whitespace anywhere in the string is ignored,
// which allows splitting long fixtures into fields
func DecodeHexString(hexData string) []byte {
	hexData = strings.Join(strings.Fields(hexData), "")
	decoded, err := hex.DecodeString(hexData)
	if err != nil {
		panic(fmt.Sprintf("error decoding hex: %s", err))
	}
	return decoded
}

// MustAddress parses a hex address and panics on failure
func MustAddress(addr string) ledger.Address {
	ret, err := ledger.NewAddress(addr)
	if err != nil {
		panic(fmt.Sprintf("error parsing address: %s", err))
	}
	return ret
}

// MustTransactionId parses a transaction identifier and panics on failure
func MustTransactionId(id string) ledger.TransactionId {
	ret, err := ledger.NewTransactionId(id)
	if err != nil {
		panic(fmt.Sprintf("error parsing transaction ID: %s", err))
	}
	return ret
}

// BigInt parses a base 10 integer and panics on failure
func BigInt(val string) *big.Int {
	ret, ok := new(big.Int).SetString(val, 10)
	if !ok {
		panic("error parsing integer: " + val)
	}
	return ret
}
