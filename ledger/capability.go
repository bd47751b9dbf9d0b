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

import "context"

// Submitter signs and sends a transaction. Signing and key management live behind
// this interface
type Submitter interface {
	Submit(ctx context.Context, target Address, payload []byte) (TransactionPointer, error)
}

// SubmitterFunc adapts a function to the Submitter interface
type SubmitterFunc func(ctx context.Context, target Address, payload []byte) (TransactionPointer, error)

func (f SubmitterFunc) Submit(
	ctx context.Context,
	target Address,
	payload []byte,
) (TransactionPointer, error) {
	return f(ctx, target, payload)
}

// Identity produces the sender address used in encoded payloads
type Identity interface {
	Address() Address
}
