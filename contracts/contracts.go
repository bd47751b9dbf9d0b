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

// Package contracts holds static descriptors for the ballot, organization and factory
// contracts: their state layout, their actions and the address kind they deploy as
package contracts

import (
	"fmt"
	"slices"
	"strings"

	"github.com/blinklabs-io/shardclient/abi"
	"github.com/blinklabs-io/shardclient/ledger"
)

// Contract describes a contract type
type Contract struct {
	Name string
	// Kind is the address kind of deployed instances
	Kind      ledger.AddressKind
	State     *abi.Type
	Init      *abi.Action
	Actions   []*abi.Action
	Callbacks []*abi.Action
}

// Action returns the named action, initializer or callback
func (c *Contract) Action(name string) (*abi.Action, bool) {
	for _, action := range c.all() {
		if action.Name == name {
			return action, true
		}
	}
	return nil, false
}

func (c *Contract) all() []*abi.Action {
	ret := slices.Clone(c.Actions)
	if c.Init != nil {
		ret = append(ret, c.Init)
	}
	return append(ret, c.Callbacks...)
}

// Encode builds the payload for the named action
func (c *Contract) Encode(name string, args ...any) ([]byte, error) {
	action, ok := c.Action(name)
	if !ok {
		return nil, fmt.Errorf("contract %s has no action %q", c.Name, name)
	}
	return action.Encode(args...)
}

// DecodeState decodes contract state. Trailing bytes are rejected, since every
// descriptor covers the complete state
func (c *Contract) DecodeState(data []byte) (*abi.Record, error) {
	val, err := abi.DecodeStateStrict(c.State, data)
	if err != nil {
		return nil, err
	}
	return val.(*abi.Record), nil
}

// DecodeAction identifies and decodes an action, initializer or callback payload
func (c *Contract) DecodeAction(data []byte) (*abi.Invocation, error) {
	return abi.DecodeAction(c.all(), data)
}

var registry = []*Contract{
	Ballot,
	Organization,
	Factory,
}

// All returns every known contract
func All() []*Contract {
	return slices.Clone(registry)
}

// ByName returns the contract with the given name
func ByName(name string) (*Contract, bool) {
	for _, c := range registry {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return nil, false
}

func action(name string, shortname uint32, args ...abi.Field) *abi.Action {
	return &abi.Action{Name: name, Shortname: shortname, Args: args}
}

// zkAction describes a public action on a ZK contract
func zkAction(name string, shortname uint32, args ...abi.Field) *abi.Action {
	return &abi.Action{
		Name:      name,
		Prefix:    []byte{abi.PrefixZkOpenInvocation},
		Shortname: shortname,
		Args:      args,
	}
}

func init() {
	for _, c := range registry {
		if err := c.State.Validate(); err != nil {
			panic(fmt.Sprintf("contracts: invalid %s state: %s", c.Name, err))
		}
	}
}
