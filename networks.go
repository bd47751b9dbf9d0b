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

package shardclient

import "github.com/blinklabs-io/shardclient/ledger"

// Network definitions
var (
	NetworkTestnet = Network{
		Name:    "testnet",
		BaseURL: "https://node1.testnet.partisiablockchain.com",
		Shards:  []ledger.ShardId{2, 1, 0},
	}
	NetworkMainnet = Network{
		Name:    "mainnet",
		BaseURL: "https://reader.partisiablockchain.com",
		Shards:  []ledger.ShardId{2, 1, 0},
	}

	NetworkInvalid = Network{
		Name: "invalid",
	} // NetworkInvalid is used as a return value for lookup functions when a network isn't found
)

// List of valid networks for use in lookup functions
var networks = []Network{
	NetworkTestnet,
	NetworkMainnet,
}

// NetworkByName returns a predefined network by name
func NetworkByName(name string) Network {
	for _, network := range networks {
		if network.Name == name {
			return network
		}
	}
	return NetworkInvalid
}

// Network represents a ledger deployment reachable through a reader node
type Network struct {
	Name    string
	BaseURL string // reader node serving the per-shard endpoints
	Shards  []ledger.ShardId
}

func (n Network) String() string {
	return n.Name
}

// Valid returns true for networks with a reader node
func (n Network) Valid() bool {
	return n.BaseURL != ""
}
