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

package contracts

import (
	"github.com/blinklabs-io/shardclient/abi"
	"github.com/blinklabs-io/shardclient/ledger"
)

var OrganizationStateType = abi.Struct(
	"OrganizationState",
	abi.F("owner", abi.Address),
	abi.F("administrators", abi.Set(abi.Address)),
	abi.F("members", abi.Set(abi.Address)),
	abi.F("name", abi.String),
	abi.F("description", abi.String),
	abi.F("profileImage", abi.String),
	abi.F("bannerImage", abi.String),
	abi.F("website", abi.String),
	abi.F("xAccount", abi.String),
	abi.F("discordServer", abi.String),
	abi.F("ballots", abi.Set(abi.Address)),
)

// Organization is a public contract grouping administrators, members and ballots
var Organization = &Contract{
	Name:  "organization",
	Kind:  ledger.AddressKindPublicContract,
	State: OrganizationStateType,
	Init: action(
		"initialize",
		abi.ShortnameInit,
		abi.F("name", abi.String),
		abi.F("description", abi.String),
		abi.F("profileImage", abi.String),
		abi.F("bannerImage", abi.String),
		abi.F("website", abi.String),
		abi.F("xAccount", abi.String),
		abi.F("discordServer", abi.String),
	),
	Actions: []*abi.Action{
		action("add_administrator", 0x00, abi.F("address", abi.Address)),
		action("remove_administrator", 0x01, abi.F("address", abi.Address)),
		action("add_member", 0x02, abi.F("address", abi.Address)),
		action("remove_member", 0x03, abi.F("address", abi.Address)),
		action("add_ballot", 0x04, abi.F("address", abi.Address)),
		action("add_members", 0x05, abi.F("addresses", abi.Vec(abi.Address))),
		action("remove_members", 0x06, abi.F("addresses", abi.Vec(abi.Address))),
		// Absent fields are left unchanged
		action(
			"update_metadata",
			0x08,
			abi.F("name", abi.Option(abi.String)),
			abi.F("description", abi.Option(abi.String)),
			abi.F("profileImage", abi.Option(abi.String)),
			abi.F("bannerImage", abi.Option(abi.String)),
			abi.F("website", abi.Option(abi.String)),
			abi.F("xAccount", abi.Option(abi.String)),
			abi.F("discordServer", abi.Option(abi.String)),
		),
	},
}
