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

var OrganizationProcessStateType = abi.Enum(
	"OrganizationProcessState",
	abi.V(0, "Created"),
	abi.V(1, "Deployed"),
	abi.V(2, "Active"),
	abi.V(3, "Deleted"),
)

// OrganizationEventType is sent from organizations back to the factory
var OrganizationEventType = abi.Enum(
	"OrganizationEvent",
	abi.V(
		0,
		"BallotDeployed",
		abi.F("organization", abi.Address),
		abi.F("ballot", abi.Address),
		abi.F("title", abi.String),
		abi.F("timestamp", abi.U64),
		abi.F("processId", abi.String),
	),
	abi.V(
		1,
		"MembersAdded",
		abi.F("members", abi.Vec(abi.Address)),
		abi.F("organization", abi.Address),
		abi.F("timestamp", abi.U64),
		abi.F("processId", abi.String),
		abi.F("nonce", abi.U64),
	),
	abi.V(
		2,
		"MembersRemoved",
		abi.F("members", abi.Vec(abi.Address)),
		abi.F("organization", abi.Address),
		abi.F("timestamp", abi.U64),
		abi.F("processId", abi.String),
		abi.F("nonce", abi.U64),
	),
	abi.V(
		3,
		"BallotDeployFailed",
		abi.F("organization", abi.Address),
		abi.F("reason", abi.String),
		abi.F("timestamp", abi.U64),
		abi.F("processId", abi.String),
	),
	abi.V(
		4,
		"OrganizationDeployed",
		abi.F("factory", abi.Address),
		abi.F("organization", abi.Address),
		abi.F("timestamp", abi.U64),
		abi.F("processId", abi.String),
	),
)

var OrganizationInitType = abi.Struct(
	"OrganizationInit",
	abi.F("name", abi.String),
	abi.F("description", abi.String),
	abi.F("profileImage", abi.String),
	abi.F("bannerImage", abi.String),
	abi.F("xUrl", abi.String),
	abi.F("discordUrl", abi.String),
	abi.F("websiteUrl", abi.String),
	abi.F("administrator", abi.Address),
)

var FactoryStateType = abi.Struct(
	"SekivaFactoryState",
	abi.F("admin", abi.Address),
	abi.F("organizations", abi.Set(abi.Address)),
	abi.F("ballots", abi.Set(abi.Address)),
	abi.F("userOrgMemberships", abi.MapOf(abi.Address, abi.Set(abi.Address))),
	abi.F("ballotContractZkwa", abi.Bytes),
	abi.F("ballotContractAbi", abi.Bytes),
	abi.F("organizationContractWasm", abi.Bytes),
	abi.F("organizationContractAbi", abi.Bytes),
	abi.F("eventNonce", abi.U64),
	abi.F("organizationProcesses", abi.MapOf(abi.String, OrganizationProcessStateType)),
)

// Factory deploys organizations and ballots and indexes them
var Factory = &Contract{
	Name:  "factory",
	Kind:  ledger.AddressKindPublicContract,
	State: FactoryStateType,
	Init: action(
		"initialize",
		abi.ShortnameInit,
		abi.F("ballotContractZkwa", abi.Bytes),
		abi.F("ballotContractAbi", abi.Bytes),
		abi.F("organizationContractWasm", abi.Bytes),
		abi.F("organizationContractAbi", abi.Bytes),
	),
	Actions: []*abi.Action{
		action("deploy_organization", 0x01, abi.F("orgInit", OrganizationInitType)),
		action(
			"deploy_ballot",
			0x02,
			abi.F("options", abi.Vec(abi.String)),
			abi.F("title", abi.String),
			abi.F("description", abi.String),
			abi.F("organization", abi.Address),
		),
		action("handle_organization_event", 0x11, abi.F("event", OrganizationEventType)),
		action("handle_organization_deployed_event", 0x45, abi.F("event", OrganizationEventType)),
	},
	Callbacks: []*abi.Action{
		action(
			"deploy_organization_callback",
			0x10,
			abi.F("orgContractAddress", abi.Address),
			abi.F("processId", abi.String),
		),
	},
}
