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

// Ballot status discriminants
const (
	BallotStatusCreated   uint8 = 0
	BallotStatusActive    uint8 = 1
	BallotStatusTallying  uint8 = 2
	BallotStatusCompleted uint8 = 3
	BallotStatusCancelled uint8 = 4
)

var BallotStatusType = abi.Enum(
	"BallotStatus",
	abi.V(BallotStatusCreated, "Created"),
	abi.V(BallotStatusActive, "Active"),
	abi.V(BallotStatusTallying, "Tallying"),
	abi.V(BallotStatusCompleted, "Completed"),
	abi.V(BallotStatusCancelled, "Cancelled"),
)

// TallyType holds the opened vote counts. Only aggregates are ever public
var TallyType = abi.Struct(
	"Tally",
	abi.F("option0", abi.U32),
	abi.F("option1", abi.U32),
	abi.F("option2", abi.U32),
	abi.F("option3", abi.U32),
	abi.F("option4", abi.U32),
	abi.F("total", abi.U32),
)

var BallotStateType = abi.Struct(
	"BallotState",
	abi.F("organization", abi.Address),
	abi.F("administrator", abi.Address),
	abi.F("title", abi.String),
	abi.F("description", abi.String),
	abi.F("options", abi.Vec(abi.String)),
	abi.F("startTime", abi.U64),
	abi.F("endTime", abi.U64),
	abi.F("status", abi.Option(BallotStatusType)),
	abi.F("voters", abi.Set(abi.Address)),
	abi.F("tally", abi.Option(TallyType)),
)

// ShortnameCastVote is the shortname of the secret vote input. The vote itself is
// sent as a secret input next to this public part
const ShortnameCastVote uint32 = 0x40

// Ballot is a ZK contract holding a secret vote
var Ballot = &Contract{
	Name:  "ballot",
	Kind:  ledger.AddressKindZkContract,
	State: BallotStateType,
	Init: action(
		"initialize",
		abi.ShortnameInit,
		abi.F("options", abi.Vec(abi.String)),
		abi.F("title", abi.String),
		abi.F("description", abi.String),
		abi.F("organization", abi.Address),
	),
	Actions: []*abi.Action{
		zkAction("compute_tally", 0x01),
		zkAction("set_vote_active", 0x48),
		action("cast_vote", ShortnameCastVote),
	},
}
