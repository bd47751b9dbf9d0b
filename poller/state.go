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

package poller

import "slices"

// State is a state of a tracking session
type State struct {
	Id   uint
	Name string
}

func NewState(id uint, name string) State {
	return State{
		Id:   id,
		Name: name,
	}
}

func (s State) String() string {
	return s.Name
}

// Terminal reports whether no further ticks follow the state
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// MarshalText renders the state name
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.Name), nil
}

var (
	StatePending             = NewState(1, "Pending")
	StateExecuting           = NewState(2, "Executing")
	StateAwaitingReplication = NewState(3, "AwaitingReplication")
	StateSucceeded           = NewState(4, "Succeeded")
	StateFailed              = NewState(5, "Failed")
)

// StateMap lists the states reachable from each state. A session never moves from
// AwaitingReplication back to Executing, and terminal states have no exits
var StateMap = map[State][]State{
	StatePending: {
		StateExecuting,
		StateAwaitingReplication,
		StateSucceeded,
		StateFailed,
	},
	StateExecuting: {
		StateAwaitingReplication,
		StateSucceeded,
		StateFailed,
	},
	StateAwaitingReplication: {
		StateSucceeded,
		StateFailed,
	},
	StateSucceeded: nil,
	StateFailed:    nil,
}

// CanTransition reports whether moving from one state to another is allowed. Staying
// in a non-terminal state is always allowed
func CanTransition(from State, to State) bool {
	if from == to {
		return !from.Terminal()
	}
	return slices.Contains(StateMap[from], to)
}
