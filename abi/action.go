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

package abi

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

const (
	// ShortnameInit is the shortname used by contract initializers
	ShortnameInit uint32 = 0xffffffff
	// PrefixZkOpenInvocation precedes the shortname of public actions on ZK contracts
	PrefixZkOpenInvocation byte = 0x09
)

// Action describes an invocation payload. The payload starts with the tag bytes
// (Prefix followed by the LEB128 encoded Shortname) and continues with the
// arguments in big-endian order
type Action struct {
	Name      string
	Prefix    []byte
	Shortname uint32
	Args      []Field
}

// Tag returns the leading bytes identifying the action
func (a *Action) Tag() []byte {
	ret := append([]byte{}, a.Prefix...)
	return binary.AppendUvarint(ret, uint64(a.Shortname))
}

func (a *Action) String() string {
	return fmt.Sprintf("%s(%s)", a.Name, hex.EncodeToString(a.Tag()))
}

// Encode builds the action payload from the positional arguments
func (a *Action) Encode(args ...any) ([]byte, error) {
	if len(args) != len(a.Args) {
		return nil, &EncodeError{
			Path:   a.Name,
			Reason: fmt.Sprintf("expected %d arguments, got %d", len(a.Args), len(args)),
		}
	}
	e := &encoder{buf: bytes.NewBuffer(a.Tag()), order: ActionByteOrder}
	for i, f := range a.Args {
		if err := e.encodeValue(f.Type, args[i], a.Name+"."+f.Name); err != nil {
			return nil, err
		}
	}
	return e.buf.Bytes(), nil
}

// EncodeRecord builds the action payload from named arguments
func (a *Action) EncodeRecord(args *Record) ([]byte, error) {
	e := &encoder{buf: bytes.NewBuffer(a.Tag()), order: ActionByteOrder}
	if err := e.encodeFields(a.Args, args, a.Name); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

// Invocation is a decoded action payload
type Invocation struct {
	Action *Action
	Args   *Record
}

// DecodeAction identifies the action by its tag and decodes its arguments. Tags are
// prefix-free, so at most one action can match
func DecodeAction(actions []*Action, data []byte) (*Invocation, error) {
	for _, action := range actions {
		tag := action.Tag()
		if !bytes.HasPrefix(data, tag) {
			continue
		}
		d := &decoder{data: data, pos: len(tag), order: ActionByteOrder}
		args, err := d.decodeFields(action.Name, action.Args, action.Name)
		if err != nil {
			return nil, err
		}
		if d.pos != len(data) {
			return nil, &DecodeError{
				Reason: fmt.Sprintf("%d bytes left after %s", len(data)-d.pos, action.Name),
				Offset: d.pos,
				Err:    ErrTrailingBytes,
			}
		}
		return &Invocation{Action: action, Args: args}, nil
	}
	n := min(len(data), 6)
	return nil, &DecodeError{
		Reason: fmt.Sprintf("no action matches payload starting %x", data[:n]),
		Offset: 0,
		Err:    ErrUnknownShortname,
	}
}
