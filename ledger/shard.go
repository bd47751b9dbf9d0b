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
	"fmt"
	"strconv"
	"strings"
)

const shardNamePrefix = "Shard"

// ShardId identifies one independently replicated partition of the ledger
type ShardId uint8

// DefaultShardPriority lists shards with the most likely to have fresh data first
var DefaultShardPriority = []ShardId{2, 1, 0}

// String returns the shard name as used in node URLs
func (s ShardId) String() string {
	return shardNamePrefix + strconv.Itoa(int(s))
}

// ParseShardId accepts either the shard name ("Shard2") or its bare number ("2")
func ParseShardId(name string) (ShardId, error) {
	num := strings.TrimPrefix(name, shardNamePrefix)
	val, err := strconv.ParseUint(num, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidShard, name)
	}
	return ShardId(val), nil
}

// ParseShardList parses a comma separated shard priority list
func ParseShardList(list string) ([]ShardId, error) {
	ret := []ShardId{}
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		shard, err := ParseShardId(item)
		if err != nil {
			return nil, err
		}
		ret = append(ret, shard)
	}
	if len(ret) == 0 {
		return nil, fmt.Errorf("%w: empty shard list", ErrInvalidShard)
	}
	return ret, nil
}
