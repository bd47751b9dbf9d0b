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

package render

import (
	"fmt"
	"strings"
)

const textIndent = "  "

// Text returns a normalized tree as indented "key: value" lines
func Text(tree any) string {
	sb := &strings.Builder{}
	switch tree.(type) {
	case object, []any:
		writeText(sb, tree, 0)
	default:
		sb.WriteString(scalarText(tree))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func writeText(sb *strings.Builder, tree any, depth int) {
	prefix := strings.Repeat(textIndent, depth)
	switch val := tree.(type) {
	case object:
		for _, f := range val {
			sb.WriteString(prefix + f.Key + ":")
			writeChild(sb, f.Value, depth)
		}
	case []any:
		for _, item := range val {
			sb.WriteString(prefix + "-")
			writeChild(sb, item, depth)
		}
	}
}

// writeChild finishes the line started by a key or list marker
func writeChild(sb *strings.Builder, val any, depth int) {
	switch child := val.(type) {
	case object:
		if len(child) == 0 {
			sb.WriteString(" {}\n")
			return
		}
		sb.WriteByte('\n')
		writeText(sb, child, depth+1)
	case []any:
		if len(child) == 0 {
			sb.WriteString(" []\n")
			return
		}
		sb.WriteByte('\n')
		writeText(sb, child, depth+1)
	default:
		sb.WriteString(" " + scalarText(child) + "\n")
	}
}

func scalarText(val any) string {
	switch v := val.(type) {
	case nil:
		return "none"
	case string:
		if v == "" {
			return `""`
		}
		return v
	case number:
		return v.String()
	case blob:
		return v.String()
	}
	return fmt.Sprint(val)
}
