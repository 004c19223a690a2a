// Copyright 2021-2022
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package scenario

import (
	"fmt"
	"regexp"
)

var refPattern = regexp.MustCompile(`\$\{([\w.]+)\}`)

// resolveRefs recursively replaces ${key} placeholders in a scenario value
// decoded from JSON (map[string]interface{} / []interface{} / string /
// float64 / bool / nil), using the flat constants map. A string that is
// entirely one placeholder is replaced by the constant's native type;
// a placeholder embedded in a larger string is substituted in place;
// an unresolved placeholder passes through unchanged.
func resolveRefs(v interface{}, constants map[string]interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, v := range val {
			out[k] = resolveRefs(v, constants)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, v := range val {
			out[i] = resolveRefs(v, constants)
		}
		return out
	case string:
		if m := refPattern.FindStringSubmatch(val); m != nil && m[0] == val {
			if resolved, ok := constants[m[1]]; ok {
				return resolved
			}
			return val
		}
		return refPattern.ReplaceAllStringFunc(val, func(match string) string {
			key := refPattern.FindStringSubmatch(match)[1]
			if resolved, ok := constants[key]; ok {
				if s, ok := resolved.(string); ok {
					return s
				}
				return fmt.Sprintf("%v", resolved)
			}
			return match
		})
	default:
		return val
	}
}
