// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package driller

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// segmentRe matches one path segment: a key with an optional [N] or [*].
var segmentRe = regexp.MustCompile(`^([a-zA-Z0-9_-]+)(\[(\d+|\*)?\])?$`)

// Driller returns the value at path in jsonData, or an empty result when a
// segment is malformed or an index is out of range. Without an index a
// one-element array is unwrapped and longer arrays are returned whole.
func Driller(jsonData string, path string) gjson.Result {
	current := gjson.Parse(jsonData)

	for _, p := range strings.Split(path, ".") {
		m := segmentRe.FindStringSubmatch(p)
		if m == nil {
			return gjson.Result{}
		}

		val := current.Get(m[1])
		if !val.IsArray() {
			current = val
			continue
		}

		arr := val.Array()
		switch m[3] {
		case "", "*":
			if len(arr) == 1 {
				val = arr[0]
			}
		default:
			i, err := strconv.Atoi(m[3])
			if err != nil || i >= len(arr) {
				return gjson.Result{}
			}
			val = arr[i]
		}
		current = val
	}

	return current
}
