// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import "strings"

// chopPrefix removes the leading sep-separated segments that every string
// value of a key shares, replacing them with "..". At least the last segment
// of each value is kept. Keys whose values share nothing are left alone.
func chopPrefix(dataset []map[string]interface{}, sep string) {
	if len(dataset) == 0 {
		return
	}

	type segmentedValue struct {
		entryIdx int
		segments []string
	}

	keyValues := make(map[string][]segmentedValue)
	for entryIdx, entry := range dataset {
		for key, val := range entry {
			if str, ok := val.(string); ok {
				keyValues[key] = append(keyValues[key], segmentedValue{entryIdx: entryIdx, segments: strings.Split(str, sep)})
			}
		}
	}

	for key, values := range keyValues {
		minSegments := len(values[0].segments)
		for _, val := range values {
			minSegments = min(minSegments, len(val.segments))
		}

		// Never chop the last segment.
		var commonCount int
		for segIdx := 0; segIdx < minSegments-1; segIdx++ {
			expectedSeg := values[0].segments[segIdx]
			allMatch := true
			for _, val := range values {
				if val.segments[segIdx] != expectedSeg {
					allMatch = false
					break
				}
			}
			if !allMatch {
				break
			}
			commonCount++
		}
		if commonCount == 0 {
			continue
		}

		for _, val := range values {
			dataset[val.entryIdx][key] = ".." + sep + strings.Join(val.segments[commonCount:], sep)
		}
	}
}
