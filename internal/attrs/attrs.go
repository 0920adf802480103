// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package attrs parses --attrs specs and applies their transforms to output
// values.
package attrs

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/gluectl/gluectl/internal/log"
)

// Attr is one output column: where to read it, what to call it and how to
// transform it.
type Attr struct {
	// The JSON key to extract from the result JSON object.
	Key string `yaml:"key" json:"Key"`
	// Should this Attr be included in output or is it just
	// intended for filtering and sorting?
	Include bool `yaml:"include" json:"Include"`
	// The key to use in the output and the column title for text output.
	OutputKey string `yaml:"outputKey" json:"OutputKey"`
	// Transformation spec to apply to the output value.
	TransformSpec string `yaml:"transformSpec" json:"TransformSpec"`
}

// Numeric transform flags. The last one present in a spec wins.
const (
	numericFlags = "$b#"
	moneyFlag    = '$'
	bytesFlag    = 'b'
	commaFlag    = '#'
)

var lengthRe = regexp.MustCompile(`-?\d+`)

// Transform applies the attribute's transform spec to a value. Numbers take
// the numeric transforms, strings the time, case and length transforms.
// Anything else passes through.
func (a *Attr) Transform(value interface{}) interface{} {
	if a.TransformSpec == "" {
		return value
	}

	if f, ok := number(value); ok {
		if out, ok := a.transformNumber(f); ok {
			return out
		}
		return value
	}

	result, ok := value.(string)
	if !ok {
		log.Tracef("passthrough: value=%v", value)
		return value
	}

	result = a.transformTime(result)
	result = a.transformCase(result)
	return a.transformLength(result)
}

// number reports whether v is numeric, as decoded by gjson or encoding/json.
func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func (a *Attr) transformNumber(f float64) (string, bool) {
	i := strings.LastIndexAny(a.TransformSpec, numericFlags)
	if i < 0 {
		return "", false
	}

	var result string
	switch a.TransformSpec[i] {
	case moneyFlag:
		result = humanize.FormatFloat("#,###.##", f)
	case bytesFlag:
		if f < 0 {
			return "", false
		}
		result = humanize.Bytes(uint64(f))
	case commaFlag:
		result = humanize.Comma(int64(math.Round(f)))
	}
	log.Tracef("numeric: spec=%s result=%s", a.TransformSpec, result)
	return result, true
}

// transformTime converts an RFC3339 UTC time to local time, or to time-ago
// with T.
func (a *Attr) transformTime(s string) string {
	if !strings.ContainsAny(a.TransformSpec, "tT") {
		return s
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	local := t.In(time.Now().Location())
	if strings.Contains(a.TransformSpec, "T") {
		return humanize.Time(local)
	}
	return local.Format("2006-01-02T15:04:05MST")
}

// transformCase applies whichever case flag appears last, so an attr's own
// flag overrides a prepended global one: --attrs '*::U,code::l' is lower.
func (a *Attr) transformCase(s string) string {
	lastL := strings.LastIndexAny(a.TransformSpec, "lL")
	lastU := strings.LastIndexAny(a.TransformSpec, "uU")
	switch {
	case lastL > lastU:
		return strings.ToLower(s)
	case lastU > lastL:
		return strings.ToUpper(s)
	}
	return s
}

// transformLength truncates to N, or elides the middle for -N. The last
// length in the spec wins.
func (a *Attr) transformLength(s string) string {
	match := lengthRe.FindAllString(a.TransformSpec, -1)
	if len(match) == 0 {
		return s
	}
	l, _ := strconv.Atoi(match[len(match)-1])
	abs := int(math.Abs(float64(l)))
	if len(s) <= abs {
		return s
	}
	if l >= 0 {
		return s[:l]
	}
	keep := max(abs/2-1, 0)
	return s[:keep] + ".." + s[len(s)-keep:]
}

// AttrList is a collection of Attr used to shape output fields.
type AttrList []Attr

// Set parses a comma separated --attrs value and merges it into the list.
func (a *AttrList) Set(value string) error {
	if value == "" || value == "*" {
		return nil
	}

	const (
		jsonIdx = iota
		outputIdx
		transformIdx
	)

	// Each spec is key[:outputKey[:transform]]. The output key defaults to the
	// last segment of the key.
	specs := strings.Split(value, ",")
	log.Debugf("attrs: specs=%v", specs)
specloop:
	for _, spec := range specs {
		attr := Attr{Include: true}
		fields := strings.Split(spec, ":")

		// A leading ! keeps the attr for filtering and sorting only.
		attr.Key = strings.TrimSpace(fields[jsonIdx])
		if strings.HasPrefix(attr.Key, "!") {
			attr.Include = false
			attr.Key = attr.Key[1:]
		}
		if attr.Key == "" {
			return fmt.Errorf("empty attr key in %q", spec)
		}
		if attr.Key == "*" {
			attr.Include = false
		}

		switch {
		case len(fields) == 1:
			segments := strings.Split(attr.Key, ".")
			attr.OutputKey = segments[len(segments)-1]
		case strings.TrimSpace(fields[outputIdx]) != "":
			attr.OutputKey = strings.TrimSpace(fields[outputIdx])
		default:
			attr.OutputKey = attr.Key
		}

		if len(fields) > transformIdx {
			attr.TransformSpec = strings.TrimSpace(fields[transformIdx])
		}

		// Respecifying an attr that is already present (a command default,
		// say) updates it in place.
		for i := range *a {
			if (*a)[i].Key == attr.Key || (*a)[i].OutputKey == attr.Key {
				(*a)[i].Include = attr.Include
				(*a)[i].OutputKey = attr.OutputKey
				(*a)[i].TransformSpec = attr.TransformSpec
				continue specloop
			}
		}

		// Keys starting with '.' are read from the root of each JSON:API
		// object, everything else from its attributes.
		if strings.HasPrefix(attr.Key, ".") {
			attr.Key = attr.Key[1:]
		} else if attr.Key != "*" {
			attr.Key = "attributes." + attr.Key
		}

		*a = append(*a, attr)
	}

	return nil
}

// SetGlobalTransformSpec prepends the transform of the first '*' attr to every
// attr in the list.
func (a *AttrList) SetGlobalTransformSpec() error {
	spec := ""
	for i := range *a {
		if (*a)[i].Key == "*" {
			spec = (*a)[i].TransformSpec
			break
		}
	}
	if spec == "" {
		return nil
	}
	log.Debugf("attrs: global spec=%s", spec)

	for i := range *a {
		(*a)[i].TransformSpec = spec + "," + (*a)[i].TransformSpec
	}
	return nil
}

// String renders the list in --attrs form.
func (a *AttrList) String() string {
	result := make([]string, 0, len(*a))
	for _, attr := range *a {
		result = append(result, fmt.Sprintf("%s:%s:%s", attr.Key, attr.OutputKey, attr.TransformSpec))
	}
	return strings.Join(result, ",")
}

// Type returns the flag type for use with the flag.Value interface.
func (a *AttrList) Type() string { return "list" }
