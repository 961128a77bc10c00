// Package parse holds the defensive conversions used when building models out
// of normalized response fields. The numeric parsers never fail: a value that
// cannot be parsed is reported as absent, and callers decide what absence
// means. The one exception is Coordinate, because a georeferencing result
// without usable coordinates is a malformed response, not an optional field.
package parse

import (
	"fmt"
	"strconv"
	"strings"
)

// Float parses s as a float64. Blank input and unparsable input are absence.
func Float(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Int parses s as an int. Blank input and unparsable input are absence.
func Int(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Int64 parses s as an int64. Blank input and unparsable input are absence.
func Int64(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Coordinate parses a required geographic coordinate. Unlike the defensive
// parsers it fails hard, naming the axis so the offending field is obvious in
// logs.
func Coordinate(s, axis string) (float64, error) {
	v, ok := Float(s)
	if !ok {
		return 0, fmt.Errorf("invalid %s coordinate %q", axis, s)
	}
	return v, nil
}
