package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type looseKind uint8

const (
	looseUnset looseKind = iota
	looseNumber
	looseString
	looseBool
)

// LooseID is an identifier asserted by the client: a JSON number, string or
// bool, or a raw query/path value. It compares against numeric columns the
// way the web frontend expects, so "5", 5 and 5.0 all name user 5.
type LooseID struct {
	raw  string
	kind looseKind
}

func LooseIDFromString(s string) LooseID {
	return LooseID{raw: s, kind: looseString}
}

func LooseIDFromInt(id int64) LooseID {
	return LooseID{raw: strconv.FormatInt(id, 10), kind: looseNumber}
}

func (l *LooseID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*l = LooseID{}
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*l = LooseID{raw: string(data), kind: looseBool}
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = LooseID{raw: s, kind: looseString}
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("id must be a number or string: %w", err)
		}
		*l = LooseID{raw: n.String(), kind: looseNumber}
	}

	return nil
}

func (l LooseID) MarshalJSON() ([]byte, error) {
	switch l.kind {
	case looseNumber, looseBool:
		return []byte(l.raw), nil
	case looseString:
		return json.Marshal(l.raw)
	default:
		return []byte("null"), nil
	}
}

// Present reports JavaScript truthiness: absent, null, "", 0 and false are
// not present.
func (l LooseID) Present() bool {
	switch l.kind {
	case looseNumber:
		n, ok := l.number()
		return !ok || n.f != 0
	case looseString:
		return l.raw != ""
	case looseBool:
		return l.raw == "true"
	default:
		return false
	}
}

// Equals is loose equality against a numeric column value.
func (l LooseID) Equals(id int64) bool {
	n, ok := l.number()
	return ok && n.integral && n.i == id
}

// Int64 returns the integral value, if the id has one.
func (l LooseID) Int64() (int64, bool) {
	if l.kind == looseBool {
		return 0, false
	}

	n, ok := l.number()
	if !ok || !n.integral {
		return 0, false
	}

	return n.i, true
}

func (l LooseID) String() string {
	return l.raw
}

type numericValue struct {
	i        int64
	f        float64
	integral bool
}

// number coerces the id the way JavaScript's Number() does, 0x/0o/0b
// prefixes included. Integers are parsed exactly rather than through float64.
func (l LooseID) number() (numericValue, bool) {
	switch l.kind {
	case looseBool:
		if l.raw == "true" {
			return numericValue{i: 1, f: 1, integral: true}, true
		}
		return numericValue{integral: true}, true
	case looseNumber, looseString:
		return parseLooseNumber(strings.TrimSpace(l.raw))
	default:
		return numericValue{}, false
	}
}

func parseLooseNumber(s string) (numericValue, bool) {
	if s == "" {
		return numericValue{integral: true}, true
	}
	if strings.ContainsRune(s, '_') {
		return numericValue{}, false
	}

	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			i, err := strconv.ParseInt(s[2:], base, 64)
			if err != nil || strings.ContainsAny(s[2:], "+-") {
				return numericValue{}, false
			}
			return numericValue{i: i, f: float64(i), integral: true}, true
		}
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return numericValue{i: i, f: float64(i), integral: true}, true
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return numericValue{}, false
	}

	n := numericValue{f: f}
	if f == math.Trunc(f) && f >= -(1<<63) && f < 1<<63 {
		n.i = int64(f)
		n.integral = true
	}
	return n, true
}
