package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// LooseBool is a client-supplied flag. Besides true and false it accepts the
// 0/1 numbers (and numeric strings) that TINYINT columns round-trip as.
type LooseBool bool

func (b *LooseBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("true")):
		*b = true
		return nil
	case bytes.Equal(data, []byte("false")):
		*b = false
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true":
			*b = true
			return nil
		case "false":
			*b = false
			return nil
		}
		return b.fromNumber(s)
	default:
		return b.fromNumber(string(data))
	}
}

func (b *LooseBool) fromNumber(s string) error {
	n, ok := parseLooseNumber(strings.TrimSpace(s))
	if !ok {
		return fmt.Errorf("flag must be a boolean or number, got %q", s)
	}
	*b = n.f != 0
	return nil
}

// Ptr returns the flag as *bool, nil when b is nil.
func (b *LooseBool) Ptr() *bool {
	if b == nil {
		return nil
	}
	v := bool(*b)
	return &v
}
