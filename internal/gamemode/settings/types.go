package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Type discriminates the settings variants.
type Type uint8

const (
	TypeRacing Type = iota
	TypeCapture
	TypeTitans
	TypeEndless
	TypeWave
	TypeTrost
	TypeTitanRush
	TypePvpAhss
	TypeInfection
)

var typeNames = [...]string{
	TypeRacing:    "Racing",
	TypeCapture:   "Capture",
	TypeTitans:    "Titans",
	TypeEndless:   "Endless",
	TypeWave:      "Wave",
	TypeTrost:     "Trost",
	TypeTitanRush: "TitanRush",
	TypePvpAhss:   "PvpAhss",
	TypeInfection: "Infection",
}

// Types lists every gamemode type.
func Types() []Type {
	all := make([]Type, len(typeNames))
	for i := range typeNames {
		all[i] = Type(i)
	}
	return all
}

func (t Type) String() string {
	if int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", t)
	}
	return typeNames[t]
}

// ParseType accepts a gamemode name (case-insensitive) or its ordinal.
func ParseType(raw string) (Type, error) {
	trimmed := strings.TrimSpace(raw)
	for i, name := range typeNames {
		if strings.EqualFold(name, trimmed) {
			return Type(i), nil
		}
	}
	if n, err := strconv.Atoi(trimmed); err == nil && n >= 0 && n < len(typeNames) {
		return Type(n), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownGamemode, raw)
}

func (t Type) MarshalText() ([]byte, error) {
	if int(t) >= len(typeNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownGamemode, t)
	}
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// UnmarshalJSON accepts either a quoted name or a bare ordinal such as
// {"Gamemode": 6}.
func (t *Type) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	text, err := jsonScalar(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnknownGamemode, err)
	}
	return t.UnmarshalText(text)
}

func isNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}

// jsonScalar returns the text of a JSON string or the literal of a JSON
// number.
func jsonScalar(data []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, err
		}
		return []byte(s), nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return nil, err
	}
	return []byte(n.String()), nil
}

// HealthMode selects how titan health is derived.
type HealthMode uint8

const (
	HealthFixed HealthMode = iota
	HealthScaled
	HealthDisabled
)

func (m HealthMode) String() string {
	switch m {
	case HealthFixed:
		return "Fixed"
	case HealthScaled:
		return "Scaled"
	case HealthDisabled:
		return "Disabled"
	default:
		return fmt.Sprintf("HealthMode(%d)", m)
	}
}

func (m HealthMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText accepts the mode name or any ordinal. Out of range ordinals
// are kept so the health calculation can report them.
func (m *HealthMode) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	for _, candidate := range []HealthMode{HealthFixed, HealthScaled, HealthDisabled} {
		if strings.EqualFold(candidate.String(), raw) {
			*m = candidate
			return nil
		}
	}
	n, err := strconv.ParseUint(raw, 10, 8)
	if err != nil {
		return fmt.Errorf("%w: unknown titan health mode %q", ErrInvalidSettings, raw)
	}
	*m = HealthMode(n)
	return nil
}

// UnmarshalJSON accepts the mode as a quoted name or a bare ordinal such as
// {"TitanHealthMode": 1}.
func (m *HealthMode) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	text, err := jsonScalar(data)
	if err != nil {
		return fmt.Errorf("%w: titan health mode: %w", ErrInvalidSettings, err)
	}
	return m.UnmarshalText(text)
}
