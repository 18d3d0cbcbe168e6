package titan

import (
	"fmt"
	"strconv"
	"strings"
)

// Archetype is the category of a mindless titan.
type Archetype uint8

const (
	ArchetypeNormal Archetype = iota
	ArchetypeAbnormal
	ArchetypeJumper
	ArchetypePunk
	ArchetypeCrawler
	ArchetypeStalker
	ArchetypeBurster
)

var archetypeNames = [...]string{
	ArchetypeNormal:   "Normal",
	ArchetypeAbnormal: "Abnormal",
	ArchetypeJumper:   "Jumper",
	ArchetypePunk:     "Punk",
	ArchetypeCrawler:  "Crawler",
	ArchetypeStalker:  "Stalker",
	ArchetypeBurster:  "Burster",
}

// Archetypes lists every archetype in enumeration order.
func Archetypes() []Archetype {
	all := make([]Archetype, len(archetypeNames))
	for i := range archetypeNames {
		all[i] = Archetype(i)
	}
	return all
}

func (a Archetype) Valid() bool {
	return int(a) < len(archetypeNames)
}

func (a Archetype) String() string {
	if !a.Valid() {
		return fmt.Sprintf("Archetype(%d)", a)
	}
	return archetypeNames[a]
}

// ParseArchetype accepts the archetype name (case-insensitive) or its ordinal.
func ParseArchetype(raw string) (Archetype, error) {
	trimmed := strings.TrimSpace(raw)
	for i, name := range archetypeNames {
		if strings.EqualFold(name, trimmed) {
			return Archetype(i), nil
		}
	}
	if n, err := strconv.Atoi(trimmed); err == nil && n >= 0 && n < len(archetypeNames) {
		return Archetype(n), nil
	}
	return 0, fmt.Errorf("unknown titan archetype %q", raw)
}

func (a Archetype) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("unknown titan archetype %d", a)
	}
	return []byte(a.String()), nil
}

func (a *Archetype) UnmarshalText(text []byte) error {
	parsed, err := ParseArchetype(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
