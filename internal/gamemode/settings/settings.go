// Package settings holds the per-gamemode round configuration. Every variant
// embeds Common and is selected by an explicit Type discriminator.
package settings

import (
	"errors"
	"fmt"

	"titan-siege/server/internal/titan"
)

var (
	// ErrUnknownGamemode is returned for a discriminator outside the known set.
	ErrUnknownGamemode = errors.New("unknown gamemode type")
	// ErrInvalidSettings is returned when a document decodes but breaks an invariant.
	ErrInvalidSettings = errors.New("invalid gamemode settings")
)

// Settings is implemented by the nine variants only.
type Settings interface {
	Type() Type
	Base() *Common
	validate() error
}

// Common carries the fields shared by every gamemode.
type Common struct {
	TitanLimit            int                         `json:"TitanLimit" jsonschema:"description=Maximum number of living titans,minimum=0"`
	TitanHealthMode       HealthMode                  `json:"TitanHealthMode" jsonschema:"description=Fixed / Scaled / Disabled"`
	TitanHealthMinimum    int                         `json:"TitanHealthMinimum" jsonschema:"minimum=0"`
	TitanHealthMaximum    int                         `json:"TitanHealthMaximum" jsonschema:"minimum=0"`
	TitanCustomSize       bool                        `json:"TitanCustomSize"`
	TitanMinimumSize      float64                     `json:"TitanMinimumSize" jsonschema:"minimum=0"`
	TitanMaximumSize      float64                     `json:"TitanMaximumSize" jsonschema:"minimum=0"`
	CustomTitanRatio      bool                        `json:"CustomTitanRatio" jsonschema:"description=Use TitanTypeRatio for archetype selection"`
	TitanTypeRatio        map[titan.Archetype]float64 `json:"TitanTypeRatio,omitempty" jsonschema:"description=Archetype name to non-negative weight"`
	DisabledTitans        []titan.Archetype           `json:"DisabledTitans,omitempty" jsonschema:"description=Archetypes excluded from weighted selection"`
	HumanScore            int                         `json:"HumanScore"`
	TitanScore            int                         `json:"TitanScore"`
	RestartOnTitansKilled bool                        `json:"RestartOnTitansKilled"`
	Supply                bool                        `json:"Supply"`
	LavaMode              bool                        `json:"LavaMode"`
	PointMode             int                         `json:"PointMode" jsonschema:"description=Greater than zero resets per-round stats on restart,minimum=0"`
}

func (c *Common) Base() *Common {
	return c
}

// IsDisabled reports whether the archetype is excluded from weighted selection.
func (c *Common) IsDisabled(a titan.Archetype) bool {
	for _, disabled := range c.DisabledTitans {
		if disabled == a {
			return true
		}
	}
	return false
}

func defaultCommon() Common {
	return Common{
		TitanLimit:         30,
		TitanHealthMode:    HealthDisabled,
		TitanHealthMinimum: 100,
		TitanHealthMaximum: 200,
		TitanMinimumSize:   0.7,
		TitanMaximumSize:   3,
		Supply:             true,
	}
}

func (c *Common) validate() error {
	if c.TitanLimit < 0 {
		return fmt.Errorf("%w: TitanLimit %d is negative", ErrInvalidSettings, c.TitanLimit)
	}
	if c.TitanHealthMinimum < 0 || c.TitanHealthMaximum < c.TitanHealthMinimum {
		return fmt.Errorf("%w: titan health bounds [%d,%d]", ErrInvalidSettings, c.TitanHealthMinimum, c.TitanHealthMaximum)
	}
	if c.TitanCustomSize && (c.TitanMinimumSize <= 0 || c.TitanMaximumSize < c.TitanMinimumSize) {
		return fmt.Errorf("%w: titan size bounds [%v,%v]", ErrInvalidSettings, c.TitanMinimumSize, c.TitanMaximumSize)
	}
	for archetype, weight := range c.TitanTypeRatio {
		if weight < 0 {
			return fmt.Errorf("%w: negative ratio %v for %s", ErrInvalidSettings, weight, archetype)
		}
	}
	if c.PointMode < 0 {
		return fmt.Errorf("%w: PointMode %d is negative", ErrInvalidSettings, c.PointMode)
	}
	return nil
}

type RacingSettings struct {
	Common
	RestartOnFinish bool    `json:"RestartOnFinish"`
	QuickStart      float64 `json:"QuickStart" jsonschema:"description=Seconds before the start gate opens,minimum=0"`
}

func (*RacingSettings) Type() Type { return TypeRacing }

type CaptureSettings struct {
	Common
	SpawnSupplyStationOnHumanCapture bool `json:"SpawnSupplyStationOnHumanCapture"`
	PvpHumanScoreLimit               int  `json:"PvpHumanScoreLimit" jsonschema:"minimum=0"`
	PvpTitanScoreLimit               int  `json:"PvpTitanScoreLimit" jsonschema:"minimum=0"`
}

func (*CaptureSettings) Type() Type { return TypeCapture }

type KillTitansSettings struct {
	Common
	Titans int `json:"Titans" jsonschema:"description=Titans spawned when the level loads,minimum=0"`
}

func (*KillTitansSettings) Type() Type { return TypeTitans }

type EndlessSettings struct {
	Common
	Titans          int `json:"Titans" jsonschema:"minimum=0"`
	RespawnInterval int `json:"RespawnInterval" jsonschema:"description=Seconds between replacement spawns,minimum=1"`
}

func (*EndlessSettings) Type() Type { return TypeEndless }

type WaveSettings struct {
	Common
	StartWave     int `json:"StartWave" jsonschema:"minimum=1"`
	MaxWave       int `json:"MaxWave" jsonschema:"minimum=1"`
	WaveIncrement int `json:"WaveIncrement" jsonschema:"minimum=0"`
	BossWave      int `json:"BossWave" jsonschema:"minimum=0"`
}

func (*WaveSettings) Type() Type { return TypeWave }

type TrostSettings struct {
	Common
	Titans int `json:"Titans" jsonschema:"minimum=0"`
}

func (*TrostSettings) Type() Type { return TypeTrost }

type RushSettings struct {
	Common
	TitanInterval int `json:"TitanInterval" jsonschema:"description=One titan spawns every interval seconds,minimum=1"`
}

func (*RushSettings) Type() Type { return TypeTitanRush }

type PvPAhssSettings struct {
	Common
}

func (*PvPAhssSettings) Type() Type { return TypePvpAhss }

type InfectionSettings struct {
	Common
	Infected int `json:"Infected" jsonschema:"description=Players infected at round start,minimum=1"`
}

func (*InfectionSettings) Type() Type { return TypeInfection }

func (s *WaveSettings) validate() error {
	if err := s.Common.validate(); err != nil {
		return err
	}
	if s.StartWave < 1 || s.MaxWave < s.StartWave {
		return fmt.Errorf("%w: wave range [%d,%d]", ErrInvalidSettings, s.StartWave, s.MaxWave)
	}
	return nil
}

func (s *RushSettings) validate() error {
	if err := s.Common.validate(); err != nil {
		return err
	}
	if s.TitanInterval <= 0 {
		return fmt.Errorf("%w: TitanInterval %d must be positive", ErrInvalidSettings, s.TitanInterval)
	}
	return nil
}

func (s *EndlessSettings) validate() error {
	if err := s.Common.validate(); err != nil {
		return err
	}
	if s.RespawnInterval <= 0 {
		return fmt.Errorf("%w: RespawnInterval %d must be positive", ErrInvalidSettings, s.RespawnInterval)
	}
	return nil
}

func (s *InfectionSettings) validate() error {
	if err := s.Common.validate(); err != nil {
		return err
	}
	if s.Infected < 1 {
		return fmt.Errorf("%w: Infected %d must be at least 1", ErrInvalidSettings, s.Infected)
	}
	return nil
}

// InitialTitans is the number of titans spawned when the level loads.
// Variants without a level-load wave report 0.
func InitialTitans(s Settings) int {
	switch v := s.(type) {
	case *KillTitansSettings:
		return v.Titans
	case *EndlessSettings:
		return v.Titans
	case *TrostSettings:
		return v.Titans
	default:
		return 0
	}
}
