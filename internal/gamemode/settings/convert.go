package settings

import (
	"encoding/json"
	"fmt"
)

// New returns the defaults for a gamemode type.
func New(t Type) (Settings, error) {
	common := defaultCommon()
	switch t {
	case TypeRacing:
		common.TitanLimit = 0
		return &RacingSettings{Common: common, RestartOnFinish: true, QuickStart: 20}, nil
	case TypeCapture:
		return &CaptureSettings{Common: common, PvpHumanScoreLimit: 200, PvpTitanScoreLimit: 200}, nil
	case TypeTitans:
		common.RestartOnTitansKilled = true
		return &KillTitansSettings{Common: common, Titans: 10}, nil
	case TypeEndless:
		return &EndlessSettings{Common: common, Titans: 10, RespawnInterval: 10}, nil
	case TypeWave:
		common.RestartOnTitansKilled = false
		return &WaveSettings{Common: common, StartWave: 1, MaxWave: 20, WaveIncrement: 2, BossWave: 5}, nil
	case TypeTrost:
		return &TrostSettings{Common: common, Titans: 2}, nil
	case TypeTitanRush:
		return &RushSettings{Common: common, TitanInterval: 7}, nil
	case TypePvpAhss:
		common.TitanLimit = 0
		return &PvPAhssSettings{Common: common}, nil
	case TypeInfection:
		common.TitanLimit = 0
		return &InfectionSettings{Common: common, Infected: 1}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownGamemode, t)
	}
}

// Convert decodes a settings document into the variant selected by t. Fields
// absent from the document keep the variant defaults.
func Convert(data []byte, t Type) (Settings, error) {
	s, err := New(t)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("decode %s settings: %w", t, err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

type discriminator struct {
	Gamemode *Type `json:"Gamemode"`
}

// Decode reads the "Gamemode" discriminator field of the document and then
// converts it with that type.
func Decode(data []byte) (Settings, error) {
	var d discriminator
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode gamemode discriminator: %w", err)
	}
	if d.Gamemode == nil {
		return nil, fmt.Errorf("%w: missing Gamemode discriminator", ErrInvalidSettings)
	}
	return Convert(data, *d.Gamemode)
}
