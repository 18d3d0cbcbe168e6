package gamemode

import (
	"strings"
	"time"
)

// Config tunes an engine independently of the gamemode settings document.
type Config struct {
	// Authority marks the participant that computes round outcomes.
	Authority        bool
	Name             string
	MinimumSize      float64
	MaximumSize      float64
	Damage           int
	ViewDistance     int
	Speed            float64
	RestartCountdown time.Duration
	RestartKey       string
}

func DefaultConfig() Config {
	return Config{
		Authority:        true,
		MinimumSize:      0.7,
		MaximumSize:      3,
		Damage:           10,
		ViewDistance:     100,
		Speed:            150,
		RestartCountdown: 9 * time.Second,
		RestartKey:       "R",
	}
}

func (c Config) normalized() Config {
	defaults := DefaultConfig()
	n := c
	if n.MinimumSize <= 0 || n.MaximumSize < n.MinimumSize {
		n.MinimumSize = defaults.MinimumSize
		n.MaximumSize = defaults.MaximumSize
	}
	if n.Damage <= 0 {
		n.Damage = defaults.Damage
	}
	if n.ViewDistance <= 0 {
		n.ViewDistance = defaults.ViewDistance
	}
	if n.Speed <= 0 {
		n.Speed = defaults.Speed
	}
	if n.RestartCountdown <= 0 {
		n.RestartCountdown = defaults.RestartCountdown
	}
	n.RestartKey = strings.TrimSpace(n.RestartKey)
	if n.RestartKey == "" {
		n.RestartKey = defaults.RestartKey
	}
	return n
}
