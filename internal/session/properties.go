package session

import (
	"math"
	"strconv"
)

// Custom property keys carried by every participant.
const (
	PropKills    = "kills"
	PropDeaths   = "deaths"
	PropMaxDmg   = "max_dmg"
	PropTotalDmg = "total_dmg"
	PropIsTitan  = "isTitan"
	PropDead     = "dead"
)

// ResetStats returns the property set clearing per-round stats.
func ResetStats() map[string]any {
	return map[string]any{
		PropKills:    0,
		PropDeaths:   0,
		PropMaxDmg:   0,
		PropTotalDmg: 0,
	}
}

// IntProperty reads an integer property. Missing or non numeric values read
// as 0.
func IntProperty(props map[string]any, key string) int {
	switch v := props[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return int(v)
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// BoolProperty reads a boolean property. Anything but a true bool reads as
// false.
func BoolProperty(props map[string]any, key string) bool {
	v, ok := props[key].(bool)
	return ok && v
}
