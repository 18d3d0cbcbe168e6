package sim

import (
	"time"

	"titan-siege/server/internal/telemetry"
	"titan-siege/server/logging"
)

// Deps carries shared infrastructure dependencies required by the simulation.
type Deps struct {
	Logger telemetry.Logger
	Clock  logging.Clock
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = telemetry.LoggerFunc(nil)
	}
	if d.Clock == nil {
		d.Clock = logging.ClockFunc(time.Now)
	}
	return d
}
