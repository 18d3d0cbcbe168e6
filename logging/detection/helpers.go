package detection

import (
	"context"

	"titan-siege/server/logging"
)

const EventTargetAcquired logging.EventType = "detection.target_acquired"

type TargetAcquiredPayload struct {
	Angle float64 `json:"angle"`
}

// TargetAcquired publishes a titan locking onto a human.
func TargetAcquired(ctx context.Context, pub logging.Publisher, tick uint64, titanID, humanID string, angle float64) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventTargetAcquired,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: titanID, Kind: logging.EntityKindTitan},
		Targets:  []logging.EntityRef{{ID: humanID, Kind: logging.EntityKindHuman}},
		Severity: logging.SeverityDebug,
		Category: logging.CategoryDetection,
		Payload:  TargetAcquiredPayload{Angle: angle},
	})
}
