// Package round publishes the structured events of the round lifecycle.
package round

import (
	"context"

	"titan-siege/server/logging"
)

// Event types published by the helpers below.
const (
	// EventLevelLoaded marks a level that finished loading and an active round.
	EventLevelLoaded logging.EventType = "round.level_loaded"
	// EventPhaseChanged records every round phase transition.
	EventPhaseChanged logging.EventType = "round.phase_changed"
	// EventGameWon and EventGameLost carry the scores after an outcome.
	EventGameWon  logging.EventType = "round.game_won"
	EventGameLost logging.EventType = "round.game_lost"
	// EventRestart marks the end of a round and the reload of its level.
	EventRestart logging.EventType = "round.restart"
	// EventAllTitansDead fires when the last living titan is killed.
	EventAllTitansDead logging.EventType = "round.all_titans_dead"
	// EventTitanSpawned records one spawn with its rolled archetype.
	EventTitanSpawned logging.EventType = "round.titan_spawned"
	// EventWaveAborted records a wave that stopped before its last spawn.
	EventWaveAborted logging.EventType = "round.wave_aborted"
	// EventScoreReceived records scores mirrored from the session authority.
	EventScoreReceived logging.EventType = "round.score_received"
	// EventOperationError reports a failed gamemode operation.
	EventOperationError logging.EventType = "round.operation_error"
)

// LevelLoadedPayload names the level and the gamemode running on it.
type LevelLoadedPayload struct {
	Level    string `json:"level"`
	Gamemode string `json:"gamemode"`
}

// PhasePayload holds the phase names before and after a transition.
type PhasePayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ScorePayload holds both team scores.
type ScorePayload struct {
	HumanScore int `json:"humanScore"`
	TitanScore int `json:"titanScore"`
}

// TitanSpawnedPayload describes the configuration a titan spawned with.
// Behaviors counts the enabled behavior flags.
type TitanSpawnedPayload struct {
	Archetype string  `json:"archetype"`
	Health    int     `json:"health"`
	Size      float64 `json:"size"`
	Behaviors int     `json:"behaviors,omitempty"`
}

// WaveAbortedPayload explains why a wave stopped and how far it got.
type WaveAbortedPayload struct {
	Reason    string `json:"reason"`
	Spawned   int    `json:"spawned"`
	Remaining int    `json:"remaining"`
}

// ErrorPayload names the failed operation and its error text.
type ErrorPayload struct {
	Operation string `json:"operation"`
	Error     string `json:"error"`
}

func publish(ctx context.Context, pub logging.Publisher, event logging.Event) {
	if pub == nil {
		return
	}
	if event.Category == "" {
		event.Category = logging.CategoryRound
	}
	pub.Publish(ctx, event)
}

func gamemode(id string) logging.EntityRef {
	return logging.EntityRef{ID: id, Kind: logging.EntityKindGamemode}
}

func LevelLoaded(ctx context.Context, pub logging.Publisher, tick uint64, actor string, payload LevelLoadedPayload) {
	publish(ctx, pub, logging.Event{Type: EventLevelLoaded, Tick: tick, Actor: gamemode(actor), Severity: logging.SeverityInfo, Payload: payload})
}

func PhaseChanged(ctx context.Context, pub logging.Publisher, tick uint64, actor string, payload PhasePayload) {
	publish(ctx, pub, logging.Event{Type: EventPhaseChanged, Tick: tick, Actor: gamemode(actor), Severity: logging.SeverityDebug, Payload: payload})
}

func GameWon(ctx context.Context, pub logging.Publisher, tick uint64, actor string, payload ScorePayload) {
	publish(ctx, pub, logging.Event{Type: EventGameWon, Tick: tick, Actor: gamemode(actor), Severity: logging.SeverityInfo, Payload: payload})
}

func GameLost(ctx context.Context, pub logging.Publisher, tick uint64, actor string, payload ScorePayload) {
	publish(ctx, pub, logging.Event{Type: EventGameLost, Tick: tick, Actor: gamemode(actor), Severity: logging.SeverityInfo, Payload: payload})
}

func ScoreReceived(ctx context.Context, pub logging.Publisher, tick uint64, actor string, payload ScorePayload) {
	publish(ctx, pub, logging.Event{Type: EventScoreReceived, Tick: tick, Actor: gamemode(actor), Severity: logging.SeverityDebug, Payload: payload})
}

func Restart(ctx context.Context, pub logging.Publisher, tick uint64, actor string, resetStats bool) {
	publish(ctx, pub, logging.Event{Type: EventRestart, Tick: tick, Actor: gamemode(actor), Severity: logging.SeverityInfo, Extra: map[string]any{"resetStats": resetStats}})
}

func AllTitansDead(ctx context.Context, pub logging.Publisher, tick uint64, actor string) {
	publish(ctx, pub, logging.Event{Type: EventAllTitansDead, Tick: tick, Actor: gamemode(actor), Severity: logging.SeverityInfo})
}

// TitanSpawned records a spawn; titanID is the handle returned by the spawner.
func TitanSpawned(ctx context.Context, pub logging.Publisher, tick uint64, actor, titanID string, payload TitanSpawnedPayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventTitanSpawned,
		Tick:     tick,
		Actor:    gamemode(actor),
		Targets:  []logging.EntityRef{{ID: titanID, Kind: logging.EntityKindTitan}},
		Severity: logging.SeverityDebug,
		Category: logging.CategorySpawn,
		Payload:  payload,
	})
}

func WaveAborted(ctx context.Context, pub logging.Publisher, tick uint64, actor string, payload WaveAbortedPayload) {
	publish(ctx, pub, logging.Event{Type: EventWaveAborted, Tick: tick, Actor: gamemode(actor), Severity: logging.SeverityDebug, Category: logging.CategorySpawn, Payload: payload})
}

func OperationError(ctx context.Context, pub logging.Publisher, tick uint64, actor string, payload ErrorPayload) {
	publish(ctx, pub, logging.Event{Type: EventOperationError, Tick: tick, Actor: gamemode(actor), Severity: logging.SeverityError, Payload: payload})
}
