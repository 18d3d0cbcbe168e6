package sim

import (
	"time"

	"titan-siege/server/internal/geom"
)

// CommandType enumerates the supported simulation commands.
type CommandType string

const (
	CommandSpawnHero   CommandType = "SpawnHero"
	CommandMoveHero    CommandType = "MoveHero"
	CommandHeroKilled  CommandType = "HeroKilled"
	CommandLeave       CommandType = "Leave"
	CommandKillTitan   CommandType = "KillTitan"
	CommandSpawnTitans CommandType = "SpawnTitans"
	CommandRestart     CommandType = "Restart"
	CommandNetGameWin  CommandType = "NetGameWin"
	CommandNetGameLose CommandType = "NetGameLose"
	CommandNetRestart  CommandType = "NetRestart"
)

// HeroCommand carries a hero position.
type HeroCommand struct {
	Position geom.Vec3 `json:"position"`
}

// TitanCommand identifies a titan, or an amount for a spawn request.
type TitanCommand struct {
	TitanID string `json:"titanId,omitempty"`
	Amount  int    `json:"amount,omitempty"`
}

// ScoreCommand carries a score broadcast by the authority.
type ScoreCommand struct {
	Score int `json:"score"`
}

// Command represents an intent captured for processing on the next tick.
type Command struct {
	OriginTick  uint64        `json:"originTick"`
	Participant int           `json:"participant"`
	Type        CommandType   `json:"type"`
	IssuedAt    time.Time     `json:"issuedAt"`
	Hero        *HeroCommand  `json:"hero,omitempty"`
	Titan       *TitanCommand `json:"titan,omitempty"`
	Score       *ScoreCommand `json:"score,omitempty"`
}
