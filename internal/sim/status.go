package sim

import "titan-siege/server/internal/scene"

// Status is the round state published after every step.
type Status struct {
	Tick           uint64         `json:"tick"`
	RoundID        string         `json:"roundId"`
	Gamemode       string         `json:"gamemode"`
	Phase          string         `json:"phase"`
	Authority      bool           `json:"authority"`
	HumanScore     int            `json:"humanScore"`
	TitanScore     int            `json:"titanScore"`
	Countdown      float64        `json:"countdown"`
	StatusTop      string         `json:"statusTop"`
	StatusTopRight string         `json:"statusTopRight"`
	Message        string         `json:"message,omitempty"`
	Scene          scene.Snapshot `json:"scene"`
}
