package gamemode

import (
	"fmt"
	"strconv"
)

func (e *Engine) offline() bool {
	return e.deps.Session != nil && e.deps.Session.IsOfflineMode()
}

// StatusTop shows the titans left and the round time. Offline the time is
// shown as given, online it counts down from totalRoomTime.
func (e *Engine) StatusTop(time, totalRoomTime int) string {
	shown := totalRoomTime - time
	if e.offline() {
		shown = time
	}
	return "Titan Left: " + strconv.Itoa(e.population()) + "  Time : " + strconv.Itoa(shown)
}

// StatusTopRight shows the scores. The time arguments are accepted for
// variants and unused here.
func (e *Engine) StatusTopRight(time, totalRoomTime int) string {
	common := e.settings.Base()
	return fmt.Sprintf("Humanity %d : Titan %d ", common.HumanScore, common.TitanScore)
}

func (e *Engine) RoundEndedMessage() string {
	common := e.settings.Base()
	return fmt.Sprintf("Humanity %d : Titan %d", common.HumanScore, common.TitanScore)
}

func (e *Engine) VictoryMessage(timeUntilRestart, totalServerTime float64) string {
	if e.offline() {
		return fmt.Sprintf("Humanity Win!\n Press %s to Restart.\n\n\n", e.cfg.RestartKey)
	}
	return "Humanity Win!\nGame Restart in " + strconv.Itoa(int(timeUntilRestart)) + "s\n\n"
}

func (e *Engine) DefeatMessage(gameEndCountdown float64) string {
	if e.offline() {
		return fmt.Sprintf("Humanity Fail!\n Press %s to Restart.\n\n\n", e.cfg.RestartKey)
	}
	return "Humanity Fail!\nAgain!\nGame Restart in " + strconv.Itoa(int(gameEndCountdown)) + "s\n\n"
}
