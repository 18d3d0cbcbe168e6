package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"titan-siege/server/internal/gamemode"
	"titan-siege/server/internal/gamemode/settings"
	"titan-siege/server/internal/scene"
	"titan-siege/server/logging"
)

// Config is the process configuration read from the environment.
type Config struct {
	ListenAddr       string        `env:"LISTEN_ADDR"       envDefault:":8080"`
	TickRate         int           `env:"TICK_RATE"         envDefault:"15"`
	Authority        bool          `env:"AUTHORITY"         envDefault:"true"`
	Offline          bool          `env:"OFFLINE"           envDefault:"false"`
	AuthorityPeer    string        `env:"AUTHORITY_PEER"    envDefault:"authority"`
	Seed             string        `env:"SEED"`
	Gamemode         string        `env:"GAMEMODE"          envDefault:"TitanRush"`
	SettingsPath     string        `env:"SETTINGS_PATH"`
	LevelPath        string        `env:"LEVEL_PATH"`
	RestartCountdown time.Duration `env:"RESTART_COUNTDOWN" envDefault:"9s"`
	RestartKey       string        `env:"RESTART_KEY"       envDefault:"R"`
	RoundTime        time.Duration `env:"ROUND_TIME"        envDefault:"10m"`
	ClientDir        string        `env:"CLIENT_DIR"`
	LogSinks         []string      `env:"LOG_SINKS"         envDefault:"console" envSeparator:","`
	LogJSONPath      string        `env:"LOG_JSON_PATH"     envDefault:"round-events.jsonl"`
	LogMinSeverity   string        `env:"LOG_MIN_SEVERITY"  envDefault:"info"`
	OTELEndpoint     string        `env:"OTEL_ENDPOINT"`
}

// LoadConfig parses the environment over the defaults.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c Config) gamemodeConfig() gamemode.Config {
	gmCfg := gamemode.DefaultConfig()
	gmCfg.Authority = c.Authority
	gmCfg.RestartCountdown = c.RestartCountdown
	gmCfg.RestartKey = c.RestartKey
	return gmCfg
}

// authorityPeer is the client name trusted to broadcast round state. An
// authoritative server trusts no client.
func (c Config) authorityPeer() string {
	if c.Authority {
		return ""
	}
	return c.AuthorityPeer
}

func (c Config) loggingConfig() (logging.Config, error) {
	logCfg := logging.DefaultConfig()
	if len(c.LogSinks) > 0 {
		logCfg.EnabledSinks = nil
		for _, sink := range c.LogSinks {
			if name := strings.TrimSpace(sink); name != "" {
				logCfg.EnabledSinks = append(logCfg.EnabledSinks, name)
			}
		}
	}
	severity, err := logging.ParseSeverity(c.LogMinSeverity)
	if err != nil {
		return logging.Config{}, fmt.Errorf("LOG_MIN_SEVERITY: %w", err)
	}
	logCfg.MinimumSeverity = severity
	logCfg.JSONPath = c.LogJSONPath
	return logCfg, nil
}

// loadSettings reads SETTINGS_PATH when set, in which case the document's
// Gamemode field selects the variant. Otherwise GAMEMODE picks the defaults.
func (c Config) loadSettings() (settings.Settings, error) {
	if c.SettingsPath == "" {
		gamemodeType, err := settings.ParseType(c.Gamemode)
		if err != nil {
			return nil, fmt.Errorf("%w: GAMEMODE: %w", gamemode.ErrConfiguration, err)
		}
		return gamemode.ConvertSettings([]byte(`{}`), gamemodeType)
	}
	data, err := os.ReadFile(c.SettingsPath)
	if err != nil {
		return nil, fmt.Errorf("read settings %s: %w", c.SettingsPath, err)
	}
	s, err := settings.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", gamemode.ErrConfiguration, err)
	}
	return s, nil
}

func (c Config) loadLayout() (scene.Layout, error) {
	if c.LevelPath == "" {
		return scene.DefaultLayout(), nil
	}
	return scene.LoadLayout(c.LevelPath)
}
