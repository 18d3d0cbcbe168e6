package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"titan-siege/server/internal/gamemode"
	"titan-siege/server/internal/gamemode/settings"
	"titan-siege/server/logging"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Fatalf("expected :8080, got %q", cfg.ListenAddr)
	}
	if cfg.TickRate != 15 || !cfg.Authority || cfg.Offline {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.RestartCountdown != 9*time.Second || cfg.RestartKey != "R" {
		t.Fatalf("expected 9s countdown with key R, got %s %q", cfg.RestartCountdown, cfg.RestartKey)
	}
	if cfg.RoundTime != 10*time.Minute {
		t.Fatalf("expected 10m round time, got %s", cfg.RoundTime)
	}
	if cfg.authorityPeer() != "" {
		t.Fatalf("expected an authoritative server to trust no peer, got %q", cfg.authorityPeer())
	}
	if len(cfg.LogSinks) != 1 || cfg.LogSinks[0] != "console" {
		t.Fatalf("expected console sink, got %v", cfg.LogSinks)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("TICK_RATE", "30")
	t.Setenv("AUTHORITY", "false")
	t.Setenv("RESTART_COUNTDOWN", "4s")
	t.Setenv("LOG_SINKS", "console, json")
	t.Setenv("LOG_MIN_SEVERITY", "warn")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.TickRate != 30 || cfg.Authority {
		t.Fatalf("expected overrides applied, got %+v", cfg)
	}
	if cfg.authorityPeer() != "authority" {
		t.Fatalf("expected mirror to trust the authority peer, got %q", cfg.authorityPeer())
	}
	gmCfg := cfg.gamemodeConfig()
	if gmCfg.Authority || gmCfg.RestartCountdown != 4*time.Second {
		t.Fatalf("expected gamemode config to follow env, got %+v", gmCfg)
	}
	logCfg, err := cfg.loggingConfig()
	if err != nil {
		t.Fatalf("logging config: %v", err)
	}
	if !logCfg.HasSink("json") || !logCfg.HasSink("console") {
		t.Fatalf("expected both sinks, got %v", logCfg.EnabledSinks)
	}
	if logCfg.MinimumSeverity != logging.SeverityWarn {
		t.Fatalf("expected warn severity, got %s", logCfg.MinimumSeverity)
	}
}

func TestLoadConfigRejectsBadDuration(t *testing.T) {
	t.Setenv("ROUND_TIME", "soon")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected parse error for ROUND_TIME")
	}
}

func TestLoggingConfigRejectsUnknownSeverity(t *testing.T) {
	cfg := Config{LogMinSeverity: "loud"}
	if _, err := cfg.loggingConfig(); err == nil {
		t.Fatalf("expected error for unknown severity")
	}
}

func TestLoadSettingsFromGamemodeName(t *testing.T) {
	s, err := Config{Gamemode: "wave"}.loadSettings()
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if s.Type() != settings.TypeWave {
		t.Fatalf("expected Wave settings, got %s", s.Type())
	}

	_, err = Config{Gamemode: "football"}.loadSettings()
	if !errors.Is(err, gamemode.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestLoadSettingsFromDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"Gamemode":"TitanRush","TitanInterval":3}`), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	s, err := Config{Gamemode: "Titans", SettingsPath: path}.loadSettings()
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	rush, ok := s.(*settings.RushSettings)
	if !ok {
		t.Fatalf("expected rush settings, got %T", s)
	}
	if rush.TitanInterval != 3 {
		t.Fatalf("expected TitanInterval 3, got %d", rush.TitanInterval)
	}
}

func TestLoadLayoutDefaultsToBuiltIn(t *testing.T) {
	layout, err := Config{}.loadLayout()
	if err != nil {
		t.Fatalf("load layout: %v", err)
	}
	if layout.Name != "gate-district" {
		t.Fatalf("expected built-in layout, got %q", layout.Name)
	}
}
