package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emberfall.toml")
	body := `
[game]
name = "Testfall"
tick_rate = "50ms"
starting_gold = 500

[storage]
path = "other.db"

[logging]
level = "debug"
format = "json"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Game.Name != "Testfall" || cfg.Game.TickRate != 50*time.Millisecond {
		t.Errorf("game = %+v", cfg.Game)
	}
	if cfg.Game.StartingGold != 500 {
		t.Errorf("starting gold = %d", cfg.Game.StartingGold)
	}
	// Unset keys keep their defaults.
	if cfg.Game.DefaultMaxSlots != 30 {
		t.Errorf("max slots = %d, want default 30", cfg.Game.DefaultMaxSlots)
	}
	if cfg.Game.StartingClass != "adventurer" {
		t.Errorf("starting class = %q", cfg.Game.StartingClass)
	}
	if cfg.Storage.Path != "other.db" || cfg.Storage.SaveKey != "gamesave" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Travel.BaseSeconds != 0.5 || cfg.Travel.SettleDelay != time.Second {
		t.Errorf("travel = %+v", cfg.Travel)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("missing config should error")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[game\nname="), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed config should error")
	}
}
