package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Game    GameConfig    `toml:"game"`
	Storage StorageConfig `toml:"storage"`
	Data    DataConfig    `toml:"data"`
	Travel  TravelConfig  `toml:"travel"`
	Logging LoggingConfig `toml:"logging"`
}

type GameConfig struct {
	Name            string        `toml:"name"`
	TickRate        time.Duration `toml:"tick_rate"`
	DefaultMaxSlots int           `toml:"default_max_slots"`
	StartingGold    int64         `toml:"starting_gold"`
	StartingClass   string        `toml:"starting_class"`
	DefaultName     string        `toml:"default_name"`
}

type StorageConfig struct {
	Path        string        `toml:"path"`     // sqlite database file
	SaveKey     string        `toml:"save_key"` // well-known key for the save blob
	BusyTimeout time.Duration `toml:"busy_timeout"`
}

type DataConfig struct {
	Dir        string `toml:"dir"`         // directory holding the YAML catalogs
	ScriptsDir string `toml:"scripts_dir"` // directory holding item effect Lua scripts
}

type TravelConfig struct {
	BaseSeconds float64       `toml:"base_seconds"` // seconds per distance unit at neutral speed
	SettleDelay time.Duration `toml:"settle_delay"` // Traveling→Arrived commit delay
	ArriveDelay time.Duration `toml:"arrive_delay"` // Arrived→Idle UI delay
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Game: GameConfig{
			Name:            "Emberfall",
			TickRate:        100 * time.Millisecond,
			DefaultMaxSlots: 30,
			StartingGold:    0,
			StartingClass:   "adventurer",
			DefaultName:     "Wanderer",
		},
		Storage: StorageConfig{
			Path:        "emberfall.db",
			SaveKey:     "gamesave",
			BusyTimeout: 5 * time.Second,
		},
		Data: DataConfig{
			Dir:        "data/yaml",
			ScriptsDir: "data/scripts",
		},
		Travel: TravelConfig{
			BaseSeconds: 0.5,
			SettleDelay: 1 * time.Second,
			ArriveDelay: 1500 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
