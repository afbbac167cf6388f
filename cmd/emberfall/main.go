package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/emberfall/client/internal/config"
	"github.com/emberfall/client/internal/core/event"
	coresys "github.com/emberfall/client/internal/core/system"
	"github.com/emberfall/client/internal/data"
	"github.com/emberfall/client/internal/engine"
	"github.com/emberfall/client/internal/save"
	"github.com/emberfall/client/internal/scripting"
	"github.com/emberfall/client/internal/system"
	"github.com/emberfall/client/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func printStat(label string, count int) {
	fmt.Printf("  %-24s %d\n", label, count)
}

func run() error {
	// 1. Load config
	cfgPath := "config/emberfall.toml"
	if p := os.Getenv("EMBERFALL_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	fmt.Printf("\n  %s game core\n\n", cfg.Game.Name)

	// 3. Open local storage and run migrations
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := save.Open(ctx, cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer db.Close()

	if err := save.RunMigrations(ctx, db.SQL); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	// 4. Load content catalogs
	itemTable, err := data.LoadItemTable(
		filepath.Join(cfg.Data.Dir, "item_list.yaml"),
		filepath.Join(cfg.Data.Dir, "weapon_list.yaml"),
	)
	if err != nil {
		return fmt.Errorf("load item table: %w", err)
	}
	printStat("item templates", itemTable.Count())

	classTable, err := data.LoadClassTable(filepath.Join(cfg.Data.Dir, "class_list.yaml"))
	if err != nil {
		return fmt.Errorf("load class table: %w", err)
	}
	printStat("classes", classTable.Count())

	skillTable, err := data.LoadSkillTable(filepath.Join(cfg.Data.Dir, "skill_list.yaml"))
	if err != nil {
		return fmt.Errorf("load skill table: %w", err)
	}
	printStat("skills", skillTable.Count())

	shopTable, err := data.LoadShopTable(filepath.Join(cfg.Data.Dir, "shop_list.yaml"))
	if err != nil {
		return fmt.Errorf("load shop table: %w", err)
	}
	printStat("shops", shopTable.Count())

	worldTable, err := data.LoadWorldTable(filepath.Join(cfg.Data.Dir, "world_map.yaml"))
	if err != nil {
		return fmt.Errorf("load world map: %w", err)
	}
	printStat("floors", worldTable.FloorCount())
	printStat("areas", worldTable.AreaCount())

	// 5. Item effect scripts
	effects, err := scripting.NewEngine(cfg.Data.ScriptsDir, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer effects.Close()

	// 6. Load or create the save
	store := save.NewStore(db, cfg.Storage.SaveKey, log)
	current, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load save: %w", err)
	}

	env := &world.Env{
		Items:      itemTable,
		Classes:    classTable,
		Skills:     skillTable,
		Shops:      shopTable,
		World:      worldTable,
		ItemEffect: effects,
	}
	bus := event.NewBus()

	created := false
	if current == nil {
		// No save (or version mismatch): seed the engine with a throwaway
		// sheet, then let CreateNewPlayer replace it through the queue.
		cls := classTable.Get(cfg.Game.StartingClass)
		if cls == nil {
			return fmt.Errorf("class catalog is missing the starting class %q", cfg.Game.StartingClass)
		}
		current = world.NewPlayer(cfg.Game.DefaultName, cls, worldTable, cfg.Game.DefaultMaxSlots, time.Now().UnixMilli())
		created = true
	}

	eng := engine.New(cfg, store, env, bus, current, log)
	if created {
		eng.CreateNewPlayer(cfg.Game.DefaultName, cfg.Game.StartingClass, nil)
		log.Info("created new player",
			zap.String("name", cfg.Game.DefaultName),
			zap.String("class", cfg.Game.StartingClass))
	} else {
		log.Info("loaded save",
			zap.String("player", current.Player.Name),
			zap.Int("level", current.Player.CharacterStats.Level))
	}

	// 7. Runner: travel on update phase, queue flush on persist phase
	travel := system.NewTravelSystem(eng, worldTable, cfg.Travel, bus, log)
	runner := coresys.NewRunner()
	runner.Register(travel)
	runner.Register(system.NewFlushSystem(eng))

	event.Subscribe(bus, func(ev event.LevelUp) {
		log.Info("level up", zap.Int("from", ev.OldLevel), zap.Int("to", ev.NewLevel))
	})
	event.Subscribe(bus, func(ev event.TravelArrived) {
		log.Info("arrived", zap.String("area", ev.AreaID))
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Game.TickRate)
	defer ticker.Stop()

	fmt.Printf("\n  running (tick %s), ctrl-c to quit\n\n", cfg.Game.TickRate)
	last := time.Now()
	for {
		select {
		case <-sigCh:
			// Final flush so nothing enqueued is lost.
			eng.Flush()
			log.Info("shutdown complete")
			return nil
		case now := <-ticker.C:
			runner.Tick(now.Sub(last))
			last = now
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.Format == "json" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}
