package save

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/emberfall/client/internal/config"
	"github.com/emberfall/client/internal/world"
	"go.uber.org/zap"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()
	cfg := config.StorageConfig{
		Path:        filepath.Join(t.TempDir(), "test.db"),
		SaveKey:     "gamesave",
		BusyTimeout: time.Second,
	}
	db, err := Open(ctx, cfg, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	if err := RunMigrations(ctx, db.SQL); err != nil {
		t.Fatal(err)
	}
	return db
}

func sampleSave() *world.GameSave {
	return &world.GameSave{
		Player: world.PlayerData{
			ID:   "p1",
			Name: "Tester",
			CharacterStats: world.CharacterStats{
				Level: 3, Health: 120, CurrentHealth: 80,
			},
			CurrentClassID: "warrior",
			ClassProgress:  map[string]world.ClassProgress{"warrior": {}},
			Currency:       map[world.CurrencyType]int64{world.CurrencyGold: 500},
			Inventory: world.Inventory{
				State: world.InventoryState{
					MaxSlots: 30,
					Items:    []world.InvItem{{ItemID: "potion", Quantity: 7, Slot: 0}},
				},
			},
			MapSaveData: world.MapSaveData{
				AreaProgress:       map[string]world.AreaProgress{"town": {MaxExploration: 40}},
				UnlockedAreas:      []string{"town"},
				DefeatedBosses:     []string{},
				MaxDungeonProgress: map[string]int{},
			},
			SkillRuntime: world.SkillRuntime{
				Cooldowns: map[string]int64{},
				Effects:   map[string]int64{},
			},
		},
		Events:  map[string]world.EventRecord{"intro": {CompletedAt: 42}},
		Version: world.SaveVersion,
	}
}

func TestLoadMissingReturnsNil(t *testing.T) {
	db := openTestDB(t)
	store := NewStore(db, "gamesave", zap.NewNop())

	save, err := store.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if save != nil {
		t.Errorf("missing save should load as nil, got %+v", save)
	}
}

func TestCommitLoadRoundTrip(t *testing.T) {
	db := openTestDB(t)
	store := NewStore(db, "gamesave", zap.NewNop())

	in := sampleSave()
	store.Commit(in)

	out, err := store.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if out == nil {
		t.Fatal("committed save not found")
	}
	if out.Player.Name != "Tester" || out.Player.CharacterStats.Level != 3 {
		t.Errorf("player = %+v", out.Player)
	}
	if out.Player.Currency[world.CurrencyGold] != 500 {
		t.Error("currency lost")
	}
	if got := out.Player.Inventory.State.Items; len(got) != 1 || got[0].Quantity != 7 {
		t.Errorf("inventory = %+v", got)
	}
	if out.Events["intro"].CompletedAt != 42 {
		t.Error("event record lost")
	}
}

func TestCommitOverwritesSameKey(t *testing.T) {
	db := openTestDB(t)
	store := NewStore(db, "gamesave", zap.NewNop())

	first := sampleSave()
	store.Commit(first)
	second := sampleSave()
	second.Player.CharacterStats.Level = 9
	store.Commit(second)

	out, err := store.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if out.Player.CharacterStats.Level != 9 {
		t.Errorf("level = %d, want 9 (latest commit wins)", out.Player.CharacterStats.Level)
	}

	var rows int
	if err := db.SQL.QueryRow(`SELECT COUNT(*) FROM game_save`).Scan(&rows); err != nil {
		t.Fatal(err)
	}
	if rows != 1 {
		t.Errorf("rows = %d, want a single save record", rows)
	}
}

func TestLoadVersionMismatchReturnsNil(t *testing.T) {
	db := openTestDB(t)
	store := NewStore(db, "gamesave", zap.NewNop())

	in := sampleSave()
	in.Version = "0.0.1"
	store.Commit(in)

	out, err := store.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if out != nil {
		t.Error("version mismatch should load as nil")
	}
}

func TestLoadCorruptPayloadReturnsNil(t *testing.T) {
	db := openTestDB(t)
	store := NewStore(db, "gamesave", zap.NewNop())

	_, err := db.SQL.Exec(
		`INSERT INTO game_save (key, version, payload, updated_at) VALUES (?, ?, ?, 0)`,
		"gamesave", world.SaveVersion, "{not json")
	if err != nil {
		t.Fatal(err)
	}

	out, err := store.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if out != nil {
		t.Error("corrupt payload should load as nil")
	}
}

func TestLoadNormalizesNilMaps(t *testing.T) {
	db := openTestDB(t)
	store := NewStore(db, "gamesave", zap.NewNop())

	// A minimal blob with every optional map omitted.
	payload := `{"player":{"id":"p1","name":"Old"},"version":"` + world.SaveVersion + `"}`
	_, err := db.SQL.Exec(
		`INSERT INTO game_save (key, version, payload, updated_at) VALUES (?, ?, ?, 0)`,
		"gamesave", world.SaveVersion, payload)
	if err != nil {
		t.Fatal(err)
	}

	out, err := store.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if out == nil {
		t.Fatal("save not loaded")
	}
	if out.Events == nil || out.Player.Currency == nil ||
		out.Player.MapSaveData.AreaProgress == nil ||
		out.Player.SkillRuntime.Cooldowns == nil {
		t.Error("nil maps not normalized")
	}
}
