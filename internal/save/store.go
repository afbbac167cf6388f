package save

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/emberfall/client/internal/world"
	"go.uber.org/zap"
)

// Store owns the single game-save record: load once at startup, commit on
// every drained batch. Commit is best effort: a failed write is logged and
// swallowed, the in-memory state stays authoritative.
type Store struct {
	db  *DB
	key string
	log *zap.Logger
}

func NewStore(db *DB, key string, log *zap.Logger) *Store {
	return &Store{db: db, key: key, log: log}
}

// Load reads the durable blob. A missing record or a version tag that does
// not exactly match world.SaveVersion both return (nil, nil): "no save
// exists", routing the caller to fresh-player creation.
func (s *Store) Load(ctx context.Context) (*world.GameSave, error) {
	var version, payload string
	err := s.db.SQL.QueryRowContext(ctx,
		`SELECT version, payload FROM game_save WHERE key = ?`, s.key,
	).Scan(&version, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if version != world.SaveVersion {
		s.log.Info("save version mismatch, treating as no save",
			zap.String("stored", version), zap.String("expected", world.SaveVersion))
		return nil, nil
	}
	var save world.GameSave
	if err := json.Unmarshal([]byte(payload), &save); err != nil {
		s.log.Warn("corrupt save payload, treating as no save", zap.Error(err))
		return nil, nil
	}
	if save.Version != world.SaveVersion {
		return nil, nil
	}
	normalize(&save)
	return &save, nil
}

// Commit writes the full serialized blob under the well-known key. Failures
// are logged, never propagated; every call is still attempted.
func (s *Store) Commit(save *world.GameSave) {
	payload, err := json.Marshal(save)
	if err != nil {
		s.log.Error("save marshal failed", zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = s.db.SQL.ExecContext(ctx,
		`INSERT INTO game_save (key, version, payload, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET version = excluded.version,
		     payload = excluded.payload, updated_at = excluded.updated_at`,
		s.key, save.Version, string(payload), time.Now().UnixMilli())
	if err != nil {
		s.log.Error("save commit failed", zap.Error(err))
	}
}

// normalize guards against nil maps in blobs written by older sessions.
func normalize(save *world.GameSave) {
	if save.Events == nil {
		save.Events = map[string]world.EventRecord{}
	}
	p := &save.Player
	if p.ClassProgress == nil {
		p.ClassProgress = map[string]world.ClassProgress{}
	}
	if p.Currency == nil {
		p.Currency = map[world.CurrencyType]int64{}
	}
	if p.MapSaveData.AreaProgress == nil {
		p.MapSaveData.AreaProgress = map[string]world.AreaProgress{}
	}
	if p.MapSaveData.MaxDungeonProgress == nil {
		p.MapSaveData.MaxDungeonProgress = map[string]int{}
	}
	if p.SkillRuntime.Cooldowns == nil {
		p.SkillRuntime.Cooldowns = map[string]int64{}
	}
	if p.SkillRuntime.Effects == nil {
		p.SkillRuntime.Effects = map[string]int64{}
	}
}
