package world

import (
	"math"
	"sort"

	"github.com/emberfall/client/internal/data"
	"github.com/google/uuid"
)

// SaveVersion tags the save blob format. Any stored blob whose version does
// not exactly match is treated as "no save exists".
const SaveVersion = "1.0.0"

// CurrencyType identifies one balance in the player's currency ledger.
type CurrencyType string

const (
	CurrencyGold    CurrencyType = "gold"
	CurrencyDungeon CurrencyType = "dungeon"
	CurrencyFaith   CurrencyType = "faith"
	CurrencyHonor   CurrencyType = "honor"
	CurrencyEvent   CurrencyType = "event"
)

// GameSave is the single durable document: all persistent player state plus
// event flags, under one version tag.
type GameSave struct {
	Player  PlayerData             `json:"player"`
	Events  map[string]EventRecord `json:"events"`
	Version string                 `json:"version"`
}

// EventRecord marks a one-shot game event (tutorial step, quest flag) as done.
type EventRecord struct {
	CompletedAt int64 `json:"completedAt"` // ms since epoch
}

// PlayerData is the root aggregate. It is only ever mutated through the
// update queue; everything here is JSON-serializable.
type PlayerData struct {
	ID             string                   `json:"id"`
	Name           string                   `json:"name"`
	CharacterStats CharacterStats           `json:"characterStats"`
	CurrentClassID string                   `json:"currentClassId"`
	ClassProgress  map[string]ClassProgress `json:"classProgress"`
	Inventory      Inventory                `json:"inventory"`
	Equipped       Equipped                 `json:"equipped"`
	Currency       map[CurrencyType]int64   `json:"currency"`
	LocationData   LocationData             `json:"locationData"`
	MapSaveData    MapSaveData              `json:"mapSaveData"`
	SkillRuntime   SkillRuntime             `json:"skillRuntime"`
	CreatedAt      int64                    `json:"createdAt"`   // ms since epoch
	LastLoginAt    int64                    `json:"lastLoginAt"` // ms since epoch; touched on every commit
}

// CharacterStats holds level, experience, and the derived stat sheet.
type CharacterStats struct {
	Level         int   `json:"level"`
	Experience    int64 `json:"experience"`
	NextLevelExp  int64 `json:"nextLevelExp"`
	Health        int   `json:"health"`
	CurrentHealth int   `json:"currentHealth"`
	Mana          int   `json:"mana"`
	CurrentMana   int   `json:"currentMana"`
	Strength      int   `json:"strength"`
	Dexterity     int   `json:"dexterity"`
	Intelligence  int   `json:"intelligence"`
}

// ClassProgress records per-class unlocks. Skills are never un-learned.
type ClassProgress struct {
	UnlockedSkills []string `json:"unlockedSkills"` // sorted, unique
}

// HasSkill reports whether the skill is unlocked.
func (p ClassProgress) HasSkill(skillID string) bool {
	for _, s := range p.UnlockedSkills {
		if s == skillID {
			return true
		}
	}
	return false
}

// withSkill returns a copy with the skill added (no-op if already present).
func (p ClassProgress) withSkill(skillID string) ClassProgress {
	if p.HasSkill(skillID) {
		return p
	}
	skills := make([]string, 0, len(p.UnlockedSkills)+1)
	skills = append(skills, p.UnlockedSkills...)
	skills = append(skills, skillID)
	sort.Strings(skills)
	return ClassProgress{UnlockedSkills: skills}
}

// Equipped holds the single-weapon equipment slot.
type Equipped struct {
	Weapon string `json:"weapon,omitempty"` // item ID, "" = bare hands
}

// LocationData is the player's current position in the world graph. Both IDs
// always reference a valid floor/area in the static map catalog.
type LocationData struct {
	CurrentFloorID string `json:"currentFloorId"`
	CurrentAreaID  string `json:"currentAreaId"`
}

// AreaProgress tracks exploration of one area. CurrentExploration resets on
// each arrival; MaxExploration only ratchets upward.
type AreaProgress struct {
	CurrentExploration int `json:"currentExploration"`
	MaxExploration     int `json:"maxExploration"`
	DungeonExploration int `json:"dungeonExploration,omitempty"`
}

// MapSaveData holds all per-area persistent map state.
type MapSaveData struct {
	AreaProgress       map[string]AreaProgress `json:"areaProgress"`
	UnlockedAreas      []string                `json:"unlockedAreas"` // sorted, unique
	DefeatedBosses     []string                `json:"defeatedBosses"`
	MaxDungeonProgress map[string]int          `json:"maxDungeonProgress"`
}

// AreaUnlocked reports whether the area has been unlocked.
func (m MapSaveData) AreaUnlocked(areaID string) bool {
	return containsString(m.UnlockedAreas, areaID)
}

// BossDefeated reports whether the boss has been defeated.
func (m MapSaveData) BossDefeated(bossID string) bool {
	return containsString(m.DefeatedBosses, bossID)
}

// SkillRuntime holds persisted skill execution state: cooldown end times and
// active effect end times, both ms since epoch, keyed by skill/effect id.
type SkillRuntime struct {
	Cooldowns map[string]int64 `json:"cooldowns"`
	Effects   map[string]int64 `json:"effects"` // effect type → end time; last applied wins
}

// NewPlayer builds a fresh save with deterministic defaults: a level-1 sheet
// computed from the class curve, zero currencies, empty inventory, starter
// location at the first floor's town.
func NewPlayer(name string, cls *data.ClassInfo, wt *data.WorldTable, maxSlots int, nowMillis int64) *GameSave {
	floor := wt.FirstFloor()
	stats := RecomputeStats(cls, 1)
	stats.CurrentHealth = stats.Health
	stats.CurrentMana = stats.Mana
	stats.NextLevelExp = ExpForLevel(1)

	save := &GameSave{
		Player: PlayerData{
			ID:             uuid.NewString(),
			Name:           name,
			CharacterStats: stats,
			CurrentClassID: cls.ID,
			ClassProgress: map[string]ClassProgress{
				cls.ID: {},
			},
			Inventory: Inventory{
				State:    InventoryState{MaxSlots: maxSlots},
				Settings: InventorySettings{},
			},
			Currency: map[CurrencyType]int64{
				CurrencyGold:    0,
				CurrencyDungeon: 0,
				CurrencyFaith:   0,
				CurrencyHonor:   0,
				CurrencyEvent:   0,
			},
			LocationData: LocationData{
				CurrentFloorID: floor.ID,
				CurrentAreaID:  floor.TownAreaID,
			},
			MapSaveData: MapSaveData{
				AreaProgress:       map[string]AreaProgress{floor.TownAreaID: {}},
				UnlockedAreas:      []string{floor.TownAreaID},
				DefeatedBosses:     []string{},
				MaxDungeonProgress: map[string]int{},
			},
			SkillRuntime: SkillRuntime{
				Cooldowns: map[string]int64{},
				Effects:   map[string]int64{},
			},
			CreatedAt:   nowMillis,
			LastLoginAt: nowMillis,
		},
		Events:  map[string]EventRecord{},
		Version: SaveVersion,
	}
	return save
}

// ExpForLevel returns the experience required to advance past the given
// level: floor(100 × 1.5^(level-1)). The curve saturates at MaxInt64 once
// the float exceeds the int64 range, so extreme levels stay finite instead
// of wrapping to an undefined conversion.
func ExpForLevel(level int) int64 {
	if level < 1 {
		level = 1
	}
	exp := math.Floor(100 * math.Pow(1.5, float64(level-1)))
	if exp >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(exp)
}

// Clone deep-copies the save. Commands clone before mutating so that an
// unchanged save is always the same pointer (the queue's change detection).
func (s *GameSave) Clone() *GameSave {
	out := *s

	out.Events = make(map[string]EventRecord, len(s.Events))
	for k, v := range s.Events {
		out.Events[k] = v
	}

	p := &out.Player
	p.ClassProgress = make(map[string]ClassProgress, len(s.Player.ClassProgress))
	for k, v := range s.Player.ClassProgress {
		p.ClassProgress[k] = ClassProgress{UnlockedSkills: copyStrings(v.UnlockedSkills)}
	}
	p.Inventory = s.Player.Inventory.clone()
	p.Currency = make(map[CurrencyType]int64, len(s.Player.Currency))
	for k, v := range s.Player.Currency {
		p.Currency[k] = v
	}
	p.MapSaveData = MapSaveData{
		AreaProgress:       make(map[string]AreaProgress, len(s.Player.MapSaveData.AreaProgress)),
		UnlockedAreas:      copyStrings(s.Player.MapSaveData.UnlockedAreas),
		DefeatedBosses:     copyStrings(s.Player.MapSaveData.DefeatedBosses),
		MaxDungeonProgress: make(map[string]int, len(s.Player.MapSaveData.MaxDungeonProgress)),
	}
	for k, v := range s.Player.MapSaveData.AreaProgress {
		p.MapSaveData.AreaProgress[k] = v
	}
	for k, v := range s.Player.MapSaveData.MaxDungeonProgress {
		p.MapSaveData.MaxDungeonProgress[k] = v
	}
	p.SkillRuntime = SkillRuntime{
		Cooldowns: make(map[string]int64, len(s.Player.SkillRuntime.Cooldowns)),
		Effects:   make(map[string]int64, len(s.Player.SkillRuntime.Effects)),
	}
	for k, v := range s.Player.SkillRuntime.Cooldowns {
		p.SkillRuntime.Cooldowns[k] = v
	}
	for k, v := range s.Player.SkillRuntime.Effects {
		p.SkillRuntime.Effects[k] = v
	}
	return &out
}

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// insertString adds s to a sorted unique slice, returning a new slice.
func insertString(list []string, s string) []string {
	if containsString(list, s) {
		return list
	}
	out := make([]string, 0, len(list)+1)
	out = append(out, list...)
	out = append(out, s)
	sort.Strings(out)
	return out
}
