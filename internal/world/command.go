package world

import (
	"github.com/emberfall/client/internal/data"
)

// Env bundles the read-only collaborators a command application needs: the
// static catalogs, a die roll, and the item-effect runner. Commands never
// mutate anything reachable from here.
type Env struct {
	Items   *data.ItemTable
	Classes *data.ClassTable
	Skills  *data.SkillTable
	Shops   *data.ShopTable
	World   *data.WorldTable

	Roll       func(n int) int // returns [0, n)
	ItemEffect EffectRunner    // nil disables consumable effects
}

// EffectOutcome is what a consumable's scripted effect did to the character.
type EffectOutcome struct {
	HealthDelta int
	ManaDelta   int
}

// EffectRunner executes a named item effect against the current stat sheet.
type EffectRunner interface {
	RunItemEffect(name string, stats CharacterStats) (EffectOutcome, error)
}

// Result is the outcome of one applied command. Validation failures set OK
// false and leave state untouched; Partial marks addItem's best-effort path.
type Result struct {
	OK           bool
	Partial      bool
	Placed       int
	LevelsGained int
	Reason       string
}

func fail(reason string) Result { return Result{Reason: reason} }

// Command is the tagged union of every state mutation. Apply is the single
// transition function; per-domain rules live in the pure functions it calls.
type Command interface {
	kind() string
}

type AddItemCmd struct {
	ItemID   string
	Quantity int
}

type RemoveItemCmd struct {
	Slot     int
	Quantity int
}

type MoveItemCmd struct {
	FromSlot int
	ToSlot   int
}

type SplitStackCmd struct {
	FromSlot int
	ToSlot   int
	Amount   int
}

type DiscardSlotsCmd struct {
	Slots []int
}

type SortInventoryCmd struct{}

type UseItemCmd struct {
	Slot int
}

type AddCurrencyCmd struct {
	Type   CurrencyType
	Amount int64
}

type DeductCurrencyCmd struct {
	Type   CurrencyType
	Amount int64
}

type ExchangeCurrencyCmd struct {
	FromType   CurrencyType
	FromAmount int64
	ToType     CurrencyType
	ToAmount   int64
}

type GainExperienceCmd struct {
	Amount int64
}

type EquipWeaponCmd struct {
	ItemID string
}

type UnequipWeaponCmd struct{}

type UseSkillCmd struct {
	SkillID string
}

type BuyItemCmd struct {
	ShopID   string
	ItemID   string
	Quantity int
}

type SellItemCmd struct {
	ShopID   string
	Slot     int
	Quantity int
}

// ArriveCmd commits a completed travel: location change plus the arrival
// exploration reset. Travel legality is checked before travel starts.
type ArriveCmd struct {
	AreaID string
}

type ChangeFloorCmd struct {
	FloorID string
}

type AdvanceExplorationCmd struct {
	Delta int
}

type DefeatBossCmd struct {
	BossID string
}

type SetEventFlagCmd struct {
	ID string
}

func (AddItemCmd) kind() string            { return "add" }
func (RemoveItemCmd) kind() string         { return "remove" }
func (MoveItemCmd) kind() string           { return "move" }
func (SplitStackCmd) kind() string         { return "split" }
func (DiscardSlotsCmd) kind() string       { return "discard" }
func (SortInventoryCmd) kind() string      { return "sort" }
func (UseItemCmd) kind() string            { return "use" }
func (AddCurrencyCmd) kind() string        { return "currency.add" }
func (DeductCurrencyCmd) kind() string     { return "currency.deduct" }
func (ExchangeCurrencyCmd) kind() string   { return "currency.exchange" }
func (GainExperienceCmd) kind() string     { return "exp.gain" }
func (EquipWeaponCmd) kind() string        { return "equip" }
func (UnequipWeaponCmd) kind() string      { return "unequip" }
func (UseSkillCmd) kind() string           { return "skill.use" }
func (BuyItemCmd) kind() string            { return "buy" }
func (SellItemCmd) kind() string           { return "sell" }
func (ArriveCmd) kind() string             { return "travel.arrive" }
func (ChangeFloorCmd) kind() string        { return "travel.floor" }
func (AdvanceExplorationCmd) kind() string { return "explore" }
func (DefeatBossCmd) kind() string         { return "boss.defeat" }
func (SetEventFlagCmd) kind() string       { return "event.set" }

// Apply runs one command against the save. It returns the same pointer when
// nothing changed (the queue's change detection relies on this) and a fresh
// clone otherwise. LastLoginAt is touched on every actual change.
func Apply(save *GameSave, cmd Command, env *Env, nowMillis int64) (*GameSave, Result) {
	next, res := applyCommand(save, cmd, env, nowMillis)
	if next != save {
		next.Player.LastLoginAt = nowMillis
	}
	return next, res
}

func applyCommand(save *GameSave, cmd Command, env *Env, now int64) (*GameSave, Result) {
	switch c := cmd.(type) {
	case AddItemCmd:
		return applyAddItem(save, c, env, now)
	case RemoveItemCmd:
		return applyRemoveItem(save, c, now)
	case MoveItemCmd:
		return applyMoveItem(save, c, env, now)
	case SplitStackCmd:
		return applySplitStack(save, c, env, now)
	case DiscardSlotsCmd:
		return applyDiscardSlots(save, c, now)
	case SortInventoryCmd:
		return applySortInventory(save, env, now)
	case UseItemCmd:
		return applyUseItem(save, c, env, now)
	case AddCurrencyCmd:
		if out := AddCurrency(save.Player.Currency, c.Type, c.Amount); out != nil {
			next := save.Clone()
			next.Player.Currency = out
			return next, Result{OK: true}
		}
		return save, fail("invalid amount")
	case DeductCurrencyCmd:
		if out := DeductCurrency(save.Player.Currency, c.Type, c.Amount); out != nil {
			next := save.Clone()
			next.Player.Currency = out
			return next, Result{OK: true}
		}
		return save, fail("insufficient balance")
	case ExchangeCurrencyCmd:
		if out := ExchangeCurrency(save.Player.Currency, c.FromType, c.FromAmount, c.ToType, c.ToAmount); out != nil {
			next := save.Clone()
			next.Player.Currency = out
			return next, Result{OK: true}
		}
		return save, fail("insufficient balance")
	case GainExperienceCmd:
		return applyGainExperience(save, c, env)
	case EquipWeaponCmd:
		return applyEquipWeapon(save, c, env)
	case UnequipWeaponCmd:
		if save.Player.Equipped.Weapon == "" {
			return save, Result{OK: true}
		}
		next := save.Clone()
		next.Player.Equipped.Weapon = ""
		return next, Result{OK: true}
	case UseSkillCmd:
		return applyUseSkill(save, c, env, now)
	case BuyItemCmd:
		return applyBuyItem(save, c, env, now)
	case SellItemCmd:
		return applySellItem(save, c, env, now)
	case ArriveCmd:
		return applyArrive(save, c, env)
	case ChangeFloorCmd:
		return applyChangeFloor(save, c, env)
	case AdvanceExplorationCmd:
		return applyAdvanceExploration(save, c, env)
	case DefeatBossCmd:
		return applyDefeatBoss(save, c, env)
	case SetEventFlagCmd:
		if _, done := save.Events[c.ID]; done {
			return save, Result{OK: true}
		}
		next := save.Clone()
		next.Events[c.ID] = EventRecord{CompletedAt: now}
		return next, Result{OK: true}
	default:
		return save, fail("unknown command")
	}
}

func appendHistory(p *PlayerData, kind, itemID string, qty, fromSlot, toSlot int, now int64) {
	p.Inventory.ActionHistory = append(p.Inventory.ActionHistory, ActionEntry{
		Kind:      kind,
		ItemID:    itemID,
		Quantity:  qty,
		FromSlot:  fromSlot,
		ToSlot:    toSlot,
		Timestamp: now,
	})
}

func applyAddItem(save *GameSave, c AddItemCmd, env *Env, now int64) (*GameSave, Result) {
	info := env.Items.Get(c.ItemID)
	if info == nil {
		return save, fail("unknown item")
	}
	st, placed := AddItem(save.Player.Inventory.State, info, c.Quantity)
	if placed == 0 {
		return save, fail("inventory full")
	}
	next := save.Clone()
	next.Player.Inventory.State = st
	appendHistory(&next.Player, "add", c.ItemID, placed, -1, -1, now)
	return next, Result{OK: true, Partial: placed < c.Quantity, Placed: placed}
}

func applyRemoveItem(save *GameSave, c RemoveItemCmd, now int64) (*GameSave, Result) {
	it := save.Player.Inventory.State.ItemAt(c.Slot)
	if it == nil {
		return save, fail("empty slot")
	}
	st, removed := RemoveFromSlot(save.Player.Inventory.State, c.Slot, c.Quantity)
	if removed == 0 {
		return save, fail("nothing removed")
	}
	next := save.Clone()
	next.Player.Inventory.State = st
	appendHistory(&next.Player, "remove", it.ItemID, removed, c.Slot, -1, now)
	return next, Result{OK: true, Placed: removed}
}

func applyMoveItem(save *GameSave, c MoveItemCmd, env *Env, now int64) (*GameSave, Result) {
	it := save.Player.Inventory.State.ItemAt(c.FromSlot)
	if it == nil {
		return save, fail("empty slot")
	}
	st, ok := MoveItem(save.Player.Inventory.State, env.Items, c.FromSlot, c.ToSlot)
	if !ok {
		return save, fail("invalid move")
	}
	next := save.Clone()
	next.Player.Inventory.State = st
	appendHistory(&next.Player, "move", it.ItemID, it.Quantity, c.FromSlot, c.ToSlot, now)
	return next, Result{OK: true}
}

func applySplitStack(save *GameSave, c SplitStackCmd, env *Env, now int64) (*GameSave, Result) {
	it := save.Player.Inventory.State.ItemAt(c.FromSlot)
	if it == nil {
		return save, fail("empty slot")
	}
	st, ok := SplitStack(save.Player.Inventory.State, env.Items, c.FromSlot, c.ToSlot, c.Amount)
	if !ok {
		return save, fail("invalid split")
	}
	next := save.Clone()
	next.Player.Inventory.State = st
	appendHistory(&next.Player, "split", it.ItemID, c.Amount, c.FromSlot, c.ToSlot, now)
	return next, Result{OK: true}
}

func applyDiscardSlots(save *GameSave, c DiscardSlotsCmd, now int64) (*GameSave, Result) {
	st, removed := DiscardSlots(save.Player.Inventory.State, c.Slots)
	if len(removed) == 0 {
		return save, fail("nothing to discard")
	}
	next := save.Clone()
	next.Player.Inventory.State = st
	for _, it := range removed {
		appendHistory(&next.Player, "discard", it.ItemID, it.Quantity, it.Slot, -1, now)
	}
	return next, Result{OK: true, Placed: len(removed)}
}

func applySortInventory(save *GameSave, env *Env, now int64) (*GameSave, Result) {
	st, err := SortInventory(save.Player.Inventory.State, env.Items)
	if err != nil {
		return save, fail(err.Error())
	}
	next := save.Clone()
	next.Player.Inventory.State = st
	appendHistory(&next.Player, "sort", "", len(st.Items), -1, -1, now)
	return next, Result{OK: true}
}

func applyUseItem(save *GameSave, c UseItemCmd, env *Env, now int64) (*GameSave, Result) {
	it := save.Player.Inventory.State.ItemAt(c.Slot)
	if it == nil {
		return save, fail("empty slot")
	}
	info := env.Items.Get(it.ItemID)
	if info == nil || info.Type != data.TypeConsumable {
		return save, fail("not usable")
	}

	// Run the scripted effect against the current sheet before touching state,
	// so a failing script leaves everything untouched.
	var outcome EffectOutcome
	if info.Effect != "" && env.ItemEffect != nil {
		var err error
		outcome, err = env.ItemEffect.RunItemEffect(info.Effect, save.Player.CharacterStats)
		if err != nil {
			return save, fail("effect failed: " + err.Error())
		}
	}

	st, removed := RemoveFromSlot(save.Player.Inventory.State, c.Slot, 1)
	if removed == 0 {
		return save, fail("empty slot")
	}
	next := save.Clone()
	next.Player.Inventory.State = st
	stats := &next.Player.CharacterStats
	stats.CurrentHealth = clamp(stats.CurrentHealth+outcome.HealthDelta, 0, stats.Health)
	stats.CurrentMana = clamp(stats.CurrentMana+outcome.ManaDelta, 0, stats.Mana)
	appendHistory(&next.Player, "use", it.ItemID, 1, c.Slot, -1, now)
	return next, Result{OK: true}
}

func applyGainExperience(save *GameSave, c GainExperienceCmd, env *Env) (*GameSave, Result) {
	if c.Amount <= 0 {
		return save, fail("invalid amount")
	}
	cls := env.Classes.Get(save.Player.CurrentClassID)
	if cls == nil {
		return save, fail("unknown class")
	}
	progress := save.Player.ClassProgress[cls.ID]
	stats, progress, gained := GainExperience(save.Player.CharacterStats, cls, progress, c.Amount)
	next := save.Clone()
	next.Player.CharacterStats = stats
	next.Player.ClassProgress[cls.ID] = progress
	return next, Result{OK: true, LevelsGained: gained}
}

func applyEquipWeapon(save *GameSave, c EquipWeaponCmd, env *Env) (*GameSave, Result) {
	if save.Player.Inventory.State.CountOf(c.ItemID) == 0 {
		return save, fail("not in inventory")
	}
	cls := env.Classes.Get(save.Player.CurrentClassID)
	if cls == nil {
		return save, fail("unknown class")
	}
	check := CanEquip(save.Player.CharacterStats, cls, env.Items.Get(c.ItemID))
	if !check.OK {
		return save, fail(check.Reason)
	}
	if save.Player.Equipped.Weapon == c.ItemID {
		return save, Result{OK: true}
	}
	next := save.Clone()
	next.Player.Equipped.Weapon = c.ItemID
	return next, Result{OK: true}
}

func applyUseSkill(save *GameSave, c UseSkillCmd, env *Env, now int64) (*GameSave, Result) {
	skill := env.Skills.Get(c.SkillID)
	if skill == nil {
		return save, fail("unknown skill")
	}
	check := CanUseSkill(&save.Player, skill, equippedWeaponType(save, env), now)
	if !check.OK {
		return save, fail(check.Reason)
	}
	next := save.Clone()
	useSkill(&next.Player, skill, now, env.Roll)
	return next, Result{OK: true}
}

func applyBuyItem(save *GameSave, c BuyItemCmd, env *Env, now int64) (*GameSave, Result) {
	shop := env.Shops.Get(c.ShopID)
	if shop == nil {
		return save, fail("unknown shop")
	}
	price := shop.BuyPrice(c.ItemID)
	if price < 0 {
		return save, fail("item not sold here")
	}
	info := env.Items.Get(c.ItemID)
	if info == nil || c.Quantity <= 0 {
		return save, fail("invalid purchase")
	}

	// Place first to learn how much fits; pay only for what was placed.
	st, placed := AddItem(save.Player.Inventory.State, info, c.Quantity)
	if placed == 0 {
		return save, fail("inventory full")
	}
	cost := price * int64(placed)
	balances := DeductCurrency(save.Player.Currency, CurrencyGold, cost)
	if cost > 0 && balances == nil {
		return save, fail("insufficient gold")
	}
	next := save.Clone()
	next.Player.Inventory.State = st
	if balances != nil {
		next.Player.Currency = balances
	}
	appendHistory(&next.Player, "buy", c.ItemID, placed, -1, -1, now)
	return next, Result{OK: true, Partial: placed < c.Quantity, Placed: placed}
}

func applySellItem(save *GameSave, c SellItemCmd, env *Env, now int64) (*GameSave, Result) {
	shop := env.Shops.Get(c.ShopID)
	if shop == nil {
		return save, fail("unknown shop")
	}
	it := save.Player.Inventory.State.ItemAt(c.Slot)
	if it == nil {
		return save, fail("empty slot")
	}
	price := shop.SellPrice(it.ItemID)
	if price < 0 {
		return save, fail("item not bought here")
	}
	st, removed := RemoveFromSlot(save.Player.Inventory.State, c.Slot, c.Quantity)
	if removed == 0 {
		return save, fail("nothing to sell")
	}
	next := save.Clone()
	next.Player.Inventory.State = st
	proceeds := price * int64(removed)
	if proceeds > 0 {
		next.Player.Currency = AddCurrency(next.Player.Currency, CurrencyGold, proceeds)
	}
	appendHistory(&next.Player, "sell", it.ItemID, removed, c.Slot, -1, now)
	return next, Result{OK: true, Placed: removed}
}

func applyArrive(save *GameSave, c ArriveCmd, env *Env) (*GameSave, Result) {
	area := env.World.Area(c.AreaID)
	if area == nil {
		return save, fail("unknown area")
	}
	next := save.Clone()
	next.Player.LocationData = LocationData{
		CurrentFloorID: area.FloorID,
		CurrentAreaID:  area.ID,
	}
	msd := &next.Player.MapSaveData
	prog := msd.AreaProgress[area.ID]
	prog.CurrentExploration = 0
	if area.Type == data.AreaDungeon {
		prog.DungeonExploration = 0
	}
	msd.AreaProgress[area.ID] = prog
	msd.UnlockedAreas = insertString(msd.UnlockedAreas, area.ID)
	return next, Result{OK: true}
}

func applyChangeFloor(save *GameSave, c ChangeFloorCmd, env *Env) (*GameSave, Result) {
	floor := env.World.Floor(c.FloorID)
	if floor == nil {
		return save, fail("unknown floor")
	}
	current := env.World.Area(save.Player.LocationData.CurrentAreaID)
	if current == nil || current.Type != data.AreaTown {
		return save, fail("can only change floors from a town")
	}
	if floor.RequiredBoss != "" && !save.Player.MapSaveData.BossDefeated(floor.RequiredBoss) {
		return save, fail("floor boss not defeated")
	}
	next := save.Clone()
	next.Player.LocationData = LocationData{
		CurrentFloorID: floor.ID,
		CurrentAreaID:  floor.TownAreaID,
	}
	msd := &next.Player.MapSaveData
	if _, ok := msd.AreaProgress[floor.TownAreaID]; !ok {
		msd.AreaProgress[floor.TownAreaID] = AreaProgress{}
	}
	msd.UnlockedAreas = insertString(msd.UnlockedAreas, floor.TownAreaID)
	return next, Result{OK: true}
}

func applyAdvanceExploration(save *GameSave, c AdvanceExplorationCmd, env *Env) (*GameSave, Result) {
	if c.Delta <= 0 {
		return save, fail("invalid delta")
	}
	areaID := save.Player.LocationData.CurrentAreaID
	area := env.World.Area(areaID)
	if area == nil {
		return save, fail("unknown area")
	}
	next := save.Clone()
	msd := &next.Player.MapSaveData
	prog := msd.AreaProgress[areaID]
	prog.CurrentExploration = clamp(prog.CurrentExploration+c.Delta, 0, 100)
	if prog.CurrentExploration > prog.MaxExploration {
		prog.MaxExploration = prog.CurrentExploration
	}
	if area.Type == data.AreaDungeon {
		prog.DungeonExploration = clamp(prog.DungeonExploration+c.Delta, 0, 100)
		if prog.DungeonExploration > msd.MaxDungeonProgress[areaID] {
			msd.MaxDungeonProgress[areaID] = prog.DungeonExploration
		}
	}
	msd.AreaProgress[areaID] = prog
	return next, Result{OK: true}
}

func applyDefeatBoss(save *GameSave, c DefeatBossCmd, env *Env) (*GameSave, Result) {
	if c.BossID == "" || save.Player.MapSaveData.BossDefeated(c.BossID) {
		return save, Result{OK: true}
	}
	next := save.Clone()
	msd := &next.Player.MapSaveData
	msd.DefeatedBosses = insertString(msd.DefeatedBosses, c.BossID)
	return next, Result{OK: true}
}

func equippedWeaponType(save *GameSave, env *Env) string {
	if save.Player.Equipped.Weapon == "" {
		return ""
	}
	if info := env.Items.Get(save.Player.Equipped.Weapon); info != nil {
		return info.WeaponType
	}
	return ""
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
