// Package engine exposes the game's command and query surface. Every command
// method builds one world.Command, enqueues it on the update queue, and
// reports its Result through an optional callback; queries read the last
// committed snapshot only.
package engine

import (
	"math/rand"
	"time"

	"github.com/emberfall/client/internal/config"
	"github.com/emberfall/client/internal/core/event"
	"github.com/emberfall/client/internal/queue"
	"github.com/emberfall/client/internal/save"
	"github.com/emberfall/client/internal/world"
	"go.uber.org/zap"
)

// Engine owns the update queue and wires commits to the save store and the
// event bus.
type Engine struct {
	queue *queue.Queue[*world.GameSave]
	store *save.Store
	env   *world.Env
	bus   *event.Bus
	cfg   *config.Config
	log   *zap.Logger

	now func() time.Time

	// prevLevel is only touched from the commit path, which the queue
	// serializes.
	prevLevel int
}

// New builds the engine around an initial save (from Store.Load or
// world.NewPlayer). The commit hook writes durable storage once per drained
// batch and then broadcasts the new snapshot.
func New(cfg *config.Config, store *save.Store, env *world.Env, bus *event.Bus, initial *world.GameSave, log *zap.Logger) *Engine {
	e := &Engine{
		store:     store,
		env:       env,
		bus:       bus,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
		prevLevel: initial.Player.CharacterStats.Level,
	}
	if env.Roll == nil {
		env.Roll = rand.Intn
	}
	e.queue = queue.New(initial, e.onCommit, log)
	return e
}

func (e *Engine) onCommit(s *world.GameSave) {
	if e.store != nil {
		e.store.Commit(s)
	}
	if lvl := s.Player.CharacterStats.Level; lvl > e.prevLevel {
		event.Emit(e.bus, event.LevelUp{OldLevel: e.prevLevel, NewLevel: lvl})
		e.prevLevel = lvl
	}
	event.Emit(e.bus, event.SaveCommitted{Save: s})
}

// Snapshot returns the last committed save. Readers never see in-flight
// queue state.
func (e *Engine) Snapshot() *world.GameSave {
	return e.queue.State()
}

// Flush drains pending operations synchronously; called by the runner's
// persist phase every tick and once more on shutdown. Waits for an in-flight
// asynchronous drain, so everything dispatched before the call is committed
// when it returns.
func (e *Engine) Flush() {
	e.queue.Flush()
}

// Dispatch enqueues one command. cb (optional) receives the command's Result
// right after it applies, before any later command runs.
func (e *Engine) Dispatch(cmd world.Command, cb func(world.Result)) uint64 {
	var res world.Result
	apply := func(s *world.GameSave) *world.GameSave {
		next, r := world.Apply(s, cmd, e.env, e.now().UnixMilli())
		res = r
		return next
	}
	var done func()
	if cb != nil {
		done = func() { cb(res) }
	}
	return e.queue.Enqueue(apply, done)
}

// DispatchWait enqueues one command and blocks until it has applied.
func (e *Engine) DispatchWait(cmd world.Command) world.Result {
	ch := make(chan world.Result, 1)
	e.Dispatch(cmd, func(r world.Result) { ch <- r })
	return <-ch
}

// CreateNewPlayer replaces the whole save with a fresh one and grants the
// class's starting equipment. Routing the replacement through the queue
// guarantees it cannot race a late in-flight update from a stale session.
func (e *Engine) CreateNewPlayer(name, classID string, cb func(world.Result)) {
	cls := e.env.Classes.Get(classID)
	if cls == nil {
		if cb != nil {
			cb(world.Result{Reason: "unknown class"})
		}
		return
	}
	e.queue.Enqueue(func(*world.GameSave) *world.GameSave {
		fresh := world.NewPlayer(name, cls, e.env.World, e.cfg.Game.DefaultMaxSlots, e.now().UnixMilli())
		fresh.Player.Currency[world.CurrencyGold] = e.cfg.Game.StartingGold
		e.prevLevel = fresh.Player.CharacterStats.Level
		return fresh
	}, nil)
	for _, starter := range cls.StarterItems {
		e.Dispatch(world.AddItemCmd{ItemID: starter.ItemID, Quantity: starter.Quantity}, nil)
	}
	if cls.StarterWeapon != "" {
		e.Dispatch(world.AddItemCmd{ItemID: cls.StarterWeapon, Quantity: 1}, nil)
		e.Dispatch(world.EquipWeaponCmd{ItemID: cls.StarterWeapon}, nil)
	}
	e.Dispatch(world.SetEventFlagCmd{ID: "player-created"}, cb)
}

// --- inventory commands ---

func (e *Engine) AddItem(itemID string, quantity int, cb func(world.Result)) {
	e.Dispatch(world.AddItemCmd{ItemID: itemID, Quantity: quantity}, cb)
}

func (e *Engine) RemoveFromSlot(slot, quantity int, cb func(world.Result)) {
	e.Dispatch(world.RemoveItemCmd{Slot: slot, Quantity: quantity}, cb)
}

func (e *Engine) MoveItem(fromSlot, toSlot int, cb func(world.Result)) {
	e.Dispatch(world.MoveItemCmd{FromSlot: fromSlot, ToSlot: toSlot}, cb)
}

func (e *Engine) SplitStack(fromSlot, toSlot, amount int, cb func(world.Result)) {
	e.Dispatch(world.SplitStackCmd{FromSlot: fromSlot, ToSlot: toSlot, Amount: amount}, cb)
}

func (e *Engine) DiscardSlots(slots []int, cb func(world.Result)) {
	e.Dispatch(world.DiscardSlotsCmd{Slots: slots}, cb)
}

func (e *Engine) SortInventory(cb func(world.Result)) {
	e.Dispatch(world.SortInventoryCmd{}, cb)
}

func (e *Engine) UseItem(slot int, cb func(world.Result)) {
	e.Dispatch(world.UseItemCmd{Slot: slot}, cb)
}

// --- currency commands ---

func (e *Engine) AddCurrency(t world.CurrencyType, amount int64, cb func(world.Result)) {
	e.Dispatch(world.AddCurrencyCmd{Type: t, Amount: amount}, cb)
}

func (e *Engine) DeductCurrency(t world.CurrencyType, amount int64, cb func(world.Result)) {
	e.Dispatch(world.DeductCurrencyCmd{Type: t, Amount: amount}, cb)
}

func (e *Engine) ExchangeCurrency(from world.CurrencyType, fromAmount int64, to world.CurrencyType, toAmount int64, cb func(world.Result)) {
	e.Dispatch(world.ExchangeCurrencyCmd{
		FromType: from, FromAmount: fromAmount,
		ToType: to, ToAmount: toAmount,
	}, cb)
}

// --- character / equipment / skill commands ---

func (e *Engine) GainExperience(amount int64, cb func(world.Result)) {
	e.Dispatch(world.GainExperienceCmd{Amount: amount}, cb)
}

func (e *Engine) EquipWeapon(itemID string, cb func(world.Result)) {
	e.Dispatch(world.EquipWeaponCmd{ItemID: itemID}, cb)
}

func (e *Engine) UnequipWeapon(cb func(world.Result)) {
	e.Dispatch(world.UnequipWeaponCmd{}, cb)
}

func (e *Engine) UseSkill(skillID string, cb func(world.Result)) {
	e.Dispatch(world.UseSkillCmd{SkillID: skillID}, cb)
}

// --- shop commands ---

func (e *Engine) BuyItem(shopID, itemID string, quantity int, cb func(world.Result)) {
	e.Dispatch(world.BuyItemCmd{ShopID: shopID, ItemID: itemID, Quantity: quantity}, cb)
}

func (e *Engine) SellItem(shopID string, slot, quantity int, cb func(world.Result)) {
	e.Dispatch(world.SellItemCmd{ShopID: shopID, Slot: slot, Quantity: quantity}, cb)
}

// --- map commands ---

// Arrive commits a completed travel's location change. The travel
// coordinator is the expected caller.
func (e *Engine) Arrive(areaID string, cb func(world.Result)) {
	e.Dispatch(world.ArriveCmd{AreaID: areaID}, func(r world.Result) {
		if r.OK {
			event.Emit(e.bus, event.TravelArrived{AreaID: areaID})
		}
		if cb != nil {
			cb(r)
		}
	})
}

func (e *Engine) ChangeFloor(floorID string, cb func(world.Result)) {
	e.Dispatch(world.ChangeFloorCmd{FloorID: floorID}, cb)
}

func (e *Engine) AdvanceExploration(delta int, cb func(world.Result)) {
	e.Dispatch(world.AdvanceExplorationCmd{Delta: delta}, cb)
}

func (e *Engine) DefeatBoss(bossID string, cb func(world.Result)) {
	e.Dispatch(world.DefeatBossCmd{BossID: bossID}, cb)
}

func (e *Engine) SetEventFlag(id string, cb func(world.Result)) {
	e.Dispatch(world.SetEventFlagCmd{ID: id}, cb)
}
