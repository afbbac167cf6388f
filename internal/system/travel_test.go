package system

import (
	"testing"
	"time"

	"github.com/emberfall/client/internal/config"
	"github.com/emberfall/client/internal/core/event"
	"github.com/emberfall/client/internal/data"
	"github.com/emberfall/client/internal/engine"
	"github.com/emberfall/client/internal/world"
	"go.uber.org/zap"
)

func testWorldTable() *data.WorldTable {
	return data.NewWorldTable(
		[]*data.FloorInfo{{ID: "f1", Name: "Floor One", TownAreaID: "town"}},
		[]*data.AreaInfo{
			{ID: "town", FloorID: "f1", Type: data.AreaTown, Position: data.Position{X: 0, Y: 0},
				Connections: []data.Connection{{AreaID: "field"}}},
			{ID: "field", FloorID: "f1", Type: data.AreaField, Position: data.Position{X: 6, Y: 8},
				Connections: []data.Connection{{AreaID: "town"}, {AreaID: "cave", RequiredExploration: 60}}},
			{ID: "cave", FloorID: "f1", Type: data.AreaDungeon, Position: data.Position{X: 9, Y: 12},
				GateBoss:    "golem",
				Connections: []data.Connection{{AreaID: "field"}}},
		},
	)
}

func testEngine(t *testing.T, wt *data.WorldTable) *engine.Engine {
	t.Helper()
	cls := &data.ClassInfo{
		ID:   "warrior",
		Base: data.StatBlock{Health: 100, Mana: 50, Strength: 10, Dexterity: 10, Intelligence: 10},
	}
	env := &world.Env{
		Items:   data.NewItemTable(),
		Classes: data.NewClassTable(cls),
		Skills:  data.NewSkillTable(),
		Shops:   data.NewShopTable(),
		World:   wt,
	}
	cfg := &config.Config{Game: config.GameConfig{DefaultMaxSlots: 30}}
	initial := world.NewPlayer("Tester", cls, wt, 30, 0)
	return engine.New(cfg, nil, env, event.NewBus(), initial, zap.NewNop())
}

func newTestTravel(t *testing.T) (*TravelSystem, *engine.Engine, *time.Time) {
	t.Helper()
	wt := testWorldTable()
	eng := testEngine(t, wt)
	cfg := config.TravelConfig{
		BaseSeconds: 0.5,
		SettleDelay: time.Second,
		ArriveDelay: 1500 * time.Millisecond,
	}
	s := NewTravelSystem(eng, wt, cfg, event.NewBus(), zap.NewNop())
	clock := time.Unix(1000, 0)
	s.now = func() time.Time { return clock }
	return s, eng, &clock
}

func TestProgress(t *testing.T) {
	start := time.Unix(0, 0)
	total := 10 * time.Second

	cases := []struct {
		elapsed time.Duration
		want    float64
	}{
		{0, 0},
		{2500 * time.Millisecond, 25},
		{10 * time.Second, 100},
		{15 * time.Second, 100},
		{-time.Second, 0},
	}
	for _, c := range cases {
		if got := Progress(start, start.Add(c.elapsed), total); got != c.want {
			t.Errorf("Progress(%v) = %v, want %v", c.elapsed, got, c.want)
		}
	}
	if Progress(start, start, 0) != 100 {
		t.Error("zero-length trip should be complete immediately")
	}
}

func TestTravelTimeOriginModifiers(t *testing.T) {
	s, _, _ := newTestTravel(t)

	// town → field: distance 10, base 0.5 s/unit, town origin ×0.8 = 4 s.
	if got := s.TravelTime("town", "field"); got != 4*time.Second {
		t.Errorf("town origin trip = %v, want 4s", got)
	}
	// field → town: neutral origin = 5 s.
	if got := s.TravelTime("field", "town"); got != 5*time.Second {
		t.Errorf("field origin trip = %v, want 5s", got)
	}
	// cave → field: distance 5, dungeon origin ×1.25 = 3.125 s.
	if got := s.TravelTime("cave", "field"); got != 3125*time.Millisecond {
		t.Errorf("dungeon origin trip = %v, want 3.125s", got)
	}
	if s.TravelTime("town", "nowhere") != 0 {
		t.Error("unknown area should yield zero")
	}
}

func TestCanMoveToGates(t *testing.T) {
	s, eng, _ := newTestTravel(t)

	if ok, _ := s.CanMoveTo("field"); !ok {
		t.Error("connected area should be reachable")
	}
	if ok, reason := s.CanMoveTo("cave"); ok || reason != "not connected" {
		t.Errorf("cave from town: ok=%v reason=%q", ok, reason)
	}

	// Move to the field, then hit the exploration gate on the cave link.
	res := eng.DispatchWait(world.ArriveCmd{AreaID: "field"})
	if !res.OK {
		t.Fatalf("arrive failed: %+v", res)
	}
	waitForSnapshot(t, eng, func(s *world.GameSave) bool {
		return s.Player.LocationData.CurrentAreaID == "field"
	})
	if ok, reason := s.CanMoveTo("cave"); ok || reason != "exploration requirement not met" {
		t.Errorf("unexplored link: ok=%v reason=%q", ok, reason)
	}

	// Enough exploration, but the gate boss still blocks.
	for i := 0; i < 2; i++ {
		eng.DispatchWait(world.AdvanceExplorationCmd{Delta: 30})
	}
	waitForSnapshot(t, eng, func(s *world.GameSave) bool {
		return s.Player.MapSaveData.AreaProgress["field"].MaxExploration >= 60
	})
	if ok, reason := s.CanMoveTo("cave"); ok || reason != "gate boss not defeated" {
		t.Errorf("boss gate: ok=%v reason=%q", ok, reason)
	}

	eng.DispatchWait(world.DefeatBossCmd{BossID: "golem"})
	waitForSnapshot(t, eng, func(s *world.GameSave) bool {
		return s.Player.MapSaveData.BossDefeated("golem")
	})
	if ok, reason := s.CanMoveTo("cave"); !ok {
		t.Errorf("all gates cleared but blocked: %q", reason)
	}
}

func TestStartTravelRejectsWhileTraveling(t *testing.T) {
	s, _, _ := newTestTravel(t)

	if ok, reason := s.StartTravel("field"); !ok {
		t.Fatalf("start failed: %q", reason)
	}
	if ok, reason := s.StartTravel("field"); ok || reason != "already traveling" {
		t.Errorf("second start: ok=%v reason=%q", ok, reason)
	}
	if ok, reason := s.CanMoveTo("field"); ok || reason != "already traveling" {
		t.Errorf("CanMoveTo mid-trip: ok=%v reason=%q", ok, reason)
	}
}

func TestTravelLifecycle(t *testing.T) {
	s, eng, clock := newTestTravel(t)

	if ok, reason := s.StartTravel("field"); !ok {
		t.Fatalf("start failed: %q", reason)
	}
	state, info := s.State()
	if state != TravelTraveling || info.ToAreaID != "field" {
		t.Fatalf("state = %v info = %+v", state, info)
	}
	if info.Estimated != 4*time.Second {
		t.Errorf("estimated = %v, want 4s", info.Estimated)
	}

	// Halfway: still traveling.
	*clock = clock.Add(2 * time.Second)
	s.Update(0)
	if got := s.CurrentProgress(); got != 50 {
		t.Errorf("progress = %v, want 50", got)
	}

	// Completion flips to Arrived; progress pins at 100.
	*clock = clock.Add(2 * time.Second)
	s.Update(0)
	if state, _ := s.State(); state != TravelArrived {
		t.Fatalf("state = %v, want Arrived", state)
	}
	if got := s.CurrentProgress(); got != 100 {
		t.Errorf("progress = %v, want 100", got)
	}

	// After the settle delay the location commit dispatches.
	*clock = clock.Add(time.Second)
	s.Update(0)
	waitForArea(t, eng, "field")

	// And after the arrive delay the coordinator returns to idle.
	*clock = clock.Add(2 * time.Second)
	s.Update(0)
	if state, info := s.State(); state != TravelIdle || info.ToAreaID != "" {
		t.Errorf("state = %v info = %+v, want idle", state, info)
	}
}

func waitForArea(t *testing.T, eng *engine.Engine, areaID string) {
	t.Helper()
	waitForSnapshot(t, eng, func(s *world.GameSave) bool {
		return s.Player.LocationData.CurrentAreaID == areaID
	})
}

func waitForSnapshot(t *testing.T, eng *engine.Engine, cond func(*world.GameSave) bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond(eng.Snapshot()) {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("snapshot condition not reached in time")
}
