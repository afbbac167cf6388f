package system

import (
	"sync"
	"time"

	"github.com/emberfall/client/internal/config"
	"github.com/emberfall/client/internal/core/event"
	coresys "github.com/emberfall/client/internal/core/system"
	"github.com/emberfall/client/internal/data"
	"github.com/emberfall/client/internal/engine"
	"go.uber.org/zap"
)

// TravelState is the coordinator's phase: Idle → Traveling →
// Arrived(settling) → Idle. Travel runs to completion once started; there is
// no mid-travel cancellation.
type TravelState int

const (
	TravelIdle TravelState = iota
	TravelTraveling
	TravelArrived
)

// TravelInfo describes the trip in flight.
type TravelInfo struct {
	FromAreaID string
	ToAreaID   string
	Estimated  time.Duration
	StartedAt  time.Time
}

// Origin-type speed modifiers: leaving a town is quick, leaving a dungeon is
// slow.
const (
	townOriginMod    = 0.8
	dungeonOriginMod = 1.25
)

// Progress maps elapsed wall-clock time onto a percentage, clamped to
// [0,100]. Pure, so the ticker can sample it as often as it likes.
func Progress(start, now time.Time, total time.Duration) float64 {
	if total <= 0 {
		return 100
	}
	p := float64(now.Sub(start)) / float64(total) * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// TravelSystem drives area-to-area movement on the runner's update phase.
// Reads are cheap polls; state only mutates at the two discrete transition
// points (completion and settle).
type TravelSystem struct {
	eng   *engine.Engine
	world *data.WorldTable
	cfg   config.TravelConfig
	bus   *event.Bus
	log   *zap.Logger
	now   func() time.Time

	mu        sync.Mutex
	state     TravelState
	info      TravelInfo
	arrivedAt time.Time // when progress hit 100
	committed bool      // location change dispatched
	idleAt    time.Time // when Arrived clears back to Idle
}

func NewTravelSystem(eng *engine.Engine, wt *data.WorldTable, cfg config.TravelConfig, bus *event.Bus, log *zap.Logger) *TravelSystem {
	return &TravelSystem{
		eng:   eng,
		world: wt,
		cfg:   cfg,
		bus:   bus,
		log:   log,
		now:   time.Now,
	}
}

func (s *TravelSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

// State returns the coordinator phase and trip info for rendering.
func (s *TravelSystem) State() (TravelState, TravelInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.info
}

// CurrentProgress returns the in-flight trip's progress percentage.
func (s *TravelSystem) CurrentProgress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case TravelTraveling:
		return Progress(s.info.StartedAt, s.now(), s.info.Estimated)
	case TravelArrived:
		return 100
	default:
		return 0
	}
}

// CanMoveTo checks travel legality: not already traveling, target connected
// to the current area, the connection's exploration requirement met by the
// current area's recorded max, and the target's gate boss (if any) defeated.
func (s *TravelSystem) CanMoveTo(targetAreaID string) (bool, string) {
	s.mu.Lock()
	traveling := s.state != TravelIdle
	s.mu.Unlock()
	if traveling {
		return false, "already traveling"
	}

	snap := s.eng.Snapshot()
	current := s.world.Area(snap.Player.LocationData.CurrentAreaID)
	target := s.world.Area(targetAreaID)
	if current == nil || target == nil {
		return false, "unknown area"
	}
	conn := current.Connection(targetAreaID)
	if conn == nil {
		return false, "not connected"
	}
	if conn.RequiredExploration > 0 {
		prog := snap.Player.MapSaveData.AreaProgress[current.ID]
		if prog.MaxExploration < conn.RequiredExploration {
			return false, "exploration requirement not met"
		}
	}
	if target.GateBoss != "" && !snap.Player.MapSaveData.BossDefeated(target.GateBoss) {
		return false, "gate boss not defeated"
	}
	return true, ""
}

// TravelTime computes the trip duration: Euclidean distance × base speed ×
// the origin area's type modifier.
func (s *TravelSystem) TravelTime(fromAreaID, toAreaID string) time.Duration {
	from := s.world.Area(fromAreaID)
	to := s.world.Area(toAreaID)
	if from == nil || to == nil {
		return 0
	}
	mod := 1.0
	switch from.Type {
	case data.AreaTown:
		mod = townOriginMod
	case data.AreaDungeon:
		mod = dungeonOriginMod
	}
	secs := data.Distance(from, to) * s.cfg.BaseSeconds * mod
	return time.Duration(secs * float64(time.Second))
}

// StartTravel begins a trip. Returns false with a reason when CanMoveTo
// rejects it.
func (s *TravelSystem) StartTravel(targetAreaID string) (bool, string) {
	ok, reason := s.CanMoveTo(targetAreaID)
	if !ok {
		return false, reason
	}
	fromID := s.eng.Snapshot().Player.LocationData.CurrentAreaID
	est := s.TravelTime(fromID, targetAreaID)

	s.mu.Lock()
	if s.state != TravelIdle {
		s.mu.Unlock()
		return false, "already traveling"
	}
	s.state = TravelTraveling
	s.info = TravelInfo{
		FromAreaID: fromID,
		ToAreaID:   targetAreaID,
		Estimated:  est,
		StartedAt:  s.now(),
	}
	s.committed = false
	s.mu.Unlock()

	event.Emit(s.bus, event.TravelStarted{
		FromAreaID:    fromID,
		ToAreaID:      targetAreaID,
		EstimatedSecs: est.Seconds(),
	})
	s.log.Info("travel started",
		zap.String("from", fromID), zap.String("to", targetAreaID),
		zap.Duration("estimated", est))
	return true, ""
}

func (s *TravelSystem) Update(_ time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()

	switch s.state {
	case TravelTraveling:
		if Progress(s.info.StartedAt, now, s.info.Estimated) >= 100 {
			s.state = TravelArrived
			s.arrivedAt = now
		}
	case TravelArrived:
		if !s.committed && now.Sub(s.arrivedAt) >= s.cfg.SettleDelay {
			s.committed = true
			s.idleAt = now.Add(s.cfg.ArriveDelay)
			target := s.info.ToAreaID
			// Dispatch outside the lock; the queue serializes the commit.
			go s.eng.Arrive(target, nil)
		}
		if s.committed && now.After(s.idleAt) {
			s.state = TravelIdle
			s.info = TravelInfo{}
		}
	}
}
