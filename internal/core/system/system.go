package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput   Phase = iota // 0: drain host input (UI commands)
	PhaseUpdate               // 1: game logic (travel progress, timers)
	PhasePersist              // 2: update-queue flush + durable commit
	PhaseCleanup              // 3: expire stale runtime state
)

// System is the interface every ticked system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
