package system

import (
	"time"

	coresys "github.com/emberfall/client/internal/core/system"
	"github.com/emberfall/client/internal/engine"
)

// FlushSystem drains the update queue on the persist phase, bounding write
// amplification to at most one durable commit per tick regardless of how
// many commands were enqueued during it.
type FlushSystem struct {
	eng *engine.Engine
}

func NewFlushSystem(eng *engine.Engine) *FlushSystem {
	return &FlushSystem{eng: eng}
}

func (s *FlushSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *FlushSystem) Update(_ time.Duration) {
	s.eng.Flush()
}
