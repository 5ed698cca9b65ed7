package telemetry

import (
	"fmt"

	"github.com/pthm-cable/splash/fluid"
)

// DivergenceGuard detects a blown-up solver after a frame. The solver
// never recovers on its own, so the owner resets it when Check fires.
type DivergenceGuard struct {
	MaxSpeed float32 // 0 disables the speed check
}

// Check inspects s between steps. It returns a reset event and true when
// the state is non-finite or any particle exceeds MaxSpeed.
func (g DivergenceGuard) Check(s *fluid.Solver, frame int64) (Event, bool) {
	if err := s.CheckFinite(); err != nil {
		return NewResetEvent(frame, ReasonNonFinite, err.Error()), true
	}
	if g.MaxSpeed <= 0 {
		return Event{}, false
	}

	limit2 := g.MaxSpeed * g.MaxSpeed
	us, vs := s.Velocities()
	for i := range us {
		if sp2 := us[i]*us[i] + vs[i]*vs[i]; sp2 > limit2 {
			detail := fmt.Sprintf("particle %d speed^2 %.0f over %.0f", i, sp2, limit2)
			return NewResetEvent(frame, ReasonSpeed, detail), true
		}
	}
	return Event{}, false
}
