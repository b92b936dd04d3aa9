package system

import (
	"github.com/milk9111/fightcore/common"
	"github.com/milk9111/fightcore/component"
)

// Integrate advances one actor's position by a single tick. Gravity applies
// to airborne actors in APPLY_GRAVITY states, friction to grounded actors in
// APPLY_FRICTION states. Touching down raises LANDED.
func Integrate(s *component.CharacterStatus, conds component.StateCondition, cfg Settings) {
	if s.Airborne && conds.Has(component.CondApplyGravity, false) {
		s.Velocity.Y -= cfg.Gravity
	}
	if !s.Airborne && conds.Has(component.CondApplyFriction, false) {
		switch {
		case s.Velocity.X > cfg.Friction:
			s.Velocity.X -= cfg.Friction
		case s.Velocity.X < -cfg.Friction:
			s.Velocity.X += cfg.Friction
		default:
			s.Velocity.X = 0
		}
	}

	s.Position = s.Position.Add(s.Velocity)
	if cfg.StageHalf > 0 {
		s.Position.X = common.Clamp(s.Position.X, -cfg.StageHalf, cfg.StageHalf)
	}

	wasAirborne := s.Airborne
	if s.Position.Y <= cfg.GroundY {
		s.Position.Y = cfg.GroundY
		if s.Velocity.Y < 0 {
			s.Velocity.Y = 0
		}
		s.Airborne = false
		if wasAirborne {
			s.Raise(component.FlagLanded)
		}
		return
	}
	s.Airborne = true
}

// ApplyImpulse adds a facing-relative impulse to the actor's velocity.
func ApplyImpulse(s *component.CharacterStatus, impulse common.Vec3) {
	if !s.FacingRight {
		impulse = impulse.MirrorX()
	}
	s.Velocity = s.Velocity.Add(impulse)
}
