package system

import (
	"fmt"

	"github.com/milk9111/fightcore/common"
	"github.com/milk9111/fightcore/component"
)

// DeriveFlags builds this tick's transition flags from the newest input
// sample, the actor's status and any queued one-shot flags.
func DeriveFlags(s *component.CharacterStatus) component.TransitionFlag {
	var f component.TransitionFlag
	in := s.Recorder.Newest(0)
	x, y := in.Axes()
	switch {
	case x > 0:
		f |= component.FlagHoldForward
	case x < 0:
		f |= component.FlagHoldBack
	}
	switch {
	case y > 0:
		f |= component.FlagHoldUp
	case y < 0:
		f |= component.FlagHoldDown
	}
	if x == 0 && y == 0 {
		f |= component.FlagNeutral
	}
	if in.Buttons().Pressed(s.Recorder.Newest(1).Buttons()) != 0 {
		f |= component.FlagButtonPress
	}
	if s.Airborne {
		f |= component.FlagAirborne
	} else {
		f |= component.FlagGrounded
	}
	if d := s.State.Duration; d > 0 && !s.State.Loop && s.StateFrame >= d {
		f |= component.FlagStateEnd
	}
	if !s.Alive() {
		f |= component.FlagKO
	}
	return f | s.Pending()
}

// Admissible reports whether t may fire for s. An empty cancel requirement
// is always met; flags are matched strictly.
func Admissible(t component.TransitionData, s *component.CharacterStatus, cancels component.CancelConditions, flags component.TransitionFlag) bool {
	if !t.IsValid() {
		return false
	}
	if t.Cancels != 0 && !cancels.Has(t.Cancels, false) {
		return false
	}
	if !flags.Has(t.Flags, true) {
		return false
	}
	if !t.Command.Empty() && !t.Command.Check(s.Recorder) {
		return false
	}
	if t.Guard != nil && !t.Guard.Allow(s.GuardContext()) {
		return false
	}
	return true
}

// Evaluate walks the current state's transitions, then its ancestors' unless
// NO_PARENT_TRANS stops the walk. The first admissible transition wins.
func Evaluate(s *component.CharacterStatus, flags component.TransitionFlag) (component.TransitionData, bool, error) {
	chain, err := s.Archetype.Table.Chain(s.State.ID)
	if err != nil {
		return component.TransitionData{}, false, fmt.Errorf("system: evaluate actor %d: %w", s.ID, err)
	}
	cancels := s.ActiveCancels()
	for _, st := range chain {
		for _, t := range st.Transitions {
			if Admissible(t, s, cancels, flags) {
				return t, true, nil
			}
		}
	}
	return component.TransitionData{}, false, nil
}

// Apply enters the target state and then applies the transition's events,
// so they act on the entered state. opponent may be nil.
func Apply(s *component.CharacterStatus, t component.TransitionData, opponent *component.CharacterStatus) error {
	if err := s.Enter(t.Target); err != nil {
		return err
	}
	ev := t.Events
	if ev.Has(component.EventKillXVel, false) {
		s.Velocity.X = 0
	}
	if ev.Has(component.EventKillYVel, false) {
		s.Velocity.Y = 0
	}
	if ev.Has(component.EventKillZVel, false) {
		s.Velocity.Z = 0
	}
	if ev.Has(component.EventCleanHitboxes, false) {
		s.CleanHitboxes()
	}
	if ev.Has(component.EventFlagBlock, false) {
		s.BlockFlagged = true
	}
	if ev.Has(component.EventFaceEnemy, false) && opponent != nil {
		FaceTowards(s, opponent.Position)
	}
	s.CheckState = false
	return nil
}

// FaceTowards turns s to look at target. Equal positions keep the facing.
func FaceTowards(s *component.CharacterStatus, target common.Vec3) {
	switch common.Sign(target.Sub(s.Position).X) {
	case 1:
		s.FacingRight = true
	case -1:
		s.FacingRight = false
	}
}
