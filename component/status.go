package component

import (
	"errors"
	"fmt"

	"github.com/milk9111/fightcore/common"
)

// Meter gained by the attacker when a hit connects.
const (
	MeterOnHit   = 8
	MeterOnBlock = 4
)

// HitContext travels with a hitstun timer so its expiry knows what caused it.
type HitContext struct {
	AttackerID int
	HitboxID   string
	Blocked    bool
}

type hitKey struct {
	Window   int
	TargetID int
}

// CharacterStatus is the mutable per-actor record. Only the actor's own
// transition evaluation and hit resolution write to it.
type CharacterStatus struct {
	ID           int
	Archetype    *Archetype
	State        *StateData
	StateFrame   int
	Fresh        bool
	HP           int
	Meter        int
	Conditions   StateCondition
	HitCancels   CancelConditions
	// CheckState records that input or status changed since the last
	// evaluation.
	CheckState   bool
	Position     common.Vec3
	Velocity     common.Vec3
	FacingRight  bool
	Airborne     bool
	Blocking     bool
	// BlockFlagged is set by a FLAG_BLOCK transition and lasts until the
	// next state change.
	BlockFlagged bool
	Combo        int
	LastHit      HitIndicator

	Recorder *Recorder
	Hitstop  *FrameTimer
	Hitstun  *CtxCallbackTimer[HitContext]

	OnDamage  func(s *CharacterStatus, evt CombatEvent)
	OnKO      func(s *CharacterStatus, evt CombatEvent)
	OnStunEnd func(s *CharacterStatus, ctx HitContext)

	stateConds StateCondition
	hitCaused  StateCondition
	pending    TransitionFlag
	hits       map[hitKey]struct{}
}

// NewCharacterStatus creates an actor in its archetype's initial state.
func NewCharacterStatus(id int, arch *Archetype, rec *Recorder) (*CharacterStatus, error) {
	if arch == nil || arch.Table == nil {
		return nil, errors.New("component: status needs an archetype with a state table")
	}
	if rec == nil {
		rec = NewRecorder(DefaultHistorySize, DefaultLeniency)
	}
	s := &CharacterStatus{
		ID:          id,
		Archetype:   arch,
		HP:          arch.MaxHP,
		FacingRight: true,
		Recorder:    rec,
		Hitstop:     &FrameTimer{},
		hits:        make(map[hitKey]struct{}),
	}
	s.Hitstun = NewCtxCallbackTimer(s.stunEnded)
	if err := s.Enter(arch.Initial); err != nil {
		return nil, err
	}
	return s, nil
}

// Enter switches to state id and restarts the state clock.
func (s *CharacterStatus) Enter(id int) error {
	st, err := s.Archetype.Table.Get(id)
	if err != nil {
		return fmt.Errorf("component: enter state for actor %d: %w", s.ID, err)
	}
	conds, err := s.Archetype.Table.Conditions(id)
	if err != nil {
		return fmt.Errorf("component: enter state %s: %w", st.Name, err)
	}
	s.State = st
	s.stateConds = conds
	s.StateFrame = 0
	s.Fresh = true
	s.CheckState = true
	s.HitCancels = 0
	s.BlockFlagged = false
	clear(s.hits)
	return nil
}

// Frame returns the timeline contribution for the current state frame.
func (s *CharacterStatus) Frame() TimelineFrame {
	if s == nil || s.State == nil {
		return TimelineFrame{}
	}
	return s.State.Timeline.At(s.StateFrame)
}

// ActiveConditions merges state, timeline and persistent conditions. The
// grounded/airborne pair always reflects the physical position.
func (s *CharacterStatus) ActiveConditions() StateCondition {
	c := s.stateConds | s.Frame().Conditions | s.Conditions
	c &^= CondGrounded | CondAirborne | CondNoParentTrans | CondNoParentCond
	if s.Airborne {
		c |= CondAirborne
	} else {
		c |= CondGrounded
	}
	return c
}

// ActiveCancels is the cancel set transitions are tested against.
func (s *CharacterStatus) ActiveCancels() CancelConditions {
	c := s.State.Cancels | s.Frame().Cancels | s.HitCancels
	if s.Airborne {
		c |= CancelAirborne
	} else {
		c |= CancelGrounded
	}
	return c
}

// Raise queues a one-shot transition flag for the next evaluation.
func (s *CharacterStatus) Raise(f TransitionFlag) {
	s.pending |= f
	s.CheckState = true
}

// TakePending returns and clears queued one-shot flags.
func (s *CharacterStatus) TakePending() TransitionFlag {
	f := s.pending
	s.pending = 0
	return f
}

// Pending returns queued one-shot flags without clearing them.
func (s *CharacterStatus) Pending() TransitionFlag {
	return s.pending
}

// MarkHit records that the timeline window owning hb struck target during
// this activation. It reports false when the window already connected.
func (s *CharacterStatus) MarkHit(hb HitboxData, target int) bool {
	k := hitKey{Window: hb.Window, TargetID: target}
	if _, ok := s.hits[k]; ok {
		return false
	}
	s.hits[k] = struct{}{}
	return true
}

// HasHit reports whether any box of hb's window already struck target.
func (s *CharacterStatus) HasHit(hb HitboxData, target int) bool {
	_, ok := s.hits[hitKey{Window: hb.Window, TargetID: target}]
	return ok
}

// Hurtboxes returns the current timeline hurtboxes, or the archetype body
// when the timeline defines none.
func (s *CharacterStatus) Hurtboxes() []HurtboxData {
	if hb := s.Frame().Hurtboxes; len(hb) > 0 {
		return hb
	}
	return s.Archetype.Body
}

// CleanHitboxes forgets which targets the current hitboxes already struck.
func (s *CharacterStatus) CleanHitboxes() {
	clear(s.hits)
}

func (s *CharacterStatus) GuardContext() GuardContext {
	return GuardContext{
		State: s.State.ID,
		Frame: s.StateFrame,
		HP:    s.HP,
		MaxHP: s.MaxHP(),
		Combo: s.Combo,
		Meter: s.Meter,
	}
}

func (s *CharacterStatus) attackLevels() AttackLevel {
	if len(s.Archetype.AttackLevel) > 0 {
		return s.Archetype.AttackLevel
	}
	return DefaultAttackLevels
}

func (s *CharacterStatus) stunEnded(ctx HitContext) {
	s.Conditions &^= s.hitCaused
	s.hitCaused = 0
	s.Raise(FlagStunEnd)
	if s.OnStunEnd != nil {
		s.OnStunEnd(s, ctx)
	}
}

// GetHit resolves one hitbox against this defender and applies the outcome.
// Damage is scaled by proration, which is clamped to [0, 1].
func (s *CharacterStatus) GetHit(attackerID int, hb HitboxData, proration common.Fixed) (CombatEvent, error) {
	evt := CombatEvent{
		Type:       EventWhiff,
		AttackerID: attackerID,
		TargetID:   s.ID,
		HitboxID:   hb.ID,
		Indicator:  IndWhiffed,
	}
	if hb.Duration <= 0 {
		return evt, nil
	}
	grab, err := hb.Classify()
	if err != nil {
		return evt, err
	}
	lv, err := s.attackLevels().Lookup(hb.AttackLv)
	if err != nil {
		return evt, fmt.Errorf("component: hitbox %s: %w", hb.ID, err)
	}

	cond := s.ActiveConditions()
	airborne := cond.Has(CondAirborne, false)
	knocked := cond.Has(CondKnockedDown, false)
	switch {
	case grab && cond.Has(CondGrabInvuln, false),
		!grab && cond.Has(CondStrikeInvuln, false),
		knocked && !hb.Type.Has(HitOTG, false),
		grab && airborne:
		return evt, nil
	}

	crouching := cond.Has(CondCrouching, false) && !airborne
	if hb.Type.Has(HitForceStand, false) {
		crouching = false
	}
	if hb.Type.Has(HitForceCrouch, false) && !airborne {
		crouching = true
	}

	var ind HitIndicator
	if !airborne {
		ind |= IndGrounded
	}
	if crouching {
		ind |= IndCrouching
	}
	if knocked {
		ind |= IndOTG
	}
	if hb.Type.Has(HitSuper, false) {
		ind |= IndSuper
	}

	blocked := false
	if !grab && !unblockable(hb.Type, airborne) {
		blocked = guardPointCovers(cond, hb.Type) || (s.Blocking && guardFits(hb.Type, crouching))
	}
	counter := !blocked && cond.Has(CondCounterHit, false)

	evt.HitstopSelf = lv.HitstopSelf
	evt.HitstopTarget = lv.HitstopTarget
	switch {
	case blocked:
		ind |= IndBlocked
		evt.Type = EventBlock
		evt.Stun = lv.GroundBlockstun
		if airborne {
			evt.Stun = lv.AirBlockstun
		}
	case grab:
		ind |= IndGrabbed
		evt.Type = EventGrab
		evt.Stun = lv.StandStun
	default:
		evt.Type = EventHit
		switch {
		case airborne:
			evt.Stun = lv.AirUntech
		case crouching:
			evt.Stun = lv.CrouchStun
		default:
			evt.Stun = lv.StandStun
		}
	}
	if counter {
		ind |= IndCounter
		evt.Stun += lv.CounterStunBonus
		evt.HitstopTarget += lv.CounterHitstop
	}
	evt.Indicator = ind

	base := hb.Damage
	if blocked {
		base = hb.ChipDamage
	}
	evt.Damage = common.Clamp(proration, 0, common.One).MulInt(base)

	s.LastHit = ind
	if !blocked {
		caused := hb.HitCause &^ (CondNoParentTrans | CondNoParentCond)
		s.Conditions |= caused
		s.hitCaused |= caused
		if hb.LaunchForce > 0 {
			push := hb.LaunchForce.Mul(common.CosDeg(hb.LaunchAngle))
			if s.FacingRight {
				push = -push
			}
			s.Velocity = common.Vec3{X: push, Y: hb.LaunchForce.Mul(common.SinDeg(hb.LaunchAngle))}
		}
	}
	if next := s.reaction(grab, blocked, airborne, crouching, hb.HitCause.Has(CondKnockedDown, false)); next >= 0 {
		if err := s.Enter(next); err != nil {
			return evt, err
		}
	}
	evt.Damage = s.ApplyDamage(evt.Damage, evt)
	s.Hitstun.Stop()
	s.Hitstun.StartWith(evt.Stun, HitContext{AttackerID: attackerID, HitboxID: hb.ID, Blocked: blocked})
	if evt.HitstopTarget > 0 {
		s.Hitstop.Start(evt.HitstopTarget)
	}
	s.CheckState = true
	return evt, nil
}

// ConnectedHit is the attacker side of a resolved hit.
func (s *CharacterStatus) ConnectedHit(evt CombatEvent, hb HitboxData) {
	if evt.Indicator.Has(IndWhiffed, false) {
		return
	}
	s.HitCancels |= hb.OnHit
	if evt.HitstopSelf > 0 {
		s.Hitstop.Start(evt.HitstopSelf)
	}
	if evt.Indicator.Has(IndBlocked, false) {
		s.Raise(FlagBlockConfirm)
		if !evt.Indicator.Has(IndSuper, false) {
			s.GainMeter(MeterOnBlock)
		}
		return
	}
	s.Combo++
	s.Raise(FlagHitConfirm)
	if !evt.Indicator.Has(IndSuper, false) {
		s.GainMeter(MeterOnHit)
	}
}

func (s *CharacterStatus) reaction(grab, blocked, airborne, crouching, knockdown bool) int {
	r := s.Archetype.Reactions
	switch {
	case grab:
		return r.Grabbed
	case blocked && airborne:
		return r.AirBlock
	case blocked && crouching:
		return r.CrouchBlock
	case blocked:
		return r.StandBlock
	case knockdown:
		return r.Knockdown
	case airborne:
		return r.AirHit
	case crouching:
		return r.CrouchHit
	}
	return r.StandHit
}

func unblockable(t HitType, airborne bool) bool {
	return t.Has(HitUnblockableTrue, false) ||
		(airborne && t.Has(HitUnblockableAir, false)) ||
		(!airborne && t.Has(HitUnblockableGround, false))
}

// guardFits reports whether a standing or crouching guard stops every
// height the strike carries. Mid strikes are blocked either way.
func guardFits(t HitType, crouching bool) bool {
	if t.Has(HitStrikeLow, false) && !crouching {
		return false
	}
	if t.Has(HitStrikeHigh, false) && crouching {
		return false
	}
	return true
}

func guardPointCovers(c StateCondition, t HitType) bool {
	return (t.Has(HitStrikeLow, false) && c.Has(CondGuardPointLow, false)) ||
		(t.Has(HitStrikeMid, false) && c.Has(CondGuardPointMid, false)) ||
		(t.Has(HitStrikeHigh, false) && c.Has(CondGuardPointHigh, false))
}
