package component

import (
	"errors"
	"fmt"

	"github.com/milk9111/fightcore/common"
)

var (
	ErrMalformedHitbox  = errors.New("component: hitbox must be exactly one of grab or strike")
	ErrAttackLevelRange = errors.New("component: attack level out of range")
)

// CombatEventType defines the kind of combat event.
type CombatEventType string

const (
	EventHit     CombatEventType = "hit"
	EventBlock   CombatEventType = "block"
	EventGrab    CombatEventType = "grab"
	EventWhiff   CombatEventType = "whiff"
	EventKO      CombatEventType = "ko"
	EventStunEnd CombatEventType = "stun_end"
)

// CombatEvent is emitted after a hit resolves.
type CombatEvent struct {
	Type          CombatEventType
	Frame         int
	AttackerID    int
	TargetID      int
	HitboxID      string
	Damage        int
	Indicator     HitIndicator
	HitstopSelf   int
	HitstopTarget int
	Stun          int
}

// CombatEventHandler handles combat events.
type CombatEventHandler func(evt CombatEvent)

// CombatEventEmitter fans combat events out to handlers in registration
// order.
type CombatEventEmitter struct {
	Handlers []CombatEventHandler
}

// Emit sends a combat event to all handlers.
func (e *CombatEventEmitter) Emit(evt CombatEvent) {
	if e == nil || len(e.Handlers) == 0 {
		return
	}
	for _, h := range e.Handlers {
		if h != nil {
			h(evt)
		}
	}
}

// HurtboxData is a defensive box in actor-local space. Boxes are
// axis-aligned; Rotation is carried for content tools and must be zero.
type HurtboxData struct {
	Position common.Vec3  `yaml:"position"`
	Rotation common.Fixed `yaml:"rotation"`
	Extent   common.Vec3  `yaml:"extent"`
}

// HitboxData is an offensive box in actor-local space plus everything hit
// resolution needs to know about the attack. Like hurtboxes it is
// axis-aligned and Rotation must be zero.
type HitboxData struct {
	ID          string           `yaml:"id"`
	Position    common.Vec3      `yaml:"position"`
	Rotation    common.Fixed     `yaml:"rotation"`
	Extent      common.Vec3      `yaml:"extent"`
	LaunchAngle common.Fixed     `yaml:"launch_angle"`
	LaunchForce common.Fixed     `yaml:"launch_force"`
	Duration    int              `yaml:"duration"`
	AttackLv    int              `yaml:"attack_level"`
	Damage      int              `yaml:"damage"`
	ChipDamage  int              `yaml:"chip_damage"`
	Priority    int              `yaml:"priority"`
	HitCause    StateCondition   `yaml:"hit_cause"`
	OnHit       CancelConditions `yaml:"cancel_on_hit"`
	Type        HitType          `yaml:"type"`

	// Window is the index of the timeline window that activated the box.
	// Every box of one window shares a single hit per target.
	Window int `yaml:"-"`
}

// Classify checks that exactly one of grab or strike is set.
func (h HitboxData) Classify() (grab bool, err error) {
	isGrab := h.Type.Has(HitGrab, false)
	isStrike := h.Type.Has(HitStrike, false)
	if isGrab == isStrike {
		return false, fmt.Errorf("%w: %s has type %s", ErrMalformedHitbox, h.ID, h.Type)
	}
	return isGrab, nil
}

// WorldBox places a local box at pos, mirrored when facing left. Rotation is
// not applied; the result is always axis-aligned.
func WorldBox(local, extent, pos common.Vec3, facingRight bool) common.Box {
	if !facingRight {
		local = local.MirrorX()
	}
	return common.Box{Center: pos.Add(local), Extent: extent}
}

// AttackLevelVal holds the frame data for one attack level.
type AttackLevelVal struct {
	HitstopSelf      int `yaml:"hitstop_self" json:"hitstop_self"`
	HitstopTarget    int `yaml:"hitstop_target" json:"hitstop_target"`
	CounterHitstop   int `yaml:"counter_hitstop" json:"counter_hitstop"`
	StandStun        int `yaml:"stand_stun" json:"stand_stun"`
	CrouchStun       int `yaml:"crouch_stun" json:"crouch_stun"`
	AirUntech        int `yaml:"air_untech" json:"air_untech"`
	GroundBlockstun  int `yaml:"ground_blockstun" json:"ground_blockstun"`
	AirBlockstun     int `yaml:"air_blockstun" json:"air_blockstun"`
	CounterStunBonus int `yaml:"counter_stun_bonus" json:"counter_stun_bonus"`
}

// AttackLevel is the attack-level indexed frame data table.
type AttackLevel []AttackLevelVal

// DefaultAttackLevels is used when content does not provide its own table.
var DefaultAttackLevels = AttackLevel{
	{HitstopSelf: 8, HitstopTarget: 8, CounterHitstop: 2, StandStun: 10, CrouchStun: 11, AirUntech: 12, GroundBlockstun: 9, AirBlockstun: 9, CounterStunBonus: 2},
	{HitstopSelf: 10, HitstopTarget: 10, CounterHitstop: 3, StandStun: 12, CrouchStun: 13, AirUntech: 14, GroundBlockstun: 11, AirBlockstun: 11, CounterStunBonus: 2},
	{HitstopSelf: 12, HitstopTarget: 12, CounterHitstop: 4, StandStun: 14, CrouchStun: 15, AirUntech: 16, GroundBlockstun: 13, AirBlockstun: 13, CounterStunBonus: 3},
	{HitstopSelf: 14, HitstopTarget: 14, CounterHitstop: 5, StandStun: 17, CrouchStun: 18, AirUntech: 20, GroundBlockstun: 16, AirBlockstun: 16, CounterStunBonus: 4},
	{HitstopSelf: 16, HitstopTarget: 16, CounterHitstop: 6, StandStun: 19, CrouchStun: 20, AirUntech: 24, GroundBlockstun: 18, AirBlockstun: 18, CounterStunBonus: 4},
	{HitstopSelf: 18, HitstopTarget: 18, CounterHitstop: 8, StandStun: 22, CrouchStun: 23, AirUntech: 28, GroundBlockstun: 20, AirBlockstun: 20, CounterStunBonus: 5},
}

// Lookup returns the frame data for lv.
func (a AttackLevel) Lookup(lv int) (AttackLevelVal, error) {
	if lv < 0 || lv >= len(a) {
		return AttackLevelVal{}, fmt.Errorf("%w: %d (table has %d levels)", ErrAttackLevelRange, lv, len(a))
	}
	return a[lv], nil
}
