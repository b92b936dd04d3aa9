package component

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/fightcore/common"
)

// StateCondition describes physical and defensive properties of a state.
type StateCondition uint32

const (
	CondGrounded StateCondition = 1 << iota
	CondAirborne
	CondApplyGravity
	CondApplyFriction
	CondStrikeInvuln
	CondGrabInvuln
	CondGuardPointLow
	CondGuardPointMid
	CondGuardPointHigh
	CondCrouching
	CondCounterHit
	CondKnockedDown

	// CondNoParentTrans stops the evaluator from falling back to the parent
	// state's transitions.
	CondNoParentTrans StateCondition = 1 << 30
	// CondNoParentCond stops the parent's conditions from being inherited.
	CondNoParentCond StateCondition = 1 << 31

	CondInvulnerable = CondStrikeInvuln | CondGrabInvuln
	CondGuardPoint   = CondGuardPointLow | CondGuardPointMid | CondGuardPointHigh
)

// CancelConditions gates which follow-up moves a state may cancel into.
type CancelConditions uint32

const (
	CancelGrounded CancelConditions = 1 << iota
	CancelAirborne
	CancelJump
	CancelDash
	CancelGuard
	CancelNormal
	CancelCommandNormal
	CancelSpecial
	CancelSuper
	CancelGrab
	cancelTier1
	cancelTier2
	cancelTier3
	cancelTier4
	cancelTier5
	cancelTier6
	cancelSuperTier1
	cancelSuperTier2
	cancelSuperTier3
)

const (
	CancelSpecialLv1 = CancelSpecial | cancelTier1
	CancelSpecialLv2 = CancelSpecial | cancelTier2
	CancelSpecialLv3 = CancelSpecial | cancelTier3
	CancelSpecialLv4 = CancelSpecial | cancelTier4
	CancelSpecialLv5 = CancelSpecial | cancelTier5
	CancelSpecialLv6 = CancelSpecial | cancelTier6
	CancelSuperLv1   = CancelSuper | cancelSuperTier1
	CancelSuperLv2   = CancelSuper | cancelSuperTier2
	CancelSuperLv3   = CancelSuper | cancelSuperTier3
)

// TransitionEvent lists side effects applied when a transition fires.
type TransitionEvent uint16

const (
	EventKillXVel TransitionEvent = 1 << iota
	EventKillYVel
	EventKillZVel
	EventFaceEnemy
	EventCleanHitboxes
	EventFlagBlock

	EventKillAllVel = EventKillXVel | EventKillYVel | EventKillZVel
)

// TransitionFlag is derived from input and status every tick and matched
// strictly against a transition's requirement.
type TransitionFlag uint32

const (
	FlagHoldForward TransitionFlag = 1 << iota
	FlagHoldBack
	FlagHoldUp
	FlagHoldDown
	FlagNeutral
	FlagButtonPress
	FlagGrounded
	FlagAirborne
	FlagLanded
	FlagStateEnd
	FlagHitConfirm
	FlagBlockConfirm
	FlagStunEnd
	FlagKO
)

// HitType classifies an attack.
type HitType uint32

const (
	HitGrab HitType = 1 << iota
	HitStrikeLow
	HitStrikeMid
	HitStrikeHigh
	HitLight
	HitMedium
	HitHeavy
	HitUnblockableAir
	HitUnblockableGround
	HitUnblockableTrue
	HitProjectile
	HitSuper
	HitForceStand
	HitForceCrouch
	HitOTG

	HitStrike      = HitStrikeLow | HitStrikeMid | HitStrikeHigh
	HitUnblockable = HitUnblockableAir | HitUnblockableGround | HitUnblockableTrue
)

// HitIndicator is the report returned by hit resolution to the attacker.
type HitIndicator uint16

const (
	IndGrounded HitIndicator = 1 << iota
	IndCrouching
	IndCounter
	IndBlocked
	IndGrabbed
	IndSuper
	IndOTG
	IndWhiffed
)

// InputFlags modify how a single command fragment is matched.
type InputFlags uint16

const (
	InPressed InputFlags = 1 << iota
	InReleased
	InDirAs4Way
	InBtnSimulPress
	InNoInterrupt
	InHeld30F
	InCheckIsUp
	InAnyIsOkay

	// InNeedPrev marks fragments that must look at the sample before the one
	// they match.
	InNeedPrev = InPressed | InReleased | InBtnSimulPress | InNoInterrupt | InHeld30F
)

type flagName[T common.Bits] struct {
	name string
	bits T
}

// Composite names come first so String prefers them.
var stateConditionNames = []flagName[StateCondition]{
	{"INVULNERABLE", CondInvulnerable},
	{"GUARD_POINT", CondGuardPoint},
	{"GROUNDED", CondGrounded},
	{"AIRBORNE", CondAirborne},
	{"APPLY_GRAVITY", CondApplyGravity},
	{"APPLY_FRICTION", CondApplyFriction},
	{"STRIKE_INVULN", CondStrikeInvuln},
	{"GRAB_INVULN", CondGrabInvuln},
	{"GUARD_POINT_LOW", CondGuardPointLow},
	{"GUARD_POINT_MID", CondGuardPointMid},
	{"GUARD_POINT_HIGH", CondGuardPointHigh},
	{"CROUCHING", CondCrouching},
	{"COUNTER_HIT", CondCounterHit},
	{"KNOCKED_DOWN", CondKnockedDown},
	{"NO_PARENT_TRANS", CondNoParentTrans},
	{"NO_PARENT_COND", CondNoParentCond},
}

var cancelConditionNames = []flagName[CancelConditions]{
	{"SPCL_LV1", CancelSpecialLv1},
	{"SPCL_LV2", CancelSpecialLv2},
	{"SPCL_LV3", CancelSpecialLv3},
	{"SPCL_LV4", CancelSpecialLv4},
	{"SPCL_LV5", CancelSpecialLv5},
	{"SPCL_LV6", CancelSpecialLv6},
	{"SUPER_LV1", CancelSuperLv1},
	{"SUPER_LV2", CancelSuperLv2},
	{"SUPER_LV3", CancelSuperLv3},
	{"GROUNDED", CancelGrounded},
	{"AIRBORNE", CancelAirborne},
	{"JUMP", CancelJump},
	{"DASH", CancelDash},
	{"GUARD", CancelGuard},
	{"NORMAL", CancelNormal},
	{"COMMAND_NORMAL", CancelCommandNormal},
	{"SPECIAL", CancelSpecial},
	{"SUPER", CancelSuper},
	{"GRAB", CancelGrab},
}

var transitionEventNames = []flagName[TransitionEvent]{
	{"KILL_ALL_VEL", EventKillAllVel},
	{"KILL_X_VEL", EventKillXVel},
	{"KILL_Y_VEL", EventKillYVel},
	{"KILL_Z_VEL", EventKillZVel},
	{"FACE_ENEMY", EventFaceEnemy},
	{"CLEAN_HITBOXES", EventCleanHitboxes},
	{"FLAG_BLOCK", EventFlagBlock},
}

var transitionFlagNames = []flagName[TransitionFlag]{
	{"HOLD_FORWARD", FlagHoldForward},
	{"HOLD_BACK", FlagHoldBack},
	{"HOLD_UP", FlagHoldUp},
	{"HOLD_DOWN", FlagHoldDown},
	{"NEUTRAL", FlagNeutral},
	{"BUTTON_PRESS", FlagButtonPress},
	{"GROUNDED", FlagGrounded},
	{"AIRBORNE", FlagAirborne},
	{"LANDED", FlagLanded},
	{"STATE_END", FlagStateEnd},
	{"HIT_CONFIRM", FlagHitConfirm},
	{"BLOCK_CONFIRM", FlagBlockConfirm},
	{"STUN_END", FlagStunEnd},
	{"KO", FlagKO},
}

var hitTypeNames = []flagName[HitType]{
	{"STRIKE", HitStrike},
	{"UNBLOCKABLE", HitUnblockable},
	{"GRAB", HitGrab},
	{"STRIKE_LOW", HitStrikeLow},
	{"STRIKE_MID", HitStrikeMid},
	{"STRIKE_HIGH", HitStrikeHigh},
	{"LIGHT", HitLight},
	{"MEDIUM", HitMedium},
	{"HEAVY", HitHeavy},
	{"UNBLOCKABLE_AIR", HitUnblockableAir},
	{"UNBLOCKABLE_GROUND", HitUnblockableGround},
	{"UNBLOCKABLE_TRUE", HitUnblockableTrue},
	{"PROJECTILE", HitProjectile},
	{"SUPER", HitSuper},
	{"FORCE_STAND", HitForceStand},
	{"FORCE_CROUCH", HitForceCrouch},
	{"OTG", HitOTG},
}

var hitIndicatorNames = []flagName[HitIndicator]{
	{"GROUNDED", IndGrounded},
	{"CROUCHING", IndCrouching},
	{"COUNTER", IndCounter},
	{"BLOCKED", IndBlocked},
	{"GRABBED", IndGrabbed},
	{"SUPER", IndSuper},
	{"OTG", IndOTG},
	{"WHIFFED", IndWhiffed},
}

var inputFlagNames = []flagName[InputFlags]{
	{"NEED_PREV", InNeedPrev},
	{"PRESSED", InPressed},
	{"RELEASED", InReleased},
	{"DIR_AS_4WAY", InDirAs4Way},
	{"BTN_SIMUL_PRESS", InBtnSimulPress},
	{"NO_INTERRUPT", InNoInterrupt},
	{"HELD_30F", InHeld30F},
	{"CHECK_IS_UP", InCheckIsUp},
	{"ANY_IS_OKAY", InAnyIsOkay},
}

func formatFlags[T common.Bits](v T, names []flagName[T]) string {
	if v == 0 {
		return "NONE"
	}
	var parts []string
	var covered T
	for _, n := range names {
		if !common.HasFlag(v, n.bits, true) || common.HasFlag(covered, n.bits, true) {
			continue
		}
		parts = append(parts, n.name)
		covered |= n.bits
	}
	if rest := v &^ covered; rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint64(rest)))
	}
	return strings.Join(parts, "|")
}

func parseFlagName[T common.Bits](s string, names []flagName[T]) (T, error) {
	var out T
	for _, part := range strings.Split(s, "|") {
		part = strings.ToUpper(strings.TrimSpace(part))
		if part == "" || part == "NONE" {
			continue
		}
		found := false
		for _, n := range names {
			if n.name == part {
				out |= n.bits
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown flag %q", part)
		}
	}
	return out, nil
}

// parseFlagNode accepts either a scalar ("A|B") or a sequence of names.
func parseFlagNode[T common.Bits](node *yaml.Node, names []flagName[T]) (T, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return parseFlagName(node.Value, names)
	case yaml.SequenceNode:
		var out T
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return 0, fmt.Errorf("line %d: flag list entries must be scalars", item.Line)
			}
			v, err := parseFlagName(item.Value, names)
			if err != nil {
				return 0, fmt.Errorf("line %d: %w", item.Line, err)
			}
			out |= v
		}
		return out, nil
	}
	return 0, fmt.Errorf("line %d: flags must be a name or a list of names", node.Line)
}

func (c StateCondition) Has(mask StateCondition, strict bool) bool {
	return common.HasFlag(c, mask, strict)
}

func (c StateCondition) String() string {
	return formatFlags(c, stateConditionNames)
}

func (c *StateCondition) UnmarshalYAML(node *yaml.Node) error {
	v, err := parseFlagNode(node, stateConditionNames)
	*c = v
	return err
}

func (c CancelConditions) Has(mask CancelConditions, strict bool) bool {
	return common.HasFlag(c, mask, strict)
}

func (c CancelConditions) String() string {
	return formatFlags(c, cancelConditionNames)
}

func (c *CancelConditions) UnmarshalYAML(node *yaml.Node) error {
	v, err := parseFlagNode(node, cancelConditionNames)
	*c = v
	return err
}

func (e TransitionEvent) Has(mask TransitionEvent, strict bool) bool {
	return common.HasFlag(e, mask, strict)
}

func (e TransitionEvent) String() string {
	return formatFlags(e, transitionEventNames)
}

func (e *TransitionEvent) UnmarshalYAML(node *yaml.Node) error {
	v, err := parseFlagNode(node, transitionEventNames)
	*e = v
	return err
}

func (f TransitionFlag) Has(mask TransitionFlag, strict bool) bool {
	return common.HasFlag(f, mask, strict)
}

func (f TransitionFlag) String() string {
	return formatFlags(f, transitionFlagNames)
}

func (f *TransitionFlag) UnmarshalYAML(node *yaml.Node) error {
	v, err := parseFlagNode(node, transitionFlagNames)
	*f = v
	return err
}

func (t HitType) Has(mask HitType, strict bool) bool {
	return common.HasFlag(t, mask, strict)
}

func (t HitType) String() string {
	return formatFlags(t, hitTypeNames)
}

func (t *HitType) UnmarshalYAML(node *yaml.Node) error {
	v, err := parseFlagNode(node, hitTypeNames)
	*t = v
	return err
}

func (i HitIndicator) Has(mask HitIndicator, strict bool) bool {
	return common.HasFlag(i, mask, strict)
}

func (i HitIndicator) String() string {
	return formatFlags(i, hitIndicatorNames)
}

func (f InputFlags) Has(mask InputFlags, strict bool) bool {
	return common.HasFlag(f, mask, strict)
}

func (f InputFlags) String() string {
	return formatFlags(f, inputFlagNames)
}

func (f *InputFlags) UnmarshalYAML(node *yaml.Node) error {
	v, err := parseFlagNode(node, inputFlagNames)
	*f = v
	return err
}
