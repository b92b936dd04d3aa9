package system

import (
	"errors"
	"fmt"
	"sort"

	"github.com/milk9111/fightcore/common"
	"github.com/milk9111/fightcore/component"
)

// Overlap is one hitbox/hurtbox contact reported by the collision layer.
type Overlap struct {
	Attacker int
	Defender int
	Hitbox   component.HitboxData
}

type pairKey struct {
	attacker int
	defender int
}

// SelectOverlaps keeps the highest priority hitbox per attacker/defender
// pair, preferring the first reported on ties. Self hits and boxes whose
// timeline window already struck the defender this activation are dropped.
// The result is ordered by defender, then attacker.
func SelectOverlaps(actors []*component.CharacterStatus, overlaps []Overlap) []Overlap {
	best := make(map[pairKey]int, len(overlaps))
	var out []Overlap
	for _, o := range overlaps {
		if o.Attacker == o.Defender || !validActor(actors, o.Attacker) || !validActor(actors, o.Defender) {
			continue
		}
		if actors[o.Attacker].HasHit(o.Hitbox, o.Defender) {
			continue
		}
		k := pairKey{attacker: o.Attacker, defender: o.Defender}
		if i, ok := best[k]; ok {
			if o.Hitbox.Priority > out[i].Hitbox.Priority {
				out[i] = o
			}
			continue
		}
		best[k] = len(out)
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Defender != out[j].Defender {
			return out[i].Defender < out[j].Defender
		}
		return out[i].Attacker < out[j].Attacker
	})
	return out
}

func validActor(actors []*component.CharacterStatus, i int) bool {
	return i >= 0 && i < len(actors) && actors[i] != nil
}

// ResolveHit runs one overlap through the defender and reports the outcome
// back to the attacker. Only a connecting hit uses up the attacker's window;
// a whiff leaves it free to strike later in the same activation.
func ResolveHit(att component.Attacker, def component.Defender, attackerID, defenderID int, hb component.HitboxData, proration common.Fixed) (component.CombatEvent, error) {
	if !def.Alive() {
		return component.CombatEvent{Type: component.EventWhiff, AttackerID: attackerID, TargetID: defenderID, HitboxID: hb.ID, Indicator: component.IndWhiffed}, nil
	}
	evt, err := def.GetHit(attackerID, hb, proration)
	if err != nil {
		return evt, fmt.Errorf("system: resolve %s on actor %d: %w", hb.ID, defenderID, err)
	}
	if !evt.Indicator.Has(component.IndWhiffed, false) {
		att.MarkHit(hb, defenderID)
	}
	att.ConnectedHit(evt, hb)
	return evt, nil
}

// ResolveCombat resolves every selected overlap in order and emits one
// event per resolution, plus a KO event when a defender drops to 0. Overlaps
// touching an actor marked in frozen are skipped; a nil frozen skips none.
func ResolveCombat(actors []*component.CharacterStatus, overlaps []Overlap, frozen []bool, cfg Settings, frame int, emitter *component.CombatEventEmitter) error {
	var errs []error
	for _, o := range SelectOverlaps(actors, overlaps) {
		if isFrozen(frozen, o.Attacker) || isFrozen(frozen, o.Defender) {
			continue
		}
		att, def := actors[o.Attacker], actors[o.Defender]
		wasAlive := def.Alive()
		evt, err := ResolveHit(att, def, att.ID, def.ID, o.Hitbox, cfg.Proration(att.Combo))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		evt.Frame = frame
		emitter.Emit(evt)
		if wasAlive && !def.Alive() {
			ko := evt
			ko.Type = component.EventKO
			emitter.Emit(ko)
		}
	}
	return errors.Join(errs...)
}

func isFrozen(frozen []bool, i int) bool {
	return i < len(frozen) && frozen[i]
}
