package system

import (
	"testing"

	"github.com/milk9111/fightcore/common"
	"github.com/milk9111/fightcore/component"
)

const (
	stIdle = iota
	stJab
	stFireball
	stStandHit
	stStandBlock
)

func mustCommand(t *testing.T, s string) component.Command {
	t.Helper()
	c, err := component.ParseCommand(s)
	if err != nil {
		t.Fatalf("ParseCommand(%q): %v", s, err)
	}
	return c
}

func vec(x, y int) common.Vec3 {
	return common.Vec3{X: common.FromInt(x), Y: common.FromInt(y)}
}

func jabBox() component.HitboxData {
	return component.HitboxData{
		ID:         "jab",
		Position:   vec(40, 40),
		Extent:     vec(30, 10),
		Duration:   3,
		AttackLv:   0,
		Damage:     100,
		ChipDamage: 10,
		Priority:   1,
		OnHit:      component.CancelSpecial,
		Type:       component.HitStrikeMid | component.HitLight,
	}
}

func testArchetype(t *testing.T) *component.Archetype {
	t.Helper()
	return testArchetypeBoxes(t, jabBox())
}

// testArchetypeBoxes builds the test character with boxes sharing the jab's
// single timeline window.
func testArchetypeBoxes(t *testing.T, boxes ...component.HitboxData) *component.Archetype {
	t.Helper()
	toIdle := []component.TransitionData{{Target: stIdle, Flags: component.FlagStateEnd}}
	table, err := component.NewStateTable(
		component.StateData{
			ID:         stIdle,
			Name:       "idle",
			Parent:     -1,
			Conditions: component.CondGrounded | component.CondApplyFriction,
			Cancels:    component.CancelNormal | component.CancelSpecial | component.CancelGuard,
			Transitions: []component.TransitionData{
				{Target: stFireball, Cancels: component.CancelSpecial, Command: mustCommand(t, "2 3 6LP")},
				{Target: stJab, Cancels: component.CancelNormal, Flags: component.FlagButtonPress, Command: mustCommand(t, "LP")},
			},
		},
		component.StateData{
			ID:          stJab,
			Name:        "jab",
			Parent:      -1,
			Conditions:  component.CondGrounded | component.CondApplyFriction,
			Duration:    10,
			Transitions: toIdle,
			Timeline: component.Timeline{{
				Start:    2,
				Length:   3,
				Hitboxes: boxes,
			}},
		},
		component.StateData{ID: stFireball, Name: "fireball", Parent: -1, Duration: 20, Transitions: toIdle},
		component.StateData{
			ID:          stStandHit,
			Name:        "stand_hit",
			Parent:      -1,
			Conditions:  component.CondGrounded,
			Transitions: []component.TransitionData{{Target: stIdle, Flags: component.FlagStunEnd}},
		},
		component.StateData{
			ID:          stStandBlock,
			Name:        "stand_block",
			Parent:      -1,
			Conditions:  component.CondGrounded,
			Cancels:     component.CancelGuard,
			Transitions: []component.TransitionData{{Target: stIdle, Flags: component.FlagStunEnd}},
		},
	)
	if err != nil {
		t.Fatalf("NewStateTable: %v", err)
	}
	r := component.NoReactions()
	r.StandHit = stStandHit
	r.StandBlock = stStandBlock
	return &component.Archetype{
		Name:      "tester",
		MaxHP:     1000,
		MaxMeter:  100,
		Initial:   stIdle,
		Table:     table,
		Reactions: r,
		Body:      []component.HurtboxData{{Position: vec(0, 40), Extent: vec(20, 40)}},
	}
}

func testSettings() Settings {
	s := DefaultSettings()
	s.SpawnOffset = common.FromInt(20)
	return s
}

func newTestMatch(t *testing.T, opts ...Option) *Match {
	t.Helper()
	return newMatchOf(t, testArchetype(t), opts...)
}

func newMatchOf(t *testing.T, arch *component.Archetype, opts ...Option) *Match {
	t.Helper()
	m, err := NewMatch([]*component.Archetype{arch, arch}, testSettings(), opts...)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	return m
}

// overlapsOf pairs every hitbox with every other actor's hurtboxes.
func overlapsOf(boxes []ActiveBox) []Overlap {
	var out []Overlap
	for _, hit := range boxes {
		if hit.Kind != BoxHit {
			continue
		}
		for _, hurt := range boxes {
			if hurt.Kind != BoxHurt || hurt.Actor == hit.Actor {
				continue
			}
			if hit.Box.Intersects(hurt.Box) {
				out = append(out, Overlap{Attacker: hit.Actor, Defender: hurt.Actor, Hitbox: hit.Hitbox})
			}
		}
	}
	return out
}

func step(t *testing.T, m *Match, p1, p2 component.InputItem) []component.AnimationCue {
	t.Helper()
	cues, err := m.Step([]component.InputItem{p1, p2}, overlapsOf(m.ActiveBoxes()))
	if err != nil {
		t.Fatalf("Step at frame %d: %v", m.Frame(), err)
	}
	return cues
}

var (
	neutral = component.FromDirection(component.DirNeutral, 0)
	lp      = component.FromDirection(component.DirNeutral, component.BtnLP)
	back    = component.FromDirection(component.DirBack, 0)
)
