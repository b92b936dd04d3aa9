package component

import (
	"errors"
	"testing"

	"github.com/milk9111/fightcore/common"
)

func TestTransitionIsValid(t *testing.T) {
	for _, c := range []struct {
		target int
		want   bool
	}{{-5, false}, {-1, false}, {0, true}, {12, true}} {
		if got := (TransitionData{Target: c.target}).IsValid(); got != c.want {
			t.Fatalf("target %d: expected %v", c.target, c.want)
		}
		if got := (MotionTransition{Target: c.target}).IsValid(); got != c.want {
			t.Fatalf("motion target %d: expected %v", c.target, c.want)
		}
	}
	m := MotionTransition{Target: 3, Cancels: CancelSpecial, Command: Command{{Input: FromDirection(DirDown, 0)}}}
	tr := m.Transition()
	if tr.Target != 3 || tr.Cancels != CancelSpecial || len(tr.Command) != 1 || tr.Flags != 0 {
		t.Fatalf("unexpected widened transition %+v", tr)
	}
}

func TestStateTableLookup(t *testing.T) {
	table, err := NewStateTable(
		StateData{ID: 0, Name: "base", Parent: -1},
		StateData{ID: 5, Name: "idle", Parent: 0},
	)
	if err != nil {
		t.Fatalf("NewStateTable: %v", err)
	}
	s, err := table.Get(5)
	if err != nil || s.Name != "idle" {
		t.Fatalf("Get(5) = %v, %v", s, err)
	}
	for _, id := range []int{-1, 1, 99} {
		if _, err := table.Get(id); !errors.Is(err, ErrStateNotFound) {
			t.Fatalf("Get(%d): expected ErrStateNotFound, got %v", id, err)
		}
	}
	if st, ok := table.Lookup("base"); !ok || st.ID != 0 {
		t.Fatalf("Lookup(base) failed")
	}
	if table.Len() != 2 || len(table.States()) != 2 {
		t.Fatalf("expected 2 states")
	}

	if _, err := NewStateTable(StateData{ID: 1}, StateData{ID: 1}); err == nil {
		t.Fatalf("expected duplicate id error")
	}
	if _, err := NewStateTable(StateData{ID: -2}); err == nil {
		t.Fatalf("expected negative id error")
	}
}

func TestStateTableInheritance(t *testing.T) {
	table, err := NewStateTable(
		StateData{ID: 0, Name: "root", Parent: -1, Conditions: CondApplyGravity, Transitions: []TransitionData{{Target: 0}}},
		StateData{ID: 1, Name: "mid", Parent: 0, Conditions: CondGrounded},
		StateData{ID: 2, Name: "leaf", Parent: 1, Conditions: CondCrouching},
		StateData{ID: 3, Name: "sealed", Parent: 1, Conditions: CondAirborne | CondNoParentCond | CondNoParentTrans},
		StateData{ID: 4, Name: "loop_a", Parent: 5},
		StateData{ID: 5, Name: "loop_b", Parent: 4},
	)
	if err != nil {
		t.Fatalf("NewStateTable: %v", err)
	}

	cases := []struct {
		name      string
		id        int
		wantConds StateCondition
		wantChain int
	}{
		{"leaf_inherits", 2, CondCrouching | CondGrounded | CondApplyGravity, 3},
		{"sealed", 3, CondAirborne | CondNoParentCond | CondNoParentTrans, 1},
		{"root", 0, CondApplyGravity, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			conds, err := table.Conditions(c.id)
			if err != nil {
				t.Fatalf("Conditions: %v", err)
			}
			if conds != c.wantConds {
				t.Fatalf("expected %s, got %s", c.wantConds, conds)
			}
			chain, err := table.Chain(c.id)
			if err != nil {
				t.Fatalf("Chain: %v", err)
			}
			if len(chain) != c.wantChain {
				t.Fatalf("expected chain of %d, got %d", c.wantChain, len(chain))
			}
		})
	}

	chain, err := table.Chain(4)
	if err != nil {
		t.Fatalf("Chain on cycle: %v", err)
	}
	if len(chain) > table.Len()+1 {
		t.Fatalf("parent cycle walk was not bounded: %d", len(chain))
	}
}

func TestTimelineAt(t *testing.T) {
	tl := Timeline{
		{Start: 0, Conditions: CondCounterHit, Length: 3},
		{Start: 2, Length: 4, Cancels: CancelSpecial, Hitboxes: []HitboxData{
			{ID: "short", Duration: 1},
			{ID: "long", Duration: 4},
			{ID: "never", Duration: 0},
		}},
		{Start: 6, Hurtboxes: []HurtboxData{{}}},
	}
	cases := []struct {
		frame    int
		conds    StateCondition
		cancels  CancelConditions
		hitboxes []string
		hurt     int
	}{
		{0, CondCounterHit, 0, nil, 0},
		{2, CondCounterHit, CancelSpecial, []string{"short", "long"}, 0},
		{3, 0, CancelSpecial, []string{"long"}, 0},
		{6, 0, 0, nil, 1},
		{100, 0, 0, nil, 1},
	}
	for _, c := range cases {
		f := tl.At(c.frame)
		if f.Conditions != c.conds || f.Cancels != c.cancels || len(f.Hurtboxes) != c.hurt {
			t.Fatalf("frame %d: got %+v", c.frame, f)
		}
		if len(f.Hitboxes) != len(c.hitboxes) {
			t.Fatalf("frame %d: expected hitboxes %v, got %d", c.frame, c.hitboxes, len(f.Hitboxes))
		}
		for i, id := range c.hitboxes {
			if f.Hitboxes[i].ID != id {
				t.Fatalf("frame %d: hitbox %d is %s, want %s", c.frame, i, f.Hitboxes[i].ID, id)
			}
			if f.Hitboxes[i].Window != 1 {
				t.Fatalf("frame %d: hitbox %s tagged with window %d, want 1", c.frame, id, f.Hitboxes[i].Window)
			}
		}
	}
	jump := Timeline{{Start: 1, Length: 5, Impulse: &common.Vec3{Y: common.FromInt(8)}}}
	if f := jump.At(1); !f.HasImpulse || f.Impulse.Y != common.FromInt(8) {
		t.Fatalf("expected impulse on the window's first frame, got %+v", f)
	}
	if f := jump.At(2); f.HasImpulse {
		t.Fatalf("impulse must only apply once")
	}
	if len(tl.Hitboxes()) != 3 {
		t.Fatalf("expected all 3 hitboxes listed")
	}
}
