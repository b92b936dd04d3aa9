package component

import (
	"errors"
	"fmt"
)

// ErrStateNotFound is returned when a state id is not in the table.
var ErrStateNotFound = errors.New("component: state not found")

// GuardContext is the read-only view a scripted guard gets of its actor.
type GuardContext struct {
	State int
	Frame int
	HP    int
	MaxHP int
	Combo int
	Meter int
}

// Guard is an extra admission check attached to a transition.
type Guard interface {
	Name() string
	Allow(ctx GuardContext) bool
}

// TransitionData describes one outgoing edge of a state.
type TransitionData struct {
	Target  int
	Cancels CancelConditions
	Flags   TransitionFlag
	Command Command
	Events  TransitionEvent
	Guard   Guard
}

// IsValid reports whether the transition points at a state.
func (t TransitionData) IsValid() bool {
	return t.Target >= 0
}

// MotionTransition is a motion-only cancel with no flag requirement.
type MotionTransition struct {
	Target  int
	Cancels CancelConditions
	Command Command
}

// Transition widens m into a full TransitionData.
func (m MotionTransition) Transition() TransitionData {
	return TransitionData{Target: m.Target, Cancels: m.Cancels, Command: m.Command}
}

func (m MotionTransition) IsValid() bool {
	return m.Target >= 0
}

// StateData is an immutable state record. Transitions are checked in order;
// the first admissible one wins.
type StateData struct {
	ID          int
	Name        string
	Parent      int
	Conditions  StateCondition
	Cancels     CancelConditions
	Duration    int
	Loop        bool
	Transitions []TransitionData
	Timeline    Timeline
}

// HasParent reports whether the state names a parent.
func (s *StateData) HasParent() bool {
	return s != nil && s.Parent >= 0 && s.Parent != s.ID
}

// StateTable stores states keyed by id. It is built once by content loading
// and only read afterwards, so actors may share it freely.
type StateTable struct {
	sparse []int
	dense  []StateData
}

// NewStateTable builds a table from states, rejecting negative or duplicate ids.
func NewStateTable(states ...StateData) (*StateTable, error) {
	t := &StateTable{}
	for _, s := range states {
		if err := t.add(s); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *StateTable) add(s StateData) error {
	if s.ID < 0 {
		return fmt.Errorf("component: state %q has negative id %d", s.Name, s.ID)
	}
	if s.ID >= len(t.sparse) {
		grow := s.ID + 1 - len(t.sparse)
		for i := 0; i < grow; i++ {
			t.sparse = append(t.sparse, -1)
		}
	}
	if t.sparse[s.ID] >= 0 {
		return fmt.Errorf("component: duplicate state id %d (%q)", s.ID, s.Name)
	}
	t.dense = append(t.dense, s)
	t.sparse[s.ID] = len(t.dense) - 1
	return nil
}

// Has reports whether id exists.
func (t *StateTable) Has(id int) bool {
	if t == nil || id < 0 || id >= len(t.sparse) {
		return false
	}
	return t.sparse[id] >= 0
}

// Get returns the state for id.
func (t *StateTable) Get(id int) (*StateData, error) {
	if !t.Has(id) {
		return nil, fmt.Errorf("%w: %d", ErrStateNotFound, id)
	}
	return &t.dense[t.sparse[id]], nil
}

// Lookup finds a state by name.
func (t *StateTable) Lookup(name string) (*StateData, bool) {
	if t == nil {
		return nil, false
	}
	for i := range t.dense {
		if t.dense[i].Name == name {
			return &t.dense[i], true
		}
	}
	return nil, false
}

// States returns the states in insertion order. Callers must not modify them.
func (t *StateTable) States() []StateData {
	if t == nil {
		return nil
	}
	return t.dense
}

func (t *StateTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.dense)
}

// Conditions returns the state's conditions merged with its ancestors'
// unless NO_PARENT_COND stops inheritance. The walk is bounded by the table
// size so a malformed cycle cannot loop forever.
func (t *StateTable) Conditions(id int) (StateCondition, error) {
	s, err := t.Get(id)
	if err != nil {
		return 0, err
	}
	out := s.Conditions
	for depth := 0; depth < t.Len() && s.HasParent() && !s.Conditions.Has(CondNoParentCond, false); depth++ {
		p, err := t.Get(s.Parent)
		if err != nil {
			return 0, err
		}
		out |= p.Conditions &^ (CondNoParentTrans | CondNoParentCond)
		s = p
	}
	return out, nil
}

// Chain returns the state followed by each ancestor whose transitions are
// still consulted, stopping after the first state carrying NO_PARENT_TRANS.
func (t *StateTable) Chain(id int) ([]*StateData, error) {
	s, err := t.Get(id)
	if err != nil {
		return nil, err
	}
	out := []*StateData{s}
	for len(out) <= t.Len() && s.HasParent() && !s.Conditions.Has(CondNoParentTrans, false) {
		p, err := t.Get(s.Parent)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
		s = p
	}
	return out, nil
}

// Reactions name the states hit resolution puts a defender into. A negative
// id leaves the defender's state alone.
type Reactions struct {
	StandHit    int
	CrouchHit   int
	AirHit      int
	StandBlock  int
	CrouchBlock int
	AirBlock    int
	Grabbed     int
	Knockdown   int
}

// NoReactions leaves every reaction unset.
func NoReactions() Reactions {
	return Reactions{-1, -1, -1, -1, -1, -1, -1, -1}
}

// Archetype is everything loaded for one character.
type Archetype struct {
	Name        string
	MaxHP       int
	MaxMeter    int
	Initial     int
	Table       *StateTable
	Reactions   Reactions
	AttackLevel AttackLevel
	// Body is used whenever the current timeline defines no hurtboxes.
	Body []HurtboxData
}
