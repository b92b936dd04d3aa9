package prefabs

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/milk9111/fightcore/component"
	"github.com/milk9111/fightcore/system"
)

// ScriptSource returns the source of a named guard script.
type ScriptSource func(name string) ([]byte, error)

type builder struct {
	v       *validator
	ids     map[string]int
	levels  component.AttackLevel
	scripts ScriptSource
	log     *zap.Logger
	guards  map[string]component.Guard
}

// Build validates spec and compiles it into an archetype. Every problem
// found is reported, joined under ErrInvalidContent.
func Build(spec ArchetypeSpec, scripts ScriptSource, log *zap.Logger) (*component.Archetype, error) {
	if log == nil {
		log = zap.NewNop()
	}
	v := &validator{archetype: spec.Name}
	if spec.Name == "" {
		v.add(ValidationError{Reason: "missing name"})
	}
	if spec.MaxHP <= 0 {
		v.add(ValidationError{Reason: fmt.Sprintf("max_hp must be positive, got %d", spec.MaxHP)})
	}
	if spec.MaxMeter < 0 {
		v.add(ValidationError{Reason: fmt.Sprintf("max_meter must not be negative, got %d", spec.MaxMeter)})
	}
	if len(spec.States) == 0 {
		v.add(ValidationError{Reason: "no states"})
	}
	for k, hu := range spec.Body {
		if hu.Rotation != 0 {
			v.add(ValidationError{Reason: fmt.Sprintf("body box %d: %s", k, unrotated)})
		}
	}

	ids := make(map[string]int, len(spec.States))
	for i, st := range spec.States {
		if st.Name == "" {
			v.add(ValidationError{State: fmt.Sprintf("#%d", i), Reason: "missing state name"})
			continue
		}
		if _, dup := ids[st.Name]; dup {
			v.add(ValidationError{State: st.Name, Reason: "duplicate state name"})
			continue
		}
		ids[st.Name] = i
	}

	levels := spec.AttackLevels
	if len(levels) == 0 {
		levels = component.DefaultAttackLevels
	}
	b := &builder{
		v:       v,
		ids:     ids,
		levels:  levels,
		scripts: scripts,
		log:     log,
		guards:  make(map[string]component.Guard),
	}

	states := make([]component.StateData, len(spec.States))
	for i, st := range spec.States {
		states[i] = b.state(i, st)
	}
	b.checkParents(states)

	initial := -1
	if spec.Initial == "" {
		v.add(ValidationError{Reason: "missing initial state"})
	} else {
		initial = b.ref(spec.Initial, ValidationError{}, "initial")
	}
	r := spec.Reactions
	reactions := component.Reactions{
		StandHit:    b.optional(r.StandHit, "reaction stand_hit"),
		CrouchHit:   b.optional(r.CrouchHit, "reaction crouch_hit"),
		AirHit:      b.optional(r.AirHit, "reaction air_hit"),
		StandBlock:  b.optional(r.StandBlock, "reaction stand_block"),
		CrouchBlock: b.optional(r.CrouchBlock, "reaction crouch_block"),
		AirBlock:    b.optional(r.AirBlock, "reaction air_block"),
		Grabbed:     b.optional(r.Grabbed, "reaction grabbed"),
		Knockdown:   b.optional(r.Knockdown, "reaction knockdown"),
	}

	if err := v.err(); err != nil {
		return nil, err
	}
	table, err := component.NewStateTable(states...)
	if err != nil {
		return nil, fmt.Errorf("prefabs: build %s: %w", spec.Name, err)
	}
	log.Debug("archetype built",
		zap.String("archetype", spec.Name),
		zap.Int("states", table.Len()),
		zap.Int("guards", len(b.guards)),
	)
	return &component.Archetype{
		Name:        spec.Name,
		MaxHP:       spec.MaxHP,
		MaxMeter:    spec.MaxMeter,
		Initial:     initial,
		Table:       table,
		Reactions:   reactions,
		AttackLevel: spec.AttackLevels,
		Body:        spec.Body,
	}, nil
}

func (b *builder) state(id int, st StateSpec) component.StateData {
	sd := component.StateData{
		ID:         id,
		Name:       st.Name,
		Parent:     -1,
		Conditions: st.Conditions,
		Cancels:    st.Cancels,
		Duration:   st.Duration,
		Loop:       st.Loop,
		Timeline:   st.Timeline,
	}
	at := ValidationError{State: st.Name}
	if st.Parent != "" {
		sd.Parent = b.ref(st.Parent, at, "parent")
	}
	if st.Duration < 0 {
		at.Reason = fmt.Sprintf("negative duration %d", st.Duration)
		b.v.add(at)
	}

	for j, m := range st.Motions {
		at := ValidationError{State: st.Name, Transition: fmt.Sprintf("motion %d (%s)", j, m.Target)}
		mt := component.MotionTransition{
			Target:  b.ref(m.Target, at, "target"),
			Cancels: m.Cancels,
			Command: b.command(m.Command, at),
		}
		if len(m.Command) == 0 {
			at.Reason = "motion has no command"
			b.v.add(at)
		}
		sd.Transitions = append(sd.Transitions, mt.Transition())
	}

	for j, t := range st.Transitions {
		at := ValidationError{State: st.Name, Transition: fmt.Sprintf("%d (%s)", j, t.Target)}
		td := component.TransitionData{
			Target:  b.ref(t.Target, at, "target"),
			Cancels: t.Cancels,
			Flags:   t.Flags,
			Command: b.command(t.Command, at),
			Events:  t.Events,
		}
		if t.Script != "" {
			td.Guard = b.guard(t.Script, at)
		}
		sd.Transitions = append(sd.Transitions, td)
	}
	for k, w := range st.Timeline {
		if w.Start < 0 || w.Length < 0 {
			b.v.add(ValidationError{
				State:  st.Name,
				Reason: fmt.Sprintf("timeline window %d has negative start or length", k),
			})
		}
		for _, hb := range w.Hitboxes {
			b.hitbox(st.Name, hb)
		}
		for j, hu := range w.Hurtboxes {
			if hu.Rotation != 0 {
				b.v.add(ValidationError{
					State:  st.Name,
					Reason: fmt.Sprintf("timeline window %d hurtbox %d: %s", k, j, unrotated),
				})
			}
		}
	}
	return sd
}

// Collision only tests axis-aligned boxes.
const unrotated = "rotation is not supported, boxes are axis-aligned"

func (b *builder) hitbox(state string, hb component.HitboxData) {
	at := ValidationError{State: state, Hitbox: hb.ID}
	fail := func(format string, args ...any) {
		e := at
		e.Reason = fmt.Sprintf(format, args...)
		b.v.add(e)
	}
	if hb.ID == "" {
		fail("hitbox needs an id")
	}
	if _, err := hb.Classify(); err != nil {
		fail("type %s must be exactly one of GRAB or STRIKE", hb.Type)
	}
	if _, err := b.levels.Lookup(hb.AttackLv); err != nil {
		fail("attack level %d out of range (table has %d levels)", hb.AttackLv, len(b.levels))
	}
	if hb.Duration <= 0 {
		fail("duration must be positive, got %d", hb.Duration)
	}
	if hb.Damage < 0 || hb.ChipDamage < 0 {
		fail("negative damage")
	}
	if hb.Rotation != 0 {
		fail(unrotated)
	}
}

// checkParents reports every state whose parent chain leads back to itself.
func (b *builder) checkParents(states []component.StateData) {
	for i := range states {
		steps := 0
		for p := states[i].Parent; p >= 0 && p < len(states); p = states[p].Parent {
			if p == i {
				b.v.add(ValidationError{State: states[i].Name, Reason: "parent chain forms a cycle"})
				break
			}
			steps++
			if steps > len(states) {
				break
			}
		}
	}
}

func (b *builder) ref(name string, at ValidationError, what string) int {
	if id, ok := b.ids[name]; ok {
		return id
	}
	at.Reason = fmt.Sprintf("%s references unknown state %q", what, name)
	b.v.add(at)
	return -1
}

func (b *builder) optional(name, what string) int {
	if name == "" {
		return -1
	}
	return b.ref(name, ValidationError{}, what)
}

func (b *builder) command(spec CommandSpec, at ValidationError) component.Command {
	if len(spec) == 0 {
		return nil
	}
	cmd, err := spec.Command()
	if err != nil {
		at.Reason = fmt.Sprintf("command: %v", err)
		b.v.add(at)
		return nil
	}
	return cmd
}

func (b *builder) guard(name string, at ValidationError) component.Guard {
	name = scriptName(name)
	if g, ok := b.guards[name]; ok {
		return g
	}
	if b.scripts == nil {
		at.Reason = fmt.Sprintf("script %q but no script source", name)
		b.v.add(at)
		return nil
	}
	src, err := b.scripts(name)
	if err != nil {
		at.Reason = fmt.Sprintf("script %q: %v", name, err)
		b.v.add(at)
		return nil
	}
	g, err := system.CompileGuard(strings.TrimSuffix(name, scriptExt), src, b.log)
	if err != nil {
		at.Reason = err.Error()
		b.v.add(at)
		return nil
	}
	b.guards[name] = g
	return g
}
