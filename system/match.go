package system

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/milk9111/fightcore/common"
	"github.com/milk9111/fightcore/component"
)

// Option configures a Match.
type Option func(*Match)

// WithLogger sets the logger. Per-tick logging is Debug only.
func WithLogger(l *zap.Logger) Option {
	return func(m *Match) {
		if l != nil {
			m.log = l
		}
	}
}

// WithCombatHandler subscribes h to resolved hits.
func WithCombatHandler(h component.CombatEventHandler) Option {
	return func(m *Match) {
		m.events.Handlers = append(m.events.Handlers, h)
	}
}

// Match advances a fixed set of actors one tick at a time. Actor order is the
// slice order given to NewMatch and never changes.
type Match struct {
	archetypes []*component.Archetype
	settings   Settings
	log        *zap.Logger
	events     component.CombatEventEmitter

	actors []*component.CharacterStatus
	flags  []component.TransitionFlag
	frame  int
}

// NewMatch places one actor per archetype. The first actor starts on the
// left facing right; the rest alternate sides.
func NewMatch(archetypes []*component.Archetype, settings Settings, opts ...Option) (*Match, error) {
	if len(archetypes) == 0 {
		return nil, errors.New("system: match needs at least one archetype")
	}
	for _, arch := range archetypes {
		if err := settings.CheckCommands(arch); err != nil {
			return nil, err
		}
	}
	m := &Match{
		archetypes: archetypes,
		settings:   settings,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if err := m.Reset(); err != nil {
		return nil, err
	}
	return m, nil
}

// Reset puts every actor back at its spawn point in its initial state.
func (m *Match) Reset() error {
	m.actors = make([]*component.CharacterStatus, len(m.archetypes))
	m.flags = make([]component.TransitionFlag, len(m.archetypes))
	m.frame = 0
	for i, arch := range m.archetypes {
		rec := component.NewRecorder(m.settings.HistorySize, m.settings.Leniency)
		s, err := component.NewCharacterStatus(i, arch, rec)
		if err != nil {
			return fmt.Errorf("system: spawn actor %d: %w", i, err)
		}
		s.Position = common.Vec3{X: -m.settings.SpawnOffset, Y: m.settings.GroundY}
		if i%2 == 1 {
			s.Position.X = m.settings.SpawnOffset
			s.FacingRight = false
		}
		s.OnStunEnd = m.stunEnded
		m.actors[i] = s
	}
	return nil
}

func (m *Match) stunEnded(s *component.CharacterStatus, ctx component.HitContext) {
	if validActor(m.actors, ctx.AttackerID) {
		m.actors[ctx.AttackerID].Combo = 0
	}
	m.log.Debug("stun ended", zap.Int("frame", m.frame), zap.Int("actor", s.ID), zap.Int("attacker", ctx.AttackerID))
	m.events.Emit(component.CombatEvent{
		Type:       component.EventStunEnd,
		Frame:      m.frame,
		AttackerID: ctx.AttackerID,
		TargetID:   s.ID,
		HitboxID:   ctx.HitboxID,
	})
}

func (m *Match) Frame() int { return m.frame }

func (m *Match) Settings() Settings { return m.settings }

// Actors exposes the statuses for display. Callers must not mutate them.
func (m *Match) Actors() []*component.CharacterStatus { return m.actors }

func (m *Match) opponent(i int) *component.CharacterStatus {
	if len(m.actors) < 2 {
		return nil
	}
	return m.actors[(i+1)%len(m.actors)]
}

// Step runs one simulation tick: record input and tick hitstop, evaluate
// transitions, advance state clocks and kinematics, resolve the reported
// overlaps, then emit one animation cue per actor. Actors frozen by
// hitstop only record input; they neither strike nor get struck.
func (m *Match) Step(inputs []component.InputItem, overlaps []Overlap) ([]component.AnimationCue, error) {
	if len(inputs) != len(m.actors) {
		return nil, fmt.Errorf("system: step got %d inputs for %d actors", len(inputs), len(m.actors))
	}
	m.frame++

	frozen := make([]bool, len(m.actors))
	for i, a := range m.actors {
		if a.Recorder.Append(inputs[i]) {
			a.CheckState = true
		}
		frozen[i] = a.Hitstop.Tick()
	}

	for i, a := range m.actors {
		if frozen[i] {
			continue
		}
		if err := m.evaluate(i, a); err != nil {
			return nil, err
		}
	}

	for i, a := range m.actors {
		if frozen[i] {
			continue
		}
		m.advance(a)
	}

	if err := ResolveCombat(m.actors, overlaps, frozen, m.settings, m.frame, &m.events); err != nil {
		return nil, err
	}

	cues := make([]component.AnimationCue, len(m.actors))
	for i, a := range m.actors {
		cues[i] = component.AnimationCue{Actor: i, State: a.State.Name, Fresh: a.Fresh, Elapsed: a.StateFrame}
		a.Fresh = false
	}
	return cues, nil
}

// evaluate runs on every unfrozen tick, since timeline cancel windows open
// without any input change.
func (m *Match) evaluate(i int, a *component.CharacterStatus) error {
	flags := DeriveFlags(a)
	a.Blocking = a.BlockFlagged ||
		(flags.Has(component.FlagHoldBack, false) && a.ActiveCancels().Has(component.CancelGuard, false))

	m.flags[i] = flags
	a.TakePending()
	t, ok, err := Evaluate(a, flags)
	a.CheckState = false
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	from := a.State.Name
	if err := Apply(a, t, m.opponent(i)); err != nil {
		return fmt.Errorf("system: actor %d transition from %s: %w", i, from, err)
	}
	m.log.Debug("transition",
		zap.Int("frame", m.frame),
		zap.Int("actor", i),
		zap.String("from", from),
		zap.String("to", a.State.Name),
		zap.Stringer("flags", flags),
	)
	return nil
}

func (m *Match) advance(a *component.CharacterStatus) {
	if !a.Fresh {
		a.StateFrame++
		if d := a.State.Duration; a.State.Loop && d > 0 && a.StateFrame >= d {
			a.StateFrame = 0
			a.CleanHitboxes()
		}
	}
	fr := a.Frame()
	if fr.HasImpulse {
		ApplyImpulse(a, fr.Impulse)
	}
	Integrate(a, a.ActiveConditions(), m.settings)
	a.Hitstun.Tick()
}

// BoxKind tells hitboxes and hurtboxes apart.
type BoxKind uint8

const (
	BoxHurt BoxKind = iota
	BoxHit
)

// ActiveBox is a world-space box for the collision layer.
type ActiveBox struct {
	Actor  int
	Kind   BoxKind
	Box    common.Box
	Hitbox component.HitboxData
}

// ActiveBoxes lists every live hurtbox and hitbox in actor order. Hitboxes
// that already struck every other actor are still listed; selection drops
// repeats.
func (m *Match) ActiveBoxes() []ActiveBox {
	var out []ActiveBox
	for i, a := range m.actors {
		for _, hu := range a.Hurtboxes() {
			out = append(out, ActiveBox{
				Actor: i,
				Kind:  BoxHurt,
				Box:   component.WorldBox(hu.Position, hu.Extent, a.Position, a.FacingRight),
			})
		}
		for _, hb := range a.Frame().Hitboxes {
			out = append(out, ActiveBox{
				Actor:  i,
				Kind:   BoxHit,
				Box:    component.WorldBox(hb.Position, hb.Extent, a.Position, a.FacingRight),
				Hitbox: hb,
			})
		}
	}
	return out
}

// Checksum hashes every actor's simulation state. Two matches fed the same
// inputs produce the same checksum sequence.
func (m *Match) Checksum() uint64 {
	h := xxhash.New()
	buf := make([]byte, 0, 256)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(m.frame))
	for i, a := range m.actors {
		for _, v := range []int64{
			int64(a.State.ID), int64(a.StateFrame), int64(a.HP), int64(a.Meter), int64(a.Combo),
			int64(a.Conditions), int64(a.HitCancels), int64(m.flags[i]), int64(a.LastHit),
			int64(a.Position.X), int64(a.Position.Y), int64(a.Position.Z),
			int64(a.Velocity.X), int64(a.Velocity.Y), int64(a.Velocity.Z),
			int64(a.Hitstop.Remaining()), int64(a.Hitstun.Remaining()),
			int64(a.Recorder.Newest(0)),
			boolInt(a.FacingRight), boolInt(a.Airborne), boolInt(a.Blocking),
		} {
			buf = binary.LittleEndian.AppendUint64(buf, uint64(v))
		}
	}
	_, _ = h.Write(buf)
	return h.Sum64()
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
