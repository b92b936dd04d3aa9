package replay

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/milk9111/fightcore/component"
	"github.com/milk9111/fightcore/system"
)

// Collider reports which hitboxes touch which hurtboxes.
type Collider func([]system.ActiveBox) []system.Overlap

// Session drives a match one tick at a time and records it. Overlaps are
// taken from the boxes left by the previous tick.
type Session struct {
	Match   *system.Match
	Replay  *Replay
	collide Collider
	log     *zap.Logger
}

// NewSession starts a match over archetypes. A nil collide runs the match
// without hits.
func NewSession(archetypes []*component.Archetype, settings system.Settings, collide Collider, log *zap.Logger, opts ...system.Option) (*Session, error) {
	if log == nil {
		log = zap.NewNop()
	}
	opts = append([]system.Option{system.WithLogger(log)}, opts...)
	m, err := system.NewMatch(archetypes, settings, opts...)
	if err != nil {
		return nil, fmt.Errorf("replay: new session: %w", err)
	}
	names := make([]string, len(archetypes))
	for i, a := range archetypes {
		names[i] = a.Name
	}
	s := &Session{
		Match:   m,
		Replay:  New(names, settings),
		collide: collide,
		log:     log,
	}
	log.Info("session started",
		zap.Stringer("match_id", s.Replay.MatchID),
		zap.Strings("archetypes", names),
	)
	return s, nil
}

// Step advances one tick and records its inputs and checksum.
func (s *Session) Step(inputs []component.InputItem) ([]component.AnimationCue, error) {
	var overlaps []system.Overlap
	if s.collide != nil {
		overlaps = s.collide(s.Match.ActiveBoxes())
	}
	cues, err := s.Match.Step(inputs, overlaps)
	if err != nil {
		return nil, fmt.Errorf("replay: tick %d: %w", s.Replay.Len(), err)
	}
	s.Replay.Record(inputs, s.Match.Checksum())
	return cues, nil
}
