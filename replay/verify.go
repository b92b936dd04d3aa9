package replay

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/milk9111/fightcore/component"
)

// Divergence is returned by Verify when a re-simulated tick hashes
// differently from the recording.
type Divergence struct {
	Tick int
	Want uint64
	Got  uint64
}

func (d *Divergence) Error() string {
	return fmt.Sprintf("replay: diverged at tick %d: want %016x, got %016x", d.Tick, d.Want, d.Got)
}

// Verify re-simulates r over archetypes and compares every tick's checksum.
// archetypes must be the ones named by the replay, in the same order.
func Verify(r *Replay, archetypes []*component.Archetype, collide Collider, log *zap.Logger) error {
	names := make([]string, len(archetypes))
	for i, a := range archetypes {
		names[i] = a.Name
	}
	if !slices.Equal(names, r.Archetypes) {
		return fmt.Errorf("replay: archetypes %v do not match recording %v", names, r.Archetypes)
	}
	s, err := NewSession(archetypes, r.Settings, collide, log)
	if err != nil {
		return err
	}
	for tick, row := range r.Inputs {
		if _, err := s.Step(row); err != nil {
			return err
		}
		if got := s.Replay.Checksums[tick]; got != r.Checksums[tick] {
			return &Divergence{Tick: tick, Want: r.Checksums[tick], Got: got}
		}
	}
	return nil
}
