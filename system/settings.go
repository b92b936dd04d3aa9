package system

import (
	"errors"
	"fmt"

	"github.com/milk9111/fightcore/common"
	"github.com/milk9111/fightcore/component"
)

// ErrCommandTooLong is returned when a command could need more input
// samples than the history keeps.
var ErrCommandTooLong = errors.New("system: command longer than input history")

// Settings are the simulation constants a match runs with.
type Settings struct {
	HistorySize  int
	Leniency     int
	Gravity      common.Fixed
	Friction     common.Fixed
	GroundY      common.Fixed
	StageHalf    common.Fixed
	SpawnOffset  common.Fixed
	ComboScaling common.Fixed
	MinProration common.Fixed
}

// DefaultSettings mirrors the defaults of the config package.
func DefaultSettings() Settings {
	return Settings{
		HistorySize:  64,
		Leniency:     3,
		Gravity:      common.FromRatio(1, 2),
		Friction:     common.FromRatio(1, 4),
		GroundY:      0,
		StageHalf:    common.FromInt(320),
		SpawnOffset:  common.FromInt(60),
		ComboScaling: common.FromRatio(9, 10),
		MinProration: common.FromRatio(1, 10),
	}
}

// Proration returns max(MinProration, ComboScaling^combo).
func (s Settings) Proration(combo int) common.Fixed {
	p := s.ComboScaling.Pow(combo)
	if p < s.MinProration {
		return s.MinProration
	}
	if p > common.One {
		return common.One
	}
	return p
}

// CheckCommands verifies that every transition command of arch fits in the
// input history at the configured leniency. Sizes the recorder would replace
// with its defaults are checked the same way.
func (s Settings) CheckCommands(arch *component.Archetype) error {
	if arch == nil || arch.Table == nil {
		return nil
	}
	size, leniency := s.HistorySize, max(s.Leniency, 0)
	if size <= 0 {
		size = component.DefaultHistorySize
	}
	for _, st := range arch.Table.States() {
		for _, t := range st.Transitions {
			if n := t.Command.Span(leniency); n > size {
				return fmt.Errorf("%w: %s state %s command %q needs %d samples, history keeps %d",
					ErrCommandTooLong, arch.Name, st.Name, t.Command, n, size)
			}
		}
	}
	return nil
}
