// Package config reads engine settings from an ini file and FIGHTCORE_
// environment overrides.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"gopkg.in/ini.v1"

	"github.com/milk9111/fightcore/common"
	"github.com/milk9111/fightcore/system"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "FIGHTCORE_"

// heldWindow is the extra history a recorder needs beyond the leniency for
// HELD_30F checks.
const heldWindow = 32

// ErrInvalid wraps every settings validation failure.
var ErrInvalid = errors.New("config: invalid settings")

type Simulation struct {
	TickRate    int          `env:"TICK_RATE"`
	HistorySize int          `env:"HISTORY_SIZE"`
	Leniency    int          `env:"LENIENCY"`
	Gravity     common.Fixed `env:"GRAVITY"`
	Friction    common.Fixed `env:"FRICTION"`
	GroundY     common.Fixed `env:"GROUND_Y"`
	StageHalf   common.Fixed `env:"STAGE_HALF_WIDTH"`
	SpawnOffset common.Fixed `env:"SPAWN_OFFSET"`
}

type Combat struct {
	ComboScaling common.Fixed `env:"COMBO_SCALING"`
	MinProration common.Fixed `env:"MIN_PRORATION"`
}

type Content struct {
	// Dir is the content directory; empty uses the embedded archetypes.
	Dir        string   `env:"CONTENT_DIR"`
	Archetypes []string `env:"ARCHETYPES" envSeparator:","`
}

type Settings struct {
	Simulation Simulation
	Combat     Combat
	Content    Content
}

// Default returns the built-in settings.
func Default() Settings {
	sim := system.DefaultSettings()
	return Settings{
		Simulation: Simulation{
			TickRate:    60,
			HistorySize: sim.HistorySize,
			Leniency:    sim.Leniency,
			Gravity:     sim.Gravity,
			Friction:    sim.Friction,
			GroundY:     sim.GroundY,
			StageHalf:   sim.StageHalf,
			SpawnOffset: sim.SpawnOffset,
		},
		Combat: Combat{
			ComboScaling: sim.ComboScaling,
			MinProration: sim.MinProration,
		},
		Content: Content{
			Archetypes: []string{"brawler", "training_dummy"},
		},
	}
}

// Load applies the ini file at path (if any) over the defaults, then the
// environment, then validates.
func Load(path string) (Settings, error) {
	s := Default()
	if path != "" {
		f, err := ini.Load(path)
		if err != nil {
			return Settings{}, fmt.Errorf("config: load %s: %w", path, err)
		}
		if err := s.apply(f); err != nil {
			return Settings{}, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	return s.finish()
}

// Parse is Load for in-memory ini data.
func Parse(data []byte) (Settings, error) {
	s := Default()
	f, err := ini.Load(data)
	if err != nil {
		return Settings{}, fmt.Errorf("config: parse ini: %w", err)
	}
	if err := s.apply(f); err != nil {
		return Settings{}, err
	}
	return s.finish()
}

func (s Settings) finish() (Settings, error) {
	if err := env.ParseWithOptions(&s, env.Options{Prefix: EnvPrefix}); err != nil {
		return Settings{}, fmt.Errorf("config: parse env: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s *Settings) apply(f *ini.File) error {
	sim := f.Section("simulation")
	combat := f.Section("combat")
	content := f.Section("content")
	errs := []error{
		readInt(sim, "tick_rate", &s.Simulation.TickRate),
		readInt(sim, "history_size", &s.Simulation.HistorySize),
		readInt(sim, "leniency", &s.Simulation.Leniency),
		readFixed(sim, "gravity", &s.Simulation.Gravity),
		readFixed(sim, "friction", &s.Simulation.Friction),
		readFixed(sim, "ground_y", &s.Simulation.GroundY),
		readFixed(sim, "stage_half_width", &s.Simulation.StageHalf),
		readFixed(sim, "spawn_offset", &s.Simulation.SpawnOffset),
		readFixed(combat, "combo_scaling", &s.Combat.ComboScaling),
		readFixed(combat, "min_proration", &s.Combat.MinProration),
	}
	if content.HasKey("dir") {
		s.Content.Dir = content.Key("dir").String()
	}
	if content.HasKey("archetypes") {
		s.Content.Archetypes = content.Key("archetypes").Strings(",")
	}
	return errors.Join(errs...)
}

func readInt(sec *ini.Section, key string, dst *int) error {
	if !sec.HasKey(key) {
		return nil
	}
	v, err := sec.Key(key).Int()
	if err != nil {
		return fmt.Errorf("[%s] %s: %w", sec.Name(), key, err)
	}
	*dst = v
	return nil
}

func readFixed(sec *ini.Section, key string, dst *common.Fixed) error {
	if !sec.HasKey(key) {
		return nil
	}
	v, err := common.ParseFixed(sec.Key(key).String())
	if err != nil {
		return fmt.Errorf("[%s] %s: %w", sec.Name(), key, err)
	}
	*dst = v
	return nil
}

// Validate reports every out-of-range setting.
func (s Settings) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}
	sim := s.Simulation
	if sim.TickRate <= 0 {
		bad("tick_rate must be positive, got %d", sim.TickRate)
	}
	if sim.Leniency < 0 {
		bad("leniency must not be negative, got %d", sim.Leniency)
	}
	if sim.HistorySize < sim.Leniency+heldWindow {
		bad("history_size %d must be at least leniency+%d (%d)", sim.HistorySize, heldWindow, sim.Leniency+heldWindow)
	}
	if sim.Gravity < 0 || sim.Friction < 0 {
		bad("gravity and friction must not be negative")
	}
	if sim.StageHalf < 0 || sim.SpawnOffset < 0 {
		bad("stage_half_width and spawn_offset must not be negative")
	}
	if c := s.Combat.ComboScaling; c <= 0 || c > common.One {
		bad("combo_scaling must be in (0, 1], got %s", c)
	}
	if p := s.Combat.MinProration; p <= 0 || p > common.One {
		bad("min_proration must be in (0, 1], got %s", p)
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

// Match converts to the settings a system.Match runs with.
func (s Settings) Match() system.Settings {
	return system.Settings{
		HistorySize:  s.Simulation.HistorySize,
		Leniency:     s.Simulation.Leniency,
		Gravity:      s.Simulation.Gravity,
		Friction:     s.Simulation.Friction,
		GroundY:      s.Simulation.GroundY,
		StageHalf:    s.Simulation.StageHalf,
		SpawnOffset:  s.Simulation.SpawnOffset,
		ComboScaling: s.Combat.ComboScaling,
		MinProration: s.Combat.MinProration,
	}
}
