package prefabs

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/fightcore/component"
)

// ArchetypeSpec is the on-disk form of a character. States refer to each
// other by name; Build resolves names to ids in declaration order.
type ArchetypeSpec struct {
	Name         string                  `yaml:"name"`
	MaxHP        int                     `yaml:"max_hp"`
	MaxMeter     int                     `yaml:"max_meter"`
	Initial      string                  `yaml:"initial"`
	Body         []component.HurtboxData `yaml:"body"`
	AttackLevels component.AttackLevel   `yaml:"attack_levels"`
	Reactions    ReactionSpec            `yaml:"reactions"`
	States       []StateSpec             `yaml:"states"`
}

// ReactionSpec names the states hit resolution uses. Empty entries leave the
// defender's state alone.
type ReactionSpec struct {
	StandHit    string `yaml:"stand_hit"`
	CrouchHit   string `yaml:"crouch_hit"`
	AirHit      string `yaml:"air_hit"`
	StandBlock  string `yaml:"stand_block"`
	CrouchBlock string `yaml:"crouch_block"`
	AirBlock    string `yaml:"air_block"`
	Grabbed     string `yaml:"grabbed"`
	Knockdown   string `yaml:"knockdown"`
}

type StateSpec struct {
	Name        string                     `yaml:"name"`
	Parent      string                     `yaml:"parent"`
	Conditions  component.StateCondition   `yaml:"conditions"`
	Cancels     component.CancelConditions `yaml:"cancels"`
	Duration    int                        `yaml:"duration"`
	Loop        bool                       `yaml:"loop"`
	Motions     []MotionSpec               `yaml:"motions"` // checked before Transitions
	Transitions []TransitionSpec           `yaml:"transitions"`
	Timeline    component.Timeline         `yaml:"timeline"`
}

type TransitionSpec struct {
	Target  string                     `yaml:"target"`
	Cancels component.CancelConditions `yaml:"cancels"`
	Flags   component.TransitionFlag   `yaml:"flags"`
	Command CommandSpec                `yaml:"command"`
	Events  component.TransitionEvent  `yaml:"events"`
	Script  string                     `yaml:"script"`
}

// MotionSpec is a motion-only cancel: a command and a cancel gate, no flags.
type MotionSpec struct {
	Target  string                     `yaml:"target"`
	Cancels component.CancelConditions `yaml:"cancels"`
	Command CommandSpec                `yaml:"command"`
}

// CommandSpec is either a notation string ("2 3 6LP") or a list whose
// entries are notation strings or {input, flags} maps.
type CommandSpec []FragmentSpec

type FragmentSpec struct {
	Input string               `yaml:"input"`
	Flags component.InputFlags `yaml:"flags"`
}

func (c *CommandSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		fields := strings.FieldsFunc(node.Value, func(r rune) bool { return r == ' ' || r == ',' })
		out := make(CommandSpec, len(fields))
		for i, f := range fields {
			out[i] = FragmentSpec{Input: f}
		}
		*c = out
		return nil
	case yaml.SequenceNode:
		out := make(CommandSpec, len(node.Content))
		for i, item := range node.Content {
			if err := item.Decode(&out[i]); err != nil {
				return err
			}
		}
		*c = out
		return nil
	}
	return fmt.Errorf("line %d: command must be a string or a list", node.Line)
}

func (f *FragmentSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		f.Input = node.Value
		return nil
	}
	type plain FragmentSpec
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*f = FragmentSpec(p)
	return nil
}

// Command parses the fragments and attaches their flags.
func (c CommandSpec) Command() (component.Command, error) {
	out := make(component.Command, 0, len(c))
	for _, f := range c {
		frag, err := component.ParseFragment(f.Input)
		if err != nil {
			return nil, err
		}
		frag.Flags |= f.Flags
		out = append(out, frag)
	}
	return out, nil
}

// DecodeSpec unmarshals data into T. JSON content is accepted as well since
// it is a subset of YAML.
func DecodeSpec[T any](name string, data []byte) (T, error) {
	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		var zero T
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", name, err)
	}
	return spec, nil
}
