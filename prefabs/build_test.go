package prefabs

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/milk9111/fightcore/component"
)

const tinySpec = `
name: tiny
max_hp: 100
initial: idle
states:
  - name: idle
    transitions:
      - target: jab
        flags: [BUTTON_PRESS]
        command: "LP"
  - name: jab
    duration: 10
    transitions:
      - target: idle
        flags: [STATE_END]
    timeline:
      - start: 2
        length: 3
        hitboxes:
          - id: jab
            duration: 3
            damage: 10
            type: [STRIKE_MID]
`

func noScripts(name string) ([]byte, error) {
	return nil, fmt.Errorf("%s: %w", name, fs.ErrNotExist)
}

func buildString(t *testing.T, src string, scripts ScriptSource) (*component.Archetype, error) {
	t.Helper()
	spec, err := DecodeSpec[ArchetypeSpec]("test.yaml", []byte(src))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return Build(spec, scripts, nil)
}

func TestBuildTiny(t *testing.T) {
	arch, err := buildString(t, tinySpec, noScripts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if arch.Name != "tiny" || arch.MaxHP != 100 || arch.Table.Len() != 2 {
		t.Fatalf("unexpected archetype %+v", arch)
	}
	idle, ok := arch.Table.Lookup("idle")
	if !ok || arch.Initial != idle.ID {
		t.Fatalf("initial should be idle")
	}
	jab, _ := arch.Table.Lookup("jab")
	if len(idle.Transitions) != 1 || idle.Transitions[0].Target != jab.ID {
		t.Fatalf("idle should lead to jab, got %+v", idle.Transitions)
	}
	if len(idle.Transitions[0].Command) != 1 {
		t.Fatalf("expected one command fragment")
	}
	if arch.Reactions.StandHit != -1 {
		t.Fatalf("unset reactions should be -1")
	}
	if got := jab.Timeline.At(3).Hitboxes; len(got) != 1 || got[0].ID != "jab" {
		t.Fatalf("expected jab hitbox active on frame 3, got %+v", got)
	}
}

func TestBuildValidation(t *testing.T) {
	badScript := func(string) ([]byte, error) { return []byte("allow = ("), nil }
	cases := []struct {
		name    string
		edit    func(string) string
		scripts ScriptSource
		want    []ValidationError
	}{
		{
			name: "missing_target",
			edit: func(s string) string { return strings.Replace(s, "target: jab", "target: nowhere", 1) },
			want: []ValidationError{{State: "idle", Transition: "0 (nowhere)"}},
		},
		{
			name: "attack_level_out_of_range",
			edit: func(s string) string {
				return strings.Replace(s, "damage: 10", "damage: 10\n            attack_level: 9", 1)
			},
			want: []ValidationError{{State: "jab", Hitbox: "jab"}},
		},
		{
			name: "malformed_hit_type",
			edit: func(s string) string { return strings.Replace(s, "[STRIKE_MID]", "[LIGHT]", 1) },
			want: []ValidationError{{State: "jab", Hitbox: "jab"}},
		},
		{
			name: "grab_and_strike",
			edit: func(s string) string { return strings.Replace(s, "[STRIKE_MID]", "[STRIKE_MID, GRAB]", 1) },
			want: []ValidationError{{State: "jab", Hitbox: "jab"}},
		},
		{
			name: "parent_cycle",
			edit: func(s string) string {
				s = strings.Replace(s, "  - name: idle\n", "  - name: idle\n    parent: jab\n", 1)
				return strings.Replace(s, "  - name: jab\n", "  - name: jab\n    parent: idle\n", 1)
			},
			want: []ValidationError{{State: "idle"}, {State: "jab"}},
		},
		{
			name: "bad_command",
			edit: func(s string) string { return strings.Replace(s, `command: "LP"`, `command: "2 3 6XX"`, 1) },
			want: []ValidationError{{State: "idle", Transition: "0 (jab)"}},
		},
		{
			name: "missing_script",
			edit: func(s string) string {
				return strings.Replace(s, `command: "LP"`, "command: \"LP\"\n        script: nope", 1)
			},
			want: []ValidationError{{State: "idle", Transition: "0 (jab)"}},
		},
		{
			name: "script_compile_error",
			edit: func(s string) string {
				return strings.Replace(s, `command: "LP"`, "command: \"LP\"\n        script: broken", 1)
			},
			scripts: badScript,
			want:    []ValidationError{{State: "idle", Transition: "0 (jab)"}},
		},
		{
			name: "unknown_initial_and_reaction",
			edit: func(s string) string {
				s = strings.Replace(s, "initial: idle", "initial: nope", 1)
				return strings.Replace(s, "states:", "reactions:\n  stand_hit: ouch\nstates:", 1)
			},
			want: []ValidationError{{}, {}},
		},
		{
			name: "rotated_hitbox",
			edit: func(s string) string {
				return strings.Replace(s, "damage: 10", "damage: 10\n            rotation: 15", 1)
			},
			want: []ValidationError{{State: "jab", Hitbox: "jab"}},
		},
		{
			name: "rotated_hurtboxes",
			edit: func(s string) string {
				s = strings.Replace(s, "states:", "body:\n  - extent: {x: 10, y: 20}\n    rotation: 5\nstates:", 1)
				return strings.Replace(s, "        hitboxes:", "        hurtboxes:\n          - extent: {x: 10, y: 20}\n            rotation: 30\n        hitboxes:", 1)
			},
			want: []ValidationError{{}, {State: "jab"}},
		},
		{
			name: "duplicate_state",
			edit: func(s string) string { return s + "  - name: idle\n" },
			want: []ValidationError{{State: "idle"}},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			scripts := c.scripts
			if scripts == nil {
				scripts = noScripts
			}
			arch, err := buildString(t, c.edit(tinySpec), scripts)
			if err == nil {
				t.Fatalf("expected validation failure, got %+v", arch)
			}
			if !errors.Is(err, ErrInvalidContent) {
				t.Fatalf("expected ErrInvalidContent, got %v", err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected a ValidationError in %v", err)
			}
			got := ValidationErrors(err)
			if len(got) != len(c.want) {
				t.Fatalf("expected %d problems, got %d: %v", len(c.want), len(got), err)
			}
			for i, w := range c.want {
				g := got[i]
				if g.Archetype != "tiny" || g.State != w.State || g.Transition != w.Transition || g.Hitbox != w.Hitbox {
					t.Fatalf("problem %d: expected %+v, got %+v", i, w, *g)
				}
				if g.Reason == "" {
					t.Fatalf("problem %d has no reason", i)
				}
			}
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	e := &ValidationError{Archetype: "brawler", State: "jab", Hitbox: "jab", Reason: "bad"}
	if got, want := e.Error(), `archetype "brawler" state "jab" hitbox "jab": bad`; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestCommandSpecForms(t *testing.T) {
	src := `
plain: "2 3 6LP"
mixed:
  - "4"
  - input: "6LP"
    flags: [PRESSED]
`
	type commands struct {
		Plain CommandSpec `yaml:"plain"`
		Mixed CommandSpec `yaml:"mixed"`
	}
	doc, err := DecodeSpec[commands]("cmd.yaml", []byte(src))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	plain, err := doc.Plain.Command()
	if err != nil || len(plain) != 3 {
		t.Fatalf("plain: %v %v", plain, err)
	}
	if plain[2].Input.Direction() != component.DirForward || plain[2].Input.Buttons() != component.BtnLP {
		t.Fatalf("unexpected last fragment %v", plain[2].Input)
	}
	mixed, err := doc.Mixed.Command()
	if err != nil || len(mixed) != 2 {
		t.Fatalf("mixed: %v %v", mixed, err)
	}
	if mixed[0].Flags != 0 || !mixed[1].Flags.Has(component.InPressed, false) {
		t.Fatalf("unexpected flags %s %s", mixed[0].Flags, mixed[1].Flags)
	}
}
