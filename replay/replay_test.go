package replay

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/tidwall/sjson"

	"github.com/milk9111/fightcore/component"
	"github.com/milk9111/fightcore/obj"
	"github.com/milk9111/fightcore/prefabs"
	"github.com/milk9111/fightcore/system"
)

func archetypes(t *testing.T) []*component.Archetype {
	t.Helper()
	as, err := prefabs.NewLoader().Archetypes("brawler", "training_dummy")
	if err != nil {
		t.Fatalf("load archetypes: %v", err)
	}
	return as
}

// script walks the brawler in, then throws jabs and a fireball motion while
// the dummy idles.
func script() [][]component.InputItem {
	var out [][]component.InputItem
	add := func(n int, p1 component.InputItem) {
		for i := 0; i < n; i++ {
			out = append(out, []component.InputItem{p1, component.FromDirection(component.DirNeutral, 0)})
		}
	}
	add(20, component.FromDirection(component.DirForward, 0))
	for i := 0; i < 4; i++ {
		add(1, component.FromDirection(component.DirNeutral, component.BtnLP))
		add(11, component.FromDirection(component.DirNeutral, 0))
	}
	add(1, component.FromDirection(component.DirDown, 0))
	add(1, component.FromDirection(component.DirDownForward, 0))
	add(1, component.FromDirection(component.DirForward, component.BtnLP))
	add(40, component.FromDirection(component.DirNeutral, 0))
	return out
}

func record(t *testing.T) *Replay {
	t.Helper()
	s, err := NewSession(archetypes(t), system.DefaultSettings(), obj.NewCollisionWorld().Overlaps, nil)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	for tick, row := range script() {
		if _, err := s.Step(row); err != nil {
			t.Fatalf("tick %d: %v", tick, err)
		}
	}
	return s.Replay
}

func TestSessionIsDeterministic(t *testing.T) {
	a, b := record(t), record(t)
	if a.Len() != len(script()) || b.Len() != a.Len() {
		t.Fatalf("lengths %d and %d, want %d", a.Len(), b.Len(), len(script()))
	}
	for i := range a.Checksums {
		if a.Checksums[i] != b.Checksums[i] {
			t.Fatalf("tick %d: checksums %016x and %016x differ", i, a.Checksums[i], b.Checksums[i])
		}
	}
	if a.MatchID == b.MatchID {
		t.Fatal("sessions share a match id")
	}
}

func TestRoundTripVerifies(t *testing.T) {
	r := record(t)
	data, err := r.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.MatchID != r.MatchID || got.Settings != r.Settings || got.Len() != r.Len() {
		t.Fatalf("decoded replay differs: %+v", got.Settings)
	}
	for i := range r.Inputs {
		if got.Inputs[i][0] != r.Inputs[i][0] || got.Checksums[i] != r.Checksums[i] {
			t.Fatalf("tick %d differs after round trip", i)
		}
	}
	if err := Verify(got, archetypes(t), obj.NewCollisionWorld().Overlaps, nil); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestVerifyReportsDivergence(t *testing.T) {
	r := record(t)
	data, err := r.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	data, err = sjson.SetBytes(data, "checksums.10", "0000000000000000")
	if err != nil {
		t.Fatal(err)
	}
	tampered, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	err = Verify(tampered, archetypes(t), obj.NewCollisionWorld().Overlaps, nil)
	var d *Divergence
	if !errors.As(err, &d) {
		t.Fatalf("Verify = %v, want a Divergence", err)
	}
	if d.Tick != 10 || d.Got != r.Checksums[10] {
		t.Fatalf("divergence = %+v", d)
	}
}

func TestVerifyRejectsOtherArchetypes(t *testing.T) {
	r := record(t)
	as := archetypes(t)
	as[0], as[1] = as[1], as[0]
	err := Verify(r, as, nil, nil)
	var d *Divergence
	if err == nil || errors.As(err, &d) {
		t.Fatalf("Verify = %v, want an archetype mismatch", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	r := New([]string{"brawler", "training_dummy"}, system.DefaultSettings())
	r.Record([]component.InputItem{1, 2}, 0xabc)
	good, err := r.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	edit := func(path string, v any) []byte {
		out, err := sjson.SetBytes(good, path, v)
		if err != nil {
			t.Fatal(err)
		}
		return out
	}
	drop := func(path string) []byte {
		out, err := sjson.DeleteBytes(good, path)
		if err != nil {
			t.Fatal(err)
		}
		return out
	}
	tests := []struct {
		name string
		data []byte
	}{
		{"invalid_json", []byte(`{"version":`)},
		{"version", edit("version", 2)},
		{"match_id", edit("match_id", "nope")},
		{"no_archetypes", edit("archetypes", []string{})},
		{"missing_setting", drop("settings.leniency")},
		{"short_row", edit("inputs.0", []int{1})},
		{"bad_checksum", edit("checksums.0", "zz")},
		{"checksum_count", edit("checksums.1", "00")},
	}
	if _, err := Decode(good); err != nil {
		t.Fatalf("Decode(good): %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.data); !errors.Is(err, ErrFormat) {
				t.Fatalf("Decode = %v, want ErrFormat", err)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	r := New([]string{"brawler"}, system.DefaultSettings())
	r.Record([]component.InputItem{component.FromDirection(component.DirUp, component.BtnHK)}, 42)
	path := filepath.Join(t.TempDir(), "match.json")
	if err := r.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Inputs[0][0] != r.Inputs[0][0] || got.Checksums[0] != 42 {
		t.Fatalf("loaded %+v", got)
	}
}
