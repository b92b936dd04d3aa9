// Package replay records match inputs with per-tick checksums and replays
// them to prove a match is deterministic.
package replay

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/milk9111/fightcore/common"
	"github.com/milk9111/fightcore/component"
	"github.com/milk9111/fightcore/system"
)

// Version is the replay format written by Marshal.
const Version = 1

// ErrFormat wraps every decode failure.
var ErrFormat = errors.New("replay: bad format")

// Replay is one recorded match. Inputs and Checksums hold one row per tick.
type Replay struct {
	Version    int
	MatchID    uuid.UUID
	Archetypes []string
	Settings   system.Settings
	Inputs     [][]component.InputItem
	Checksums  []uint64
}

func New(archetypes []string, settings system.Settings) *Replay {
	return &Replay{
		Version:    Version,
		MatchID:    uuid.New(),
		Archetypes: append([]string(nil), archetypes...),
		Settings:   settings,
	}
}

// Record appends one tick. inputs is copied.
func (r *Replay) Record(inputs []component.InputItem, checksum uint64) {
	r.Inputs = append(r.Inputs, append([]component.InputItem(nil), inputs...))
	r.Checksums = append(r.Checksums, checksum)
}

func (r *Replay) Len() int { return len(r.Inputs) }

type settingField struct {
	key   string
	n     *int
	fixed *common.Fixed
}

func settingFields(s *system.Settings) []settingField {
	return []settingField{
		{key: "history_size", n: &s.HistorySize},
		{key: "leniency", n: &s.Leniency},
		{key: "gravity", fixed: &s.Gravity},
		{key: "friction", fixed: &s.Friction},
		{key: "ground_y", fixed: &s.GroundY},
		{key: "stage_half_width", fixed: &s.StageHalf},
		{key: "spawn_offset", fixed: &s.SpawnOffset},
		{key: "combo_scaling", fixed: &s.ComboScaling},
		{key: "min_proration", fixed: &s.MinProration},
	}
}

// Marshal encodes the replay as JSON. Fixed-point settings are written as
// their raw Q16.16 value so decoding is exact.
func (r *Replay) Marshal() ([]byte, error) {
	inputs := make([][]int, len(r.Inputs))
	for i, row := range r.Inputs {
		inputs[i] = make([]int, len(row))
		for j, in := range row {
			inputs[i][j] = int(in)
		}
	}
	sums := make([]string, len(r.Checksums))
	for i, c := range r.Checksums {
		sums[i] = fmt.Sprintf("%016x", c)
	}
	archetypes := r.Archetypes
	if archetypes == nil {
		archetypes = []string{}
	}

	data := []byte(`{}`)
	set := func(path string, v any) error {
		var err error
		data, err = sjson.SetBytes(data, path, v)
		if err != nil {
			return fmt.Errorf("replay: marshal %s: %w", path, err)
		}
		return nil
	}
	if err := set("version", r.Version); err != nil {
		return nil, err
	}
	if err := set("match_id", r.MatchID.String()); err != nil {
		return nil, err
	}
	if err := set("archetypes", archetypes); err != nil {
		return nil, err
	}
	settings := r.Settings
	for _, f := range settingFields(&settings) {
		var v int64
		if f.n != nil {
			v = int64(*f.n)
		} else {
			v = int64(*f.fixed)
		}
		if err := set("settings."+f.key, v); err != nil {
			return nil, err
		}
	}
	if err := set("inputs", inputs); err != nil {
		return nil, err
	}
	if err := set("checksums", sums); err != nil {
		return nil, err
	}
	return data, nil
}

// Decode parses a replay written by Marshal.
func Decode(data []byte) (*Replay, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid json", ErrFormat)
	}
	root := gjson.ParseBytes(data)
	r := &Replay{Version: int(root.Get("version").Int())}
	if r.Version != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrFormat, r.Version)
	}
	id, err := uuid.Parse(root.Get("match_id").String())
	if err != nil {
		return nil, fmt.Errorf("%w: match_id: %w", ErrFormat, err)
	}
	r.MatchID = id

	for _, a := range root.Get("archetypes").Array() {
		r.Archetypes = append(r.Archetypes, a.String())
	}
	if len(r.Archetypes) == 0 {
		return nil, fmt.Errorf("%w: no archetypes", ErrFormat)
	}

	settings := root.Get("settings")
	for _, f := range settingFields(&r.Settings) {
		v := settings.Get(f.key)
		if !v.Exists() {
			return nil, fmt.Errorf("%w: missing setting %s", ErrFormat, f.key)
		}
		if f.n != nil {
			*f.n = int(v.Int())
		} else {
			*f.fixed = common.Fixed(v.Int())
		}
	}

	var rowErr error
	root.Get("inputs").ForEach(func(_, row gjson.Result) bool {
		items := row.Array()
		if len(items) != len(r.Archetypes) {
			rowErr = fmt.Errorf("%w: tick %d has %d inputs for %d actors", ErrFormat, len(r.Inputs), len(items), len(r.Archetypes))
			return false
		}
		out := make([]component.InputItem, len(items))
		for i, it := range items {
			out[i] = component.InputItem(it.Uint())
		}
		r.Inputs = append(r.Inputs, out)
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}

	for i, c := range root.Get("checksums").Array() {
		sum, err := strconv.ParseUint(c.String(), 16, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: checksum %d: %w", ErrFormat, i, err)
		}
		r.Checksums = append(r.Checksums, sum)
	}
	if len(r.Checksums) != len(r.Inputs) {
		return nil, fmt.Errorf("%w: %d checksums for %d ticks", ErrFormat, len(r.Checksums), len(r.Inputs))
	}
	return r, nil
}

// Save writes the replay to path.
func (r *Replay) Save(path string) error {
	data, err := r.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("replay: write %s: %w", path, err)
	}
	return nil
}

// Load reads a replay file.
func Load(path string) (*Replay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("replay: read %s: %w", path, err)
	}
	r, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("replay: decode %s: %w", path, err)
	}
	return r, nil
}
