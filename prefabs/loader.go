package prefabs

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"

	"go.uber.org/zap"

	"github.com/milk9111/fightcore/component"
)

// Loader reads archetype specs and guard scripts from a content directory,
// falling back to the embedded copies for anything the directory lacks.
type Loader struct {
	dir string
	log *zap.Logger
}

type LoaderOption func(*Loader)

// WithDir sets the content directory. Empty means embedded content only.
func WithDir(dir string) LoaderOption {
	return func(l *Loader) { l.dir = dir }
}

func WithLogger(log *zap.Logger) LoaderOption {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{log: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Dir returns the content directory, possibly empty.
func (l *Loader) Dir() string { return l.dir }

func (l *Loader) read(rel string, embedded embed.FS) ([]byte, error) {
	if l.dir != "" {
		data, err := os.ReadFile(filepath.Join(l.dir, filepath.FromSlash(rel)))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return embedded.ReadFile(rel)
}

// Spec reads and decodes one archetype spec.
func (l *Loader) Spec(name string) (ArchetypeSpec, error) {
	file := specName(name)
	data, err := l.read(file, ContentFS)
	if err != nil {
		return ArchetypeSpec{}, fmt.Errorf("prefabs: load %s: %w", file, err)
	}
	return DecodeSpec[ArchetypeSpec](file, data)
}

// Script returns a guard script's source.
func (l *Loader) Script(name string) ([]byte, error) {
	return l.read(path.Join(scriptDir, scriptName(name)), ScriptsFS)
}

// Archetype loads, validates and builds one archetype.
func (l *Loader) Archetype(name string) (*component.Archetype, error) {
	spec, err := l.Spec(name)
	if err != nil {
		return nil, err
	}
	arch, err := Build(spec, l.Script, l.log)
	if err != nil {
		return nil, fmt.Errorf("prefabs: build %s: %w", specName(name), err)
	}
	l.log.Info("archetype loaded",
		zap.String("archetype", arch.Name),
		zap.Int("states", arch.Table.Len()),
		zap.String("dir", l.dir),
	)
	return arch, nil
}

// Archetypes loads each name in order. Every failure is reported.
func (l *Loader) Archetypes(names ...string) ([]*component.Archetype, error) {
	out := make([]*component.Archetype, 0, len(names))
	var errs []error
	for _, n := range names {
		arch, err := l.Archetype(n)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, arch)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return out, nil
}

// Names lists every archetype available from the directory and the
// embedded content, sorted.
func (l *Loader) Names() ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	add := func(entries []fs.DirEntry) {
		for _, e := range entries {
			if e.IsDir() || !isSpecFile(e.Name()) {
				continue
			}
			n := archetypeName(e.Name())
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	if l.dir != "" {
		entries, err := os.ReadDir(l.dir)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("prefabs: list %s: %w", l.dir, err)
		}
		add(entries)
	}
	entries, err := ContentFS.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("prefabs: list embedded content: %w", err)
	}
	add(entries)
	slices.Sort(out)
	return out, nil
}
