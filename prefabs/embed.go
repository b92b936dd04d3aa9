package prefabs

import (
	"embed"
	"path"
	"path/filepath"
	"strings"
)

// ContentFS holds the built-in archetypes.
//
//go:embed *.yaml
var ContentFS embed.FS

// ScriptsFS holds the built-in transition guard scripts.
//
//go:embed scripts/*.tengo
var ScriptsFS embed.FS

const (
	specExt   = ".yaml"
	scriptExt = ".tengo"
	scriptDir = "scripts"
)

// specName turns "brawler", "brawler.yaml" or "prefabs/brawler.yaml" into
// the file name inside a content directory.
func specName(name string) string {
	if name == "" {
		return ""
	}
	s := filepath.ToSlash(name)
	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		s = after
	}
	if !isSpecFile(s) {
		s += specExt
	}
	return s
}

// archetypeName is the inverse of specName.
func archetypeName(file string) string {
	base := path.Base(filepath.ToSlash(file))
	return strings.TrimSuffix(base, path.Ext(base))
}

func scriptName(name string) string {
	if name == "" {
		return ""
	}
	s := filepath.ToSlash(name)
	if after, ok := strings.CutPrefix(s, "prefabs/scripts/"); ok {
		s = after
	}
	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		s = after
	}
	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}
	if !isScriptFile(s) {
		s += scriptExt
	}
	return s
}

func isSpecFile(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

func isScriptFile(p string) bool {
	return strings.ToLower(path.Ext(p)) == scriptExt
}
