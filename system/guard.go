package system

import (
	"fmt"
	"sync"

	"github.com/d5/tengo/v2"
	"go.uber.org/zap"

	"github.com/milk9111/fightcore/component"
)

// guardVars are the integer globals a guard script can read. The script
// decides by assigning allow.
var guardVars = []string{"hp", "max_hp", "frame", "combo", "meter", "state"}

// maxGuardAllocs bounds a single guard run.
const maxGuardAllocs = 4096

// ScriptGuard is a transition guard backed by a compiled tengo script.
// Scripts get no stdlib imports, so they cannot reach clocks or randomness.
type ScriptGuard struct {
	name string
	log  *zap.Logger

	mu       sync.Mutex
	compiled *tengo.Compiled
}

// CompileGuard compiles src. Compile errors are content errors.
func CompileGuard(name string, src []byte, log *zap.Logger) (*ScriptGuard, error) {
	if log == nil {
		log = zap.NewNop()
	}
	script := tengo.NewScript(src)
	script.SetMaxAllocs(maxGuardAllocs)
	for _, v := range guardVars {
		if err := script.Add(v, 0); err != nil {
			return nil, fmt.Errorf("system: guard %s: %w", name, err)
		}
	}
	if err := script.Add("allow", false); err != nil {
		return nil, fmt.Errorf("system: guard %s: %w", name, err)
	}
	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("system: compile guard %s: %w", name, err)
	}
	return &ScriptGuard{name: name, log: log, compiled: compiled}, nil
}

func (g *ScriptGuard) Name() string { return g.name }

// Allow runs the script against ctx. Runtime errors deny the transition.
func (g *ScriptGuard) Allow(ctx component.GuardContext) bool {
	if g == nil || g.compiled == nil {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	vals := map[string]int{
		"hp":     ctx.HP,
		"max_hp": ctx.MaxHP,
		"frame":  ctx.Frame,
		"combo":  ctx.Combo,
		"meter":  ctx.Meter,
		"state":  ctx.State,
	}
	for _, v := range guardVars {
		if err := g.compiled.Set(v, vals[v]); err != nil {
			g.log.Debug("guard set failed", zap.String("guard", g.name), zap.String("var", v), zap.Error(err))
			return false
		}
	}
	if err := g.compiled.Set("allow", false); err != nil {
		return false
	}
	if err := g.compiled.Run(); err != nil {
		g.log.Debug("guard run failed", zap.String("guard", g.name), zap.Error(err))
		return false
	}
	return g.compiled.Get("allow").Bool()
}
