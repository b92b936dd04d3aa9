package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"
	"golang.design/x/clipboard"

	"github.com/milk9111/fightcore/component"
	"github.com/milk9111/fightcore/config"
	"github.com/milk9111/fightcore/obj"
	"github.com/milk9111/fightcore/replay"
	"github.com/milk9111/fightcore/system"
)

const (
	baseWidth  = 1280
	baseHeight = 720
	groundLine = 600

	// messageTicks is how long a status line stays on screen.
	messageTicks = 120
)

var (
	hurtColor   = color.RGBA{0x40, 0xd0, 0x60, 0xff}
	hitColor    = color.RGBA{0xe0, 0x40, 0x40, 0xff}
	groundColor = color.RGBA{0x80, 0x80, 0x80, 0xff}
)

type Game struct {
	cfg        config.Settings
	log        *zap.Logger
	debug      bool
	replayPath string

	archetypes []*component.Archetype
	collide    *obj.CollisionWorld
	session    *replay.Session
	cues       []component.AnimationCue
	pads       []ebiten.GamepadID

	clipboard  bool
	message    string
	messageTTL int
}

func NewGame(archetypes []*component.Archetype, cfg config.Settings, replayPath string, debug bool, log *zap.Logger) (*Game, error) {
	g := &Game{
		cfg:        cfg,
		log:        log,
		debug:      debug,
		replayPath: replayPath,
		archetypes: archetypes,
		collide:    obj.NewCollisionWorld(),
	}
	if err := clipboard.Init(); err != nil {
		log.Warn("clipboard unavailable", zap.Error(err))
	} else {
		g.clipboard = true
	}
	if err := g.reset(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) reset() error {
	s, err := replay.NewSession(g.archetypes, g.cfg.Match(), g.collide.Overlaps, g.log,
		system.WithCombatHandler(g.onCombat))
	if err != nil {
		return err
	}
	for _, a := range s.Match.Actors() {
		a.OnKO = g.onKO
	}
	g.session = s
	g.cues = nil
	return nil
}

func (g *Game) onKO(s *component.CharacterStatus, evt component.CombatEvent) {
	g.log.Info("ko", zap.Int("actor", s.ID), zap.String("archetype", s.Archetype.Name), zap.Int("frame", evt.Frame))
	g.say("P%d KO", s.ID+1)
}

func (g *Game) onCombat(evt component.CombatEvent) {
	g.log.Debug("combat",
		zap.String("type", string(evt.Type)),
		zap.Int("frame", evt.Frame),
		zap.Int("attacker", evt.AttackerID),
		zap.Int("target", evt.TargetID),
		zap.String("hitbox", evt.HitboxID),
		zap.Int("damage", evt.Damage),
		zap.Stringer("indicator", evt.Indicator),
	)
}

func (g *Game) say(format string, args ...any) {
	g.message = fmt.Sprintf(format, args...)
	g.messageTTL = messageTicks
}

func (g *Game) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyF12):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeyF1):
		if err := g.reset(); err != nil {
			return err
		}
		g.say("match reset")
	case inpututil.IsKeyJustPressed(ebiten.KeyF5):
		g.copyReplay()
	case inpututil.IsKeyJustPressed(ebiten.KeyF6):
		g.saveReplay()
	}
	if g.messageTTL > 0 {
		g.messageTTL--
	}

	g.pads = ebiten.AppendGamepadIDs(g.pads[:0])
	actors := g.session.Match.Actors()
	inputs := make([]component.InputItem, len(actors))
	for i, a := range actors {
		inputs[i] = controls(i, g.pads).Sample(a.FacingRight)
	}
	cues, err := g.session.Step(inputs)
	if err != nil {
		return err
	}
	g.cues = cues
	for _, c := range cues {
		if c.Fresh {
			g.log.Debug("cue", zap.Stringer("cue", c))
		}
	}
	return nil
}

func (g *Game) copyReplay() {
	if !g.clipboard {
		g.say("clipboard unavailable")
		return
	}
	data, err := g.session.Replay.Marshal()
	if err != nil {
		g.log.Error("marshal replay", zap.Error(err))
		g.say("replay copy failed")
		return
	}
	clipboard.Write(clipboard.FmtText, data)
	g.say("replay copied (%d ticks)", g.session.Replay.Len())
}

func (g *Game) saveReplay() {
	if err := g.session.Replay.Save(g.replayPath); err != nil {
		g.log.Error("save replay", zap.Error(err))
		g.say("replay save failed")
		return
	}
	g.log.Info("replay saved",
		zap.String("path", g.replayPath),
		zap.Stringer("match_id", g.session.Replay.MatchID),
		zap.Int("ticks", g.session.Replay.Len()),
	)
	g.say("replay saved to %s", g.replayPath)
}

func (g *Game) Draw(screen *ebiten.Image) {
	vector.StrokeLine(screen, 0, groundLine, baseWidth, groundLine, 1, groundColor, false)
	if g.debug {
		for _, bb := range g.collide.HurtBBs() {
			strokeBB(screen, bb, hurtColor)
		}
		for _, bb := range g.collide.HitBBs() {
			strokeBB(screen, bb, hitColor)
		}
	}
	ebitenutil.DebugPrint(screen, g.hud())
}

// strokeBB draws a world-space box. World y grows upward from the ground.
func strokeBB(screen *ebiten.Image, bb cp.BB, clr color.Color) {
	x := float32(baseWidth/2 + bb.L)
	y := float32(groundLine - bb.T)
	vector.StrokeRect(screen, x, y, float32(bb.R-bb.L), float32(bb.T-bb.B), 1, clr, false)
}

func (g *Game) hud() string {
	var b strings.Builder
	m := g.session.Match
	fmt.Fprintf(&b, "Frame: %d    FPS: %.2f    TPS: %.2f\n", m.Frame(), ebiten.ActualFPS(), ebiten.ActualTPS())
	for i, a := range m.Actors() {
		elapsed := 0
		if i < len(g.cues) {
			elapsed = g.cues[i].Elapsed
		}
		fmt.Fprintf(&b, "P%d %-14s %-14s f%-3d hp %4d/%-4d meter %3d combo %d  %s\n",
			i+1, a.Archetype.Name, a.State.Name, elapsed,
			a.HP, a.Archetype.MaxHP, a.Meter, a.Combo, a.Recorder.Newest(0))
	}
	if g.debug {
		fmt.Fprintf(&b, "overlaps: %d    checksum: %016x\n", len(g.collide.Last()), m.Checksum())
	}
	if g.messageTTL > 0 {
		b.WriteString(g.message)
		b.WriteByte('\n')
	}
	b.WriteString("F1 reset  F5 copy replay  F6 save replay  F12 quit")
	return b.String()
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
