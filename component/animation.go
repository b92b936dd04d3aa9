package component

import "fmt"

// AnimationCue is the per-tick record handed to whatever plays animations.
// The simulation never drives playback itself.
type AnimationCue struct {
	Actor   int
	State   string
	Fresh   bool
	Elapsed int
}

func (c AnimationCue) String() string {
	fresh := ""
	if c.Fresh {
		fresh = " (enter)"
	}
	return fmt.Sprintf("p%d %s +%d%s", c.Actor+1, c.State, c.Elapsed, fresh)
}
