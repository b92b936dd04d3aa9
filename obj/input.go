package obj

import "github.com/milk9111/fightcore/component"

// stickDeadZone is the analog magnitude below which a stick axis reads as
// neutral.
const stickDeadZone = 0.3

// Controls is one player's device state for a tick, in screen directions.
type Controls struct {
	Left    bool
	Right   bool
	Up      bool
	Down    bool
	Buttons component.Button
}

// Merge combines two devices driving the same player.
func (c Controls) Merge(o Controls) Controls {
	return Controls{
		Left:    c.Left || o.Left,
		Right:   c.Right || o.Right,
		Up:      c.Up || o.Up,
		Down:    c.Down || o.Down,
		Buttons: c.Buttons | o.Buttons,
	}
}

// Stick folds an analog stick into the directions. y grows downward, as
// gamepads report it.
func (c Controls) Stick(x, y float64) Controls {
	if x < -stickDeadZone {
		c.Left = true
	} else if x > stickDeadZone {
		c.Right = true
	}
	if y < -stickDeadZone {
		c.Up = true
	} else if y > stickDeadZone {
		c.Down = true
	}
	return c
}

// Sample packs the controls into a facing-relative input item.
func (c Controls) Sample(facingRight bool) component.InputItem {
	return component.FromAbsolute(c.Left, c.Right, c.Up, c.Down, c.Buttons, facingRight)
}
