package main

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/fightcore/component"
	"github.com/milk9111/fightcore/obj"
)

type keyLayout struct {
	left, right, up, down []ebiten.Key
	buttons               [6]ebiten.Key // LP MP HP LK MK HK
}

var keyboard = keyLayout{
	left:    []ebiten.Key{ebiten.KeyA, ebiten.KeyArrowLeft},
	right:   []ebiten.Key{ebiten.KeyD, ebiten.KeyArrowRight},
	up:      []ebiten.Key{ebiten.KeyW, ebiten.KeyArrowUp},
	down:    []ebiten.Key{ebiten.KeyS, ebiten.KeyArrowDown},
	buttons: [6]ebiten.Key{ebiten.KeyU, ebiten.KeyI, ebiten.KeyO, ebiten.KeyJ, ebiten.KeyK, ebiten.KeyL},
}

var buttonOrder = [6]component.Button{
	component.BtnLP, component.BtnMP, component.BtnHP,
	component.BtnLK, component.BtnMK, component.BtnHK,
}

// Standard layout: face buttons for light/medium, right bumper and trigger
// for heavy.
var padButtons = [6]ebiten.StandardGamepadButton{
	ebiten.StandardGamepadButtonRightLeft,
	ebiten.StandardGamepadButtonRightTop,
	ebiten.StandardGamepadButtonFrontTopRight,
	ebiten.StandardGamepadButtonRightBottom,
	ebiten.StandardGamepadButtonRightRight,
	ebiten.StandardGamepadButtonFrontBottomRight,
}

func anyPressed(keys []ebiten.Key) bool {
	for _, k := range keys {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

func pollKeyboard(l keyLayout) obj.Controls {
	c := obj.Controls{
		Left:  anyPressed(l.left),
		Right: anyPressed(l.right),
		Up:    anyPressed(l.up),
		Down:  anyPressed(l.down),
	}
	for i, k := range l.buttons {
		if ebiten.IsKeyPressed(k) {
			c.Buttons |= buttonOrder[i]
		}
	}
	return c
}

func pollGamepad(id ebiten.GamepadID) obj.Controls {
	if !ebiten.IsStandardGamepadLayoutAvailable(id) {
		return obj.Controls{}
	}
	c := obj.Controls{
		Left:  ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftLeft),
		Right: ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftRight),
		Up:    ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftTop),
		Down:  ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftBottom),
	}
	for i, b := range padButtons {
		if ebiten.IsStandardGamepadButtonPressed(id, b) {
			c.Buttons |= buttonOrder[i]
		}
	}
	return c.Stick(
		ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal),
		ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical),
	)
}

// controls returns player i's devices: player one has the keyboard and the
// first gamepad, later players one gamepad each.
func controls(i int, pads []ebiten.GamepadID) obj.Controls {
	var c obj.Controls
	if i == 0 {
		c = pollKeyboard(keyboard)
	}
	if i < len(pads) {
		c = c.Merge(pollGamepad(pads[i]))
	}
	return c
}
