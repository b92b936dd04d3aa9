package component

import (
	"fmt"
	"strings"

	"github.com/milk9111/fightcore/common"
)

// InputItem is one packed input sample. Directions are stored relative to
// the actor's facing: bit0/1 hold the horizontal magnitude and sign
// (sign set = back), bit2/3 the vertical magnitude and sign (sign set =
// down), and the button bits start at bit 4.
type InputItem uint16

const (
	inHorizontal InputItem = 1 << 0
	inBack       InputItem = 1 << 1
	inVertical   InputItem = 1 << 2
	inDown       InputItem = 1 << 3

	inHorizontalMask = inHorizontal | inBack
	inVerticalMask   = inVertical | inDown
	inDirectionMask  = inHorizontalMask | inVerticalMask

	buttonShift = 4
)

// Button is a mask of attack buttons.
type Button uint8

const (
	BtnLP Button = 1 << iota
	BtnMP
	BtnHP
	BtnLK
	BtnMK
	BtnHK

	BtnPunches = BtnLP | BtnMP | BtnHP
	BtnKicks   = BtnLK | BtnMK | BtnHK
	BtnAll     = BtnPunches | BtnKicks
)

var buttonNames = []struct {
	name string
	btn  Button
}{
	{"LP", BtnLP}, {"MP", BtnMP}, {"HP", BtnHP},
	{"LK", BtnLK}, {"MK", BtnMK}, {"HK", BtnHK},
}

// Direction is numpad notation: 5 is neutral, 6 forward, 2 down, and so on.
type Direction int

const (
	DirDownBack Direction = iota + 1
	DirDown
	DirDownForward
	DirBack
	DirNeutral
	DirForward
	DirUpBack
	DirUp
	DirUpForward
)

// NewInputItem packs facing-relative axes (x: -1 back, 1 forward; y: -1 down,
// 1 up) and a button mask. Axis values are clamped to their sign.
func NewInputItem(x, y int, buttons Button) InputItem {
	var out InputItem
	switch {
	case x > 0:
		out |= inHorizontal
	case x < 0:
		out |= inHorizontal | inBack
	}
	switch {
	case y > 0:
		out |= inVertical
	case y < 0:
		out |= inVertical | inDown
	}
	return out | InputItem(buttons&BtnAll)<<buttonShift
}

// FromDirection packs a numpad direction and buttons.
func FromDirection(d Direction, buttons Button) InputItem {
	x, y := d.Axes()
	return NewInputItem(x, y, buttons)
}

// FromAbsolute converts device-space directions into a facing-relative
// sample. Opposing horizontals cancel to neutral; up wins over down.
func FromAbsolute(left, right, up, down bool, buttons Button, facingRight bool) InputItem {
	x, y := 0, 0
	if left != right {
		if right {
			x = 1
		} else {
			x = -1
		}
		if !facingRight {
			x = -x
		}
	}
	if up {
		y = 1
	} else if down {
		y = -1
	}
	return NewInputItem(x, y, buttons)
}

// Axes returns the facing-relative horizontal and vertical signs.
func (i InputItem) Axes() (x, y int) {
	if i&inHorizontal != 0 {
		x = 1
		if i&inBack != 0 {
			x = -1
		}
	}
	if i&inVertical != 0 {
		y = 1
		if i&inDown != 0 {
			y = -1
		}
	}
	return x, y
}

func (i InputItem) Buttons() Button {
	return Button(i>>buttonShift) & BtnAll
}

func (i InputItem) Direction() Direction {
	x, y := i.Axes()
	return Direction(5 + x + 3*y)
}

func (i InputItem) directionBits() InputItem {
	return i & inDirectionMask
}

// WithButtons returns a copy of i with the button bits replaced.
func (i InputItem) WithButtons(b Button) InputItem {
	return i.directionBits() | InputItem(b&BtnAll)<<buttonShift
}

func (i InputItem) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d", i.Direction())
	if b := i.Buttons(); b != 0 {
		sb.WriteString(b.String())
	}
	return sb.String()
}

// Axes converts numpad notation to axis signs.
func (d Direction) Axes() (x, y int) {
	if d < DirDownBack || d > DirUpForward {
		return 0, 0
	}
	n := int(d) - 1
	return n%3 - 1, n/3 - 1
}

// Has tests mask against b. Strict requires every button of mask to be down.
func (b Button) Has(mask Button, strict bool) bool {
	return common.HasFlag(b, mask, strict)
}

// Pressed returns the buttons down in b that were up in prev.
func (b Button) Pressed(prev Button) Button {
	return b &^ prev
}

func (b Button) String() string {
	var parts []string
	for _, n := range buttonNames {
		if b.Has(n.btn, false) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "+")
}

// ParseButtons reads "LP", "LP+MP" or "LPMP".
func ParseButtons(s string) (Button, error) {
	var out Button
	s = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "+", ""))
	for len(s) > 0 {
		if len(s) < 2 {
			return 0, fmt.Errorf("component: bad button %q", s)
		}
		found := false
		for _, n := range buttonNames {
			if s[:2] == n.name {
				out |= n.btn
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("component: unknown button %q", s[:2])
		}
		s = s[2:]
	}
	return out, nil
}

// ParseFragment reads one fragment in content notation: an optional numpad
// digit or "*" followed by optional buttons, e.g. "6", "2MK", "*LP", "LP+LK".
// A fragment without a direction accepts any direction.
func ParseFragment(s string) (InputFragment, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return InputFragment{}, fmt.Errorf("component: empty input fragment")
	}
	var frag InputFragment
	dir := DirNeutral
	switch c := s[0]; {
	case c == '*':
		frag.Flags |= InAnyIsOkay
		s = s[1:]
	case c >= '1' && c <= '9':
		dir = Direction(c - '0')
		s = s[1:]
	default:
		frag.Flags |= InAnyIsOkay
	}
	buttons, err := ParseButtons(s)
	if err != nil {
		return InputFragment{}, err
	}
	frag.Input = FromDirection(dir, buttons)
	return frag, nil
}
