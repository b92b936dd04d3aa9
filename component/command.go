package component

import (
	"fmt"
	"strings"
)

// HeldFrames is the window checked by InHeld30F fragments.
const HeldFrames = 30

// InputFragment is one required step of a command.
type InputFragment struct {
	Input InputItem
	Flags InputFlags
}

// Command is an ordered motion, e.g. down, down-forward, forward+LP.
type Command []InputFragment

// ParseCommand reads space or comma separated fragments ("2 3 6LP").
// Flags are attached separately by content loading.
func ParseCommand(s string) (Command, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' })
	out := make(Command, 0, len(fields))
	for _, f := range fields {
		frag, err := ParseFragment(f)
		if err != nil {
			return nil, fmt.Errorf("component: parse command %q: %w", s, err)
		}
		out = append(out, frag)
	}
	return out, nil
}

// Empty reports whether the command has no fragments; an empty command
// always matches.
func (c Command) Empty() bool { return len(c) == 0 }

// Check matches the command against the recorder's history using the
// recorder's leniency window.
func (c Command) Check(r *Recorder) bool {
	if len(c) == 0 {
		return true
	}
	if r == nil {
		return false
	}
	return c.CheckHistory(r.History(), r.Leniency())
}

// CheckHistory matches the command against history (oldest first). The last
// fragment may sit up to leniency samples before the newest one, and each
// earlier fragment up to leniency samples before the fragment after it.
func (c Command) CheckHistory(history []InputItem, leniency int) bool {
	if len(c) == 0 {
		return true
	}
	if len(history) < len(c) {
		return false
	}
	return c.matchFrom(history, len(c)-1, len(history)-1, -1, leniency)
}

func (c Command) matchFrom(h []InputItem, fi, limit, next, leniency int) bool {
	lo := limit - leniency
	if lo < 0 {
		lo = 0
	}
	frag := c[fi]
	for j := limit; j >= lo; j-- {
		if j < fi {
			// not enough samples left for the remaining fragments
			return false
		}
		if !frag.matchAt(h, j) {
			continue
		}
		if next >= 0 && frag.Flags.Has(InNoInterrupt, false) && interrupted(h, j, next, frag, c[fi+1]) {
			continue
		}
		if fi == 0 {
			return true
		}
		if c.matchFrom(h, fi-1, j-1, j, leniency) {
			return true
		}
	}
	return false
}

func (f InputFragment) matchAt(h []InputItem, j int) bool {
	if j < 0 || j >= len(h) {
		return false
	}
	if f.Flags.Has(InNeedPrev, false) && j == 0 {
		return false
	}
	if f.Flags.Has(InHeld30F, false) {
		if j < HeldFrames-1 {
			return false
		}
		for k := j - HeldFrames + 1; k <= j; k++ {
			if !f.holds(h[k]) {
				return false
			}
		}
		return true
	}
	s := h[j]
	if !f.directionMatches(s) {
		return false
	}
	want := f.Input.Buttons()
	if want == 0 {
		return true
	}
	held := s.Buttons()
	switch {
	case f.Flags.Has(InCheckIsUp, false):
		return !held.Has(want, false)
	case f.Flags.Has(InReleased, false):
		prev := h[j-1].Buttons()
		return !held.Has(want, false) && prev.Has(want, false)
	case f.Flags.Has(InBtnSimulPress, false):
		prev := h[j-1].Buttons()
		return held.Has(want, true) && !prev.Has(want, false)
	case f.Flags.Has(InPressed, false):
		prev := h[j-1].Buttons()
		return held.Has(want, true) && held.Pressed(prev).Has(want, false)
	}
	return held.Has(want, true)
}

// holds is the static part of a fragment: direction plus buttons down.
func (f InputFragment) holds(s InputItem) bool {
	want := f.Input.Buttons()
	return f.directionMatches(s) && s.Buttons().Has(want, true)
}

func (f InputFragment) directionMatches(s InputItem) bool {
	if f.Flags.Has(InAnyIsOkay, false) {
		return true
	}
	want := f.Input.directionBits()
	got := s.directionBits()
	if !f.Flags.Has(InDirAs4Way, false) {
		return got == want
	}
	if want == 0 {
		return got == 0
	}
	if want&inHorizontalMask != 0 && got&inHorizontalMask != want&inHorizontalMask {
		return false
	}
	if want&inVerticalMask != 0 && got&inVerticalMask != want&inVerticalMask {
		return false
	}
	return true
}

// interrupted reports whether any sample strictly between from and to breaks
// a no-interrupt fragment: a direction matching neither neighbour or a fresh
// button press.
func interrupted(h []InputItem, from, to int, cur, next InputFragment) bool {
	for k := from + 1; k < to; k++ {
		s := h[k]
		if !cur.directionMatches(s) && !next.directionMatches(s) {
			return true
		}
		if s.Buttons().Pressed(h[k-1].Buttons()) != 0 {
			return true
		}
	}
	return false
}

// Span is the number of samples a full match can cover in the worst case.
func (c Command) Span(leniency int) int {
	n := len(c) * (leniency + 1)
	for _, f := range c {
		if f.Flags.Has(InHeld30F, false) {
			n += HeldFrames
		}
	}
	return n
}

func (c Command) String() string {
	parts := make([]string, len(c))
	for i, f := range c {
		parts[i] = f.Input.String()
		if f.Flags != 0 {
			parts[i] += "[" + f.Flags.String() + "]"
		}
	}
	return strings.Join(parts, " ")
}
