package component

import "testing"

func hist(items ...InputItem) []InputItem { return items }

func d(dir Direction) InputItem { return FromDirection(dir, 0) }

func db(dir Direction, b Button) InputItem { return FromDirection(dir, b) }

func mustParse(t *testing.T, s string) Command {
	t.Helper()
	c, err := ParseCommand(s)
	if err != nil {
		t.Fatalf("ParseCommand(%q): %v", s, err)
	}
	return c
}

func withFlags(c Command, i int, f InputFlags) Command {
	out := append(Command(nil), c...)
	out[i].Flags |= f
	return out
}

func TestCommandCheckHistory(t *testing.T) {
	heldBack := make([]InputItem, 0, 31)
	for i := 0; i < 30; i++ {
		heldBack = append(heldBack, d(DirBack))
	}
	shortCharge := append([]InputItem{d(DirNeutral)}, heldBack[1:]...)

	cases := []struct {
		name    string
		cmd     Command
		history []InputItem
		want    bool
	}{
		{"dash_punch", mustParse(t, "6 6LP"), hist(d(5), d(6), d(6), db(6, BtnLP)), true},
		{"gap_exceeds_leniency", mustParse(t, "6 6LP"), hist(d(6), d(5), d(5), d(5), d(5), db(6, BtnLP)), false},
		{"gap_at_leniency", mustParse(t, "6 6LP"), hist(d(6), d(5), d(5), d(5), db(6, BtnLP)), true},
		{"qcf", mustParse(t, "2 3 6LP"), hist(d(2), d(3), db(6, BtnLP)), true},
		{"qcf_wrong_order", mustParse(t, "2 3 6LP"), hist(d(3), d(2), db(6, BtnLP)), false},
		{"last_fragment_stale", mustParse(t, "6LP"), hist(db(6, BtnLP), d(5), d(5), d(5), d(5)), false},
		{"last_fragment_within_window", mustParse(t, "6LP"), hist(db(6, BtnLP), d(5), d(5), d(5)), true},
		{"any_direction", mustParse(t, "*LP"), hist(db(3, BtnLP)), true},
		{"too_short", mustParse(t, "2 3 6LP"), hist(db(6, BtnLP)), false},
		{"pressed_edge", withFlags(mustParse(t, "LP"), 0, InPressed), hist(d(5), db(5, BtnLP)), true},
		{"pressed_held", withFlags(mustParse(t, "LP"), 0, InPressed), hist(db(5, BtnLP), db(5, BtnLP)), false},
		{"released", withFlags(mustParse(t, "LP"), 0, InReleased), hist(db(5, BtnLP), d(5)), true},
		{"need_prev_at_oldest", withFlags(mustParse(t, "LP"), 0, InPressed), hist(db(5, BtnLP)), false},
		{"simul_press", withFlags(mustParse(t, "LP+LK"), 0, InBtnSimulPress), hist(d(5), db(5, BtnLP|BtnLK)), true},
		{"simul_staggered", withFlags(mustParse(t, "LP+LK"), 0, InBtnSimulPress), hist(d(5), db(5, BtnLP), db(5, BtnLP|BtnLK)), false},
		{"check_is_up", withFlags(mustParse(t, "LP"), 0, InCheckIsUp), hist(d(5)), true},
		{"check_is_up_held", withFlags(mustParse(t, "LP"), 0, InCheckIsUp), hist(db(5, BtnLP)), false},
		{"check_is_up_partial", withFlags(mustParse(t, "LP+LK"), 0, InCheckIsUp), hist(db(5, BtnLK)), false},
		{"pair_needs_both", mustParse(t, "LP+LK"), hist(db(5, BtnLP)), false},
		{"pair_with_extra", mustParse(t, "LP+LK"), hist(db(5, BtnLP|BtnLK|BtnHP)), true},
		{"released_one_of_pair", withFlags(mustParse(t, "LP+LK"), 0, InReleased), hist(db(5, BtnLP|BtnLK), db(5, BtnLK)), false},
		{"pressed_second_of_pair", withFlags(mustParse(t, "LP+LK"), 0, InPressed), hist(db(5, BtnLP), db(5, BtnLP|BtnLK)), true},
		{"four_way", withFlags(mustParse(t, "2"), 0, InDirAs4Way), hist(d(3)), true},
		{"eight_way_exact", mustParse(t, "2"), hist(d(3)), false},
		{"no_interrupt_broken", withFlags(mustParse(t, "6 6LP"), 0, InNoInterrupt), hist(d(5), d(6), d(8), db(6, BtnLP)), false},
		{"no_interrupt_clean", withFlags(mustParse(t, "6 6LP"), 0, InNoInterrupt), hist(d(5), d(6), d(6), db(6, BtnLP)), true},
		{"interrupt_allowed", mustParse(t, "6 6LP"), hist(d(5), d(6), d(8), db(6, BtnLP)), true},
		{"charge", withFlags(mustParse(t, "4 6LP"), 0, InHeld30F), append(append([]InputItem(nil), heldBack...), db(6, BtnLP)), true},
		{"charge_short", withFlags(mustParse(t, "4 6LP"), 0, InHeld30F), append(shortCharge, db(6, BtnLP)), false},
		{"empty", nil, nil, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.cmd.CheckHistory(c.history, DefaultLeniency); got != c.want {
				t.Fatalf("%s against %v: expected %v, got %v", c.cmd, c.history, c.want, got)
			}
		})
	}
}

func TestCommandSpan(t *testing.T) {
	cases := []struct {
		name string
		cmd  Command
		want int
	}{
		{"empty", nil, 0},
		{"dash_punch", mustParse(t, "6 6LP"), 8},
		{"qcf", mustParse(t, "2 3 6LP"), 12},
		{"charge", withFlags(mustParse(t, "4 6LP"), 0, InHeld30F), 8 + HeldFrames},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.cmd.Span(3); got != c.want {
				t.Fatalf("%s: expected span %d, got %d", c.cmd, c.want, got)
			}
		})
	}
}

func TestCommandCheckRecorder(t *testing.T) {
	r := NewRecorder(DefaultHistorySize, DefaultLeniency)
	cmd := mustParse(t, "2 3 6HP")
	for _, in := range []InputItem{d(5), d(2), d(3), db(6, BtnHP)} {
		r.Append(in)
	}
	if !cmd.Check(r) {
		t.Fatalf("expected motion to match recorder")
	}
	if cmd.Check(nil) {
		t.Fatalf("nil recorder should never match a motion")
	}
}

func TestParseCommandErrors(t *testing.T) {
	if _, err := ParseCommand("2 3 6ZZ"); err == nil {
		t.Fatalf("expected parse error")
	}
	c := mustParse(t, "2, 3, 6LP")
	if len(c) != 3 || c.String() != "2 3 6LP" {
		t.Fatalf("unexpected command %q (%d fragments)", c.String(), len(c))
	}
}
