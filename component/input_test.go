package component

import "testing"

func TestInputItemRoundTrip(t *testing.T) {
	for d := DirDownBack; d <= DirUpForward; d++ {
		for b := Button(0); b <= BtnAll; b++ {
			item := FromDirection(d, b)
			if item.Direction() != d || item.Buttons() != b {
				t.Fatalf("%d+%s decoded as %d+%s", d, b, item.Direction(), item.Buttons())
			}
			x, y := item.Axes()
			wx, wy := d.Axes()
			if x != wx || y != wy {
				t.Fatalf("%d: axes %d,%d want %d,%d", d, x, y, wx, wy)
			}
		}
	}
}

func TestInputItemBitLayout(t *testing.T) {
	cases := []struct {
		name string
		item InputItem
		want InputItem
	}{
		{"neutral", FromDirection(DirNeutral, 0), 0},
		{"forward", FromDirection(DirForward, 0), 0b0001},
		{"back", FromDirection(DirBack, 0), 0b0011},
		{"up", FromDirection(DirUp, 0), 0b0100},
		{"down_back", FromDirection(DirDownBack, 0), 0b1111},
		{"lp", FromDirection(DirNeutral, BtnLP), 1 << 4},
		{"hk", FromDirection(DirNeutral, BtnHK), 1 << 9},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if c.item != c.want {
				t.Fatalf("expected %#b, got %#b", c.want, c.item)
			}
		})
	}
}

func TestButtonHas(t *testing.T) {
	cases := []struct {
		name   string
		held   Button
		mask   Button
		strict bool
		want   bool
	}{
		{"one_of_pair_loose", BtnLP, BtnLP | BtnLK, false, true},
		{"one_of_pair_strict", BtnLP, BtnLP | BtnLK, true, false},
		{"pair_strict", BtnLP | BtnLK | BtnHP, BtnLP | BtnLK, true, true},
		{"none_loose", BtnMP, BtnKicks, false, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.held.Has(c.mask, c.strict); got != c.want {
				t.Fatalf("%s.Has(%s, %v): expected %v, got %v", c.held, c.mask, c.strict, c.want, got)
			}
		})
	}
	if got := (BtnLP | BtnMP).Pressed(BtnLP); got != BtnMP {
		t.Fatalf("expected only MP newly pressed, got %s", got)
	}
}

func TestFromAbsolute(t *testing.T) {
	cases := []struct {
		name                  string
		left, right, up, down bool
		facingRight           bool
		want                  Direction
	}{
		{"right_facing_right", false, true, false, false, true, DirForward},
		{"right_facing_left", false, true, false, false, false, DirBack},
		{"left_facing_left", true, false, false, false, false, DirForward},
		{"socd_neutral", true, true, false, false, true, DirNeutral},
		{"up_wins", false, false, true, true, true, DirUp},
		{"down_left_facing_right", true, false, false, true, true, DirDownBack},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := FromAbsolute(c.left, c.right, c.up, c.down, BtnMP, c.facingRight)
			if got.Direction() != c.want || got.Buttons() != BtnMP {
				t.Fatalf("expected %d+MP, got %s", c.want, got)
			}
		})
	}
}

func TestParseFragment(t *testing.T) {
	cases := []struct {
		in      string
		dir     Direction
		buttons Button
		any     bool
		wantErr bool
	}{
		{in: "6", dir: DirForward},
		{in: "2MK", dir: DirDown, buttons: BtnMK},
		{in: "*LP", dir: DirNeutral, buttons: BtnLP, any: true},
		{in: "LP+LK", dir: DirNeutral, buttons: BtnLP | BtnLK, any: true},
		{in: "6XX", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			f, err := ParseFragment(c.in)
			if c.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFragment: %v", err)
			}
			if f.Input.Direction() != c.dir || f.Input.Buttons() != c.buttons || f.Flags.Has(InAnyIsOkay, false) != c.any {
				t.Fatalf("got %s flags %s", f.Input, f.Flags)
			}
		})
	}
}

func TestRecorderRing(t *testing.T) {
	r := NewRecorder(4, 2)
	if !r.Append(FromDirection(DirDown, 0)) {
		t.Fatalf("first sample should count as a change")
	}
	if r.Append(FromDirection(DirDown, 0)) {
		t.Fatalf("repeated sample should not count as a change")
	}
	for _, d := range []Direction{DirDownForward, DirForward, DirUp} {
		r.Append(FromDirection(d, 0))
	}
	if r.Len() != 4 || r.Cap() != 4 || r.Leniency() != 2 {
		t.Fatalf("unexpected len/cap/leniency %d/%d/%d", r.Len(), r.Cap(), r.Leniency())
	}
	want := []Direction{DirDown, DirDownForward, DirForward, DirUp}
	for i, s := range r.History() {
		if s.Direction() != want[i] {
			t.Fatalf("history[%d] = %d, want %d", i, s.Direction(), want[i])
		}
	}
	if r.Newest(0).Direction() != DirUp || r.Newest(4) != 0 {
		t.Fatalf("unexpected Newest results")
	}
	r.Reset()
	if r.Len() != 0 || r.History() != nil {
		t.Fatalf("expected empty recorder after reset")
	}
}
