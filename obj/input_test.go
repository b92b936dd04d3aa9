package obj

import (
	"testing"

	"github.com/milk9111/fightcore/component"
)

func TestControlsSample(t *testing.T) {
	tests := []struct {
		name   string
		c      Controls
		facing bool
		want   component.Direction
	}{
		{"neutral", Controls{}, true, component.DirNeutral},
		{"right_facing_right", Controls{Right: true}, true, component.DirForward},
		{"right_facing_left", Controls{Right: true}, false, component.DirBack},
		{"left_right_cancel", Controls{Left: true, Right: true}, true, component.DirNeutral},
		{"down_back", Controls{Left: true, Down: true}, true, component.DirDownBack},
		{"up_wins", Controls{Up: true, Down: true}, true, component.DirUp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Sample(tt.facing).Direction(); got != tt.want {
				t.Fatalf("direction = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestControlsButtons(t *testing.T) {
	c := Controls{Buttons: component.BtnLP}.Merge(Controls{Buttons: component.BtnHK, Down: true})
	item := c.Sample(true)
	if item.Buttons() != component.BtnLP|component.BtnHK {
		t.Fatalf("buttons = %s", item.Buttons())
	}
	if item.Direction() != component.DirDown {
		t.Fatalf("direction = %d", item.Direction())
	}
}

func TestControlsStick(t *testing.T) {
	tests := []struct {
		name string
		x, y float64
		want Controls
	}{
		{"dead_zone", 0.2, -0.2, Controls{}},
		{"left", -0.8, 0, Controls{Left: true}},
		{"up_right", 0.5, -0.9, Controls{Right: true, Up: true}},
		{"down", 0, 1, Controls{Down: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (Controls{}).Stick(tt.x, tt.y); got != tt.want {
				t.Fatalf("Stick(%v, %v) = %+v, want %+v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}
