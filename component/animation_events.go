package component

import "github.com/milk9111/fightcore/common"

// TimelineWindow activates boxes and extra properties for a span of frames
// counted from state entry. A Length of 0 keeps the window open until the
// state is left.
type TimelineWindow struct {
	Start      int              `yaml:"start"`
	Length     int              `yaml:"length"`
	Conditions StateCondition   `yaml:"conditions"`
	Cancels    CancelConditions `yaml:"cancels"`
	Impulse    *common.Vec3     `yaml:"impulse"`
	Hitboxes   []HitboxData     `yaml:"hitboxes"`
	Hurtboxes  []HurtboxData    `yaml:"hurtboxes"`
}

// Active reports whether the window covers frame.
func (w TimelineWindow) Active(frame int) bool {
	if frame < w.Start {
		return false
	}
	return w.Length <= 0 || frame < w.Start+w.Length
}

// Timeline is the frame-keyed activation list of a state.
type Timeline []TimelineWindow

// TimelineFrame is everything a timeline contributes on a single frame.
type TimelineFrame struct {
	Conditions StateCondition
	Cancels    CancelConditions
	Impulse    common.Vec3
	HasImpulse bool
	Hitboxes   []HitboxData
	Hurtboxes  []HurtboxData
}

// At folds every window covering frame. Impulses only apply on the first
// frame of their window. A hitbox stays live for its own Duration from the
// window start, so zero-duration hitboxes never show up.
func (t Timeline) At(frame int) TimelineFrame {
	var out TimelineFrame
	for k, w := range t {
		if !w.Active(frame) {
			continue
		}
		out.Conditions |= w.Conditions
		out.Cancels |= w.Cancels
		if w.Impulse != nil && frame == w.Start {
			out.Impulse = out.Impulse.Add(*w.Impulse)
			out.HasImpulse = true
		}
		for _, hb := range w.Hitboxes {
			if frame-w.Start < hb.Duration {
				hb.Window = k
				out.Hitboxes = append(out.Hitboxes, hb)
			}
		}
		out.Hurtboxes = append(out.Hurtboxes, w.Hurtboxes...)
	}
	return out
}

// Hitboxes lists every hitbox the timeline can ever activate.
func (t Timeline) Hitboxes() []HitboxData {
	var out []HitboxData
	for k, w := range t {
		for _, hb := range w.Hitboxes {
			hb.Window = k
			out = append(out, hb)
		}
	}
	return out
}
