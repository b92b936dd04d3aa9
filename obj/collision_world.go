package obj

import (
	"sort"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/fightcore/common"
	"github.com/milk9111/fightcore/system"
)

// CollisionWorld turns a tick's active boxes into overlap reports. Only the
// fixed-point box test decides, so the result never depends on float
// rounding. The cp bounding boxes are kept for debug drawing.
type CollisionWorld struct {
	hurt []shape
	hits []shape
	out  []system.Overlap
}

type shape struct {
	box   system.ActiveBox
	bb    cp.BB
	order int
}

func NewCollisionWorld() *CollisionWorld {
	return &CollisionWorld{}
}

// BB converts a fixed-point box to a cp bounding box.
func BB(b common.Box) cp.BB {
	return cp.NewBBForExtents(
		cp.Vector{X: b.Center.X.Float64(), Y: b.Center.Y.Float64()},
		b.Extent.X.Float64(),
		b.Extent.Y.Float64(),
	)
}

// Overlaps reports each hitbox touching any hurtbox of another actor once
// per defender, ordered by attacker, then hitbox, then defender.
func (cw *CollisionWorld) Overlaps(boxes []system.ActiveBox) []system.Overlap {
	cw.hurt = cw.hurt[:0]
	cw.hits = cw.hits[:0]
	for i, b := range boxes {
		s := shape{box: b, bb: BB(b.Box), order: i}
		switch b.Kind {
		case system.BoxHurt:
			cw.hurt = append(cw.hurt, s)
		case system.BoxHit:
			cw.hits = append(cw.hits, s)
		}
	}
	sort.SliceStable(cw.hits, func(i, j int) bool {
		return cw.hits[i].box.Actor < cw.hits[j].box.Actor
	})

	out := make([]system.Overlap, 0, len(cw.hits))
	for _, hit := range cw.hits {
		first := len(out)
		for _, hurt := range cw.hurt {
			if hurt.box.Actor == hit.box.Actor || struck(out[first:], hurt.box.Actor) {
				continue
			}
			if !hit.box.Box.Intersects(hurt.box.Box) {
				continue
			}
			out = append(out, system.Overlap{
				Attacker: hit.box.Actor,
				Defender: hurt.box.Actor,
				Hitbox:   hit.box.Hitbox,
			})
		}
	}
	cw.out = out
	return out
}

func struck(out []system.Overlap, defender int) bool {
	for _, o := range out {
		if o.Defender == defender {
			return true
		}
	}
	return false
}

// Last returns the overlaps of the previous call, for debug drawing.
func (cw *CollisionWorld) Last() []system.Overlap {
	return cw.out
}

// HurtBBs and HitBBs expose the converted boxes of the previous call.
func (cw *CollisionWorld) HurtBBs() []cp.BB { return bbs(cw.hurt) }

func (cw *CollisionWorld) HitBBs() []cp.BB { return bbs(cw.hits) }

func bbs(shapes []shape) []cp.BB {
	out := make([]cp.BB, len(shapes))
	for i, s := range shapes {
		out[i] = s.bb
	}
	return out
}
