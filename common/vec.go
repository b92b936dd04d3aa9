package common

// Vec3 is a fixed-point vector. Z is carried for 2.5D content but most
// fighting-game logic only looks at X and Y.
type Vec3 struct {
	X Fixed `yaml:"x"`
	Y Fixed `yaml:"y"`
	Z Fixed `yaml:"z"`
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// MirrorX flips the X axis, used when an actor faces left.
func (v Vec3) MirrorX() Vec3 {
	return Vec3{X: -v.X, Y: v.Y, Z: v.Z}
}

// Box is an axis-aligned box described by its center and half extents.
type Box struct {
	Center Vec3
	Extent Vec3
}

// Intersects reports whether two boxes overlap on X and Y. Touching edges do
// not count as an overlap.
func (b Box) Intersects(o Box) bool {
	return (b.Center.X-o.Center.X).Abs() < b.Extent.X+o.Extent.X &&
		(b.Center.Y-o.Center.Y).Abs() < b.Extent.Y+o.Extent.Y
}
