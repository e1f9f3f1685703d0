package geometry

import (
	"errors"
	"math"
)

// ErrDegenerateGeometry is returned when a box's corners do not span a volume,
// e.g. because one of its extents is zero.
var ErrDegenerateGeometry = errors.New("degenerate box geometry")

// tolerance for containment and degeneracy checks
const epsilon = 1e-9

// Box is an oriented bounding box: a center, full extents along the body axes
// and a single yaw rotation about the vertical (Z) axis. Boxes are never
// tilted about the other two axes.
type Box struct {
	Center Vector3
	Size   Vector3 // full extents: Size.X across the box's X axis, etc.
	Yaw    float64 // radians, rotation about Z
}

// BoxEdges lists the 12 wireframe edges of a box as index pairs into the
// corner array returned by Corners. Renderers and the 2-D views both rely on
// this pairing, so it must stay in step with the corner order.
var BoxEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// Corners returns the eight corners of the box in a fixed order: the four top
// corners first, then the four bottom corners, each quartet ordered
// +x+y, +x-y, -x-y, -x+y in the box frame. The unit corners are scaled by the
// half extents, rotated by yaw about Z and translated by the center.
func (b Box) Corners() [8]Vector3 {
	sx, sy, sz := b.Size.X/2, b.Size.Y/2, b.Size.Z/2
	local := [8]Vector3{
		{sx, sy, sz}, {sx, -sy, sz}, {-sx, -sy, sz}, {-sx, sy, sz},
		{sx, sy, -sz}, {sx, -sy, -sz}, {-sx, -sy, -sz}, {-sx, sy, -sz},
	}
	c, s := math.Cos(b.Yaw), math.Sin(b.Yaw)
	var out [8]Vector3
	for i, p := range local {
		out[i] = Vector3{
			X: c*p.X - s*p.Y + b.Center.X,
			Y: s*p.X + c*p.Y + b.Center.Y,
			Z: p.Z + b.Center.Z,
		}
	}
	return out
}

// Plane identifies one of the three orthogonal 2-D projection planes.
type Plane int

const (
	PlaneXY Plane = iota // drop Z
	PlaneXZ              // drop Y
	PlaneYZ              // drop X
)

// Axes returns the indices (0=X, 1=Y, 2=Z) of the two coordinates the plane keeps
func (p Plane) Axes() (int, int) {
	switch p {
	case PlaneXY:
		return 0, 1
	case PlaneXZ:
		return 0, 2
	default:
		return 1, 2
	}
}

func (p Plane) String() string {
	switch p {
	case PlaneXY:
		return "XY"
	case PlaneXZ:
		return "XZ"
	default:
		return "YZ"
	}
}

// Project drops one coordinate from each corner according to the plane,
// yielding the eight corner positions in that 2-D view.
func Project(corners [8]Vector3, plane Plane) [8]Vector2 {
	i, j := plane.Axes()
	var out [8]Vector2
	for k, c := range corners {
		out[k] = Vector2{X: c.Axis(i), Y: c.Axis(j)}
	}
	return out
}

// Contains classifies each point as inside (or on) the oriented box described
// by its eight corners. The corners are treated as a convex hull and each
// point is tested against the hull's six face half-spaces. The box axes are
// recovered from the fixed corner order produced by Corners.
//
// Returns ErrDegenerateGeometry when the corners do not span a volume; callers
// must not pass boxes with non-positive extents.
func Contains(points []Vector3, corners [8]Vector3) ([]bool, error) {
	// Body axes from the corner layout: 0→3 spans the width, 0→1 the
	// height, 0→4 the depth. 0 and 6 are opposite corners.
	axes := [3]Vector3{
		corners[0].Sub(corners[3]),
		corners[0].Sub(corners[1]),
		corners[0].Sub(corners[4]),
	}
	for _, a := range axes {
		if a.Length() < epsilon {
			return nil, ErrDegenerateGeometry
		}
	}
	center := corners[0].Add(corners[6]).Mul(0.5)

	mask := make([]bool, len(points))
	for i, p := range points {
		d := p.Sub(center)
		inside := true
		for _, a := range axes {
			ext := a.Length()
			if math.Abs(d.Dot(a))/ext > ext/2+epsilon {
				inside = false
				break
			}
		}
		mask[i] = inside
	}
	return mask, nil
}
