// Package pcd reads PCD point-cloud files into plain point arrays.
package pcd

import (
	"github.com/philipparndt/golabel/pkg/geometry"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Cloud is an immutable array of 3D points from one PCD file
type Cloud struct {
	Points []geometry.Vector3
}

// Len returns the number of points
func (c *Cloud) Len() int {
	return len(c.Points)
}

// coords splits the points into per-axis slices
func (c *Cloud) coords() (xs, ys, zs []float64) {
	xs = make([]float64, len(c.Points))
	ys = make([]float64, len(c.Points))
	zs = make([]float64, len(c.Points))
	for i, p := range c.Points {
		xs[i], ys[i], zs[i] = p.X, p.Y, p.Z
	}
	return xs, ys, zs
}

// Centroid returns the mean of all points, or the origin for an empty cloud
func (c *Cloud) Centroid() geometry.Vector3 {
	if len(c.Points) == 0 {
		return geometry.Vector3{}
	}
	xs, ys, zs := c.coords()
	return geometry.NewVector3(
		stat.Mean(xs, nil),
		stat.Mean(ys, nil),
		stat.Mean(zs, nil),
	)
}

// Bounds returns the axis-aligned extent of the cloud
func (c *Cloud) Bounds() (min, max geometry.Vector3) {
	if len(c.Points) == 0 {
		return geometry.Vector3{}, geometry.Vector3{}
	}
	xs, ys, zs := c.coords()
	min = geometry.NewVector3(floats.Min(xs), floats.Min(ys), floats.Min(zs))
	max = geometry.NewVector3(floats.Max(xs), floats.Max(ys), floats.Max(zs))
	return min, max
}
