package blob

import (
	"fmt"
	"math"

	"github.com/ironsheep/sprocket-align/internal/geometry"
)

// Outline is a closed polygon given by its vertices in tracing order.
type Outline struct {
	vertices []geometry.Point
	center   geometry.Point
	area     float64
	ext      extremes
	bounds   geometry.Box
}

// NewOutline builds an Outline from the vertices of a closed polygon. The
// closing edge from the last vertex back to the first is implicit.
func NewOutline(vertices []geometry.Point) (*Outline, error) {
	if len(vertices) == 0 {
		return nil, fmt.Errorf("outline: no vertices: %w", geometry.ErrInsufficientInput)
	}

	o := &Outline{vertices: append([]geometry.Point(nil), vertices...)}
	o.ext, o.bounds = findExtremes(o.vertices)
	o.center, o.area = polygonMoments(o.vertices)
	return o, nil
}

// polygonMoments returns the centroid and absolute area of a polygon using the
// shoelace form of its zeroth and first moments. Polygons without area (a
// point or a line) fall back to the vertex mean.
func polygonMoments(vs []geometry.Point) (geometry.Point, float64) {
	var m00, m10, m01 float64
	for i := range vs {
		p := vs[i]
		q := vs[(i+1)%len(vs)]
		cross := p.X*q.Y - q.X*p.Y
		m00 += cross
		m10 += (p.X + q.X) * cross
		m01 += (p.Y + q.Y) * cross
	}
	m00 /= 2

	if m00 == 0 {
		var sx, sy float64
		for _, p := range vs {
			sx += p.X
			sy += p.Y
		}
		n := float64(len(vs))
		return geometry.Point{X: sx / n, Y: sy / n}, 0
	}

	return geometry.Point{X: m10 / (6 * m00), Y: m01 / (6 * m00)}, math.Abs(m00)
}

// Vertices returns a copy of the polygon vertices.
func (o *Outline) Vertices() []geometry.Point {
	return append([]geometry.Point(nil), o.vertices...)
}

// Center returns the polygon centroid.
func (o *Outline) Center() geometry.Point { return o.center }

// Extreme returns the outermost vertex on side.
func (o *Outline) Extreme(side Side) geometry.Point { return o.ext[side] }

// Bounds returns the bounding box of the vertices.
func (o *Outline) Bounds() geometry.Box { return o.bounds }

// Area returns the absolute polygon area.
func (o *Outline) Area() float64 { return o.area }

// Corners returns the four corners of a roughly rectangular outline in drawing
// order: top-left, top-right, bottom-right, bottom-left. The corners are the
// vertices that minimize or maximize x+y and x-y, which holds for rectangles
// rotated by less than 45°.
func (o *Outline) Corners() ([4]geometry.Point, error) {
	var c [4]geometry.Point
	if len(o.vertices) < 4 {
		return c, fmt.Errorf("corners: need at least 4 vertices, got %d: %w", len(o.vertices), geometry.ErrInsufficientInput)
	}

	for i := range c {
		c[i] = o.vertices[0]
	}
	for _, p := range o.vertices[1:] {
		if p.X+p.Y < c[0].X+c[0].Y {
			c[0] = p
		}
		if p.X-p.Y > c[1].X-c[1].Y {
			c[1] = p
		}
		if p.X+p.Y > c[2].X+c[2].Y {
			c[2] = p
		}
		if p.X-p.Y < c[3].X-c[3].Y {
			c[3] = p
		}
	}
	return c, nil
}
