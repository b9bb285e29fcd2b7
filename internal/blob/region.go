package blob

import (
	"fmt"
	"image"

	"github.com/ironsheep/sprocket-align/internal/geometry"
)

// Region is a connected set of pixels.
type Region struct {
	pixels []image.Point
	center geometry.Point
	ext    extremes
	bounds geometry.Box
}

// NewRegion builds a Region from its pixels, listed in the order the
// labeller visited them. That order decides ties between extreme points.
func NewRegion(pixels []image.Point) (*Region, error) {
	if len(pixels) == 0 {
		return nil, fmt.Errorf("region: no pixels: %w", geometry.ErrInsufficientInput)
	}

	r := &Region{pixels: append([]image.Point(nil), pixels...)}

	pts := make([]geometry.Point, len(pixels))
	var sx, sy float64
	for i, p := range pixels {
		pts[i] = geometry.FromImagePoint(p)
		sx += pts[i].X
		sy += pts[i].Y
	}
	n := float64(len(pixels))
	r.center = geometry.Point{X: sx / n, Y: sy / n}
	r.ext, r.bounds = findExtremes(pts)
	return r, nil
}

// Pixels returns a copy of the region's pixels.
func (r *Region) Pixels() []image.Point {
	return append([]image.Point(nil), r.pixels...)
}

// Center returns the pixel centroid.
func (r *Region) Center() geometry.Point { return r.center }

// Extreme returns the outermost pixel on side.
func (r *Region) Extreme(side Side) geometry.Point { return r.ext[side] }

// Bounds returns the bounding box of the pixel coordinates.
func (r *Region) Bounds() geometry.Box { return r.bounds }

// Area returns the pixel count.
func (r *Region) Area() float64 { return float64(len(r.pixels)) }

// Rect returns the bounding box as an image rectangle with an exclusive
// maximum.
func (r *Region) Rect() image.Rectangle {
	return image.Rect(int(r.bounds.Min.X), int(r.bounds.Min.Y), int(r.bounds.Max.X)+1, int(r.bounds.Max.Y)+1)
}

// FromRegions converts a slice of regions into blobs.
func FromRegions(regions []*Region) []Blob {
	out := make([]Blob, len(regions))
	for i, r := range regions {
		out[i] = r
	}
	return out
}

// FromOutlines converts a slice of outlines into blobs.
func FromOutlines(outlines []*Outline) []Blob {
	out := make([]Blob, len(outlines))
	for i, o := range outlines {
		out[i] = o
	}
	return out
}

// Marker is a blob known only by its center, for callers that already
// reduced their shapes to points. Every extreme point is the center itself.
type Marker geometry.Point

// Center returns the marker position.
func (m Marker) Center() geometry.Point { return geometry.Point(m) }

// Extreme returns the marker position for every side.
func (m Marker) Extreme(Side) geometry.Point { return geometry.Point(m) }

// Bounds returns a zero-size box at the marker position.
func (m Marker) Bounds() geometry.Box {
	return geometry.Box{Min: geometry.Point(m), Max: geometry.Point(m)}
}

// Area is always zero.
func (m Marker) Area() float64 { return 0 }

// Markers wraps points as blobs.
func Markers(pts []geometry.Point) []Blob {
	out := make([]Blob, len(pts))
	for i, p := range pts {
		out[i] = Marker(p)
	}
	return out
}

// shifted is a blob seen through a translation.
type shifted struct {
	b      Blob
	dx, dy float64
}

func (s shifted) Center() geometry.Point { return s.b.Center().Add(s.dx, s.dy) }

func (s shifted) Extreme(side Side) geometry.Point { return s.b.Extreme(side).Add(s.dx, s.dy) }

func (s shifted) Bounds() geometry.Box {
	b := s.b.Bounds()
	return geometry.Box{Min: b.Min.Add(s.dx, s.dy), Max: b.Max.Add(s.dx, s.dy)}
}

func (s shifted) Area() float64 { return s.b.Area() }

// Offset returns blobs translated by (dx, dy), e.g. to map holes found in a
// padded image back to the original. The underlying blobs are not copied.
func Offset(blobs []Blob, dx, dy float64) []Blob {
	if dx == 0 && dy == 0 {
		return blobs
	}
	out := make([]Blob, len(blobs))
	for i, b := range blobs {
		out[i] = shifted{b: b, dx: dx, dy: dy}
	}
	return out
}
