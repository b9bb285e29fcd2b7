package blob

import (
	"fmt"
	"math"
	"sort"

	"github.com/ironsheep/sprocket-align/internal/geometry"
	"gonum.org/v1/gonum/stat"
)

// Side names one of the four axis-aligned extremes of a blob.
type Side int

const (
	Top Side = iota
	Bottom
	Left
	Right
)

func (s Side) String() string {
	switch s {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// ParseSide converts "top", "bottom", "left" or "right" into a Side.
func ParseSide(s string) (Side, error) {
	switch s {
	case "top":
		return Top, nil
	case "bottom":
		return Bottom, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	default:
		return 0, fmt.Errorf("unknown side: %q", s)
	}
}

// Blob is a detected shape seen through its derived points.
type Blob interface {
	// Center returns the centroid.
	Center() geometry.Point

	// Extreme returns the outermost point on the given side.
	Extreme(side Side) geometry.Point

	// Bounds returns the axis-aligned bounding box.
	Bounds() geometry.Box

	// Area returns the enclosed area in square pixels.
	Area() float64
}

// extremes holds the four extreme points of a point sequence.
type extremes [4]geometry.Point

// findExtremes scans pts once. Strict comparisons keep the first occurrence
// on ties.
func findExtremes(pts []geometry.Point) (extremes, geometry.Box) {
	var e extremes
	if len(pts) == 0 {
		return e, geometry.Box{}
	}
	for i := range e {
		e[i] = pts[0]
	}
	for _, p := range pts[1:] {
		if p.Y < e[Top].Y {
			e[Top] = p
		}
		if p.Y > e[Bottom].Y {
			e[Bottom] = p
		}
		if p.X < e[Left].X {
			e[Left] = p
		}
		if p.X > e[Right].X {
			e[Right] = p
		}
	}
	box := geometry.Box{
		Min: geometry.Point{X: e[Left].X, Y: e[Top].Y},
		Max: geometry.Point{X: e[Right].X, Y: e[Bottom].Y},
	}
	return e, box
}

// Centers returns the center of each blob, in order.
func Centers(blobs []Blob) []geometry.Point {
	pts := make([]geometry.Point, len(blobs))
	for i, b := range blobs {
		pts[i] = b.Center()
	}
	return pts
}

// ExtremePoints returns the extreme point on side of each blob, in order.
func ExtremePoints(blobs []Blob, side Side) []geometry.Point {
	pts := make([]geometry.Point, len(blobs))
	for i, b := range blobs {
		pts[i] = b.Extreme(side)
	}
	return pts
}

// SortByArea returns a copy of blobs sorted by area, ascending unless
// descending is set. Equal areas keep their input order.
func SortByArea(blobs []Blob, descending bool) []Blob {
	out := append([]Blob(nil), blobs...)
	sort.SliceStable(out, func(i, j int) bool {
		if descending {
			return out[i].Area() > out[j].Area()
		}
		return out[i].Area() < out[j].Area()
	})
	return out
}

// SortByX returns a copy of pts ordered left to right. Points sharing an X
// keep their input order.
func SortByX(pts []geometry.Point) []geometry.Point {
	out := append([]geometry.Point(nil), pts...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].X < out[j].X
	})
	return out
}

// SortByY returns a copy of pts ordered top to bottom.
func SortByY(pts []geometry.Point) []geometry.Point {
	out := append([]geometry.Point(nil), pts...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Y < out[j].Y
	})
	return out
}

// MeanY returns the mean center Y of blobs, or NaN for an empty slice.
func MeanY(blobs []Blob) float64 {
	if len(blobs) == 0 {
		return math.NaN()
	}
	ys := make([]float64, len(blobs))
	for i, b := range blobs {
		ys[i] = b.Center().Y
	}
	return stat.Mean(ys, nil)
}
