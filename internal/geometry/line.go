package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"
)

// VerticalTolerance is how close (in radians) the averaged segment angle must
// be to 90° for FitLine to classify a line as vertical.
const VerticalTolerance = 0.1 * math.Pi / 180

// LineKind tags the variant held by a Line.
type LineKind int

const (
	// Finite lines satisfy y = gradient·x + displacement.
	Finite LineKind = iota
	// Vertical lines satisfy x = displacement.
	Vertical
)

func (k LineKind) String() string {
	switch k {
	case Finite:
		return "finite"
	case Vertical:
		return "vertical"
	default:
		return fmt.Sprintf("LineKind(%d)", int(k))
	}
}

// Direction is the traversal direction of a vertical line.
type Direction int

const (
	// Down means the source points run top to bottom (increasing y).
	Down Direction = iota
	// Up means the source points run bottom to top (decreasing y).
	Up
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// Line is a straight line in image coordinates.
//
// The zero value is the horizontal line y = 0.
type Line struct {
	kind         LineKind
	gradient     float64
	displacement float64
	direction    Direction
}

// NewFinite returns the line y = gradient·x + displacement.
func NewFinite(gradient, displacement float64) Line {
	return Line{kind: Finite, gradient: gradient, displacement: displacement}
}

// NewVertical returns the line x = x traversed in direction dir.
func NewVertical(x float64, dir Direction) Line {
	return Line{kind: Vertical, displacement: x, direction: dir}
}

// Kind reports whether the line is Finite or Vertical.
func (l Line) Kind() LineKind { return l.kind }

// IsVertical is shorthand for l.Kind() == Vertical.
func (l Line) IsVertical() bool { return l.kind == Vertical }

// Gradient returns the slope of a finite line. Vertical lines report +Inf when
// traversed Down and -Inf when traversed Up.
func (l Line) Gradient() float64 {
	if l.kind == Vertical {
		if l.direction == Up {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}
	return l.gradient
}

// Displacement returns the y-intercept of a finite line or the x position of a
// vertical one.
func (l Line) Displacement() float64 { return l.displacement }

// Direction returns the traversal direction. Only meaningful for vertical lines.
func (l Line) Direction() Direction { return l.direction }

func (l Line) String() string {
	if l.kind == Vertical {
		return fmt.Sprintf("x = %g (%s)", l.displacement, l.direction)
	}
	return fmt.Sprintf("y = %g·x + %g", l.gradient, l.displacement)
}

// FitLine fits a line through points, which must be ordered along the
// intended direction of the line.
//
// The fit averages sin(angle) of each consecutive segment. If the averaged
// angle is within VerticalTolerance of ±90° the result is Vertical, with
// direction Down when the last point lies at or below the first one and
// displacement equal to the mean x. Otherwise the averaged angle θ yields
// gradient = tan(θ) and displacement = mean(y) - mean(x)·gradient, so the line
// passes through the centroid of the points.
//
// FitLine returns ErrInsufficientInput for fewer than two points and
// ErrDegenerateInput when any two points coincide.
func FitLine(points []Point) (Line, error) {
	if len(points) < 2 {
		return Line{}, fmt.Errorf("fit line: need at least 2 points, got %d: %w", len(points), ErrInsufficientInput)
	}

	seen := make(map[Point]int, len(points))
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		if j, dup := seen[p]; dup {
			return Line{}, fmt.Errorf("fit line: points %d and %d coincide at %v: %w", j, i, p, ErrDegenerateInput)
		}
		seen[p] = i
		xs[i] = p.X
		ys[i] = p.Y
	}
	avgX := stat.Mean(xs, nil)
	avgY := stat.Mean(ys, nil)

	sines := make([]float64, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		d := r2.Sub(points[i].Vec(), points[i-1].Vec())
		sines = append(sines, d.Y/r2.Norm(d))
	}

	// Rounding can push the mean a hair past ±1.
	avgSin := math.Max(-1, math.Min(1, stat.Mean(sines, nil)))
	theta := math.Asin(avgSin)

	if scalar.EqualWithinAbs(math.Abs(theta), math.Pi/2, VerticalTolerance) {
		dir := Down
		if points[len(points)-1].Y < points[0].Y {
			dir = Up
		}
		return NewVertical(avgX, dir), nil
	}

	gradient := math.Tan(theta)
	return NewFinite(gradient, avgY-avgX*gradient), nil
}

// Evaluate returns the y value of line at x. Vertical lines have no single y
// for a given x and return NaN.
func Evaluate(x float64, line Line) float64 {
	if line.kind == Vertical {
		return math.NaN()
	}
	return line.gradient*x + line.displacement
}

// Angle returns the signed angle of line in radians. Finite lines map into
// (-π/2, π/2); vertical lines return π/2 (Down) or -π/2 (Up).
func Angle(line Line) float64 {
	if line.kind == Vertical {
		if line.direction == Up {
			return -math.Pi / 2
		}
		return math.Pi / 2
	}
	return math.Atan(line.gradient)
}

// ToSegment clips line to box and returns the two end points of the visible
// part, ordered left to right (top to bottom for vertical lines). ok is false
// when the line does not cross the box.
func ToSegment(line Line, box Box) (p1, p2 Point, ok bool) {
	if line.kind == Vertical {
		x := line.displacement
		if x < box.Min.X || x > box.Max.X {
			return Point{}, Point{}, false
		}
		return Point{X: x, Y: box.Min.Y}, Point{X: x, Y: box.Max.Y}, true
	}

	// Walk the line from the left edge to the right edge and clip the
	// parameter range against the top and bottom edges.
	start := r2.Vec{X: box.Min.X, Y: Evaluate(box.Min.X, line)}
	dir := r2.Vec{X: box.Width(), Y: line.gradient * box.Width()}
	t0, t1 := 0.0, 1.0
	if dir.Y != 0 {
		ta := (box.Min.Y - start.Y) / dir.Y
		tb := (box.Max.Y - start.Y) / dir.Y
		if ta > tb {
			ta, tb = tb, ta
		}
		t0 = math.Max(t0, ta)
		t1 = math.Min(t1, tb)
	} else if start.Y < box.Min.Y || start.Y > box.Max.Y {
		return Point{}, Point{}, false
	}
	if t0 > t1 {
		return Point{}, Point{}, false
	}

	p1 = fromVec(r2.Add(start, r2.Scale(t0, dir)))
	p2 = fromVec(r2.Add(start, r2.Scale(t1, dir)))
	return p1, p2, true
}

// Translate returns line shifted by (dx, dy).
func Translate(line Line, dx, dy float64) Line {
	if line.kind == Vertical {
		return NewVertical(line.displacement+dx, line.direction)
	}
	return NewFinite(line.gradient, line.displacement+dy-line.gradient*dx)
}
