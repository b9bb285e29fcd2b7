package geometry

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// pointsAlong returns n points spaced step pixels apart on a ray leaving
// origin at angleDeg (positive = descending in image coordinates).
func pointsAlong(origin Point, angleDeg, step float64, n int) []Point {
	rad := Radians(angleDeg)
	pts := make([]Point, n)
	for i := range pts {
		d := float64(i) * step
		pts[i] = Point{X: origin.X + d*math.Cos(rad), Y: origin.Y + d*math.Sin(rad)}
	}
	return pts
}

func reversed(pts []Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

func TestFitLine_Vertical(t *testing.T) {
	tests := []struct {
		name     string
		points   []Point
		wantDir  Direction
		wantGrad float64
	}{
		{"top to bottom", []Point{{5, 0}, {5, 10}, {5, 20}}, Down, math.Inf(1)},
		{"bottom to top", []Point{{5, 20}, {5, 10}, {5, 0}}, Up, math.Inf(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, err := FitLine(tt.points)
			if err != nil {
				t.Fatalf("FitLine failed: %v", err)
			}
			if line.Kind() != Vertical {
				t.Fatalf("Kind: got %v, want vertical", line.Kind())
			}
			if line.Direction() != tt.wantDir {
				t.Errorf("Direction: got %v, want %v", line.Direction(), tt.wantDir)
			}
			if line.Gradient() != tt.wantGrad {
				t.Errorf("Gradient: got %v, want %v", line.Gradient(), tt.wantGrad)
			}
			if line.Displacement() != 5 {
				t.Errorf("Displacement: got %v, want 5", line.Displacement())
			}
		})
	}
}

func TestFitLine_Horizontal(t *testing.T) {
	line, err := FitLine([]Point{{0, 10}, {10, 10}, {20, 10}})
	if err != nil {
		t.Fatalf("FitLine failed: %v", err)
	}
	if line.Kind() != Finite {
		t.Fatalf("Kind: got %v, want finite", line.Kind())
	}
	if line.Gradient() != 0 {
		t.Errorf("Gradient: got %v, want 0", line.Gradient())
	}
	if line.Displacement() != 10 {
		t.Errorf("Displacement: got %v, want 10", line.Displacement())
	}
}

func TestFitLine_NearVertical(t *testing.T) {
	tests := []struct {
		name         string
		angle        float64
		wantVertical bool
	}{
		{"89.95 degrees", 89.95, true},
		{"90.05 degrees", 90.05, true},
		{"89.5 degrees", 89.5, false},
		{"89 degrees", 89, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pts := pointsAlong(Point{X: 100, Y: 0}, tt.angle, 50, 6)
			line, err := FitLine(pts)
			if err != nil {
				t.Fatalf("FitLine failed: %v", err)
			}
			if line.IsVertical() != tt.wantVertical {
				t.Fatalf("IsVertical: got %v, want %v (line %v)", line.IsVertical(), tt.wantVertical, line)
			}
			if !tt.wantVertical {
				if math.IsInf(line.Gradient(), 0) || math.IsNaN(line.Gradient()) {
					t.Errorf("Gradient should be finite, got %v", line.Gradient())
				}
				want := tt.angle
				if want > 90 {
					want -= 180
				}
				if got := Degrees(Angle(line)); math.Abs(got-want) > 1e-6 {
					t.Errorf("Angle: got %.6f°, want %.6f°", got, want)
				}
			}
		})
	}
}

func TestFitLine_Sloped(t *testing.T) {
	tests := []struct {
		name  string
		angle float64
	}{
		{"descending 2 degrees", 2},
		{"ascending 3 degrees", -3},
		{"steep 60 degrees", 60},
		{"steep -75 degrees", -75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origin := Point{X: 40, Y: 300}
			pts := pointsAlong(origin, tt.angle, 25, 8)
			line, err := FitLine(pts)
			if err != nil {
				t.Fatalf("FitLine failed: %v", err)
			}

			if got := Degrees(Angle(line)); math.Abs(got-tt.angle) > 1e-9 {
				t.Errorf("Angle: got %.9f°, want %.9f°", got, tt.angle)
			}
			// The fitted line passes through every point of an exact line.
			for _, p := range pts {
				if y := Evaluate(p.X, line); math.Abs(y-p.Y) > 1e-6 {
					t.Errorf("Evaluate(%v): got %v, want %v", p.X, y, p.Y)
				}
			}
		})
	}
}

func TestFitLine_ReverseNegatesAngle(t *testing.T) {
	pts := []Point{{0, 0}, {10, 1}, {20, 1.5}, {30, 3}, {40, 3.8}}

	forward, err := FitLine(pts)
	if err != nil {
		t.Fatalf("FitLine forward failed: %v", err)
	}
	backward, err := FitLine(reversed(pts))
	if err != nil {
		t.Fatalf("FitLine backward failed: %v", err)
	}

	if math.Abs(Angle(forward)+Angle(backward)) > 1e-12 {
		t.Errorf("reverse fit angle %v is not the negation of %v", Angle(backward), Angle(forward))
	}
}

func TestFitLine_Errors(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
		want   error
	}{
		{"nil", nil, ErrInsufficientInput},
		{"single point", []Point{{1, 1}}, ErrInsufficientInput},
		{"coincident pair", []Point{{3, 3}, {3, 3}}, ErrDegenerateInput},
		{"coincident in middle", []Point{{0, 0}, {5, 1}, {5, 1}, {9, 2}}, ErrDegenerateInput},
		{"coincident apart", []Point{{0, 0}, {10, 0}, {0, 0}}, ErrDegenerateInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FitLine(tt.points)
			if !errors.Is(err, tt.want) {
				t.Errorf("FitLine error: got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFitLine_DoesNotMutateInput(t *testing.T) {
	pts := []Point{{20, 1}, {0, 0}, {10, 2}}
	orig := append([]Point(nil), pts...)

	if _, err := FitLine(pts); err != nil {
		t.Fatalf("FitLine failed: %v", err)
	}
	if diff := cmp.Diff(orig, pts); diff != "" {
		t.Errorf("input modified (-want +got):\n%s", diff)
	}
}

func TestEvaluate(t *testing.T) {
	if got := Evaluate(4, NewFinite(0.5, 3)); got != 5 {
		t.Errorf("Evaluate finite: got %v, want 5", got)
	}
	if got := Evaluate(4, NewVertical(7, Down)); !math.IsNaN(got) {
		t.Errorf("Evaluate vertical: got %v, want NaN", got)
	}
}

func TestAngle(t *testing.T) {
	tests := []struct {
		name string
		line Line
		want float64
	}{
		{"horizontal", NewFinite(0, 10), 0},
		{"45 degrees", NewFinite(1, 0), math.Pi / 4},
		{"-45 degrees", NewFinite(-1, 0), -math.Pi / 4},
		{"vertical down", NewVertical(3, Down), math.Pi / 2},
		{"vertical up", NewVertical(3, Up), -math.Pi / 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Angle(tt.line); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Angle: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToSegment(t *testing.T) {
	box := Box{Min: Point{0, 0}, Max: Point{99, 49}}
	approx := cmpopts.EquateApprox(0, 1e-9)

	tests := []struct {
		name   string
		line   Line
		wantP1 Point
		wantP2 Point
		wantOK bool
	}{
		{"horizontal", NewFinite(0, 20), Point{0, 20}, Point{99, 20}, true},
		{"clipped by bottom", NewFinite(1, 0), Point{0, 0}, Point{49, 49}, true},
		{"clipped by top", NewFinite(-0.5, 30), Point{0, 30}, Point{60, 0}, true},
		{"vertical", NewVertical(12, Up), Point{12, 0}, Point{12, 49}, true},
		{"vertical outside", NewVertical(120, Down), Point{}, Point{}, false},
		{"above box", NewFinite(0, -5), Point{}, Point{}, false},
		{"misses corner", NewFinite(1, -120), Point{}, Point{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p1, p2, ok := ToSegment(tt.line, box)
			if ok != tt.wantOK {
				t.Fatalf("ok: got %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if diff := cmp.Diff([]Point{tt.wantP1, tt.wantP2}, []Point{p1, p2}, approx); diff != "" {
				t.Errorf("segment mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPointDistance(t *testing.T) {
	if got := Pt(0, 0).Distance(Pt(3, 4)); got != 5 {
		t.Errorf("Distance: got %v, want 5", got)
	}
	if got := Pt(2, 2).Distance(Pt(2, 2)); got != 0 {
		t.Errorf("Distance to self: got %v, want 0", got)
	}
}

func TestBox(t *testing.T) {
	b := FromRect(image.Rect(10, 20, 110, 70))
	if b.Min != Pt(10, 20) || b.Max != Pt(109, 69) {
		t.Fatalf("FromRect: got %+v", b)
	}
	if !b.Contains(Pt(10, 69)) || b.Contains(Pt(110, 30)) {
		t.Error("Contains reports wrong edge membership")
	}
	if got := b.Rect(); got != image.Rect(10, 20, 110, 70) {
		t.Errorf("Rect: got %v, want FromRect input back", got)
	}
	if got := (Box{Min: Pt(1.5, 2.5), Max: Pt(3.2, 4)}).Rect(); got != image.Rect(1, 2, 4, 5) {
		t.Errorf("Rect of fractional box: got %v", got)
	}
	u := b.Union(Box{Min: Pt(0, 30), Max: Pt(50, 100)})
	if u.Min != Pt(0, 20) || u.Max != Pt(109, 100) {
		t.Errorf("Union: got %+v", u)
	}
}

func TestTranslate(t *testing.T) {
	l := NewFinite(0.5, 10)
	moved := Translate(l, 4, -3)
	// A point on the original line moves by (4,-3) and stays on the result.
	x := 6.0
	y := Evaluate(x, l)
	if got := Evaluate(x+4, moved); math.Abs(got-(y-3)) > 1e-12 {
		t.Errorf("translated point: got %v, want %v", got, y-3)
	}

	v := Translate(NewVertical(5, Up), 2, 7)
	if !v.IsVertical() || v.Displacement() != 7 || v.Direction() != Up {
		t.Errorf("vertical translate: got %v", v)
	}
}
