package blob

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ironsheep/sprocket-align/internal/geometry"
)

// rectPixels returns every pixel of the rectangle in row-major order.
func rectPixels(r image.Rectangle) []image.Point {
	pts := make([]image.Point, 0, r.Dx()*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			pts = append(pts, image.Pt(x, y))
		}
	}
	return pts
}

func TestNewOutline_Square(t *testing.T) {
	o, err := NewOutline([]geometry.Point{geometry.Pt(0, 0), geometry.Pt(10, 0), geometry.Pt(10, 10), geometry.Pt(0, 10)})
	if err != nil {
		t.Fatalf("NewOutline failed: %v", err)
	}

	if got := o.Center(); got != geometry.Pt(5, 5) {
		t.Errorf("Center: got %v, want (5,5)", got)
	}
	if got := o.Area(); got != 100 {
		t.Errorf("Area: got %v, want 100", got)
	}
	if got := o.Bounds(); got.Min != geometry.Pt(0, 0) || got.Max != geometry.Pt(10, 10) {
		t.Errorf("Bounds: got %+v", got)
	}
}

func TestNewOutline_OrientationIndependent(t *testing.T) {
	cw := []geometry.Point{geometry.Pt(2, 1), geometry.Pt(8, 1), geometry.Pt(8, 5), geometry.Pt(2, 5)}
	ccw := []geometry.Point{geometry.Pt(2, 1), geometry.Pt(2, 5), geometry.Pt(8, 5), geometry.Pt(8, 1)}

	a, _ := NewOutline(cw)
	b, _ := NewOutline(ccw)

	if a.Center() != b.Center() {
		t.Errorf("Center differs by winding: %v vs %v", a.Center(), b.Center())
	}
	if a.Area() != 24 || b.Area() != 24 {
		t.Errorf("Area: got %v and %v, want 24", a.Area(), b.Area())
	}
}

func TestNewOutline_Triangle(t *testing.T) {
	o, err := NewOutline([]geometry.Point{geometry.Pt(0, 0), geometry.Pt(6, 0), geometry.Pt(0, 6)})
	if err != nil {
		t.Fatalf("NewOutline failed: %v", err)
	}
	if d := cmp.Diff(geometry.Pt(2, 2), o.Center(), cmpopts.EquateApprox(0, 1e-12)); d != "" {
		t.Errorf("Center mismatch (-want +got):\n%s", d)
	}
}

func TestNewOutline_Degenerate(t *testing.T) {
	o, err := NewOutline([]geometry.Point{geometry.Pt(0, 0), geometry.Pt(4, 4)})
	if err != nil {
		t.Fatalf("NewOutline failed: %v", err)
	}
	if o.Area() != 0 {
		t.Errorf("Area: got %v, want 0", o.Area())
	}
	if o.Center() != geometry.Pt(2, 2) {
		t.Errorf("Center: got %v, want vertex mean (2,2)", o.Center())
	}

	if _, err := NewOutline(nil); !errors.Is(err, geometry.ErrInsufficientInput) {
		t.Errorf("NewOutline(nil): got %v, want ErrInsufficientInput", err)
	}
}

func TestExtreme_TiesKeepFirstOccurrence(t *testing.T) {
	o, err := NewOutline([]geometry.Point{geometry.Pt(3, 0), geometry.Pt(7, 0), geometry.Pt(9, 4), geometry.Pt(9, 8), geometry.Pt(1, 8), geometry.Pt(0, 4)})
	if err != nil {
		t.Fatalf("NewOutline failed: %v", err)
	}

	tests := []struct {
		side Side
		want geometry.Point
	}{
		{Top, geometry.Pt(3, 0)},
		{Bottom, geometry.Pt(9, 8)},
		{Left, geometry.Pt(0, 4)},
		{Right, geometry.Pt(9, 4)},
	}

	for _, tt := range tests {
		t.Run(tt.side.String(), func(t *testing.T) {
			if got := o.Extreme(tt.side); got != tt.want {
				t.Errorf("Extreme(%v): got %v, want %v", tt.side, got, tt.want)
			}
		})
	}
}

func TestCorners(t *testing.T) {
	o, _ := NewOutline([]geometry.Point{geometry.Pt(10, 2), geometry.Pt(20, 3), geometry.Pt(19, 13), geometry.Pt(9, 12)})
	c, err := o.Corners()
	if err != nil {
		t.Fatalf("Corners failed: %v", err)
	}
	want := [4]geometry.Point{geometry.Pt(10, 2), geometry.Pt(20, 3), geometry.Pt(19, 13), geometry.Pt(9, 12)}
	if c != want {
		t.Errorf("Corners: got %v, want %v", c, want)
	}

	tri, _ := NewOutline([]geometry.Point{geometry.Pt(0, 0), geometry.Pt(1, 0), geometry.Pt(0, 1)})
	if _, err := tri.Corners(); !errors.Is(err, geometry.ErrInsufficientInput) {
		t.Errorf("Corners on triangle: got %v, want ErrInsufficientInput", err)
	}
}

func TestNewRegion(t *testing.T) {
	r, err := NewRegion(rectPixels(image.Rect(10, 20, 14, 22)))
	if err != nil {
		t.Fatalf("NewRegion failed: %v", err)
	}

	if got := r.Center(); got != geometry.Pt(11.5, 20.5) {
		t.Errorf("Center: got %v, want (11.5,20.5)", got)
	}
	if got := r.Area(); got != 8 {
		t.Errorf("Area: got %v, want 8", got)
	}
	if got := r.Rect(); got != image.Rect(10, 20, 14, 22) {
		t.Errorf("Rect: got %v", got)
	}
	// Row-major visiting order: topmost tie goes to the leftmost pixel of
	// the first row, bottommost to the leftmost pixel of the last row.
	if got := r.Extreme(Top); got != geometry.Pt(10, 20) {
		t.Errorf("Extreme(Top): got %v", got)
	}
	if got := r.Extreme(Bottom); got != geometry.Pt(10, 21) {
		t.Errorf("Extreme(Bottom): got %v", got)
	}
	if got := r.Extreme(Right); got != geometry.Pt(13, 20) {
		t.Errorf("Extreme(Right): got %v", got)
	}

	if _, err := NewRegion(nil); !errors.Is(err, geometry.ErrInsufficientInput) {
		t.Errorf("NewRegion(nil): got %v, want ErrInsufficientInput", err)
	}
}

func TestRegion_PixelsIsCopy(t *testing.T) {
	src := rectPixels(image.Rect(0, 0, 2, 2))
	r, _ := NewRegion(src)
	src[0] = image.Pt(100, 100)

	if r.Center() != geometry.Pt(0.5, 0.5) {
		t.Errorf("Center changed after caller mutation: %v", r.Center())
	}
	px := r.Pixels()
	px[0] = image.Pt(-1, -1)
	if r.Pixels()[0] != image.Pt(0, 0) {
		t.Error("Pixels() exposes internal storage")
	}
}

func TestCentersAndExtremePoints(t *testing.T) {
	a, _ := NewRegion(rectPixels(image.Rect(0, 0, 3, 3)))
	b, _ := NewRegion(rectPixels(image.Rect(10, 0, 13, 5)))
	blobs := FromRegions([]*Region{a, b})

	wantCenters := []geometry.Point{geometry.Pt(1, 1), geometry.Pt(11, 2)}
	if d := cmp.Diff(wantCenters, Centers(blobs)); d != "" {
		t.Errorf("Centers mismatch (-want +got):\n%s", d)
	}

	wantBottoms := []geometry.Point{geometry.Pt(0, 2), geometry.Pt(10, 4)}
	if d := cmp.Diff(wantBottoms, ExtremePoints(blobs, Bottom)); d != "" {
		t.Errorf("ExtremePoints mismatch (-want +got):\n%s", d)
	}
}

func TestSortByArea(t *testing.T) {
	small, _ := NewRegion(rectPixels(image.Rect(0, 0, 1, 2)))
	big, _ := NewRegion(rectPixels(image.Rect(0, 0, 5, 5)))
	mid, _ := NewRegion(rectPixels(image.Rect(0, 0, 3, 3)))
	blobs := FromRegions([]*Region{mid, small, big})

	asc := SortByArea(blobs, false)
	if asc[0] != Blob(small) || asc[1] != Blob(mid) || asc[2] != Blob(big) {
		t.Errorf("ascending order wrong: %v %v %v", asc[0].Area(), asc[1].Area(), asc[2].Area())
	}
	desc := SortByArea(blobs, true)
	if desc[0] != Blob(big) || desc[2] != Blob(small) {
		t.Errorf("descending order wrong: %v %v %v", desc[0].Area(), desc[1].Area(), desc[2].Area())
	}
	if blobs[0] != Blob(mid) {
		t.Error("SortByArea modified its input")
	}
}

func TestSortByX(t *testing.T) {
	pts := []geometry.Point{geometry.Pt(5, 1), geometry.Pt(1, 9), geometry.Pt(5, 0), geometry.Pt(3, 3)}
	want := []geometry.Point{geometry.Pt(1, 9), geometry.Pt(3, 3), geometry.Pt(5, 1), geometry.Pt(5, 0)}
	if d := cmp.Diff(want, SortByX(pts)); d != "" {
		t.Errorf("SortByX mismatch (-want +got):\n%s", d)
	}
	if pts[0] != geometry.Pt(5, 1) {
		t.Error("SortByX modified its input")
	}
}

func TestMeanY(t *testing.T) {
	blobs := Markers([]geometry.Point{geometry.Pt(0, 10), geometry.Pt(5, 20), geometry.Pt(9, 30)})
	if got := MeanY(blobs); got != 20 {
		t.Errorf("MeanY: got %v, want 20", got)
	}
	if got := MeanY(nil); !math.IsNaN(got) {
		t.Errorf("MeanY(nil): got %v, want NaN", got)
	}
}

func TestParseSide(t *testing.T) {
	for _, s := range []Side{Top, Bottom, Left, Right} {
		got, err := ParseSide(s.String())
		if err != nil || got != s {
			t.Errorf("ParseSide(%q): got %v, %v", s.String(), got, err)
		}
	}
	if _, err := ParseSide("middle"); err == nil {
		t.Error("ParseSide should reject unknown sides")
	}
}

func TestOffset(t *testing.T) {
	r, err := NewRegion([]image.Point{image.Pt(2, 3), image.Pt(3, 3), image.Pt(2, 4), image.Pt(3, 4)})
	if err != nil {
		t.Fatalf("NewRegion failed: %v", err)
	}

	moved := Offset([]Blob{r}, -2, 10)
	if got := moved[0].Center(); got != geometry.Pt(0.5, 13.5) {
		t.Errorf("Center: got %v, want (0.5,13.5)", got)
	}
	if got := moved[0].Extreme(Bottom); got.Y != 14 {
		t.Errorf("Extreme(Bottom): got %v", got)
	}
	if got := moved[0].Bounds(); got.Min != geometry.Pt(0, 13) || got.Max != geometry.Pt(1, 14) {
		t.Errorf("Bounds: got %+v", got)
	}
	if moved[0].Area() != 4 {
		t.Errorf("Area: got %v, want 4", moved[0].Area())
	}
	if r.Center() != geometry.Pt(2.5, 3.5) {
		t.Error("Offset modified the underlying blob")
	}

	same := []Blob{r}
	if got := Offset(same, 0, 0); &got[0] != &same[0] {
		t.Error("zero offset should return the input slice")
	}
}
