package strip

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log"
	"math"

	"github.com/ironsheep/sprocket-align/internal/blob"
	"github.com/ironsheep/sprocket-align/internal/detection"
	"github.com/ironsheep/sprocket-align/internal/geometry"
	"github.com/ironsheep/sprocket-align/internal/imaging"
	"github.com/ironsheep/sprocket-align/internal/rows"
)

// Measurement is the outcome of measuring one image.
//
// All coordinates are in the measured image, not the padded copy used for
// detection.
type Measurement struct {
	// Angle is the strip rotation in radians, positive when the rows descend
	// to the right.
	Angle float64

	Holes      []blob.Blob
	Top        []blob.Blob
	Bottom     []blob.Blob
	TopLine    geometry.Line
	BottomLine geometry.Line

	// Strip is the bounding rectangle of the film.
	Strip image.Rectangle

	// Rejected counts enclosed specks dropped by the hole area limits.
	Rejected int
}

// Pass records one measurement made by Straighten.
type Pass struct {
	// Rotation is the total correction applied to the input before this
	// measurement, in radians.
	Rotation float64

	// Residual is the angle measured on the rotated image.
	Residual float64

	Holes int
}

// Result is the outcome of Straighten.
type Result struct {
	// Image is the input rotated by Angle. It is the input itself when no
	// rotation was needed.
	Image image.Image

	// Angle is the accumulated correction in radians; AngleDegrees in
	// degrees.
	Angle        float64
	AngleDegrees float64

	// Converged is true when the last measured residual was below the
	// tolerance.
	Converged bool

	Passes []Pass

	// Final is the last measurement. When Converged is false it was taken
	// before the last rotation.
	Final *Measurement
}

// Straightener levels film strips by their sprocket holes.
//
// The zero value is not usable; set Config, typically from DefaultConfig.
// Grouper defaults to the distance grouper described by Config. Logger, if
// set, receives one line per pass.
type Straightener struct {
	Config  Config
	Grouper rows.Grouper
	Logger  *log.Logger
}

// New returns a Straightener for cfg.
func New(cfg Config, logger *log.Logger) (*Straightener, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Straightener{Config: cfg, Logger: logger}, nil
}

func (s *Straightener) logf(format string, args ...any) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
	}
}

func (s *Straightener) grouper() rows.Grouper {
	if s.Grouper != nil {
		return s.Grouper
	}
	return s.Config.Grouper()
}

// Binarize pads and thresholds img the way Measure does. The result is the
// padded black and white image and the padding width.
func (s *Straightener) Binarize(img image.Image) (*image.Gray, int, error) {
	cfg := s.Config
	padded, err := imaging.AddBorder(img, color.White, cfg.BorderPercent, cfg.BorderMin)
	if err != nil {
		return nil, 0, err
	}
	border := imaging.BorderWidth(img.Bounds(), cfg.BorderPercent, cfg.BorderMin)

	blurred := imaging.Blur(padded, imaging.BlurSize(padded.Bounds(), cfg.BlurSize, cfg.BlurRelative))
	bw, err := imaging.Binarize(blurred, cfg.Threshold, true)
	if err != nil {
		return nil, 0, err
	}
	return bw, border, nil
}

// DetectHoles finds the sprocket holes of img and returns them in img's
// coordinates, in scan order.
func (s *Straightener) DetectHoles(img image.Image) (*Measurement, error) {
	bw, border, err := s.Binarize(img)
	if err != nil {
		return nil, err
	}

	found, err := detection.DetectSprocketHoles(bw, s.Config.MinHoleArea)
	if err != nil {
		return nil, err
	}

	m := &Measurement{Rejected: found.Rejected}
	for _, h := range found.Holes {
		if s.Config.MaxHoleArea > 0 && h.Area() > float64(s.Config.MaxHoleArea) {
			m.Rejected++
			continue
		}
		m.Holes = append(m.Holes, h)
	}

	origin := img.Bounds().Min
	dx := float64(origin.X - border)
	dy := float64(origin.Y - border)
	m.Holes = blob.Offset(m.Holes, dx, dy)
	m.Strip = found.Strip.Add(image.Pt(origin.X-border, origin.Y-border)).Intersect(img.Bounds())
	return m, nil
}

// Measure detects the holes of img, splits them into rows and estimates the
// strip angle.
func (s *Straightener) Measure(img image.Image) (*Measurement, error) {
	m, err := s.DetectHoles(img)
	if err != nil {
		return nil, err
	}

	m.Top, m.Bottom, err = SplitRows(m.Holes, s.grouper())
	if err != nil {
		return nil, fmt.Errorf("%d holes: %w", len(m.Holes), err)
	}

	m.Angle, m.TopLine, m.BottomLine, err = estimate(m.Top, m.Bottom)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Straighten measures img and rotates it until the residual angle drops
// below Config.Tolerance or Config.MaxIterations measurements were made.
// Every rotation is applied to the original image, so interpolation never
// compounds.
//
// Any measurement failure aborts with that error; no angle is guessed. ctx
// is checked before every pass.
func (s *Straightener) Straighten(ctx context.Context, img image.Image) (*Result, error) {
	if err := s.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	res := &Result{Image: img}
	current := img
	for i := 0; i < s.Config.MaxIterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		m, err := s.Measure(current)
		if err != nil {
			return nil, fmt.Errorf("pass %d: %w", i+1, err)
		}
		res.Final = m
		res.Passes = append(res.Passes, Pass{Rotation: res.Angle, Residual: m.Angle, Holes: len(m.Holes)})
		s.logf("pass %d: %d holes (%d top, %d bottom), residual %.4f°",
			i+1, len(m.Holes), len(m.Top), len(m.Bottom), geometry.Degrees(m.Angle))

		if math.Abs(m.Angle) < s.Config.Tolerance {
			res.Converged = true
			break
		}

		res.Angle += m.Angle
		current = imaging.Rotate(img, res.Angle, color.White)
		res.Image = current
	}

	res.AngleDegrees = geometry.Degrees(res.Angle)
	if res.Converged {
		s.logf("level after %d pass(es), rotated %.4f°", len(res.Passes), res.AngleDegrees)
	} else {
		s.logf("not level after %d pass(es), rotated %.4f°", len(res.Passes), res.AngleDegrees)
	}
	return res, nil
}
