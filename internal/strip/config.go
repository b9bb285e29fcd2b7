package strip

import (
	"fmt"

	"github.com/ironsheep/sprocket-align/internal/geometry"
	"github.com/ironsheep/sprocket-align/internal/rows"
)

// Config holds every tunable of the straightening pipeline. Start from
// DefaultConfig and override fields as needed.
type Config struct {
	// BorderPercent is the white padding added around the scan, relative to
	// its larger dimension. BorderMin is the minimum padding in pixels.
	BorderPercent float64 `json:"border_percent"`
	BorderMin     int     `json:"border_min"`

	// BlurSize is the box blur kernel size in pixels. With BlurRelative > 0
	// the size is BlurRelative times the larger dimension instead, but never
	// below BlurSize.
	BlurSize     int     `json:"blur_size"`
	BlurRelative float64 `json:"blur_relative"`

	// Threshold separates scanner background from film, in [0, 1]. Pixels
	// brighter than Threshold count as background or hole.
	Threshold float64 `json:"threshold"`

	// MinHoleArea drops enclosed specks smaller than this many pixels.
	// MaxHoleArea, when > 0, drops larger bright areas such as clear frames.
	MinHoleArea int `json:"min_hole_area"`
	MaxHoleArea int `json:"max_hole_area"`

	// Lookahead and Multiplier tune the distance grouping of holes into rows.
	Lookahead  int     `json:"lookahead"`
	Multiplier float64 `json:"multiplier"`

	// Tolerance is the residual angle, in radians, below which the strip
	// counts as level. MaxIterations bounds the number of measurements.
	Tolerance     float64 `json:"tolerance"`
	MaxIterations int     `json:"max_iterations"`
}

// DefaultConfig returns settings tuned on 35mm negative scans.
func DefaultConfig() Config {
	return Config{
		BorderPercent: 0,
		BorderMin:     2,
		BlurSize:      2,
		BlurRelative:  0,
		Threshold:     230.0 / 255,
		MinHoleArea:   4,
		MaxHoleArea:   0,
		Lookahead:     2,
		Multiplier:    rows.DefaultMultiplier,
		Tolerance:     geometry.Radians(0.05),
		MaxIterations: 3,
	}
}

// Validate reports the first out-of-range field.
func (c Config) Validate() error {
	switch {
	case c.BorderPercent < 0:
		return fmt.Errorf("border_percent must be >= 0, got %g", c.BorderPercent)
	case c.BorderMin < 1:
		return fmt.Errorf("border_min must be >= 1, got %d", c.BorderMin)
	case c.BlurSize < 1:
		return fmt.Errorf("blur_size must be >= 1, got %d", c.BlurSize)
	case c.BlurRelative < 0:
		return fmt.Errorf("blur_relative must be >= 0, got %g", c.BlurRelative)
	case c.Threshold < 0 || c.Threshold > 1:
		return fmt.Errorf("threshold must be in [0,1], got %g", c.Threshold)
	case c.MinHoleArea < 1:
		return fmt.Errorf("min_hole_area must be >= 1, got %d", c.MinHoleArea)
	case c.MaxHoleArea < 0:
		return fmt.Errorf("max_hole_area must be >= 0, got %d", c.MaxHoleArea)
	case c.MaxHoleArea > 0 && c.MaxHoleArea < c.MinHoleArea:
		return fmt.Errorf("max_hole_area %d is below min_hole_area %d", c.MaxHoleArea, c.MinHoleArea)
	case c.Lookahead < 1:
		return fmt.Errorf("lookahead must be >= 1, got %d", c.Lookahead)
	case c.Multiplier <= 0:
		return fmt.Errorf("multiplier must be > 0, got %g", c.Multiplier)
	case c.Tolerance <= 0:
		return fmt.Errorf("tolerance must be > 0, got %g", c.Tolerance)
	case c.MaxIterations < 1:
		return fmt.Errorf("max_iterations must be >= 1, got %d", c.MaxIterations)
	}
	return nil
}

// Grouper returns the distance grouper configured by c.
func (c Config) Grouper() rows.Grouper {
	return rows.DistanceGrouper{Lookahead: c.Lookahead, Multiplier: c.Multiplier}
}
