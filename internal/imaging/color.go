package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/stat"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// HSLColor represents a color in HSL space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// ColorResult describes a sampled pixel.
//
// Gray is the value the pixel takes after grayscale conversion, on the same
// 0-1 scale as the binarization threshold, so a sample of the scanner
// background and one of the film base show where the threshold should sit.
type ColorResult struct {
	X         int      `json:"x"`
	Y         int      `json:"y"`
	Label     string   `json:"label,omitempty"`
	Hex       string   `json:"hex"`
	RGB       RGBColor `json:"rgb"`
	HSL       HSLColor `json:"hsl"`
	Gray      float64  `json:"gray"`
	Lightness float64  `json:"lightness"` // CIE L*, 0-1
}

// LabeledPoint is a pixel coordinate with an optional label.
type LabeledPoint struct {
	X     int
	Y     int
	Label string
}

// grayOf matches the luminance weights used by Binarize.
func grayOf(c colorful.Color) float64 {
	return 0.3*c.R + 0.6*c.G + 0.1*c.B
}

// SampleColor returns the color at (x, y). Coordinates are 0-based from the
// top-left corner and must lie within the image bounds.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	if !image.Pt(x, y).In(img.Bounds()) {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	r, g, b, _ := img.At(x, y).RGBA()
	r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(b>>8)
	c, _ := colorful.MakeColor(color.NRGBA{R: r8, G: g8, B: b8, A: 255})

	h, s, l := c.Hsl()
	lightness, _, _ := c.Lab()

	return &ColorResult{
		X:   x,
		Y:   y,
		Hex: c.Hex(),
		RGB: RGBColor{R: r8, G: g8, B: b8},
		HSL: HSLColor{
			H: int(math.Round(h)),
			S: int(math.Round(s * 100)),
			L: int(math.Round(l * 100)),
		},
		Gray:      grayOf(c),
		Lightness: lightness,
	}, nil
}

// ThresholdSuggestion is the result of SuggestThreshold.
type ThresholdSuggestion struct {
	Threshold      float64        `json:"threshold"`
	BackgroundGray float64        `json:"background_gray"`
	FilmGray       float64        `json:"film_gray"`
	Samples        []*ColorResult `json:"samples"`
}

// SuggestThreshold samples points on the scanner background and on the film
// and returns a binarization threshold halfway between their mean gray
// values. The background must be brighter than the film.
func SuggestThreshold(img image.Image, background, film []LabeledPoint) (*ThresholdSuggestion, error) {
	if len(background) == 0 || len(film) == 0 {
		return nil, fmt.Errorf("need at least one background and one film sample")
	}

	res := &ThresholdSuggestion{}
	mean := func(points []LabeledPoint) (float64, error) {
		grays := make([]float64, 0, len(points))
		for _, p := range points {
			c, err := SampleColor(img, p.X, p.Y)
			if err != nil {
				return 0, err
			}
			c.Label = p.Label
			res.Samples = append(res.Samples, c)
			grays = append(grays, c.Gray)
		}
		return stat.Mean(grays, nil), nil
	}

	var err error
	if res.BackgroundGray, err = mean(background); err != nil {
		return nil, err
	}
	if res.FilmGray, err = mean(film); err != nil {
		return nil, err
	}
	if res.BackgroundGray <= res.FilmGray {
		return nil, fmt.Errorf("background gray %.3f is not brighter than film gray %.3f", res.BackgroundGray, res.FilmGray)
	}

	res.Threshold = (res.BackgroundGray + res.FilmGray) / 2
	return res, nil
}
