package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"

	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/sprocket-align/internal/geometry"
)

// OverlayGroup is a set of detected holes drawn in a shared color.
type OverlayGroup struct {
	Centers []geometry.Point
	Boxes   []image.Rectangle
}

// Overlay describes what DrawOverlay should draw on top of an image.
type Overlay struct {
	Groups []OverlayGroup
	Lines  []geometry.Line

	// LineColor is a hex color like "#FF0000" or "#FF000080".
	// Defaults to opaque red.
	LineColor string

	// MarkerRadius is the half-length of the cross drawn on each center.
	// Defaults to 4.
	MarkerRadius int

	// LabelGroups draws each group's index next to its first center.
	LabelGroups bool
}

// GroupPalette returns n visually distinct colors, evenly spaced in hue.
func GroupPalette(n int) []color.Color {
	out := make([]color.Color, n)
	for i := range out {
		out[i] = colorful.Hcl(360*float64(i)/math.Max(1, float64(n)), 0.6, 0.65).Clamped()
	}
	return out
}

// DrawOverlay returns a copy of img with hole groups and fitted lines drawn on
// it. Each group gets its own color from GroupPalette: a cross on every center
// and an outline around every box. Lines are clipped to the image.
func DrawOverlay(img image.Image, o Overlay) (*image.RGBA, error) {
	lineColor := color.Color(color.RGBA{255, 0, 0, 255})
	if o.LineColor != "" {
		c, err := parseHexColor(o.LineColor)
		if err != nil {
			return nil, fmt.Errorf("invalid line color %q: %w", o.LineColor, err)
		}
		lineColor = c
	}
	radius := o.MarkerRadius
	if radius <= 0 {
		radius = 4
	}

	bounds := img.Bounds()
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)

	palette := GroupPalette(len(o.Groups))
	for i, g := range o.Groups {
		c := palette[i]
		for _, r := range g.Boxes {
			drawRect(result, r, c)
		}
		for _, p := range g.Centers {
			drawCross(result, p.Image(), radius, c)
		}
		if o.LabelGroups && len(g.Centers) > 0 {
			at := g.Centers[0].Image()
			drawLabel(result, at.X+radius+2, at.Y+radius+2, strconv.Itoa(i),
				color.RGBA{255, 255, 255, 255}, color.RGBA{0, 0, 0, 180})
		}
	}

	box := geometry.FromRect(bounds)
	for _, l := range o.Lines {
		p1, p2, ok := geometry.ToSegment(l, box)
		if !ok {
			continue
		}
		drawSegment(result, p1, p2, lineColor)
	}

	return result, nil
}

// drawSegment plots the straight segment p1-p2 one pixel per step along the
// longer axis.
func drawSegment(img *image.RGBA, p1, p2 geometry.Point, c color.Color) {
	dx, dy := p2.X-p1.X, p2.Y-p1.Y
	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	if steps == 0 {
		img.Set(p1.Image().X, p1.Image().Y, c)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		p := geometry.Pt(p1.X+t*dx, p1.Y+t*dy).Image()
		img.Set(p.X, p.Y, c)
	}
}

func drawCross(img *image.RGBA, at image.Point, radius int, c color.Color) {
	for d := -radius; d <= radius; d++ {
		img.Set(at.X+d, at.Y, c)
		img.Set(at.X, at.Y+d, c)
	}
}

// drawRect outlines r, whose Max corner is exclusive.
func drawRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	for x := r.Min.X; x < r.Max.X; x++ {
		img.Set(x, r.Min.Y, c)
		img.Set(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.Set(r.Min.X, y, c)
		img.Set(r.Max.X-1, y, c)
	}
}

// parseHexColor parses "#RRGGBB", "#RGB" or "#RRGGBBAA".
func parseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] != '#' {
		hex = "#" + hex
	}

	alpha := uint8(255)
	if len(hex) == 9 {
		a, err := strconv.ParseUint(hex[7:], 16, 8)
		if err != nil {
			return color.RGBA{}, err
		}
		alpha = uint8(a)
		hex = hex[:7]
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: alpha}, nil
}

// drawLabel draws text on a filled background with its top left corner at
// (x, y).
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.P(x, y+face.Ascent),
	}

	width := d.MeasureString(text).Ceil()
	box := image.Rect(x-1, y-1, x+width+1, y+face.Height+1).Intersect(img.Bounds())
	draw.Draw(img, box, image.NewUniform(bg), image.Point{}, draw.Over)

	d.DrawString(text)
}
