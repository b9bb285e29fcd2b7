package detection

import (
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/sprocket-align/internal/blob"
)

var (
	// ErrNoStrip is returned when a binary image contains no film pixels.
	ErrNoStrip = errors.New("no film strip found")

	// ErrMultipleStrips is returned when more than one strip-sized film
	// component is found.
	ErrMultipleStrips = errors.New("more than one film strip found")
)

// stripShare is the minimum size of a second film component, relative to the
// largest, for it to count as another strip rather than dust.
const stripShare = 0.25

// HolesResult is the outcome of DetectSprocketHoles.
type HolesResult struct {
	// Holes in raster scan order of their first pixel.
	Holes []*blob.Region

	// Strip is the bounding rectangle of the film.
	Strip image.Rectangle

	// StripArea is the film's pixel count.
	StripArea int

	// Rejected counts enclosed dark components smaller than the minimum area.
	Rejected int
}

// component is a connected set of pixels sharing one value.
type component struct {
	pixels   []image.Point
	border   bool // touches the image edge
	bounds   image.Rectangle
	adjacent []image.Point // neighbours of the other value, dark components only
}

// DetectSprocketHoles finds the sprocket holes in a binarized strip.
//
// bw must show the film in white and both the background and the holes in
// black, which is what imaging.Binarize produces with invert set. The scan
// should be padded first (imaging.AddBorder) so the background surrounds the
// strip.
//
// Film pixels are joined with 8-connectivity and dark pixels with
// 4-connectivity. The largest film component is the strip; a hole is a dark
// component that does not touch the image edge, borders only the strip and
// has at least minArea pixels.
//
// DetectSprocketHoles returns ErrNoStrip if there are no film pixels and
// ErrMultipleStrips if a second film component is at least a quarter the
// size of the first.
func DetectSprocketHoles(bw *image.Gray, minArea int) (*HolesResult, error) {
	if minArea < 1 {
		minArea = 1
	}

	bounds := bw.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("detect sprocket holes: empty image: %w", ErrNoStrip)
	}

	isFilm := func(x, y int) bool {
		return bw.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y >= 128
	}

	labels := make([][]int, height)
	for y := range labels {
		labels[y] = make([]int, width)
		for x := range labels[y] {
			labels[y][x] = -1
		}
	}

	var comps []*component
	var film, dark []int
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if labels[y][x] >= 0 {
				continue
			}
			id := len(comps)
			white := isFilm(x, y)
			c := floodFill(isFilm, labels, x, y, width, height, white, id)
			comps = append(comps, c)
			if white {
				film = append(film, id)
			} else {
				dark = append(dark, id)
			}
		}
	}

	if len(film) == 0 {
		return nil, fmt.Errorf("detect sprocket holes: %w", ErrNoStrip)
	}

	strip := film[0]
	for _, id := range film[1:] {
		if len(comps[id].pixels) > len(comps[strip].pixels) {
			strip = id
		}
	}
	stripArea := len(comps[strip].pixels)
	for _, id := range film {
		if id != strip && float64(len(comps[id].pixels)) >= stripShare*float64(stripArea) {
			return nil, fmt.Errorf("detect sprocket holes: components of %d and %d pixels: %w",
				stripArea, len(comps[id].pixels), ErrMultipleStrips)
		}
	}

	res := &HolesResult{
		Strip:     comps[strip].bounds.Add(bounds.Min),
		StripArea: stripArea,
	}
	for _, id := range dark {
		c := comps[id]
		if c.border || !enclosedBy(c, labels, strip) {
			continue
		}
		if len(c.pixels) < minArea {
			res.Rejected++
			continue
		}

		pixels := c.pixels
		if bounds.Min != (image.Point{}) {
			pixels = make([]image.Point, len(c.pixels))
			for i, p := range c.pixels {
				pixels[i] = p.Add(bounds.Min)
			}
		}
		region, err := blob.NewRegion(pixels)
		if err != nil {
			return nil, fmt.Errorf("detect sprocket holes: %w", err)
		}
		res.Holes = append(res.Holes, region)
	}

	return res, nil
}

// enclosedBy reports whether every film pixel next to c belongs to strip.
func enclosedBy(c *component, labels [][]int, strip int) bool {
	for _, q := range c.adjacent {
		if labels[q.Y][q.X] != strip {
			return false
		}
	}
	return len(c.adjacent) > 0
}

// floodFill labels the component containing (startX, startY) with id, using
// 8-connectivity for film and 4-connectivity for dark pixels. Dark
// components remember their film neighbours; those may not be labelled yet.
func floodFill(isFilm func(x, y int) bool, labels [][]int, startX, startY, width, height int, white bool, id int) *component {
	c := &component{
		bounds: image.Rect(startX, startY, startX+1, startY+1),
	}

	var neighbours []image.Point
	if white {
		neighbours = []image.Point{
			{X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
			{X: -1, Y: 0}, {X: 1, Y: 0},
			{X: -1, Y: 1}, {X: 0, Y: 1}, {X: 1, Y: 1},
		}
	} else {
		neighbours = []image.Point{{X: 0, Y: -1}, {X: -1, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}
	}

	labels[startY][startX] = id
	stack := []image.Point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		c.pixels = append(c.pixels, p)
		c.bounds = c.bounds.Union(image.Rect(p.X, p.Y, p.X+1, p.Y+1))
		if p.X == 0 || p.Y == 0 || p.X == width-1 || p.Y == height-1 {
			c.border = true
		}

		for _, d := range neighbours {
			q := p.Add(d)
			if q.X < 0 || q.X >= width || q.Y < 0 || q.Y >= height {
				continue
			}
			if isFilm(q.X, q.Y) != white {
				if !white {
					c.adjacent = append(c.adjacent, q)
				}
				continue
			}
			if labels[q.Y][q.X] >= 0 {
				continue
			}
			labels[q.Y][q.X] = id
			stack = append(stack, q)
		}
	}

	return c
}
