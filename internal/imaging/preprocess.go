package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
)

// BorderWidth returns the border width for an image with the given bounds:
// the larger dimension times percent, rounded up, but never less than minimum.
func BorderWidth(bounds image.Rectangle, percent float64, minimum int) int {
	maxDim := bounds.Dx()
	if bounds.Dy() > maxDim {
		maxDim = bounds.Dy()
	}
	w := int(math.Ceil(float64(maxDim) * percent))
	if w < minimum {
		return minimum
	}
	return w
}

// AddBorder returns a copy of img padded on every side with c.
//
// Parameters:
//   - img: Source image.
//   - c: Border color.
//   - percent: Border width relative to the larger image dimension (>= 0).
//   - minimum: Minimum border width in pixels (>= 1).
//
// The result is larger than the source by twice the border width in each
// dimension and its bounds start at (0, 0).
func AddBorder(img image.Image, c color.Color, percent float64, minimum int) (*image.NRGBA, error) {
	if minimum < 1 {
		return nil, fmt.Errorf("minimum border width must be >= 1, got %d", minimum)
	}
	if percent < 0 {
		return nil, fmt.Errorf("border percentage must be >= 0, got %g", percent)
	}

	bounds := img.Bounds()
	w := BorderWidth(bounds, percent, minimum)

	canvas := imaging.New(bounds.Dx()+2*w, bounds.Dy()+2*w, c)
	return imaging.Paste(canvas, img, image.Pt(w, w)), nil
}

// BlurSize returns the blur kernel size for an image with the given bounds.
// With relative > 0 the size is the larger dimension times relative, rounded
// up; otherwise it is absolute. Either way it is at least 1.
func BlurSize(bounds image.Rectangle, absolute int, relative float64) int {
	size := absolute
	if relative > 0 {
		maxDim := bounds.Dx()
		if bounds.Dy() > maxDim {
			maxDim = bounds.Dy()
		}
		size = int(math.Ceil(float64(maxDim) * relative))
		if size < absolute {
			size = absolute
		}
	}
	if size < 1 {
		size = 1
	}
	return size
}

// Blur applies a box blur with a kernel of roughly size×size pixels. A size
// of 1 returns an unblurred copy.
func Blur(img image.Image, size int) image.Image {
	if size <= 1 {
		return imaging.Clone(img)
	}
	return blur.Box(img, float64(size-1)/2)
}

// Binarize converts img to a black and white image.
//
// Pixels whose luminance is strictly above threshold×255 become white and all
// others black. With invert set the result is flipped, which is what hole
// detection needs: the bright scanner background and the holes turn black and
// the film turns white.
//
// threshold must be in [0, 1].
func Binarize(img image.Image, threshold float64, invert bool) (*image.Gray, error) {
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("threshold must be in [0,1], got %g", threshold)
	}

	// segment.Threshold ranks pixels with the same weights as grayOf and
	// keeps ranks >= level; strictly above threshold means level+1.
	level := int(threshold * 255)
	var bw *image.Gray
	if level >= 255 {
		bw = image.NewGray(img.Bounds())
	} else {
		bw = segment.Threshold(img, uint8(level+1))
	}

	if !invert {
		return bw, nil
	}
	return segment.Threshold(effect.Invert(bw), 128), nil
}

// Rotate turns img counter-clockwise by angle radians around its center. The
// canvas grows to fit the rotated image and uncovered areas are filled with bg.
func Rotate(img image.Image, angle float64, bg color.Color) *image.NRGBA {
	return imaging.Rotate(img, angle*180/math.Pi, bg)
}
