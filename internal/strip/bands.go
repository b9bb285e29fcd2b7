package strip

import (
	"fmt"
	"image"
	"math"

	"github.com/ironsheep/sprocket-align/internal/blob"
)

// EdgeBands returns the bands of film between each hole row and the
// nearest strip edge, where 35mm stock carries its edge print.
//
// stripRect is the strip's bounding rectangle. The upper band runs from its
// top to the highest point of the top row, the lower band from the lowest
// point of the bottom row to its bottom. Both span the full strip width and
// either may be empty. The strip should be level first, or the bands cut
// into the holes.
func EdgeBands(stripRect image.Rectangle, top, bottom []blob.Blob) (upper, lower image.Rectangle, err error) {
	if len(top) == 0 || len(bottom) == 0 {
		return image.Rectangle{}, image.Rectangle{}, fmt.Errorf("edge bands: both rows must be non-empty")
	}

	topEdge := math.Inf(1)
	for _, p := range blob.ExtremePoints(top, blob.Top) {
		topEdge = math.Min(topEdge, p.Y)
	}
	bottomEdge := math.Inf(-1)
	for _, p := range blob.ExtremePoints(bottom, blob.Bottom) {
		bottomEdge = math.Max(bottomEdge, p.Y)
	}

	// Literal rectangles are not canonicalized, so a row reaching past the
	// strip edge yields an empty band instead of a flipped one.
	upper = image.Rectangle{
		Min: image.Pt(stripRect.Min.X, stripRect.Min.Y),
		Max: image.Pt(stripRect.Max.X, int(math.Floor(topEdge))),
	}
	lower = image.Rectangle{
		Min: image.Pt(stripRect.Min.X, int(math.Floor(bottomEdge))+1),
		Max: image.Pt(stripRect.Max.X, stripRect.Max.Y),
	}
	return upper.Intersect(stripRect), lower.Intersect(stripRect), nil
}
