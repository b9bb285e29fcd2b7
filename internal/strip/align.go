package strip

import (
	"fmt"

	"github.com/ironsheep/sprocket-align/internal/blob"
	"github.com/ironsheep/sprocket-align/internal/geometry"
	"github.com/ironsheep/sprocket-align/internal/rows"
)

// RowLine fits a line through the centers of a row of holes. Centers are
// ordered left to right first, because grouping may discover a row from the
// middle outwards.
func RowLine(row []blob.Blob) (geometry.Line, error) {
	return geometry.FitLine(blob.SortByX(blob.Centers(row)))
}

// EstimateStripAngle returns the strip's rotation in radians: the mean of
// the angles of the lines fitted through the top and bottom rows. A positive
// angle means the rows descend to the right.
//
// Errors from line fitting are returned unchanged.
func EstimateStripAngle(top, bottom []blob.Blob) (float64, error) {
	angle, _, _, err := estimate(top, bottom)
	return angle, err
}

// estimate is EstimateStripAngle that also returns both row lines.
func estimate(top, bottom []blob.Blob) (float64, geometry.Line, geometry.Line, error) {
	topLine, err := RowLine(top)
	if err != nil {
		return 0, geometry.Line{}, geometry.Line{}, err
	}
	bottomLine, err := RowLine(bottom)
	if err != nil {
		return 0, geometry.Line{}, geometry.Line{}, err
	}
	angle := (geometry.Angle(topLine) + geometry.Angle(bottomLine)) / 2
	return angle, topLine, bottomLine, nil
}

// SplitRows groups blobs with g and returns the top and bottom rows. The row
// whose centers have the smaller mean y is the top one.
//
// SplitRows returns an *UnexpectedGroupCountError unless g yields exactly two
// groups. Errors from g are returned unchanged.
func SplitRows(blobs []blob.Blob, g rows.Grouper) (top, bottom []blob.Blob, err error) {
	groups, err := g.Group(blobs)
	if err != nil {
		return nil, nil, err
	}
	if len(groups) != 2 {
		return nil, nil, &UnexpectedGroupCountError{Got: len(groups), Want: 2}
	}

	top, bottom = groups[0], groups[1]
	if blob.MeanY(bottom) < blob.MeanY(top) {
		top, bottom = bottom, top
	}
	return top, bottom, nil
}

// Orientation describes how a measured strip is rotated.
func Orientation(angle, tolerance float64) string {
	switch {
	case angle > -tolerance && angle < tolerance:
		return "level"
	case angle > 0:
		return fmt.Sprintf("descends %.3f° to the right", geometry.Degrees(angle))
	default:
		return fmt.Sprintf("rises %.3f° to the right", -geometry.Degrees(angle))
	}
}
