// Package strip estimates and corrects the rotation of a scanned film strip
// from its two rows of sprocket holes.
//
// EstimateStripAngle is the core: given the blobs of the top and bottom rows
// it fits a line through each row's centers and returns the mean of the two
// line angles. Physical rows on a flat strip are parallel, so averaging only
// removes measurement noise. SplitRows turns a flat list of holes into those
// two rows with any rows.Grouper and fails with ErrUnexpectedGroupCount when
// the grouping does not produce exactly two.
//
// Straightener wraps the full pipeline around a decoded scan:
//
//	pad → blur → binarize → detect holes → split rows → estimate angle → rotate
//
// It repeats the measurement on the rotated image until the residual angle is
// below Config.Tolerance or Config.MaxIterations is reached. There is no
// fallback: any failure aborts and is returned to the caller.
//
// Angles are in radians throughout, positive when the rows descend to the
// right. Rotating the image counter-clockwise by that angle levels the strip.
package strip
