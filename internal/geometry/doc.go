// Package geometry provides the point and line primitives used to measure the
// skew of a film strip.
//
// # Coordinate System
//
// All coordinates use the image convention:
//   - Origin (0, 0) at the top-left corner
//   - X increases rightward
//   - Y increases downward
//
// Because Y grows downward, a line that descends from left to right has a
// positive gradient and a positive angle.
//
// # Line Representation
//
// A Line is either Finite, meaning y = gradient·x + displacement, or Vertical,
// meaning x = displacement. Vertical lines also carry the direction in which
// their source points were traversed (Down or Up). The kind is an explicit tag,
// so no caller ever has to compare a float against infinity to find out whether
// a line is vertical.
//
// # Line Fitting
//
// FitLine averages the normalized vertical component (the sine) of every
// segment between consecutive points instead of averaging raw rise/run. The
// result stays bounded as the orientation approaches 90°, and the vertical
// case is detected with a tolerance check instead of a division.
//
// Points are never re-sorted: their order encodes the direction of the line
// and therefore the sign of the angle.
//
// # Errors
//
//   - ErrInsufficientInput: fewer points than an operation needs
//   - ErrDegenerateInput: two points coincide
//
// Both are sentinels; match them with errors.Is.
package geometry
