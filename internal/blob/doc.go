// Package blob adapts detected shapes into the read-only view the row
// clustering and line fitting code needs.
//
// A Blob exposes a center point, four extreme points, a bounding box and an
// area. Two concrete kinds are provided:
//
//   - Outline: an ordered polygon, as produced by a contour tracer. Its center
//     is the polygon centroid computed from first-order moments.
//   - Region: a set of pixels, as produced by connected-component labelling.
//     Its center is the pixel centroid.
//
// Both are immutable. Every derived value is computed once by the
// constructor, so repeated Center calls during clustering cost nothing.
//
// # Extreme Points
//
// Extreme points are chosen along a single axis (topmost = smallest Y, and so
// on). Ties go to the first point in the source ordering.
package blob
