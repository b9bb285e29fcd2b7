// Package detection finds sprocket holes in a binarized film strip.
//
// The input is a black and white image in which the film is white and both
// the scanner background and the holes punched through the film are black.
// imaging.AddBorder followed by imaging.Binarize with invert set produces
// exactly that from a scan.
//
// # Algorithm
//
// DetectSprocketHoles labels every connected component of the image with an
// explicit-stack flood fill. Film components are 8-connected and dark
// components 4-connected, so a diagonal gap never joins a hole to the
// background. The largest film component is taken as the strip. A dark
// component is a hole when it:
//
//   - does not touch the image edge
//   - borders only strip pixels
//   - has at least the requested minimum area
//
// Holes are returned as blob.Region values in raster scan order of their
// first pixel, ready for row grouping.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - Rectangles use inclusive top-left and exclusive bottom-right
//
// # Performance Considerations
//
// Detection visits every pixel once and keeps one int label per pixel, so
// memory grows with the image. The strip angle does not depend on scale, so
// very large scans can be measured on a downscaled copy.
package detection
