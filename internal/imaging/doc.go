// Package imaging provides the pixel-level operations around sprocket-hole
// detection: loading scans, padding, blurring, binarizing, rotating, cropping,
// sampling and drawing debug overlays.
//
// All operations work with standard Go image.Image types and use a coordinate
// system where (0,0) is at the top-left corner, X increases rightward, and Y
// increases downward.
//
// # Preprocessing
//
// A scanned negative is prepared for hole detection in three steps:
//
//  1. AddBorder pads the scan with a white frame so the strip is always
//     surrounded by background, even when it touches the scan edge
//  2. Blur smooths film grain and dust with a box filter
//  3. Binarize converts to grayscale and thresholds; with invert set, the
//     bright background and holes become black and the strip white
//
// Border and blur sizes can be absolute or relative to the larger image
// dimension (see BorderWidth and BlurSize), so the same settings work for
// small previews and full-resolution scans.
//
// # Rotation
//
// Rotate turns an image counter-clockwise by an angle in radians and fills the
// uncovered corners with a background color. A strip whose rows descend to
// the right has a positive angle; rotating by that same angle levels it.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Individual image operations
// are stateless and can be called concurrently on different images.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Coordinates outside image bounds
//   - Out-of-range sizes and thresholds
//   - File I/O errors during image loading
//   - Encoding errors during image output
package imaging
