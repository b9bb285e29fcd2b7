// Package ocr reads film edge print with Tesseract.
//
// 35mm stock carries latent-image print between the sprocket holes and the
// film edge, such as the stock code and frame numbers. Once a strip is
// level, strip.EdgeBands locates those bands and ReadRegion recognizes them.
//
// # Prerequisites
//
// Tesseract and its language data must be installed, as gosseract links
// against libtesseract:
//   - Ubuntu/Debian: apt-get install libtesseract-dev tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// # Preparation
//
// Edge print is small and often low in contrast, so a band is prepared
// before recognition (see Prepare). It is converted to grayscale, optionally
// inverted, enlarged by Options.Scale and optionally rotated by 180°. Word bounds are mapped back to the source image, so they
// can be drawn over the scan directly.
//
// The band is handed to Tesseract as an in-memory PNG; no temporary files
// are written.
package ocr
