package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// DefaultLanguage is used when Options.Language is empty.
const DefaultLanguage = "eng"

// EdgePrintWhitelist holds the characters found in film edge print:
// manufacturer and stock names, frame numbers and DX arrows.
const EdgePrintWhitelist = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-+<>"

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// TextRegion is one recognized word with its location and OCR confidence.
type TextRegion struct {
	Text string `json:"text"`

	// Confidence is the OCR confidence score (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	// Bounds is the word's bounding box in the source image.
	Bounds Bounds `json:"bounds"`
}

// OCRResult contains the text read from one band.
type OCRResult struct {
	// FullText is all recognized text with Tesseract's spacing and newlines.
	FullText string `json:"full_text"`

	// Regions contains individual words. It may be empty when bounding box
	// extraction fails; the text is still in FullText.
	Regions []TextRegion `json:"regions"`
}

// Options controls how a band is prepared for Tesseract.
type Options struct {
	// Language is the Tesseract language code. Empty means DefaultLanguage.
	Language string

	// Scale enlarges the band before recognition. Edge print is only a few
	// pixels tall at common scan resolutions. Values below 1 mean 1.
	Scale int

	// Invert turns light print on dark film into dark on light.
	Invert bool

	// Flip rotates the band by 180°, for print along the far edge.
	Flip bool

	// Whitelist restricts recognized characters. Empty allows all.
	Whitelist string
}

// DefaultOptions returns options suited to edge print on scanned negatives.
func DefaultOptions() Options {
	return Options{
		Language:  DefaultLanguage,
		Scale:     3,
		Whitelist: EdgePrintWhitelist,
	}
}

func (o Options) scale() int {
	if o.Scale < 1 {
		return 1
	}
	return o.Scale
}

func (o Options) language() string {
	if o.Language == "" {
		return DefaultLanguage
	}
	return o.Language
}

// Prepare crops r from img and applies the options: grayscale, optional
// inversion, enlargement and optional flip. The result is what Tesseract
// sees.
func Prepare(img image.Image, r image.Rectangle, opts Options) (*image.NRGBA, error) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return nil, fmt.Errorf("band %v does not overlap image bounds %v", r, img.Bounds())
	}

	band := imaging.Grayscale(imaging.Crop(img, r))
	if opts.Invert {
		band = imaging.Invert(band)
	}
	if s := opts.scale(); s > 1 {
		band = imaging.Resize(band, r.Dx()*s, r.Dy()*s, imaging.Lanczos)
	}
	if opts.Flip {
		band = imaging.Rotate180(band)
	}
	return band, nil
}

// ReadRegion reads the text in rectangle r of img.
//
// Word bounds are returned in img's coordinates: scaling and flipping applied
// by Prepare are undone and r's origin is added back. If word-level boxes
// cannot be extracted, the result still carries FullText.
func ReadRegion(img image.Image, r image.Rectangle, opts Options) (*OCRResult, error) {
	r = r.Intersect(img.Bounds())
	band, err := Prepare(img, r, opts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, band); err != nil {
		return nil, fmt.Errorf("failed to encode band: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(opts.language()); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if opts.Whitelist != "" {
		if err := client.SetWhitelist(opts.Whitelist); err != nil {
			return nil, fmt.Errorf("failed to set whitelist: %w", err)
		}
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return nil, fmt.Errorf("failed to set page segmentation: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return &OCRResult{FullText: text, Regions: []TextRegion{}}, nil
	}

	size := band.Bounds().Size()
	regions := make([]TextRegion, 0, len(boxes))
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		regions = append(regions, TextRegion{
			Text:       box.Word,
			Confidence: float64(box.Confidence) / 100.0,
			Bounds:     sourceBounds(box.Box, size, opts.scale(), opts.Flip, r.Min),
		})
	}

	return &OCRResult{FullText: text, Regions: regions}, nil
}

// sourceBounds maps a box found in a prepared band of the given size back to
// the source image.
func sourceBounds(box image.Rectangle, size image.Point, scale int, flip bool, origin image.Point) Bounds {
	if flip {
		box = image.Rectangle{
			Min: image.Pt(size.X-box.Max.X, size.Y-box.Max.Y),
			Max: image.Pt(size.X-box.Min.X, size.Y-box.Min.Y),
		}
	}
	ceilDiv := func(v int) int { return (v + scale - 1) / scale }
	return Bounds{
		X1: origin.X + box.Min.X/scale,
		Y1: origin.Y + box.Min.Y/scale,
		X2: origin.X + ceilDiv(box.Max.X),
		Y2: origin.Y + ceilDiv(box.Max.Y),
	}
}
