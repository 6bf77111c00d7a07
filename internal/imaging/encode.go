package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Output formats supported by Encode.
const (
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
)

// ErrUnsupportedMimeType is returned when encoding to a format other than
// JPEG or PNG.
var ErrUnsupportedMimeType = errors.New("unsupported mime type")

// EncodeOptions controls Encode.
type EncodeOptions struct {
	// JPEGQuality is 1-100. Zero means 90.
	JPEGQuality int

	// Background is painted under the image before JPEG encoding, since JPEG
	// has no alpha channel. Nil means white.
	Background color.Color
}

// EncodeResult contains an encoded clip.
type EncodeResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64,omitempty"`
	MimeType    string `json:"mime_type"`
}

// Encode encodes img as JPEG or PNG.
func Encode(img image.Image, mimeType string, opts EncodeOptions) ([]byte, error) {
	var buf bytes.Buffer
	switch mimeType {
	case MimeJPEG:
		quality := opts.JPEGQuality
		if quality == 0 {
			quality = 90
		}
		if err := imaging.Encode(&buf, Flatten(img, opts.Background), imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return nil, fmt.Errorf("failed to encode jpeg: %w", err)
		}
	case MimePNG:
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return nil, fmt.Errorf("failed to encode png: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMimeType, mimeType)
	}
	return buf.Bytes(), nil
}

// Flatten composites img over an opaque background.
func Flatten(img image.Image, bg color.Color) *image.NRGBA {
	if bg == nil {
		bg = color.White
	}
	b := img.Bounds()
	base := imaging.New(b.Dx(), b.Dy(), bg)
	return imaging.Overlay(base, img, image.Point{}, 1.0)
}

// NewEncodeResult wraps encoded bytes for JSON transport.
func NewEncodeResult(data []byte, mimeType string, width, height int) *EncodeResult {
	return &EncodeResult{
		Width:       width,
		Height:      height,
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    mimeType,
	}
}

// DetectMimeType reports the mime type of encoded image data from its header.
func DetectMimeType(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to detect image format: %w", err)
	}
	return "image/" + format, nil
}
