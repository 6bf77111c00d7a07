// Package extract runs the clip pipeline: a region of an oriented image is
// clipped, encoded and stamped with its rights packet, and can then be stored
// under an object path derived from its extracted-part key.
package extract

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/ironsheep/region-clip-mcp/internal/config"
	"github.com/ironsheep/region-clip-mcp/internal/embed"
	"github.com/ironsheep/region-clip-mcp/internal/imaging"
	"github.com/ironsheep/region-clip-mcp/internal/logger"
	"github.com/ironsheep/region-clip-mcp/internal/region"
	"github.com/ironsheep/region-clip-mcp/internal/xmp"
)

// Options are the pipeline defaults applied to every request.
type Options struct {
	// MimeType is used when a request leaves it empty. Empty means JPEG.
	MimeType string

	// JPEGQuality is 1-100. Zero means 90.
	JPEGQuality int

	// Background is painted under transparent pixels of JPEG output.
	Background color.Color

	// Rights is merged under the rights of every request.
	Rights xmp.Rights

	AllowMissingLicense bool
}

// OptionsFromConfig converts the loaded configuration.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	bg, err := cfg.BackgroundColor()
	if err != nil {
		return Options{}, err
	}
	return Options{
		MimeType:            cfg.Output.MimeType,
		JPEGQuality:         cfg.Output.JPEGQuality,
		Background:          bg,
		Rights:              cfg.Rights.Defaults,
		AllowMissingLicense: cfg.Rights.AllowMissingLicense,
	}, nil
}

// Request is a single extraction.
type Request struct {
	Image    *imaging.OrientedImage
	Boundary *region.Boundary
	MimeType string
	Rights   xmp.Rights

	// AllowMissingLicense permits an empty licence for this request even
	// when the extractor's options do not.
	AllowMissingLicense bool
}

// Result is an encoded clip carrying its rights packet.
type Result struct {
	RegionKey string
	Data      []byte
	MimeType  string
	Width     int
	Height    int
}

// Extractor runs extractions. It holds no per-request state and may be used
// from several goroutines.
type Extractor struct {
	compositor *imaging.Compositor
	opts       Options
}

// New returns an extractor that draws on raster canvases.
func New(opts Options) *Extractor {
	return NewWithCompositor(imaging.NewCompositor(), opts)
}

// NewWithCompositor returns an extractor that draws with c.
func NewWithCompositor(c *imaging.Compositor, opts Options) *Extractor {
	if opts.MimeType == "" {
		opts.MimeType = imaging.MimeJPEG
	}
	return &Extractor{compositor: c, opts: opts}
}

// Extract clips, encodes and embeds. Nothing is returned unless every step
// succeeds.
func (e *Extractor) Extract(req Request) (*Result, error) {
	if req.Image == nil || req.Boundary == nil {
		return nil, errors.New("extract: image and boundary are required")
	}

	mimeType := req.MimeType
	if mimeType == "" {
		mimeType = e.opts.MimeType
	}
	rights := e.opts.Rights.Merge(req.Rights)
	allowMissing := e.opts.AllowMissingLicense || req.AllowMissingLicense
	if rights.License == "" && !allowMissing {
		return nil, embed.ErrMissingLicense
	}

	key, _ := req.Boundary.Key()
	logger.Debug("extracting region %s from %dx%d image (%s)",
		key, req.Image.Width(), req.Image.Height(), req.Image.Orientation())

	canvas, err := e.compositor.Clip(req.Image, req.Boundary)
	if err != nil {
		return nil, err
	}
	clipped := canvas.Image()

	data, err := imaging.Encode(clipped, mimeType, imaging.EncodeOptions{
		JPEGQuality: e.opts.JPEGQuality,
		Background:  e.opts.Background,
	})
	if err != nil {
		return nil, err
	}

	data, err = embed.Serialize(data, mimeType, rights, allowMissing)
	if err != nil {
		return nil, fmt.Errorf("failed to embed rights: %w", err)
	}

	b := clipped.Bounds()
	logger.Debug("region %s: %dx%d %s, %d bytes", key, b.Dx(), b.Dy(), mimeType, len(data))
	return &Result{
		RegionKey: key,
		Data:      data,
		MimeType:  mimeType,
		Width:     b.Dx(),
		Height:    b.Dy(),
	}, nil
}
