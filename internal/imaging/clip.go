package imaging

import (
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/region-clip-mcp/internal/geometry"
	"github.com/ironsheep/region-clip-mcp/internal/region"
)

// ErrInvalidRegion is returned when a region with an empty or zero-size
// bounding box is clipped.
var ErrInvalidRegion = errors.New("invalid region")

// Compositor renders region boundaries of oriented images onto canvases.
// The zero value uses RasterCanvas.
type Compositor struct {
	// NewCanvas allocates the destination and scratch canvases.
	NewCanvas CanvasFactory
}

// NewCompositor returns a compositor that draws on RasterCanvas.
func NewCompositor() *Compositor {
	return &Compositor{NewCanvas: newRasterCanvas}
}

func newRasterCanvas(width, height int) Canvas {
	return NewRasterCanvas(width, height)
}

// Clip renders the region of img described by rb onto a canvas the size of
// the region's bounding box.
//
// Every group is masked on its own scratch canvas: the first polygon is
// filled, each later polygon is cut out of the fill, and the oriented image is
// then kept only under the mask. Groups are drawn onto the destination in
// order with SourceOver, so they add up rather than mask each other. Pixels
// outside every group are transparent.
func (c *Compositor) Clip(img *OrientedImage, rb *region.Boundary) (Canvas, error) {
	bb := rb.BoundingBox()
	if bb.Width() <= 0 || bb.Height() <= 0 {
		return nil, fmt.Errorf("%w: bounding box is %dx%d", ErrInvalidRegion, bb.Width(), bb.Height())
	}
	box := bb.Rect()

	newCanvas := c.NewCanvas
	if newCanvas == nil {
		newCanvas = newRasterCanvas
	}

	dest := newCanvas(box.Dx(), box.Dy())
	for _, group := range rb.Groups() {
		if len(group) == 0 {
			continue
		}
		scratch := newCanvas(box.Dx(), box.Dy())
		for _, poly := range group {
			scratch.FillPolygon(translate(poly, box.Min))
			// Only the first polygon fills; the rest are holes.
			scratch.SetCompositeOp(DestinationOut)
		}
		scratch.SetCompositeOp(SourceIn)
		img.Render(scratch, box)

		dest.DrawImage(scratch.Image(), image.Point{})
	}
	return dest, nil
}

// ClipByRegion clips img with rb on raster canvases and returns the result.
func ClipByRegion(img *OrientedImage, rb *region.Boundary) (*image.RGBA, error) {
	canvas, err := NewCompositor().Clip(img, rb)
	if err != nil {
		return nil, err
	}
	return canvas.(*RasterCanvas).RGBA(), nil
}

func translate(poly region.Polygon, origin image.Point) []geometry.Point {
	pts := make([]geometry.Point, len(poly))
	for i, p := range poly {
		pts[i] = geometry.Pt(p.X-origin.X, p.Y-origin.Y)
	}
	return pts
}
