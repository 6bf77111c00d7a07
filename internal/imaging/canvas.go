package imaging

import (
	"image"
	"image/draw"

	"golang.org/x/image/vector"

	"github.com/ironsheep/region-clip-mcp/internal/geometry"
)

// CompositeOp selects how newly drawn pixels combine with a canvas.
//
// The semantics follow the 2D canvas model with premultiplied alpha, where
// S is the drawn source and D the current canvas content:
//   - SourceOver: S + D*(1-Sa)
//   - DestinationOut: D*(1-Sa)
//   - SourceIn: S*Da, applied to the whole canvas, so pixels outside the
//     drawn source become transparent
type CompositeOp int

const (
	SourceOver CompositeOp = iota
	DestinationOut
	SourceIn
)

func (op CompositeOp) String() string {
	switch op {
	case SourceOver:
		return "source-over"
	case DestinationOut:
		return "destination-out"
	case SourceIn:
		return "source-in"
	}
	return "unknown"
}

// Canvas is the minimal drawing surface the compositor needs. Coordinates are
// canvas pixels with the origin at the top-left corner.
type Canvas interface {
	// Bounds returns the canvas rectangle, always anchored at (0,0).
	Bounds() image.Rectangle

	// SetCompositeOp sets the mode used by subsequent fills and draws.
	SetCompositeOp(op CompositeOp)

	// FillPolygon fills the closed path through pts with opaque black.
	FillPolygon(pts []geometry.Point)

	// DrawImage draws src with its top-left corner at the given point.
	DrawImage(src image.Image, at image.Point)

	// Image returns the current canvas content.
	Image() image.Image
}

// CanvasFactory allocates a blank, fully transparent canvas.
type CanvasFactory func(width, height int) Canvas

// RasterCanvas is a Canvas backed by an *image.RGBA. Polygon coverage is
// computed with an anti-aliasing vector rasterizer.
type RasterCanvas struct {
	dst *image.RGBA
	op  CompositeOp
}

// NewRasterCanvas creates a transparent width×height canvas.
func NewRasterCanvas(width, height int) *RasterCanvas {
	return &RasterCanvas{dst: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// Bounds implements Canvas.
func (c *RasterCanvas) Bounds() image.Rectangle {
	return c.dst.Bounds()
}

// SetCompositeOp implements Canvas.
func (c *RasterCanvas) SetCompositeOp(op CompositeOp) {
	c.op = op
}

// FillPolygon implements Canvas.
func (c *RasterCanvas) FillPolygon(pts []geometry.Point) {
	if len(pts) == 0 {
		return
	}
	b := c.dst.Bounds()

	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		z.LineTo(float32(p.X), float32(p.Y))
	}
	z.ClosePath()

	coverage := image.NewAlpha(b)
	z.Draw(coverage, b, image.Opaque, image.Point{})

	layer := image.NewRGBA(b)
	draw.DrawMask(layer, b, image.Black, image.Point{}, coverage, image.Point{}, draw.Src)
	c.composite(layer)
}

// DrawImage implements Canvas.
func (c *RasterCanvas) DrawImage(src image.Image, at image.Point) {
	b := c.dst.Bounds()
	layer := image.NewRGBA(b)
	sb := src.Bounds()
	draw.Draw(layer, sb.Sub(sb.Min).Add(at), src, sb.Min, draw.Src)
	c.composite(layer)
}

// Image implements Canvas.
func (c *RasterCanvas) Image() image.Image {
	return c.dst
}

// RGBA returns the backing image.
func (c *RasterCanvas) RGBA() *image.RGBA {
	return c.dst
}

// composite merges a full-canvas source layer into the canvas using the
// current composite op. layer has the same bounds and stride as c.dst.
func (c *RasterCanvas) composite(layer *image.RGBA) {
	switch c.op {
	case DestinationOut:
		d := c.dst.Pix
		for i := 0; i < len(d); i += 4 {
			f := 255 - uint32(layer.Pix[i+3])
			d[i+0] = mul8(d[i+0], f)
			d[i+1] = mul8(d[i+1], f)
			d[i+2] = mul8(d[i+2], f)
			d[i+3] = mul8(d[i+3], f)
		}
	case SourceIn:
		d := c.dst.Pix
		for i := 0; i < len(d); i += 4 {
			da := uint32(d[i+3])
			d[i+0] = mul8(layer.Pix[i+0], da)
			d[i+1] = mul8(layer.Pix[i+1], da)
			d[i+2] = mul8(layer.Pix[i+2], da)
			d[i+3] = mul8(layer.Pix[i+3], da)
		}
	default:
		draw.Draw(c.dst, c.dst.Bounds(), layer, image.Point{}, draw.Over)
	}
}

// mul8 returns v*f/255 rounded to nearest.
func mul8(v uint8, f uint32) uint8 {
	return uint8((uint32(v)*f + 127) / 255)
}
