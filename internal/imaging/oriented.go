package imaging

import (
	"fmt"
	"image"
	"sync"

	"github.com/anthonynsimon/bild/clone"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/region-clip-mcp/internal/orientation"
)

// PixelBuffer is raw, non-premultiplied RGBA pixel data, four bytes per pixel
// in row-major order. Decoders that produce bare pixel arrays hand them over
// in this form.
type PixelBuffer struct {
	Pix    []byte
	Width  int
	Height int
	// Stride is the byte distance between rows. Zero means Width*4.
	Stride int
}

// OrientedImage is a physically stored image together with the orientation
// that turns it upright.
//
// Width and Height are logical (upright) dimensions; PhysicalWidth and
// PhysicalHeight are those of the stored pixels. An OrientedImage is owned by
// the extraction that created it. Raster is safe for concurrent use.
type OrientedImage struct {
	orientation orientation.Orientation
	physW       int
	physH       int

	pixels *PixelBuffer

	once   sync.Once
	raster image.Image
}

// FromImage wraps a decoded image. A zero orientation is treated as Normal.
func FromImage(img image.Image, o orientation.Orientation) *OrientedImage {
	return &OrientedImage{
		orientation: o.OrDefault(),
		physW:       img.Bounds().Dx(),
		physH:       img.Bounds().Dy(),
		raster:      img,
	}
}

// FromPixels wraps a raw pixel buffer. The raster view is built the first time
// it is needed.
func FromPixels(buf PixelBuffer, o orientation.Orientation) (*OrientedImage, error) {
	if buf.Width <= 0 || buf.Height <= 0 {
		return nil, fmt.Errorf("invalid pixel buffer dimensions %dx%d", buf.Width, buf.Height)
	}
	if buf.Stride == 0 {
		buf.Stride = buf.Width * 4
	}
	if buf.Stride < buf.Width*4 {
		return nil, fmt.Errorf("pixel buffer stride %d too small for width %d", buf.Stride, buf.Width)
	}
	if need := buf.Stride*(buf.Height-1) + buf.Width*4; len(buf.Pix) < need {
		return nil, fmt.Errorf("pixel buffer has %d bytes, need %d", len(buf.Pix), need)
	}
	return &OrientedImage{
		orientation: o.OrDefault(),
		physW:       buf.Width,
		physH:       buf.Height,
		pixels:      &buf,
	}, nil
}

// Orientation returns the orientation code.
func (m *OrientedImage) Orientation() orientation.Orientation {
	return m.orientation
}

// PhysicalWidth is the width of the stored pixels.
func (m *OrientedImage) PhysicalWidth() int { return m.physW }

// PhysicalHeight is the height of the stored pixels.
func (m *OrientedImage) PhysicalHeight() int { return m.physH }

// Width is the upright width.
func (m *OrientedImage) Width() int {
	w, _ := m.orientation.LogicalSize(m.physW, m.physH)
	return w
}

// Height is the upright height.
func (m *OrientedImage) Height() int {
	_, h := m.orientation.LogicalSize(m.physW, m.physH)
	return h
}

// Raster returns the stored pixels as an image, materializing it from the
// pixel buffer on first use.
func (m *OrientedImage) Raster() image.Image {
	m.once.Do(func() {
		p := m.pixels
		if p == nil {
			return
		}
		m.raster = clone.AsRGBA(&image.NRGBA{
			Pix:    p.Pix,
			Stride: p.Stride,
			Rect:   image.Rect(0, 0, p.Width, p.Height),
		})
		m.pixels = nil
	})
	return m.raster
}

// Fragment returns the upright pixels for a logical box, together with the
// offset of the fragment inside the box. Parts of the box that fall outside
// the image are left out. ok is false when nothing of the box is inside.
func (m *OrientedImage) Fragment(box image.Rectangle) (frag *image.NRGBA, at image.Point, ok bool) {
	src := m.orientation.SourceRect(m.physW, m.physH, box)
	clip := src.Intersect(image.Rect(0, 0, m.physW, m.physH))
	if clip.Empty() {
		return nil, image.Point{}, false
	}

	r := m.Raster()
	part := imaging.Crop(r, clip.Add(r.Bounds().Min))
	frag = m.orientation.Apply(part)
	at = m.orientation.LogicalRect(m.physW, m.physH, clip).Min.Sub(box.Min)
	return frag, at, true
}

// Render draws the upright pixels of the logical box onto c, so that the
// box's top-left corner lands on the canvas origin. The canvas's current
// composite op applies. Nothing is drawn if the box lies outside the image.
func (m *OrientedImage) Render(c Canvas, box image.Rectangle) {
	frag, at, ok := m.Fragment(box)
	if !ok {
		return
	}
	c.DrawImage(frag, at)
}
