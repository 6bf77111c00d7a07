// Package orientation implements the eight EXIF orientations: mapping boxes
// between logical (upright) and physical (stored) pixel coordinates, and
// transforming physical pixel fragments into logical space.
package orientation

import (
	"errors"
	"fmt"
	"image"
	"io"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
)

// ErrInvalidOrientation is returned for orientation codes outside 1–8.
var ErrInvalidOrientation = errors.New("orientation must be between 1 and 8")

// Orientation is an EXIF orientation code. The zero value is treated as Normal.
type Orientation int

// The eight EXIF orientations, named by the transform that turns the stored
// image upright.
const (
	Normal      Orientation = 1
	FlipH       Orientation = 2
	Rotate180   Orientation = 3
	FlipV       Orientation = 4
	Transpose   Orientation = 5
	Rotate90CW  Orientation = 6
	Transverse  Orientation = 7
	Rotate90CCW Orientation = 8
)

// All lists every valid orientation in code order.
var All = []Orientation{Normal, FlipH, Rotate180, FlipV, Transpose, Rotate90CW, Transverse, Rotate90CCW}

// Parse validates an integer orientation code.
func Parse(n int) (Orientation, error) {
	if n < 1 || n > 8 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidOrientation, n)
	}
	return Orientation(n), nil
}

// OrDefault returns o, or Normal when o is the zero value.
func (o Orientation) OrDefault() Orientation {
	if o == 0 {
		return Normal
	}
	return o
}

// Swapped reports whether logical width and height are the physical height
// and width, which is the case for the 90° family (5–8).
func (o Orientation) Swapped() bool {
	return o >= Transpose
}

// TransformKey returns the locator fragment for o, e.g. "o6".
func (o Orientation) TransformKey() string {
	return "o" + strconv.Itoa(int(o.OrDefault()))
}

func (o Orientation) String() string {
	switch o.OrDefault() {
	case Normal:
		return "normal"
	case FlipH:
		return "flip-horizontal"
	case Rotate180:
		return "rotate-180"
	case FlipV:
		return "flip-vertical"
	case Transpose:
		return "transpose"
	case Rotate90CW:
		return "rotate-90-cw"
	case Transverse:
		return "transverse"
	case Rotate90CCW:
		return "rotate-90-ccw"
	}
	return "orientation(" + strconv.Itoa(int(o)) + ")"
}

// LogicalSize returns the upright dimensions of a physical w×h image.
func (o Orientation) LogicalSize(w, h int) (int, int) {
	if o.Swapped() {
		return h, w
	}
	return w, h
}

// SourceRect maps a rectangle in logical coordinates to the rectangle of
// physical source pixels it is drawn from. w and h are the physical image
// dimensions.
func (o Orientation) SourceRect(w, h int, r image.Rectangle) image.Rectangle {
	x, y, rw, rh := r.Min.X, r.Min.Y, r.Dx(), r.Dy()
	switch o.OrDefault() {
	case FlipH:
		return box(w-x-rw, y, rw, rh)
	case Rotate180:
		return box(w-x-rw, h-y-rh, rw, rh)
	case FlipV:
		return box(x, h-y-rh, rw, rh)
	case Transpose:
		return box(y, x, rh, rw)
	case Rotate90CW:
		return box(y, h-(x+rw), rh, rw)
	case Transverse:
		return box(w-(y+rh), h-(x+rw), rh, rw)
	case Rotate90CCW:
		return box(w-(y+rh), x, rh, rw)
	default:
		return r
	}
}

// LogicalRect is the inverse of SourceRect: it maps physical source pixels to
// the logical rectangle they are displayed in.
func (o Orientation) LogicalRect(w, h int, r image.Rectangle) image.Rectangle {
	x, y, rw, rh := r.Min.X, r.Min.Y, r.Dx(), r.Dy()
	switch o.OrDefault() {
	case FlipH, Rotate180, FlipV:
		return o.SourceRect(w, h, r)
	case Transpose:
		return box(y, x, rh, rw)
	case Rotate90CW:
		return box(h-(y+rh), x, rh, rw)
	case Transverse:
		return box(h-(y+rh), w-(x+rw), rh, rw)
	case Rotate90CCW:
		return box(y, w-(x+rw), rh, rw)
	default:
		return r
	}
}

// Apply transforms a physical fragment into logical orientation. The result
// always has its origin at (0,0).
func (o Orientation) Apply(img image.Image) *image.NRGBA {
	switch o.OrDefault() {
	case FlipH:
		return imaging.FlipH(img)
	case Rotate180:
		return imaging.Rotate180(img)
	case FlipV:
		return imaging.FlipV(img)
	case Transpose:
		return imaging.Transpose(img)
	case Rotate90CW:
		return imaging.Rotate270(img)
	case Transverse:
		return imaging.Transverse(img)
	case Rotate90CCW:
		return imaging.Rotate90(img)
	default:
		return imaging.Clone(img)
	}
}

// Detect reads the EXIF orientation tag from an encoded image. Images without
// EXIF data, or with an out-of-range tag, are reported as Normal.
func Detect(r io.Reader) Orientation {
	x, err := exif.Decode(r)
	if err != nil {
		return Normal
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return Normal
	}
	n, err := tag.Int(0)
	if err != nil {
		return Normal
	}
	o, err := Parse(n)
	if err != nil {
		return Normal
	}
	return o
}

func box(x, y, w, h int) image.Rectangle {
	return image.Rect(x, y, x+w, y+h)
}
