package geometry

import (
	"encoding/json"
	"fmt"
	"image"
)

// Point is an integer image-space coordinate.
//
// Points serialize to and from the two-element JSON array form [x,y], which is
// the form region boundaries are stored and hashed in.
type Point struct {
	X int
	Y int
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// MarshalJSON encodes the point as [x,y].
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.X, p.Y})
}

// UnmarshalJSON decodes a point from [x,y].
func (p *Point) UnmarshalJSON(b []byte) error {
	var xy []int
	if err := json.Unmarshal(b, &xy); err != nil {
		return fmt.Errorf("invalid point %s: %w", b, err)
	}
	if len(xy) != 2 {
		return fmt.Errorf("invalid point %s: want 2 coordinates, got %d", b, len(xy))
	}
	p.X, p.Y = xy[0], xy[1]
	return nil
}

// BoundingBox accumulates the axis-aligned extent of a set of points.
//
// The zero value is an empty box. MinX/MinY/MaxX/MaxY are meaningless until
// the first point is added; Width and Height report 0 while empty.
type BoundingBox struct {
	MinX int `json:"min_x"`
	MinY int `json:"min_y"`
	MaxX int `json:"max_x"`
	MaxY int `json:"max_y"`

	set bool
}

// AddPoints widens the box so that it contains every point in pts.
func (b *BoundingBox) AddPoints(pts ...Point) {
	for _, pt := range pts {
		if !b.set {
			b.MinX, b.MaxX = pt.X, pt.X
			b.MinY, b.MaxY = pt.Y, pt.Y
			b.set = true
			continue
		}
		if pt.X < b.MinX {
			b.MinX = pt.X
		}
		if pt.Y < b.MinY {
			b.MinY = pt.Y
		}
		if b.MaxX < pt.X {
			b.MaxX = pt.X
		}
		if b.MaxY < pt.Y {
			b.MaxY = pt.Y
		}
	}
}

// AddBoundingBox adds the corners of other. Empty boxes (zero width or height)
// are ignored, so this never merges an empty box's coordinates.
func (b *BoundingBox) AddBoundingBox(other BoundingBox) {
	if other.Width() > 0 && other.Height() > 0 {
		b.AddPoints(Pt(other.MinX, other.MinY), Pt(other.MaxX, other.MaxY))
	}
}

// IsEmpty reports whether no point has been added yet.
func (b BoundingBox) IsEmpty() bool {
	return !b.set
}

// Width is MaxX-MinX+1, or 0 for an empty box.
func (b BoundingBox) Width() int {
	if !b.set {
		return 0
	}
	return b.MaxX - b.MinX + 1
}

// Height is MaxY-MinY+1, or 0 for an empty box.
func (b BoundingBox) Height() int {
	if !b.set {
		return 0
	}
	return b.MaxY - b.MinY + 1
}

// Center returns floor(min + size/2) on both axes. The second result is false
// for an empty box.
func (b BoundingBox) Center() (Point, bool) {
	if !b.set {
		return Point{}, false
	}
	return Pt(floorHalf(2*b.MinX+b.Width()), floorHalf(2*b.MinY+b.Height())), true
}

// Rect converts the inclusive box to a half-open image.Rectangle.
func (b BoundingBox) Rect() image.Rectangle {
	if !b.set {
		return image.Rectangle{}
	}
	return image.Rect(b.MinX, b.MinY, b.MaxX+1, b.MaxY+1)
}

// floorHalf is floor(n/2), rounding toward negative infinity for odd
// negative n.
func floorHalf(n int) int {
	if n < 0 {
		return -((-n + 1) / 2)
	}
	return n / 2
}
