// Package region models the polygon-group boundary of an image region and
// derives its content-addressed region key.
package region

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ironsheep/region-clip-mcp/internal/geometry"
)

// KeyBytes is the number of leading SHA-256 bytes kept in a region key.
// Existing keys are stored externally, so this must not change.
const KeyBytes = 5

// Polygon is a closed path of points.
type Polygon []geometry.Point

// Group is one masked layer: the first polygon is the outer fill and every
// later polygon cuts a hole out of it.
type Group []Polygon

// Boundary describes the area of an image to extract as an ordered list of
// groups. It is read-only once constructed.
type Boundary struct {
	groups []Group
	box    geometry.BoundingBox
}

// FromArray builds a boundary and computes its bounding box from the first
// polygon of every group. Later polygons are holes inside that box and do not
// widen it.
func FromArray(groups []Group) *Boundary {
	b := &Boundary{groups: groups}
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		b.box.AddPoints(g[0]...)
	}
	return b
}

// Parse decodes the JSON array form [[[[x,y],...],...],...].
func Parse(data []byte) (*Boundary, error) {
	var groups []Group
	if err := json.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("failed to parse region boundary: %w", err)
	}
	return FromArray(groups), nil
}

// Groups returns the polygon groups in order.
func (b *Boundary) Groups() []Group {
	return b.groups
}

// BoundingBox returns the union of the first polygon of each group.
func (b *Boundary) BoundingBox() geometry.BoundingBox {
	return b.box
}

// IsEmpty reports whether the boundary has no groups at all.
func (b *Boundary) IsEmpty() bool {
	return len(b.groups) == 0
}

// CanonicalJSON returns the compact JSON form that region keys are computed
// over. Nil and empty lists both encode as [].
func (b *Boundary) CanonicalJSON() []byte {
	buf := make([]byte, 0, 64)
	buf = append(buf, '[')
	for i, g := range b.groups {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, '[')
		for j, poly := range g {
			if j > 0 {
				buf = append(buf, ',')
			}
			buf = append(buf, '[')
			for k, pt := range poly {
				if k > 0 {
					buf = append(buf, ',')
				}
				buf = append(buf, '[')
				buf = strconv.AppendInt(buf, int64(pt.X), 10)
				buf = append(buf, ',')
				buf = strconv.AppendInt(buf, int64(pt.Y), 10)
				buf = append(buf, ']')
			}
			buf = append(buf, ']')
		}
		buf = append(buf, ']')
	}
	return append(buf, ']')
}

// Key returns the region key: the first KeyBytes bytes of the SHA-256 digest
// of CanonicalJSON, as lowercase hex. An empty boundary has no key.
//
// The 40-bit truncation keeps keys short enough for locators. Collisions are
// possible and are not detected.
func (b *Boundary) Key() (string, bool) {
	if b.IsEmpty() {
		return "", false
	}
	sum := sha256.Sum256(b.CanonicalJSON())
	return hex.EncodeToString(sum[:KeyBytes]), true
}

// MarshalJSON encodes the boundary in its canonical form.
func (b *Boundary) MarshalJSON() ([]byte, error) {
	return b.CanonicalJSON(), nil
}
