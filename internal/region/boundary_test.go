package region

import (
	"encoding/json"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/google/go-cmp/cmp"

	"github.com/ironsheep/region-clip-mcp/internal/geometry"
)

func square(x, y, size int) Polygon {
	return Polygon{
		geometry.Pt(x, y),
		geometry.Pt(x+size, y),
		geometry.Pt(x+size, y+size),
		geometry.Pt(x, y+size),
	}
}

func TestKeyKnownValue(t *testing.T) {
	c := qt.New(t)

	b := FromArray([]Group{{square(0, 0, 10)}})
	c.Assert(string(b.CanonicalJSON()), qt.Equals, "[[[[0,0],[10,0],[10,10],[0,10]]]]")

	key, ok := b.Key()
	c.Assert(ok, qt.IsTrue)
	c.Assert(key, qt.Equals, "f9e95504ad")
}

func TestKeyIsContentAddressed(t *testing.T) {
	c := qt.New(t)

	a, _ := FromArray([]Group{{square(0, 0, 10)}}).Key()
	b, _ := FromArray([]Group{{square(0, 0, 10)}}).Key()
	c.Assert(a, qt.Equals, b)

	changed := square(0, 0, 10)
	changed[3] = geometry.Pt(0, 11)
	d, _ := FromArray([]Group{{changed}}).Key()
	c.Assert(d, qt.Not(qt.Equals), a)
	c.Assert(d, qt.Equals, "3ed3d0a599")
	c.Assert(d, qt.HasLen, 2*KeyBytes)
}

func TestKeyEmpty(t *testing.T) {
	c := qt.New(t)

	for _, b := range []*Boundary{FromArray(nil), FromArray([]Group{})} {
		key, ok := b.Key()
		c.Assert(ok, qt.IsFalse)
		c.Assert(key, qt.Equals, "")
		c.Assert(string(b.CanonicalJSON()), qt.Equals, "[]")
	}

	// A group without polygons still has content.
	key, ok := FromArray([]Group{nil}).Key()
	c.Assert(ok, qt.IsTrue)
	c.Assert(key, qt.Equals, "cf1cbb66a6")
}

func TestParseMatchesCanonicalForm(t *testing.T) {
	c := qt.New(t)

	input := `[ [ [[1, 2], [30,2], [30, 40]], [[5,5],[6,6],[5,6]] ], [[[100,100],[120,100],[120,90]]] ]`
	b, err := Parse([]byte(input))
	c.Assert(err, qt.IsNil)
	c.Assert(string(b.CanonicalJSON()), qt.Equals,
		"[[[[1,2],[30,2],[30,40]],[[5,5],[6,6],[5,6]]],[[[100,100],[120,100],[120,90]]]]")

	out, err := json.Marshal(b)
	c.Assert(err, qt.IsNil)
	c.Assert(string(out), qt.Equals, string(b.CanonicalJSON()))

	_, err = Parse([]byte(`{"not":"an array"}`))
	c.Assert(err, qt.ErrorMatches, "failed to parse region boundary: .*")
}

func TestBoundingBoxUsesFirstPolygonOnly(t *testing.T) {
	c := qt.New(t)

	b := FromArray([]Group{
		{square(10, 10, 20), square(0, 0, 100)},
		{square(50, 5, 5)},
		{},
	})
	box := b.BoundingBox()

	want := geometry.BoundingBox{}
	want.AddPoints(geometry.Pt(10, 5), geometry.Pt(55, 30))
	c.Assert(box, qt.CmpEquals(cmp.AllowUnexported(geometry.BoundingBox{})), want)
	c.Assert(box.Width(), qt.Equals, 46)
	c.Assert(box.Height(), qt.Equals, 26)
}

func TestEmptyBoundaryHasEmptyBox(t *testing.T) {
	c := qt.New(t)

	b, err := Parse([]byte(`[]`))
	c.Assert(err, qt.IsNil)
	c.Assert(b.IsEmpty(), qt.IsTrue)
	c.Assert(b.BoundingBox().IsEmpty(), qt.IsTrue)
	c.Assert(b.BoundingBox().Width(), qt.Equals, 0)
}
