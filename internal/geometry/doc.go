// Package geometry provides the integer point and bounding box primitives used
// to describe region boundaries in image space.
//
// Coordinates follow the same convention as package imaging: (0,0) is the
// top-left pixel, X grows rightward and Y grows downward. A BoundingBox is
// inclusive on both ends, so a box holding the single point (3,4) has a width
// and height of 1.
package geometry
