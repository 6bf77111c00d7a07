// Package imaging clips polygonal regions out of oriented source images.
//
// A source image is stored in some physical orientation and carries an EXIF
// orientation code (see package orientation) that turns it upright. Region
// boundaries are always expressed in upright, logical coordinates. This
// package maps those logical regions back onto the stored pixels, renders
// each polygon group as an alpha mask, and composites the masked pixels into
// a single transparent-background raster. Encode then turns that raster into
// JPEG or PNG bytes.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - Rectangles are half-open image.Rectangle values: Min is inclusive,
//     Max is exclusive
//
// # Canvases
//
// The compositor never touches pixels directly. It drives a Canvas, a small
// drawing surface with polygon fill, image blit and three composite modes.
// RasterCanvas is the real implementation; tests substitute a recording
// canvas to check the draw sequence without rasterizing anything.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Clipping is a pure function
// of its inputs and allocates its own canvases, so clips of different regions
// or images can run in parallel. A single OrientedImage may be shared between
// goroutines as its only lazily computed state is guarded.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Regions whose bounding box is empty (ErrInvalidRegion)
//   - Output formats other than JPEG and PNG (ErrUnsupportedMimeType)
//   - File I/O errors during image loading
//   - Encoding errors during image output
package imaging
