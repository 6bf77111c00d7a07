package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"sync"

	"github.com/ironsheep/region-clip-mcp/internal/orientation"
)

// ImageCache provides thread-safe caching of decoded source images to avoid
// redundant disk reads and decodes when several regions are clipped from the
// same page.
//
// The cache stores the decoded image.Image, its format and the orientation read
// from its EXIF data, keyed by file path. Cached images are never mutated, so
// the same entry can back any number of OrientedImage values.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// Cached images remain in memory until explicitly removed via Evict() or Clear().
// Batch runs over many pages should evict each page once its regions are done.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	img, err := cache.LoadOriented("/path/to/page.jpg", 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, err := imaging.ClipByRegion(img, boundary)
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]*cachedImage
}

type cachedImage struct {
	img         image.Image
	format      string
	orientation orientation.Orientation
}

// NewImageCache creates and initializes a new empty image cache.
//
// The returned cache is ready for immediate use and is safe for concurrent access.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]*cachedImage),
	}
}

// Load retrieves an image from the cache or loads it from disk if not cached.
//
// Parameters:
//   - path: Absolute or relative file path to the image. Supported formats are
//     PNG, JPEG, and GIF.
//
// Returns:
//   - image.Image: The decoded image in its stored (physical) orientation.
//   - error: Non-nil if the file cannot be opened or decoded.
//
// The image is cached using the exact path string provided. Different paths to the
// same file (e.g., relative vs absolute) will result in separate cache entries.
func (c *ImageCache) Load(path string) (image.Image, error) {
	entry, err := c.load(path)
	if err != nil {
		return nil, err
	}
	return entry.img, nil
}

// LoadOriented loads an image and wraps it with an orientation.
//
// Parameters:
//   - path: File path to the image.
//   - o: Orientation to apply. Zero means "use the EXIF Orientation tag",
//     which falls back to Normal when the file carries none.
//
// Returns:
//   - *OrientedImage: A new wrapper owned by the caller.
//   - error: Non-nil if the image cannot be loaded.
func (c *ImageCache) LoadOriented(path string, o orientation.Orientation) (*OrientedImage, error) {
	entry, err := c.load(path)
	if err != nil {
		return nil, err
	}
	if o == 0 {
		o = entry.orientation
	}
	return FromImage(entry.img, o), nil
}

func (c *ImageCache) load(path string) (*cachedImage, error) {
	c.mu.RLock()
	if entry, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return entry, nil
	}
	c.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	entry, err := decode(data)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = entry
	c.mu.Unlock()

	return entry, nil
}

// Clear removes all images from the cache, freeing the associated memory.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]*cachedImage)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
//
// If the path is not in the cache, this method does nothing.
// After eviction, the next Load() call for this path will read from disk.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// DecodeOriented decodes encoded image bytes.
//
// A zero orientation is replaced by the EXIF Orientation tag of the data, or
// Normal when there is none. The second result is the format name reported by
// the decoder ("jpeg", "png", "gif").
func DecodeOriented(data []byte, o orientation.Orientation) (*OrientedImage, string, error) {
	entry, err := decode(data)
	if err != nil {
		return nil, "", err
	}
	if o == 0 {
		o = entry.orientation
	}
	return FromImage(entry.img, o), entry.format, nil
}

func decode(data []byte) (*cachedImage, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	o := orientation.Normal
	if format == "jpeg" {
		o = orientation.Detect(bytes.NewReader(data))
	}
	return &cachedImage{img: img, format: format, orientation: o}, nil
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the upright image width in pixels.
	Width int `json:"width"`

	// Height is the upright image height in pixels.
	Height int `json:"height"`

	// PhysicalWidth is the width of the stored pixels. It differs from Width
	// for the rotated orientations 5-8.
	PhysicalWidth int `json:"physical_width"`

	// PhysicalHeight is the height of the stored pixels.
	PhysicalHeight int `json:"physical_height"`

	// Orientation is the EXIF orientation code, 1-8.
	Orientation int `json:"orientation"`

	// TransformKey is the locator fragment for the orientation, e.g. "o6".
	TransformKey string `json:"transform_key"`

	// Format is the decoded format: "png", "jpeg" or "gif".
	Format string `json:"format"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether the image has an alpha (transparency) channel.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image and returns metadata about it, including the
// orientation that will be used when clipping it.
//
// Parameters:
//   - cache: The image cache to use for loading. Must not be nil.
//   - path: Path to the image file.
//   - o: Orientation override; zero means detect from EXIF.
//
// # Color Depth Detection
//
// Color depth is determined by the Go image type:
//   - *image.RGBA64, *image.NRGBA64, *image.Gray16 -> "16-bit"
//   - All other types -> "8-bit"
func LoadImageInfo(cache *ImageCache, path string, o orientation.Orientation) (*ImageInfo, error) {
	entry, err := cache.load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	if o == 0 {
		o = entry.orientation
	}
	oriented := FromImage(entry.img, o)

	hasAlpha := false
	colorDepth := "8-bit"
	switch entry.img.(type) {
	case *image.RGBA, *image.NRGBA:
		hasAlpha = true
	case *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
		colorDepth = "16-bit"
	case *image.Gray16:
		colorDepth = "16-bit"
	}

	return &ImageInfo{
		Width:          oriented.Width(),
		Height:         oriented.Height(),
		PhysicalWidth:  oriented.PhysicalWidth(),
		PhysicalHeight: oriented.PhysicalHeight(),
		Orientation:    int(oriented.Orientation()),
		TransformKey:   oriented.Orientation().TransformKey(),
		Format:         entry.format,
		ColorDepth:     colorDepth,
		HasAlpha:       hasAlpha,
		FileSizeBytes:  stat.Size(),
	}, nil
}
