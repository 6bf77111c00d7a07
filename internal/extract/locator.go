package extract

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/ironsheep/region-clip-mcp/internal/imaging"
	"github.com/ironsheep/region-clip-mcp/internal/orientation"
)

// maxPathComponent bounds each directory and file name taken from an
// extracted-part key.
const maxPathComponent = 100

var (
	objectKeyPattern = regexp.MustCompile(`^:ep-(x[A-Za-z0-9]+-[A-Za-z0-9_-]+)-([0-9a-f]+)$`)
	epKeyPattern     = regexp.MustCompile(`^:ep-x(o[1-8])-([A-Za-z0-9_-]+)-([0-9a-f]+)$`)
)

// Locator identifies one extracted part: a region of a source image viewed
// under an orientation.
type Locator struct {
	SourceKey   string                  `json:"source_key"`
	Orientation orientation.Orientation `json:"orientation"`
	RegionKey   string                  `json:"region_key"`
}

// Key returns the extracted-part key ":ep-x<transform>-<source>-<region>".
func (l Locator) Key() string {
	return EPKey(l.SourceKey, l.Orientation, l.RegionKey)
}

// EPKey builds an extracted-part key.
func EPKey(sourceKey string, o orientation.Orientation, regionKey string) string {
	return ":ep-x" + o.OrDefault().TransformKey() + "-" + sourceKey + "-" + regionKey
}

// ParseEPKey splits an extracted-part key into its locator. The region key is
// the hex run after the last dash.
func ParseEPKey(id string) (Locator, error) {
	m := epKeyPattern.FindStringSubmatch(id)
	if m == nil {
		return Locator{}, fmt.Errorf("invalid extracted-part key %q", id)
	}
	n, _ := strconv.Atoi(m[1][1:])
	o, err := orientation.Parse(n)
	if err != nil {
		return Locator{}, err
	}
	return Locator{SourceKey: m[2], Orientation: o, RegionKey: m[3]}, nil
}

// ObjectPath maps an object id to its file under root. The extension follows
// mimeType: .png for PNG, .jpeg otherwise.
//
// Extracted-part keys with short components map to
// <root>/x<transform>-<source>/<region>.jpeg. Every other id is hashed with
// SHA-1 and stored as <root>/sha-<h[:2]>/<h[2:]>.jpeg.
func ObjectPath(root, id, mimeType string) string {
	ext := objectExt(mimeType)
	if m := objectKeyPattern.FindStringSubmatch(id); m != nil &&
		len(m[1]) <= maxPathComponent && len(m[2]) <= maxPathComponent {
		return filepath.Join(root, m[1], m[2]+ext)
	}

	sum := sha1.Sum([]byte(id))
	h := hex.EncodeToString(sum[:])
	return filepath.Join(root, "sha-"+h[:2], h[2:]+ext)
}

func objectExt(mimeType string) string {
	if mimeType == imaging.MimePNG {
		return ".png"
	}
	return ".jpeg"
}

// WriteObject stores data at ObjectPath(root, id, mimeType), creating
// directories as needed, and returns the path written.
func WriteObject(root, id, mimeType string, data []byte) (string, error) {
	path := ObjectPath(root, id, mimeType)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create object directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write object: %w", err)
	}
	return path, nil
}
