// Package embed splices an XMP rights packet into encoded JPEG and PNG byte
// streams without decoding them.
//
// JPEG output carries the packet in an APP1 segment directly after SOI. PNG
// output carries it in an uncompressed iTXt chunk directly after IHDR. Input
// buffers are never modified; every call allocates its result.
package embed

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"

	"github.com/ironsheep/region-clip-mcp/internal/xmp"
)

// Mime types handled by Serialize. Anything else passes through unchanged.
const (
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
)

var (
	// ErrMissingLicense is returned when the rights record has no licence
	// and the caller did not allow that.
	ErrMissingLicense = errors.New("missing license")

	// ErrNotAJPEG is returned when JPEG data does not start with SOI.
	ErrNotAJPEG = errors.New("not a jpeg")

	// ErrNotAPNG is returned when PNG data does not start with the PNG
	// signature.
	ErrNotAPNG = errors.New("not a png")
)

const (
	xmpNamespace = "http://ns.adobe.com/xap/1.0/\x00"
	xmpKeyword   = "XML:com.adobe.xmp"

	// ihdrEnd is the offset of the first chunk after IHDR: 8 bytes of
	// signature plus a 25-byte IHDR chunk.
	ihdrEnd = 33

	// maxSegment is the largest APP1 payload a 16-bit length can describe.
	maxSegment = 0xFFFF - 2
)

var (
	jpegSOI      = []byte{0xFF, 0xD8}
	pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}
)

// Serialize embeds the XMP packet built from r into raster.
//
// A rights record that produces no packet returns raster as is. Mime types
// other than JPEG and PNG are passed through.
func Serialize(raster []byte, mimeType string, r xmp.Rights, allowMissingLicense bool) ([]byte, error) {
	if r.License == "" && !allowMissingLicense {
		return nil, ErrMissingLicense
	}

	packet, ok := xmp.Build(r)
	if !ok {
		return raster, nil
	}

	switch mimeType {
	case MimeJPEG:
		return InsertJPEG(raster, packet)
	case MimePNG:
		return InsertPNG(raster, packet)
	}
	return raster, nil
}

// InsertJPEG returns a copy of data with an XMP APP1 segment after SOI.
func InsertJPEG(data, packet []byte) ([]byte, error) {
	if len(data) < 2 || data[0] != jpegSOI[0] || data[1] != jpegSOI[1] {
		return nil, ErrNotAJPEG
	}

	payload := len(xmpNamespace) + len(packet)
	if payload > maxSegment {
		return nil, fmt.Errorf("xmp packet of %d bytes does not fit in an APP1 segment", len(packet))
	}

	out := make([]byte, 0, len(data)+4+payload)
	out = append(out, data[:2]...)
	out = append(out, 0xFF, 0xE1)
	out = binary.BigEndian.AppendUint16(out, uint16(payload+2))
	out = append(out, xmpNamespace...)
	out = append(out, packet...)
	out = append(out, data[2:]...)
	return out, nil
}

// InsertPNG returns a copy of data with an XMP iTXt chunk after IHDR.
func InsertPNG(data, packet []byte) ([]byte, error) {
	if len(data) < ihdrEnd || string(data[:len(pngSignature)]) != string(pngSignature) {
		return nil, ErrNotAPNG
	}

	chunk := iTXtChunk(packet)
	out := make([]byte, 0, len(data)+len(chunk))
	out = append(out, data[:ihdrEnd]...)
	out = append(out, chunk...)
	out = append(out, data[ihdrEnd:]...)
	return out, nil
}

// iTXtChunk builds an uncompressed iTXt chunk with no language tag and no
// translated keyword. The length field counts the data only, excluding the
// chunk type.
func iTXtChunk(text []byte) []byte {
	body := make([]byte, 0, 4+len(xmpKeyword)+5+len(text))
	body = append(body, "iTXt"...)
	body = append(body, xmpKeyword...)
	body = append(body,
		0, // keyword terminator
		0, // compression flag
		0, // compression method
		0, // language tag terminator
		0, // translated keyword terminator
	)
	body = append(body, text...)

	chunk := make([]byte, 0, 4+len(body)+4)
	chunk = binary.BigEndian.AppendUint32(chunk, uint32(len(body)-4))
	chunk = append(chunk, body...)
	chunk = binary.BigEndian.AppendUint32(chunk, CRC32(body))
	return chunk
}

// CRC32 is the IEEE CRC-32 used by PNG chunks.
func CRC32(b []byte) uint32 {
	return crc32.ChecksumIEEE(b)
}
