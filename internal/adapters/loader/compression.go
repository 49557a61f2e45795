package loader

import (
	"bytes"
	"compress/bzip2"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
)

// Compression is the compression format of an uploaded payload.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionBzip2
	CompressionXZ
)

// String returns the string representation of Compression.
func (c Compression) String() string {
	switch c {
	case CompressionGzip:
		return "gzip"
	case CompressionBzip2:
		return "bzip2"
	case CompressionXZ:
		return "xz"
	default:
		return "none"
	}
}

// maxDecompressedBytes bounds how much a compressed upload may expand to.
const maxDecompressedBytes = 64 << 20

var (
	gzipMagic  = []byte{0x1f, 0x8b}
	bzip2Magic = []byte{0x42, 0x5a, 0x68}
	xzMagic    = []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}
)

// compressionExts maps filename suffixes to their format.
var compressionExts = map[string]Compression{
	".gz":  CompressionGzip,
	".bz2": CompressionBzip2,
	".xz":  CompressionXZ,
}

// DetectCompression sniffs the magic bytes at the start of data.
func DetectCompression(data []byte) Compression {
	switch {
	case bytes.HasPrefix(data, gzipMagic):
		return CompressionGzip
	case bytes.HasPrefix(data, bzip2Magic):
		return CompressionBzip2
	case bytes.HasPrefix(data, xzMagic):
		return CompressionXZ
	default:
		return CompressionNone
	}
}

// Decompress returns data unchanged when it is not compressed, or its
// decompressed content otherwise.
func Decompress(data []byte) ([]byte, Compression, error) {
	kind := DetectCompression(data)

	var r io.Reader
	switch kind {
	case CompressionNone:
		return data, kind, nil
	case CompressionGzip:
		gz, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, kind, fmt.Errorf("creating gzip reader: %w", err)
		}
		defer gz.Close()
		r = gz
	case CompressionBzip2:
		r = bzip2.NewReader(bytes.NewReader(data))
	case CompressionXZ:
		xr, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, kind, fmt.Errorf("creating xz reader: %w", err)
		}
		r = xr
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, maxDecompressedBytes+1))
	if err != nil {
		return nil, kind, fmt.Errorf("%s decompression failed: %w", kind, err)
	}
	if n > maxDecompressedBytes {
		return nil, kind, fmt.Errorf("%s payload expands beyond %d bytes", kind, maxDecompressedBytes)
	}
	return buf.Bytes(), kind, nil
}

// stripCompressionExt removes a trailing .gz/.bz2/.xz from name.
func stripCompressionExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := compressionExts[ext]; ok {
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return name
}
