package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/0xcro3dile/liufit-go/internal/domain/entities"
)

// tableExtensions are the data formats MultiLoader accepts, before any
// compression suffix.
var tableExtensions = []string{".csv", ".tsv", ".txt", ".xlsx"}

// MultiLoader reads datasets from disk, dispatching on file extension.
type MultiLoader struct {
	decoder *TableDecoder
}

// NewMultiLoader creates a loader backed by the given table decoder.
func NewMultiLoader(decoder *TableDecoder) *MultiLoader {
	if decoder == nil {
		decoder = NewTableDecoder(DefaultTableOptions())
	}
	return &MultiLoader{decoder: decoder}
}

// Load reads the file at path and decodes it as a table.
func (m *MultiLoader) Load(ctx context.Context, path string) (entities.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base := filepath.Base(path)
	if !m.Supports(base) {
		return nil, fmt.Errorf("unsupported file type: %s", base)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return m.decoder.DecodeTable(data, base)
}

// Supports reports whether name has a supported extension.
func (m *MultiLoader) Supports(name string) bool {
	ext := strings.ToLower(filepath.Ext(stripCompressionExt(name)))
	for _, e := range tableExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// SupportedExtensions returns all supported extensions, compressed variants included.
func (m *MultiLoader) SupportedExtensions() []string {
	exts := make([]string, 0, len(tableExtensions)*(len(compressionExts)+1))
	for _, e := range tableExtensions {
		exts = append(exts, e)
		for c := range compressionExts {
			exts = append(exts, e+c)
		}
	}
	return exts
}
