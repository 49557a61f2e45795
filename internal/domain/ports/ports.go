// Package ports defines interfaces for external collaborators.
// Usecases depend on these abstractions; adapters implement them.
package ports

import (
	"context"
	"io"

	"github.com/0xcro3dile/liufit-go/internal/domain/entities"
)

// ListParser turns free-text number lists into a dataset.
type ListParser interface {
	// ParseLists parses comma-separated energy and diameter lists.
	ParseLists(energyText, diameterText string) (entities.Dataset, error)
}

// TableDecoder turns an uploaded two-column table into a dataset.
type TableDecoder interface {
	// DecodeTable parses raw file bytes; filename is a format hint only.
	DecodeTable(data []byte, filename string) (entities.Dataset, error)
}

// DatasetLoader reads a dataset from a file on disk.
type DatasetLoader interface {
	// Load reads and decodes the file at path.
	Load(ctx context.Context, path string) (entities.Dataset, error)

	// SupportedExtensions returns file extensions this loader handles.
	SupportedExtensions() []string
}

// Translator resolves presentation labels for one language.
type Translator interface {
	// T returns the label for key, or key itself when unknown.
	T(key string) string

	// Lang returns the language code, e.g. "zh" or "en".
	Lang() string
}

// ResultExporter writes a fit result as a downloadable document.
type ResultExporter interface {
	// Export writes the document to w.
	Export(w io.Writer, result *entities.FitResult, tr Translator) error

	// ContentType is the MIME type of the written document.
	ContentType() string

	// Extension is the file extension, including the dot.
	Extension() string
}

// ChartRenderer draws the transformed data with the fitted line.
type ChartRenderer interface {
	// Render returns an encoded image.
	Render(result *entities.FitResult, tr Translator) ([]byte, error)

	// ContentType is the MIME type of rendered images.
	ContentType() string
}

// ResultStore keeps recently computed results for follow-up requests.
type ResultStore interface {
	// Put stores a result under its ID.
	Put(ctx context.Context, result *entities.FitResult) error

	// Get returns the result for id, if still held.
	Get(ctx context.Context, id string) (*entities.FitResult, bool)

	// Len returns the number of held results.
	Len() int
}

// Fingerprinter derives a stable ID from a dataset.
type Fingerprinter interface {
	Fingerprint(ds entities.Dataset) string
}

// FileWatcher monitors a directory for changes.
type FileWatcher interface {
	// Watch starts monitoring the directory and emits events.
	Watch(ctx context.Context, dir string) (<-chan FileEvent, error)

	// Stop stops the watcher.
	Stop() error
}

// FileEvent represents a file system change.
type FileEvent struct {
	Path      string
	Operation FileOperation
}

// FileOperation is the type of file change.
type FileOperation int

const (
	FileCreated FileOperation = iota
	FileModified
	FileDeleted
)

func (op FileOperation) String() string {
	switch op {
	case FileCreated:
		return "create"
	case FileModified:
		return "modify"
	case FileDeleted:
		return "delete"
	default:
		return "unknown"
	}
}
