package usecases

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/0xcro3dile/liufit-go/internal/domain/entities"
	"github.com/0xcro3dile/liufit-go/internal/domain/ports"
)

// ReportSuffix marks files written by the batch processor so watchers can skip them.
const ReportSuffix = ".liu"

// BatchUseCase fits data files from disk and writes a report beside each one.
type BatchUseCase struct {
	loader    ports.DatasetLoader
	exporter  ports.ResultExporter
	tr        ports.Translator
	fp        ports.Fingerprinter
	outputDir string // empty means next to the input file
}

// NewBatchUseCase creates a BatchUseCase with injected dependencies.
func NewBatchUseCase(
	loader ports.DatasetLoader,
	exporter ports.ResultExporter,
	tr ports.Translator,
	fp ports.Fingerprinter,
	outputDir string,
) *BatchUseCase {
	return &BatchUseCase{
		loader:    loader,
		exporter:  exporter,
		tr:        tr,
		fp:        fp,
		outputDir: outputDir,
	}
}

// Process loads, fits and exports one file. It returns the report path.
func (uc *BatchUseCase) Process(ctx context.Context, path string) (string, error) {
	ds, err := uc.loader.Load(ctx, path)
	if err != nil {
		return "", fmt.Errorf("loading %s: %w", filepath.Base(path), err)
	}

	result, err := Fit(ds)
	if err != nil {
		return "", fmt.Errorf("fitting %s: %w", filepath.Base(path), err)
	}
	result.ID = uc.fp.Fingerprint(ds)
	result.Source = entities.SourceFile
	result.SourceName = filepath.Base(path)
	result.CreatedAt = time.Now()

	out := uc.ReportPath(path)
	if err := uc.writeReport(out, result); err != nil {
		return "", err
	}
	return out, nil
}

// ReportPath returns where the report for path is written.
func (uc *BatchUseCase) ReportPath(path string) string {
	dir := uc.outputDir
	if dir == "" {
		dir = filepath.Dir(path)
	}
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, stem+ReportSuffix+uc.exporter.Extension())
}

// SupportedExtensions lists the file extensions the loader accepts.
func (uc *BatchUseCase) SupportedExtensions() []string {
	return uc.loader.SupportedExtensions()
}

// IsReport reports whether path looks like a file this use case wrote.
func (uc *BatchUseCase) IsReport(path string) bool {
	return strings.HasSuffix(filepath.Base(path), ReportSuffix+uc.exporter.Extension())
}

// Run processes watcher events until ctx is done or the channel closes.
// Failures are logged and do not stop the loop.
func (uc *BatchUseCase) Run(ctx context.Context, events <-chan ports.FileEvent) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Operation == ports.FileDeleted || uc.IsReport(ev.Path) {
				continue
			}

			out, err := uc.Process(ctx, ev.Path)
			if err != nil {
				log.Printf("[WATCH] %s %s: %v", ev.Operation, ev.Path, err)
				continue
			}
			log.Printf("[WATCH] %s %s -> %s", ev.Operation, ev.Path, out)
		}
	}
}

// writeReport writes to a temporary file first so readers never see a partial report.
func (uc *BatchUseCase) writeReport(path string, result *entities.FitResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".liufit-*")
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := uc.exporter.Export(tmp, result, uc.tr); err != nil {
		tmp.Close()
		return fmt.Errorf("exporting report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing report: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
