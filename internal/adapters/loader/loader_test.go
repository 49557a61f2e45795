package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestMultiLoader_LoadCSVFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run1.csv")
	os.WriteFile(path, []byte("energy,diameter\n10,4.1\n15,5.3\n"), 0644)

	loader := NewMultiLoader(nil)
	ds, err := loader.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(ds) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(ds))
	}
	if ds[0].Energy != 10 || ds[1].Diameter != 5.3 {
		t.Errorf("unexpected samples: %+v", ds)
	}
}

func TestMultiLoader_RejectsUnknownExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.pdf")
	os.WriteFile(path, []byte("10,4.1\n15,5.3\n"), 0644)

	_, err := NewMultiLoader(nil).Load(context.Background(), path)
	if err == nil {
		t.Error("expected unsupported file type error")
	}
}

func TestMultiLoader_MissingFile(t *testing.T) {
	_, err := NewMultiLoader(nil).Load(context.Background(), filepath.Join(t.TempDir(), "gone.csv"))
	if err == nil {
		t.Error("expected read error")
	}
}

func TestMultiLoader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMultiLoader(nil).Load(ctx, "whatever.csv")
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestMultiLoader_Supports(t *testing.T) {
	loader := NewMultiLoader(nil)

	for _, name := range []string{"a.csv", "a.TSV", "a.xlsx", "a.csv.gz", "a.txt.xz", "a.csv.bz2"} {
		if !loader.Supports(name) {
			t.Errorf("%s should be supported", name)
		}
	}
	for _, name := range []string{"a.pdf", "a.gz", "a"} {
		if loader.Supports(name) {
			t.Errorf("%s should not be supported", name)
		}
	}
}

func TestMultiLoader_AllExtensions(t *testing.T) {
	exts := NewMultiLoader(nil).SupportedExtensions()

	if len(exts) != 16 {
		t.Errorf("expected 16 extensions, got %d", len(exts))
	}
}
