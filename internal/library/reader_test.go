package library

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestReader_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.texlib")

	// Write textures
	w, err := New(dbPath, Metadata{Name: "Test Library"})
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}

	textures := []struct {
		name    string
		size    int
		project string
		png     string
	}{
		{"cells", 256, `{"name":"cells"}`, "cells png data"},
		{"fabric", 1024, `{"name":"fabric"}`, "fabric png data"},
		{"marble", 512, `{"name":"marble"}`, "marble png data"},
	}

	for _, tex := range textures {
		err = w.WriteTexture(tex.name, tex.size, []byte(tex.project), []byte(tex.png))
		if err != nil {
			t.Fatalf("Failed to write texture %q: %v", tex.name, err)
		}
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	// Read textures back
	r, err := OpenReader(dbPath)
	if err != nil {
		t.Fatalf("Failed to open reader: %v", err)
	}
	defer r.Close()

	for _, tex := range textures {
		entry, err := r.ReadTexture(tex.name)
		if err != nil {
			t.Fatalf("Failed to read texture %q: %v", tex.name, err)
		}

		if entry.Name != tex.name {
			t.Errorf("Texture %q name mismatch: got %q", tex.name, entry.Name)
		}
		if entry.Size != tex.size {
			t.Errorf("Texture %q size mismatch: got %d, want %d", tex.name, entry.Size, tex.size)
		}
		if string(entry.Project) != tex.project {
			t.Errorf("Texture %q project mismatch: got %q, want %q", tex.name, string(entry.Project), tex.project)
		}
		if string(entry.PNG) != tex.png {
			t.Errorf("Texture %q data mismatch: got %q, want %q", tex.name, string(entry.PNG), tex.png)
		}
		if entry.CreatedAt.IsZero() {
			t.Errorf("Texture %q has zero created_at", tex.name)
		}
	}
}

func TestReader_List(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.texlib")

	w, err := New(dbPath, Metadata{Name: "Test"})
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}

	// Write in non-alphabetical order
	for _, name := range []string{"marble", "cells", "fabric"} {
		if err := w.WriteTexture(name, 256, []byte(`{}`), []byte("png")); err != nil {
			t.Fatalf("Failed to write texture %q: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	r, err := OpenReader(dbPath)
	if err != nil {
		t.Fatalf("Failed to open reader: %v", err)
	}
	defer r.Close()

	summaries, err := r.List()
	if err != nil {
		t.Fatalf("Failed to list textures: %v", err)
	}

	wantOrder := []string{"cells", "fabric", "marble"}
	if len(summaries) != len(wantOrder) {
		t.Fatalf("Expected %d textures, got %d", len(wantOrder), len(summaries))
	}
	for i, want := range wantOrder {
		if summaries[i].Name != want {
			t.Errorf("List[%d] = %q, want %q", i, summaries[i].Name, want)
		}
		if summaries[i].Size != 256 {
			t.Errorf("List[%d] size = %d, want 256", i, summaries[i].Size)
		}
	}
}

func TestReader_Metadata(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.texlib")

	expectedMetadata := Metadata{
		Name:        "Test Library",
		Description: "Test description",
		Version:     "1.0",
	}

	// Write database with metadata
	w, err := New(dbPath, expectedMetadata)
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	// Read metadata back
	r, err := OpenReader(dbPath)
	if err != nil {
		t.Fatalf("Failed to open reader: %v", err)
	}
	defer r.Close()

	meta, err := r.Metadata()
	if err != nil {
		t.Fatalf("Failed to read metadata: %v", err)
	}

	if meta.Name != expectedMetadata.Name {
		t.Errorf("Name mismatch: got %q, want %q", meta.Name, expectedMetadata.Name)
	}
	if meta.Description != expectedMetadata.Description {
		t.Errorf("Description mismatch: got %q, want %q", meta.Description, expectedMetadata.Description)
	}
	if meta.Version != expectedMetadata.Version {
		t.Errorf("Version mismatch: got %q, want %q", meta.Version, expectedMetadata.Version)
	}
}

func TestReader_TextureNotFound(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.texlib")

	// Create empty database
	w, err := New(dbPath, Metadata{Name: "Test"})
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	// Try to read non-existent texture
	r, err := OpenReader(dbPath)
	if err != nil {
		t.Fatalf("Failed to open reader: %v", err)
	}
	defer r.Close()

	_, err = r.ReadTexture("missing")
	if err == nil {
		t.Fatal("Expected error for non-existent texture, got nil")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestReader_InvalidDatabase(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "invalid.texlib")

	// Create a file that is not a database
	if err := os.WriteFile(dbPath, []byte("not a database"), 0o644); err != nil {
		t.Fatalf("Failed to create invalid file: %v", err)
	}

	// Try to open it
	_, err := OpenReader(dbPath)
	if err == nil {
		t.Error("Expected error for invalid database, got nil")
	}
}
