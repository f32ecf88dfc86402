package archive

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// TestBundleCreatesReadableArchive round-trips a bundle through the
// zip reader and checks names, order, and content.
func TestBundleCreatesReadableArchive(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "movie_part_001.mp4")
	second := filepath.Join(dir, "movie_part_002.mp4")
	writeFile(t, first, "segment one")
	writeFile(t, second, "segment two")

	archivePath := filepath.Join(dir, "clips.zip")
	if err := NewZipper().Bundle([]string{first, second}, archivePath); err != nil {
		t.Fatalf("Bundle: %v", err)
	}

	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer reader.Close()

	if len(reader.File) != 2 {
		t.Fatalf("archive has %d entries, want 2", len(reader.File))
	}

	wantNames := []string{"movie_part_001.mp4", "movie_part_002.mp4"}
	wantContent := []string{"segment one", "segment two"}
	for i, entry := range reader.File {
		if entry.Name != wantNames[i] {
			t.Errorf("entry %d name = %q, want %q", i, entry.Name, wantNames[i])
		}
		rc, err := entry.Open()
		if err != nil {
			t.Fatalf("open entry %s: %v", entry.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read entry %s: %v", entry.Name, err)
		}
		if string(data) != wantContent[i] {
			t.Errorf("entry %d content = %q, want %q", i, data, wantContent[i])
		}
	}
}

// TestBundleEmptyFileList checks an empty bundle still yields a valid
// archive with no entries.
func TestBundleEmptyFileList(t *testing.T) {
	archivePath := filepath.Join(t.TempDir(), "clips.zip")
	if err := NewZipper().Bundle(nil, archivePath); err != nil {
		t.Fatalf("Bundle: %v", err)
	}

	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer reader.Close()
	if len(reader.File) != 0 {
		t.Fatalf("archive has %d entries, want 0", len(reader.File))
	}
}

// TestBundleMissingInputRemovesPartialArchive checks a failed bundle
// leaves no half-written archive behind.
func TestBundleMissingInputRemovesPartialArchive(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "movie_part_001.mp4")
	writeFile(t, existing, "segment one")

	archivePath := filepath.Join(dir, "clips.zip")
	err := NewZipper().Bundle([]string{existing, filepath.Join(dir, "missing.mp4")}, archivePath)
	if err == nil {
		t.Fatal("expected an error for the missing input")
	}

	if _, statErr := os.Stat(archivePath); !os.IsNotExist(statErr) {
		t.Fatalf("partial archive left behind: %v", statErr)
	}
}
