package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Zipper bundles produced segment files into a single compressed
// archive. Entry names are the source base names, which are already
// collision-free within one job's output directory.
type Zipper struct{}

// NewZipper returns a Zipper.
func NewZipper() *Zipper {
	return &Zipper{}
}

// Bundle writes a zip archive at archivePath containing every input
// file as a deflate-compressed entry. A partially written archive is
// removed on failure.
func (z *Zipper) Bundle(files []string, archivePath string) error {
	out, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}

	w := zip.NewWriter(out)
	for _, file := range files {
		if err := addEntry(w, file); err != nil {
			_ = w.Close()
			_ = out.Close()
			_ = os.Remove(archivePath)
			return err
		}
	}

	if err := w.Close(); err != nil {
		_ = out.Close()
		_ = os.Remove(archivePath)
		return fmt.Errorf("finalize archive: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(archivePath)
		return fmt.Errorf("flush archive: %w", err)
	}
	return nil
}

// addEntry copies one file into the archive under its base name.
func addEntry(w *zip.Writer, file string) error {
	in, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("open segment %s: %w", file, err)
	}
	defer in.Close()

	entry, err := w.CreateHeader(&zip.FileHeader{
		Name:   filepath.Base(file),
		Method: zip.Deflate,
	})
	if err != nil {
		return fmt.Errorf("add archive entry %s: %w", filepath.Base(file), err)
	}

	if _, err := io.Copy(entry, in); err != nil {
		return fmt.Errorf("write archive entry %s: %w", filepath.Base(file), err)
	}
	return nil
}
