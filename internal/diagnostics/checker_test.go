package diagnostics

import (
	"errors"
	"os"
	"testing"

	"video-splitter/internal/config"
	"video-splitter/internal/domain"
)

func passingChecker(t *testing.T) *Checker {
	t.Helper()
	return NewCheckerForTests(
		func(name string) (string, error) { return "/usr/bin/" + name, nil },
		func(string, os.FileMode) error { return nil },
		func(dir, pattern string) (*os.File, error) {
			return os.CreateTemp(t.TempDir(), "check-*")
		},
		os.Remove,
	)
}

// TestRunAllChecksPass checks a fully healthy environment produces a
// report with no failures.
func TestRunAllChecksPass(t *testing.T) {
	checker := passingChecker(t)

	report := checker.Run(
		config.MediaConfig{FFmpegPath: "ffmpeg", FFprobePath: "ffprobe"},
		config.StorageConfig{UploadDir: "uploads"},
	)

	if report.HasFailures {
		t.Fatalf("unexpected failures: %+v", report.Items)
	}
	if len(report.Items) != 3 {
		t.Fatalf("got %d items, want 3", len(report.Items))
	}
	wantIDs := []string{"tool_ffmpeg", "tool_ffprobe", "upload_dir"}
	for i, item := range report.Items {
		if item.ID != wantIDs[i] {
			t.Errorf("item %d id = %q, want %q", i, item.ID, wantIDs[i])
		}
		if item.Status != domain.DiagnosticStatusPass {
			t.Errorf("item %s status = %q", item.ID, item.Status)
		}
	}
}

// TestRunMissingBinary checks an unresolvable engine binary fails its
// check with an actionable hint.
func TestRunMissingBinary(t *testing.T) {
	checker := NewCheckerForTests(
		func(name string) (string, error) {
			if name == "ffmpeg" {
				return "", errors.New("executable not found")
			}
			return "/usr/bin/" + name, nil
		},
		func(string, os.FileMode) error { return nil },
		func(dir, pattern string) (*os.File, error) {
			return os.CreateTemp(t.TempDir(), "check-*")
		},
		os.Remove,
	)

	report := checker.Run(
		config.MediaConfig{FFmpegPath: "ffmpeg", FFprobePath: "ffprobe"},
		config.StorageConfig{UploadDir: "uploads"},
	)

	if !report.HasFailures {
		t.Fatal("expected failures")
	}
	item := report.Items[0]
	if item.ID != "tool_ffmpeg" || item.Status != domain.DiagnosticStatusFail {
		t.Fatalf("item = %+v", item)
	}
	if item.Hint == "" {
		t.Fatal("failing check carries no hint")
	}
}

// TestRunConfiguredPathUsedForLookup checks a configured absolute path
// is resolved instead of the bare tool name.
func TestRunConfiguredPathUsedForLookup(t *testing.T) {
	var looked []string
	checker := NewCheckerForTests(
		func(name string) (string, error) {
			looked = append(looked, name)
			return name, nil
		},
		func(string, os.FileMode) error { return nil },
		func(dir, pattern string) (*os.File, error) {
			return os.CreateTemp(t.TempDir(), "check-*")
		},
		os.Remove,
	)

	checker.Run(
		config.MediaConfig{FFmpegPath: "/opt/ffmpeg/bin/ffmpeg", FFprobePath: ""},
		config.StorageConfig{UploadDir: "uploads"},
	)

	if len(looked) != 2 || looked[0] != "/opt/ffmpeg/bin/ffmpeg" || looked[1] != "ffprobe" {
		t.Fatalf("lookups = %v", looked)
	}
}

// TestRunUploadDirFailures covers the storage check failure modes.
func TestRunUploadDirFailures(t *testing.T) {
	cases := []struct {
		name       string
		uploadDir  string
		mkdirAll   func(string, os.FileMode) error
		createTemp func(string, string) (*os.File, error)
	}{
		{
			name:       "empty path",
			uploadDir:  "  ",
			mkdirAll:   func(string, os.FileMode) error { return nil },
			createTemp: func(string, string) (*os.File, error) { return nil, errors.New("unused") },
		},
		{
			name:       "cannot create",
			uploadDir:  "uploads",
			mkdirAll:   func(string, os.FileMode) error { return errors.New("permission denied") },
			createTemp: func(string, string) (*os.File, error) { return nil, errors.New("unused") },
		},
		{
			name:       "not writable",
			uploadDir:  "uploads",
			mkdirAll:   func(string, os.FileMode) error { return nil },
			createTemp: func(string, string) (*os.File, error) { return nil, errors.New("read-only file system") },
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			checker := NewCheckerForTests(
				func(name string) (string, error) { return "/usr/bin/" + name, nil },
				tc.mkdirAll,
				tc.createTemp,
				os.Remove,
			)

			report := checker.Run(config.MediaConfig{}, config.StorageConfig{UploadDir: tc.uploadDir})
			item := report.Items[2]
			if item.Status != domain.DiagnosticStatusFail {
				t.Fatalf("status = %q, want fail", item.Status)
			}
			if !report.HasFailures {
				t.Fatal("report does not flag failures")
			}
		})
	}
}

// TestRunWriteCheckCleansUp checks the probe file created during the
// storage check is removed afterwards.
func TestRunWriteCheckCleansUp(t *testing.T) {
	dir := t.TempDir()
	checker := NewCheckerForTests(
		func(name string) (string, error) { return "/usr/bin/" + name, nil },
		os.MkdirAll,
		os.CreateTemp,
		os.Remove,
	)

	report := checker.Run(config.MediaConfig{}, config.StorageConfig{UploadDir: dir})
	if report.HasFailures {
		t.Fatalf("unexpected failures: %+v", report.Items)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("leftover probe file: %s", entries[0].Name())
	}
}
