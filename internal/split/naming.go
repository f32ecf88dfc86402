package split

import (
	"fmt"
	"regexp"
	"strings"
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// SanitizeName reduces a user-suppliable name to a safe filesystem
// character subset, falling back when nothing survives.
func SanitizeName(raw, fallback string) string {
	name := unsafeNameChars.ReplaceAllString(strings.TrimSpace(raw), "_")
	name = strings.Trim(name, "_")
	if name == "" {
		return fallback
	}
	return name
}

// PartFileName builds the zero-padded segment file name for a 0-based
// segment index.
func PartFileName(baseName string, index int) string {
	return fmt.Sprintf("%s_part_%03d.mp4", baseName, index+1)
}

// ArchiveFileName is the bundled archive entry created per job.
const ArchiveFileName = "clips.zip"
