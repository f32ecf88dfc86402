package timecode

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseSeconds converts a textual duration into whole seconds.
// Accepted forms: plain integer seconds ("120"), "mm:ss" ("2:00"),
// and "hh:mm:ss" ("0:02:00"). Anything else parses to 0 so that
// missing or malformed form fields degrade to the caller's default.
func ParseSeconds(raw string) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	if n, err := strconv.Atoi(s); err == nil && !strings.ContainsAny(s, "+-") {
		return n
	}

	fields := strings.Split(s, ":")
	switch len(fields) {
	case 2:
		m, errM := strconv.Atoi(strings.TrimSpace(fields[0]))
		sec, errS := strconv.Atoi(strings.TrimSpace(fields[1]))
		if errM != nil || errS != nil || m < 0 || sec < 0 {
			return 0
		}
		return m*60 + sec
	case 3:
		h, errH := strconv.Atoi(strings.TrimSpace(fields[0]))
		m, errM := strconv.Atoi(strings.TrimSpace(fields[1]))
		sec, errS := strconv.Atoi(strings.TrimSpace(fields[2]))
		if errH != nil || errM != nil || errS != nil || h < 0 || m < 0 || sec < 0 {
			return 0
		}
		return h*3600 + m*60 + sec
	default:
		return 0
	}
}

// Timestamp formats an offset in seconds as zero-padded HH:MM:SS for
// ffmpeg seek arguments. Fractional seconds are truncated, not rounded.
func Timestamp(seconds float64) string {
	total := int(math.Floor(math.Max(0, seconds)))
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
