package timecode

import "testing"

// TestParseSecondsAcceptedForms checks all three textual time forms.
func TestParseSecondsAcceptedForms(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"120", 120},
		{"2:00", 120},
		{"0:02:00", 120},
		{"0", 0},
		{"1:01:01", 3661},
		{"10:30", 630},
		{" 90 ", 90},
	}

	for _, tc := range cases {
		if got := ParseSeconds(tc.in); got != tc.want {
			t.Errorf("ParseSeconds(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

// TestParseSecondsSilentFallback checks that malformed input parses to
// zero instead of failing.
func TestParseSecondsSilentFallback(t *testing.T) {
	cases := []string{"", "abc", "2:xx", "1:2:3:4", "-5", "+5", "1:-2", "::"}

	for _, in := range cases {
		if got := ParseSeconds(in); got != 0 {
			t.Errorf("ParseSeconds(%q) = %d, want 0", in, got)
		}
	}
}

// TestTimestampFormatting checks zero-padded HH:MM:SS output.
func TestTimestampFormatting(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "00:00:00"},
		{5, "00:00:05"},
		{125, "00:02:05"},
		{3661, "01:01:01"},
		{-3, "00:00:00"},
	}

	for _, tc := range cases {
		if got := Timestamp(tc.in); got != tc.want {
			t.Errorf("Timestamp(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

// TestTimestampTruncatesFractions checks floor, not round, behavior.
func TestTimestampTruncatesFractions(t *testing.T) {
	if got := Timestamp(20.9); got != "00:00:20" {
		t.Fatalf("Timestamp(20.9) = %q, want 00:00:20", got)
	}
}
