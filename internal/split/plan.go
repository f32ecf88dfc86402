package split

import "math"

// Segment is one planned output window in absolute source time.
type Segment struct {
	Start    float64
	Duration float64
	Reencode bool
}

// ValidationError reports parameters that cannot yield a usable plan.
// It is rejected before any job record exists.
type ValidationError struct {
	Message string
}

// Error returns the human-readable validation message.
func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// BuildPlan computes the ordered segment windows for a source of the
// given total duration after trimming intro/outro, cut into parts of
// partSeconds. The final segment is shorter when the usable duration
// is not an exact multiple; it is never padded. The plan is a pure
// function of its inputs. A usable duration of one second or less
// fails with a ValidationError.
func BuildPlan(totalDuration float64, introSeconds, outroSeconds, partSeconds int) ([]Segment, error) {
	if partSeconds <= 0 {
		return nil, &ValidationError{Message: "part duration must be greater than 0"}
	}

	start := clamp(float64(introSeconds), 0, totalDuration)
	endCut := clamp(float64(outroSeconds), 0, totalDuration)
	usable := math.Max(0, totalDuration-start-endCut)
	if usable <= 1 {
		return nil, &ValidationError{Message: "usable duration is too short after trimming intro/outro"}
	}

	part := float64(partSeconds)
	count := int(math.Ceil(usable / part))
	segments := make([]Segment, 0, count)
	for i := 0; i < count; i++ {
		offset := float64(i) * part
		seg := Segment{
			Start:    start + offset,
			Duration: math.Min(part, usable-offset),
		}
		seg.Reencode = needsReencode(seg)
		segments = append(segments, seg)
	}

	return segments, nil
}

// needsReencode decides copy vs encode for one window. The policy is
// an exact whole-second check with zero tolerance: any fractional
// start or duration re-encodes for a precise cut, everything else
// stream-copies for speed.
func needsReencode(seg Segment) bool {
	return seg.Start != math.Trunc(seg.Start) || seg.Duration != math.Trunc(seg.Duration)
}

// clamp bounds v to the inclusive range [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
