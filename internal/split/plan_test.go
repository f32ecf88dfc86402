package split

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

// TestBuildPlanFortySecondSource checks the canonical trim scenario.
func TestBuildPlanFortySecondSource(t *testing.T) {
	plan, err := BuildPlan(40, 5, 5, 15)
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}

	want := []Segment{
		{Start: 5, Duration: 15},
		{Start: 20, Duration: 15},
	}
	if !reflect.DeepEqual(plan, want) {
		t.Fatalf("plan = %+v, want %+v", plan, want)
	}
}

// TestBuildPlanRejectsShortUsable checks the one-second usability floor.
func TestBuildPlanRejectsShortUsable(t *testing.T) {
	cases := []struct {
		name         string
		total        float64
		intro, outro int
	}{
		{"negative usable clamps to zero", 5, 3, 3},
		{"exactly one second", 11, 5, 5},
		{"trims exceed total", 10, 20, 20},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildPlan(tc.total, tc.intro, tc.outro, 15)
			if err == nil {
				t.Fatal("expected error")
			}

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("error type = %T, want *ValidationError", err)
			}
		})
	}
}

// TestBuildPlanRejectsNonPositivePart checks part length validation.
func TestBuildPlanRejectsNonPositivePart(t *testing.T) {
	for _, part := range []int{0, -15} {
		_, err := BuildPlan(40, 0, 0, part)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("part=%d: error = %v, want *ValidationError", part, err)
		}
	}
}

// TestBuildPlanSegmentDurationsSumToUsable checks the core invariant
// over a grid of inputs.
func TestBuildPlanSegmentDurationsSumToUsable(t *testing.T) {
	cases := []struct {
		total        float64
		intro, outro int
		part         int
	}{
		{40, 5, 5, 15},
		{100, 0, 0, 30},
		{3600, 90, 120, 180},
		{40.5, 0, 0, 15},
		{7200.25, 10, 0, 600},
	}

	for _, tc := range cases {
		plan, err := BuildPlan(tc.total, tc.intro, tc.outro, tc.part)
		if err != nil {
			t.Fatalf("BuildPlan(%v,%d,%d,%d) error = %v", tc.total, tc.intro, tc.outro, tc.part, err)
		}

		usable := tc.total - float64(tc.intro) - float64(tc.outro)
		wantCount := int(math.Ceil(usable / float64(tc.part)))
		if len(plan) != wantCount {
			t.Fatalf("segment count = %d, want %d", len(plan), wantCount)
		}

		sum := 0.0
		for _, seg := range plan {
			sum += seg.Duration
		}
		if math.Abs(sum-usable) > 1e-9 {
			t.Fatalf("durations sum = %v, want %v", sum, usable)
		}
	}
}

// TestBuildPlanLastSegmentRemainder checks the final segment is the
// remainder when the usable span is not an exact multiple.
func TestBuildPlanLastSegmentRemainder(t *testing.T) {
	plan, err := BuildPlan(100, 0, 0, 30)
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}
	if len(plan) != 4 {
		t.Fatalf("segment count = %d, want 4", len(plan))
	}
	if plan[3].Duration != 10 {
		t.Fatalf("last duration = %v, want 10", plan[3].Duration)
	}
	if plan[3].Start != 90 {
		t.Fatalf("last start = %v, want 90", plan[3].Start)
	}
}

// TestBuildPlanReencodePolicy checks the whole-second copy policy:
// only fractional windows re-encode.
func TestBuildPlanReencodePolicy(t *testing.T) {
	plan, err := BuildPlan(40.5, 0, 0, 15)
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}
	if len(plan) != 3 {
		t.Fatalf("segment count = %d, want 3", len(plan))
	}

	for i, seg := range plan[:2] {
		if seg.Reencode {
			t.Errorf("segment %d should stream-copy, got reencode", i)
		}
	}
	if !plan[2].Reencode {
		t.Error("fractional tail segment should re-encode")
	}
	if plan[2].Duration != 10.5 {
		t.Fatalf("tail duration = %v, want 10.5", plan[2].Duration)
	}
}

// TestBuildPlanDeterministic checks that identical inputs always yield
// identical plans.
func TestBuildPlanDeterministic(t *testing.T) {
	first, err := BuildPlan(1234.56, 7, 11, 42)
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}
	second, err := BuildPlan(1234.56, 7, 11, 42)
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("plans differ for identical inputs")
	}
}
