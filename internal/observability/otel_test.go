package observability

import "testing"

func TestTracingEnabled(t *testing.T) {
	cases := []struct {
		value string
		want  bool
	}{
		{"", false},
		{"0", false},
		{"false", false},
		{"nope", false},
		{"1", true},
		{"true", true},
		{"YES", true},
		{" on ", true},
	}
	for _, tc := range cases {
		t.Setenv("OTEL_ENABLED", tc.value)
		if got := tracingEnabled(); got != tc.want {
			t.Fatalf("tracingEnabled with %q = %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestSampleRatioClamps(t *testing.T) {
	cases := []struct {
		value string
		want  float64
	}{
		{"", 0.1},
		{"garbage", 0.1},
		{"0.5", 0.5},
		{"-3", 0},
		{"7", 1},
	}
	for _, tc := range cases {
		t.Setenv("OTEL_SAMPLER_RATIO", tc.value)
		if got := sampleRatio(); got != tc.want {
			t.Fatalf("sampleRatio with %q = %v, want %v", tc.value, got, tc.want)
		}
	}
}
