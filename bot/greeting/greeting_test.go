package greeting

import (
	"strings"
	"testing"
	"time"
)

// atISTHour returns a UTC instant whose IST wall-clock hour is the given value.
func atISTHour(hour, minute int) time.Time {
	ist := time.Date(2026, time.March, 10, hour, minute, 0, 0, time.UTC)
	return ist.Add(-istOffset)
}

func TestBandBoundaries(t *testing.T) {
	cases := []struct {
		hour, minute int
		want         string
	}{
		{4, 59, "🌙 Good Night"},
		{5, 0, "🌅 Good Morning"},
		{11, 59, "🌅 Good Morning"},
		{12, 0, "🌞 Good Afternoon"},
		{16, 59, "🌞 Good Afternoon"},
		{17, 0, "🌇 Good Evening"},
		{20, 59, "🌇 Good Evening"},
		{21, 0, "🌙 Good Night"},
		{23, 0, "🌙 Good Night"},
		{0, 0, "🌙 Good Night"},
	}
	for _, tc := range cases {
		if got := Band(atISTHour(tc.hour, tc.minute)); got != tc.want {
			t.Errorf("hour %02d:%02d IST: got %q, want %q", tc.hour, tc.minute, got, tc.want)
		}
	}
}

func TestForPrefersUsername(t *testing.T) {
	got := For(atISTHour(9, 0), "alice", "Alice Smith")
	if !strings.Contains(got, "@alice") {
		t.Fatalf("expected username mention, got %q", got)
	}
	if !strings.HasSuffix(got, "!") {
		t.Fatalf("expected trailing exclamation, got %q", got)
	}
}

func TestForFallsBackToFirstName(t *testing.T) {
	got := For(atISTHour(9, 0), "", "Bob")
	if !strings.Contains(got, "Bob") || strings.Contains(got, "@") {
		t.Fatalf("expected bare first name, got %q", got)
	}
}

func TestForAnonymousUser(t *testing.T) {
	got := For(atISTHour(9, 0), "", "")
	if !strings.Contains(got, "there") {
		t.Fatalf("expected generic fallback, got %q", got)
	}
}
