package subtitle

import (
	"math"
	"strconv"
	"strings"
	"testing"
)

func TestFormatSRTTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{1.5, "00:00:01,500"},
		{1.2, "00:00:01,200"},
		{2.5, "00:00:02,500"},
		{59.9999, "00:00:59,999"}, // truncated, not rounded
		{0.0009, "00:00:00,000"},
		{3600, "01:00:00,000"},
		{3661.25, "01:01:01,250"},
		{7200.5, "02:00:00,500"},
		{360000, "100:00:00,000"},
		{-3, "00:00:00,000"},
	}

	for _, tt := range tests {
		got := FormatSRTTimestamp(tt.seconds)
		if got != tt.want {
			t.Errorf("FormatSRTTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatASSTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00:00.00"},
		{-0.2, "0:00:00.00"},
		{0.8, "0:00:00.80"},
		{0.999, "0:00:00.99"},
		{2.7, "0:00:02.70"},
		{61.25, "0:01:01.25"},
		{3661.5, "1:01:01.50"},
		{36000, "10:00:00.00"},
	}

	for _, tt := range tests {
		got := FormatASSTimestamp(tt.seconds)
		if got != tt.want {
			t.Errorf("FormatASSTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func parseSRTMillis(t *testing.T, ts string) int64 {
	t.Helper()

	clock, millisPart, ok := strings.Cut(ts, ",")
	if !ok {
		t.Fatalf("no millisecond separator in %q", ts)
	}
	parts := strings.Split(clock, ":")
	if len(parts) != 3 {
		t.Fatalf("expected HH:MM:SS in %q", ts)
	}

	var total int64
	for i, unit := range []int64{3_600_000, 60_000, 1000} {
		n, err := strconv.ParseInt(parts[i], 10, 64)
		if err != nil {
			t.Fatalf("bad field %q in %q: %v", parts[i], ts, err)
		}
		total += n * unit
	}
	ms, err := strconv.ParseInt(millisPart, 10, 64)
	if err != nil {
		t.Fatalf("bad millis in %q: %v", ts, err)
	}
	return total + ms
}

func TestFormatSRTTimestampRoundTrip(t *testing.T) {
	for i := 0; i < 5000; i++ {
		x := math.Mod(float64(i)*71.917353, 359999.999)
		got := parseSRTMillis(t, FormatSRTTimestamp(x))
		want := int64(math.Floor(x * 1000))
		if got != want {
			t.Fatalf("round trip of %v: got %d ms, want %d ms", x, got, want)
		}
	}
}
