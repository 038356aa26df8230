package performance

import (
	"testing"
	"time"
)

func TestParsePeriodTruncatesToMonth(t *testing.T) {
	want := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	for _, input := range []string{"2024-05", "2024-05-17", "2024-05-31T22:10:00Z", " 2024-05 "} {
		t.Run(input, func(t *testing.T) {
			got, ok := ParsePeriod(input)
			if !ok {
				t.Fatalf("expected %q to parse", input)
			}
			if !got.Equal(want) {
				t.Fatalf("expected %v, got %v", want, got)
			}
		})
	}
}

func TestParsePeriodRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "May 2024", "2024-13"} {
		if _, ok := ParsePeriod(input); ok {
			t.Fatalf("expected %q to be rejected", input)
		}
	}
}

func TestWindowLabel(t *testing.T) {
	cases := []struct {
		window Window
		want   string
	}{
		{window: MonthWindow(2024, time.February), want: "2024-02"},
		{window: YearWindow(2023), want: "2023"},
		{window: Window{}, want: "all periods"},
		{
			window: Window{From: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), To: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
			want:   "2024-01-15 to 2024-03-01",
		},
	}
	for _, tc := range cases {
		if got := tc.window.Label(); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
	if end := MonthWindow(2024, time.February).To; end.Day() != 29 {
		t.Fatalf("expected leap-year end of month, got %v", end)
	}
}
