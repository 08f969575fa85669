package stats

import "testing"

func TestParseRange(t *testing.T) {
	tests := []struct {
		in      string
		want    Range
		wantErr bool
	}{
		{in: "day", want: RangeDay},
		{in: "week", want: RangeWeek},
		{in: "month", want: RangeMonth},
		{in: "year", want: RangeYear},
		{in: "all_time", want: RangeAllTime},
		{in: "decade", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseRange(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseRange(%q) = %v, want error", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRange(%q) returned error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRange(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRangeWindow(t *testing.T) {
	tests := []struct {
		rng  Range
		want Window
	}{
		{RangeDay, WindowShortTerm},
		{RangeWeek, WindowShortTerm},
		{RangeMonth, WindowMediumTerm},
		{RangeYear, WindowLongTerm},
		{RangeAllTime, WindowLongTerm},
	}
	for _, tt := range tests {
		if got := tt.rng.Window(); got != tt.want {
			t.Errorf("%s.Window() = %s, want %s", tt.rng, got, tt.want)
		}
	}
}

func TestReplayTables(t *testing.T) {
	wantByRange := map[Range]int{
		RangeDay:     2,
		RangeWeek:    10,
		RangeMonth:   20,
		RangeYear:    30,
		RangeAllTime: 20,
	}
	for rng, want := range wantByRange {
		if got := RangeReplays(rng)(WindowShortTerm); got != want {
			t.Errorf("RangeReplays(%s) = %d, want %d", rng, got, want)
		}
	}

	fixed := FixedReplays(7)
	for _, w := range Windows() {
		if got := fixed(w); got != 7 {
			t.Errorf("FixedReplays(7)(%s) = %d, want 7", w, got)
		}
	}

	byWindow := WindowReplays(map[Window]int{WindowShortTerm: 3}, 9)
	if got := byWindow(WindowShortTerm); got != 3 {
		t.Errorf("WindowReplays short_term = %d, want 3", got)
	}
	if got := byWindow(WindowLongTerm); got != 9 {
		t.Errorf("WindowReplays fallback = %d, want 9", got)
	}
}
