// Package stats implements heuristic listening-time estimation over track data.
//
// Spotify exposes no real play counts, so every figure this package produces
// is an estimate: each track's duration is multiplied by an assumed replay
// count for the lookback range it was fetched under.
package stats

import "fmt"

// Window is a Spotify lookback bucket for "top" entities.
type Window string

const (
	WindowShortTerm  Window = "short_term"
	WindowMediumTerm Window = "medium_term"
	WindowLongTerm   Window = "long_term"
)

// Windows lists all provider windows in short-to-long order.
func Windows() []Window {
	return []Window{WindowShortTerm, WindowMediumTerm, WindowLongTerm}
}

// Range is the coarse lookback range presented to users.
type Range string

const (
	RangeDay     Range = "day"
	RangeWeek    Range = "week"
	RangeMonth   Range = "month"
	RangeYear    Range = "year"
	RangeAllTime Range = "all_time"
)

// DefaultRangeReplays is the assumed replay count per range. The all-time
// value follows the union-mode estimate of 20 replays per track.
var DefaultRangeReplays = map[Range]int{
	RangeDay:     2,
	RangeWeek:    10,
	RangeMonth:   20,
	RangeYear:    30,
	RangeAllTime: 20,
}

// ParseRange validates a user-supplied range string.
func ParseRange(s string) (Range, error) {
	switch r := Range(s); r {
	case RangeDay, RangeWeek, RangeMonth, RangeYear, RangeAllTime:
		return r, nil
	}
	return "", fmt.Errorf("unknown range %q", s)
}

// Window returns the provider window backing the range. The all-time range
// has no single window (it unions all three) and maps to the long-term
// window when a single one is required.
func (r Range) Window() Window {
	switch r {
	case RangeDay, RangeWeek:
		return WindowShortTerm
	case RangeMonth:
		return WindowMediumTerm
	default:
		return WindowLongTerm
	}
}

// ReplayFunc looks up the assumed replay count for the window that fetched
// a track. Implementations must return a positive integer.
type ReplayFunc func(Window) int

// FixedReplays returns a ReplayFunc that ignores the window and always
// reports n replays.
func FixedReplays(n int) ReplayFunc {
	return func(Window) int { return n }
}

// RangeReplays returns the ReplayFunc for a coarse range using the default
// replay table.
func RangeReplays(r Range) ReplayFunc {
	return FixedReplays(DefaultRangeReplays[r])
}

// WindowReplays returns a ReplayFunc backed by a per-window table, used for
// unioned multi-window fetches where each track keeps the multiplier of the
// window that fetched it. Windows absent from the table report def replays.
func WindowReplays(table map[Window]int, def int) ReplayFunc {
	return func(w Window) int {
		if n, ok := table[w]; ok {
			return n
		}
		return def
	}
}
