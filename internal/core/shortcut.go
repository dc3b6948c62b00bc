package core

import "time"

// Shortcut is a named relative time range ("usage over the last X").
type Shortcut string

const (
	Shortcut1h  Shortcut = "1h"
	Shortcut6h  Shortcut = "6h"
	Shortcut24h Shortcut = "24h"
	Shortcut3d  Shortcut = "3d"
	Shortcut1w  Shortcut = "1w"
	Shortcut2w  Shortcut = "2w"
	Shortcut1m  Shortcut = "1m"
	ShortcutAll Shortcut = "all"
)

var ValidShortcuts = []Shortcut{
	Shortcut1h,
	Shortcut6h,
	Shortcut24h,
	Shortcut3d,
	Shortcut1w,
	Shortcut2w,
	Shortcut1m,
	ShortcutAll,
}

// Duration returns the shortcut's span. ShortcutAll returns 0, meaning
// "no lower bound".
func (s Shortcut) Duration() time.Duration {
	switch s {
	case Shortcut1h:
		return time.Hour
	case Shortcut6h:
		return 6 * time.Hour
	case Shortcut24h:
		return 24 * time.Hour
	case Shortcut3d:
		return 3 * 24 * time.Hour
	case Shortcut1w:
		return 7 * 24 * time.Hour
	case Shortcut2w:
		return 14 * 24 * time.Hour
	case Shortcut1m:
		return 30 * 24 * time.Hour
	case ShortcutAll:
		return 0
	default:
		return 24 * time.Hour
	}
}

// Granularity returns the bucket width implied by the shortcut's span:
// one hour of minute buckets keeps a sparkline dense, up to two days of hour
// buckets stays readable, anything longer gets day buckets and the tick
// calculator thins the axis instead of the resolver inventing wider buckets.
func (s Shortcut) Granularity() Granularity {
	d := s.Duration()
	switch {
	case s == ShortcutAll:
		return GranularityDay
	case d <= 2*time.Hour:
		return GranularityMinute
	case d <= 48*time.Hour:
		return GranularityHour
	default:
		return GranularityDay
	}
}

func (s Shortcut) Label() string {
	switch s {
	case Shortcut1h:
		return "1 Hour"
	case Shortcut6h:
		return "6 Hours"
	case Shortcut24h:
		return "24 Hours"
	case Shortcut3d:
		return "3 Days"
	case Shortcut1w:
		return "1 Week"
	case Shortcut2w:
		return "2 Weeks"
	case Shortcut1m:
		return "1 Month"
	case ShortcutAll:
		return "All Time"
	default:
		return "24 Hours"
	}
}

// ParseShortcut maps a config/query string to a Shortcut, defaulting to 24h.
func ParseShortcut(s string) Shortcut {
	for _, sc := range ValidShortcuts {
		if string(sc) == s {
			return sc
		}
	}
	return Shortcut24h
}

// NextShortcut returns the next shortcut in the cycle.
func NextShortcut(current Shortcut) Shortcut {
	for i, sc := range ValidShortcuts {
		if sc == current {
			return ValidShortcuts[(i+1)%len(ValidShortcuts)]
		}
	}
	return ValidShortcuts[0]
}
