package core

import (
	"fmt"
	"time"
)

// Locale selects the calendar used for day-granularity axis labels.
type Locale string

const (
	LocaleEnglish Locale = "en"
	LocaleFarsi   Locale = "fa" // Jalali calendar
)

// ParseLocale maps a config string to a Locale, defaulting to English.
func ParseLocale(s string) Locale {
	if Locale(s) == LocaleFarsi {
		return LocaleFarsi
	}
	return LocaleEnglish
}

// FormatLabel renders the axis label for a bucket's start instant. Minute and
// hour buckets get a short clock time. Day buckets get a localized date; the
// still-open "today" bucket additionally carries openAt as a clock suffix so
// it reads differently from a closed day — the bucket start itself is
// midnight-aligned and would only ever render 00:00. A zero openAt means the
// bucket is closed. A locale whose calendar conversion fails falls back to
// ISO-8601 instead of surfacing the error.
func FormatLabel(t time.Time, g Granularity, loc Locale, openAt time.Time) string {
	switch g {
	case GranularityMinute, GranularityHour:
		return t.Format("15:04")
	default:
		date := formatDate(t, loc)
		if !openAt.IsZero() {
			return date + " " + openAt.Format("15:04")
		}
		return date
	}
}

func formatDate(t time.Time, loc Locale) string {
	if loc == LocaleFarsi {
		jy, jm, jd, err := gregorianToJalali(t.Year(), int(t.Month()), t.Day())
		if err != nil {
			return t.Format("2006-01-02")
		}
		return fmt.Sprintf("%04d/%02d/%02d", jy, jm, jd)
	}
	return t.Format("Jan 2")
}

// gregorianToJalali converts a Gregorian civil date to the Jalali calendar
// (jalaali-js arithmetic). Dates before the Jalali epoch cannot be expressed
// and return an error, which the formatter turns into an ISO fallback.
func gregorianToJalali(gy, gm, gd int) (jy, jm, jd int, err error) {
	if gy < 622 {
		return 0, 0, 0, fmt.Errorf("year %d predates the Jalali epoch", gy)
	}

	var monthDays = [12]int{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}
	gy2 := gy
	if gm > 2 {
		gy2 = gy + 1
	}
	days := 355666 + 365*gy + (gy2+3)/4 - (gy2+99)/100 + (gy2+399)/400 + gd + monthDays[gm-1]

	jy = -1595 + 33*(days/12053)
	days %= 12053
	jy += 4 * (days / 1461)
	days %= 1461
	if days > 365 {
		jy += (days - 1) / 365
		days = (days - 1) % 365
	}
	if days < 186 {
		jm = 1 + days/31
		jd = 1 + days%31
	} else {
		jm = 7 + (days-186)/30
		jd = 1 + (days-186)%30
	}
	return jy, jm, jd, nil
}
