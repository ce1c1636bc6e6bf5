// Package ibmtime converts between time.Time and the packed numeric date and
// time fields found in IBM i record formats (YYYYMMDD dates, HHMM or HHMMSS
// times).
//
// Decoding is total: zero or malformed input yields Absent, never an error.
// Encoding is plain arithmetic.
package ibmtime

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Constants
// ─────────────────────────────────────────────────────────────────────────────

// Absent is the "no date" value: 0001-01-01 00:00:00 UTC, the zero time.Time.
var Absent = time.Time{}

const (
	// Width4 selects the HHMM time form.
	Width4 = 4
	// Width6 selects the HHMMSS time form.
	Width6 = 6

	// InvalidTime is returned by EncodeTime for an unsupported width.
	InvalidTime = -1
)

// ErrUnsupportedWidth reports a time width other than 4 or 6.
var ErrUnsupportedWidth = errors.New("ibmi/ibmtime: time width must be 4 or 6")

// ValidWidth returns ErrUnsupportedWidth unless width is 4 or 6.
func ValidWidth(width int) error {
	if width != Width4 && width != Width6 {
		return fmt.Errorf("%w (got %d)", ErrUnsupportedWidth, width)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Decoding
// ─────────────────────────────────────────────────────────────────────────────

// DecodeDate converts a packed YYYYMMDD value to a date at midnight UTC.
//
// The decimal text is split positionally without zero padding, so values
// with fewer than eight digits (years before 1000) decode to Absent or to a
// wrong date.
func DecodeDate(packed int) time.Time {
	if packed == 0 {
		return Absent
	}
	return decodeDateText(strconv.Itoa(packed))
}

// DecodeDateTime combines a packed date with a packed time of the given width.
//
// Unlike the date, the time is zero-padded to width digits before it is
// split. An invalid HHMM time falls back to midnight on the same date; an
// invalid HHMMSS time yields Absent.
func DecodeDateTime(packedDate, packedTime, width int) time.Time {
	if packedDate == 0 && packedTime == 0 {
		return Absent
	}
	return decodeDateTimeText(strconv.Itoa(packedDate), packedTime, width)
}

func decodeDateTimeText(dateText string, packedTime, width int) time.Time {
	y, m, d, ok := splitDate(dateText)
	if !ok {
		return Absent
	}

	switch width {
	case Width4:
		text := fmt.Sprintf("%04d", packedTime)
		hh, ok1 := slot(text, 0)
		mm, ok2 := slot(text, 2)
		if t, ok := civil(y, m, d, hh, mm, 0); ok1 && ok2 && ok {
			return t
		}
		if t, ok := civil(y, m, d, 0, 0, 0); ok {
			return t
		}
		return Absent
	case Width6:
		text := fmt.Sprintf("%06d", packedTime)
		hh, ok1 := slot(text, 0)
		mm, ok2 := slot(text, 2)
		ss, ok3 := slot(text, 4)
		if !ok1 || !ok2 || !ok3 {
			return Absent
		}
		if t, ok := civil(y, m, d, hh, mm, ss); ok {
			return t
		}
		return Absent
	default:
		return Absent
	}
}

func decodeDateText(text string) time.Time {
	y, m, d, ok := splitDate(text)
	if !ok {
		return Absent
	}
	if t, ok := civil(y, m, d, 0, 0, 0); ok {
		return t
	}
	return Absent
}

// splitDate reads year [0:4], month [4:6] and day [6:8] from text.
func splitDate(text string) (y, m, d int, ok bool) {
	if len(text) < 8 {
		return 0, 0, 0, false
	}
	var err error
	if y, err = strconv.Atoi(text[0:4]); err != nil {
		return 0, 0, 0, false
	}
	if m, err = strconv.Atoi(text[4:6]); err != nil {
		return 0, 0, 0, false
	}
	if d, err = strconv.Atoi(text[6:8]); err != nil {
		return 0, 0, 0, false
	}
	return y, m, d, true
}

// slot reads the two-digit field starting at i. Signs are not digits.
func slot(text string, i int) (int, bool) {
	if len(text) < i+2 {
		return 0, false
	}
	a, b := text[i], text[i+1]
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}

// civil builds a UTC time only when every component is in range.
// time.Date normalises overflow (month 13, Feb 30), which must not happen here.
func civil(y, m, d, hh, mm, ss int) (time.Time, bool) {
	if y < 1 || y > 9999 || m < 1 || m > 12 || d < 1 {
		return Absent, false
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 || ss < 0 || ss > 59 {
		return Absent, false
	}
	t := time.Date(y, time.Month(m), d, hh, mm, ss, 0, time.UTC)
	if t.Day() != d || int(t.Month()) != m {
		return Absent, false
	}
	return t, true
}

// ─────────────────────────────────────────────────────────────────────────────
// Encoding
// ─────────────────────────────────────────────────────────────────────────────

// EncodeDate returns t as YYYYMMDD, or 0 for Absent.
func EncodeDate(t time.Time) int {
	if t.Equal(Absent) {
		return 0
	}
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

// EncodeTime returns the clock part of t as HHMMSS (width 6) or HHMM
// (width 4, seconds dropped). Any other width returns InvalidTime.
func EncodeTime(t time.Time, width int) int {
	switch width {
	case Width6:
		return t.Hour()*10000 + t.Minute()*100 + t.Second()
	case Width4:
		return t.Hour()*100 + t.Minute()
	default:
		return InvalidTime
	}
}
