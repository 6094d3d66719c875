// Package shape classifies loosely formatted date/time literals by their
// separators and length.
package shape

import (
	"regexp"
	"strings"

	"github.com/aleister1102/zoneshift/internal/common/timeutils"
)

// Shape is the literal form of a date/time value.
type Shape int

const (
	Unrecognized Shape = iota
	Timestamp
	Date
	Time
)

// bareTimeMaxLen is the length of "14:00:00". Anything longer that carries
// a colon is treated as a timestamp.
const bareTimeMaxLen = 8

// dateLen is the fixed width of "2018-07-25" and "25/07/2018".
const dateLen = 10

var microsecondsRegex = regexp.MustCompile(`[0-5][0-9]\.([0-9]){1,6}$`)

// String returns the lowercase name of the shape.
func (s Shape) String() string {
	switch s {
	case Timestamp:
		return "timestamp"
	case Date:
		return "date"
	case Time:
		return "time"
	default:
		return "unrecognized"
	}
}

// Layout returns the canonical write-back layout for the shape. micro adds
// a six digit fractional second. Unrecognized has no layout.
func (s Shape) Layout(micro bool) string {
	switch s {
	case Timestamp:
		if micro {
			return timeutils.LayoutDateTimeMicro
		}
		return timeutils.LayoutDateTime
	case Time:
		if micro {
			return timeutils.LayoutTimeMicro
		}
		return timeutils.LayoutTimeOnly
	case Date:
		return timeutils.LayoutDateOnly
	default:
		return ""
	}
}

// IsTimestamp reports whether v carries both a date and a time component.
func IsTimestamp(v string) bool {
	if !strings.Contains(v, ":") {
		return false
	}
	return hasDateSeparator(v) || len(v) > bareTimeMaxLen
}

// IsTime reports whether v is a bare time of day.
func IsTime(v string) bool {
	return strings.Contains(v, ":") && !hasDateSeparator(v) && len(v) <= bareTimeMaxLen
}

// IsDate reports whether v is a bare calendar date.
func IsDate(v string) bool {
	return hasDateSeparator(v) && !strings.Contains(v, ":") && len(v) == dateLen
}

// Classify checks timestamp, then time, then date.
func Classify(v string) Shape {
	switch {
	case IsTimestamp(v):
		return Timestamp
	case IsTime(v):
		return Time
	case IsDate(v):
		return Date
	default:
		return Unrecognized
	}
}

// HasMicroseconds reports whether v ends in a seconds field followed by a
// fractional part of one to six digits.
func HasMicroseconds(v string) bool {
	return microsecondsRegex.MatchString(v)
}

func hasDateSeparator(v string) bool {
	return strings.ContainsAny(v, "-/")
}
