package timeutils

import "time"

// Common time layout constants
const (
	LayoutRFC3339       = time.RFC3339
	LayoutDateOnly      = "2006-01-02"
	LayoutTimeOnly      = "15:04:05"
	LayoutDateTime      = "2006-01-02 15:04:05"
	LayoutTimeMicro     = "15:04:05.000000"
	LayoutDateTimeISO   = "2006-01-02T15:04:05"
	LayoutDateTimeMicro = "2006-01-02 15:04:05.000000"
	LayoutTimeShort     = "15:04"
)

// Day-first and month-first layouts the engine accepts after separator
// normalization.
const (
	LayoutDayFirstDate     = "02-01-2006"
	LayoutDayFirstDateTime = "02-01-2006 15:04:05"
	LayoutUSDate           = "01/02/2006"
	LayoutUSDateTime       = "01/02/2006 15:04:05"
)

// DefaultPattern is the CLDR pattern used when no format is configured.
const DefaultPattern = "yyyy-MM-dd HH:mm:ss"
