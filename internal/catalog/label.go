package catalog

import (
	"fmt"
	"strings"
)

var prettyReplacer = strings.NewReplacer("/", ", ", "St ", "St. ")

// PrettyName turns "America/St_Johns" into "America, St. Johns".
func PrettyName(id string) string {
	spaced := strings.ReplaceAll(id, "_", " ")
	return prettyReplacer.Replace(spaced)
}

// FormatOffset renders an offset in seconds as "+01:00" or "-03:30".
// Zero renders as an empty string.
func FormatOffset(seconds int) string {
	if seconds == 0 {
		return ""
	}
	sign := "+"
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	return fmt.Sprintf("%s%02d:%02d", sign, seconds/3600, (seconds%3600)/60)
}

// Label builds "(GMT+01:00) Europe, London", or "(GMT) UTC" at offset zero.
func Label(id string, offset int) string {
	return fmt.Sprintf("(GMT%s) %s", FormatOffset(offset), PrettyName(id))
}
