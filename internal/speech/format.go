package speech

import "github.com/dustin/go-humanize"

var sizeUnits = []string{"KB", "MB", "GB", "TB", "PB"}

// FormatSize renders a byte count the way it is read aloud: 1024-based
// units, one truncated decimal below ten and none above, no trailing ".0".
//
//	0 → "0 bytes", 1 → "1 byte", 1024 → "1 KB", 1536 → "1.5 KB", 20480 → "20 KB"
func FormatSize(n int64) string {
	if n < 1024 {
		if n == 1 {
			return "1 byte"
		}
		return humanize.Comma(n) + " bytes"
	}

	v := float64(n)
	unit := ""
	for _, u := range sizeUnits {
		v /= 1024
		unit = u
		if v < 1024 {
			break
		}
	}

	digits := 1
	if v >= 10 {
		digits = 0
	}
	return humanize.FtoaWithDigits(v, digits) + " " + unit
}

// FormatCount renders "1 item", "12 items", "1,204 items"
func FormatCount(n int, singular, plural string) string {
	if n == 1 {
		return "1 " + singular
	}
	return humanize.Comma(int64(n)) + " " + plural
}
