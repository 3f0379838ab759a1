package styles

import "fmt"

// FormatSeconds renders a length in seconds as m:ss.t, adding an hour field
// for long material. Negative inputs render as zero.
func FormatSeconds(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	// Round to tenths first so 59.97 becomes 1:00.0, not 0:60.0.
	tenths := int64(seconds*10 + 0.5)
	h := tenths / 36000
	m := tenths / 600 % 60
	s := float64(tenths%600) / 10
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%04.1f", h, m, s)
	}
	return fmt.Sprintf("%d:%04.1f", m, s)
}
