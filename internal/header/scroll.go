package header

import (
	"math"
	"strconv"
)

// Metrics is a snapshot of the document scroll geometry in CSS pixels.
type Metrics struct {
	ScrollTop    float64 `json:"scrollTop"`
	ScrollHeight float64 `json:"scrollHeight"`
	ClientHeight float64 `json:"clientHeight"`
}

// ScrollPercent returns how far the document is scrolled, 0 to 100.
// A document no taller than the viewport has a zero or negative scroll range;
// the division is left as is and yields NaN or an infinity.
func ScrollPercent(m Metrics) float64 {
	return m.ScrollTop / (m.ScrollHeight - m.ClientHeight) * 100
}

// FormatPercent renders p with two decimals ("50.00").
func FormatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}

// progressWidth is the CSS width of the progress bar. Non-finite percentages
// render as an empty bar.
func progressWidth(p float64, show bool) string {
	if !show || math.IsNaN(p) || math.IsInf(p, 0) {
		return "0"
	}
	p = math.Max(0, math.Min(100, p))
	return FormatPercent(p) + "%"
}
