package utils

import (
	"fmt"
	"math"
	"strconv"
)

// FormatInt formats n with comma thousands separators.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}

	if n < 1000 {
		return strconv.Itoa(n)
	}

	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}

// FormatAmount rounds v to a whole currency unit and groups thousands.
func FormatAmount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}

	return FormatInt(int(math.Round(v)))
}

// FormatPercent renders v with one decimal place and a percent sign.
func FormatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}
