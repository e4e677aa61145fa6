package textkit

import (
	"errors"
	"math"
	"strconv"
	"time"
)

// Error texts are replied to users verbatim.
var (
	ErrInvalidAmount     = errors.New("Invalid amount specified")
	ErrInvalidTimeFormat = errors.New("Invalid time format. Use 'h'/'m'/'d'")
)

// ExtractTime resolves a relative duration such as "15m", "2h" or "7d"
// against now. The amount must be plain decimal digits.
func ExtractTime(raw string, now time.Time) (time.Time, error) {
	if raw == "" {
		return time.Time{}, ErrInvalidTimeFormat
	}
	var unit time.Duration
	switch raw[len(raw)-1] {
	case 'm':
		unit = time.Minute
	case 'h':
		unit = time.Hour
	case 'd':
		unit = 24 * time.Hour
	default:
		return time.Time{}, ErrInvalidTimeFormat
	}

	num := raw[:len(raw)-1]
	if num == "" || !isDigits(num) {
		return time.Time{}, ErrInvalidAmount
	}
	n, err := strconv.ParseInt(num, 10, 64)
	if err != nil || n > int64(math.MaxInt64/unit) {
		return time.Time{}, ErrInvalidAmount
	}
	return now.Add(time.Duration(n) * unit), nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
