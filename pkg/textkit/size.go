package textkit

import humanize "github.com/dustin/go-humanize"

// PrettySize renders a byte count with IEC units ("1.5 KiB").
func PrettySize(n int64) string {
	if n <= 0 {
		return "0 B"
	}
	return humanize.IBytes(uint64(n))
}
