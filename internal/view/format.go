package view

import "fmt"

const (
	kib = 1024
	mib = 1024 * 1024
)

// etaUnknown is rendered when no estimate is available.
const etaUnknown = "—"

// FormatSpeed renders a byte-per-second rate on a 1024 scale. KB/s and MB/s
// are rounded to one decimal; plain bytes are printed as integers.
func FormatSpeed(bytesPerSec int64) string {
	switch {
	case bytesPerSec >= mib:
		return fmt.Sprintf("%.1f MB/s", float64(bytesPerSec)/mib)
	case bytesPerSec >= kib:
		return fmt.Sprintf("%.1f KB/s", float64(bytesPerSec)/kib)
	default:
		return fmt.Sprintf("%d B/s", bytesPerSec)
	}
}

// FormatETA renders a seconds-remaining estimate. nil means unknown.
// Sub-minute values are plain seconds; longer values are minutes with a
// seconds remainder only when it is non-zero ("1m30s", "2m").
func FormatETA(seconds *int64) string {
	if seconds == nil {
		return etaUnknown
	}
	s := *seconds
	if s < 60 {
		return fmt.Sprintf("%ds", s)
	}
	m := s / 60
	rem := s % 60
	if rem == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dm%ds", m, rem)
}
