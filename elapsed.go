package pkgdocs

import (
	"fmt"
	"time"
)

// Calendar units used by FormatElapsed, largest first. A year is 365 days
// and a month 30 days.
var elapsedUnits = []struct {
	name    string
	seconds int64
}{
	{"year", 365 * 24 * 60 * 60},
	{"month", 30 * 24 * 60 * 60},
	{"day", 24 * 60 * 60},
	{"hour", 60 * 60},
	{"minute", 60},
	{"second", 1},
}

// FormatElapsed renders d, truncated to whole seconds, using its two largest
// nonzero units: "1 minute", "3 days and 4 hours". A duration under one
// second renders as "0 seconds".
func FormatElapsed(d time.Duration) string {
	remainder := int64(d / time.Second)
	if remainder < 0 {
		remainder = -remainder
	}

	parts := make([]string, 0, 2)
	for _, u := range elapsedUnits {
		n := remainder / u.seconds
		remainder %= u.seconds
		if n == 0 {
			continue
		}
		parts = append(parts, plural(n, u.name))
		if len(parts) == 2 {
			break
		}
	}

	switch len(parts) {
	case 0:
		return "0 seconds"
	case 1:
		return parts[0]
	default:
		return parts[0] + " and " + parts[1]
	}
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
