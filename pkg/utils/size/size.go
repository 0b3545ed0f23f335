package size

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatBytes formats size with binary prefixes, e.g. 1.5KiB.
func FormatBytes(size int64) string {
	return format(size, 1024, "KMGTPE", "iB", "B")
}

// FormatNumber formats a count with decimal prefixes, e.g. 1.2k.
func FormatNumber(size int64) string {
	return format(size, 1000, "kMGTPE", "", "")
}

func format(size, unit int64, prefixes, suffix, plainSuffix string) string {
	if size < unit {
		return fmt.Sprintf("%d%s", size, plainSuffix)
	}
	div, exp := unit, 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%c%s", float64(size)/float64(div), prefixes[exp], suffix)
}

// Ordered longest first so that "kb" is matched before "b".
var suffixes = []struct {
	suffix     string
	multiplier int64
}{
	{"tib", 1 << 40}, {"gib", 1 << 30}, {"mib", 1 << 20}, {"kib", 1 << 10},
	{"tb", 1 << 40}, {"gb", 1 << 30}, {"mb", 1 << 20}, {"kb", 1 << 10},
	{"t", 1 << 40}, {"g", 1 << 30}, {"m", 1 << 20}, {"k", 1 << 10},
	{"b", 1},
}

// Parse parses sizes like "256k", "1.5m" or "4096". Units are binary and
// case-insensitive. An empty string is 0. Negative, non-finite and
// out-of-range values are rejected.
func Parse(size string) (int64, error) {
	size = strings.TrimSpace(size)
	if size == "" {
		return 0, nil
	}

	lower := strings.ToLower(size)
	for _, s := range suffixes {
		if !strings.HasSuffix(lower, s.suffix) {
			continue
		}
		numStr := strings.TrimSpace(size[:len(size)-len(s.suffix)])
		num, err := strconv.ParseFloat(numStr, 64)
		if err != nil || math.IsNaN(num) || math.IsInf(num, 0) {
			return 0, fmt.Errorf("invalid number: %s", numStr)
		}
		if num < 0 {
			return 0, fmt.Errorf("size must not be negative: %s", size)
		}
		bytes := num * float64(s.multiplier)
		// float64(MaxInt64) rounds up to 2^63, which no longer fits.
		if bytes >= math.MaxInt64 {
			return 0, fmt.Errorf("size is too large: %s", size)
		}
		return int64(bytes), nil
	}

	num, err := strconv.ParseInt(size, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size: %s", size)
	}
	if num < 0 {
		return 0, fmt.Errorf("size must not be negative: %s", size)
	}

	return num, nil
}
