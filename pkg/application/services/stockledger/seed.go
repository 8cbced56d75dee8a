package stockledger

import (
	"math"
	"strings"
)

// SeedFromKey derives the generator seed from an article key. The leading
// integer of the key is used (an optional sign, then decimal digits, or a
// 0x prefix for hexadecimal); keys without one, or whose integer is zero,
// seed with 1.
func SeedFromKey(key string) int64 {
	s := strings.TrimLeft(key, " \t\n\r\v\f")

	negative := false
	switch {
	case strings.HasPrefix(s, "-"):
		negative = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	base := int64(10)
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}

	var n int64
	digits := 0
	for _, r := range s {
		d := digitValue(r)
		if d < 0 || int64(d) >= base {
			break
		}
		if n > (math.MaxInt64-int64(d))/base {
			break
		}
		n = n*base + int64(d)
		digits++
	}

	if digits == 0 || n == 0 {
		return 1
	}
	if negative {
		return -n
	}
	return n
}

func digitValue(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10
	default:
		return -1
	}
}

// Random returns the pseudo-random value in [0, 1) for a seed and offset:
// the fractional part of sin(seed*1000 + offset*100) * 10000. The same
// pair always yields the same value.
func Random(seed int64, offset int) float64 {
	x := math.Sin(float64(seed)*1000+float64(offset)*100) * 10000
	return x - math.Floor(x)
}
