package isbn

import (
	"strconv"
	"strings"
)

// Normalize strips spaces and hyphens from user input, keeping digits and a
// trailing check character X (upper-cased).
func Normalize(raw string) string {
	var sb strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == 'x' || r == 'X':
			sb.WriteRune('X')
		case r == '-' || r == ' ':
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Valid reports whether s is a well-formed ISBN-10 or ISBN-13 with a correct
// check digit. s must already be normalized.
func Valid(s string) bool {
	switch len(s) {
	case 10:
		return valid10(s)
	case 13:
		return valid13(s)
	default:
		return false
	}
}

func valid13(s string) bool {
	sum := 0
	for i, c := range s {
		d, err := strconv.Atoi(string(c))
		if err != nil {
			return false
		}
		if i%2 == 0 {
			sum += d
		} else {
			sum += d * 3
		}
	}
	return sum%10 == 0
}

func valid10(s string) bool {
	sum := 0
	for i, c := range s {
		var d int
		switch {
		case c >= '0' && c <= '9':
			d = int(c - '0')
		case c == 'X' && i == 9:
			d = 10
		default:
			return false
		}
		sum += d * (10 - i)
	}
	return sum%11 == 0
}
