package collect

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ParseInt reads the leading integer of raw, skipping leading whitespace and
// ignoring trailing garbage. ok is false when no digits are found.
func ParseInt(raw string) (value any, ok bool) {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	if end == start {
		return nil, false
	}

	literal := s[:end]
	if n, err := strconv.ParseInt(literal, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil || math.IsInf(f, 0) {
		return nil, false
	}
	return f, true
}

// ParseFloat reads the leading decimal literal of raw (digits, optional
// fraction, optional exponent). ok is false when no number is found or the
// value is not finite, since neither survives JSON encoding.
func ParseFloat(raw string) (value any, ok bool) {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	intDigits := 0
	for end < len(s) && isDigit(s[end]) {
		end++
		intDigits++
	}
	fracDigits := 0
	if end < len(s) && s[end] == '.' {
		cursor := end + 1
		for cursor < len(s) && isDigit(s[cursor]) {
			cursor++
			fracDigits++
		}
		if intDigits > 0 || fracDigits > 0 {
			end = cursor
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return nil, false
	}
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		cursor := end + 1
		if cursor < len(s) && (s[cursor] == '+' || s[cursor] == '-') {
			cursor++
		}
		expStart := cursor
		for cursor < len(s) && isDigit(s[cursor]) {
			cursor++
		}
		if cursor > expStart {
			end = cursor
		}
	}

	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, false
	}
	return f, true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
