// Package numeric turns loosely typed user input into finite float64 values.
package numeric

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ToNumber coerces raw input into a finite number. nil, empty strings and
// anything that does not parse coerce to 0. Strings are stripped of every
// character other than digits, '.' and '-', then the longest prefix that
// reads as a number is parsed, so "$1,234.56" yields 1234.56 and "1.2.3"
// yields 1.2. It never panics.
func ToNumber(raw any) float64 {
	switch v := raw.(type) {
	case nil:
		return 0
	case float64:
		return Finite(v)
	case float32:
		return Finite(float64(v))
	case int:
		return float64(v)
	case int8:
		return float64(v)
	case int16:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint8:
		return float64(v)
	case uint16:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		return parse(v)
	case []byte:
		return parse(string(v))
	case fmt.Stringer:
		return parse(v.String())
	default:
		return parse(fmt.Sprint(v))
	}
}

// Finite clamps NaN and ±Inf to 0.
func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// IsBlank reports whether raw is absent from a user's point of view:
// nil, or a string with nothing but whitespace.
func IsBlank(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []byte:
		return strings.TrimSpace(string(v)) == ""
	}
	return false
}

// OrDefault coerces raw, returning def when raw is blank.
func OrDefault(raw any, def float64) float64 {
	if IsBlank(raw) {
		return def
	}
	return ToNumber(raw)
}

func parse(s string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
	v, err := strconv.ParseFloat(cleaned[:numericPrefix(cleaned)], 64)
	if err != nil {
		return 0
	}
	return Finite(v)
}

// numericPrefix returns the length of the longest prefix of s made of an
// optional leading minus, digits and at most one dot.
func numericPrefix(s string) int {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	dot := false
	for ; i < len(s); i++ {
		switch {
		case s[i] >= '0' && s[i] <= '9':
		case s[i] == '.' && !dot:
			dot = true
		default:
			return i
		}
	}
	return i
}
