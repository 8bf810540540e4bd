package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/arialabs/aria/internal/errors"
)

// ParseTimeSpec parses a user-supplied track position. Accepted forms:
//
//	2:30      minutes and seconds
//	2:30.5    with a fractional second
//	90        seconds
//	90s       seconds with unit suffix
//	30.5      fractional seconds
//
// Anything else fails with a ParseError.
func ParseTimeSpec(input string) (time.Duration, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, &errors.ParseError{Input: input, Reason: "empty time"}
	}

	if strings.Contains(s, ":") {
		mm, ss, ok := strings.Cut(s, ":")
		if !ok || strings.Contains(ss, ":") {
			return 0, &errors.ParseError{Input: input, Reason: "want MM:SS"}
		}
		if !allDigits(mm) {
			return 0, &errors.ParseError{Input: input, Reason: "bad minutes"}
		}
		minutes, err := strconv.Atoi(mm)
		if err != nil {
			return 0, &errors.ParseError{Input: input, Reason: "bad minutes"}
		}
		seconds, err := parseSeconds(ss)
		if err != nil || seconds >= 60 {
			return 0, &errors.ParseError{Input: input, Reason: "seconds must be in [0,60)"}
		}
		return time.Duration(minutes)*time.Minute +
			time.Duration(seconds*float64(time.Second)), nil
	}

	s = strings.TrimSuffix(s, "s")
	seconds, err := parseSeconds(s)
	if err != nil {
		return 0, &errors.ParseError{Input: input, Reason: "want seconds or MM:SS"}
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

// parseSeconds accepts only plain decimal notation, digits with at most
// one fractional part. ParseFloat alone is too permissive here: it reads
// "nan", "inf", exponents, and hex floats, none of which are valid
// positions.
func parseSeconds(s string) (float64, error) {
	whole, frac, hasDot := strings.Cut(s, ".")
	if !allDigits(whole) || (hasDot && !allDigits(frac)) {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseFloat(s, 64)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatTime renders a duration as M:SS, or H:MM:SS past an hour.
// Sub-second precision is truncated.
func FormatTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	h := total / 3600
	m := total % 3600 / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
