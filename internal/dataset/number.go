package dataset

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber parses a numeric cell. dec selects the decimal separator; when 0
// it is auto-detected per value ("1.000,5" and "1,000.5" both parse). Thousands
// separators (',', '.', space) other than the decimal one are dropped.
// Infinities and NaN spellings are not numbers here.
func ParseNumber(s string, dec rune) (float64, bool) {
	raw := strings.TrimSpace(s)
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	if raw == "" {
		return 0, false
	}
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		switch {
		case cpos >= 0 && dpos >= 0 && cpos > dpos:
			dec = ','
		case cpos >= 0 && dpos < 0 && strings.Count(raw, ",") == 1:
			dec = ','
		default:
			dec = '.'
		}
	}
	for _, sep := range []rune{',', '.', ' '} {
		if sep != dec {
			raw = strings.ReplaceAll(raw, string(sep), "")
		}
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// ParseDecimalSeparator maps a flag/config spelling to a separator rune.
func ParseDecimalSeparator(s string) (rune, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return 0, true
	case ".", "dot":
		return '.', true
	case ",", "comma":
		return ',', true
	}
	return 0, false
}

// ParseDelimiter maps a flag/config spelling to a delimiter rune.
func ParseDelimiter(s string) (rune, bool) {
	switch strings.ToLower(s) {
	case "":
		return 0, true
	case ",", "comma":
		return ',', true
	case ";", "semicolon":
		return ';', true
	case "\t", "tab", `\t`:
		return '\t', true
	case "|", "pipe":
		return '|', true
	}
	return 0, false
}
