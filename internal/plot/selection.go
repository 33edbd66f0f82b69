package plot

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSelection turns a list of 1-based column numbers into 0-based indexes.
// Space, comma and semicolon separate items; "a:b" and "a-b" are inclusive
// ranges. Duplicates are dropped and the first-seen order is kept.
func ParseSelection(input string, n int) ([]int, error) {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t'
	})
	seen := map[int]bool{}
	var out []int
	add := func(k int) error {
		if k < 1 || k > n {
			return fmt.Errorf("column number %d out of range 1-%d", k, n)
		}
		if !seen[k] {
			seen[k] = true
			out = append(out, k-1)
		}
		return nil
	}
	for _, f := range fields {
		lo, hi, isRange := strings.Cut(f, ":")
		if !isRange {
			lo, hi, isRange = strings.Cut(f, "-")
		}
		a, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("invalid column number %q", f)
		}
		if !isRange {
			if err := add(a); err != nil {
				return nil, err
			}
			continue
		}
		b, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return nil, fmt.Errorf("invalid range %q", f)
		}
		step := 1
		if b < a {
			step = -1
		}
		for k := a; ; k += step {
			if err := add(k); err != nil {
				return nil, err
			}
			if k == b {
				break
			}
		}
	}
	return out, nil
}
