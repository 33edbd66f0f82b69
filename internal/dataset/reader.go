package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Options controls how files are turned into datasets.
type Options struct {
	// Delimiter for delimited text. If 0, sniffs among ',', ';', '\t', '|'.
	Delimiter rune
	// DecimalSeparator for numbers. If 0, auto-detect per value.
	DecimalSeparator rune
	// MissingTokens are raw cell values treated as missing (after trimming).
	MissingTokens []string
	// Sheet selects an XLSX sheet by name; SheetIndex (1-based) is used otherwise.
	Sheet      string
	SheetIndex int
}

// DefaultOptions returns reasonable defaults for loading.
func DefaultOptions() Options {
	return Options{
		MissingTokens: []string{"", "NA", "NaN", "nan", "null", "NULL", "None", "<nil>"},
		SheetIndex:    1,
	}
}

// Reader turns a file into raw records; the first record is the header.
type Reader interface {
	CanRead(path string) bool
	Read(path string, opt Options) ([][]string, error)
}

var registry []Reader

// Register adds a reader implementation to the registry. Earlier registrations win.
func Register(r Reader) {
	registry = append(registry, r)
}

func init() {
	Register(xlsxReader{})
	Register(csvReader{})
}

var (
	// ErrNotFound is returned when the input file does not exist.
	ErrNotFound = errors.New("input file not found")
	// ErrEmpty is returned when the input has no header row.
	ErrEmpty = errors.New("no columns to parse from file")
)

// Load reads a file through the first matching reader and builds a Dataset.
func Load(path string, opt Options) (*Dataset, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	for _, r := range registry {
		if !r.CanRead(path) {
			continue
		}
		recs, err := r.Read(path, opt)
		if err != nil {
			return nil, err
		}
		return FromRecords(filepath.Base(path), recs, opt)
	}
	return nil, fmt.Errorf("no reader for %s", path)
}

// FromRecords builds a Dataset from raw records (header first). Column kinds are
// detected: a column is numeric when every non-missing cell parses as a number.
func FromRecords(name string, recs [][]string, opt Options) (*Dataset, error) {
	if len(recs) == 0 || len(recs[0]) == 0 {
		return nil, ErrEmpty
	}
	header := uniqueHeader(recs[0])
	ncol := len(header)
	missing := map[string]bool{}
	tokens := opt.MissingTokens
	if tokens == nil {
		tokens = DefaultOptions().MissingTokens
	}
	for _, t := range tokens {
		missing[strings.TrimSpace(t)] = true
	}

	rows := recs[1:]
	cols := make([]Column, ncol)
	for j := 0; j < ncol; j++ {
		raw := make([]string, len(rows))
		mask := make([]bool, len(rows))
		for i, rec := range rows {
			v := ""
			if j < len(rec) {
				v = strings.TrimSpace(rec[j])
			}
			raw[i] = v
			mask[i] = missing[v]
		}
		cols[j] = detectColumn(header[j], raw, mask, opt)
	}
	return FromColumns(name, cols...)
}

func detectColumn(name string, raw []string, mask []bool, opt Options) Column {
	nums := make([]float64, len(raw))
	numeric := true
	for i, v := range raw {
		if mask[i] {
			continue
		}
		x, ok := ParseNumber(v, opt.DecimalSeparator)
		if !ok {
			numeric = false
			break
		}
		nums[i] = x
	}
	if numeric {
		return Column{Name: name, Kind: Numeric, Floats: nums, Missing: mask}
	}
	return Column{Name: name, Kind: Text, Strings: raw, Missing: mask}
}

// uniqueHeader names blank headers positionally and suffixes duplicates.
func uniqueHeader(in []string) []string {
	out := make([]string, len(in))
	seen := map[string]int{}
	for i, h := range in {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, ok := seen[h]; ok {
			seen[h] = n + 1
			h = fmt.Sprintf("%s.%d", h, n+1)
		} else {
			seen[h] = 0
		}
		out[i] = h
	}
	return out
}
