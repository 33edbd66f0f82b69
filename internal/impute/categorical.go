package impute

import (
	"math"
	"sort"

	"github.com/KaramelBytes/dataprep-cli/internal/dataset"
)

var categoricalChoices = []string{
	"Change imputation method",
	"Ordinal encode the column",
	"Drop the column",
}

// ResolveCategorical asks how a text column should be made usable for a
// numeric strategy: pick another method, encode it, or drop it.
func (im *Imputer) ResolveCategorical(ds *dataset.Dataset, col string) (Outcome, error) {
	im.con.Notice("Cannot perform numeric imputation on non-numeric column '%s'.", col)
	im.con.Question("How do you want to resolve the imputation into a text column?")
	n, err := im.con.Choose("", categoricalChoices, "Select option number: ")
	if err != nil {
		return ChangeMethod, err
	}
	switch n {
	case 2:
		if err := im.EncodeOrdinal(ds, col); err != nil {
			return Encoded, err
		}
		return Encoded, nil
	case 3:
		if err := ds.DropColumns(col); err != nil {
			return Dropped, err
		}
		im.con.Success("Column '%s' has been dropped.", col)
		return Dropped, nil
	}
	return ChangeMethod, nil
}

// EncodeOrdinal replaces a text column with integer ranks. Two or fewer
// distinct values are ranked in sorted order; more are ordered by the user.
// Missing cells stay missing. Numeric columns are left as they are.
func (im *Imputer) EncodeOrdinal(ds *dataset.Dataset, col string) error {
	c, err := ds.Column(col)
	if err != nil {
		return err
	}
	if c.Kind == dataset.Numeric {
		return nil
	}
	distinct := c.Distinct()
	var order map[string]int
	if len(distinct) <= 2 {
		order = sortedRanks(distinct)
	} else {
		im.con.Notice("Column '%s' has more than 2 unique values, please order them.", col)
		order, err = im.askOrder(distinct)
		if err != nil {
			return err
		}
	}
	codes := make([]float64, c.Len())
	for i, v := range c.Strings {
		if c.Missing[i] {
			codes[i] = math.NaN()
			continue
		}
		codes[i] = float64(order[v])
	}
	if err := ds.SetFloats(col, codes, c.Missing); err != nil {
		return err
	}
	im.log.Debug("ordinal encoded", "column", col, "categories", len(order))
	im.con.Success("Column '%s' has been ordinal encoded.", col)
	return nil
}

func sortedRanks(values []string) map[string]int {
	sorted := append([]string(nil), values...)
	sort.Strings(sorted)
	out := make(map[string]int, len(sorted))
	for i, v := range sorted {
		out[v] = i
	}
	return out
}

func (im *Imputer) askOrder(values []string) (map[string]int, error) {
	remaining := append([]string(nil), values...)
	order := make(map[string]int, len(values))
	for len(remaining) > 0 {
		im.con.List(remaining)
		k, err := im.con.Number("Enter the smallest or least frequent value: ", len(remaining))
		if err != nil {
			return nil, err
		}
		order[remaining[k-1]] = len(order)
		remaining = append(remaining[:k-1], remaining[k:]...)
	}
	return order, nil
}
