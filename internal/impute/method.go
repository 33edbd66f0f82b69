package impute

// Method is a missing-data strategy. Values match the numbered menu entries.
type Method int

const (
	DropRows Method = iota + 1
	DropColumns
	Regression
	Mean
	Median
	Mode
	Custom
	PerColumn
)

var methodNames = map[Method]string{
	DropRows:    "drop-rows",
	DropColumns: "drop-columns",
	Regression:  "regression",
	Mean:        "mean",
	Median:      "median",
	Mode:        "mode",
	Custom:      "custom",
	PerColumn:   "per-column",
}

func (m Method) String() string {
	if s, ok := methodNames[m]; ok {
		return s
	}
	return "unknown"
}

// needsNumeric reports whether the strategy only works on numeric columns.
func (m Method) needsNumeric() bool {
	return m == Regression || m == Mean || m == Median
}

var globalChoices = []string{
	"Drop rows with missing values",
	"Drop columns with missing values",
	"Regression imputation",
	"Mean imputation",
	"Median imputation",
	"Mode imputation",
	"Custom value imputation",
	"Choose method for each column",
}

var columnChoices = []string{
	"Drop rows with missing values in this column",
	"Drop column",
	"Regression imputation",
	"Mean substitution",
	"Median substitution",
	"Mode substitution",
	"Custom value substitution",
}

// Outcome is the result of resolving a text column for numeric use.
type Outcome int

const (
	ChangeMethod Outcome = iota
	Encoded
	Dropped
)

func (o Outcome) String() string {
	switch o {
	case ChangeMethod:
		return "change-method"
	case Encoded:
		return "encoded"
	case Dropped:
		return "dropped"
	}
	return "unknown"
}
