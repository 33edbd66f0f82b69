package dataset

import (
	"encoding/base64"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var csvRows = []string{
	"Group;Concentration (g/L);Temp;Score;LocaleNumber;Category;Note",
	"A;0,5;70;10,0;1.000,0;alpha;first",
	"A;0,6;71;11,0;1.100,0;alpha;second",
	"A;0,55;69;;0.900,0;beta;third",
	"B;0,7;75;10,5;1.050,0;;fourth",
	"B;NA;74;9,8;0.980,0;beta;fifth",
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadSemicolonDecimalComma(t *testing.T) {
	path := writeFile(t, "metrics.csv", strings.Join(csvRows, "\n"))

	ds, err := Load(path, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "metrics.csv", ds.Name)
	assert.Equal(t, 5, ds.NRows())
	assert.Equal(t, []string{"Group", "Concentration (g/L)", "Temp", "Score", "LocaleNumber", "Category", "Note"}, ds.Names())

	assert.True(t, ds.IsNumeric("Concentration (g/L)"))
	assert.True(t, ds.IsNumeric("LocaleNumber"))
	assert.False(t, ds.IsNumeric("Group"))

	loc, err := ds.Floats("LocaleNumber")
	require.NoError(t, err)
	assert.Equal(t, []float64{1000, 1100, 900, 1050, 980}, loc)

	score, err := ds.Floats("Score")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(score[2]))
	assert.InDelta(t, 10.5, score[3], 1e-9)

	assert.Equal(t, 1, ds.MissingIn("Score"))
	assert.Equal(t, 1, ds.MissingIn("Concentration (g/L)"))
	assert.Equal(t, 1, ds.MissingIn("Category"))
	assert.Equal(t, 3, ds.MissingCount())
	assert.Equal(t, []string{"Concentration (g/L)", "Score", "Category"}, ds.ColumnsWithMissing())
}

func TestLoadCommaWithExplicitOptions(t *testing.T) {
	path := writeFile(t, "people.txt", "\ufeffname,age,,age\nann,31,x,1\nbob,-,y,2\n")
	opt := DefaultOptions()
	opt.Delimiter = ','
	opt.DecimalSeparator = '.'
	opt.MissingTokens = []string{"-"}

	ds, err := Load(path, opt)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "age", "Unnamed: 2", "age.1"}, ds.Names())
	assert.Equal(t, 1, ds.MissingIn("age"))
	assert.True(t, ds.IsNumeric("age"))
}

func TestNaNTextIsMissingOnlyWhenListed(t *testing.T) {
	recs := [][]string{{"c"}, {"a"}, {"NaN"}, {""}}

	ds, err := FromRecords("t.csv", recs, Options{MissingTokens: []string{""}})
	require.NoError(t, err)
	assert.Equal(t, 1, ds.MissingCount())
	vals, err := ds.Strings("c")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "NaN", ""}, vals)

	ds, err = FromRecords("t.csv", recs, Options{MissingTokens: []string{"", "NaN"}})
	require.NoError(t, err)
	assert.Equal(t, 2, ds.MissingCount())

	require.NoError(t, ds.SetStrings("c", []string{"a", "NaN", "b"}, nil))
	assert.Equal(t, 0, ds.MissingCount())
	require.NoError(t, ds.KeepRows([]int{1}))
	vals, err = ds.Strings("c")
	require.NoError(t, err)
	assert.Equal(t, []string{"NaN"}, vals)
	assert.Equal(t, 0, ds.MissingCount())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), DefaultOptions())
	require.ErrorIs(t, err, ErrNotFound)

	empty := writeFile(t, "empty.csv", "")
	_, err = Load(empty, DefaultOptions())
	require.ErrorIs(t, err, ErrEmpty)
}

func TestSniffDelimiter(t *testing.T) {
	cases := []struct {
		path, header string
		want         rune
	}{
		{"a.csv", "a,b,c", ','},
		{"a.csv", "a;b;c", ';'},
		{"a.csv", "a|b|c", '|'},
		{"a.tsv", "a,b,c", '\t'},
		{"a.csv", "single", ','},
	}
	for _, c := range cases {
		if got := sniffDelimiter(c.path, []byte(c.header+"\n1,2,3\n")); got != c.want {
			t.Errorf("sniffDelimiter(%q, %q) = %q, want %q", c.path, c.header, got, c.want)
		}
	}
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		dec  rune
		want float64
		ok   bool
	}{
		{"3.5", 0, 3.5, true},
		{"3,5", 0, 3.5, true},
		{"1.000,25", 0, 1000.25, true},
		{"1,000.25", 0, 1000.25, true},
		{"1 000", '.', 1000, true},
		{"-2e3", 0, -2000, true},
		{"abc", 0, 0, false},
		{"Inf", 0, 0, false},
		{"NaN", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, c := range cases {
		got, ok := ParseNumber(c.in, c.dec)
		if ok != c.ok || (ok && math.Abs(got-c.want) > 1e-9) {
			t.Errorf("ParseNumber(%q) = %v,%v want %v,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func sample(t *testing.T) *Dataset {
	t.Helper()
	ds, err := FromColumns("sample",
		NumericColumn("x", []float64{1, math.NaN(), 3, 1}, nil),
		TextColumn("c", []string{"a", "b", "", "a"}, []bool{false, false, true, false}),
	)
	require.NoError(t, err)
	return ds
}

func TestDropRowsAndColumns(t *testing.T) {
	ds := sample(t)
	n, err := ds.DropRowsWithMissing("x")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 3, ds.NRows())
	assert.Equal(t, 1, ds.MissingIn("c"))

	n, err = ds.DropRowsWithMissing()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 0, ds.MissingCount())

	require.NoError(t, ds.DropColumns("c"))
	assert.Equal(t, []string{"x"}, ds.Names())
	require.ErrorIs(t, ds.DropColumns("c"), ErrColumnNotFound)

	require.NoError(t, ds.DropColumns("x"))
	assert.Equal(t, 0, ds.NCols())
	assert.Equal(t, 2, ds.NRows())
}

func TestDuplicates(t *testing.T) {
	ds := sample(t)
	assert.Equal(t, []int{3}, ds.DuplicateRows())
	n, err := ds.DropDuplicates()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 3, ds.NRows())
	assert.Empty(t, ds.DuplicateRows())
}

func TestDuplicateKeyDistinguishesMissing(t *testing.T) {
	ds, err := FromColumns("m", TextColumn("c", []string{"", ""}, []bool{true, false}))
	require.NoError(t, err)
	assert.Empty(t, ds.DuplicateRows())
}

func TestInsertAndReplaceColumn(t *testing.T) {
	ds := sample(t)
	require.NoError(t, ds.InsertColumn(0, NumericColumn("index", []float64{1, 2, 3, 4}, nil)))
	assert.Equal(t, []string{"index", "x", "c"}, ds.Names())
	require.Error(t, ds.InsertColumn(0, NumericColumn("index", []float64{1, 2, 3, 4}, nil)))

	require.NoError(t, ds.SetStrings("x", []string{"p", "q", "r", "s"}, nil))
	assert.False(t, ds.IsNumeric("x"))
	assert.Equal(t, 0, ds.MissingIn("x"))
	assert.Equal(t, []string{"index", "x", "c"}, ds.Names())

	require.Error(t, ds.SetFloats("x", []float64{1}, nil))
}

func TestColumnDistinctFirstSeen(t *testing.T) {
	c := TextColumn("c", []string{"b", "a", "", "b", "c"}, []bool{false, false, true, false, false})
	assert.Equal(t, []string{"b", "a", "c"}, c.Distinct())
	assert.Equal(t, []int{0, 1, 3, 4}, c.Present())
}

func TestSaveRoundTrip(t *testing.T) {
	ds := sample(t)
	out := filepath.Join(t.TempDir(), "cleaned.csv")
	require.NoError(t, ds.Save(out))

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "x,c\n1,a\n,b\n3,\n1,a\n", string(b))

	back, err := Load(out, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, ds.Names(), back.Names())
	assert.Equal(t, ds.MissingCount(), back.MissingCount())
	assert.True(t, back.IsNumeric("x"))
}

const xlsxFixtureBase64 = `
UEsDBBQAAAAIAMEwN1vYAxPv/wAAALYCAAATABwAW0NvbnRlbnRfVHlwZXNdLnhtbFVUCQADyjjSaMo40mh1eAsAAQQAAAAABAAAAAC1ks1OwzAQhO95CsvX
Kt60B4RQkh74OQKH8gDG3iRW/CfbLeHtcVIEEqIIpHJaWTOz32jlejsZTQ4YonK2oWtWUYJWOKls39Cn3V15SbdtUe9ePUaSvTY2dEjJXwFEMaDhkTmPNiud
C4an/Aw9eC5G3iNsquoChLMJbSrTvIO2BSH1DXZ8rxO5nbJyRAfUkZLro3fGNZR7r5XgKetwsPILqHyHsJxcPHFQPq6ygcIpyCyeZnxGH/JFgpJIHnlI99xk
I0waXlwYn50b2c97vunquk4JlE7sTY6w6ANyGQfEZDRbJjNc2dWvKiz+CMtYn7nLx/6/V9n8d5Ualm/YFm9QSwMECgAAAAAAxDA3WwAAAAAAAAAAAAAAAAMA
HAB4bC9VVAkAA9A40mjyONJodXgLAAEEAAAAAAQAAAAAUEsDBBQAAAAIAMQwN1tM2kS6xQAAAEkBAAAPABwAeGwvd29ya2Jvb2sueG1sVVQJAAPQONJo0DjS
aHV4CwABBAAAAAAEAAAAAI1Qu27DMAzc/RUC90aOhyIwZGcJAnhvP0CxaVuIRRqk+vj8qjEMZOjQ7Y7k3ZF05++4mE8UDUwNHA8lGKSeh0BTA+9v15cTnNvC
fbHcb8x3k8dJG5hTWmtrtZ8xej3wipQ7I0v0KVOZrK6CftAZMcXFVmX5aqMPBJtDLf/x4HEMPV64/4hIaTMRXHzKy+ocVoW2MMY9QvQX7sSQj9hANxELgnnU
uiHfB0bqkIF0wxHsH5KLT/5JUD0Jqk3g7J7n7P6WtvgBUEsDBAoAAAAAANIwN1sAAAAAAAAAAAAAAAAOABwAeGwvd29ya3NoZWV0cy9VVAkAA+s40mjyONJo
dXgLAAEEAAAAAAQAAAAAUEsDBBQAAAAIANIwN1u3fFZsqwIAAIASAAAYABwAeGwvd29ya3NoZWV0cy9zaGVldDIueG1sVVQJAAPrONJo6zjSaHV4CwABBAAA
AAAEAAAAAJ3YT26bQBiH4X1OgVilkguD/wEVJkoMzibKJukBJngMqGYGDeMkvVXP0JN1nEhVQ/r7QCxx/BDsV9/gIbl6bY7Os9BdreTGDTzmOkIWal/LcuN+
f9x9jdyr9CJ5UfpHVwlhHPt+2W3cypj2m+93RSUa3nmqFdL+5aB0w4091KXftVrw/Rtqjv6csbXf8Fq66YXjJG8vZ9zw85E91urF0fb/u+/H9pXifHwduI7Z
uLU81lI8GO2mSd2liUlvtTq1iW/SxD+/4Bcf3Q1yWyULIY3mxn5e57L0777gs2zRWR5F0zqXv3/tCJwh/FAoLbDLkbtTBT+K+1PzJDTmO/jJuRGl0j8xvUX0
Xpn/XHDi22gf8837+ebgjNdEOmTYbEWkQipkRCKEAjYjWA6Zxxgpd0jyY1txogxyh1p3ZlSaRT/NYkIaZNhsTaRBKgyINAgFAZkGMi8YSIPkUBrkOlEouR/V
Ztlvs5zQBhk7NtTcILaOiTgIxdSI5vAKvXigDZJPwlBpEDNVrceVWfXLrMApb4gyyLBZSIRBKiS+4gyhgFw8c8g8tqLLIDk0Ncgd1EmbalSbdb/NekIbZOyK
Rk0NYuGSiINQPIuINvAKvTii2yA5MDWIHerDyDJhv0w4oQwytgzxdW0RCxdEGYTs2MyJNJB5bE6nQXJobJDr6teRbaJ+m2jCvQYZu8oQ39cWMSpohlBETg28
Qi8amBokS940VBrkOvFsNxzj4sT9OPGEwUHG3m6oJQ2xkPhplyEUU7e2HF6hF4d0HCQHljTERF1WI9ME7NPWlE2YHIgW1OfeQhZTvwagom/qOXaDGxxIh1Y2
CGU9dnqCz08P0I6Wmh+I7J2H2uZAFxJrYgaVvfcQ+6McO4/R29cdpENLHIRmYIVL/H+e9yT+34dJ6cUfUEsDBBQAAAAIAMcwN1sqMey0swAAAPgAAAAYABwA
eGwvd29ya3NoZWV0cy9zaGVldDEueG1sVVQJAAPWONJo1jjSaHV4CwABBAAAAAAEAAAAAE2P3WrDMAxG7/MURverkl6MUhyXwegLrHsA46iNqf+QxbLHr5OO
0cvzSfoO0qffGNQPcfU5jTDselCUXJ58uo3wfTm/HeBkOr1kvteZSFTbT3WEWaQcEaubKdq6y4VSm1wzRysN+Ya1MNlpO4oB933/jtH6BKZTSm/xpxW7UmPO
i+Lmhye3xK38MYCSEXwKPtGXMBjtq9FiSrCO5hwmYo1iNK4xur82bHWbBl88Gv+fMN0DUEsDBAoAAAAAAMYwN1sAAAAAAAAAAAAAAAAJABwAeGwvX3JlbHMv
VVQJAAPTONJo8jjSaHV4CwABBAAAAAAEAAAAAFBLAwQUAAAACADGMDdbCmPblLYAAACtAQAAGgAcAHhsL19yZWxzL3dvcmtib29rLnhtbC5yZWxzVVQJAAPT
ONJo0zjSaHV4CwABBAAAAAAEAAAAAL2QSwrCMBBA9z1FmL2dtgsRadqNCN1KPUBIpx/aJiGJv9sbBMWCgitXw/zePCYvr/PEzmTdoBWHNE6AkZK6GVTH4Vjv
Vxsoiyg/0CR8GHH9YBwLO8px6L03W0Qne5qFi7UhFTqttrPwIbUdGiFH0RFmSbJG+86AImJsgWVVw8FWTQqsvhn6Ba/bdpC00/I0k/IfruBF29H1RD5Ahe3I
c3iVHD5CGgcq4Fef7M8+2dMnx8XXi+gOUEsDBAoAAAAAAMMwN1sAAAAAAAAAAAAAAAAGABwAX3JlbHMvVVQJAAPNONJo8jjSaHV4CwABBAAAAAAEAAAAAFBL
AwQUAAAACADDMDdbDxvLDKoAAAAcAQAACwAcAF9yZWxzLy5yZWxzVVQJAAPNONJozTjSaHV4CwABBAAAAAAEAAAAAI3PsQ6CMBAG4J2naG6XgoMxxsJiTFgN
PkAtRyHQXtNWxbe3oxgHx8v9913+Y72YmT3Qh5GsgDIvgKFV1I1WC7i2580e6io7XnCWMUXCMLrA0o0NAoYY3YHzoAY0MuTk0KZNT97ImEavuZNqkhr5tih2
3H8aUGWMrVjWdAJ805XA2pfDf3jq+1HhidTdoI0/vnwlkiy9xihgmfmT/HQjmvKEAk8d+apklb0BUEsBAh4DFAAAAAgAwTA3W9gDE+//AAAAtgIAABMAGAAA
AAAAAQAAAKSBAAAAAFtDb250ZW50X1R5cGVzXS54bWxVVAUAA8o40mh1eAsAAQQAAAAABAAAAABQSwECHgMKAAAAAADEMDdbAAAAAAAAAAAAAAAAAwAYAAAA
AAAAABAA7UFMAQAAeGwvVVQFAAPQONJodXgLAAEEAAAAAAQAAAAAUEsBAh4DFAAAAAgAxDA3W0zaRLrFAAAASQEAAA8AGAAAAAAAAQAAAKSBiQEAAHhsL3dv
cmtib29rLnhtbFVUBQAD0DjSaHV4CwABBAAAAAAEAAAAAFBLAQIeAwoAAAAAANIwN1sAAAAAAAAAAAAAAAAOABgAAAAAAAAAEADtQZcCAAB4bC93b3Jrc2hl
ZXRzL1VUBQAD6zjSaHV4CwABBAAAAAAEAAAAAFBLAQIeAxQAAAAIANIwN1u3fFZsqwIAAIASAAAYABgAAAAAAAEAAACkgd8CAAB4bC93b3Jrc2hlZXRzL3No
ZWV0Mi54bWxVVAUAA+s40mh1eAsAAQQAAAAABAAAAABQSwECHgMUAAAACADHMDdbKjHstLMAAAD4AAAAGAAYAAAAAAABAAAApIHcBQAAeGwvd29ya3NoZWV0
cy9zaGVldDEueG1sVVQFAAPWONJodXgLAAEEAAAAAAQAAAAAUEsBAh4DCgAAAAAAxjA3WwAAAAAAAAAAAAAAAAkAGAAAAAAAAAAQAO1B4QYAAHhsL19yZWxz
L1VUBQAD0zjSaHV4CwABBAAAAAAEAAAAAFBLAQIeAxQAAAAIAMYwN1sKY9uUtgAAAK0BAAAaABgAAAAAAAEAAACkgSQHAAB4bC9fcmVscy93b3JrYm9vay54
bWwucmVsc1VUBQAD0zjSaHV4CwABBAAAAAAEAAAAAFBLAQIeAwoAAAAAAMMwN1sAAAAAAAAAAAAAAAAGABgAAAAAAAAAEADtQS4IAABfcmVscy9VVAUAA804
0mh1eAsAAQQAAAAABAAAAABQSwECHgMUAAAACADDMDdbDxvLDKoAAAAcAQAACwAYAAAAAAABAAAApIFuCAAAX3JlbHMvLnJlbHNVVAUAA8040mh1eAsAAQQA
AAAABAAAAABQSwUGAAAAAAoACgBTAwAAXQkAAAAA
`

func writeXLSXFixture(t *testing.T) string {
	t.Helper()
	raw := strings.ReplaceAll(strings.TrimSpace(xlsxFixtureBase64), "\n", "")
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		t.Fatalf("decode xlsx fixture: %v", err)
	}
	path := filepath.Join(t.TempDir(), "analysis_dataset.xlsx")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write xlsx fixture: %v", err)
	}
	return path
}

func TestLoadXLSXSheetSelection(t *testing.T) {
	path := writeXLSXFixture(t)
	opt := DefaultOptions()
	opt.DecimalSeparator = ','

	opt.Sheet = "Data"
	byName, err := Load(path, opt)
	require.NoError(t, err)
	assert.Equal(t, 10, byName.NRows())
	assert.Equal(t, "Group", byName.Names()[0])
	assert.True(t, byName.IsNumeric("LocaleNumber"))
	loc, err := byName.Floats("LocaleNumber")
	require.NoError(t, err)
	assert.InDelta(t, 1000, loc[0], 1e-9)

	opt.Sheet = ""
	opt.SheetIndex = 2
	byIndex, err := Load(path, opt)
	require.NoError(t, err)
	assert.Equal(t, byName.Records(), byIndex.Records())

	opt.Sheet = "Missing"
	_, err = Load(path, opt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available: Ignore, Data")
}

// Relationship targets may carry a leading slash; ZIP entry names never do.
func TestNormalizeRelPath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/xl/worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"xl/worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"/worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"styles.xml", "xl/styles.xml"},
	}
	for _, tt := range tests {
		if got := normalizeRelPath(tt.input); got != tt.expected {
			t.Errorf("normalizeRelPath(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestColIndexFromRef(t *testing.T) {
	assert.Equal(t, 0, colIndexFromRef("A1"))
	assert.Equal(t, 2, colIndexFromRef("C12"))
	assert.Equal(t, 26, colIndexFromRef("AA3"))
	assert.Equal(t, -1, colIndexFromRef(""))
}
