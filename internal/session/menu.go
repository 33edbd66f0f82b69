package session

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KaramelBytes/dataprep-cli/internal/dataset"
)

type action int

const (
	actIndex action = iota
	actRemove
	actEncode
	actModel
	actSave
	actInspect
	actPlot
	actSaveNext
	actNext
	actExit
)

type entry struct {
	label string
	act   action
}

var commonEntries = []entry{
	{"Add or remove index column", actIndex},
	{"Remove a column", actRemove},
	{"Encode a categorical column", actEncode},
	{"Train a classification model", actModel},
	{"Save the dataframe", actSave},
	{"Inspect data", actInspect},
	{"Plot menu", actPlot},
}

func menuEntries(last bool) []entry {
	out := append([]entry(nil), commonEntries...)
	if !last {
		out = append(out,
			entry{"Save and continue to next file", actSaveNext},
			entry{"Continue to next file without saving", actNext},
		)
	}
	return append(out, entry{"Exit", actExit})
}

// Menu runs the main menu for ds until the user moves on or exits. It reports
// whether the user chose Exit.
func (s *Session) Menu(ctx context.Context, ds *dataset.Dataset, last bool) (bool, error) {
	entries := menuEntries(last)
	labels := make([]string, len(entries))
	for i, e := range entries {
		labels[i] = e.label
	}
	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		n, err := s.con.Choose("Menu:", labels, "Select an option: ")
		if err != nil {
			return false, err
		}
		switch entries[n-1].act {
		case actIndex:
			err = s.IndexColumn(ds)
		case actRemove:
			err = s.RemoveColumn(ds)
		case actEncode:
			err = s.EncodeColumn(ds)
		case actModel:
			err = s.ModelMenu(ctx, ds)
		case actSave:
			err = s.Save(ds)
		case actInspect:
			s.Inspect(ds)
		case actPlot:
			err = s.PlotMenu(ctx, ds)
		case actSaveNext:
			return false, s.Save(ds)
		case actNext:
			return false, nil
		case actExit:
			s.con.Info("Exiting...")
			return true, nil
		}
		if err != nil {
			return false, err
		}
	}
}

// IndexColumn looks for a unique column whose name mentions index, id, key or
// idx. A found column may be removed; otherwise a 1-based "index" column may be
// inserted in front.
func (s *Session) IndexColumn(ds *dataset.Dataset) error {
	col := findIndexColumn(ds)
	if col == "" {
		s.con.Notice("No index column found!")
		s.con.Success("Do you want to add an index column? (y/n)")
		ok, err := s.con.Confirm("Choice: ")
		if err != nil {
			return err
		}
		if !ok {
			s.con.Info("Index column not added.")
			return nil
		}
		idx := make([]float64, ds.NRows())
		for i := range idx {
			idx[i] = float64(i + 1)
		}
		if err := ds.InsertColumn(0, dataset.NumericColumn("index", idx, nil)); err != nil {
			s.con.Failure("Index column not added: %v", err)
			return nil
		}
		s.con.Success("Index column added!")
		return nil
	}

	s.con.Notice("Index column found: %s", col)
	s.con.Success("Do you want to remove the index column? (y/n)")
	ok, err := s.con.Confirm("Choice: ")
	if err != nil {
		return err
	}
	if !ok {
		s.con.Info("Index column not removed.")
		return nil
	}
	if err := ds.DropColumns(col); err != nil {
		return err
	}
	s.con.Success("Index column removed!")
	return nil
}

func findIndexColumn(ds *dataset.Dataset) string {
	for _, name := range ds.Names() {
		lower := strings.ToLower(name)
		if !strings.Contains(lower, "index") && !strings.Contains(lower, "id") &&
			!strings.Contains(lower, "key") && !strings.Contains(lower, "idx") {
			continue
		}
		c, err := ds.Column(name)
		if err != nil || len(c.Present()) != ds.NRows() {
			continue
		}
		if len(c.Distinct()) == ds.NRows() {
			return name
		}
	}
	return ""
}

// RemoveColumn lists the columns and drops the chosen one; "back" returns
// without changes.
func (s *Session) RemoveColumn(ds *dataset.Dataset) error {
	names := ds.Names()
	if len(names) == 0 {
		s.con.Notice("The dataset has no columns.")
		return nil
	}
	s.con.Info("Columns in the dataset:")
	s.con.List(names)
	for {
		ans, err := s.con.Ask("Select column number to remove or type 'back' to return to menu: ")
		if err != nil {
			return err
		}
		if strings.EqualFold(ans, "back") {
			return nil
		}
		k, err := strconv.Atoi(ans)
		if err != nil {
			s.con.Failure("Invalid input. Please enter a number.")
			continue
		}
		if k < 1 || k > len(names) {
			s.con.Failure("Invalid choice. Please try again!")
			continue
		}
		if err := ds.DropColumns(names[k-1]); err != nil {
			return err
		}
		s.con.Success("Column removed!")
		return nil
	}
}

// EncodeColumn ordinal-encodes a text column chosen by the user.
func (s *Session) EncodeColumn(ds *dataset.Dataset) error {
	var text []string
	for _, name := range ds.Names() {
		if !ds.IsNumeric(name) {
			text = append(text, name)
		}
	}
	if len(text) == 0 {
		s.con.Notice("No categorical columns to encode.")
		return nil
	}
	k, err := s.con.Choose("Select the column to encode:", text, "Enter column number: ")
	if err != nil {
		return err
	}
	return s.imp.EncodeOrdinal(ds, text[k-1])
}

// Save asks for a file name and writes ds as CSV. An empty answer writes
// <name>_clean.csv in the working directory.
func (s *Session) Save(ds *dataset.Dataset) error {
	path, err := s.con.Ask("Enter the filename to save the DataFrame: ")
	if err != nil {
		return err
	}
	if path == "" {
		path = strings.TrimSuffix(ds.Name, filepath.Ext(ds.Name)) + "_clean.csv"
	}
	if err := ds.Save(path); err != nil {
		s.con.Failure("An error occurred while saving the DataFrame: %v", err)
		return fmt.Errorf("save dataset: %w", err)
	}
	s.log.Info("dataset saved", "path", path, "rows", ds.NRows(), "columns", ds.NCols())
	s.con.Success("DataFrame saved successfully!")
	return nil
}
