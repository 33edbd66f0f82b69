// Package impute resolves missing values in a dataset interactively: it picks a
// strategy with the user, then drops, fills or predicts the missing cells.
package impute

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/KaramelBytes/dataprep-cli/internal/console"
	"github.com/KaramelBytes/dataprep-cli/internal/dataset"
	"github.com/KaramelBytes/dataprep-cli/internal/model"
)

var (
	// ErrNoObservations is returned when a statistic has no present values to work from.
	ErrNoObservations = errors.New("no observed values")
	// ErrUnderdetermined is returned when regression has too few usable training rows.
	ErrUnderdetermined = errors.New("too few training rows for regression")
	// ErrSingular is returned when no regression feature varies over the training rows.
	ErrSingular = model.ErrSingular
	// ErrMethodChanged is returned when the user asks for another strategy while
	// a text column blocks the current one.
	ErrMethodChanged = errors.New("imputation method change requested")
)

// Imputer runs the missing-data workflow against a console.
type Imputer struct {
	con *console.Console
	log *slog.Logger
}

// New returns an Imputer. A nil logger discards log output.
func New(con *console.Console, logger *slog.Logger) *Imputer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Imputer{con: con, log: logger}
}

// SelectMethod asks for a strategy. In individual mode the per-column list is
// offered and PerColumn cannot be chosen.
func (im *Imputer) SelectMethod(individual bool) (Method, error) {
	choices := globalChoices
	if individual {
		choices = columnChoices
	}
	n, err := im.con.Choose("", choices, "Select method number: ")
	if err != nil {
		return 0, err
	}
	return Method(n), nil
}

// Resolve detects missing values and runs the chosen strategy until every
// column that had missing values is complete or removed.
func (im *Imputer) Resolve(ds *dataset.Dataset) error {
	total := ds.MissingCount()
	if total == 0 {
		im.con.Success("No missing data found!")
		return nil
	}
	im.con.Println()
	im.con.Failure("%d missing values found!", total)
	im.con.Println()
	m, err := im.SelectMethod(false)
	if err != nil {
		return err
	}
	im.log.Debug("missing data", "dataset", ds.Name, "cells", total, "method", m.String())

	switch m {
	case DropRows:
		n, err := ds.DropRowsWithMissing()
		if err != nil {
			return err
		}
		im.log.Debug("dropped rows", "rows", n)
		im.con.Success("Rows with missing values dropped!")
		return nil
	case DropColumns:
		cols := ds.ColumnsWithMissing()
		if err := ds.DropColumns(cols...); err != nil {
			return err
		}
		im.log.Debug("dropped columns", "columns", cols)
		im.con.Success("Columns with missing values dropped!")
		return nil
	case PerColumn:
		return im.resolveEach(ds)
	}

	for _, col := range ds.ColumnsWithMissing() {
		if !ds.Has(col) || ds.MissingIn(col) == 0 {
			continue
		}
		if err := im.apply(ds, m, col); err != nil {
			return err
		}
	}
	return nil
}

func (im *Imputer) resolveEach(ds *dataset.Dataset) error {
	for _, col := range ds.ColumnsWithMissing() {
		if !ds.Has(col) || ds.MissingIn(col) == 0 {
			continue
		}
		im.con.Println()
		im.con.Info("Current column: '%s'.", col)
		m, err := im.SelectMethod(true)
		if err != nil {
			return err
		}
		if err := im.apply(ds, m, col); err != nil {
			return err
		}
	}
	return nil
}

// apply resolves one column with m. When the strategy cannot run, or the user
// asks for another one, the per-column selector is shown for this column.
func (im *Imputer) apply(ds *dataset.Dataset, m Method, col string) error {
	for {
		err := im.applyOnce(ds, m, col)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, ErrMethodChanged):
		case errors.Is(err, ErrNoObservations),
			errors.Is(err, ErrUnderdetermined),
			errors.Is(err, ErrSingular):
			im.log.Debug("strategy failed", "column", col, "method", m.String(), "err", err)
			im.con.Failure("Cannot apply %s imputation to '%s': %v", m, col, err)
		default:
			return err
		}
		if !ds.Has(col) {
			return nil
		}
		im.con.Info("Current column: '%s'.", col)
		next, err := im.SelectMethod(true)
		if err != nil {
			return err
		}
		m = next
	}
}

func (im *Imputer) applyOnce(ds *dataset.Dataset, m Method, col string) error {
	switch m {
	case DropRows:
		if _, err := ds.DropRowsWithMissing(col); err != nil {
			return err
		}
		im.con.Success("Rows with missing values in '%s' dropped!", col)
		return nil
	case DropColumns:
		if err := ds.DropColumns(col); err != nil {
			return err
		}
		im.con.Success("Column '%s' dropped!", col)
		return nil
	}

	if m.needsNumeric() && !ds.IsNumeric(col) {
		out, err := im.ResolveCategorical(ds, col)
		if err != nil {
			return err
		}
		switch out {
		case ChangeMethod:
			return ErrMethodChanged
		case Dropped:
			return nil
		}
	}

	switch m {
	case Regression:
		if err := im.ImputeRegression(ds, col); err != nil {
			return err
		}
		im.con.Success("Filled missing values in '%s' using regression imputation!", col)
	case Mean:
		if err := FillMean(ds, col); err != nil {
			return err
		}
		im.con.Success("Filled missing values in '%s' with mean!", col)
	case Median:
		if err := FillMedian(ds, col); err != nil {
			return err
		}
		im.con.Success("Filled missing values in '%s' with median!", col)
	case Mode:
		if err := FillMode(ds, col); err != nil {
			return err
		}
		im.con.Success("Filled missing values in '%s' with mode!", col)
	case Custom:
		lit, err := im.askLiteral(col)
		if err != nil {
			return err
		}
		if err := FillConstant(ds, col, lit); err != nil {
			return err
		}
		im.con.Success("Filled missing values in '%s' with custom value!", col)
	default:
		return fmt.Errorf("unsupported method %d for column %s", int(m), col)
	}
	return nil
}

func (im *Imputer) askLiteral(col string) (string, error) {
	for {
		v, err := im.con.Ask(fmt.Sprintf("Provide a value to fill missing data in '%s': ", col))
		if err != nil {
			return "", err
		}
		if v != "" {
			return v, nil
		}
		im.con.Failure("Invalid input. Please enter a value.")
	}
}
