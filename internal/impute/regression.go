package impute

import (
	"fmt"
	"math"

	"github.com/KaramelBytes/dataprep-cli/internal/dataset"
	"github.com/KaramelBytes/dataprep-cli/internal/model"
)

// ImputeRegression predicts the missing cells of a numeric column with an
// ordinary least squares fit (with intercept) on every other column. Collinear
// features get the minimum-norm solution.
//
// Text feature columns are resolved first and the encoding is written to the
// dataset. Training rows with a missing feature are skipped; rows to predict
// use the training mean for a missing feature.
func (im *Imputer) ImputeRegression(ds *dataset.Dataset, target string) error {
	y, err := ds.Floats(target)
	if err != nil {
		return err
	}
	var predict []int
	for i, v := range y {
		if math.IsNaN(v) {
			predict = append(predict, i)
		}
	}
	if len(predict) == 0 {
		return nil
	}

	for _, f := range ds.Names() {
		if f == target || ds.IsNumeric(f) {
			continue
		}
		out, err := im.ResolveCategorical(ds, f)
		if err != nil {
			return err
		}
		if out == ChangeMethod {
			return ErrMethodChanged
		}
	}

	var features []string
	var X [][]float64
	for _, f := range ds.Names() {
		if f == target {
			continue
		}
		xs, err := ds.Floats(f)
		if err != nil {
			return err
		}
		features = append(features, f)
		X = append(X, xs)
	}

	var train []int
	for i, v := range y {
		if math.IsNaN(v) {
			continue
		}
		ok := true
		for _, xs := range X {
			if math.IsNaN(xs[i]) {
				ok = false
				break
			}
		}
		if ok {
			train = append(train, i)
		}
	}
	p := len(features)
	need := p + 1
	if need < 2 {
		need = 2
	}
	if len(train) < need {
		return fmt.Errorf("%s: %d usable rows for %d features: %w", target, len(train), p, ErrUnderdetermined)
	}

	fit, err := model.FitLinear(X, y, train)
	if err != nil {
		return fmt.Errorf("%s: %w", target, err)
	}
	row := make([]float64, p)
	for _, i := range predict {
		for j, xs := range X {
			row[j] = xs[i]
		}
		y[i] = fit.Predict(row)
	}
	im.log.Debug("regression imputed", "column", target, "features", features, "train_rows", len(train), "predicted", len(predict))
	return ds.SetFloats(target, y, make([]bool, len(y)))
}
