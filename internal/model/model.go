// Package model trains baseline models on a dataset: golearn decision trees and
// random forests for classification, and an ordinary least squares regression.
package model

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/KaramelBytes/dataprep-cli/internal/dataset"
)

var (
	// ErrNotNumeric is returned when a feature (or a regression target) is a text column.
	ErrNotNumeric = errors.New("column is not numeric")
	// ErrTooFewRows is returned when the complete rows cannot fill both splits.
	ErrTooFewRows = errors.New("too few complete rows")
	// ErrSingular is returned when a linear fit has no varying feature to solve for.
	ErrSingular = errors.New("singular regression system")
)

// Kind selects the model to train.
type Kind int

const (
	DecisionTree Kind = iota + 1
	RandomForest
	LinearRegression
)

func (k Kind) String() string {
	switch k {
	case DecisionTree:
		return "Decision Tree Classifier"
	case RandomForest:
		return "Random Forest Classifier"
	case LinearRegression:
		return "Linear Regression Model"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Options holds training parameters.
type Options struct {
	TestRatio float64
	Seed      int64
	// TreePrune is the share of training rows held out to prune an ID3 tree; 0 disables pruning.
	TreePrune      float64
	ForestTrees    int
	ForestFeatures int // 0 means sqrt of the feature count
}

func DefaultOptions() Options {
	return Options{TestRatio: 0.2, Seed: 42, ForestTrees: 50}
}

// Result reports the fit. Classification fills Accuracy and Summary; regression
// fills MAE, MSE and R2.
type Result struct {
	Kind      Kind
	Target    string
	Features  []string
	TrainRows int
	TestRows  int

	Accuracy float64
	Summary  string

	MAE float64
	MSE float64
	R2  float64
}

// Lines formats the metrics the way the model menu prints them.
func (r *Result) Lines() []string {
	if r.Kind == LinearRegression {
		return []string{
			fmt.Sprintf("Mean Absolute Error: %.4f", r.MAE),
			fmt.Sprintf("Mean Squared Error: %.4f", r.MSE),
			fmt.Sprintf("R2 Score: %.4f", r.R2),
		}
	}
	var out []string
	if s := strings.TrimSpace(r.Summary); s != "" {
		out = append(out, strings.Split(s, "\n")...)
	}
	return append(out, fmt.Sprintf("Accuracy: %.4f", r.Accuracy))
}

// Train fits kind on the rows where target and every feature are present, holds
// out a seeded TestRatio share of them and scores the model on that share.
func Train(ds *dataset.Dataset, kind Kind, target string, features []string, opt Options) (*Result, error) {
	if len(features) == 0 {
		return nil, errors.New("no feature columns selected")
	}
	X := make([][]float64, len(features))
	for j, f := range features {
		if f == target {
			return nil, fmt.Errorf("feature %q is the target", f)
		}
		if !ds.Has(f) {
			return nil, fmt.Errorf("%s: %w", f, dataset.ErrColumnNotFound)
		}
		if !ds.IsNumeric(f) {
			return nil, fmt.Errorf("feature %s: %w", f, ErrNotNumeric)
		}
		xs, err := ds.Floats(f)
		if err != nil {
			return nil, err
		}
		X[j] = xs
	}
	tc, err := ds.Column(target)
	if err != nil {
		return nil, err
	}
	if kind == LinearRegression && tc.Kind != dataset.Numeric {
		return nil, fmt.Errorf("target %s: %w", target, ErrNotNumeric)
	}

	rows := completeRows(tc, X)
	train, test := Split(len(rows), opt.TestRatio, opt.Seed)
	if len(test) == 0 || len(train) < 2 || (kind == LinearRegression && len(train) < len(features)+1) {
		return nil, fmt.Errorf("%d rows with %s and all features present: %w", len(rows), target, ErrTooFewRows)
	}
	for k := range train {
		train[k] = rows[train[k]]
	}
	for k := range test {
		test[k] = rows[test[k]]
	}

	res := &Result{Kind: kind, Target: target, Features: features, TrainRows: len(train), TestRows: len(test)}
	switch kind {
	case DecisionTree, RandomForest:
		err = classify(res, tc, X, train, test, opt)
	case LinearRegression:
		err = regress(res, tc.Floats, X, train, test)
	default:
		err = fmt.Errorf("unknown model kind %d", int(kind))
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Split shuffles 0..n-1 with a fixed seed and returns the training and test
// index sets. The test share is rounded and kept within [1, n-1] when n > 1.
func Split(n int, ratio float64, seed int64) (train, test []int) {
	if n == 0 {
		return nil, nil
	}
	if ratio <= 0 || ratio >= 1 {
		ratio = 0.2
	}
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	nTest := int(math.Round(ratio * float64(n)))
	if nTest < 1 {
		nTest = 1
	}
	if nTest > n-1 {
		nTest = n - 1
	}
	return perm[nTest:], perm[:nTest]
}

func completeRows(target dataset.Column, X [][]float64) []int {
	var rows []int
	for i := 0; i < target.Len(); i++ {
		if target.IsMissing(i) {
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
			rows = append(rows, i)
		}
	}
	return rows
}
