package model

import (
	"errors"
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/dataprep-cli/internal/dataset"
)

func linearDataset(t *testing.T, n int) *dataset.Dataset {
	t.Helper()
	x := make([]float64, n)
	z := make([]float64, n)
	y := make([]float64, n)
	label := make([]string, n)
	for i := range x {
		x[i] = float64(i)
		z[i] = float64((i * 7) % 5)
		y[i] = 2*x[i] - 3*z[i] + 1
		label[i] = "low"
		if i >= n/2 {
			label[i] = "high"
		}
	}
	ds, err := dataset.FromColumns("lin.csv",
		dataset.NumericColumn("x", x, nil),
		dataset.NumericColumn("z", z, nil),
		dataset.NumericColumn("y", y, nil),
		dataset.TextColumn("label", label, nil),
	)
	if err != nil {
		t.Fatalf("build dataset: %v", err)
	}
	return ds
}

func TestSplitIsSeededAndDisjoint(t *testing.T) {
	train, test := Split(10, 0.2, 42)
	require.Len(t, test, 2)
	require.Len(t, train, 8)

	again, againTest := Split(10, 0.2, 42)
	assert.Equal(t, train, again)
	assert.Equal(t, test, againTest)

	all := append(append([]int(nil), train...), test...)
	sort.Ints(all)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, all)
}

func TestSplitKeepsBothSides(t *testing.T) {
	train, test := Split(2, 0.01, 1)
	assert.Len(t, train, 1)
	assert.Len(t, test, 1)

	train, test = Split(3, 0.99, 1)
	assert.Len(t, train, 1)
	assert.Len(t, test, 2)

	train, test = Split(5, 0.2, 1)
	assert.Len(t, train, 4)
	assert.Len(t, test, 1)

	train, test = Split(0, 0.2, 1)
	assert.Empty(t, train)
	assert.Empty(t, test)
}

func TestLinearRegressionRecoversExactFit(t *testing.T) {
	ds := linearDataset(t, 20)

	res, err := Train(ds, LinearRegression, "y", []string{"x", "z"}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 16, res.TrainRows)
	assert.Equal(t, 4, res.TestRows)
	assert.InDelta(t, 0, res.MAE, 1e-9)
	assert.InDelta(t, 0, res.MSE, 1e-9)
	assert.InDelta(t, 1, res.R2, 1e-9)

	lines := res.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, "Mean Absolute Error: 0.0000", lines[0])
	assert.Equal(t, "R2 Score: 1.0000", lines[2])
}

func TestFitLinearCollinearFeatures(t *testing.T) {
	b := []float64{1, 2, 3, 4}
	c := []float64{2, 4, 6, 8}
	y := []float64{3, 5, 7, 9}
	fit, err := FitLinear([][]float64{b, c}, y, []int{0, 1, 2, 3})
	require.NoError(t, err)
	assert.InDelta(t, 11.0, fit.Predict([]float64{5, 10}), 1e-9)
	// minimum-norm split of the slope 2 across b and c = 2b
	assert.InDelta(t, 0.4, fit.Coef[0], 1e-9)
	assert.InDelta(t, 0.8, fit.Coef[1], 1e-9)
	assert.InDelta(t, 1.0, fit.Intercept, 1e-9)

	_, err = FitLinear([][]float64{{4, 4, 4}}, []float64{1, 2, 3}, []int{0, 1, 2})
	assert.True(t, errors.Is(err, ErrSingular))
}

func TestTrainSkipsIncompleteRows(t *testing.T) {
	ds := linearDataset(t, 12)
	x, err := ds.Floats("x")
	require.NoError(t, err)
	x[0], x[1] = math.NaN(), math.NaN()
	require.NoError(t, ds.SetFloats("x", x, nil))

	res, err := Train(ds, LinearRegression, "y", []string{"x"}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 10, res.TrainRows+res.TestRows)
}

func TestTrainRejectsTextInputs(t *testing.T) {
	ds := linearDataset(t, 10)

	_, err := Train(ds, DecisionTree, "y", []string{"label"}, DefaultOptions())
	assert.True(t, errors.Is(err, ErrNotNumeric))

	_, err = Train(ds, LinearRegression, "label", []string{"x"}, DefaultOptions())
	assert.True(t, errors.Is(err, ErrNotNumeric))

	_, err = Train(ds, LinearRegression, "y", []string{"nope"}, DefaultOptions())
	assert.True(t, errors.Is(err, dataset.ErrColumnNotFound))

	_, err = Train(ds, LinearRegression, "y", nil, DefaultOptions())
	assert.Error(t, err)
}

func TestTrainTooFewRows(t *testing.T) {
	ds := linearDataset(t, 3)
	_, err := Train(ds, LinearRegression, "y", []string{"x", "z"}, DefaultOptions())
	assert.True(t, errors.Is(err, ErrTooFewRows))
}

func TestDecisionTreeClassifies(t *testing.T) {
	ds := linearDataset(t, 40)

	res, err := Train(ds, DecisionTree, "label", []string{"x", "z"}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 32, res.TrainRows)
	assert.Equal(t, 8, res.TestRows)
	assert.GreaterOrEqual(t, res.Accuracy, 0.0)
	assert.LessOrEqual(t, res.Accuracy, 1.0)
	assert.Contains(t, res.Lines()[len(res.Lines())-1], "Accuracy: ")
}

func TestRandomForestClassifies(t *testing.T) {
	ds := linearDataset(t, 40)
	opt := DefaultOptions()
	opt.ForestTrees = 5

	res, err := Train(ds, RandomForest, "label", []string{"x", "z"}, opt)
	require.NoError(t, err)
	assert.Equal(t, RandomForest, res.Kind)
	assert.GreaterOrEqual(t, res.Accuracy, 0.0)
	assert.LessOrEqual(t, res.Accuracy, 1.0)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "Decision Tree Classifier", DecisionTree.String())
	assert.Equal(t, "Random Forest Classifier", RandomForest.String())
	assert.Equal(t, "Linear Regression Model", LinearRegression.String())
}
