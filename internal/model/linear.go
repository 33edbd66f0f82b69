package model

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// machEps is the float64 unit roundoff used for the SVD rank cutoff.
const machEps = 0x1p-52

// Linear is an ordinary least squares fit with an intercept.
type Linear struct {
	Intercept float64
	Coef      []float64
	// Means holds each feature's mean over the training rows.
	Means []float64
}

// FitLinear fits y against the feature columns X over rows.
//
// Features and target are centred first, so the intercept is the target mean
// minus the fitted offset. The coefficients are the minimum-norm least squares
// solution from a thin SVD, which keeps duplicated or collinear features usable.
// ErrSingular is returned when no feature varies over the training rows.
func FitLinear(X [][]float64, y []float64, rows []int) (*Linear, error) {
	n, p := len(rows), len(X)
	if n == 0 {
		return nil, ErrTooFewRows
	}
	fit := &Linear{Coef: make([]float64, p), Means: make([]float64, p)}
	col := make([]float64, n)
	for j, xs := range X {
		for r, i := range rows {
			col[r] = xs[i]
		}
		fit.Means[j] = stat.Mean(col, nil)
	}
	for r, i := range rows {
		col[r] = y[i]
	}
	yMean := stat.Mean(col, nil)
	if p == 0 {
		return nil, ErrSingular
	}

	a := mat.NewDense(n, p, nil)
	b := mat.NewVecDense(n, nil)
	for r, i := range rows {
		for j, xs := range X {
			a.Set(r, j, xs[i]-fit.Means[j])
		}
		b.SetVec(r, y[i]-yMean)
	}
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return nil, ErrSingular
	}
	rank := svd.Rank(float64(max(n, p)) * machEps)
	if rank == 0 {
		return nil, ErrSingular
	}
	var beta mat.VecDense
	svd.SolveVecTo(&beta, b, rank)

	fit.Intercept = yMean
	for j := range fit.Coef {
		c := beta.AtVec(j)
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, ErrSingular
		}
		fit.Coef[j] = c
		fit.Intercept -= c * fit.Means[j]
	}
	return fit, nil
}

// Predict evaluates the fit on one feature vector. A NaN feature takes its
// training mean.
func (l *Linear) Predict(x []float64) float64 {
	v := l.Intercept
	for j, c := range l.Coef {
		xj := x[j]
		if math.IsNaN(xj) {
			xj = l.Means[j]
		}
		v += c * xj
	}
	return v
}

func regress(res *Result, y []float64, X [][]float64, train, test []int) error {
	fit, err := FitLinear(X, y, train)
	if err != nil {
		return err
	}
	est := make([]float64, len(test))
	obs := make([]float64, len(test))
	row := make([]float64, len(X))
	var abs, sq float64
	for k, i := range test {
		for j, xs := range X {
			row[j] = xs[i]
		}
		est[k] = fit.Predict(row)
		obs[k] = y[i]
		d := obs[k] - est[k]
		abs += math.Abs(d)
		sq += d * d
	}
	n := float64(len(test))
	res.MAE = abs / n
	res.MSE = sq / n
	res.R2 = stat.RSquaredFrom(est, obs, nil)
	return nil
}
