package model

import (
	"fmt"
	"math"

	"github.com/sjwhitworth/golearn/base"
	"github.com/sjwhitworth/golearn/ensemble"
	"github.com/sjwhitworth/golearn/evaluation"
	"github.com/sjwhitworth/golearn/trees"

	"github.com/KaramelBytes/dataprep-cli/internal/dataset"
)

type classifier interface {
	Fit(base.FixedDataGrid) error
	Predict(base.FixedDataGrid) (base.FixedDataGrid, error)
}

func classify(res *Result, target dataset.Column, X [][]float64, train, test []int, opt Options) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: %v", res.Kind, r)
		}
	}()

	labels := target.Values()
	attrs := make([]base.Attribute, len(X))
	for j, name := range res.Features {
		attrs[j] = base.NewFloatAttribute(name)
	}
	class := base.NewCategoricalAttribute()
	class.SetName(target.Name)

	trainSet, err := instances(attrs, class, X, labels, train)
	if err != nil {
		return err
	}
	testSet, err := instances(attrs, class, X, labels, test)
	if err != nil {
		return err
	}

	var clf classifier
	switch res.Kind {
	case DecisionTree:
		clf = trees.NewID3DecisionTree(opt.TreePrune)
	default:
		size := opt.ForestTrees
		if size < 1 {
			size = 50
		}
		feats := opt.ForestFeatures
		if feats < 1 {
			feats = int(math.Round(math.Sqrt(float64(len(X)))))
		}
		if feats < 1 {
			feats = 1
		}
		if feats > len(X) {
			feats = len(X)
		}
		clf = ensemble.NewRandomForest(size, feats)
	}

	if err := clf.Fit(trainSet); err != nil {
		return fmt.Errorf("fit %s: %w", res.Kind, err)
	}
	pred, err := clf.Predict(testSet)
	if err != nil {
		return fmt.Errorf("predict %s: %w", res.Kind, err)
	}
	cm, err := evaluation.GetConfusionMatrix(testSet, pred)
	if err != nil {
		return fmt.Errorf("confusion matrix: %w", err)
	}
	res.Accuracy = evaluation.GetAccuracy(cm)
	res.Summary = evaluation.GetSummary(cm)
	return nil
}

// instances packs the selected rows into a golearn grid. The attributes are
// shared between the training and test grids so category codes line up.
func instances(attrs []base.Attribute, class *base.CategoricalAttribute, X [][]float64, labels []string, rows []int) (*base.DenseInstances, error) {
	inst := base.NewDenseInstances()
	specs := make([]base.AttributeSpec, len(attrs))
	for j, a := range attrs {
		specs[j] = inst.AddAttribute(a)
	}
	classSpec := inst.AddAttribute(class)
	if err := inst.AddClassAttribute(class); err != nil {
		return nil, fmt.Errorf("class attribute: %w", err)
	}
	if err := inst.Extend(len(rows)); err != nil {
		return nil, fmt.Errorf("allocate rows: %w", err)
	}
	for r, i := range rows {
		for j, xs := range X {
			inst.Set(specs[j], r, base.PackFloatToBytes(xs[i]))
		}
		inst.Set(classSpec, r, class.GetSysValFromString(labels[i]))
	}
	return inst, nil
}
