package session

import (
	"context"

	"github.com/KaramelBytes/dataprep-cli/internal/dataset"
	"github.com/KaramelBytes/dataprep-cli/internal/model"
	"github.com/KaramelBytes/dataprep-cli/internal/plot"
)

var modelChoices = []string{
	"Train a Decision Tree Classifier",
	"Train a Random Forest Classifier",
	"Train a Linear Regression Model",
	"Back",
}

// ModelMenu trains models on ds until the user goes back. Training failures
// are reported and the menu continues.
func (s *Session) ModelMenu(ctx context.Context, ds *dataset.Dataset) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := s.con.Choose("Model Menu:", modelChoices, "Select an option: ")
		if err != nil {
			return err
		}
		if n == len(modelChoices) {
			return nil
		}
		kind := model.Kind(n)
		if ds.NCols() < 2 {
			s.con.Failure("At least two columns are needed to train a model.")
			continue
		}
		target, err := s.selectTarget(ds)
		if err != nil {
			return err
		}
		features, err := s.selectFeatures(ds, target)
		if err != nil {
			return err
		}
		res, err := model.Train(ds, kind, target, features, s.opt.Model)
		if err != nil {
			s.log.Debug("training failed", "model", kind.String(), "target", target, "err", err)
			s.con.Failure("Cannot train %s: %v", kind, err)
			continue
		}
		s.log.Debug("model trained", "model", kind.String(), "target", target, "features", features, "train_rows", res.TrainRows, "test_rows", res.TestRows)
		s.con.Info("%s trained on %d rows, tested on %d rows.", kind, res.TrainRows, res.TestRows)
		for _, line := range res.Lines() {
			s.con.Success("%s", line)
		}
	}
}

func (s *Session) selectTarget(ds *dataset.Dataset) (string, error) {
	names := ds.Names()
	k, err := s.con.Choose("Select the target column for the model:", names, "Enter the number corresponding to the target column: ")
	if err != nil {
		return "", err
	}
	return names[k-1], nil
}

func (s *Session) selectFeatures(ds *dataset.Dataset, target string) ([]string, error) {
	var candidates []string
	for _, name := range ds.Names() {
		if name != target {
			candidates = append(candidates, name)
		}
	}
	s.con.Println()
	s.con.Info("Select the feature columns for the model (separate by commas):")
	s.con.List(candidates)
	for {
		ans, err := s.con.Ask("Enter column numbers: ")
		if err != nil {
			return nil, err
		}
		idx, err := plot.ParseSelection(ans, len(candidates))
		if err != nil {
			s.con.Failure("Invalid input: %v", err)
			continue
		}
		if len(idx) == 0 {
			s.con.Failure("No columns selected. Please try again!")
			continue
		}
		out := make([]string, len(idx))
		for i, k := range idx {
			out[i] = candidates[k]
		}
		return out, nil
	}
}
