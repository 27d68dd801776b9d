package ml

import (
	"context"
	"fmt"
	"time"

	"gonum.org/v1/gonum/stat"
)

// TrainConfig selects the model and its evaluation split.
type TrainConfig struct {
	Kind     Kind
	TestSize float64
	Seed     int64
	Forest   ForestConfig
}

func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		Kind:     KindForest,
		TestSize: 0.2,
		Seed:     42,
		Forest:   DefaultForestConfig(),
	}
}

// Train splits d, fits the configured model on the training partition and scores
// it on the held-out one. now stamps the artifact.
func Train(ctx context.Context, d *Dataset, cfg TrainConfig, now time.Time) (*Artifact, error) {
	for i, row := range d.X {
		if len(row) != len(FeatureNames) {
			return nil, fmt.Errorf("row %d has %d features, want %d", i, len(row), len(FeatureNames))
		}
	}
	train, test, err := StratifiedSplit(d, cfg.TestSize, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("splitting dataset: %w", err)
	}

	a := &Artifact{
		Format:    ArtifactFormat,
		Version:   ArtifactVersion,
		Kind:      cfg.Kind,
		Features:  append([]string(nil), FeatureNames...),
		TrainedAt: now.UTC(),
	}
	switch cfg.Kind {
	case KindForest:
		forest, err := FitForest(ctx, train, cfg.Forest)
		if err != nil {
			return nil, err
		}
		a.Forest = forest
	case KindLinear:
		linear, err := FitLinear(train)
		if err != nil {
			return nil, err
		}
		a.Linear = linear
	default:
		return nil, fmt.Errorf("unknown model kind %q", cfg.Kind)
	}

	scores := make([]float64, test.Len())
	for i, x := range test.X {
		p, err := a.PredictProba(x)
		if err != nil {
			return nil, fmt.Errorf("scoring test row %d: %w", i, err)
		}
		scores[i] = p
	}
	labels := test.Labels()
	auc, err := AUC(scores, labels)
	if err != nil {
		return nil, err
	}
	a.Metrics.AUC = auc
	a.Metrics.Accuracy = Accuracy(scores, labels)
	a.Metrics.TrainRows = train.Len()
	a.Metrics.TestRows = test.Len()
	if cfg.Kind == KindLinear {
		target := test.RegressionTarget()
		mae := MAE(scores, target)
		r2 := stat.RSquaredFrom(scores, target, nil)
		a.Metrics.MAE = &mae
		a.Metrics.R2 = &r2
	}
	return a, nil
}

// TrainAndSave trains and writes the artifact to path.
func TrainAndSave(ctx context.Context, d *Dataset, cfg TrainConfig, path string, now time.Time) (*Artifact, error) {
	a, err := Train(ctx, d, cfg, now)
	if err != nil {
		return nil, err
	}
	if err := SaveArtifact(path, a); err != nil {
		return nil, err
	}
	return a, nil
}
