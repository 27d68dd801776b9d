package ml

import (
	"fmt"

	"github.com/sajari/regression"
)

// Linear is an ordinary least squares fit whose output is clamped into [0,1].
type Linear struct {
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

// FitLinear regresses the dataset's regression target on the model features.
func FitLinear(d *Dataset) (*Linear, error) {
	if d.Len() <= len(FeatureNames) {
		return nil, fmt.Errorf("fitting linear model: need more than %d rows, got %d", len(FeatureNames), d.Len())
	}
	r := new(regression.Regression)
	r.SetObserved(LabelColumn)
	for i, name := range FeatureNames {
		r.SetVar(i, name)
	}
	target := d.RegressionTarget()
	for i, x := range d.X {
		r.Train(regression.DataPoint(target[i], x))
	}
	if err := r.Run(); err != nil {
		return nil, fmt.Errorf("fitting linear model: %w", err)
	}
	coeffs := r.GetCoeffs()
	if len(coeffs) != len(FeatureNames)+1 {
		return nil, fmt.Errorf("fitting linear model: got %d coefficients", len(coeffs))
	}
	return &Linear{Intercept: coeffs[0], Coefficients: coeffs[1:]}, nil
}

func (l *Linear) Predict(x []float64) (float64, error) {
	if len(x) != len(l.Coefficients) {
		return 0, fmt.Errorf("linear model expects %d features, got %d", len(l.Coefficients), len(x))
	}
	y := l.Intercept
	for i, c := range l.Coefficients {
		y += c * x[i]
	}
	return y, nil
}

// PredictProba is Predict clamped into [0,1].
func (l *Linear) PredictProba(x []float64) (float64, error) {
	y, err := l.Predict(x)
	if err != nil {
		return 0, err
	}
	return min(max(y, 0), 1), nil
}
