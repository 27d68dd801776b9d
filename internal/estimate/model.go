package estimate

import (
	"errors"
	"fmt"
	"math"

	"github.com/alexanderramin/buildflow/internal/domain"
)

// ModelFeatureNames is the column order every classifier artifact must be trained on.
var ModelFeatureNames = []string{"progress_percent", "budget_spent", "weather", "incidents"}

// ModelInput is the subset of features the delay classifier consumes.
type ModelInput struct {
	ProgressPercent float64
	BudgetSpent     float64
	Weather         domain.WeatherCondition
	Incidents       int
}

// NewModelInput scales ratios to clamped percentages and counts risks as incidents.
func NewModelInput(f Features) ModelInput {
	return ModelInput{
		ProgressPercent: math.Max(0, math.Min(100, f.ProgressRatio*100)),
		BudgetSpent:     math.Max(0, math.Min(100, f.BudgetRatio*100)),
		Weather:         f.Weather,
		Incidents:       f.RiskCount,
	}
}

// Vector returns the row in ModelFeatureNames order.
func (in ModelInput) Vector() []float64 {
	return []float64{in.ProgressPercent, in.BudgetSpent, float64(in.Weather.Code()), float64(in.Incidents)}
}

// HeuristicBudgetOverrun estimates overrun from the spend/progress gap, weather and
// incident count. It does not use the trained model.
func HeuristicBudgetOverrun(in ModelInput) float64 {
	gap := math.Max(0, (in.BudgetSpent-math.Max(in.ProgressPercent, 0.001))/100)
	overrun := 0.6*gap +
		0.3*indicator(in.Weather == domain.WeatherSevere) +
		0.1*math.Min(1, float64(in.Incidents)/5)
	return clamp01(overrun)
}

// ModelState tracks one prediction attempt.
type ModelState string

const (
	StateNotAttempted     ModelState = "not_attempted"
	StateLoaded           ModelState = "loaded"
	StateUnavailable      ModelState = "unavailable"
	StatePredictionOK     ModelState = "prediction_ok"
	StatePredictionFailed ModelState = "prediction_failed"
)

// Outcome is the explicit success/failure result of a model-backed prediction.
type Outcome struct {
	State         ModelState
	Probabilities Probabilities
	Err           error
}

func (o Outcome) OK() bool {
	return o.State == StatePredictionOK
}

// Predictor attempts a model-backed estimate without falling back.
type Predictor interface {
	Predict(f Features) Outcome
}

// ModelBacked estimates delay with a trained classifier and wraps a fallback
// estimator for any failure.
type ModelBacked struct {
	loader   ModelLoader
	fallback Estimator
}

func NewModelBacked(loader ModelLoader, fallback Estimator) *ModelBacked {
	if fallback == nil {
		fallback = RuleBased{}
	}
	return &ModelBacked{loader: loader, fallback: fallback}
}

func (m *ModelBacked) Predict(f Features) Outcome {
	if m.loader == nil {
		return Outcome{State: StateUnavailable, Err: fmt.Errorf("%w: no loader configured", ErrModelUnavailable)}
	}
	clf, err := m.loader.GetOrLoad()
	if err != nil {
		if errors.Is(err, ErrModelUnavailable) {
			return Outcome{State: StateUnavailable, Err: err}
		}
		return Outcome{State: StatePredictionFailed, Err: err}
	}

	in := NewModelInput(f)
	delay, err := safePredict(clf, in.Vector())
	if err != nil {
		return Outcome{State: StatePredictionFailed, Err: err}
	}
	return Outcome{
		State: StatePredictionOK,
		Probabilities: Probabilities{
			Delay:         delay,
			BudgetOverrun: HeuristicBudgetOverrun(in),
		},
	}
}

// Estimate satisfies Estimator, substituting the fallback when prediction fails.
func (m *ModelBacked) Estimate(f Features) Probabilities {
	if out := m.Predict(f); out.OK() {
		return out.Probabilities
	}
	return m.fallback.Estimate(f)
}

// Fallback returns the wrapped estimator.
func (m *ModelBacked) Fallback() Estimator {
	return m.fallback
}

func safePredict(clf Classifier, x []float64) (p float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: classifier panicked: %v", ErrPrediction, r)
		}
	}()

	p, err = clf.PredictProba(x)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPrediction, err)
	}
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0, fmt.Errorf("%w: non-finite probability", ErrPrediction)
	}
	return clamp01(p), nil
}
