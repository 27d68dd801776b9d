package estimate

import (
	"errors"
	"math"
	"testing"

	"github.com/alexanderramin/buildflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClassifier struct {
	p   float64
	err error
	got []float64
}

func (c *fixedClassifier) PredictProba(x []float64) (float64, error) {
	c.got = append([]float64(nil), x...)
	return c.p, c.err
}

type panicClassifier struct{}

func (panicClassifier) PredictProba([]float64) (float64, error) {
	var rows [][]float64
	return rows[3][0], nil
}

type stubLoader struct {
	clf Classifier
	err error
}

func (l stubLoader) GetOrLoad() (Classifier, error) {
	return l.clf, l.err
}

func TestNewModelInput_ClampsPercentages(t *testing.T) {
	in := NewModelInput(Features{ProgressRatio: 0.25, BudgetRatio: 1.7, RiskCount: 4, Weather: domain.WeatherSevere})
	assert.Equal(t, 25.0, in.ProgressPercent)
	assert.Equal(t, 100.0, in.BudgetSpent)
	assert.Equal(t, []float64{25, 100, 2, 4}, in.Vector())
}

func TestHeuristicBudgetOverrun(t *testing.T) {
	in := ModelInput{ProgressPercent: 20, BudgetSpent: 60, Weather: domain.WeatherFair, Incidents: 1}
	// 0.6*0.4 + 0 + 0.1*0.2
	assert.InDelta(t, 0.26, HeuristicBudgetOverrun(in), 1e-9)

	// Progress is floored at 0.001 before the gap is taken.
	in = ModelInput{ProgressPercent: 0, BudgetSpent: 100, Weather: domain.WeatherSevere, Incidents: 9}
	assert.InDelta(t, 0.999994, HeuristicBudgetOverrun(in), 1e-9)
	assert.Equal(t, 100.0, toPercent(HeuristicBudgetOverrun(in)))
}

func TestModelBacked_PredictOK(t *testing.T) {
	clf := &fixedClassifier{p: 0.83}
	m := NewModelBacked(stubLoader{clf: clf}, nil)

	f := Features{ProgressRatio: 0.2, BudgetRatio: 0.6, RiskCount: 1, Weather: domain.WeatherFair}
	out := m.Predict(f)

	require.True(t, out.OK())
	assert.Equal(t, 0.83, out.Probabilities.Delay)
	assert.InDelta(t, 0.26, out.Probabilities.BudgetOverrun, 1e-9)
	assert.Equal(t, []float64{20, 60, 1, 1}, clf.got)
}

func TestModelBacked_UnavailableFallsBack(t *testing.T) {
	m := NewModelBacked(stubLoader{err: ErrModelUnavailable}, nil)
	f := Features{PlannedDays: 91, DaysElapsed: 45, DaysLeft: 46, ProgressRatio: 0.2, BudgetRatio: 0.6, RiskCount: 1}

	out := m.Predict(f)
	assert.Equal(t, StateUnavailable, out.State)
	assert.ErrorIs(t, out.Err, ErrModelUnavailable)
	assert.Equal(t, RuleBased{}.Estimate(f), m.Estimate(f))
}

func TestModelBacked_ClassifierErrorIsPredictionFailure(t *testing.T) {
	m := NewModelBacked(stubLoader{clf: &fixedClassifier{err: errors.New("expected 8 features, got 4")}}, nil)
	out := m.Predict(Features{})
	assert.Equal(t, StatePredictionFailed, out.State)
	assert.ErrorIs(t, out.Err, ErrPrediction)
}

func TestModelBacked_PanicIsPredictionFailure(t *testing.T) {
	m := NewModelBacked(stubLoader{clf: panicClassifier{}}, nil)
	out := m.Predict(Features{})
	assert.Equal(t, StatePredictionFailed, out.State)
	assert.ErrorIs(t, out.Err, ErrPrediction)
}

func TestModelBacked_NaNIsPredictionFailure(t *testing.T) {
	m := NewModelBacked(stubLoader{clf: &fixedClassifier{p: math.NaN()}}, nil)
	out := m.Predict(Features{})
	assert.Equal(t, StatePredictionFailed, out.State)
}

func TestModelBacked_CorruptArtifactIsPredictionFailure(t *testing.T) {
	m := NewModelBacked(stubLoader{err: ErrPrediction}, nil)
	assert.Equal(t, StatePredictionFailed, m.Predict(Features{}).State)
}

func TestModelBacked_SatisfiesEstimator(t *testing.T) {
	var _ Estimator = (*ModelBacked)(nil)
	var _ Estimator = RuleBased{}
	var _ Predictor = (*ModelBacked)(nil)
}
