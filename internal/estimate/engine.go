package estimate

import (
	"time"

	"github.com/alexanderramin/buildflow/internal/domain"
	"github.com/rs/zerolog"
)

// ModelStatus is the caller-facing summary of the model path.
type ModelStatus string

const (
	ModelOK          ModelStatus = "ok"
	ModelUnavailable ModelStatus = "unavailable"
	ModelFailed      ModelStatus = "failed"
)

// Result is one estimation, created per request and never mutated.
type Result struct {
	DelayProbability      float64               `json:"delay_probability"`
	BudgetOverrunEstimate float64               `json:"budget_overrun_estimate"`
	Recommendations       []string              `json:"recommendations"`
	Features              Features              `json:"features"`
	Source                domain.EstimateSource `json:"source"`
	ModelStatus           ModelStatus           `json:"model_status"`
}

// Engine composes feature extraction, the model path with its rule-based fallback
// and recommendation generation. It is safe for concurrent use.
type Engine struct {
	model    Predictor
	fallback Estimator
	logger   zerolog.Logger
}

type EngineOption func(*Engine)

// WithLogger reports fallbacks through l.
func WithLogger(l zerolog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = l
	}
}

// NewEngine builds an engine. A nil model means rules only.
func NewEngine(model Predictor, fallback Estimator, opts ...EngineOption) *Engine {
	if fallback == nil {
		fallback = RuleBased{}
	}
	e := &Engine{model: model, fallback: fallback, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Estimate returns an estimation for the snapshot as of today. The only error is
// ErrInvalidSnapshot; model failures resolve to the rule-based path.
func (e *Engine) Estimate(s Snapshot, today time.Time) (Result, error) {
	f, err := ExtractFeatures(s, today)
	if err != nil {
		return Result{}, err
	}
	return e.EstimateFeatures(f), nil
}

// EstimateFeatures runs the estimators and recommendation rules on precomputed features.
func (e *Engine) EstimateFeatures(f Features) Result {
	outcome := Outcome{State: StateNotAttempted}
	if e.model != nil {
		outcome = e.model.Predict(f)
	}

	res := Result{Features: f}
	probs := outcome.Probabilities
	if outcome.OK() {
		res.Source = domain.SourceModel
		res.ModelStatus = ModelOK
	} else {
		probs = e.fallback.Estimate(f)
		res.Source = domain.SourceRules
		res.ModelStatus = ModelUnavailable
		if outcome.State == StatePredictionFailed {
			res.ModelStatus = ModelFailed
		}
		switch {
		case res.ModelStatus == ModelFailed:
			e.logger.Warn().Err(outcome.Err).Msg("delay model failed, using rules")
		case outcome.Err != nil:
			e.logger.Debug().Err(outcome.Err).Msg("delay model unavailable, using rules")
		}
	}

	res.DelayProbability = toPercent(probs.Delay)
	res.BudgetOverrunEstimate = toPercent(probs.BudgetOverrun)
	res.Recommendations = Recommend(f, &Assessment{
		DelayPercent:   res.DelayProbability,
		OverrunPercent: res.BudgetOverrunEstimate,
		Weather:        f.Weather,
		Incidents:      f.RiskCount,
	})
	return res
}
