package estimate

import "math"

// Probabilities holds delay and budget-overrun likelihoods in [0,1].
type Probabilities struct {
	Delay         float64
	BudgetOverrun float64
}

// Estimator is satisfied by every estimation strategy.
type Estimator interface {
	Estimate(f Features) Probabilities
}

// RuleBased is the deterministic heuristic estimator. It needs no artifact and never fails.
type RuleBased struct{}

func (RuleBased) Estimate(f Features) Probabilities {
	return Probabilities{
		Delay:         RuleDelayRisk(f),
		BudgetOverrun: RuleBudgetOverrunRisk(f),
	}
}

// RuleDelayRisk weighs elapsed time, missing progress and the presence of risks.
func RuleDelayRisk(f Features) float64 {
	var timePressure float64
	if f.PlannedDays > 0 {
		timePressure = float64(f.DaysElapsed) / float64(max(1, f.PlannedDays))
	}
	lowProgressPenalty := 1 - f.ProgressRatio
	risk := 0.5*timePressure + 0.4*lowProgressPenalty + 0.1*indicator(f.RiskCount > 0)
	return round(clamp01(risk), 3)
}

// RuleBudgetOverrunRisk weighs spend running ahead of progress, risks and lateness.
func RuleBudgetOverrunRisk(f Features) float64 {
	gap := math.Max(0, f.BudgetRatio-math.Max(0.01, f.ProgressRatio))
	risk := 0.6*gap + 0.2*indicator(f.RiskCount > 0) + 0.2*indicator(f.DaysLeft < 0)
	return round(clamp01(risk), 3)
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func clamp01(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return math.Min(1, math.Max(0, x))
}

func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}

// toPercent rescales a [0,1] probability to a percentage with one decimal.
func toPercent(p float64) float64 {
	return round(clamp01(p)*100, 1)
}
