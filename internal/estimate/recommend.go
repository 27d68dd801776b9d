package estimate

import "github.com/alexanderramin/buildflow/internal/domain"

const (
	RecAccelerateCriticalPhases = "Accelerate critical phases and reallocate resources."
	RecFreezeSpending           = "Freeze non-essential spending and renegotiate contracts."
	RecReviewRiskRegister       = "Review the risk register and define immediate mitigation plans."
	RecContinuePlan             = "Continue per the current plan and monitor key milestones."

	RecStrengthenCriticalPath = "Strengthen the team on the critical path."
	RecReviseProcurement      = "Revise the procurement plan and negotiate immediate savings."
	RecAdaptToWeather         = "Adapt the schedule to adverse weather and protect the site."
	RecIncidentPrevention     = "Set up an incident prevention plan and safety audits."
)

// Assessment is the estimator output the second rule set reads.
// Percentages are in [0,100].
type Assessment struct {
	DelayPercent   float64
	OverrunPercent float64
	Weather        domain.WeatherCondition
	Incidents      int
}

// FeatureRecommendations derives advice from aggregate project state.
func FeatureRecommendations(f Features) []string {
	var recs []string
	if f.ProgressRatio < 0.5 && float64(f.DaysLeft) <= float64(f.PlannedDays)*0.5 {
		recs = append(recs, RecAccelerateCriticalPhases)
	}
	if f.BudgetRatio > 1.0 {
		recs = append(recs, RecFreezeSpending)
	}
	if f.RiskCount > 0 {
		recs = append(recs, RecReviewRiskRegister)
	}
	if len(recs) == 0 {
		recs = append(recs, RecContinuePlan)
	}
	return recs
}

// AssessmentRecommendations derives advice from estimated magnitudes and site conditions.
func AssessmentRecommendations(a Assessment) []string {
	var recs []string
	if a.DelayPercent > 60 {
		recs = append(recs, RecStrengthenCriticalPath)
	}
	if a.OverrunPercent > 50 {
		recs = append(recs, RecReviseProcurement)
	}
	if a.Weather == domain.WeatherSevere {
		recs = append(recs, RecAdaptToWeather)
	}
	if a.Incidents > 2 {
		recs = append(recs, RecIncidentPrevention)
	}
	if len(recs) == 0 {
		recs = append(recs, RecContinuePlan)
	}
	return recs
}

// Recommend unions both rule sets. A nil assessment yields the feature set alone.
func Recommend(f Features, a *Assessment) []string {
	sets := [][]string{FeatureRecommendations(f)}
	if a != nil {
		sets = append(sets, AssessmentRecommendations(*a))
	}
	return mergeUnique(sets...)
}

// mergeUnique concatenates sets keeping the first occurrence of each string.
func mergeUnique(sets ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, set := range sets {
		for _, s := range set {
			if seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
