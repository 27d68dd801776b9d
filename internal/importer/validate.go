package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/buildflow/internal/domain"
)

const dateLayout = "2006-01-02"

// ValidateImportSchema checks the import schema for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	errs = append(errs, validateProject(&schema.Project)...)
	for i := range schema.Phases {
		errs = append(errs, validatePhase(fmt.Sprintf("phases[%d]", i), &schema.Phases[i])...)
	}
	for i := range schema.BudgetLines {
		errs = append(errs, validateBudgetLine(fmt.Sprintf("budget_lines[%d]", i), &schema.BudgetLines[i])...)
	}
	for i := range schema.Risks {
		errs = append(errs, validateRisk(fmt.Sprintf("risks[%d]", i), &schema.Risks[i])...)
	}

	return errs
}

func validateProject(p *ProjectImport) []error {
	var errs []error

	if p.ShortID == "" {
		errs = append(errs, fmt.Errorf("project.short_id is required"))
	} else {
		candidate := domain.Project{ShortID: strings.ToUpper(p.ShortID)}
		if err := candidate.ValidateShortID(); err != nil {
			errs = append(errs, fmt.Errorf("project.short_id: %w", err))
		}
	}
	if p.Name == "" {
		errs = append(errs, fmt.Errorf("project.name is required"))
	}

	start, startOK := requireDate(&errs, "project.start_date", p.StartDate)
	if p.PlannedEndDate != nil {
		end, ok := requireDate(&errs, "project.planned_end_date", *p.PlannedEndDate)
		if ok && startOK && end.Before(start) {
			errs = append(errs, fmt.Errorf("project.planned_end_date %q is before start_date %q", *p.PlannedEndDate, p.StartDate))
		}
	}

	if p.Status != "" {
		if _, err := domain.ParseProjectStatus(p.Status); err != nil {
			errs = append(errs, fmt.Errorf("project.status: %w", err))
		}
	}
	if p.Weather != "" {
		if _, err := domain.ParseWeather(p.Weather); err != nil {
			errs = append(errs, fmt.Errorf("project.weather: %w", err))
		}
	}
	if p.PlannedBudget != nil && *p.PlannedBudget < 0 {
		errs = append(errs, fmt.Errorf("project.planned_budget must not be negative"))
	}
	if p.ActualBudget != nil && *p.ActualBudget < 0 {
		errs = append(errs, fmt.Errorf("project.actual_budget must not be negative"))
	}

	return errs
}

func validatePhase(prefix string, p *PhaseImport) []error {
	var errs []error

	if p.Name == "" {
		errs = append(errs, fmt.Errorf("%s.name is required", prefix))
	}
	start, startOK := requireDate(&errs, prefix+".start_date", p.StartDate)
	end, endOK := requireDate(&errs, prefix+".planned_end_date", p.PlannedEndDate)
	if startOK && endOK && end.Before(start) {
		errs = append(errs, fmt.Errorf("%s.planned_end_date %q is before start_date %q", prefix, p.PlannedEndDate, p.StartDate))
	}
	if p.ActualEndDate != nil {
		requireDate(&errs, prefix+".actual_end_date", *p.ActualEndDate)
	}
	if p.Status != "" {
		if _, err := domain.ParsePhaseStatus(p.Status); err != nil {
			errs = append(errs, fmt.Errorf("%s.status: %w", prefix, err))
		}
	}
	if p.Order < 0 {
		errs = append(errs, fmt.Errorf("%s.order must not be negative", prefix))
	}

	return errs
}

func validateBudgetLine(prefix string, b *BudgetLineImport) []error {
	var errs []error

	if _, err := domain.ParseBudgetKind(b.Kind); err != nil {
		errs = append(errs, fmt.Errorf("%s.kind: %w", prefix, err))
	}
	// Adjustments may be negative; planned and actual amounts may not.
	if b.Amount < 0 && b.Kind != string(domain.BudgetAdjustment) {
		errs = append(errs, fmt.Errorf("%s.amount must not be negative for %s lines", prefix, b.Kind))
	}
	requireDate(&errs, prefix+".date", b.Date)

	return errs
}

func validateRisk(prefix string, r *RiskImport) []error {
	var errs []error

	if r.Name == "" {
		errs = append(errs, fmt.Errorf("%s.name is required", prefix))
	}
	if r.Level != "" {
		if _, err := domain.ParseRiskLevel(r.Level); err != nil {
			errs = append(errs, fmt.Errorf("%s.level: %w", prefix, err))
		}
	}
	if r.Probability < 0 || r.Probability > 100 {
		errs = append(errs, fmt.Errorf("%s.probability %d must be between 0 and 100", prefix, r.Probability))
	}
	if r.IdentifiedAt != "" {
		requireDate(&errs, prefix+".identified_at", r.IdentifiedAt)
	}
	if r.ResolvedAt != nil {
		requireDate(&errs, prefix+".resolved_at", *r.ResolvedAt)
	}

	return errs
}

// requireDate appends an error when value is empty or not YYYY-MM-DD.
func requireDate(errs *[]error, field, value string) (time.Time, bool) {
	if value == "" {
		*errs = append(*errs, fmt.Errorf("%s is required", field))
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, value))
		return time.Time{}, false
	}
	return t, true
}
