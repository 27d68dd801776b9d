package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/buildflow/internal/domain"
	"github.com/google/uuid"
)

// Converted is an import schema turned into domain objects ready for persistence.
type Converted struct {
	Project     *domain.Project
	Phases      []*domain.Phase
	BudgetLines []*domain.BudgetLine
	Risks       []*domain.Risk
}

// Convert transforms a validated ImportSchema into domain objects ready for persistence.
// Call ValidateImportSchema first; Convert assumes the schema is valid. Projects
// without a weather value get defaultWeather.
func Convert(schema *ImportSchema, defaultWeather domain.WeatherCondition) (*Converted, error) {
	now := time.Now().UTC()
	p := schema.Project

	startDate, err := time.Parse(dateLayout, p.StartDate)
	if err != nil {
		return nil, fmt.Errorf("parsing start_date: %w", err)
	}

	project := &domain.Project{
		ID:             uuid.New().String(),
		ShortID:        strings.ToUpper(p.ShortID),
		Name:           p.Name,
		Description:    p.Description,
		Company:        p.Company,
		Region:         p.Region,
		Stage:          p.Stage,
		StartDate:      startDate,
		PlannedEndDate: parseOptionalDate(p.PlannedEndDate),
		Status:         domain.ProjectStatus(domain.CoalesceStr(p.Status, string(domain.ProjectInProgress))),
		PlannedBudget:  domain.Float64FromPtrWithDefault(0, p.PlannedBudget),
		ActualBudget:   domain.Float64FromPtrWithDefault(0, p.ActualBudget),
		Weather:        domain.WeatherCondition(domain.CoalesceStr(p.Weather, string(defaultWeather))),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	out := &Converted{Project: project}

	for i, ph := range schema.Phases {
		start, err := time.Parse(dateLayout, ph.StartDate)
		if err != nil {
			return nil, fmt.Errorf("parsing phases[%d].start_date: %w", i, err)
		}
		end, err := time.Parse(dateLayout, ph.PlannedEndDate)
		if err != nil {
			return nil, fmt.Errorf("parsing phases[%d].planned_end_date: %w", i, err)
		}
		order := ph.Order
		if order == 0 {
			order = i + 1
		}
		status := domain.PhaseStatus(domain.CoalesceStr(ph.Status, string(domain.PhasePending)))
		out.Phases = append(out.Phases, &domain.Phase{
			ID:             uuid.New().String(),
			ProjectID:      project.ID,
			Name:           ph.Name,
			Description:    ph.Description,
			OrderIndex:     order,
			StartDate:      start,
			PlannedEndDate: end,
			ActualEndDate:  parseOptionalDate(ph.ActualEndDate),
			Status:         status,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}

	for i, b := range schema.BudgetLines {
		date, err := time.Parse(dateLayout, b.Date)
		if err != nil {
			return nil, fmt.Errorf("parsing budget_lines[%d].date: %w", i, err)
		}
		out.BudgetLines = append(out.BudgetLines, &domain.BudgetLine{
			ID:          uuid.New().String(),
			ProjectID:   project.ID,
			Kind:        domain.BudgetKind(b.Kind),
			Amount:      b.Amount,
			Description: b.Description,
			Date:        date,
			CreatedAt:   now,
		})
	}

	for _, r := range schema.Risks {
		level := domain.RiskLevel(domain.CoalesceStr(r.Level, string(domain.RiskMedium)))
		identified := startDate
		if d := parseOptionalDate(&r.IdentifiedAt); d != nil {
			identified = *d
		}
		out.Risks = append(out.Risks, &domain.Risk{
			ID:           uuid.New().String(),
			ProjectID:    project.ID,
			Name:         r.Name,
			Description:  r.Description,
			Level:        level,
			Probability:  r.Probability,
			Impact:       r.Impact,
			Mitigation:   r.Mitigation,
			IdentifiedAt: identified,
			ResolvedAt:   parseOptionalDate(r.ResolvedAt),
		})
	}

	return out, nil
}

func parseOptionalDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil
	}
	return &t
}
