package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/buildflow/internal/app"
	"github.com/alexanderramin/buildflow/internal/domain"
)

// ProjectDetail holds everything shown by "project show".
type ProjectDetail struct {
	Project *domain.Project
	Phases  []*domain.Phase
	Budget  *app.BudgetSummary
	Risks   []*domain.Risk
	Actions []*domain.Action
}

func displayID(p *domain.Project) string {
	if strings.TrimSpace(p.ShortID) != "" {
		return p.ShortID
	}
	if p.ID == "" {
		return "--"
	}
	return TruncID(p.ID)
}

// FormatProjectList renders a styled project list inside a bordered box.
func FormatProjectList(projects []*domain.Project) string {
	headers := []string{"ID", "NAME", "COMPANY", "STATUS", "WEATHER", "PLANNED END", "BUDGET"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			displayID(p),
			Bold(p.Name),
			p.Company,
			StatusPill(p.Status),
			WeatherBadge(p.Weather),
			Date(p.PlannedEndDate),
			Money(p.PlannedBudget),
		})
	}
	return RenderBox("Projects", RenderTable(headers, rows))
}

// FormatProjectDetail renders the project card followed by phases, budget and risks.
func FormatProjectDetail(d ProjectDetail) string {
	p := d.Project
	var b strings.Builder

	b.WriteString(StyleBold.Render(p.Name) + "  " + Dim(displayID(p)) + "\n")
	if p.Description != "" {
		b.WriteString(Dim(p.Description) + "\n")
	}
	b.WriteString("\n")
	field := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render(fmt.Sprintf("%-8s", label)), value))
	}
	field("STATUS", StatusPill(p.Status))
	field("UUID", TruncID(p.ID))
	if p.Company != "" || p.Region != "" {
		field("COMPANY", strings.TrimSpace(p.Company+" "+Dim(p.Region)))
	}
	if p.Stage != "" {
		field("STAGE", p.Stage)
	}
	field("START", Date(&p.StartDate))
	field("END", Date(p.PlannedEndDate))
	if p.ActualEndDate != nil {
		field("FINISHED", Date(p.ActualEndDate))
	}
	field("WEATHER", WeatherBadge(p.Weather))

	if len(d.Phases) > 0 {
		done := 0
		for _, ph := range d.Phases {
			if ph.IsDone() {
				done++
			}
		}
		b.WriteString("\n" + StyleHeader.Render("PHASES") + "  " +
			RenderProgress(float64(done)/float64(len(d.Phases)), 12) + "\n")
		b.WriteString(FormatPhaseTable(d.Phases))
	}

	if d.Budget != nil {
		b.WriteString("\n" + StyleHeader.Render("BUDGET") + "\n")
		b.WriteString(FormatBudgetSummary(d.Budget))
	}

	if len(d.Risks) > 0 {
		b.WriteString("\n" + StyleHeader.Render("RISKS") + "\n")
		b.WriteString(FormatRiskTable(d.Risks))
	}

	if len(d.Actions) > 0 {
		b.WriteString("\n" + StyleHeader.Render("OPEN ACTIONS") + "\n")
		b.WriteString(FormatActionTable(d.Actions))
	}

	return RenderBox("", strings.TrimRight(b.String(), "\n"))
}

func FormatPhaseTable(phases []*domain.Phase) string {
	headers := []string{"#", "ID", "NAME", "START", "PLANNED END", "STATUS"}
	rows := make([][]string, 0, len(phases))
	for _, ph := range phases {
		rows = append(rows, []string{
			strconv.Itoa(ph.OrderIndex),
			TruncID(ph.ID),
			ph.Name,
			Date(&ph.StartDate),
			Date(&ph.PlannedEndDate),
			PhaseStatusIcon(ph.Status),
		})
	}
	return RenderTable(headers, rows)
}

func FormatBudgetLines(lines []*domain.BudgetLine) string {
	headers := []string{"DATE", "KIND", "AMOUNT", "DESCRIPTION"}
	rows := make([][]string, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, []string{
			Date(&l.Date),
			string(l.Kind),
			Money(l.Amount),
			l.Description,
		})
	}
	return RenderTable(headers, rows)
}

// FormatBudgetSummary renders planned, spent and remaining amounts with a spend bar.
func FormatBudgetSummary(s *app.BudgetSummary) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("PLANNED  "), Money(s.Planned)))
	if s.Adjustments != 0 {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("ADJUSTED "), Money(s.Adjustments)))
	}
	spent := Money(s.Actual)
	if total := s.Planned + s.Adjustments; total > 0 {
		spent += "  " + RenderProgress(s.Actual/total, 12)
	}
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("SPENT    "), spent))
	remaining := Money(s.Remaining)
	if s.Remaining < 0 {
		remaining = StyleRed.Render(remaining)
	}
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("REMAINING"), remaining))
	return b.String()
}

func FormatRiskTable(risks []*domain.Risk) string {
	headers := []string{"ID", "NAME", "LEVEL", "PROB", "IDENTIFIED", "RESOLVED"}
	rows := make([][]string, 0, len(risks))
	for _, r := range risks {
		rows = append(rows, []string{
			TruncID(r.ID),
			r.Name,
			RiskLevelBadge(r.Level),
			fmt.Sprintf("%d%%", r.Probability),
			Date(&r.IdentifiedAt),
			Date(r.ResolvedAt),
		})
	}
	return RenderTable(headers, rows)
}

func FormatActionTable(actions []*domain.Action) string {
	headers := []string{"ID", "TITLE", "STATUS", "PRI", "OWNER", "DUE", "DONE"}
	rows := make([][]string, 0, len(actions))
	for _, a := range actions {
		rows = append(rows, []string{
			TruncID(a.ID),
			a.Title,
			string(a.Status),
			fmt.Sprintf("P%d", a.Priority),
			a.Owner,
			Date(a.PlannedEndDate),
			Date(a.ActualEndDate),
		})
	}
	return RenderTable(headers, rows)
}
