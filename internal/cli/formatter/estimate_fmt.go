package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/buildflow/internal/app"
	"github.com/alexanderramin/buildflow/internal/domain"
	"github.com/alexanderramin/buildflow/internal/estimate"
)

// FormatEstimate renders one estimation with its features and recommendations.
func FormatEstimate(p *domain.Project, res estimate.Result) string {
	var b strings.Builder
	f := res.Features

	b.WriteString(StyleBold.Render(p.Name) + "  " + Dim(displayID(p)) + "\n\n")
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("DELAY   "), Percent(res.DelayProbability)))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("OVERRUN "), Percent(res.BudgetOverrunEstimate)))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("SOURCE  "), sourceLabel(res)))

	b.WriteString("\n" + StyleHeader.Render("FEATURES") + "\n")
	b.WriteString(fmt.Sprintf("%s  %d of %d (%d left)\n", StyleDim.Render("DAYS    "), f.DaysElapsed, f.PlannedDays, f.DaysLeft))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("PROGRESS"), RenderProgress(f.ProgressRatio, 12)))
	b.WriteString(fmt.Sprintf("%s  %.0f%%\n", StyleDim.Render("SPENT   "), f.BudgetRatio*100))
	b.WriteString(fmt.Sprintf("%s  %d\n", StyleDim.Render("RISKS   "), f.RiskCount))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("WEATHER "), WeatherBadge(f.Weather)))

	b.WriteString("\n" + StyleHeader.Render("RECOMMENDATIONS") + "\n")
	for _, rec := range res.Recommendations {
		b.WriteString(StyleYellow.Render("→ ") + rec + "\n")
	}
	return RenderBox("Estimate", strings.TrimRight(b.String(), "\n"))
}

func sourceLabel(res estimate.Result) string {
	if res.Source == domain.SourceModel {
		return StyleGreen.Render("model")
	}
	return StyleYellow.Render("rules") + " " + Dim("(model "+string(res.ModelStatus)+")")
}

// FormatEstimateBatch renders the result of "estimate --all", errors inline.
func FormatEstimateBatch(rows []app.ProjectEstimate) string {
	headers := []string{"ID", "NAME", "DELAY", "OVERRUN", "SOURCE"}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		if r.Err != nil {
			out = append(out, []string{displayID(r.Project), r.Project.Name, StyleRed.Render("error"), Dim(r.Err.Error()), ""})
			continue
		}
		out = append(out, []string{
			displayID(r.Project),
			r.Project.Name,
			Percent(r.Result.DelayProbability),
			Percent(r.Result.BudgetOverrunEstimate),
			string(r.Result.Source),
		})
	}
	return RenderBox("Portfolio risk", RenderTable(headers, out))
}

func FormatHistory(history []*domain.Estimation) string {
	headers := []string{"WHEN", "DELAY", "OVERRUN", "SOURCE", "MODEL"}
	rows := make([][]string, 0, len(history))
	for _, e := range history {
		rows = append(rows, []string{
			e.CreatedAt.Format("2006-01-02 15:04"),
			Percent(e.DelayProbability),
			Percent(e.BudgetOverrunEstimate),
			string(e.Source),
			e.ModelStatus,
		})
	}
	return RenderTable(headers, rows)
}

func FormatAuditLog(entries []*domain.AuditEntry) string {
	headers := []string{"WHEN", "ACTION", "RESOURCE", "ID", "DETAILS"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.CreatedAt.Format("2006-01-02 15:04:05"),
			auditActionLabel(e.Action),
			e.ResourceType,
			TruncID(e.ResourceID),
			e.Details,
		})
	}
	return RenderTable(headers, rows)
}

func auditActionLabel(a domain.AuditAction) string {
	switch a {
	case domain.AuditCreate:
		return StyleGreen.Render(string(a))
	case domain.AuditDelete:
		return StyleRed.Render(string(a))
	default:
		return StyleBlue.Render(string(a))
	}
}
