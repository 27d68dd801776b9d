package cli

import (
	"strconv"
	"strings"

	"github.com/alexanderramin/buildflow/internal/cli/formatter"
	"github.com/alexanderramin/buildflow/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// buildflowHuhTheme returns a huh theme matching the formatter palette.
func buildflowHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// projectFormValues backs the interactive "project add" form.
type projectFormValues struct {
	ShortID string
	Name    string
	Company string
	Region  string
	Start   string
	End     string
	Budget  string
	Weather string
}

// projectForm collects the fields of a new project.
func projectForm(v *projectFormValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Short ID").
				Placeholder("TWR01").
				Value(&v.ShortID).
				Validate(func(s string) error {
					candidate := domain.Project{ShortID: strings.ToUpper(s)}
					return candidate.ValidateShortID()
				}),
			huh.NewInput().Title("Name").Value(&v.Name).Validate(huh.ValidateNotEmpty()),
			huh.NewInput().Title("Company").Value(&v.Company),
			huh.NewInput().Title("Region").Value(&v.Region),
		),
		huh.NewGroup(
			huh.NewInput().Title("Start date (YYYY-MM-DD)").Placeholder("2025-03-01").Value(&v.Start).Validate(validateRequiredDate),
			huh.NewInput().Title("Planned end date (YYYY-MM-DD)").Placeholder("2025-12-31").Value(&v.End).Validate(validateRequiredDate),
			huh.NewInput().Title("Planned budget").Placeholder("250000").Value(&v.Budget).Validate(validateNonNegativeFloat),
			huh.NewSelect[string]().
				Title("Site weather").
				Options(
					huh.NewOption("Good", string(domain.WeatherGood)),
					huh.NewOption("Fair", string(domain.WeatherFair)),
					huh.NewOption("Severe", string(domain.WeatherSevere)),
				).
				Value(&v.Weather),
		),
	).WithTheme(buildflowHuhTheme()).WithShowHelp(false)
}

func (v *projectFormValues) budget() float64 {
	f, _ := strconv.ParseFloat(v.Budget, 64)
	return f
}
