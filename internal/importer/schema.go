package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// ImportSchema is the top-level JSON structure for project import.
type ImportSchema struct {
	Project     ProjectImport      `json:"project"`
	Phases      []PhaseImport      `json:"phases,omitempty"`
	BudgetLines []BudgetLineImport `json:"budget_lines,omitempty"`
	Risks       []RiskImport       `json:"risks,omitempty"`
}

// ProjectImport defines the project-level fields in the import file.
type ProjectImport struct {
	ShortID        string   `json:"short_id"`
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	Company        string   `json:"company,omitempty"`
	Region         string   `json:"region,omitempty"`
	Stage          string   `json:"stage,omitempty"`
	StartDate      string   `json:"start_date"`
	PlannedEndDate *string  `json:"planned_end_date,omitempty"`
	Status         string   `json:"status,omitempty"`
	PlannedBudget  *float64 `json:"planned_budget,omitempty"`
	ActualBudget   *float64 `json:"actual_budget,omitempty"`
	Weather        string   `json:"weather,omitempty"`
}

// PhaseImport defines a construction phase. Order defaults to file position.
type PhaseImport struct {
	Name           string  `json:"name"`
	Description    string  `json:"description,omitempty"`
	Order          int     `json:"order,omitempty"`
	StartDate      string  `json:"start_date"`
	PlannedEndDate string  `json:"planned_end_date"`
	ActualEndDate  *string `json:"actual_end_date,omitempty"`
	Status         string  `json:"status,omitempty"`
}

type BudgetLineImport struct {
	Kind        string  `json:"kind"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
	Date        string  `json:"date"`
}

type RiskImport struct {
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Level        string  `json:"level,omitempty"`
	Probability  int     `json:"probability,omitempty"`
	Impact       string  `json:"impact,omitempty"`
	Mitigation   string  `json:"mitigation,omitempty"`
	IdentifiedAt string  `json:"identified_at,omitempty"`
	ResolvedAt   *string `json:"resolved_at,omitempty"`
}

// LoadImportSchema reads and parses a project import JSON file.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseImportSchema(data)
}

func ParseImportSchema(data []byte) (*ImportSchema, error) {
	var schema ImportSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
