package domain

import "time"

type BudgetLine struct {
	ID          string
	ProjectID   string
	Kind        BudgetKind
	Amount      float64
	Description string
	Date        time.Time
	CreatedAt   time.Time
}
