package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/buildflow/internal/domain"
)

// resolvePhase matches ref against a project's phases by order number, full
// ID or unique ID prefix.
func resolvePhase(ctx context.Context, app *App, projectID, ref string) (*domain.Phase, error) {
	phases, err := app.Phases.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if n, err := strconv.Atoi(ref); err == nil {
		for _, ph := range phases {
			if ph.OrderIndex == n {
				return ph, nil
			}
		}
	}
	var matches []*domain.Phase
	for _, ph := range phases {
		if ph.ID == ref {
			return ph, nil
		}
		if strings.HasPrefix(ph.ID, ref) {
			matches = append(matches, ph)
		}
	}
	return pickOne(matches, "phase", ref)
}

// resolveRisk matches ref against a project's risks, resolved ones included.
func resolveRisk(ctx context.Context, app *App, projectID, ref string) (*domain.Risk, error) {
	risks, err := app.Risks.ListByProject(ctx, projectID, true)
	if err != nil {
		return nil, err
	}
	var matches []*domain.Risk
	for _, r := range risks {
		if r.ID == ref {
			return r, nil
		}
		if strings.HasPrefix(r.ID, ref) {
			matches = append(matches, r)
		}
	}
	return pickOne(matches, "risk", ref)
}

func pickOne[T any](matches []T, what, ref string) (T, error) {
	var zero T
	switch len(matches) {
	case 0:
		return zero, fmt.Errorf("%s not found: %q", what, ref)
	case 1:
		return matches[0], nil
	default:
		return zero, fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", what, ref, len(matches))
	}
}

// resolveAction matches ref against a project's actions, closed ones included.
func resolveAction(ctx context.Context, app *App, projectID, ref string) (*domain.Action, error) {
	actions, err := app.Actions.ListByProject(ctx, projectID, true)
	if err != nil {
		return nil, err
	}
	var matches []*domain.Action
	for _, a := range actions {
		if a.ID == ref {
			return a, nil
		}
		if strings.HasPrefix(a.ID, ref) {
			matches = append(matches, a)
		}
	}
	return pickOne(matches, "action", ref)
}
