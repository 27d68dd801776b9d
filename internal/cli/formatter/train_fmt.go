package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/buildflow/internal/ml"
)

// FormatTrainReport summarises a freshly written model artifact.
func FormatTrainReport(path string, a *ml.Artifact) string {
	var b strings.Builder
	m := a.Metrics
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("KIND    "), string(a.Kind)))
	if a.Forest != nil {
		b.WriteString(fmt.Sprintf("%s  %d\n", StyleDim.Render("TREES   "), len(a.Forest.Trees)))
	}
	b.WriteString(fmt.Sprintf("%s  %d train / %d test\n", StyleDim.Render("ROWS    "), m.TrainRows, m.TestRows))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("AUC     "), metric(m.AUC, 0.7)))
	b.WriteString(fmt.Sprintf("%s  %.3f\n", StyleDim.Render("ACCURACY"), m.Accuracy))
	if m.R2 != nil {
		b.WriteString(fmt.Sprintf("%s  %.3f\n", StyleDim.Render("R2      "), *m.R2))
	}
	if m.MAE != nil {
		b.WriteString(fmt.Sprintf("%s  %.3f\n", StyleDim.Render("MAE     "), *m.MAE))
	}
	b.WriteString(fmt.Sprintf("%s  %s", StyleDim.Render("SAVED   "), path))
	return RenderBox("Model trained", b.String())
}

func metric(v, good float64) string {
	s := fmt.Sprintf("%.3f", v)
	if v >= good {
		return StyleGreen.Render(s)
	}
	return StyleYellow.Render(s)
}
