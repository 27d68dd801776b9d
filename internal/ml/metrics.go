package ml

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// Metrics are computed on the held-out partition. R2 and MAE are only set for regressors.
type Metrics struct {
	AUC       float64  `json:"auc"`
	Accuracy  float64  `json:"accuracy"`
	R2        *float64 `json:"r2,omitempty"`
	MAE       *float64 `json:"mae,omitempty"`
	TrainRows int      `json:"train_rows"`
	TestRows  int      `json:"test_rows"`
}

// AUC is the area under the ROC curve of scores against labels.
func AUC(scores []float64, labels []bool) (float64, error) {
	if len(scores) != len(labels) {
		return 0, fmt.Errorf("auc: %d scores for %d labels", len(scores), len(labels))
	}
	var pos int
	for _, l := range labels {
		if l {
			pos++
		}
	}
	if pos == 0 || pos == len(labels) {
		return 0, fmt.Errorf("auc needs both classes, got %d of %d positive", pos, len(labels))
	}
	y := append([]float64(nil), scores...)
	classes := append([]bool(nil), labels...)
	stat.SortWeightedLabeled(y, classes, nil)
	tpr, fpr, _ := stat.ROC(nil, y, classes, nil)
	return integrate.Trapezoidal(fpr, tpr), nil
}

// Accuracy counts scores >= 0.5 as predicting delay.
func Accuracy(scores []float64, labels []bool) float64 {
	if len(scores) == 0 {
		return 0
	}
	hit := 0
	for i, s := range scores {
		if (s >= 0.5) == labels[i] {
			hit++
		}
	}
	return float64(hit) / float64(len(scores))
}

func MAE(pred, actual []float64) float64 {
	if len(pred) == 0 {
		return 0
	}
	sum := 0.0
	for i := range pred {
		sum += math.Abs(pred[i] - actual[i])
	}
	return sum / float64(len(pred))
}
