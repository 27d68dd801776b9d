package ml

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	randv2 "math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/alexanderramin/buildflow/internal/estimate"
	"gonum.org/v1/gonum/stat/distuv"
)

// FeatureNames is the serving column order; artifacts trained on anything else are rejected.
var FeatureNames = estimate.ModelFeatureNames

// LabelColumn is the CSV column holding the delay label.
const LabelColumn = "delay"

// Dataset holds feature rows with binary delay labels. Target optionally carries the
// continuous delay likelihood the labels were derived from; regressors prefer it.
type Dataset struct {
	X      [][]float64
	Y      []float64
	Target []float64
}

func (d *Dataset) Len() int {
	return len(d.X)
}

// Labels returns Y as booleans, treating values >= 0.5 as delayed.
func (d *Dataset) Labels() []bool {
	out := make([]bool, len(d.Y))
	for i, y := range d.Y {
		out[i] = y >= 0.5
	}
	return out
}

// RegressionTarget returns Target when present, otherwise Y.
func (d *Dataset) RegressionTarget() []float64 {
	if len(d.Target) == len(d.Y) && len(d.Target) > 0 {
		return d.Target
	}
	return d.Y
}

func (d *Dataset) subset(idx []int) *Dataset {
	out := &Dataset{X: make([][]float64, len(idx)), Y: make([]float64, len(idx))}
	hasTarget := len(d.Target) == len(d.Y) && len(d.Target) > 0
	if hasTarget {
		out.Target = make([]float64, len(idx))
	}
	for i, j := range idx {
		out.X[i] = d.X[j]
		out.Y[i] = d.Y[j]
		if hasTarget {
			out.Target[i] = d.Target[j]
		}
	}
	return out
}

// SyntheticDataset draws n toy rows: uniform progress and spend, weather 0-2,
// 0-5 incidents, delayed when spend runs more than 10 points ahead of progress.
func SyntheticDataset(n int, seed int64) *Dataset {
	rng := rand.New(rand.NewSource(seed))
	d := &Dataset{X: make([][]float64, n), Y: make([]float64, n)}
	for i := 0; i < n; i++ {
		progress := rng.Float64() * 100
		spent := rng.Float64() * 100
		weather := float64(rng.Intn(3))
		incidents := float64(rng.Intn(6))
		d.X[i] = []float64{progress, spent, weather, incidents}
		if spent > progress+10 {
			d.Y[i] = 1
		}
	}
	return d
}

// constructionDelayThreshold turns the weighted delay likelihood into a label.
const constructionDelayThreshold = 0.3

// ConstructionDataset draws n rows shaped like site reports: spend tracks progress
// with a Beta(2,2) efficiency, weather is mostly good, incidents are Poisson and
// more frequent in severe weather, and permit delays add to the delay likelihood.
func ConstructionDataset(n int, seed int64) *Dataset {
	src := randv2.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)
	rng := randv2.New(src)
	efficiency := distuv.Beta{Alpha: 2, Beta: 2, Src: src}
	weatherDist := distuv.NewCategorical([]float64{0.6, 0.3, 0.1}, src)
	permitDist := distuv.NewCategorical([]float64{0.7, 0.2, 0.1}, src)
	calmIncidents := distuv.Poisson{Lambda: 0.5, Src: src}
	stormIncidents := distuv.Poisson{Lambda: 1, Src: src}

	d := &Dataset{X: make([][]float64, n), Y: make([]float64, n), Target: make([]float64, n)}
	for i := 0; i < n; i++ {
		progress := rng.Float64() * 100
		spent := math.Min(100, progress*efficiency.Rand()*(0.8+rng.Float64()*0.4)*1.6)
		weather := weatherDist.Rand()
		incidents := calmIncidents.Rand()
		if weather == 2 {
			incidents = stormIncidents.Rand()
		}
		permitDelays := permitDist.Rand()

		risk := 0.4*indicator(spent > progress+15) +
			0.3*indicator(weather == 2) +
			0.2*indicator(incidents > 2) +
			0.1*indicator(permitDelays > 0)
		risk = math.Min(1, risk)

		d.X[i] = []float64{progress, spent, weather, incidents}
		d.Target[i] = risk
		if risk >= constructionDelayThreshold {
			d.Y[i] = 1
		}
	}
	return d
}

// LoadCSV reads a dataset with a header naming the model features and the delay column.
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

func ReadCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(strings.ToLower(h))] = i
	}
	featureIdx := make([]int, len(FeatureNames))
	for i, name := range FeatureNames {
		idx, ok := cols[name]
		if !ok {
			return nil, fmt.Errorf("csv is missing column %q", name)
		}
		featureIdx[i] = idx
	}
	labelIdx, ok := cols[LabelColumn]
	if !ok {
		return nil, fmt.Errorf("csv is missing column %q", LabelColumn)
	}

	d := &Dataset{}
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv line %d: %w", line, err)
		}
		row := make([]float64, len(featureIdx))
		for i, idx := range featureIdx {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[idx]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d column %q: %w", line, FeatureNames[i], err)
			}
			row[i] = v
		}
		label, err := strconv.ParseFloat(strings.TrimSpace(rec[labelIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d column %q: %w", line, LabelColumn, err)
		}
		d.X = append(d.X, row)
		d.Y = append(d.Y, label)
	}
	if d.Len() == 0 {
		return nil, fmt.Errorf("csv has no rows")
	}
	return d, nil
}

// StratifiedSplit shuffles each class separately and moves testSize of it to the test set.
func StratifiedSplit(d *Dataset, testSize float64, seed int64) (train, test *Dataset, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("test size %.2f must be between 0 and 1", testSize)
	}
	rng := rand.New(rand.NewSource(seed))

	var pos, neg []int
	for i, l := range d.Labels() {
		if l {
			pos = append(pos, i)
		} else {
			neg = append(neg, i)
		}
	}
	if len(pos) < 2 || len(neg) < 2 {
		return nil, nil, fmt.Errorf("stratified split needs at least two rows per class (got %d delayed, %d on time)", len(pos), len(neg))
	}

	var trainIdx, testIdx []int
	for _, class := range [][]int{neg, pos} {
		rng.Shuffle(len(class), func(i, j int) { class[i], class[j] = class[j], class[i] })
		nTest := int(math.Round(float64(len(class)) * testSize))
		nTest = min(max(nTest, 1), len(class)-1)
		testIdx = append(testIdx, class[:nTest]...)
		trainIdx = append(trainIdx, class[nTest:]...)
	}
	return d.subset(trainIdx), d.subset(testIdx), nil
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
