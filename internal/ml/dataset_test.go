package ml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntheticDataset_LabelRule(t *testing.T) {
	d := SyntheticDataset(500, 123)
	require.Equal(t, 500, d.Len())

	for i, x := range d.X {
		require.Len(t, x, len(FeatureNames))
		want := 0.0
		if x[1] > x[0]+10 {
			want = 1
		}
		assert.Equal(t, want, d.Y[i], "row %d", i)
		assert.GreaterOrEqual(t, x[2], 0.0)
		assert.LessOrEqual(t, x[2], 2.0)
		assert.LessOrEqual(t, x[3], 5.0)
	}
}

func TestSyntheticDataset_Deterministic(t *testing.T) {
	a := SyntheticDataset(50, 7)
	b := SyntheticDataset(50, 7)
	assert.Equal(t, a.X, b.X)
	assert.Equal(t, a.Y, b.Y)

	c := SyntheticDataset(50, 8)
	assert.NotEqual(t, a.X, c.X)
}

func TestConstructionDataset(t *testing.T) {
	d := ConstructionDataset(1000, 123)
	require.Equal(t, 1000, d.Len())
	require.Len(t, d.Target, 1000)

	var pos int
	for i := range d.X {
		assert.GreaterOrEqual(t, d.Target[i], 0.0)
		assert.LessOrEqual(t, d.Target[i], 1.0)
		assert.LessOrEqual(t, d.X[i][1], 100.0)
		assert.Equal(t, d.Target[i] >= constructionDelayThreshold, d.Y[i] == 1)
		if d.Y[i] == 1 {
			pos++
		}
	}
	assert.Greater(t, pos, 0, "expected some delayed rows")
	assert.Less(t, pos, 1000, "expected some on-time rows")
}

func TestConstructionDataset_Distributions(t *testing.T) {
	const n = 5000
	d := ConstructionDataset(n, 99)

	weather := map[float64]int{}
	var calmIncidents, calmRows float64
	for _, x := range d.X {
		weather[x[2]]++
		assert.Equal(t, x[3], float64(int(x[3])), "incidents are counts")
		if x[2] != 2 {
			calmIncidents += x[3]
			calmRows++
		}
	}
	assert.InDelta(t, 0.6, float64(weather[0])/n, 0.03)
	assert.InDelta(t, 0.3, float64(weather[1])/n, 0.03)
	assert.InDelta(t, 0.1, float64(weather[2])/n, 0.02)
	assert.InDelta(t, 0.5, calmIncidents/calmRows, 0.06)

	again := ConstructionDataset(n, 99)
	assert.Equal(t, d.X, again.X)
	assert.Equal(t, d.Target, again.Target)
}

func TestReadCSV(t *testing.T) {
	in := "incidents,delay,progress_percent,weather,budget_spent\n" +
		"1,0,40,1,35\n" +
		"3, 1, 20, 2, 60\n"
	d, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)

	require.Equal(t, 2, d.Len())
	assert.Equal(t, []float64{40, 35, 1, 1}, d.X[0])
	assert.Equal(t, []float64{20, 60, 2, 3}, d.X[1])
	assert.Equal(t, []float64{0, 1}, d.Y)
}

func TestReadCSV_Errors(t *testing.T) {
	tests := map[string]string{
		"missing feature": "progress_percent,budget_spent,weather,delay\n1,2,0,0\n",
		"missing label":   "progress_percent,budget_spent,weather,incidents\n1,2,0,0\n",
		"bad number":      "progress_percent,budget_spent,weather,incidents,delay\nx,2,0,0,1\n",
		"no rows":         "progress_percent,budget_spent,weather,incidents,delay\n",
		"empty":           "",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestStratifiedSplit_PreservesClassBalance(t *testing.T) {
	d := SyntheticDataset(500, 123)
	train, test, err := StratifiedSplit(d, 0.2, 42)
	require.NoError(t, err)

	assert.Equal(t, d.Len(), train.Len()+test.Len())
	assert.InDelta(t, 100, test.Len(), 1)

	ratio := func(ds *Dataset) float64 {
		pos := 0
		for _, l := range ds.Labels() {
			if l {
				pos++
			}
		}
		return float64(pos) / float64(ds.Len())
	}
	assert.InDelta(t, ratio(d), ratio(test), 0.02)
	assert.InDelta(t, ratio(d), ratio(train), 0.02)
}

func TestStratifiedSplit_Deterministic(t *testing.T) {
	d := SyntheticDataset(200, 1)
	_, a, err := StratifiedSplit(d, 0.2, 42)
	require.NoError(t, err)
	_, b, err := StratifiedSplit(d, 0.2, 42)
	require.NoError(t, err)
	assert.Equal(t, a.X, b.X)
}

func TestStratifiedSplit_Rejects(t *testing.T) {
	d := &Dataset{X: [][]float64{{1}, {2}, {3}}, Y: []float64{1, 1, 1}}
	_, _, err := StratifiedSplit(d, 0.2, 42)
	assert.Error(t, err, "single class")

	_, _, err = StratifiedSplit(SyntheticDataset(20, 1), 1.5, 42)
	assert.Error(t, err, "test size out of range")
}
