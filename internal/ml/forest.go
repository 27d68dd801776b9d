package ml

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ForestConfig controls random forest fitting. Zero MaxDepth grows trees until pure.
type ForestConfig struct {
	Trees           int
	MaxDepth        int
	MinSamplesSplit int
	MaxFeatures     int // 0 means floor(sqrt(features))
	Seed            int64
	Workers         int
}

func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		Trees:           200,
		MinSamplesSplit: 2,
		Seed:            42,
		Workers:         runtime.GOMAXPROCS(0),
	}
}

// Forest is a bagged ensemble of CART trees; the delayed probability is the mean leaf value.
type Forest struct {
	NumFeatures int    `json:"num_features"`
	Trees       []Tree `json:"trees"`
}

// FitForest fits cfg.Trees bootstrap trees in parallel. Tree i draws from its own
// generator seeded from cfg.Seed, so the result does not depend on scheduling.
func FitForest(ctx context.Context, d *Dataset, cfg ForestConfig) (*Forest, error) {
	if d.Len() == 0 {
		return nil, fmt.Errorf("fitting forest: empty dataset")
	}
	if cfg.Trees <= 0 {
		return nil, fmt.Errorf("fitting forest: tree count must be positive")
	}
	numFeatures := len(d.X[0])
	params := treeParams{
		maxDepth:        cfg.MaxDepth,
		minSamplesSplit: max(cfg.MinSamplesSplit, 2),
		maxFeatures:     cfg.MaxFeatures,
	}
	if params.maxFeatures <= 0 || params.maxFeatures > numFeatures {
		params.maxFeatures = max(1, int(math.Sqrt(float64(numFeatures))))
	}
	labels := d.Labels()

	forest := &Forest{NumFeatures: numFeatures, Trees: make([]Tree, cfg.Trees)}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))
	for i := range forest.Trees {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(cfg.Seed + int64(i)*7919))
			sample := make([]int, d.Len())
			for j := range sample {
				sample[j] = rng.Intn(d.Len())
			}
			forest.Trees[i] = growTree(d.X, labels, sample, params, rng)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fitting forest: %w", err)
	}
	return forest, nil
}

func (f *Forest) PredictProba(x []float64) (float64, error) {
	if len(x) != f.NumFeatures {
		return 0, fmt.Errorf("forest expects %d features, got %d", f.NumFeatures, len(x))
	}
	if len(f.Trees) == 0 {
		return 0, fmt.Errorf("forest has no trees")
	}
	sum := 0.0
	for i := range f.Trees {
		sum += f.Trees[i].Predict(x)
	}
	return sum / float64(len(f.Trees)), nil
}

func (f *Forest) validate() error {
	if f.NumFeatures <= 0 || len(f.Trees) == 0 {
		return fmt.Errorf("forest is empty")
	}
	for i := range f.Trees {
		if !f.Trees[i].valid(f.NumFeatures) {
			return fmt.Errorf("tree %d is malformed", i)
		}
	}
	return nil
}
