package estimate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
)

// Classifier predicts the positive-class (delayed) probability for one input row.
type Classifier interface {
	PredictProba(x []float64) (float64, error)
}

// LoadFunc reads a classifier artifact from path.
type LoadFunc func(path string) (Classifier, error)

// ModelLoader hands out the process-wide classifier.
type ModelLoader interface {
	GetOrLoad() (Classifier, error)
}

// ModelCache lazily loads the artifact on first use and keeps it for the process
// lifetime. Failed loads are not cached, so an artifact deployed later is picked up
// by the next request. A retrained artifact replacing a loaded one needs a restart.
type ModelCache struct {
	path string
	load LoadFunc

	mu    sync.Mutex
	model Classifier
	loads int
}

func NewModelCache(path string, load LoadFunc) *ModelCache {
	return &ModelCache{path: path, load: load}
}

func (c *ModelCache) GetOrLoad() (Classifier, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.model != nil {
		return c.model, nil
	}
	if c.path == "" || c.load == nil {
		return nil, fmt.Errorf("%w: no model path configured", ErrModelUnavailable)
	}
	if _, err := os.Stat(c.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrModelUnavailable, c.path)
		}
		return nil, fmt.Errorf("%w: checking %s: %v", ErrModelUnavailable, c.path, err)
	}

	c.loads++
	model, err := c.load(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrModelUnavailable, c.path)
		}
		return nil, fmt.Errorf("%w: loading %s: %v", ErrPrediction, c.path, err)
	}
	if model == nil {
		return nil, fmt.Errorf("%w: loader returned no model for %s", ErrPrediction, c.path)
	}
	c.model = model
	return model, nil
}

// Path returns the configured artifact location.
func (c *ModelCache) Path() string {
	return c.path
}

// Loads reports how many times the artifact was read from disk.
func (c *ModelCache) Loads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loads
}
