package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/alexanderramin/buildflow/internal/estimate"
)

const (
	ArtifactFormat  = "buildflow-model"
	ArtifactVersion = 1
)

type Kind string

const (
	KindForest Kind = "random_forest"
	KindLinear Kind = "linear"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindForest, KindLinear:
		return k, nil
	}
	return "", fmt.Errorf("unknown model kind %q (want %s or %s)", s, KindForest, KindLinear)
}

var ErrBadArtifact = errors.New("invalid model artifact")

// Artifact is the persisted classifier. Exactly one of Forest or Linear is set, matching Kind.
type Artifact struct {
	Format    string    `json:"format"`
	Version   int       `json:"version"`
	Kind      Kind      `json:"kind"`
	Features  []string  `json:"features"`
	Forest    *Forest   `json:"forest,omitempty"`
	Linear    *Linear   `json:"linear,omitempty"`
	Metrics   Metrics   `json:"metrics"`
	TrainedAt time.Time `json:"trained_at"`
}

func (a *Artifact) Validate() error {
	if a.Format != ArtifactFormat {
		return fmt.Errorf("%w: format %q", ErrBadArtifact, a.Format)
	}
	if a.Version != ArtifactVersion {
		return fmt.Errorf("%w: version %d", ErrBadArtifact, a.Version)
	}
	if !slices.Equal(a.Features, FeatureNames) {
		return fmt.Errorf("%w: features %v, serving order is %v", ErrBadArtifact, a.Features, FeatureNames)
	}
	switch a.Kind {
	case KindForest:
		if a.Forest == nil {
			return fmt.Errorf("%w: forest kind without forest", ErrBadArtifact)
		}
		if err := a.Forest.validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrBadArtifact, err)
		}
		if a.Forest.NumFeatures != len(FeatureNames) {
			return fmt.Errorf("%w: forest trained on %d features", ErrBadArtifact, a.Forest.NumFeatures)
		}
	case KindLinear:
		if a.Linear == nil || len(a.Linear.Coefficients) != len(FeatureNames) {
			return fmt.Errorf("%w: linear kind without %d coefficients", ErrBadArtifact, len(FeatureNames))
		}
	default:
		return fmt.Errorf("%w: kind %q", ErrBadArtifact, a.Kind)
	}
	return nil
}

func (a *Artifact) PredictProba(x []float64) (float64, error) {
	switch a.Kind {
	case KindForest:
		return a.Forest.PredictProba(x)
	case KindLinear:
		return a.Linear.PredictProba(x)
	}
	return 0, fmt.Errorf("%w: kind %q", ErrBadArtifact, a.Kind)
}

// SaveArtifact writes a to path through a temp file so readers never see a partial artifact.
func SaveArtifact(path string, a *Artifact) error {
	if err := a.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encoding artifact: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating model directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".buildflow-model-*")
	if err != nil {
		return fmt.Errorf("creating temp artifact: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("installing artifact: %w", err)
	}
	return nil
}

// LoadArtifact reads and validates the artifact at path. A missing file keeps
// its fs.ErrNotExist so the model cache reports it as unavailable.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading artifact: %w", err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadArtifact, err)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// LoadClassifier adapts LoadArtifact to estimate.LoadFunc.
func LoadClassifier(path string) (estimate.Classifier, error) {
	a, err := LoadArtifact(path)
	if err != nil {
		return nil, err
	}
	return a, nil
}
