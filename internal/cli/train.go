package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/alexanderramin/buildflow/internal/cli/formatter"
	"github.com/alexanderramin/buildflow/internal/ml"
	"github.com/spf13/cobra"
)

const (
	syntheticRows = 500
	syntheticSeed = 123
)

func newTrainCmd(app *App) *cobra.Command {
	var csvPath, dataset, kind, out string
	var trees int
	var seed int64

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the delay model and write its artifact",
		Long: `Train the delay classifier.

The dataset is read from --csv when that file exists, otherwise it is
generated (--dataset synthetic or construction).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := ml.ParseKind(kind)
			if err != nil {
				return err
			}
			d, source, err := loadDataset(csvPath, dataset)
			if err != nil {
				return err
			}

			cfg := ml.DefaultTrainConfig()
			cfg.Kind = k
			cfg.Seed = seed
			cfg.Forest.Trees = trees
			cfg.Forest.Seed = seed

			printf(cmd, "Training %s on %s (%d rows)...\n", k, source, d.Len())
			a, err := ml.TrainAndSave(cmd.Context(), d, cfg, out, time.Now().UTC())
			if err != nil {
				return fmt.Errorf("training model: %w", err)
			}
			printf(cmd, "%s\n", formatter.FormatTrainReport(out, a))
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", app.Config.Train.CSV, "Training CSV (used when the file exists)")
	cmd.Flags().StringVar(&dataset, "dataset", "synthetic", "Generated dataset when no CSV (synthetic|construction)")
	cmd.Flags().StringVar(&kind, "kind", string(ml.KindForest), "Model kind (random_forest|linear)")
	cmd.Flags().IntVar(&trees, "trees", app.Config.Train.Trees, "Number of trees in the forest")
	cmd.Flags().Int64Var(&seed, "seed", app.Config.Train.Seed, "Random seed for the split and the forest")
	cmd.Flags().StringVar(&out, "out", app.Config.Model.Path, "Artifact output path")

	return cmd
}

func loadDataset(csvPath, dataset string) (*ml.Dataset, string, error) {
	if csvPath != "" {
		_, err := os.Stat(csvPath)
		switch {
		case err == nil:
			d, err := ml.LoadCSV(csvPath)
			if err != nil {
				return nil, "", err
			}
			return d, csvPath, nil
		case !errors.Is(err, os.ErrNotExist):
			return nil, "", fmt.Errorf("checking dataset: %w", err)
		}
	}
	switch dataset {
	case "synthetic":
		return ml.SyntheticDataset(syntheticRows, syntheticSeed), "synthetic data", nil
	case "construction":
		return ml.ConstructionDataset(syntheticRows, syntheticSeed), "construction data", nil
	}
	return nil, "", fmt.Errorf("unknown dataset %q (want synthetic or construction)", dataset)
}
