package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/palcode/ELL/infrastructure/aggregators"
	"github.com/palcode/ELL/infrastructure/middleware"
	"github.com/palcode/ELL/infrastructure/predictors"
	"github.com/palcode/ELL/internal/application"
	"github.com/palcode/ELL/internal/domain"
	"github.com/palcode/ELL/internal/evaluation"
	"github.com/palcode/ELL/internal/ports"
	"github.com/palcode/ELL/internal/testutils"
)

func main() {
	var (
		configPath = flag.String("config", "", "Optional evaluator YAML configuration")
		size       = flag.Int("size", 200, "Number of synthetic examples")
		steps      = flag.Int("steps", 20, "Number of simulated training steps")
		frequency  = flag.Uint64("frequency", 2, "Evaluation frequency when no config is given")
		seed       = flag.Int64("seed", 42, "Random seed for dataset generation")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	// Synthetic held-out set following a known linear relation.
	truth := []float64{1.5, -2.0, 0.5}
	examples := testutils.GenerateLinearDataset(*size, truth, 0.25, 0.1, *seed)

	evaluator, err := buildEvaluator(*configPath, *frequency, examples)
	if err != nil {
		log.Fatalf("Failed to build evaluator: %v", err)
	}
	evaluator = middleware.NewLoggingEvaluator(evaluator, logger, "holdout")

	// Simulate training by walking predictor snapshots from zero toward
	// the true weights.
	denom := float64(max(*steps-1, 1))
	for step := 0; step < *steps; step++ {
		progress := float64(step) / denom
		weights := make([]float64, len(truth))
		for i, w := range truth {
			weights[i] = progress * w
		}
		predictor, err := predictors.NewLinearPredictor(weights, progress*0.25)
		if err != nil {
			log.Fatalf("Failed to build predictor: %v", err)
		}

		if err := evaluator.Evaluate(predictor); err != nil {
			log.Fatalf("Evaluation failed at step %d: %v", step, err)
		}
	}

	goodness, err := evaluator.GetGoodness()
	if err != nil {
		log.Fatalf("No evaluations recorded: %v", err)
	}

	fmt.Printf("Final goodness: %.6f\n\n", goodness)
	if err := evaluator.Print(os.Stdout); err != nil {
		log.Fatalf("Failed to print history: %v", err)
	}
}

// buildEvaluator assembles the evaluator either from a YAML
// configuration file or from a default aggregator set.
func buildEvaluator(configPath string, frequency uint64, examples []domain.Example) (ports.Evaluator, error) {
	iter := domain.NewSliceIterator(examples)

	if configPath != "" {
		registry := application.NewDefaultAggregatorRegistry()
		loader, err := application.NewEvaluationLoader(registry)
		if err != nil {
			return nil, err
		}
		config, err := loader.LoadFromFile(context.Background(), configPath)
		if err != nil {
			return nil, err
		}
		return loader.Build(config, iter)
	}

	mse, err := aggregators.NewLossAggregator("mse", aggregators.DefaultLossConfig())
	if err != nil {
		return nil, err
	}
	mae, err := aggregators.NewLossAggregator("mae", aggregators.LossConfig{
		Kind:      aggregators.LossAbsolute,
		ValueName: "mae",
	})
	if err != nil {
		return nil, err
	}

	params := evaluation.Parameters{
		EvaluationFrequency: frequency,
		AddZeroEvaluation:   true,
	}
	return evaluation.NewEvaluator(iter, params, mse, mae)
}
