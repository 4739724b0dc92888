// Package testutils provides utilities for testing, including synthetic
// dataset generators and stub collaborators. These components are
// intended for internal use within the project's test suites and the
// demo command, and are not part of the public API.
package testutils

import (
	"math/rand"

	"github.com/palcode/ELL/internal/domain"
)

// GenerateLinearDataset creates examples whose labels follow the affine
// relation label = weights·features + bias plus Gaussian noise. The
// seed parameter controls randomization - use a fixed value for
// reproducible tests.
func GenerateLinearDataset(size int, weights []float64, bias, noise float64, seed int64) []domain.Example {
	rng := rand.New(rand.NewSource(seed))

	examples := make([]domain.Example, 0, size)
	for range size {
		features := make(domain.FeatureVector, len(weights))
		label := bias
		for i, w := range weights {
			features[i] = rng.NormFloat64()
			label += w * features[i]
		}
		label += noise * rng.NormFloat64()

		examples = append(examples, domain.Example{
			Features: features,
			Label:    label,
			Weight:   1,
		})
	}
	return examples
}

// GenerateBinaryDataset creates examples with a single feature and a
// ±1 label that matches the feature's sign with the given accuracy.
// Weights are uniform in (0, 2) to exercise weighted statistics.
func GenerateBinaryDataset(size int, accuracy float64, seed int64) []domain.Example {
	rng := rand.New(rand.NewSource(seed))

	examples := make([]domain.Example, 0, size)
	for range size {
		feature := rng.NormFloat64()
		label := 1.0
		if feature <= 0 {
			label = -1.0
		}
		if rng.Float64() > accuracy {
			label = -label
		}

		examples = append(examples, domain.Example{
			Features: domain.FeatureVector{feature},
			Label:    label,
			Weight:   2 * rng.Float64(),
		})
	}
	return examples
}
