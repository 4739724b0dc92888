// Package predictors provides predictor implementations used to
// exercise the evaluation engine.
package predictors

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/palcode/ELL/internal/domain"
	"github.com/palcode/ELL/internal/ports"
)

// Compile-time verification that LinearPredictor satisfies the
// predictor contract and the printable convention.
var (
	_ ports.Predictor = (*LinearPredictor)(nil)
	_ ports.Printable = (*LinearPredictor)(nil)
)

// LinearPredictor computes the affine map w·x + b over a feature
// vector. It is immutable after construction and therefore a pure
// function of its input, as the evaluation engine requires.
type LinearPredictor struct {
	weights domain.FeatureVector
	bias    float64
}

// NewLinearPredictor creates a predictor with the given weight vector
// and bias. The weights are copied; an empty weight vector is rejected.
func NewLinearPredictor(weights []float64, bias float64) (*LinearPredictor, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("linear predictor requires at least one weight")
	}
	return &LinearPredictor{
		weights: domain.FeatureVector(weights).Clone(),
		bias:    bias,
	}, nil
}

// Dimension returns the expected feature vector length.
func (lp *LinearPredictor) Dimension() int { return len(lp.weights) }

// Predict returns w·x + b. It fails when the feature vector's length
// does not match the predictor's dimension.
func (lp *LinearPredictor) Predict(features domain.FeatureVector) (float64, error) {
	if len(features) != len(lp.weights) {
		return 0, fmt.Errorf("feature dimension mismatch: got %d, want %d",
			len(features), len(lp.weights))
	}
	sum := lp.bias
	for i, w := range lp.weights {
		sum += w * features[i]
	}
	return sum, nil
}

// Print writes the predictor's weights and bias in fixed decimal
// notation.
func (lp *LinearPredictor) Print(w io.Writer) error {
	cols := make([]string, 0, len(lp.weights)+1)
	for _, wi := range lp.weights {
		cols = append(cols, strconv.FormatFloat(wi, 'f', -1, 64))
	}
	cols = append(cols, "b="+strconv.FormatFloat(lp.bias, 'f', -1, 64))
	_, err := fmt.Fprintln(w, strings.Join(cols, "\t"))
	return err
}
