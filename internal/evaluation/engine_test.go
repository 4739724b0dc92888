package evaluation

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palcode/ELL/internal/domain"
	"github.com/palcode/ELL/internal/ports"
	"github.com/palcode/ELL/internal/testutils"
)

// threeRows is a small dataset whose label equals the first feature.
func threeRows() []domain.Example {
	return []domain.Example{
		{Features: domain.FeatureVector{1.0}, Label: 1.0, Weight: 1},
		{Features: domain.FeatureVector{-2.0}, Label: -2.0, Weight: 1},
		{Features: domain.FeatureVector{0.5}, Label: 0.5, Weight: 2},
	}
}

// firstFeature predicts the first feature of the example, which for
// threeRows reproduces the label exactly.
var firstFeature = ports.PredictorFunc(func(features domain.FeatureVector) (float64, error) {
	return features[0], nil
})

// meanSquaredError is a minimal inline aggregator for end-to-end tests.
type meanSquaredError struct {
	sumLoss   float64
	sumWeight float64
}

func (m *meanSquaredError) Reset() { m.sumLoss, m.sumWeight = 0, 0 }

func (m *meanSquaredError) Update(prediction, label, weight float64) error {
	diff := prediction - label
	m.sumLoss += weight * diff * diff
	m.sumWeight += weight
	return nil
}

func (m *meanSquaredError) GetValue() []float64 {
	if m.sumWeight == 0 {
		return []float64{0}
	}
	return []float64{m.sumLoss / m.sumWeight}
}

func (m *meanSquaredError) GetValueNames() []string { return []string{"mse"} }

func TestNewEngine_RejectsInvalidConfiguration(t *testing.T) {
	tests := []struct {
		name        string
		params      Parameters
		aggregators []ports.Aggregator
	}{
		{
			name:        "zero evaluation frequency",
			params:      Parameters{EvaluationFrequency: 0},
			aggregators: []ports.Aggregator{&meanSquaredError{}},
		},
		{
			name:   "value count disagrees with name count",
			params: Parameters{EvaluationFrequency: 1},
			aggregators: []ports.Aggregator{
				&testutils.StubAggregator{
					Names:   []string{"a", "b"},
					ValueFn: func([][3]float64) []float64 { return []float64{1} },
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iter := domain.NewSliceIterator(threeRows())
			engine, err := NewEngine(iter, tt.params, tt.aggregators...)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
			assert.Nil(t, engine)
		})
	}
}

func TestEngine_EvaluationFrequencySchedule(t *testing.T) {
	tests := []struct {
		name          string
		frequency     uint64
		calls         int
		wantEntries   int
		addZero       bool
		wantFirstZero bool
	}{
		{name: "every call", frequency: 1, calls: 7, wantEntries: 7},
		{name: "every second call", frequency: 2, calls: 7, wantEntries: 4},
		{name: "every third call", frequency: 3, calls: 7, wantEntries: 3},
		{name: "frequency larger than call count", frequency: 10, calls: 7, wantEntries: 1},
		{
			name: "zero entry does not count toward the schedule",
			frequency: 3, calls: 7, wantEntries: 4,
			addZero: true, wantFirstZero: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iter := domain.NewSliceIterator(threeRows())
			params := Parameters{
				EvaluationFrequency: tt.frequency,
				AddZeroEvaluation:   tt.addZero,
			}
			engine, err := NewEngine(iter, params, &meanSquaredError{})
			require.NoError(t, err)

			for i := 0; i < tt.calls; i++ {
				require.NoError(t, engine.Evaluate(firstFeature))
			}

			assert.Equal(t, tt.wantEntries, engine.Len())
			if tt.wantFirstZero {
				assert.Equal(t, []float64{0}, engine.GetValues()[0][0])
			}
		})
	}
}

func TestEngine_AddZeroEvaluationInsertsBaselineOnce(t *testing.T) {
	iter := domain.NewSliceIterator(threeRows())
	params := Parameters{EvaluationFrequency: 1, AddZeroEvaluation: true}
	engine, err := NewEngine(iter, params, &meanSquaredError{})
	require.NoError(t, err)

	// The baseline appears before the first real entry and only once.
	require.NoError(t, engine.Evaluate(firstFeature))
	require.NoError(t, engine.Evaluate(firstFeature))

	values := engine.GetValues()
	require.Len(t, values, 3)
	assert.Equal(t, []float64{0}, values[0][0])
}

func TestEngine_ExactPredictorYieldsZeroMSE(t *testing.T) {
	iter := domain.NewSliceIterator(threeRows())
	engine, err := NewEngine(iter, DefaultParameters(), &meanSquaredError{})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, engine.Evaluate(firstFeature))
	}

	values := engine.GetValues()
	require.Len(t, values, 3)
	for _, entry := range values {
		assert.Equal(t, 0.0, entry[0][0])
	}
}

func TestEngine_EntryShapeMatchesValueNames(t *testing.T) {
	iter := domain.NewSliceIterator(threeRows())
	aggs := []ports.Aggregator{
		&meanSquaredError{},
		&testutils.StubAggregator{Names: []string{"a", "b", "c"}},
	}
	engine, err := NewEngine(iter, DefaultParameters(), aggs...)
	require.NoError(t, err)

	require.NoError(t, engine.Evaluate(firstFeature))

	names := engine.GetValueNames()
	for _, entry := range engine.GetValues() {
		require.Len(t, entry, len(names))
		for aggIdx, values := range entry {
			assert.Len(t, values, len(names[aggIdx]))
		}
	}
}

func TestEngine_GetGoodnessBeforeAnyEvaluation(t *testing.T) {
	iter := domain.NewSliceIterator(threeRows())
	engine, err := NewEngine(iter, DefaultParameters(), &meanSquaredError{})
	require.NoError(t, err)

	_, err = engine.GetGoodness()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestEngine_GetGoodnessReturnsFirstValueOfFirstAggregator(t *testing.T) {
	iter := domain.NewSliceIterator(threeRows())
	stub := &testutils.StubAggregator{
		Names:   []string{"x", "y"},
		ValueFn: func([][3]float64) []float64 { return []float64{0.75, 0.25} },
	}
	engine, err := NewEngine(iter, DefaultParameters(), stub, &meanSquaredError{})
	require.NoError(t, err)

	require.NoError(t, engine.Evaluate(firstFeature))

	goodness, err := engine.GetGoodness()
	require.NoError(t, err)
	assert.Equal(t, 0.75, goodness)
}

func TestEngine_PrintRendersHeaderAndEntries(t *testing.T) {
	iter := domain.NewSliceIterator(threeRows())
	stub := &testutils.StubAggregator{
		Names:   []string{"loss"},
		ValueFn: func([][3]float64) []float64 { return []float64{0.5} },
	}
	engine, err := NewEngine(iter, DefaultParameters(), stub)
	require.NoError(t, err)

	require.NoError(t, engine.Evaluate(firstFeature))

	var buf bytes.Buffer
	require.NoError(t, engine.Print(&buf))
	assert.Equal(t, "loss\n0.5\n", buf.String())
}

func TestEngine_PrintFlattensMultipleAggregators(t *testing.T) {
	iter := domain.NewSliceIterator(threeRows())
	first := &testutils.StubAggregator{
		Names:   []string{"a", "b"},
		ValueFn: func([][3]float64) []float64 { return []float64{1, 2.5} },
	}
	second := &testutils.StubAggregator{
		Names:   []string{"c"},
		ValueFn: func([][3]float64) []float64 { return []float64{-3} },
	}
	engine, err := NewEngine(iter, DefaultParameters(), first, second)
	require.NoError(t, err)

	require.NoError(t, engine.Evaluate(firstFeature))

	var buf bytes.Buffer
	require.NoError(t, engine.Print(&buf))
	assert.Equal(t, "a\tb\tc\n1\t2.5\t-3\n", buf.String())
}

func TestEngine_InstancesAreIsolated(t *testing.T) {
	first := &testutils.StubAggregator{Names: []string{"v"}}
	second := &testutils.StubAggregator{Names: []string{"v"}}

	engineA, err := NewEngine(domain.NewSliceIterator(threeRows()), DefaultParameters(), first)
	require.NoError(t, err)
	engineB, err := NewEngine(domain.NewSliceIterator(threeRows()), DefaultParameters(), second)
	require.NoError(t, err)

	require.NoError(t, engineA.Evaluate(firstFeature))

	assert.Equal(t, 1, engineA.Len())
	assert.Equal(t, 0, engineB.Len())
	assert.Equal(t, 1, first.ResetCalls)
	assert.Zero(t, second.ResetCalls)
	assert.Empty(t, second.Updates)
}

func TestEngine_DispatchFollowsConstructionOrder(t *testing.T) {
	var order []string
	makeAgg := func(id string) ports.Aggregator {
		return &testutils.StubAggregator{
			Names: []string{id},
			ValueFn: func([][3]float64) []float64 {
				order = append(order, "value:"+id)
				return []float64{0}
			},
		}
	}

	// Construction probes GetValue once per aggregator to verify arity.
	engine, err := NewEngine(
		domain.NewSliceIterator(threeRows()[:1]),
		DefaultParameters(),
		makeAgg("a"), makeAgg("b"), makeAgg("c"),
	)
	require.NoError(t, err)

	order = nil
	require.NoError(t, engine.Evaluate(firstFeature))
	assert.Equal(t, []string{"value:a", "value:b", "value:c"}, order)
}

func TestEngine_PredictorErrorPropagatesUnmodified(t *testing.T) {
	predictorErr := errors.New("predictor exploded")
	failing := ports.PredictorFunc(func(domain.FeatureVector) (float64, error) {
		return 0, predictorErr
	})

	iter := domain.NewSliceIterator(threeRows())
	engine, err := NewEngine(iter, DefaultParameters(), &meanSquaredError{})
	require.NoError(t, err)

	err = engine.Evaluate(failing)
	require.Error(t, err)
	assert.Equal(t, predictorErr, err)
	assert.Zero(t, engine.Len())

	// Previously recorded history stays valid after a failed call.
	require.NoError(t, engine.Evaluate(firstFeature))
	require.Equal(t, 1, engine.Len())
	err = engine.Evaluate(failing)
	require.Error(t, err)
	assert.Equal(t, 1, engine.Len())
}

func TestEngine_AggregatorErrorPropagatesUnmodified(t *testing.T) {
	updateErr := fmt.Errorf("aggregator rejected sample")
	stub := &testutils.StubAggregator{
		Names:     []string{"v"},
		UpdateErr: updateErr,
	}

	iter := domain.NewSliceIterator(threeRows())
	engine, err := NewEngine(iter, DefaultParameters(), stub)
	require.NoError(t, err)

	err = engine.Evaluate(firstFeature)
	require.Error(t, err)
	assert.Equal(t, updateErr, err)
	assert.Zero(t, engine.Len())
}

func TestNewEvaluator_ReturnsTypeErasedHandle(t *testing.T) {
	iter := domain.NewSliceIterator(threeRows())
	evaluator, err := NewEvaluator(iter, DefaultParameters(), &meanSquaredError{})
	require.NoError(t, err)

	require.NoError(t, evaluator.Evaluate(firstFeature))
	goodness, err := evaluator.GetGoodness()
	require.NoError(t, err)
	assert.Equal(t, 0.0, goodness)
}
