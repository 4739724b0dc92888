package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_AppendValidatesShape(t *testing.T) {
	tests := []struct {
		name    string
		shape   []int
		entry   [][]float64
		wantErr bool
	}{
		{
			name:  "matching shape",
			shape: []int{1, 3},
			entry: [][]float64{{0.5}, {1, 2, 3}},
		},
		{
			name:    "wrong aggregator count",
			shape:   []int{1, 3},
			entry:   [][]float64{{0.5}},
			wantErr: true,
		},
		{
			name:    "wrong value count",
			shape:   []int{1, 3},
			entry:   [][]float64{{0.5}, {1, 2}},
			wantErr: true,
		},
		{
			name:  "empty shape accepts empty entry",
			shape: []int{},
			entry: [][]float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHistory(tt.shape)
			err := h.Append(tt.entry)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrShapeMismatch)
				assert.Zero(t, h.Len())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, h.Len())
		})
	}
}

func TestHistory_AppendCopiesEntries(t *testing.T) {
	h := NewHistory([]int{2})
	entry := [][]float64{{1, 2}}
	require.NoError(t, h.Append(entry))

	entry[0][0] = 99
	assert.Equal(t, 1.0, h.Entries()[0][0][0])
}

func TestHistory_ZeroMatchesShape(t *testing.T) {
	h := NewHistory([]int{1, 4, 2})
	zero := h.Zero()

	require.Len(t, zero, 3)
	assert.Equal(t, []float64{0}, zero[0])
	assert.Equal(t, []float64{0, 0, 0, 0}, zero[1])
	assert.Equal(t, []float64{0, 0}, zero[2])

	require.NoError(t, h.Append(zero))
}

func TestHistory_LastTracksAppendOrder(t *testing.T) {
	h := NewHistory([]int{1})

	_, ok := h.Last()
	assert.False(t, ok)

	require.NoError(t, h.Append([][]float64{{1}}))
	require.NoError(t, h.Append([][]float64{{2}}))

	last, ok := h.Last()
	require.True(t, ok)
	assert.Equal(t, 2.0, last[0][0])
	assert.Equal(t, 2, h.Len())
}
