package blend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPERT(t *testing.T) {
	optimistic := []float64{100, 200}
	mostLikely := []float64{110, 190}
	pessimistic := []float64{90, 180}

	got, err := PERT(optimistic, mostLikely, pessimistic)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{105, 190}, got, 1e-12)
}

func TestPERTWeightsMostLikely(t *testing.T) {
	got, err := PERT([]float64{0}, []float64{6}, []float64{0})
	require.NoError(t, err)
	// (0 + 4*6 + 0) / 6
	assert.InDelta(t, 4.0, got[0], 1e-12)
}

func TestPERTDoesNotMutateInputs(t *testing.T) {
	mostLikely := []float64{10, 20}
	_, err := PERT([]float64{1, 2}, mostLikely, []float64{3, 4})
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20}, mostLikely)
}

func TestPERTLengthMismatch(t *testing.T) {
	_, err := PERT([]float64{1, 2}, []float64{1, 2, 3}, []float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = PERT([]float64{1, 2}, []float64{1, 2}, []float64{1})
	assert.ErrorIs(t, err, ErrLengthMismatch)
}
