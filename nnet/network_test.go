package nnet

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetworkTrainReducesError(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	// Standardized linear target, the easy case for a tanh regressor.
	x := make([][]float64, 40)
	y := make([]float64, 40)
	for i := range x {
		v := rng.Float64()*2 - 1
		x[i] = []float64{v}
		y[i] = 0.8 * v
	}

	net := newNetwork(1, 4, rng)

	sse := func() float64 {
		total := 0.0
		for i, row := range x {
			d := net.predict(row) - y[i]
			total += d * d
		}
		return total
	}

	before := sse()
	net.train(x, y, 500, 0.2)
	after := sse()

	require.Less(t, after, before)
	assert.Less(t, after, 0.5*before)
}

func TestNetworkInitIsSeeded(t *testing.T) {
	a := newNetwork(3, 4, rand.New(rand.NewSource(8)))
	b := newNetwork(3, 4, rand.New(rand.NewSource(8)))
	c := newNetwork(3, 4, rand.New(rand.NewSource(9)))

	assert.Equal(t, a.w1, b.w1)
	assert.Equal(t, a.w2, b.w2)
	assert.NotEqual(t, a.w1, c.w1)
}

func TestNetworkTrainEmptyInput(t *testing.T) {
	net := newNetwork(2, 3, rand.New(rand.NewSource(1)))
	w2 := append([]float64(nil), net.w2...)

	net.train(nil, nil, 10, 0.1)
	assert.Equal(t, w2, net.w2)
}
