package nnet

import (
	"math"
	"math/rand"
)

// network is a single-hidden-layer regression perceptron with tanh
// activation and a linear output unit, trained by full-batch gradient
// descent on standardized inputs and target.
type network struct {
	inputs int
	hidden int

	w1 [][]float64 // hidden x inputs
	b1 []float64   // hidden
	w2 []float64   // hidden
	b2 float64
}

func newNetwork(inputs, hidden int, rng *rand.Rand) *network {
	n := &network{
		inputs: inputs,
		hidden: hidden,
		w1:     make([][]float64, hidden),
		b1:     make([]float64, hidden),
		w2:     make([]float64, hidden),
	}
	scale := 1 / math.Sqrt(float64(inputs))
	for h := 0; h < hidden; h++ {
		n.w1[h] = make([]float64, inputs)
		for i := range n.w1[h] {
			n.w1[h][i] = (rng.Float64()*2 - 1) * scale
		}
		n.w2[h] = (rng.Float64()*2 - 1) * scale
	}
	return n
}

// predict runs a forward pass for one input row.
func (n *network) predict(x []float64) float64 {
	out := n.b2
	for h := 0; h < n.hidden; h++ {
		sum := n.b1[h]
		for i, v := range x {
			sum += n.w1[h][i] * v
		}
		out += n.w2[h] * math.Tanh(sum)
	}
	return out
}

// train runs epochs of full-batch gradient descent minimizing squared error.
func (n *network) train(x [][]float64, y []float64, epochs int, lr float64) {
	if len(x) == 0 {
		return
	}
	nf := float64(len(x))

	hiddenOut := make([]float64, n.hidden)
	gw1 := make([][]float64, n.hidden)
	for h := range gw1 {
		gw1[h] = make([]float64, n.inputs)
	}
	gb1 := make([]float64, n.hidden)
	gw2 := make([]float64, n.hidden)

	for epoch := 0; epoch < epochs; epoch++ {
		for h := range gw1 {
			for i := range gw1[h] {
				gw1[h][i] = 0
			}
			gb1[h] = 0
			gw2[h] = 0
		}
		gb2 := 0.0

		for r, row := range x {
			out := n.b2
			for h := 0; h < n.hidden; h++ {
				sum := n.b1[h]
				for i, v := range row {
					sum += n.w1[h][i] * v
				}
				hiddenOut[h] = math.Tanh(sum)
				out += n.w2[h] * hiddenOut[h]
			}

			errOut := out - y[r]
			gb2 += errOut
			for h := 0; h < n.hidden; h++ {
				gw2[h] += errOut * hiddenOut[h]
				// Backprop through tanh: d/ds tanh(s) = 1 - tanh(s)^2.
				delta := errOut * n.w2[h] * (1 - hiddenOut[h]*hiddenOut[h])
				gb1[h] += delta
				for i, v := range row {
					gw1[h][i] += delta * v
				}
			}
		}

		step := lr / nf
		n.b2 -= step * gb2
		for h := 0; h < n.hidden; h++ {
			n.w2[h] -= step * gw2[h]
			n.b1[h] -= step * gb1[h]
			for i := range n.w1[h] {
				n.w1[h][i] -= step * gw1[h][i]
			}
		}
	}
}
