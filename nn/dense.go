package nn

// runLayer evaluates one dense layer over the working input buffer and copies
// its outputs back into the input buffer for the next layer.
//
//	output[j] = tanh(bias[j] + Σ_k input[k] * weight[j*prevSize+k])
func (n *Network) runLayer(l *Layer) {
	for j := 0; j < l.Size; j++ {
		sum := float64(n.table[l.Biases[j]])
		row := l.Weights[j*l.PrevSize : (j+1)*l.PrevSize]
		for k, w := range row {
			sum += float64(n.inputs[k]) * float64(n.table[w])
		}
		n.outputs[j] = activate(sum)
	}

	copy(n.inputs, n.outputs)
}
