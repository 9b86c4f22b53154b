package main

// ewma tracks an exponentially weighted mean and variance of one signal, with decay
// constant decay per sample.
type ewma struct {
	decay             float64
	n, mean, variance float64 // effective number of samples, mean, variance
}

func newEWMA(init, decay float64) *ewma {
	return &ewma{decay: decay, n: 1, mean: init}
}

func (e *ewma) add(obs float64) {
	d := obs - e.mean
	dm := (1 - e.decay) * d

	e.n = 1 + e.decay*e.n
	e.mean += dm
	e.variance = e.decay * (e.variance + dm*d)
}
