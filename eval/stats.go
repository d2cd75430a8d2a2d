package eval

import "math"

// z95 is the normal quantile for a two-sided 95% interval.
const z95 = 1.959963984540054

// Interval is a closed confidence or observation interval.
type Interval struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// wilson computes the 95% Wilson score interval for hits successes out
// of n Bernoulli trials. Unlike the normal approximation it stays inside
// [0, 1] and behaves at proportions near the edges.
func wilson(hits, n int) Interval {
	if n == 0 {
		return Interval{}
	}
	p := float64(hits) / float64(n)
	nf := float64(n)
	z2 := z95 * z95

	denom := 1 + z2/nf
	center := (p + z2/(2*nf)) / denom
	margin := z95 * math.Sqrt(p*(1-p)/nf+z2/(4*nf*nf)) / denom

	return Interval{
		Low:  math.Max(0, center-margin),
		High: math.Min(1, center+margin),
	}
}

// meanStddev returns the sample mean and sample standard deviation
// (n-1 denominator) of the values.
func meanStddev(values []float64) (mean, stddev float64) {
	n := float64(len(values))
	if n == 0 {
		return 0, 0
	}
	for _, v := range values {
		mean += v
	}
	mean /= n
	if n < 2 {
		return mean, 0
	}
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / (n - 1))
}

// bounds returns the observed minimum and maximum.
func bounds(values []float64) Interval {
	if len(values) == 0 {
		return Interval{}
	}
	iv := Interval{Low: values[0], High: values[0]}
	for _, v := range values[1:] {
		iv.Low = math.Min(iv.Low, v)
		iv.High = math.Max(iv.High, v)
	}
	return iv
}
