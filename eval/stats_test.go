package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWilson(t *testing.T) {
	tests := []struct {
		name     string
		hits, n  int
		low, high float64
	}{
		{"eight of ten", 8, 10, 0.4902, 0.9433},
		{"zero of ten", 0, 10, 0.0, 0.2775},
		{"ten of ten", 10, 10, 0.7225, 1.0},
		{"half of one hundred", 50, 100, 0.4038, 0.5962},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv := wilson(tt.hits, tt.n)
			assert.InDelta(t, tt.low, iv.Low, 1e-3)
			assert.InDelta(t, tt.high, iv.High, 1e-3)
		})
	}
}

func TestWilson_EmptySample(t *testing.T) {
	assert.Equal(t, Interval{}, wilson(0, 0))
}

func TestMeanStddev(t *testing.T) {
	mean, stddev := meanStddev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 5.0, mean, 1e-9)
	assert.InDelta(t, 2.1381, stddev, 1e-3)

	mean, stddev = meanStddev([]float64{3})
	assert.Equal(t, 3.0, mean)
	assert.Zero(t, stddev)

	mean, stddev = meanStddev(nil)
	assert.Zero(t, mean)
	assert.Zero(t, stddev)
}

func TestBounds(t *testing.T) {
	assert.Equal(t, Interval{Low: -1, High: 8}, bounds([]float64{3, -1, 8, 0}))
	assert.Equal(t, Interval{}, bounds(nil))
}
