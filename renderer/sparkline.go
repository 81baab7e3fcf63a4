package renderer

import (
	"slices"
	"strings"
)

var bars = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws series with block characters, resampled to at most width
// characters by averaging consecutive samples.
func Sparkline(series []float64, width int) string {
	if len(series) == 0 || width <= 0 {
		return ""
	}
	if len(series) > width {
		series = resample(series, width)
	}

	lo, hi := slices.Min(series), slices.Max(series)
	var b strings.Builder
	for _, v := range series {
		i := 0
		if hi > lo {
			i = int((v-lo)/(hi-lo)*float64(len(bars)-1) + 0.5)
		}
		b.WriteRune(bars[i])
	}
	return b.String()
}

// resample returns width averages of consecutive buckets of series.
func resample(series []float64, width int) []float64 {
	n := len(series)
	res := make([]float64, width)
	for i := range res {
		start, end := i*n/width, (i+1)*n/width
		sum := 0.0
		for _, v := range series[start:end] {
			sum += v
		}
		res[i] = sum / float64(end-start)
	}
	return res
}
