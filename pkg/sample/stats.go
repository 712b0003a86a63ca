package sample

// ComputeStats returns mean, minimum and maximum of one full window buffer
// in a single pass. Min and max are seeded from the first value, not from
// extremal constants, so all-negative windows come out right.
//
// Skipped-scan placeholder cells are deliberately not excluded: a rare skip
// is acceptable noise in the statistics, and excluding it would change the
// divisor of the mean. The skipped count in the diagnostic record is the
// place to judge data quality.
func ComputeStats(values []float64) (mean, min, max float64) {
	sum := 0.0
	for i, v := range values {
		if i == 0 {
			min, max = v, v
		} else if v < min {
			min = v
		} else if v > max {
			max = v
		}
		sum += v
	}
	if len(values) > 0 {
		mean = sum / float64(len(values))
	}
	return mean, min, max
}
