package domain

// percentage returns 100*part/total, or 0 when total is 0.
func percentage(part, total int) float64 {
	if total <= 0 {
		return 0.0
	}

	return float64(part) / float64(total) * 100
}
