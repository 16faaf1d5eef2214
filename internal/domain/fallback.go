package domain

// FirstSet returns the value of the first non-nil pointer, or fallback.
// Response fields the service renamed between versions are read in order
// of preference this way.
func FirstSet(fallback float64, ptrs ...*float64) float64 {
	for _, p := range ptrs {
		if p != nil {
			return *p
		}
	}
	return fallback
}
