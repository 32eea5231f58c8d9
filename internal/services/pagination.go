package services

import "golang.org/x/exp/constraints"

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

func clamp[T constraints.Integer](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Page normalizes offset pagination: negative skips start at zero, a
// missing limit uses the default and large limits are capped.
func Page(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		return skip, DefaultLimit
	}
	return skip, clamp(limit, 1, MaxLimit)
}
