package storage

import (
	"fmt"
	"strconv"
)

// MaxListCap is the absolute upper bound on blob listing page sizes.
const MaxListCap int32 = 5000

// ParseMaxResults parses a max-results query value, returning the fallback
// when empty. Values above MaxListCap are clamped; zero and negative values
// are rejected.
func ParseMaxResults(value string, fallback int32) (int32, error) {
	if value == "" {
		return fallback, nil
	}

	n, err := strconv.ParseInt(value, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid max_results %q: %w", value, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("max_results must be positive, got %d", n)
	}

	return min(int32(n), MaxListCap), nil
}
