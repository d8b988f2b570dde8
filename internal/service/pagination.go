package service

// Page size bounds shared by every paginated read.
const (
	DefaultPageSize = 10
	MaxPageSize     = 50

	DefaultMutualLimit = 10
	MaxMutualLimit     = 50
)

// normalizePage clamps page to >= 1 and limit to [1, MaxPageSize],
// substituting DefaultPageSize for a missing limit.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

func clampLimit(limit, def, max int) int {
	if limit < 1 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
