package pagination

import (
	"errors"
	"net/url"
	"strconv"
)

// Page is an offset window over an ordered listing.
type Page struct {
	Skip  int
	Limit int
}

var (
	ErrInvalidSkip  = errors.New("skip must be a non-negative integer")
	ErrInvalidLimit = errors.New("limit must be a positive integer")
)

// ParseOffset reads skip and limit from query parameters. A missing limit
// becomes defaultLimit; limits above maxLimit are clamped when maxLimit is positive.
func ParseOffset(q url.Values, defaultLimit, maxLimit int) (Page, error) {
	page := Page{Limit: defaultLimit}

	if raw := q.Get("skip"); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil || skip < 0 {
			return Page{}, ErrInvalidSkip
		}
		page.Skip = skip
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return Page{}, ErrInvalidLimit
		}
		page.Limit = limit
	}

	if maxLimit > 0 && page.Limit > maxLimit {
		page.Limit = maxLimit
	}
	return page, nil
}
