package domain

import "errors"

var (
	// ErrInvalidQuery means the raw query failed validation before any quota
	// was consumed.
	ErrInvalidQuery = errors.New("query failed validation")
	// ErrRateLimited means the client just exceeded the request threshold and
	// was promoted to a temporary block.
	ErrRateLimited = errors.New("client exceeded the rate limit")
	// ErrBlocked means the client is still serving a temporary block.
	ErrBlocked = errors.New("identifier is blocked")
	// ErrQueryAbused means the query itself exceeded the system-wide cap.
	ErrQueryAbused = errors.New("query exceeded the abuse threshold")
	// ErrNotFound signals an unknown catalog brand or item.
	ErrNotFound = errors.New("not found")
)

func IsBlockedError(err error) bool {
	return errors.Is(err, ErrBlocked)
}

// IsSoftDenial reports whether err is one of the denials that degrade to an
// empty result set instead of an error response. Callers cannot distinguish
// a throttled request from one with no results, on purpose.
func IsSoftDenial(err error) bool {
	return errors.Is(err, ErrInvalidQuery) ||
		errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrBlocked) ||
		errors.Is(err, ErrQueryAbused)
}
