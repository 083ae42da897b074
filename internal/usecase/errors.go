package usecase

import "errors"

var (
	// ErrUnauthenticated is returned when a token is missing, malformed,
	// expired, or carries an invalid signature.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrSessionInvalidated is returned when a presented refresh token is
	// well-formed but no longer equals the stored value: it was already
	// rotated, or the session was logged out. The client must log in again.
	ErrSessionInvalidated = errors.New("session invalidated")

	// ErrInvalidCredentials is returned when a username/password pair does
	// not match a stored credential.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrForbidden is returned when the authenticated caller does not own
	// the entity it is trying to mutate.
	ErrForbidden = errors.New("caller does not own this resource")

	// ErrInvalidPage is returned when a listing page is below 1.
	ErrInvalidPage = errors.New("page must be at least 1")

	// ErrInvalidLimit is returned when a listing limit is below 1.
	ErrInvalidLimit = errors.New("limit must be at least 1")

	// ErrInvalidSortKey is returned when a listing sort key is not one of
	// the whitelisted columns.
	ErrInvalidSortKey = errors.New("unknown sort key")

	// ErrSelfSubscription is returned when a user attempts to subscribe to
	// their own channel.
	ErrSelfSubscription = errors.New("cannot subscribe to own channel")
)

// validatePagination checks the shared page/limit contract of all listings.
func validatePagination(page, limit int) error {
	if page < 1 {
		return ErrInvalidPage
	}
	if limit < 1 {
		return ErrInvalidLimit
	}
	return nil
}
