package reports

import "errors"

var (
	// ErrMissingOwner means the owner address setting is absent. No remote
	// call is attempted.
	ErrMissingOwner = errors.New("owner address not configured")

	// ErrNoMatch means a claim's metadata title has no corresponding
	// editorial record. It fails the whole population, never just the
	// offending claim.
	ErrNoMatch = errors.New("no matching editorial report")

	// ErrNotFound means a slug or hypercert id lookup missed after a
	// successful population.
	ErrNotFound = errors.New("report not found")
)
