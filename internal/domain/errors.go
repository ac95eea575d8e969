package domain

import "errors"

var (
	// ErrInvalidQuery signals a missing or malformed search query.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrInvalidPagination signals an out-of-range offset or limit.
	ErrInvalidPagination = errors.New("invalid pagination")
	// ErrUnauthenticated signals a request without a valid session or api key.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrClassifierUnavailable signals a transport-level classifier failure.
	ErrClassifierUnavailable = errors.New("classifier unavailable")
	// ErrInvalidClassification signals an empty, malformed or off-schema classifier reply.
	ErrInvalidClassification = errors.New("invalid classification")
	// ErrStorage signals a catalog storage failure.
	ErrStorage = errors.New("storage error")
)
