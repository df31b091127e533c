package domain

import "errors"

var (
	// ErrNotFound is returned by stores when a lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a uniqueness violation at the store.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotRelevant is the oracle's skip signal for a news item.
	ErrNotRelevant = errors.New("not relevant for this blog")
	// ErrInvalidProductID is returned when no product id can be extracted.
	ErrInvalidProductID = errors.New("invalid product id")
	// ErrMissingSubject means neither a subject nor a product was supplied.
	ErrMissingSubject = errors.New("subject or at least one product is required")
	// ErrOracleUnavailable is returned when no text generator is configured.
	ErrOracleUnavailable = errors.New("text generation is not configured")
)
