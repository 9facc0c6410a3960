package domain

import "errors"

// Sentinel errors shared across services. Controllers map these onto HTTP
// status codes; repositories translate driver errors into them.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)
