package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Caches, clients, and stores return
// these (optionally wrapped) so services can translate them into domain errors.
//
// - ErrNotFound: key does not exist in the cache or store
// - ErrUnavailable: dependency is temporarily unavailable (e.g. circuit open)
// - ErrMalformed: dependency answered with a payload that could not be read
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
	ErrMalformed   = errors.New("malformed response")
)
