package satvach

import "github.com/kailas-cloud/satvach/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound     = domain.ErrNotFound
	ErrInvalidInput = domain.ErrInvalidInput
)

// InvalidInputError names the rejected field. Use errors.As() to extract it.
type InvalidInputError = domain.InvalidInputError
