package review

import "errors"

var (
	ErrAccessDenied    = errors.New("access denied")
	ErrInvalidDecision = errors.New("invalid decision value")
)
