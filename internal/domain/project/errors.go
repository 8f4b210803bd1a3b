package project

import "errors"

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrMemberNotFound  = errors.New("member not found")
	ErrAccessDenied    = errors.New("access denied")
	ErrLastOwner       = errors.New("project must retain at least one owner")
	ErrInvalidStatus   = errors.New("invalid project status")
)
