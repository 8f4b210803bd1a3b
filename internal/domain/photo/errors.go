package photo

import "errors"

var (
	ErrPhotoNotFound     = errors.New("photo not found")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrSourceUnavailable = errors.New("photo source file unavailable")
)
