package domain

import "errors"

var (
	ErrNotFound          = errors.New("project not found")
	ErrMissingID         = errors.New("project id is required")
	ErrMissingSource     = errors.New("project source image is required")
	ErrInvalidVisibility = errors.New("visibility must be private or public")
)
