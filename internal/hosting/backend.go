package hosting

import (
	"context"
	"io"
)

// Backend stores namespace files. Keys are namespace-relative, already cleaned.
type Backend interface {
	Put(ctx context.Context, namespace, path string, data []byte, contentType string) error
	Open(ctx context.Context, namespace, path string) (*Object, error)
}

// Object is an open hosted file. Callers must close Body.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}
