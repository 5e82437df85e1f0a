package hosting

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FSBackend keeps hosted files under root/{namespace}/{path}.
type FSBackend struct {
	root string
}

func NewFSBackend(root string) (*FSBackend, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve hosting root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create hosting root: %w", err)
	}
	return &FSBackend{root: abs}, nil
}

func (b *FSBackend) Put(_ context.Context, namespace, path string, data []byte, _ string) error {
	target, err := b.locate(namespace, path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("store %s: %w", path, err)
	}
	return nil
}

func (b *FSBackend) Open(_ context.Context, namespace, path string) (*Object, error) {
	target, err := b.locate(namespace, path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, ErrObjectNotFound
	}

	return &Object{Body: f, ContentType: ContentTypeForPath(path), Size: info.Size()}, nil
}

func (b *FSBackend) locate(namespace, path string) (string, error) {
	if !ValidSlug(namespace) {
		return "", fmt.Errorf("%w: namespace %q", ErrInvalidPath, namespace)
	}
	clean, err := CleanPath(path)
	if err != nil {
		return "", err
	}

	nsRoot := filepath.Join(b.root, namespace)
	target := filepath.Join(nsRoot, filepath.FromSlash(clean))
	if rel, err := filepath.Rel(nsRoot, target); err != nil || strings.HasPrefix(rel, "..") {
		return "", ErrInvalidPath
	}
	return target, nil
}
