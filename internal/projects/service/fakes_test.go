package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roomify-app/roomify-backend/internal/hosting"
	"github.com/roomify-app/roomify-backend/internal/projects/domain"
)

const testTemplate = "https://files.example.com/{subdomain}"

// fakeHosting keeps written files in memory.
type fakeHosting struct {
	mu        sync.Mutex
	scheme    hosting.URLScheme
	files     map[string][]byte
	types     map[string]string
	configErr error
	// failPaths makes writes to these paths fail.
	failPaths map[string]bool
}

func newFakeHosting(t *testing.T) *fakeHosting {
	t.Helper()
	scheme, err := hosting.NewURLScheme(testTemplate)
	require.NoError(t, err)
	return &fakeHosting{
		scheme:    scheme,
		files:     map[string][]byte{},
		types:     map[string]string{},
		failPaths: map[string]bool{},
	}
}

func (f *fakeHosting) GetOrCreateConfig(context.Context) (*domain.HostingConfig, error) {
	if f.configErr != nil {
		return nil, f.configErr
	}
	return &domain.HostingConfig{Subdomain: "roomify-fake"}, nil
}

func (f *fakeHosting) Write(_ context.Context, _ domain.HostingConfig, path string, data []byte, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPaths[path] {
		return errors.New("write failed")
	}
	f.files[path] = data
	f.types[path] = contentType
	return nil
}

func (f *fakeHosting) PublicURL(cfg domain.HostingConfig, path string) string {
	return f.scheme.PublicURL(cfg.Subdomain, path)
}

func (f *fakeHosting) IsHostedURL(ref string) bool {
	return f.scheme.IsHosted(ref)
}

func (f *fakeHosting) written() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.files)
}

// fakeStore mimics the store handlers closely enough for facade tests.
type fakeStore struct {
	mu      sync.Mutex
	records map[string]domain.Record
	order   []string
	saveErr error
	listErr error
	saves   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[string]domain.Record{}}
}

func (s *fakeStore) Save(_ context.Context, rec domain.Record, v domain.Visibility) (*domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	s.saves++
	rec.Visibility = v
	rec.IsPublic = v == domain.VisibilityPublic
	if _, ok := s.records[rec.ID]; !ok {
		s.order = append(s.order, rec.ID)
	}
	s.records[rec.ID] = rec
	return &rec, nil
}

func (s *fakeStore) List(context.Context) ([]domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []domain.Record
	for _, id := range s.order {
		out = append(out, s.records[id])
	}
	return out, nil
}

func (s *fakeStore) Get(_ context.Context, id string) (*domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}
