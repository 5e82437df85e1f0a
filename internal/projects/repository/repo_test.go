package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomify-app/roomify-backend/internal/projects/domain"
	"github.com/roomify-app/roomify-backend/internal/storage/kv"
)

func setupRepo(t *testing.T) (*Repo, kv.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := kv.NewRedisStore(client, "test:")
	return NewRepo(store, nil), store
}

func TestRepo_SaveGet(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	rec := domain.Record{ID: "1", Name: "Residence 1", SourceImage: "http://x/hosted/a/s.png", Visibility: domain.VisibilityPublic, IsPublic: true}
	require.NoError(t, repo.Save(ctx, "user-1", rec))

	got, err := repo.Get(ctx, "user-1", "1")
	require.NoError(t, err)
	assert.Equal(t, rec.Name, got.Name)
	assert.True(t, got.IsPublic)

	_, err = repo.Get(ctx, "user-1", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.Get(ctx, "user-2", "1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepo_List(t *testing.T) {
	repo, store := setupRepo(t)
	ctx := context.Background()

	projects, err := repo.List(ctx, "user-1")
	require.NoError(t, err)
	assert.NotNil(t, projects)
	assert.Empty(t, projects)

	require.NoError(t, repo.Save(ctx, "user-1", domain.Record{ID: "1", SourceImage: "s1"}))
	require.NoError(t, store.Set(ctx, "user-1", domain.ProjectKey("legacy"), []byte(`{"id":"legacy","sourceImage":"s2","visibility":"public"}`)))
	require.NoError(t, store.Set(ctx, "user-1", domain.ProjectKey("broken"), []byte(`{`)))
	require.NoError(t, store.Set(ctx, "user-1", domain.HostingConfigKey, []byte(`{"subdomain":"roomify-a"}`)))
	require.NoError(t, store.Set(ctx, "user-1", "unrelated", []byte(`{}`)))

	projects, err = repo.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, projects, 2)

	byID := map[string]domain.Record{}
	for _, p := range projects {
		byID[p.ID] = p
	}
	assert.True(t, byID["legacy"].IsPublic)
	assert.False(t, byID["1"].IsPublic)
}
