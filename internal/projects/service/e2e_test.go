package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomify-app/roomify-backend/config"
	"github.com/roomify-app/roomify-backend/internal/apiclient"
	"github.com/roomify-app/roomify-backend/internal/bootstrap"
	"github.com/roomify-app/roomify-backend/internal/hosting"
	"github.com/roomify-app/roomify-backend/internal/projects/client"
	"github.com/roomify-app/roomify-backend/internal/projects/domain"
	"github.com/roomify-app/roomify-backend/internal/storage/kv"
)

type stack struct {
	svc    *ProjectService
	store  *client.Client
	server *httptest.Server
}

// setupStack runs the whole API in-process and points a facade at it.
func setupStack(t *testing.T, userID string) *stack {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, _ := test.NewNullLogger()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	store := kv.NewRedisStore(rdb, "e2e:")

	var router http.Handler
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	backend, err := bootstrap.OpenHostingBackend(context.Background(), config.HostingConfig{Backend: "fs", RootDir: t.TempDir()})
	require.NoError(t, err)
	scheme, err := hosting.NewURLScheme(srv.URL + "/hosted/{subdomain}")
	require.NoError(t, err)

	router = bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    bootstrap.ServiceName,
		Log:            log,
		Store:          store,
		Hosting:        hosting.NewNamespaces(store, backend, scheme, log),
		AllowDevHeader: true,
	})

	opts := apiclient.Options{BaseURL: srv.URL, UserID: userID, Timeout: 5 * time.Second}
	remote := hosting.NewRemote(opts, scheme)
	projects := client.New(opts)

	svc := NewProjectService(projects, remote, hosting.NewResolver(remote, hosting.WithLogger(log), hosting.WithHTTPClient(srv.Client())), log)
	return &stack{svc: svc, store: projects, server: srv}
}

func fetch(t *testing.T, url string) (string, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.Header.Get("Content-Type"), body
}

func TestE2E_FirstSaveWithoutRender(t *testing.T) {
	s := setupStack(t, "user-1")
	ctx := context.Background()

	saved := s.svc.CreateProject(ctx, CreateInput{
		Item: domain.DesignItem{
			ID:          "1700000000000",
			Name:        "Residence 1700000000000",
			SourceImage: "data:image/png;base64,AAA",
		},
		Visibility: domain.VisibilityPrivate,
	})

	require.NotNil(t, saved)
	assert.False(t, saved.IsPublic)
	assert.Equal(t, domain.VisibilityPrivate, saved.Visibility)
	assert.True(t, strings.HasPrefix(saved.SourceImage, s.server.URL+"/hosted/roomify-"), saved.SourceImage)
	assert.True(t, strings.HasSuffix(saved.SourceImage, "/projects/1700000000000/source.png"))
	assert.Empty(t, saved.RenderedImage)
	require.NotNil(t, saved.OwnerID)
	assert.Equal(t, "user-1", *saved.OwnerID)

	ct, body := fetch(t, saved.SourceImage)
	assert.Equal(t, "image/png", ct)
	assert.Equal(t, []byte{0, 0}, body)
}

func TestE2E_UpdateAddsRender(t *testing.T) {
	s := setupStack(t, "user-1")
	ctx := context.Background()
	item := domain.DesignItem{ID: "1700000000000", Name: "Residence 1700000000000", SourceImage: "data:image/png;base64,AAA"}

	first := s.svc.CreateProject(ctx, CreateInput{Item: item})
	require.NotNil(t, first)

	item.SourceImage = first.SourceImage
	item.RenderedImage = "data:image/png;base64,BBB"
	second := s.svc.CreateProject(ctx, CreateInput{Item: item})

	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.SourceImage, second.SourceImage)
	assert.True(t, strings.HasSuffix(second.RenderedImage, "/projects/1700000000000/rendered.png"), second.RenderedImage)

	// the update replaced the record instead of adding one
	projects := s.svc.GetProjects(ctx)
	require.Len(t, projects, 1)
	assert.Equal(t, second.RenderedImage, projects[0].RenderedImage)
}

func TestE2E_GetMissingProject(t *testing.T) {
	s := setupStack(t, "user-1")
	assert.Nil(t, s.svc.GetProjectByID(context.Background(), "does-not-exist"))
}

func TestE2E_MissingSourceIsRejected(t *testing.T) {
	s := setupStack(t, "user-1")
	ctx := context.Background()

	assert.Nil(t, s.svc.CreateProject(ctx, CreateInput{Item: domain.DesignItem{ID: "p1"}}))

	// the store refuses it too
	_, err := s.store.Save(ctx, domain.Record{ID: "p1"}, domain.VisibilityPrivate)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apiclient.StatusOf(err))
}

func TestE2E_RoundTripAndIsolation(t *testing.T) {
	s := setupStack(t, "user-1")
	ctx := context.Background()

	assert.Equal(t, []domain.Record{}, s.svc.GetProjects(ctx))

	saved := s.svc.CreateProject(ctx, CreateInput{
		Item:       domain.DesignItem{ID: "p1", Name: "Loft", SourceImage: jpegDataURI(t), RenderedImage: jpegDataURI(t), SourcePath: "/local/plan.jpg"},
		Visibility: domain.VisibilityPublic,
	})
	require.NotNil(t, saved)
	assert.True(t, saved.IsPublic)

	got := s.svc.GetProjectByID(ctx, "p1")
	require.NotNil(t, got)
	assert.Equal(t, saved.SourceImage, got.SourceImage)
	assert.Equal(t, saved.RenderedImage, got.RenderedImage)
	assert.Equal(t, saved.Timestamp, got.Timestamp)

	ct, _ := fetch(t, got.RenderedImage)
	assert.Equal(t, "image/png", ct)
	ct, _ = fetch(t, got.SourceImage)
	assert.Equal(t, "image/jpeg", ct)

	// another user sees nothing of it
	other := NewProjectService(client.New(apiclient.Options{BaseURL: s.server.URL, UserID: "user-2"}), nil, nil, nil)
	assert.Empty(t, other.GetProjects(ctx))
	assert.Nil(t, other.GetProjectByID(ctx, "p1"))
}

func TestE2E_FailedRenderKeepsPreviousRender(t *testing.T) {
	s := setupStack(t, "user-1")
	ctx := context.Background()

	first := s.svc.CreateProject(ctx, CreateInput{
		Item: domain.DesignItem{ID: "p1", SourceImage: jpegDataURI(t), RenderedImage: jpegDataURI(t)},
	})
	require.NotNil(t, first)
	require.NotEmpty(t, first.RenderedImage)

	// a render that is neither decodable nor declared as png cannot be hosted
	second := s.svc.CreateProject(ctx, CreateInput{
		Item: domain.DesignItem{ID: "p1", SourceImage: first.SourceImage, RenderedImage: "data:image/jpeg;base64,Zm9v"},
	})
	require.NotNil(t, second)
	assert.Equal(t, first.RenderedImage, second.RenderedImage)
}

func TestE2E_Export(t *testing.T) {
	s := setupStack(t, "user-1")
	ctx := context.Background()

	saved := s.svc.CreateProject(ctx, CreateInput{
		Item: domain.DesignItem{ID: "p1", Name: "Loft", SourceImage: jpegDataURI(t), RenderedImage: jpegDataURI(t)},
	})
	require.NotNil(t, saved)

	var buf strings.Builder
	name, err := s.svc.ExportRender(ctx, "p1", &buf)
	require.NoError(t, err)
	assert.Equal(t, "Loft-render.png", name)
	assert.True(t, strings.HasPrefix(buf.String(), "\x89PNG"))
}

func TestE2E_ReservedCharactersInID(t *testing.T) {
	s := setupStack(t, "user-1")
	ctx := context.Background()

	for _, id := range []string{"plan#2", "plan?v=2", "50%off", "my plan"} {
		t.Run(id, func(t *testing.T) {
			saved := s.svc.CreateProject(ctx, CreateInput{
				Item: domain.DesignItem{ID: id, SourceImage: jpegDataURI(t), RenderedImage: jpegDataURI(t)},
			})
			require.NotNil(t, saved)

			ct, _ := fetch(t, saved.SourceImage)
			assert.Equal(t, "image/jpeg", ct)
			ct, _ = fetch(t, saved.RenderedImage)
			assert.Equal(t, "image/png", ct)

			// hosted urls are recognised on the next save
			again := s.svc.CreateProject(ctx, CreateInput{
				Item: domain.DesignItem{ID: id, SourceImage: saved.SourceImage, RenderedImage: saved.RenderedImage},
			})
			require.NotNil(t, again)
			assert.Equal(t, saved.SourceImage, again.SourceImage)
			assert.Equal(t, saved.RenderedImage, again.RenderedImage)

			got := s.svc.GetProjectByID(ctx, id)
			require.NotNil(t, got)
			assert.Equal(t, saved.SourceImage, got.SourceImage)
		})
	}
}
