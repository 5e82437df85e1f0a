package service

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomify-app/roomify-backend/internal/apiclient"
	"github.com/roomify-app/roomify-backend/internal/hosting"
	"github.com/roomify-app/roomify-backend/internal/imageconv"
	"github.com/roomify-app/roomify-backend/internal/projects/client"
	"github.com/roomify-app/roomify-backend/internal/projects/domain"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, store Store) (*ProjectService, *fakeHosting, *test.Hook) {
	t.Helper()
	log, hook := test.NewNullLogger()
	fh := newFakeHosting(t)
	svc := NewProjectService(store, fh, hosting.NewResolver(fh, hosting.WithLogger(log)), log)
	svc.now = func() time.Time { return fixedNow }
	return svc, fh, hook
}

func TestCreateProject(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(t, store)

	var stages []int
	saved := svc.CreateProject(context.Background(), CreateInput{
		Item:       domain.DesignItem{ID: "p1", Name: "Residence p1", SourceImage: jpegDataURI(t), Timestamp: 1},
		OnProgress: func(p int) { stages = append(stages, p) },
	})

	require.NotNil(t, saved)
	assert.Equal(t, fixedNow.UnixMilli(), saved.Timestamp)
	assert.Equal(t, domain.VisibilityPrivate, saved.Visibility)
	assert.False(t, saved.IsPublic)
	assert.True(t, svc.resolver.IsDurable(saved.SourceImage))
	assert.Equal(t, []int{ProgressNamespace, ProgressSource, ProgressRendered, ProgressSaved}, stages)
}

func TestCreateProject_Public(t *testing.T) {
	svc, _, _ := newTestService(t, newFakeStore())

	saved := svc.CreateProject(context.Background(), CreateInput{
		Item:       domain.DesignItem{ID: "p1", SourceImage: jpegDataURI(t)},
		Visibility: domain.VisibilityPublic,
	})

	require.NotNil(t, saved)
	assert.True(t, saved.IsPublic)
}

func TestCreateProject_UnhostableSourceIsNotSaved(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(t, store)

	saved := svc.CreateProject(context.Background(), CreateInput{
		Item: domain.DesignItem{ID: "p1", SourceImage: "file:///tmp/plan.png"},
	})

	assert.Nil(t, saved)
	assert.Zero(t, store.saves)
}

func TestCreateProject_StoreFailure(t *testing.T) {
	store := newFakeStore()
	store.saveErr = &apiclient.APIError{Status: 500, Code: "Failed to save project"}
	svc, _, hook := newTestService(t, store)

	saved := svc.CreateProject(context.Background(), CreateInput{
		Item: domain.DesignItem{ID: "p1", SourceImage: jpegDataURI(t)},
	})

	assert.Nil(t, saved)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, 500, hook.LastEntry().Data["status"])
}

func TestCreateProject_KeepsPreviousRenderWhenUploadFails(t *testing.T) {
	store := newFakeStore()
	svc, fh, _ := newTestService(t, store)
	ctx := context.Background()

	first := svc.CreateProject(ctx, CreateInput{
		Item: domain.DesignItem{ID: "p1", SourceImage: jpegDataURI(t), RenderedImage: jpegDataURI(t)},
	})
	require.NotNil(t, first)
	require.NotEmpty(t, first.RenderedImage)

	fh.failPaths["projects/p1/rendered.png"] = true
	second := svc.CreateProject(ctx, CreateInput{
		Item: domain.DesignItem{ID: "p1", SourceImage: first.SourceImage, RenderedImage: jpegDataURI(t)},
	})

	require.NotNil(t, second)
	assert.Equal(t, first.RenderedImage, second.RenderedImage)
}

func TestGetProjects(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(t, store)
	ctx := context.Background()

	empty := svc.GetProjects(ctx)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, id := range []string{"a", "b"} {
		require.NotNil(t, svc.CreateProject(ctx, CreateInput{Item: domain.DesignItem{ID: id, SourceImage: jpegDataURI(t)}}))
	}
	projects := svc.GetProjects(ctx)
	require.Len(t, projects, 2)
	assert.Equal(t, "a", projects[0].ID)
	assert.Equal(t, "b", projects[1].ID)

	store.listErr = errors.New("boom")
	failed := svc.GetProjects(ctx)
	assert.NotNil(t, failed)
	assert.Empty(t, failed)
}

func TestGetProjectByID(t *testing.T) {
	svc, _, _ := newTestService(t, newFakeStore())
	ctx := context.Background()

	assert.Nil(t, svc.GetProjectByID(ctx, "does-not-exist"))
	assert.Nil(t, svc.GetProjectByID(ctx, ""))

	saved := svc.CreateProject(ctx, CreateInput{Item: domain.DesignItem{ID: "p1", Name: "Loft", SourceImage: jpegDataURI(t)}})
	require.NotNil(t, saved)

	got := svc.GetProjectByID(ctx, "p1")
	require.NotNil(t, got)
	assert.Equal(t, *saved, *got)
}

func TestProjectService_UnconfiguredStore(t *testing.T) {
	ctx := context.Background()
	item := domain.DesignItem{ID: "p1", SourceImage: "https://files.example.com/roomify-fake/projects/p1/source.png"}

	for name, store := range map[string]Store{
		"nil":          nil,
		"unconfigured": client.New(apiclient.Options{}),
	} {
		t.Run(name, func(t *testing.T) {
			svc, _, hook := newTestService(t, store)

			assert.Nil(t, svc.CreateProject(ctx, CreateInput{Item: item}))
			assert.NotNil(t, svc.GetProjects(ctx))
			assert.Nil(t, svc.GetProjectByID(ctx, "p1"))
			assert.NotEmpty(t, hook.AllEntries())
		})
	}
}

func TestExportRender(t *testing.T) {
	svc, _, _ := newTestService(t, newFakeStore())
	ctx := context.Background()

	_, err := svc.ExportRender(ctx, "missing", &bytes.Buffer{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// stored records reference hosted files, here served back as data URIs
	store := svc.store.(*fakeStore)
	store.records["p1"] = domain.Record{ID: "p1", Name: "Loft", SourceImage: jpegDataURI(t)}
	store.order = append(store.order, "p1")

	var buf bytes.Buffer
	name, err := svc.ExportRender(ctx, "p1", &buf)
	require.NoError(t, err)
	assert.Equal(t, "Loft-render.png", name)
	assert.True(t, imageconv.IsPNG(buf.Bytes()))
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "Residence-42-render.png", ExportFileName(domain.Record{ID: "42"}))
	assert.Equal(t, "a-b-render.png", ExportFileName(domain.Record{ID: "1", Name: "a/b"}))
}

func TestShare(t *testing.T) {
	links := Share(domain.Record{
		ID:            "1700000000000",
		Name:          "Loft",
		RenderedImage: "https://files.example.com/roomify-fake/projects/1700000000000/rendered.png",
	}, "https://roomify.app/")

	assert.Equal(t, "https://roomify.app/visualizer/1700000000000", links.URL)
	assert.Equal(t, "Check out my Roomify design: Loft", links.Title)

	wa, err := url.Parse(links.WhatsApp)
	require.NoError(t, err)
	assert.Equal(t, "api.whatsapp.com", wa.Host)
	assert.Equal(t, links.Title+" "+links.URL, wa.Query().Get("text"))

	tg, err := url.Parse(links.Telegram)
	require.NoError(t, err)
	assert.Equal(t, links.URL, tg.Query().Get("url"))
	assert.Equal(t, links.Title, tg.Query().Get("text"))

	pin, err := url.Parse(links.Pinterest)
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.com/roomify-fake/projects/1700000000000/rendered.png", pin.Query().Get("media"))
	assert.Equal(t, links.Title, pin.Query().Get("description"))
}

func TestShare_DefaultTitle(t *testing.T) {
	links := Share(domain.Record{ID: "7", SourceImage: "data:image/png;base64,AAA"}, "http://localhost:5173")
	assert.Equal(t, "Check out my Roomify design: Residence 7", links.Title)

	pin, err := url.Parse(links.Pinterest)
	require.NoError(t, err)
	assert.NotContains(t, pin.Query(), "media")
	assert.Equal(t, links.URL, pin.Query().Get("url"))
}
