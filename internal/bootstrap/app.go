package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/roomify-app/roomify-backend/config"
	"github.com/roomify-app/roomify-backend/internal/auth"
	authmw "github.com/roomify-app/roomify-backend/internal/auth/middleware"
	"github.com/roomify-app/roomify-backend/internal/hosting"
)

const ServiceName = "roomify-backend"

const shutdownTimeout = 10 * time.Second

// App owns the HTTP server and the connections behind it.
type App struct {
	Config     *config.Config
	Log        *logrus.Logger
	HTTPServer *http.Server

	closers []io.Closer
}

func NewApp(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*App, error) {
	SetGinMode(cfg.App.Environment)

	store, storeCloser, err := OpenStore(ctx, cfg.Store, StoreOptions{}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	backend, err := OpenHostingBackend(ctx, cfg.Hosting)
	if err != nil {
		storeCloser.Close()
		return nil, fmt.Errorf("failed to open hosting backend: %w", err)
	}

	scheme, err := hosting.NewURLScheme(cfg.Hosting.URLTemplate)
	if err != nil {
		storeCloser.Close()
		return nil, err
	}

	var verifier authmw.TokenVerifier
	if cfg.Firebase.CredentialsPath != "" {
		client, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
		if err != nil {
			storeCloser.Close()
			return nil, err
		}
		verifier = client
		log.Info("firebase token verification enabled")
	} else {
		log.Warn("FIREBASE_CREDENTIALS_PATH not set, only X-User-Id is accepted")
	}

	router := BuildRouter(RouterDeps{
		ServiceName:    ServiceName,
		Version:        cfg.App.Version,
		Log:            log,
		Store:          store,
		Hosting:        hosting.NewNamespaces(store, backend, scheme, log),
		Verifier:       verifier,
		AllowDevHeader: cfg.App.Environment != "production",
		CORSOrigins:    cfg.Server.CORSOrigins,
		SaveRateLimit:  cfg.Server.SaveRateLimit,
		SaveBurst:      cfg.Server.SaveBurst,
	})

	return &App{
		Config: cfg,
		Log:    log,
		HTTPServer: &http.Server{
			Addr:              ":" + cfg.Server.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		closers: []io.Closer{storeCloser},
	}, nil
}

// Run serves until ctx is done, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.Log.WithField("addr", a.HTTPServer.Addr).Info("HTTP server listening")
		if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
	}

	a.Log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := a.HTTPServer.Shutdown(sctx)
	a.close()
	return err
}

func (a *App) close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.Log.WithError(err).Warn("close failed")
		}
	}
}
