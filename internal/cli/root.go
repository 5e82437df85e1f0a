// Package cli implements the roomify command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/roomify-app/roomify-backend/config"
	"github.com/roomify-app/roomify-backend/internal/apiclient"
	"github.com/roomify-app/roomify-backend/internal/bootstrap"
	"github.com/roomify-app/roomify-backend/internal/hosting"
	"github.com/roomify-app/roomify-backend/internal/projects/client"
	"github.com/roomify-app/roomify-backend/internal/projects/service"
)

// App carries what the commands share. Fields are filled before a command
// runs.
type App struct {
	cfg *config.Config
	log *logrus.Logger
	out io.Writer

	// loadConfig and newService are swapped in tests.
	loadConfig func() (*config.Config, error)
	newService func(*App) (*service.ProjectService, error)
	svc        *service.ProjectService
}

func NewApp() *App {
	return &App{
		out:        os.Stdout,
		loadConfig: config.Load,
		newService: remoteService,
	}
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "roomify",
		Short:         "Roomify project store, image hosting and project tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.init()
		},
	}
	cmd.SetOut(app.out)
	cmd.AddCommand(
		newServeCmd(app),
		newProjectsCmd(app),
		newWhoamiCmd(app),
	)
	return cmd
}

func (a *App) init() error {
	if a.cfg != nil {
		return nil
	}
	cfg, err := a.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg
	a.log = bootstrap.NewLogger(cfg.App)
	return nil
}

// service builds the facade on first use.
func (a *App) service() (*service.ProjectService, error) {
	if a.svc != nil {
		return a.svc, nil
	}
	svc, err := a.newService(a)
	if err != nil {
		return nil, err
	}
	a.svc = svc
	return svc, nil
}

// remoteService talks to the API configured in the client section.
func remoteService(a *App) (*service.ProjectService, error) {
	scheme, err := hosting.NewURLScheme(a.cfg.Hosting.URLTemplate)
	if err != nil {
		return nil, err
	}
	opts := apiclient.Options{
		BaseURL: a.cfg.Client.APIURL,
		Token:   a.cfg.Client.Token,
		UserID:  a.cfg.Client.UserID,
	}
	remote := hosting.NewRemote(opts, scheme)
	resolver := hosting.NewResolver(remote, hosting.WithLogger(a.log))
	return service.NewProjectService(client.New(opts), remote, resolver, a.log), nil
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	app := NewApp()
	cmd := newRootCmd(app)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
