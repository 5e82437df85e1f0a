package cli

import (
	"github.com/spf13/cobra"

	"github.com/roomify-app/roomify-backend/internal/bootstrap"
)

func newServeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the project store and hosting API",
		Args:  cobra.NoArgs,
		RunE:  app.handleServe,
	}
}

func (a *App) handleServe(cmd *cobra.Command, _ []string) error {
	server, err := bootstrap.NewApp(cmd.Context(), a.cfg, a.log)
	if err != nil {
		return err
	}
	return server.Run(cmd.Context())
}
