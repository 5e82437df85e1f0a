package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roomify-app/roomify-backend/internal/apiclient"
	authhttp "github.com/roomify-app/roomify-backend/internal/auth/http"
)

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE:  app.handleWhoami,
	}
}

func (a *App) handleWhoami(cmd *cobra.Command, _ []string) error {
	api := apiclient.New(apiclient.Options{
		BaseURL: a.cfg.Client.APIURL,
		Token:   a.cfg.Client.Token,
		UserID:  a.cfg.Client.UserID,
	})
	if api == nil {
		return apiclient.ErrNotConfigured
	}

	resp, err := api.GET("/api/auth/me").
		Context().Set(cmd.Context()).
		Send()
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	var out authhttp.UserResponse
	if err := apiclient.Decode(resp, &out); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (%s)\n", out.User.Username, out.User.UID)
	return nil
}
