package cli

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roomify-app/roomify-backend/internal/imageconv"
	"github.com/roomify-app/roomify-backend/internal/projects/domain"
	"github.com/roomify-app/roomify-backend/internal/projects/service"
)

var errNotSaved = errors.New("project was not saved, see log for details")

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"p"},
		Short:   "Create, inspect and share projects",
	}
	cmd.AddCommand(
		newCreateCmd(app),
		newRenderCmd(app),
		newListCmd(app),
		newGetCmd(app),
		newExportCmd(app),
		newShareCmd(app),
	)
	return cmd
}

func newCreateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <source-image>",
		Short: "Upload a floor plan (file, URL or data URI) as a new project",
		Args:  cobra.ExactArgs(1),
		RunE:  app.handleCreate,
	}
	cmd.Flags().String("id", "", "project id (default: current time in epoch millis)")
	cmd.Flags().String("name", "", "project name (default: Residence {id})")
	cmd.Flags().String("render", "", "rendered image to attach")
	cmd.Flags().Bool("public", false, "make the project public")
	return cmd
}

func newRenderCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "render <project-id> <rendered-image>",
		Short: "Attach a rendered image to an existing project",
		Args:  cobra.ExactArgs(2),
		RunE:  app.handleRender,
	}
}

func newListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your projects",
		Args:  cobra.NoArgs,
		RunE:  app.handleList,
	}
}

func newGetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <project-id>",
		Short: "Print a project as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  app.handleGet,
	}
}

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <project-id>",
		Short: "Download the rendered image as {name}-render.png",
		Args:  cobra.ExactArgs(1),
		RunE:  app.handleExport,
	}
	cmd.Flags().StringP("dir", "d", ".", "output directory")
	return cmd
}

func newShareCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "share <project-id>",
		Short: "Print share links for a project",
		Args:  cobra.ExactArgs(1),
		RunE:  app.handleShare,
	}
}

func (a *App) handleCreate(cmd *cobra.Command, args []string) error {
	svc, err := a.service()
	if err != nil {
		return err
	}

	source, err := imageRef(args[0])
	if err != nil {
		return err
	}
	item := domain.NewDesignItem(source, time.Now())

	if id, _ := cmd.Flags().GetString("id"); id != "" {
		item.ID = id
		item.Name = "Residence " + id
	}
	if name, _ := cmd.Flags().GetString("name"); name != "" {
		item.Name = name
	}
	if render, _ := cmd.Flags().GetString("render"); render != "" {
		if item.RenderedImage, err = imageRef(render); err != nil {
			return err
		}
	}

	visibility := domain.VisibilityPrivate
	if public, _ := cmd.Flags().GetBool("public"); public {
		visibility = domain.VisibilityPublic
	}

	saved := svc.CreateProject(cmd.Context(), service.CreateInput{
		Item:       item,
		Visibility: visibility,
		OnProgress: a.progress(cmd),
	})
	if saved == nil {
		return errNotSaved
	}
	return a.printJSON(saved)
}

func (a *App) handleRender(cmd *cobra.Command, args []string) error {
	svc, err := a.service()
	if err != nil {
		return err
	}

	existing := svc.GetProjectByID(cmd.Context(), args[0])
	if existing == nil {
		return fmt.Errorf("project %s: %w", args[0], domain.ErrNotFound)
	}
	render, err := imageRef(args[1])
	if err != nil {
		return err
	}

	visibility := existing.Visibility
	if visibility == "" && existing.IsPublic {
		visibility = domain.VisibilityPublic
	}

	saved := svc.CreateProject(cmd.Context(), service.CreateInput{
		Item:       itemFromRecord(*existing, render),
		Visibility: visibility,
		OnProgress: a.progress(cmd),
	})
	if saved == nil {
		return errNotSaved
	}
	return a.printJSON(saved)
}

func (a *App) handleList(cmd *cobra.Command, _ []string) error {
	svc, err := a.service()
	if err != nil {
		return err
	}

	projects := svc.GetProjects(cmd.Context())
	if len(projects) == 0 {
		fmt.Fprintln(a.out, "No projects yet")
		return nil
	}
	for _, p := range projects {
		visibility := "private"
		if p.IsPublic {
			visibility = "public"
		}
		rendered := "-"
		if p.RenderedImage != "" {
			rendered = "rendered"
		}
		fmt.Fprintf(a.out, "%s\t%s\t%s\t%s\n", p.ID, p.Name, visibility, rendered)
	}
	return nil
}

func (a *App) handleGet(cmd *cobra.Command, args []string) error {
	svc, err := a.service()
	if err != nil {
		return err
	}

	rec := svc.GetProjectByID(cmd.Context(), args[0])
	if rec == nil {
		return fmt.Errorf("project %s: %w", args[0], domain.ErrNotFound)
	}
	return a.printJSON(rec)
}

func (a *App) handleExport(cmd *cobra.Command, args []string) error {
	svc, err := a.service()
	if err != nil {
		return err
	}
	dir, _ := cmd.Flags().GetString("dir")

	tmp, err := os.CreateTemp(dir, ".export-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	name, err := svc.ExportRender(cmd.Context(), args[0], tmp)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	target := filepath.Join(dir, name)
	if err := os.Rename(tmp.Name(), target); err != nil {
		return err
	}
	fmt.Fprintln(a.out, target)
	return nil
}

func (a *App) handleShare(cmd *cobra.Command, args []string) error {
	svc, err := a.service()
	if err != nil {
		return err
	}

	rec := svc.GetProjectByID(cmd.Context(), args[0])
	if rec == nil {
		return fmt.Errorf("project %s: %w", args[0], domain.ErrNotFound)
	}
	return a.printJSON(service.Share(*rec, a.cfg.Client.AppURL))
}

func (a *App) progress(cmd *cobra.Command) func(int) {
	return func(p int) {
		fmt.Fprintf(cmd.ErrOrStderr(), "progress: %d%%\n", p)
	}
}

func (a *App) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// imageRef turns a local file into a data URI. URLs and data URIs pass
// through.
func imageRef(arg string) (string, error) {
	if strings.HasPrefix(arg, "data:") || strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		return arg, nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("read image %s: %w", arg, imageconv.ErrEmpty)
	}
	return "data:" + imageconv.ContentType(data) + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func itemFromRecord(rec domain.Record, render string) domain.DesignItem {
	return domain.DesignItem{
		ID:            rec.ID,
		Name:          rec.Name,
		SourceImage:   rec.SourceImage,
		RenderedImage: render,
		OwnerID:       rec.OwnerID,
		IsPublic:      rec.IsPublic,
		Timestamp:     rec.Timestamp,
	}
}
