package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/roomify-app/roomify-backend/internal/imageconv"
	"github.com/roomify-app/roomify-backend/internal/projects/domain"
)

var ErrNothingToExport = errors.New("project has no image to export")

// ExportRender writes the project's render, or its source when nothing was
// rendered yet, to w as PNG. Images that cannot be decoded are written as
// stored. It returns the suggested file name.
func (s *ProjectService) ExportRender(ctx context.Context, id string, w io.Writer) (string, error) {
	rec := s.GetProjectByID(ctx, id)
	if rec == nil {
		return "", domain.ErrNotFound
	}

	ref := rec.RenderedImage
	if ref == "" {
		ref = rec.SourceImage
	}
	if ref == "" {
		return "", ErrNothingToExport
	}

	data, _, err := s.resolver.Load(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("load image for %s: %w", id, err)
	}

	if out, err := imageconv.ToPNG(data); err == nil {
		data = out
	} else {
		s.log.WithField("project_id", id).WithError(err).Warn("exporting image without conversion")
	}

	if _, err := w.Write(data); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return ExportFileName(*rec), nil
}

// ExportFileName is "{name}-render.png" with path separators removed.
func ExportFileName(rec domain.Record) string {
	name := strings.TrimSpace(rec.Name)
	if name == "" {
		name = "Residence-" + rec.ID
	}
	name = strings.NewReplacer("/", "-", "\\", "-").Replace(name)
	return name + "-render.png"
}
