// Package client talks to the project store endpoints of a Roomify API.
package client

import (
	"context"
	"fmt"
	"net/http"

	fastshot "github.com/opus-domini/fast-shot"

	"github.com/roomify-app/roomify-backend/internal/apiclient"
	"github.com/roomify-app/roomify-backend/internal/projects/domain"
	projectshttp "github.com/roomify-app/roomify-backend/internal/projects/http"
)

// ErrNotConfigured is returned by every call when no base URL was given.
var ErrNotConfigured = apiclient.ErrNotConfigured

type Client struct {
	http fastshot.ClientHttpMethods
}

func New(opts apiclient.Options) *Client {
	return &Client{http: apiclient.New(opts)}
}

func (c *Client) Configured() bool {
	return c != nil && c.http != nil
}

// Save upserts rec and returns the record as the store persisted it.
func (c *Client) Save(ctx context.Context, rec domain.Record, visibility domain.Visibility) (*domain.Record, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	resp, err := c.http.POST("/api/projects/save").
		Context().Set(ctx).
		Body().AsJSON(projectshttp.SaveRequest{Project: &rec, Visibility: string(visibility)}).
		Send()
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	var out projectshttp.SaveResponse
	if err := apiclient.Decode(resp, &out); err != nil {
		return nil, err
	}
	if !out.Saved {
		return nil, fmt.Errorf("store did not confirm save of %s", rec.ID)
	}
	return &out.Project, nil
}

func (c *Client) List(ctx context.Context) ([]domain.Record, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	resp, err := c.http.GET("/api/projects/list").
		Context().Set(ctx).
		Send()
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	var out projectshttp.ListResponse
	if err := apiclient.Decode(resp, &out); err != nil {
		return nil, err
	}
	return out.Projects, nil
}

// Get returns domain.ErrNotFound when the store has no such project.
func (c *Client) Get(ctx context.Context, id string) (*domain.Record, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	resp, err := c.http.GET("/api/projects/get").
		Context().Set(ctx).
		Query().AddParam("id", id).
		Send()
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	var out projectshttp.GetResponse
	if err := apiclient.Decode(resp, &out); err != nil {
		if apiclient.StatusOf(err) == http.StatusNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &out.Project, nil
}
