package domain

import (
	"strconv"
	"strings"
	"time"
)

// Key layout inside a user's keyed store.
const (
	ProjectKeyPrefix = "roomify_project_"
	HostingConfigKey = "roomify_hosting_config"
)

type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

// ParseVisibility maps an empty value to private and rejects anything unknown.
func ParseVisibility(v string) (Visibility, error) {
	switch Visibility(strings.TrimSpace(v)) {
	case "", VisibilityPrivate:
		return VisibilityPrivate, nil
	case VisibilityPublic:
		return VisibilityPublic, nil
	default:
		return "", ErrInvalidVisibility
	}
}

// Label selects how an image is prepared before hosting.
type Label string

const (
	LabelSource   Label = "source"
	LabelRendered Label = "rendered"
)

func (l Label) Valid() bool {
	return l == LabelSource || l == LabelRendered
}

// DesignItem is a project as the client holds it, before materialization.
// The *Path fields are convenience values derived on read and are never stored.
type DesignItem struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	SourceImage   string  `json:"sourceImage"`
	RenderedImage string  `json:"renderedImage,omitempty"`
	OwnerID       *string `json:"ownerId"`
	IsPublic      bool    `json:"isPublic"`
	Timestamp     int64   `json:"timestamp"`

	SourcePath   string `json:"sourcePath,omitempty"`
	RenderedPath string `json:"renderedPath,omitempty"`
	PublicPath   string `json:"publicPath,omitempty"`
}

// Record is the persisted form of a project.
type Record struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	SourceImage   string     `json:"sourceImage"`
	RenderedImage string     `json:"renderedImage,omitempty"`
	OwnerID       *string    `json:"ownerId"`
	IsPublic      bool       `json:"isPublic"`
	Visibility    Visibility `json:"visibility,omitempty"`
	Timestamp     int64      `json:"timestamp"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

// RecordFromItem copies the persistable fields of an item.
func RecordFromItem(item DesignItem) Record {
	return Record{
		ID:            item.ID,
		Name:          item.Name,
		SourceImage:   item.SourceImage,
		RenderedImage: item.RenderedImage,
		OwnerID:       item.OwnerID,
		IsPublic:      item.IsPublic,
		Timestamp:     item.Timestamp,
	}
}

// Stamp applies the server-side fields written on every save.
func (r *Record) Stamp(v Visibility, ownerID string, now time.Time) {
	r.Visibility = v
	r.IsPublic = v == VisibilityPublic
	if ownerID != "" {
		owner := ownerID
		r.OwnerID = &owner
	}
	t := now.UTC().Truncate(time.Millisecond)
	r.UpdatedAt = &t
}

// HostingConfig is a user's hosting namespace.
type HostingConfig struct {
	Subdomain string `json:"subdomain"`
}

// HostedAsset is a durable reference to an uploaded image.
type HostedAsset struct {
	URL string `json:"url"`
}

func ProjectKey(id string) string {
	return ProjectKeyPrefix + id
}

func IsProjectKey(key string) bool {
	return strings.HasPrefix(key, ProjectKeyPrefix)
}

// NewDesignItem builds a fresh item the way an upload does: the id is the
// creation time in epoch millis and the name is derived from it.
func NewDesignItem(sourceImage string, now time.Time) DesignItem {
	ms := now.UnixMilli()
	id := strconv.FormatInt(ms, 10)
	return DesignItem{
		ID:          id,
		Name:        "Residence " + id,
		SourceImage: sourceImage,
		Timestamp:   ms,
	}
}
