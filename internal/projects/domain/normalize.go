package domain

import (
	"encoding/json"
	"fmt"
)

// storedRecord shadows IsPublic so a missing value can be told apart from false.
type storedRecord struct {
	Record
	IsPublic *bool `json:"isPublic"`
}

// DecodeRecord parses a stored value and applies read normalisation:
// older records carry only visibility, so isPublic is derived from it,
// and records with only isPublic get a matching visibility.
func DecodeRecord(data []byte) (*Record, error) {
	var s storedRecord
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode project record: %w", err)
	}

	rec := s.Record
	if s.IsPublic != nil {
		rec.IsPublic = *s.IsPublic
	} else {
		rec.IsPublic = rec.Visibility == VisibilityPublic
	}
	if rec.Visibility == "" {
		if rec.IsPublic {
			rec.Visibility = VisibilityPublic
		} else {
			rec.Visibility = VisibilityPrivate
		}
	}
	return &rec, nil
}
