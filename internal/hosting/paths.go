package hosting

import (
	"fmt"
	"path"
	"strings"

	"github.com/roomify-app/roomify-backend/internal/projects/domain"
)

// CleanPath normalises a namespace-relative path and rejects anything that
// could leave the namespace.
func CleanPath(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" || strings.Contains(p, `\`) || strings.ContainsRune(p, 0) {
		return "", ErrInvalidPath
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", ErrInvalidPath
		}
	}

	cleaned := strings.TrimPrefix(path.Clean("/"+p), "/")
	if cleaned == "" || cleaned == "." {
		return "", ErrInvalidPath
	}
	return cleaned, nil
}

// AssetPath returns projects/{projectID}/{label}.{ext}.
func AssetPath(projectID string, label domain.Label, ext string) (string, error) {
	if !validSegment(projectID) {
		return "", fmt.Errorf("%w: project id %q", ErrInvalidPath, projectID)
	}
	return fmt.Sprintf("projects/%s/%s.%s", projectID, label, ext), nil
}

func validSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}
