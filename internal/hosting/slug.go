package hosting

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const slugPattern = `[a-z0-9][a-z0-9-]*`

var slugRe = regexp.MustCompile("^" + slugPattern + "$")

// NewSlug returns a fresh namespace name like "roomify-3f9c2a7d41b0".
func NewSlug() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "roomify-" + id[:12]
}

func ValidSlug(s string) bool {
	return len(s) <= 63 && slugRe.MatchString(s)
}
