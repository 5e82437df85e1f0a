package hosting

import (
	"net/url"
	"regexp"
	"strings"
)

const subdomainPlaceholder = "{subdomain}"

// URLScheme derives public URLs from a template such as
// "https://{subdomain}.example.app" or "http://localhost:8080/hosted/{subdomain}".
type URLScheme struct {
	template string
	hosted   *regexp.Regexp
}

func NewURLScheme(template string) (URLScheme, error) {
	template = strings.TrimRight(strings.TrimSpace(template), "/")
	i := strings.Index(template, subdomainPlaceholder)
	if i < 0 {
		return URLScheme{}, ErrUnknownTemplate
	}

	prefix := regexp.QuoteMeta(template[:i])
	suffix := regexp.QuoteMeta(template[i+len(subdomainPlaceholder):])
	re, err := regexp.Compile("^" + prefix + slugPattern + suffix + "/")
	if err != nil {
		return URLScheme{}, err
	}
	return URLScheme{template: template, hosted: re}, nil
}

func (s URLScheme) Template() string {
	return s.template
}

// PublicURL returns "" when subdomain is empty. Path segments are escaped so
// ids such as "plan#2" stay addressable; servers see the unescaped path.
func (s URLScheme) PublicURL(subdomain, path string) string {
	if subdomain == "" || s.template == "" {
		return ""
	}
	base := strings.ReplaceAll(s.template, subdomainPlaceholder, subdomain)
	return base + "/" + escapePath(strings.TrimLeft(path, "/"))
}

func escapePath(p string) string {
	segs := strings.Split(p, "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	return strings.Join(segs, "/")
}

func (s URLScheme) IsHosted(ref string) bool {
	return s.hosted != nil && s.hosted.MatchString(ref)
}
