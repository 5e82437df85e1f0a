package hosting

import (
	"mime"
	"net/url"
	"path"
	"strings"
)

var extByType = map[string]string{
	"image/png":     "png",
	"image/jpeg":    "jpg",
	"image/jpg":     "jpg",
	"image/webp":    "webp",
	"image/gif":     "gif",
	"image/svg+xml": "svg",
	"image/bmp":     "bmp",
	"image/avif":    "avif",
	"image/heic":    "heic",
}

var typeByExt = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"webp": "image/webp",
	"gif":  "image/gif",
	"svg":  "image/svg+xml",
	"bmp":  "image/bmp",
	"avif": "image/avif",
	"heic": "image/heic",
}

const defaultExt = "png"

// ExtensionFor picks a file extension from the content type, then from the
// original reference, then defaults to png.
func ExtensionFor(contentType, ref string) string {
	if ext, ok := extByType[baseType(contentType)]; ok {
		return ext
	}

	if strings.HasPrefix(ref, "data:") {
		if mt, _, ok := splitDataURI(ref); ok {
			if ext, ok := extByType[baseType(mt)]; ok {
				return ext
			}
		}
		return defaultExt
	}

	if u, err := url.Parse(ref); err == nil {
		ext := strings.ToLower(strings.TrimPrefix(path.Ext(u.Path), "."))
		if ext == "jpeg" {
			ext = "jpg"
		}
		if _, ok := typeByExt[ext]; ok {
			return ext
		}
	}
	return defaultExt
}

// ContentTypeForPath maps a stored file name back to its media type.
func ContentTypeForPath(p string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
	if ct, ok := typeByExt[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(path.Ext(p)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func baseType(ct string) string {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(ct))
	}
	return mt
}
