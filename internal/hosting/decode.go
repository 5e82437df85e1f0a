package hosting

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/roomify-app/roomify-backend/internal/imageconv"
)

const maxImageBytes = 25 << 20

var (
	errNotDataURI       = errors.New("not a data uri")
	errUnsupportedRef   = errors.New("unsupported image reference")
	errImageTooLarge    = errors.New("image exceeds size limit")
	errUnexpectedStatus = errors.New("unexpected status fetching image")
)

// blob is an image's bytes with the content type it was delivered with.
type blob struct {
	data        []byte
	contentType string
}

// splitDataURI returns the media type and payload of a data: URI.
func splitDataURI(ref string) (mediaType, payload string, ok bool) {
	mediaType, _, payload, ok = parseDataURI(ref)
	return mediaType, payload, ok
}

func parseDataURI(ref string) (mediaType string, isBase64 bool, payload string, ok bool) {
	rest, found := strings.CutPrefix(ref, "data:")
	if !found {
		return "", false, "", false
	}
	meta, payload, found := strings.Cut(rest, ",")
	if !found {
		return "", false, "", false
	}
	mediaType, _, _ = strings.Cut(meta, ";")
	return strings.TrimSpace(mediaType), strings.HasSuffix(meta, ";base64"), payload, true
}

func decodeDataURI(ref string) (*blob, error) {
	mediaType, isBase64, payload, ok := parseDataURI(ref)
	if !ok {
		return nil, errNotDataURI
	}

	var data []byte
	if isBase64 {
		b, err := decodeBase64(payload)
		if err != nil {
			return nil, fmt.Errorf("decode data uri: %w", err)
		}
		data = b
	} else {
		s, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("decode data uri: %w", err)
		}
		data = []byte(s)
	}

	if len(data) == 0 {
		return nil, imageconv.ErrEmpty
	}
	if len(data) > maxImageBytes {
		return nil, errImageTooLarge
	}
	return &blob{data: data, contentType: mediaType}, nil
}

// decodeBase64 accepts padded, unpadded and url-safe payloads, as browsers do.
func decodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		case '-':
			return '+'
		case '_':
			return '/'
		}
		return r
	}, s)
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}

// fetchURL downloads an external image.
func fetchURL(ctx context.Context, client *http.Client, ref string) (*blob, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", errUnexpectedStatus, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxImageBytes {
		return nil, errImageTooLarge
	}
	if len(data) == 0 {
		return nil, imageconv.ErrEmpty
	}

	return &blob{data: data, contentType: resp.Header.Get("Content-Type")}, nil
}

func load(ctx context.Context, client *http.Client, ref string) (*blob, error) {
	switch {
	case strings.HasPrefix(ref, "data:"):
		return decodeDataURI(ref)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return fetchURL(ctx, client, ref)
	default:
		return nil, errUnsupportedRef
	}
}
