package imagefetch

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"
)

const defaultContentType = "image/png"

// maxImageBytes bounds a single download so one oversized source cannot
// exhaust the consumer. Bodies over the limit are rejected, never truncated.
const maxImageBytes = 32 << 20

// Fetcher downloads a remote image with a bounded timeout.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Image, error)
}

type Image struct {
	Data        []byte
	ContentType string
	Extension   string
}

type HTTPFetcher struct {
	client   *http.Client
	maxBytes int64
}

func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		maxBytes: maxImageBytes,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build image request: %w", err)
	}

	res, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected image response status %d", res.StatusCode)
	}

	// Read one byte past the limit to tell an at-limit body from an
	// oversized one.
	data, err := io.ReadAll(io.LimitReader(res.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", f.maxBytes)
	}

	contentType := res.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultContentType
	}
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}

	return &Image{
		Data:        data,
		ContentType: contentType,
		Extension:   ExtensionFor(contentType),
	}, nil
}

// ExtensionFor maps a content type to a file extension, preferring the
// conventional spelling for the common image types.
func ExtensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	case "image/svg+xml":
		return "svg"
	}

	exts, err := mime.ExtensionsByType(contentType)
	if err == nil && len(exts) > 0 {
		return strings.TrimPrefix(exts[0], ".")
	}

	return "png"
}
