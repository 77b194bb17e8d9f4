package blob

import "context"

// Store is object storage for recipe images. Keys are deterministic per
// recipe, so re-uploading overwrites instead of accumulating orphans.
type Store interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	PublicURL(key string) string
}
