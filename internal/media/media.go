package media

import (
	"context"
	"io"
)

// Store uploads binary media to external object storage and returns a
// publicly servable URL.
type Store interface {
	Upload(ctx context.Context, filename string, r io.Reader) (url string, err error)
}
