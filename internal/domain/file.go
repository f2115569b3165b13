package domain

import (
	"context"
)

// FileRepository stores binary objects (report exports, doctor portraits).
type FileRepository interface {
	// Upload saves a file under key and returns its access URL
	Upload(ctx context.Context, file []byte, key string, contentType string) (string, error)
}
