package interfaces

import "context"

// Uploader stores a file and returns its public URL. Submissions and
// payment documents both go through it.
type Uploader interface {
	UploadBytes(ctx context.Context, folder string, filename string, b []byte) (string, error)
}
