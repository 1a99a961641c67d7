// Package attachments stores files uploaded with office-info records
// (licence scans, invoices) on local disk or in an S3 bucket.
package attachments

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Store persists attachment content under generated keys
type Store interface {
	Put(ctx context.Context, key string, body io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// NewKey returns a collision-free storage key for an uploaded file,
// keeping only its extension: "assets/<uuid>.<ext>"
func NewKey(filename string) string {
	name := uuid.NewString()
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if i := strings.LastIndex(base, "."); i > 0 && i < len(base)-1 {
		name += "." + strings.ToLower(base[i+1:])
	}
	return path.Join("assets", name)
}
