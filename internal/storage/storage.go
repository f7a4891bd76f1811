// Package storage stores uploaded files and returns their public URLs.
package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Object is an uploaded file held in memory.
type Object struct {
	Name        string
	Data        []byte
	ContentType string
}

// Store saves objects and returns the URL they are served from.
type Store interface {
	Put(ctx context.Context, obj Object) (string, error)
}

// ObjectName builds the stored name of an upload: the upload time in unix
// milliseconds followed by the client's base file name.
func ObjectName(now time.Time, original string) string {
	base := filepath.Base(strings.ReplaceAll(original, `\`, "/"))
	if base == "." || base == "/" || base == "" {
		base = "upload"
	}
	return fmt.Sprintf("%d-%s", now.UnixMilli(), base)
}
