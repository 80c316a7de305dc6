// Package store persists generated fixtures. Keys are fixture file names
// relative to the output root; drivers map them onto a directory, process
// memory or an S3 bucket.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/config"
)

// Driver identifies a concrete store backend.
type Driver string

const (
	DriverFilesystem Driver = config.DriverFilesystem
	DriverMemory     Driver = config.DriverMemory
	DriverS3         Driver = config.DriverS3
)

// ContentTypeJSON is the content type every fixture is written with.
const ContentTypeJSON = "application/json"

// ErrNotFound is returned by Get when no fixture exists under the key.
var ErrNotFound = errors.New("store: fixture not found")

// PutOptions specifies optional parameters for Put.
type PutOptions struct {
	ContentType string
	Metadata    map[string]string
}

// Info describes a stored fixture.
type Info struct {
	Key          string            `json:"key"`
	Size         int64             `json:"size_bytes"`
	ContentType  string            `json:"content_type,omitempty"`
	ETag         string            `json:"etag,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	LastModified time.Time         `json:"last_modified"`
}

// Store writes and reads fixtures. Put replaces any existing fixture under
// the same key so reruns regenerate the output set in place.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error)
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)
	// List returns fixtures whose key has prefix, ordered by key.
	List(ctx context.Context, prefix string) ([]Info, error)
	Driver() Driver
}

// Open selects a Store implementation from cfg. root is the output
// directory for the fs driver and is ignored by the others.
func Open(ctx context.Context, cfg config.StoreConfig, root string) (Store, error) {
	switch Driver(cfg.Driver) {
	case "", DriverFilesystem:
		return NewFilesystem(root)
	case DriverMemory:
		return NewMemory(), nil
	case DriverS3:
		return NewS3(ctx, S3Config{
			Bucket:          cfg.S3.Bucket,
			Prefix:          cfg.S3.Prefix,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			PathStyle:       cfg.S3.PathStyle,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		})
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func cloneMetadata(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
