package storage

import (
	"context"
	"fmt"
)

// Entry is one name directly under a listed prefix.
type Entry struct {
	Name string
	Dir  bool
}

type Storage interface {
	// Put stores data with the given key and returns the storage URL
	Put(ctx context.Context, key string, data []byte) (string, error)
	// Get retrieves data from the given storage URL or key
	Get(ctx context.Context, url string) ([]byte, error)
	// List returns the entries directly under prefix
	List(ctx context.Context, prefix string) ([]Entry, error)
}

type Config struct {
	// Kind is "file" or "s3".
	Kind      string
	Directory string
	Bucket    string
	Prefix    string
}

// New opens the backend named by c.Kind.
func New(ctx context.Context, c Config) (Storage, error) {
	switch c.Kind {
	case "", "file":
		return NewFileStorage(ctx, FileConfig{Directory: c.Directory})
	case "s3":
		if c.Bucket == "" {
			return nil, fmt.Errorf("s3 storage requires a bucket")
		}
		return NewS3Storage(ctx, S3Config{Bucket: c.Bucket, Prefix: c.Prefix})
	}
	return nil, fmt.Errorf("unknown storage kind: %s", c.Kind)
}
