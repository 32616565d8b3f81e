// Package source fetches result bundles from the local filesystem or blob storage.
package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/autograde/autograde/pkg/report"
)

// BundleStore abstracts where result bundles are read from.
type BundleStore interface {
	GetBundle(ctx context.Context, key string) ([]byte, error)
}

// LocalStorage implements BundleStore using the local filesystem.
// Relative keys are resolved against BaseDir.
type LocalStorage struct {
	BaseDir string
}

// NewLocalStorage creates a LocalStorage rooted at the given directory.
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{BaseDir: baseDir}
}

func (s *LocalStorage) path(key string) string {
	if filepath.IsAbs(key) || s.BaseDir == "" {
		return key
	}
	return filepath.Join(s.BaseDir, key)
}

// GetBundle reads a bundle file.
func (s *LocalStorage) GetBundle(ctx context.Context, key string) ([]byte, error) {
	return os.ReadFile(s.path(key))
}

// Scheme identifies the backend of a bundle reference.
type Scheme string

const (
	SchemeFile Scheme = "file"
	SchemeS3   Scheme = "s3"
	SchemeGCS  Scheme = "gs"
)

// Ref is a parsed bundle reference: a path, s3://bucket/key or gs://bucket/key.
type Ref struct {
	Scheme Scheme
	Bucket string
	Key    string
}

func (r Ref) String() string {
	if r.Scheme == SchemeFile {
		return r.Key
	}
	return string(r.Scheme) + "://" + r.Bucket + "/" + r.Key
}

// IsLocal reports whether the bundle lives on the local filesystem.
func (r Ref) IsLocal() bool { return r.Scheme == SchemeFile }

// ParseRef splits a bundle reference into backend, bucket and key.
func ParseRef(raw string) (Ref, error) {
	if raw == "" {
		return Ref{}, fmt.Errorf("empty bundle reference")
	}

	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return Ref{Scheme: SchemeFile, Key: raw}, nil
	}

	switch Scheme(scheme) {
	case SchemeFile:
		if rest == "" {
			return Ref{}, fmt.Errorf("bundle reference %q has no path", raw)
		}
		return Ref{Scheme: SchemeFile, Key: rest}, nil
	case SchemeS3, SchemeGCS:
		bucket, key, _ := strings.Cut(rest, "/")
		if bucket == "" || key == "" {
			return Ref{}, fmt.Errorf("bundle reference %q must name a bucket and a key", raw)
		}
		return Ref{Scheme: Scheme(scheme), Bucket: bucket, Key: key}, nil
	default:
		return Ref{}, fmt.Errorf("unsupported bundle scheme %q", scheme)
	}
}

// Open returns the store that serves ref.
func Open(ctx context.Context, ref Ref, s3cfg S3Config) (BundleStore, error) {
	switch ref.Scheme {
	case SchemeFile:
		return NewLocalStorage(""), nil
	case SchemeS3:
		s3cfg.Bucket = ref.Bucket
		return NewS3Storage(ctx, s3cfg)
	case SchemeGCS:
		return NewGCSStorage(ctx, ref.Bucket)
	default:
		return nil, fmt.Errorf("unsupported bundle scheme %q", ref.Scheme)
	}
}

// Fetch reads and decodes the bundle behind ref from store.
func Fetch(ctx context.Context, store BundleStore, ref Ref) (*report.Bundle, error) {
	data, err := store.GetBundle(ctx, ref.Key)
	if err != nil {
		return nil, fmt.Errorf("fetch bundle %s: %w", ref, err)
	}
	b, err := report.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode bundle %s: %w", ref, err)
	}
	return b, nil
}
