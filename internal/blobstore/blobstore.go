// Package blobstore provides a narrow adapter over durable key-addressed
// binary storage. The pipeline's two sides coordinate exclusively through
// this key space: the worker writes derived result objects, the poller
// watches for their appearance.
package blobstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key does not exist. Head reports
// absence as (false, nil) instead, because "not there yet" is the normal
// state during the async handoff.
var ErrNotFound = errors.New("blobstore: object not found")

// Store is the contract the pipeline requires from the storage layer.
type Store interface {
	// Put writes body under key. Writes through this adapter are
	// create-only: a concurrent duplicate write of the same key must not
	// produce a second version or an error for the loser.
	Put(ctx context.Context, key string, body []byte, contentType string) error

	// Get returns the full body stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Head reports whether key exists. Absence is (false, nil); any other
	// failure is (false, err).
	Head(ctx context.Context, key string) (bool, error)

	// List returns the keys under prefix in lexical order.
	List(ctx context.Context, prefix string) ([]string, error)

	// SignedURL returns a time-limited read URL for key. The URL expires
	// after ttl and must not be treated as a permanent reference.
	SignedURL(key string, ttl time.Duration) (string, error)
}
