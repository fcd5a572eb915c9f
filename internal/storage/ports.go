// Package storage defines the durable medium the ledger persists to.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Read when nothing was ever written.
var ErrNotFound = errors.New("snapshot not found")

// Backend stores one opaque blob. Write replaces the previous blob wholesale.
type Backend interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}
