// Package cache defines a small key/value cache with per-key expiry.
//
// Values are stored as bytes. Set accepts a string, a []byte or an
// encoding.BinaryMarshaler; Get fills a *string, a *[]byte or an
// encoding.BinaryUnmarshaler.
package cache

import (
	"context"
	"encoding"
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("key not found in cache")
	ErrInvalidValue = errors.New("invalid value for cache")
	ErrClosed       = errors.New("cache is closed")
	ErrInvalidKey   = errors.New("invalid cache key")
)

type Cache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	Get(ctx context.Context, key string, value interface{}) error

	Delete(ctx context.Context, key string) error

	Clear(ctx context.Context) error

	Close() error
}

type Options struct {
	// DefaultTTL applies when Set is called with ttl 0.
	DefaultTTL time.Duration

	// CleanupInterval is how often the memory cache sweeps expired keys.
	CleanupInterval time.Duration

	// Prefix namespaces every key.
	Prefix string
}

func DefaultOptions() Options {
	return Options{
		DefaultTTL:      time.Hour,
		CleanupInterval: time.Minute * 5,
		Prefix:          "hrpanel:",
	}
}

// Encode converts a Set value to bytes.
func Encode(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return append([]byte(nil), v...), nil
	case encoding.BinaryMarshaler:
		return v.MarshalBinary()
	default:
		return nil, ErrInvalidValue
	}
}

// Decode fills a Get target from bytes.
func Decode(data []byte, value interface{}) error {
	switch v := value.(type) {
	case *string:
		*v = string(data)
	case *[]byte:
		*v = append([]byte(nil), data...)
	case encoding.BinaryUnmarshaler:
		return v.UnmarshalBinary(data)
	default:
		return ErrInvalidValue
	}
	return nil
}

// CheckKey rejects empty keys.
func CheckKey(key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	return nil
}
