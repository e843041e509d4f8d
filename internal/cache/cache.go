// Package cache provides on-disk memoization of generation runs, keyed by
// the SHA-256 digest of the grammar description text. It lets repeated runs
// over an unchanged grammar skip re-running the analyzer and emitter.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dekarrin/rezi"

	"github.com/dekarrin/ll1gen"
)

// ErrMiss is returned by Get when no entry exists for the given key.
var ErrMiss = errors.New("cache: no entry for key")

// Key returns the cache key for the given grammar description text: the
// hex-encoded SHA-256 digest of its bytes.
func Key(grammarText string) string {
	sum := sha256.Sum256([]byte(grammarText))
	return hex.EncodeToString(sum[:])
}

// Entry is one memoized generation run: the full ll1gen.GenerationResult
// plus the content hash and timestamp it was produced under.
type Entry struct {
	Key         string
	GrammarText string
	Result      ll1gen.GenerationResult
	Created     time.Time
}

// MarshalBinary encodes e with REZI. It satisfies encoding.BinaryMarshaler
// so callers never need to reach for rezi directly.
func (e Entry) MarshalBinary() ([]byte, error) {
	return rezi.EncBinary(e), nil
}

// UnmarshalBinary decodes data produced by MarshalBinary into e. It
// satisfies encoding.BinaryUnmarshaler.
func (e *Entry) UnmarshalBinary(data []byte) error {
	n, err := rezi.DecBinary(data, e)
	if err != nil {
		return err
	}
	if n != len(data) {
		return fmt.Errorf("consumed %d/%d bytes", n, len(data))
	}
	return nil
}

// Cache stores Entry values as REZI-encoded files under a directory.
type Cache struct {
	dir string
}

// Open returns a Cache rooted at dir, creating dir if it does not exist.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0770); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".rezi")
}

// Get retrieves the Entry stored under key. It returns ErrMiss if no entry
// is present.
func (c *Cache) Get(key string) (Entry, error) {
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return Entry{}, ErrMiss
		}
		return Entry{}, fmt.Errorf("read cache entry: %w", err)
	}

	var entry Entry
	if err := entry.UnmarshalBinary(data); err != nil {
		return Entry{}, fmt.Errorf("decode cache entry: %w", err)
	}

	return entry, nil
}

// Put stores entry under its Key, overwriting any existing entry.
func (c *Cache) Put(entry Entry) error {
	data, err := entry.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := os.WriteFile(c.path(entry.Key), data, 0660); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Delete removes the entry stored under key, if any. It is not an error for
// no entry to exist.
func (c *Cache) Delete(key string) error {
	err := os.Remove(c.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete cache entry: %w", err)
	}
	return nil
}
