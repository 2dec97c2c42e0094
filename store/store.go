package store

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNotFound = errors.New("key not found")
	ErrCorrupt  = errors.New("corrupt record")
)

// Store is a keyed byte-blob cache. Implementations must be safe for use by
// one extractor at a time; values returned by Get are owned by the caller.
type Store interface {
	Get(key string) ([]byte, error)
	Put(key string, val []byte) error
	Keys(prefix string) ([]string, error) // Ascending byte order
	Close() error
}

// Open selects a backend by name: "badger" or "sqlite". An empty path opens
// an in-memory store.
func Open(backend, path string) (Store, error) {
	switch backend {
	case "", "badger":
		return OpenBadger(path)
	case "sqlite":
		return OpenSQLite(path)
	}
	return nil, fmt.Errorf("unknown store backend %q", backend)
}

// IsNotFound reports whether err stems from a missing key
func IsNotFound(err error) bool {
	return errors.Cause(err) == ErrNotFound
}

func EdgesKey(name string, t0, t1 int) string {
	return fmt.Sprintf("%s.pe.%d.%d", name, t0, t1)
}

func FacesKey(name string, t int) string {
	return fmt.Sprintf("%s.pf.%d", name, t)
}

func MatrixKey(name string, t0, t1 int) string {
	return fmt.Sprintf("%s.tm.%d.%d", name, t0, t1)
}

// MatrixPrefix selects every transition matrix of a data set
func MatrixPrefix(name string) string {
	return name + ".tm."
}

func LinesKey(name string, t int) string {
	return fmt.Sprintf("%s.vlines.%d", name, t)
}

func MeshKey(name string) string {
	return name + ".mg"
}
