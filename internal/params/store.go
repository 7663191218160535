package params

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

const (
	dataDirName = "d"
	tmpDirName  = ".tmp"
)

// ErrUnknownKey is returned when writing a key that is not in the registry.
var ErrUnknownKey = errors.New("unknown param key")

// Store is a file-per-key view of the device params directory. Reads never fail: a missing,
// unreadable or unknown key reads as the zero value.
type Store struct {
	root string
	mu   sync.Mutex
}

func Open(root string) (*Store, error) {
	root = filepath.Clean(strings.TrimSpace(root))
	if root == "" || root == "." {
		return nil, errors.New("params root is required")
	}
	for _, dir := range []string{filepath.Join(root, dataDirName), filepath.Join(root, tmpDirName)} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create params dir: %w", err)
		}
	}

	return &Store{root: root}, nil
}

// Path returns the params root; watched files live under Path()/d.
func (s *Store) Path() string {
	return s.root
}

func (s *Store) KeyPath(key string) string {
	return filepath.Join(s.root, dataDirName, key)
}

func (s *Store) dataDir() string {
	return filepath.Join(s.root, dataDirName)
}

func (s *Store) Get(key string) string {
	if !IsKnownKey(key) {
		return ""
	}
	// #nosec G304 -- key is restricted to the registry above.
	raw, err := os.ReadFile(s.KeyPath(key))
	if err != nil {
		return ""
	}

	return string(raw)
}

func (s *Store) GetBool(key string) bool {
	return s.Get(key) == "1"
}

func (s *Store) GetInt(key string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s.Get(key)))
	if err != nil {
		return 0
	}

	return v
}

func (s *Store) Put(key, value string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Join(s.root, tmpDirName), key+".*")
	if err != nil {
		return fmt.Errorf("create temp param: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.WriteString(value); err != nil {
		cleanup()
		return fmt.Errorf("write param %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("sync param %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close param %s: %w", key, err)
	}
	if err := os.Rename(tmpPath, s.KeyPath(key)); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename param %s: %w", key, err)
	}

	return nil
}

func (s *Store) PutBool(key string, value bool) error {
	if value {
		return s.Put(key, "1")
	}

	return s.Put(key, "0")
}

// Remove deletes key; a missing key is not an error.
func (s *Store) Remove(key string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.KeyPath(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove param %s: %w", key, err)
	}

	return nil
}
