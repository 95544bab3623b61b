package file

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Cache implements ports.CacheStore on the local filesystem, one file per
// key. It is the client tier that survives process restarts, the closest
// analog to browser localStorage.
//
// Keys are encoded into filenames (they contain ':' separators which are
// not portable), and writes go through a temp file + rename so a crashed
// save never leaves a truncated draft behind.
type Cache struct {
	BasePath string
}

// New creates a new Cache with the given base path.
// If basePath is empty, it defaults to ".wizard/drafts".
func New(basePath string) *Cache {
	if basePath == "" {
		basePath = filepath.Join(".wizard", "drafts")
	}
	return &Cache{BasePath: basePath}
}

func (c *Cache) fileFor(key string) string {
	name := base64.URLEncoding.EncodeToString([]byte(key))
	return filepath.Join(c.BasePath, name+".json")
}

// GetItem returns the raw value for a key.
func (c *Cache) GetItem(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(c.fileFor(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return data, true, nil
}

// SetItem stores a value atomically (temp file, fsync, rename).
func (c *Cache) SetItem(key string, value []byte) error {
	if err := os.MkdirAll(c.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure cache directory: %w", err)
	}

	destPath := c.fileFor(key)

	// Temp file in the same directory so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(c.BasePath, "tmp-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op if already renamed
	}()

	if _, err := tmpFile.Write(value); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}

	// Close before rename (Windows cannot rename an open file).
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// On Windows, os.Rename fails if dest exists. Remove it first; the
	// tiny delete-then-rename window beats a partially written file.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing entry for overwrite: %w", err)
		}
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file into place: %w", err)
	}

	return nil
}

// RemoveItem deletes a key. Missing keys are not an error.
func (c *Cache) RemoveItem(key string) error {
	err := os.Remove(c.fileFor(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Keys enumerates stored keys with the given prefix. Files whose names do
// not decode are skipped, not surfaced as errors.
func (c *Cache) Keys(prefix string) ([]string, error) {
	entries, err := os.ReadDir(c.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list cache entries: %w", err)
	}

	var keys []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		raw, err := base64.URLEncoding.DecodeString(name)
		if err != nil {
			continue
		}
		key := string(raw)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}

	return keys, nil
}
