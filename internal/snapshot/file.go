package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps one file per key in a directory. Saves write every entry to
// a temporary file first and only then rename them into place, so a failed
// save never truncates a previous snapshot.
type FileStore struct {
	dir   string
	codec Codec
}

// NewFileStore creates dir if needed and returns a store writing with codec.
func NewFileStore(dir string, codec Codec) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("snapshot directory is required")
	}
	if codec == nil {
		codec = JSON
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}
	return &FileStore{dir: dir, codec: codec}, nil
}

// Path returns the file that holds key.
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.dir, key+s.codec.Ext())
}

// Save writes all entries or none of them.
func (s *FileStore) Save(ctx context.Context, entries ...Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payloads, err := encodeAll(s.codec, entries)
	if err != nil {
		return err
	}

	temps := make([]string, 0, len(entries))
	cleanup := func() {
		for _, t := range temps {
			_ = os.Remove(t)
		}
	}
	for i, e := range entries {
		tmp, err := writeTemp(s.dir, e.Key, payloads[i])
		if err != nil {
			cleanup()
			return fmt.Errorf("write %s: %w", e.Key, err)
		}
		temps = append(temps, tmp)
	}

	for i, e := range entries {
		if err := os.Rename(temps[i], s.Path(e.Key)); err != nil {
			// Earlier keys are already replaced; the rest keep their old content.
			temps = temps[i:]
			cleanup()
			return fmt.Errorf("replace %s: %w", e.Key, err)
		}
	}
	return nil
}

// Load decodes the snapshot for key into dst.
func (s *FileStore) Load(ctx context.Context, key string, dst any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotExist
		}
		return fmt.Errorf("read %s: %w", key, err)
	}
	return Decode(s.codec, key, data, dst)
}

func writeTemp(dir, key string, data []byte) (string, error) {
	f, err := os.CreateTemp(dir, key+".*.tmp")
	if err != nil {
		return "", err
	}
	name := f.Name()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(name)
		return "", err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(name)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return "", err
	}
	return name, nil
}
