// Package snapshot persists named collections as whole-value snapshots. It is
// the only I/O boundary of the booking engine.
package snapshot

import (
	"context"
	"errors"
	"fmt"
)

// Collection keys.
const (
	KeyAttendees   = "attendees"
	KeyWorkshops   = "workshops"
	KeyExhibitions = "exhibitions"
	KeyConfig      = "config"
)

// ErrNotExist is returned by Load when no snapshot was ever saved for a key.
var ErrNotExist = errors.New("snapshot does not exist")

// ErrCorrupt is returned by Load when a snapshot exists but cannot be decoded.
var ErrCorrupt = errors.New("snapshot is corrupt")

// Entry pairs a collection key with the value to persist under it.
type Entry struct {
	Key   string
	Value any
}

// Store saves and loads snapshots.
//
// Save replaces every given key or reports an error; on error the previously
// persisted content of each key must still be readable. Load decodes the
// snapshot for key into dst.
type Store interface {
	Save(ctx context.Context, entries ...Entry) error
	Load(ctx context.Context, key string, dst any) error
}

func encodeAll(codec Codec, entries []Entry) ([][]byte, error) {
	out := make([][]byte, len(entries))
	for i, e := range entries {
		if e.Key == "" {
			return nil, fmt.Errorf("snapshot key is required")
		}
		b, err := codec.Marshal(e.Value)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", e.Key, err)
		}
		out[i] = b
	}
	return out, nil
}

// Decode unmarshals raw snapshot bytes, tagging decode failures as ErrCorrupt.
func Decode(codec Codec, key string, data []byte, dst any) error {
	if err := codec.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return nil
}
