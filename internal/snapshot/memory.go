package snapshot

import (
	"context"
	"sync"
)

// Memory is an in-process store. It still encodes every value, so loads never
// alias saved collections. Used for ephemeral runs and tests.
type Memory struct {
	mu    sync.Mutex
	codec Codec
	data  map[string][]byte
}

// NewMemory returns an empty in-memory store using the JSON codec.
func NewMemory() *Memory {
	return &Memory{codec: JSON, data: make(map[string][]byte)}
}

func (m *Memory) Save(ctx context.Context, entries ...Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payloads, err := encodeAll(m.codec, entries)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range entries {
		m.data[e.Key] = payloads[i]
	}
	return nil
}

func (m *Memory) Load(ctx context.Context, key string, dst any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	data, ok := m.data[key]
	m.mu.Unlock()
	if !ok {
		return ErrNotExist
	}
	return Decode(m.codec, key, data, dst)
}

// Raw returns the encoded snapshot for key, if any.
func (m *Memory) Raw(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	return b, ok
}

// Put stores raw bytes under key, bypassing the codec.
func (m *Memory) Put(key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
}
