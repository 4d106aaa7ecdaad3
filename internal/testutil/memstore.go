package testutil

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/dalemusser/waffle/pantry/storage"
)

// MemStore is an in-memory fileupload.Store.
type MemStore struct {
	mu     sync.Mutex
	Files  map[string][]byte
	Prefix string
}

// NewMemStore returns a MemStore serving URLs under prefix.
func NewMemStore(prefix string) *MemStore {
	return &MemStore{Files: map[string][]byte{}, Prefix: prefix}
}

func (m *MemStore) Put(_ context.Context, path string, r io.Reader, _ *storage.PutOptions) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Files[path] = buf.Bytes()
	return nil
}

func (m *MemStore) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Files, path)
	return nil
}

func (m *MemStore) URL(path string) string { return m.Prefix + "/" + path }

// Has reports whether path is stored.
func (m *MemStore) Has(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Files[path]
	return ok
}
