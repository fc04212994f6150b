package kvstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// File is a Store backed by a single JSON document on disk.
//
// Writes are synchronous: every Set and Delete rewrites the file via a
// temp-file rename so a crash mid-write never leaves a torn document.
// A missing or corrupt file loads as empty; durable data is best-effort
// demo state, not a system of record.
type File struct {
	mu     sync.Mutex
	path   string
	values map[string]json.RawMessage
}

// NewFile opens (or creates) a file store at path. Parent directories
// are created as needed.
func NewFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}

	f := &File{
		path:   path,
		values: make(map[string]json.RawMessage),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return nil, err
	}

	// Corrupt content degrades to an empty store rather than erroring.
	var stored map[string]json.RawMessage
	if err := json.Unmarshal(data, &stored); err == nil && stored != nil {
		f.values = stored
	}

	return f, nil
}

// Get retrieves the value for key.
func (f *File) Get(key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	v, ok := f.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Set stores or replaces the value for key and flushes to disk.
func (f *File) Set(key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !json.Valid(value) {
		// Non-JSON values are stored as a JSON string so the document
		// stays parseable on reload.
		encoded, err := json.Marshal(string(value))
		if err != nil {
			return err
		}
		value = encoded
	}

	v := make(json.RawMessage, len(value))
	copy(v, value)
	f.values[key] = v
	return f.flush()
}

// Delete removes the key and flushes to disk.
func (f *File) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.values[key]; !ok {
		return nil
	}
	delete(f.values, key)
	return f.flush()
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.path
}

// flush writes the document atomically. Callers hold f.mu. Compact
// encoding keeps RawMessage values byte-exact across a reload.
func (f *File) flush() error {
	data, err := json.Marshal(f.values)
	if err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

var _ Store = (*File)(nil)
