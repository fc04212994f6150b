package kvstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestMemoryBasicOperations(t *testing.T) {
	m := NewMemory()

	if _, err := m.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := m.Set("a", []byte(`{"n":1}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	v, err := m.Get("a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(v) != `{"n":1}` {
		t.Errorf("got %q", v)
	}

	if err := m.Delete("a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := m.Get("a"); !errors.Is(err, ErrNotFound) {
		t.Error("key should be gone after Delete")
	}

	// Deleting an absent key is a no-op.
	if err := m.Delete("a"); err != nil {
		t.Errorf("Delete of absent key: %v", err)
	}
}

func TestMemoryCopiesValues(t *testing.T) {
	m := NewMemory()
	src := []byte("original")
	if err := m.Set("k", src); err != nil {
		t.Fatal(err)
	}
	src[0] = 'X'

	v, err := m.Get("k")
	if err != nil {
		t.Fatal(err)
	}
	if string(v) != "original" {
		t.Errorf("stored value aliased caller slice: %q", v)
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "kv.json")

	f, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	if err := f.Set("auth", []byte(`{"isAuthenticated":true}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := f.Set("users", []byte(`{"users":[]}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// Simulated restart: a fresh store over the same path sees the data.
	reopened, err := NewFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	v, err := reopened.Get("auth")
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if string(v) != `{"isAuthenticated":true}` {
		t.Errorf("got %q", v)
	}

	if err := reopened.Delete("auth"); err != nil {
		t.Fatal(err)
	}
	again, err := NewFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := again.Get("auth"); !errors.Is(err, ErrNotFound) {
		t.Error("deleted key survived restart")
	}
	if _, err := again.Get("users"); err != nil {
		t.Errorf("untouched key lost: %v", err)
	}
}

func TestFileCorruptContentDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	f, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile on corrupt file: %v", err)
	}
	if _, err := f.Get("anything"); !errors.Is(err, ErrNotFound) {
		t.Errorf("corrupt store should read as empty, got %v", err)
	}

	// And it must be writable again.
	if err := f.Set("k", []byte(`"v"`)); err != nil {
		t.Fatalf("Set after corrupt load: %v", err)
	}
}

func TestFileStoresNonJSONValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.json")
	f, err := NewFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Set("raw", []byte("plain text")); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewFile(path)
	if err != nil {
		t.Fatal(err)
	}
	v, err := reopened.Get("raw")
	if err != nil {
		t.Fatalf("non-JSON value lost across restart: %v", err)
	}
	if string(v) != `"plain text"` {
		t.Errorf("got %q", v)
	}
}
