package database

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

var (
	// ErrStoreNotFound is returned when the store file does not exist
	ErrStoreNotFound = errors.New("no telemetry store found")
	// ErrStoreCorrupt is returned when the store file is not a JSON array
	ErrStoreCorrupt = errors.New("telemetry store is corrupt")
)

// JSONFile is a single file holding a JSON array of raw entries
type JSONFile struct {
	path string
}

// InitializeStore makes sure the store file exists, creating it with an empty
// array when absent. An existing file is left untouched.
func InitializeStore(path string) (*JSONFile, error) {
	f := &JSONFile{path: path}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	if _, err := os.Stat(path); err == nil {
		return f, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat store: %w", err)
	}

	if err := f.Write(nil); err != nil {
		return nil, err
	}

	fmt.Printf("✅ Telemetry store created at %s\n", path)
	return f, nil
}

// NewJSONFile returns a handle without touching the filesystem
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Path returns the store file location
func (f *JSONFile) Path() string {
	return f.path
}

// Read returns every entry in file order. A missing file yields
// ErrStoreNotFound; anything that is not a JSON array yields ErrStoreCorrupt.
func (f *JSONFile) Read() ([]json.RawMessage, error) {
	content, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("failed to read store: %w", err)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(content, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreCorrupt, err)
	}

	// entries come back compact regardless of file indentation
	for i, entry := range entries {
		var buf bytes.Buffer
		if err := json.Compact(&buf, entry); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreCorrupt, err)
		}
		entries[i] = buf.Bytes()
	}

	return entries, nil
}

// Write replaces the whole file with entries. The array is written to a temp
// file in the same directory and renamed over the store.
func (f *JSONFile) Write(entries []json.RawMessage) error {
	if entries == nil {
		entries = []json.RawMessage{}
	}

	// entries are stored as sent, so no HTML escaping
	var data bytes.Buffer
	enc := json.NewEncoder(&data)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp store: %w", err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to chmod temp store: %w", err)
	}

	if _, err := tmp.Write(data.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp store: %w", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace store: %w", err)
	}

	return nil
}

// Quarantine copies the current file contents next to the store so a rewrite
// does not destroy them. It returns the path of the copy.
func (f *JSONFile) Quarantine() (string, error) {
	content, err := os.ReadFile(f.path)
	if err != nil {
		return "", fmt.Errorf("failed to read store for quarantine: %w", err)
	}

	dest := f.path + ".corrupt-" + strconv.FormatInt(time.Now().UnixNano(), 10)
	if err := os.WriteFile(dest, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write quarantine file: %w", err)
	}

	return dest, nil
}

// Ping reports whether the store directory is reachable
func (f *JSONFile) Ping() error {
	dir := filepath.Dir(f.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("failed to stat store directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("store directory %s is not a directory", dir)
	}
	return nil
}
