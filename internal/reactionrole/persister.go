package reactionrole

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Persister loads and saves the whole reaction-role map.
type Persister interface {
	Load() (map[string]Entry, error)
	Save(entries map[string]Entry) error
}

// FilePersister keeps the map as a single JSON object on disk.
type FilePersister struct {
	path string
}

// NewFilePersister returns a persister for the JSON file at path.
func NewFilePersister(path string) *FilePersister {
	return &FilePersister{path: path}
}

// Path is the file the persister reads and writes.
func (p *FilePersister) Path() string {
	return p.path
}

// Load reads the file. A missing file is created holding an empty object.
func (p *FilePersister) Load() (map[string]Entry, error) {
	data, err := os.ReadFile(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(p.path, []byte("{}"), 0o644); err != nil {
			return nil, fmt.Errorf("initialize %s: %w", p.path, err)
		}
		return map[string]Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p.path, err)
	}

	entries := map[string]Entry{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode %s: %w", p.path, err)
	}
	for id, entry := range entries {
		entry.MessageID = id
		entries[id] = entry
	}
	return entries, nil
}

// Save replaces the file with the full map. The data is written to a
// temporary file in the same directory and renamed over the old one.
func (p *FilePersister) Save(entries map[string]Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode reaction roles: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(p.path), filepath.Base(p.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, p.path)
}
