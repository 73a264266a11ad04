package chat

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// SaveThread writes thread into the history file at path, replacing any
// stored thread with the same ID. The file holds a JSON array of threads.
func SaveThread(path string, thread *Thread) error {
	if path == "" || thread == nil || thread.ID == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	threads, err := loadAll(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	replaced := false
	for i := range threads {
		if threads[i].ID == thread.ID {
			threads[i] = *thread
			replaced = true
			break
		}
	}
	if !replaced {
		threads = append(threads, *thread)
	}
	return writeAll(path, threads)
}

// LoadThread returns the stored thread with the given id, or nil when the
// file or the thread does not exist.
func LoadThread(path, id string) (*Thread, error) {
	threads, err := loadAll(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	for i := range threads {
		if threads[i].ID == id {
			t := threads[i]
			return &t, nil
		}
	}
	return nil, nil
}

// ListThreads returns every stored thread, oldest first.
func ListThreads(path string) ([]Thread, error) {
	threads, err := loadAll(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return threads, nil
}

func loadAll(path string) ([]Thread, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var threads []Thread
	if err := json.Unmarshal(data, &threads); err != nil {
		return nil, err
	}
	return threads, nil
}

func writeAll(path string, threads []Thread) error {
	data, err := json.MarshalIndent(threads, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
