package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/swasthya-bot/server/internal/agent/model"
	errx "github.com/swasthya-bot/server/internal/core/error"
)

// FileSubscriberStore keeps the subscriber list as an indented JSON array.
// A missing file reads as an empty list.
type FileSubscriberStore struct {
	path string
	mu   sync.Mutex
}

func NewFileSubscriberStore(path string) *FileSubscriberStore {
	return &FileSubscriberStore{path: path}
}

func (f *FileSubscriberStore) Load(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read()
}

// Add re-reads the file before appending, so entries written by others since
// the last call are kept.
func (f *FileSubscriberStore) Add(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	subs, err := f.read()
	if err != nil {
		return false, err
	}
	if slices.Contains(subs, id) {
		return false, nil
	}
	if err := f.write(append(subs, id)); err != nil {
		return false, err
	}
	return true, nil
}

func (f *FileSubscriberStore) read() ([]string, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, errx.WrapPersistence(fmt.Errorf("read %s: %w", f.path, err))
	}
	var subs []string
	if err := json.Unmarshal(raw, &subs); err != nil {
		return nil, errx.WrapPersistence(fmt.Errorf("decode %s: %w", f.path, err))
	}
	if subs == nil {
		subs = []string{}
	}
	return subs, nil
}

// write goes through a temporary file renamed over the target.
func (f *FileSubscriberStore) write(subscribers []string) error {
	raw, err := json.MarshalIndent(subscribers, "", "    ")
	if err != nil {
		return fmt.Errorf("encode subscribers: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".subscribers-*.json")
	if err != nil {
		return errx.WrapPersistence(err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return errx.WrapPersistence(err)
	}
	if err := tmp.Close(); err != nil {
		return errx.WrapPersistence(err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return errx.WrapPersistence(err)
	}
	return nil
}

var _ model.SubscriberStore = (*FileSubscriberStore)(nil)
