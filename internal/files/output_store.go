package files

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/harrylevesque/boardbot/internal/crypto"
)

const indexFileName = "results.json"

// SavedResult is one entry of the output index.
type SavedResult struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Path      string    `json:"path"`
	MimeType  string    `json:"mime_type"`
	Digest    string    `json:"digest"`
	CreatedAt time.Time `json:"created_at"`
}

// OutputStore keeps processed images in a directory together with a JSON
// index describing them.
type OutputStore struct {
	dir string
	mu  sync.Mutex
}

// NewOutputStore creates dir if needed.
func NewOutputStore(dir string) (*OutputStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &OutputStore{dir: dir}, nil
}

func (s *OutputStore) Dir() string { return s.dir }

// Save writes res under a fresh uuid name and records it in the index.
// source is the locator of the image that was uploaded.
func (s *OutputStore) Save(res *Resource, source string) (*SavedResult, error) {
	if res == nil || len(res.Data) == 0 {
		return nil, errors.New("nothing to save")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.readIndex()
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	path := filepath.Join(s.dir, id+res.Extension())
	if err := os.WriteFile(path, res.Data, 0644); err != nil {
		return nil, fmt.Errorf("write result: %w", err)
	}

	saved := SavedResult{
		ID:        id,
		Source:    source,
		Path:      path,
		MimeType:  res.MimeType,
		Digest:    crypto.Digest(res.Data),
		CreatedAt: time.Now().UTC(),
	}
	entries = append(entries, saved)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(s.dir, indexFileName), data, 0644); err != nil {
		return nil, fmt.Errorf("write index: %w", err)
	}
	return &saved, nil
}

// List returns every saved result, oldest first.
func (s *OutputStore) List() ([]SavedResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readIndex()
}

func (s *OutputStore) readIndex() ([]SavedResult, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, indexFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // File doesn't exist, that's fine
		}
		return nil, err
	}
	var entries []SavedResult
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse index: %w", err)
	}
	return entries, nil
}
