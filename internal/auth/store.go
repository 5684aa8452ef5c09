package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/oauth2"
)

// ErrTokenNotSet indicates no OAuth token is available in the store.
var ErrTokenNotSet = errors.New("no token defined")

// Store persists the OAuth2 token between runs.
type Store interface {
	Load() (*oauth2.Token, error)
	Save(tok *oauth2.Token) error
	Delete() error
}

// FileStore keeps the token as a single JSON record on disk.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the token from disk. Returns ErrTokenNotSet if the file
// doesn't exist yet.
func (s *FileStore) Load() (*oauth2.Token, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrTokenNotSet
		}

		return nil, fmt.Errorf("os.Open failed: %w", err)
	}
	defer func() { _ = f.Close() }()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("json.NewDecoder.Decode failed: %w", err)
	}

	return tok, nil
}

// Save writes the token to disk, replacing any previous record.
func (s *FileStore) Save(tok *oauth2.Token) error {
	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("os.OpenFile failed: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewEncoder(f).Encode(tok); err != nil {
		return fmt.Errorf("json.NewEncoder.Encode failed: %w", err)
	}

	return nil
}

// Delete removes the token record. Deleting an absent record is not an error.
func (s *FileStore) Delete() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("os.Remove failed: %w", err)
	}

	return nil
}
