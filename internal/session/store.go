// Package session holds the access token and the signed-in identity.
package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Store persists a single access token across runs.
type Store interface {
	// Token returns the stored token; the second return is false when
	// no token is stored.
	Token() (string, bool)
	SetToken(token string) error
	Clear() error
}

// FileStore keeps the token in a file under the user's home directory.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Token() (string, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", false
	}
	return token, true
}

func (s *FileStore) SetToken(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(token), 0600)
}

func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	token string
	set   bool
}

func (s *MemStore) Token() (string, bool) {
	return s.token, s.set && s.token != ""
}

func (s *MemStore) SetToken(token string) error {
	s.token = token
	s.set = true
	return nil
}

func (s *MemStore) Clear() error {
	s.token = ""
	s.set = false
	return nil
}
