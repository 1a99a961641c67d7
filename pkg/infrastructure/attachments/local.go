package attachments

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	securejoin "github.com/cyphar/filepath-securejoin"
)

// LocalStore keeps attachments below a root directory
type LocalStore struct {
	root string
}

// NewLocalStore creates a store rooted at root, creating it if needed
func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create attachments root %s: %w", root, err)
	}
	return &LocalStore{root: root}, nil
}

var _ Store = (*LocalStore)(nil)

// resolve maps a key to a path that cannot escape the root
func (s *LocalStore) resolve(key string) (string, error) {
	p, err := securejoin.SecureJoin(s.root, key)
	if err != nil {
		return "", fmt.Errorf("invalid attachment key %q: %w", key, err)
	}
	return p, nil
}

func (s *LocalStore) Put(_ context.Context, key string, body io.Reader) error {
	p, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return fmt.Errorf("failed to create attachment directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create attachment file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write attachment: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write attachment: %w", err)
	}
	return os.Rename(tmp.Name(), p)
}

func (s *LocalStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	p, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("failed to open attachment %s: %w", key, err)
	}
	return f, nil
}

func (s *LocalStore) Delete(_ context.Context, key string) error {
	p, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete attachment %s: %w", key, err)
	}
	return nil
}
