package repo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BuzzLyutic/taskhub/internal/model"
)

// VaultStore serves the markdown files under a directory. Document ids are
// slash-separated paths relative to the root.
type VaultStore struct {
	root string
}

func NewVaultStore(root string) *VaultStore {
	return &VaultStore{root: root}
}

func (s *VaultStore) Root() string {
	return s.root
}

func (s *VaultStore) List(ctx context.Context) ([]model.DocumentRef, error) {
	var refs []model.DocumentRef
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == s.root {
				return err
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if path != s.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsDocument(path) {
			return nil
		}
		if ref, ok := s.RefFor(path); ok {
			refs = append(refs, ref)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list vault %s: %w", s.root, err)
	}
	return refs, nil
}

func (s *VaultStore) Read(ctx context.Context, ref model.DocumentRef) (string, error) {
	path, err := s.path(ref)
	if err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrRead, ref.ID, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w %s: %w", ErrRead, ref.ID, ErrorNotFound)
		}
		return "", fmt.Errorf("%w %s: %v", ErrRead, ref.ID, err)
	}
	return string(data), nil
}

// Write replaces the file through a temp file and rename so readers never see
// a partial document.
func (s *VaultStore) Write(ctx context.Context, ref model.DocumentRef, text string) error {
	path, err := s.path(ref)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrWrite, ref.ID, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w %s: %w", ErrWrite, ref.ID, ErrorNotFound)
		}
		return fmt.Errorf("%w %s: %v", ErrWrite, ref.ID, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".taskhub-*")
	if err != nil {
		return fmt.Errorf("%w %s: %v", ErrWrite, ref.ID, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		return fmt.Errorf("%w %s: %v", ErrWrite, ref.ID, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w %s: %v", ErrWrite, ref.ID, err)
	}
	if err := os.Chmod(tmpName, info.Mode().Perm()); err != nil {
		return fmt.Errorf("%w %s: %v", ErrWrite, ref.ID, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w %s: %v", ErrWrite, ref.ID, err)
	}
	return nil
}

// RefFor maps a filesystem path inside the vault to its document ref.
func (s *VaultStore) RefFor(path string) (model.DocumentRef, bool) {
	rel, err := filepath.Rel(s.root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return model.DocumentRef{}, false
	}
	return model.DocumentRef{ID: filepath.ToSlash(rel)}, true
}

// path resolves ref to a markdown file inside the root. Other files are not
// documents, so they are reported as missing.
func (s *VaultStore) path(ref model.DocumentRef) (string, error) {
	if !IsDocument(ref.ID) || !filepath.IsLocal(filepath.FromSlash(ref.ID)) {
		return "", ErrorNotFound
	}
	return filepath.Join(s.root, filepath.FromSlash(ref.ID)), nil
}

// IsDocument reports whether path names a markdown document.
func IsDocument(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".md")
}
