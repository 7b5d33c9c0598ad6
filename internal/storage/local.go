// Package storage writes uploaded files under the upload root and hands back
// the public path they are served from.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Public directories, mounted as static routes.
const (
	TicketAttachmentDir = "Tickets_file_uploads"
	ProfileImageDir     = "profile_uploads"
)

// ErrEmptyUpload is returned for an Upload without a writer.
var ErrEmptyUpload = errors.New("empty upload")

// Upload describes a received file whose bytes are written only when Save is
// called, so callers can validate first.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Save        func(dst string) error
}

// Store places files below Root.
type Store interface {
	Put(dir string, upload *Upload) (string, error)
	Remove(publicPath string) error
}

// LocalStore writes to the local filesystem.
type LocalStore struct {
	Root string
}

// NewLocalStore creates the public directories under root.
func NewLocalStore(root string) (*LocalStore, error) {
	for _, dir := range []string{TicketAttachmentDir, ProfileImageDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
		}
	}
	return &LocalStore{Root: root}, nil
}

// Put stores upload under dir with a collision-free name and returns its
// public path, for example /Tickets_file_uploads/<uuid>-report.pdf.
func (s *LocalStore) Put(dir string, upload *Upload) (string, error) {
	if upload == nil || upload.Save == nil {
		return "", ErrEmptyUpload
	}
	name := uuid.NewString() + "-" + sanitize(upload.Filename)
	if err := upload.Save(filepath.Join(s.Root, dir, name)); err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}
	return path.Join("/", dir, name), nil
}

// Remove deletes a file previously returned by Put. Missing files are ignored.
func (s *LocalStore) Remove(publicPath string) error {
	clean := path.Clean("/" + publicPath)
	err := os.Remove(filepath.Join(s.Root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func sanitize(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), ".")
	if out == "" {
		return "file"
	}
	return out
}
