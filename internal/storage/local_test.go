package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutAndRemove(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root)
	require.NoError(t, err)

	public, err := store.Put(TicketAttachmentDir, &Upload{
		Filename: "../../etc/pass wd.txt",
		Save: func(dst string) error {
			return os.WriteFile(dst, []byte("hello"), 0o600)
		},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(public, "/Tickets_file_uploads/"))
	assert.True(t, strings.HasSuffix(public, "-pass_wd.txt"))

	onDisk := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(public, "/")))
	content, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))

	require.NoError(t, store.Remove(public))
	_, err = os.Stat(onDisk)
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, store.Remove(public))
}

func TestPutRejectsEmptyUpload(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	_, err = store.Put(ProfileImageDir, nil)
	assert.ErrorIs(t, err, ErrEmptyUpload)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "file", sanitize(".."))
	assert.Equal(t, "a_b.png", sanitize(`C:\photos\a b.png`))
}
