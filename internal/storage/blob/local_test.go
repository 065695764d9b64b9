package blob

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreWriteRead(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "https://ecofest.app/media")
	require.NoError(t, err)

	ctx := context.Background()
	path := BadgePath(uuid.New())

	require.NoError(t, store.Write(ctx, path, []byte("png-data"), "image/png"))

	data, err := store.Read(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-data"), data)
}

func TestLocalStoreOverwrite(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "")
	require.NoError(t, err)

	ctx := context.Background()
	path := "badges/badge_x.png"

	require.NoError(t, store.Write(ctx, path, []byte("first"), "image/png"))
	require.NoError(t, store.Write(ctx, path, []byte("second"), "image/png"))

	data, err := store.Read(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), data)
}

func TestLocalStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "")
	require.NoError(t, err)

	require.NoError(t, store.Write(context.Background(), "letters/invitation_x.pdf", []byte("pdf"), "application/pdf"))

	var files []string
	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files = append(files, filepath.Base(path))
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"invitation_x.pdf"}, files)
}

func TestLocalStoreReadMissing(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "")
	require.NoError(t, err)

	_, err = store.Read(context.Background(), "badges/nope.png")
	assert.Error(t, err)
}

func TestLocalStoreURLFor(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "https://ecofest.app/media")
	require.NoError(t, err)

	url, err := store.URLFor(context.Background(), "badges/badge_x.png")
	require.NoError(t, err)
	assert.Equal(t, "https://ecofest.app/media/badges/badge_x.png", url)
}

func TestArtifactPaths(t *testing.T) {
	id := uuid.MustParse("3e0f64a4-7a3a-4b9e-b6ec-111111111111")

	assert.Equal(t, "badges/badge_3e0f64a4-7a3a-4b9e-b6ec-111111111111.png", BadgePath(id))
	assert.Equal(t, "letters/invitation_3e0f64a4-7a3a-4b9e-b6ec-111111111111.pdf", LetterPath(id))
	assert.Equal(t, "documents/3e0f64a4-7a3a-4b9e-b6ec-111111111111/passport.pdf", DocumentPath(id, "passport", ".pdf"))
}
