package tools

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecopia-map/cesium_loader/internal/failure"
	"github.com/ecopia-map/cesium_loader/internal/loader"
)

func TestGetManifestsToProcess_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tileset.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	manifests, err := NewStandardFileFinder().GetManifestsToProcess(loader.NewLoaderOptions(path))
	require.NoError(t, err)
	assert.Equal(t, []string{path}, manifests)
}

func TestGetManifestsToProcess_Folder(t *testing.T) {
	dir := t.TempDir()
	for _, sub := range []string{"b", "a", "c"} {
		require.NoError(t, os.Mkdir(filepath.Join(dir, sub), 0o755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), nil, 0o644))

	opts := loader.NewLoaderOptions(dir)
	opts.ManifestName = "root.json"

	manifests, err := NewStandardFileFinder().GetManifestsToProcess(opts)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a", "root.json"),
		filepath.Join(dir, "b", "root.json"),
		filepath.Join(dir, "c", "root.json"),
	}, manifests)
}

func TestGetManifestsToProcess_EmptyFolder(t *testing.T) {
	manifests, err := NewStandardFileFinder().GetManifestsToProcess(loader.NewLoaderOptions(t.TempDir()))
	require.NoError(t, err)
	assert.Empty(t, manifests)
}

func TestGetManifestsToProcess_Missing(t *testing.T) {
	_, err := NewStandardFileFinder().GetManifestsToProcess(loader.NewLoaderOptions(filepath.Join(t.TempDir(), "nope")))
	assert.ErrorIs(t, err, failure.ErrInvalidRoot)
}

func TestConvertIntToByteArray(t *testing.T) {
	assert.Equal(t, []byte{0x78, 0x56, 0x34, 0x12}, ConvertIntToByteArray(0x12345678))
	assert.Equal(t, []byte{0, 0, 0xc0, 0x3f}, ConvertFloat32ToByteArray([]float32{1.5}))
}
