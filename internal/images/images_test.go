package images

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)

	w := zip.NewWriter(f)
	for name, content := range files {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
}

func TestEnsureExtracted(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "out_img")
	archive := filepath.Join(base, "out_img.zip")

	writeZip(t, archive, map[string]string{
		"q1.png":     "png-1",
		"sub/q2.png": "png-2",
	})

	extracted, err := EnsureExtracted(dir, archive)
	require.NoError(t, err)
	assert.True(t, extracted)

	data, err := os.ReadFile(filepath.Join(dir, "q1.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-1", string(data))

	data, err = os.ReadFile(filepath.Join(dir, "sub", "q2.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-2", string(data))

	// каталог уже есть: архив не трогаем
	extracted, err = EnsureExtracted(dir, archive)
	require.NoError(t, err)
	assert.False(t, extracted)
}

func TestEnsureExtracted_NoArchive(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "out_img")

	extracted, err := EnsureExtracted(dir, filepath.Join(base, "absent.zip"))
	require.NoError(t, err)
	assert.False(t, extracted)

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestEnsureExtracted_RejectsEscapingEntries(t *testing.T) {
	base := t.TempDir()
	archive := filepath.Join(base, "evil.zip")
	writeZip(t, archive, map[string]string{"../evil.png": "x"})

	dir := filepath.Join(base, "out_img")

	_, err := EnsureExtracted(dir, archive)
	assert.ErrorIs(t, err, ErrUnsafePath)

	_, err = os.Stat(filepath.Join(base, "evil.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestEnsureExtracted_RetriesAfterFailure(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "out_img")
	archive := filepath.Join(base, "out_img.zip")

	require.NoError(t, os.WriteFile(archive, []byte("not a zip"), 0o644))

	_, err := EnsureExtracted(dir, archive)
	require.Error(t, err)

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "partial image dir must be removed")

	writeZip(t, archive, map[string]string{"q1.png": "png-1"})

	extracted, err := EnsureExtracted(dir, archive)
	require.NoError(t, err)
	assert.True(t, extracted)

	data, err := os.ReadFile(filepath.Join(dir, "q1.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-1", string(data))
}

func TestName(t *testing.T) {
	testCases := map[string]string{
		"q7.png":               "q7.png",
		"out_img/q7.png":       "q7.png",
		`C:\exports\img\q.png`: "q.png",
		"  dir/q8.jpg ":        "q8.jpg",
		"":                     "",
		"dir/":                 "",
		"..":                   "",
	}

	for ref, want := range testCases {
		assert.Equal(t, want, Name(ref), "ref %q", ref)
	}
}

func TestResolver(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "q1.png"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.png"), 0o755))

	resolver := NewResolver(dir)

	name, path, ok := resolver.Resolve("images/q1.png")
	assert.True(t, ok)
	assert.Equal(t, "q1.png", name)
	assert.Equal(t, filepath.Join(dir, "q1.png"), path)

	name, _, ok = resolver.Resolve("q7.png")
	assert.False(t, ok)
	assert.Equal(t, "q7.png", name)

	_, _, ok = resolver.Resolve("folder.png")
	assert.False(t, ok)

	_, _, ok = resolver.Resolve("")
	assert.False(t, ok)
}
