package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCollectFiles_ExplicitFilesAreKept(t *testing.T) {
	dir := t.TempDir()
	txt := writeFile(t, dir, "a.txt", "text")
	png := writeFile(t, dir, "b.png", "binary")

	// Explicit paths pass through regardless of extension so the user
	// sees an unsupported-format error later instead of silence.
	paths, err := collectFiles([]string{txt, png})
	require.NoError(t, err)
	assert.Equal(t, []string{txt, png}, paths)
}

func TestCollectFiles_DirectoryFiltersByExtension(t *testing.T) {
	dir := t.TempDir()
	txt := writeFile(t, dir, "a.txt", "text")
	md := writeFile(t, dir, "b.md", "markdown")
	writeFile(t, dir, "c.png", "binary")

	paths, err := collectFiles([]string{dir})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{txt, md}, paths)
}

func TestCollectFiles_RecursionIsOptIn(t *testing.T) {
	dir := t.TempDir()
	top := writeFile(t, dir, "top.txt", "text")
	nested := writeFile(t, dir, "sub/nested.txt", "text")

	paths, err := collectFiles([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{top}, paths)

	ingestRecursive = true
	defer func() { ingestRecursive = false }()

	paths, err = collectFiles([]string{dir})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{top, nested}, paths)
}

func TestCollectFiles_MissingPath(t *testing.T) {
	_, err := collectFiles([]string{"/no/such/path"})
	assert.Error(t, err)
}
