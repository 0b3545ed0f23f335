package lister

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlie0129/flatcp/pkg/fatal"
	"github.com/charlie0129/flatcp/pkg/validation"
)

func writeFile(t *testing.T, path, content string) {
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func names(entries []Entry) []string {
	ret := make([]string, 0, len(entries))
	for _, e := range entries {
		ret = append(ret, e.Name)
	}
	sort.Strings(ret)
	return ret
}

func TestList_FilesAndSubdirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "a")
	writeFile(t, filepath.Join(dir, "b.txt"), "b")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))
	writeFile(t, filepath.Join(dir, "sub", "nested.txt"), "nested")

	entries, err := List(dir)
	require.NoError(t, err)

	// Only immediate children, subdirectories included, nested files not.
	assert.Equal(t, []string{"a.txt", "b.txt", "sub"}, names(entries))

	for _, e := range entries {
		assert.Equal(t, filepath.Join(dir, e.Name), e.SourcePath)
		assert.Equal(t, e.Name == "sub", e.IsDir())
	}
}

func TestList_Empty(t *testing.T) {
	entries, err := List(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestList_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing")

	entries, err := List(path)
	require.Error(t, err)
	assert.Nil(t, entries)
	assert.True(t, fatal.Is(err))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), path)
}

func TestList_NotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")
	writeFile(t, path, "content")

	_, err := List(path)
	require.Error(t, err)
	assert.True(t, fatal.Is(err))
	assert.ErrorIs(t, err, validation.ErrNotDirectory)
}

func TestList_EmptyPath(t *testing.T) {
	_, err := List("")
	require.Error(t, err)
	assert.True(t, fatal.Is(err))
	assert.ErrorIs(t, err, validation.ErrEmptyPath)
}
