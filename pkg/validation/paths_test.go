package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSource(t *testing.T) {
	assert.ErrorIs(t, ValidateSource(""), ErrEmptyPath)
	// Existence is not checked here.
	assert.NoError(t, ValidateSource("/does/not/exist"))
}

func TestValidateBlockSize(t *testing.T) {
	assert.NoError(t, ValidateBlockSize(1))
	assert.NoError(t, ValidateBlockSize(MaxBlockSize))
	assert.Error(t, ValidateBlockSize(0))
	assert.Error(t, ValidateBlockSize(-1))
	assert.ErrorContains(t, ValidateBlockSize(MaxBlockSize+1), "must not exceed")
}

func TestHasTrailingSeparator(t *testing.T) {
	sep := string(filepath.Separator)

	assert.True(t, HasTrailingSeparator("out"+sep))
	assert.False(t, HasTrailingSeparator("out"))
	assert.False(t, HasTrailingSeparator(""))
}

func TestIsCopyable(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("a"), 0644))

	fileInfo, err := os.Stat(file)
	require.NoError(t, err)
	dirInfo, err := os.Stat(dir)
	require.NoError(t, err)

	assert.True(t, IsCopyable(fileInfo))
	assert.False(t, IsCopyable(dirInfo))
	assert.Equal(t, "file", DescribeMode(fileInfo.Mode()))
	assert.Equal(t, "directory", DescribeMode(dirInfo.Mode()))
}
