package verify

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlie0129/flatcp/pkg/cmd/root"
	"github.com/charlie0129/flatcp/pkg/hasher"
)

const sep = string(filepath.Separator)

func writeFile(t *testing.T, path, content string) {
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func run(args ...string) ([]byte, error) {
	cmd := root.NewCommand()
	cmd.AddCommand(NewCommand())

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.Bytes(), err
}

func TestVerify_AfterCopy(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	writeFile(t, filepath.Join(src, "a.txt"), "a")
	writeFile(t, filepath.Join(src, "b.txt"), "b")

	output, err := run(src, dst+sep)
	require.NoError(t, err, string(output))

	for _, algorithm := range []string{hasher.AlgorithmSHA256, hasher.AlgorithmXXHash} {
		output, err = run("verify", "--hash", algorithm, "-c", "2", src, dst+sep)
		require.NoError(t, err, string(output))
		assert.Contains(t, string(output), `"mismatches":0`)
	}
}

func TestVerify_Mismatch(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	writeFile(t, filepath.Join(src, "a.txt"), "a")
	writeFile(t, filepath.Join(dst, "a.txt"), "changed")

	output, err := run("verify", src, dst+sep)
	assert.ErrorIs(t, err, hasher.ErrMismatch)
	assert.Contains(t, string(output), "do not match")
}

func TestVerify_InvalidHash(t *testing.T) {
	_, err := run("verify", "--hash", "md5", t.TempDir(), t.TempDir()+sep)
	assert.ErrorContains(t, err, "unsupported hash algorithm")
}
