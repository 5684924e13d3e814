package hashio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gotest.tools/v3/fs"
)

func TestSHA256(t *testing.T) {
	dir := fs.NewDir(t, "hashio", fs.WithFile("hello.txt", "hello world"))
	defer dir.Remove()

	got, err := SHA256(dir.Join("hello.txt"))
	assert.NoError(t, err)
	assert.Equal(t, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9", got)

	_, err = SHA256(dir.Join("missing.txt"))
	assert.Error(t, err)
}
