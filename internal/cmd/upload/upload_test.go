package upload

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/fs"

	"github.com/saucelabs/zipdeploy/internal/credentials"
	"github.com/saucelabs/zipdeploy/internal/deploy"
)

func setup(t *testing.T) *fs.Dir {
	dir := fs.NewDir(t, "upload-cmd", fs.WithFile("site.zip", "PK fake archive"))
	t.Cleanup(dir.Remove)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir.Path()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("HOME", dir.Path())
	t.Setenv("SLACK_TOKEN", "")
	t.Setenv(credentials.UsernameEnv, "$site")
	t.Setenv(credentials.PasswordEnv, "secret")
	return dir
}

func TestCommand(t *testing.T) {
	dir := setup(t)

	var body string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	cmd := Command()
	cmd.SetArgs([]string{"site.zip", "--url", ts.URL})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	assert.Equal(t, "PK fake archive", body)
	assert.NoFileExists(t, dir.Join("site.zip"))
}

func TestCommand_Unreachable(t *testing.T) {
	dir := setup(t)

	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	cmd := Command()
	cmd.SetArgs([]string{"site.zip", "--url", url})
	err := cmd.ExecuteContext(context.Background())

	var transportErr *deploy.TransportError
	assert.True(t, errors.As(err, &transportErr), "got %v", err)
	assert.FileExists(t, dir.Join("site.zip"))
}

func TestCommand_NoArchive(t *testing.T) {
	setup(t)

	cmd := Command()
	cmd.SetArgs([]string{})
	assert.Error(t, cmd.ExecuteContext(context.Background()))
}
