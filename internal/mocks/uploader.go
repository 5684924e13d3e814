package mocks

import (
	"context"

	"github.com/saucelabs/zipdeploy/internal/deploy"
)

// FakeUploader is a mock for the deploy.Uploader interface.
type FakeUploader struct {
	DeployFn func(ctx context.Context, archivePath string) (deploy.Response, error)
	Calls    []string
}

// Deploy records the call and is a wrapper around DeployFn.
func (f *FakeUploader) Deploy(ctx context.Context, archivePath string) (deploy.Response, error) {
	f.Calls = append(f.Calls, archivePath)
	return f.DeployFn(ctx, archivePath)
}
