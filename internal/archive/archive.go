// Package archive bundles a directory tree into a single file for deployment.
package archive

import (
	"io"
)

// Writer adds files to an archive.
type Writer interface {
	io.Closer

	// Add adds the src file, or the tree rooted at src, to the destination dst in the archive and returns the
	// number of regular files added.
	Add(src, dst string) (int, error)
}
