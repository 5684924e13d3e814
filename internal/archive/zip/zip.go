package zip

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/saucelabs/zipdeploy/internal/archive"
	"github.com/saucelabs/zipdeploy/internal/deployignore"
	"github.com/saucelabs/zipdeploy/internal/human"
)

// Writer is a wrapper around zip.Writer and implements zip archiving for archive.Writer.
type Writer struct {
	W *zip.Writer
	M deployignore.Matcher

	// Exclude contains absolute paths that are never added to the archive, e.g. the archive itself.
	Exclude map[string]bool
}

// NewFileWriter returns a new Writer that archives files to name, along with the file it writes to.
// It's the caller's responsibility to close the file after the Writer.
func NewFileWriter(name string, matcher deployignore.Matcher) (Writer, *os.File, error) {
	f, err := os.Create(name)
	if err != nil {
		return Writer{}, nil, err
	}

	w := New(f, matcher)
	if abs, err := filepath.Abs(name); err == nil {
		w.Exclude[abs] = true
	}

	return w, f, nil
}

// New returns a new Writer that archives files to the specified io.Writer.
func New(f io.Writer, matcher deployignore.Matcher) Writer {
	return Writer{W: zip.NewWriter(f), M: matcher, Exclude: map[string]bool{}}
}

// Add adds the file at src to the destination dst in the archive and returns a count of
// the files added to the archive. Directories are added recursively under their own name.
// Symbolic links to files are stored as regular files. Symbolic links to directories are skipped, since they may
// point back into the tree.
func (w *Writer) Add(src, dst string) (int, error) {
	finfo, err := os.Lstat(src)
	if err != nil {
		return 0, err
	}

	name := path.Join(dst, finfo.Name())
	if w.excluded(src) {
		return 0, nil
	}

	if finfo.Mode()&os.ModeSymlink != 0 {
		target, err := os.Stat(src)
		if err != nil {
			log.Warn().Err(err).Str("name", name).Msg("Skipping broken symbolic link.")
			return 0, nil
		}
		if target.IsDir() {
			log.Warn().Str("name", name).Msg("Skipping symbolic link to a directory.")
			return 0, nil
		}
		if w.excludedTarget(src) {
			return 0, nil
		}
		finfo = linkInfo{FileInfo: target, name: finfo.Name()}
	}
	if w.M != nil && w.M.Match(strings.Split(name, "/"), finfo.IsDir()) {
		log.Debug().Str("name", name).Msg("Ignoring")
		return 0, nil
	}
	log.Debug().Str("name", name).Msg("Adding to archive")

	if !finfo.IsDir() {
		return 1, w.addFile(src, name, finfo)
	}

	if err := w.addDir(name, finfo); err != nil {
		return 0, err
	}

	files, err := os.ReadDir(src)
	if err != nil {
		return 0, err
	}

	totalFileCount := 0
	for _, f := range files {
		fileCount, err := w.Add(filepath.Join(src, f.Name()), name)
		if err != nil {
			return 0, err
		}

		totalFileCount += fileCount
	}

	return totalFileCount, nil
}

func (w *Writer) excluded(src string) bool {
	if len(w.Exclude) == 0 {
		return false
	}
	abs, err := filepath.Abs(src)
	if err != nil {
		return false
	}
	return w.Exclude[abs]
}

// excludedTarget reports whether the resolved target of src is excluded, e.g. a link to the archive itself.
func (w *Writer) excludedTarget(src string) bool {
	if len(w.Exclude) == 0 {
		return false
	}
	resolved, err := filepath.EvalSymlinks(src)
	if err != nil {
		return false
	}
	if abs, err := filepath.Abs(resolved); err == nil && w.Exclude[abs] {
		return true
	}
	for p := range w.Exclude {
		if rp, err := filepath.EvalSymlinks(p); err == nil && rp == resolved {
			return true
		}
	}
	return false
}

// linkInfo describes the target of a symbolic link under the name of the link.
type linkInfo struct {
	os.FileInfo
	name string
}

func (l linkInfo) Name() string {
	return l.name
}

func (w *Writer) addFile(src, name string, finfo os.FileInfo) error {
	header, err := zip.FileInfoHeader(finfo)
	if err != nil {
		return err
	}
	header.Name = name
	header.Method = zip.Deflate

	zw, err := w.W.CreateHeader(header)
	if err != nil {
		return err
	}

	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(zw, f)
	return err
}

func (w *Writer) addDir(name string, finfo os.FileInfo) error {
	header, err := zip.FileInfoHeader(finfo)
	if err != nil {
		return err
	}
	header.Name = name + "/"
	header.Method = zip.Store

	_, err = w.W.CreateHeader(header)
	return err
}

// Close closes the archive. Adding more files to the archive is not possible after this.
func (w *Writer) Close() error {
	return w.W.Close()
}

// Summary describes a finished archive.
type Summary struct {
	Path  string
	Files int
	Size  int64
}

// ArchiveDir compresses the contents of sourceDir into the zip file at target. Entries are named relative to
// sourceDir, so sourceDir itself does not appear in the archive. If target lies within sourceDir, it is skipped.
// On failure, the partially written target is removed.
func ArchiveDir(sourceDir, target string, matcher deployignore.Matcher) (Summary, error) {
	start := time.Now()

	finfo, err := os.Stat(sourceDir)
	if err != nil {
		return Summary{}, err
	}
	if !finfo.IsDir() {
		return Summary{}, fmt.Errorf("%s is not a directory", sourceDir)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return Summary{}, err
	}

	fileCount, err := writeArchive(sourceDir, target, matcher)
	if err != nil {
		_ = os.Remove(target)
		return Summary{}, err
	}

	tinfo, err := os.Stat(target)
	if err != nil {
		return Summary{}, err
	}

	log.Info().
		Dur("durationMs", time.Since(start)).
		Int("files", fileCount).
		Str("size", human.Bytes(tinfo.Size())).
		Str("archive", target).
		Msg("Archive created.")

	return Summary{Path: target, Files: fileCount, Size: tinfo.Size()}, nil
}

func writeArchive(sourceDir, target string, matcher deployignore.Matcher) (int, error) {
	z, f, err := NewFileWriter(target, matcher)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var w archive.Writer = &z

	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		_ = w.Close()
		return 0, err
	}

	// os.ReadDir sorts by filename, which keeps archives stable.
	total := 0
	for _, e := range entries {
		n, err := w.Add(filepath.Join(sourceDir, e.Name()), "")
		if err != nil {
			_ = w.Close()
			return 0, err
		}
		total += n
	}

	if err := w.Close(); err != nil {
		return 0, err
	}

	// Explicit close to ensure that all bytes have been flushed.
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("failed to close archive %s: %w", target, err)
	}

	return total, nil
}
