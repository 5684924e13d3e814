package archive

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/saucelabs/zipdeploy/internal/archive/zip"
	cmds "github.com/saucelabs/zipdeploy/internal/cmd"
	"github.com/saucelabs/zipdeploy/internal/deploy"
	"github.com/saucelabs/zipdeploy/internal/flags"
	"github.com/saucelabs/zipdeploy/internal/hashio"
	"github.com/saucelabs/zipdeploy/internal/human"
)

// Result describes the created archive.
type Result struct {
	Path   string `json:"path"`
	Files  int    `json:"files"`
	Size   int64  `json:"size"`
	SHA256 string `json:"sha256"`
}

// Command creates the `archive` command.
func Command() *cobra.Command {
	var out string
	var sc *flags.SnakeCharmer

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Archive a directory without deploying it",
		Long: `Compresses the source directory into a zip archive, applying the same .deployignore rules as publish.
Useful to inspect what would be deployed.`,
		Example:      "zipdeploy archive --source ./dist --archive ./out/site.zip",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Run(cmd, sc, out, os.Stdout)
		},
	}

	sc = cmds.AddProjectFlags(cmd.Flags())
	cmds.AddOutFlag(cmd.Flags(), &out)
	for _, name := range []string{"url", "username", "keep", "timeout"} {
		_ = cmd.Flags().MarkHidden(name)
	}

	return cmd
}

// Run archives the source of the project of cmd and prints the result to w.
func Run(cmd *cobra.Command, sc *flags.SnakeCharmer, out string, w io.Writer) error {
	if err := cmds.ValidateOut(out); err != nil {
		return err
	}
	if out == cmds.OutJSON {
		cmds.LogToStderr()
	}

	p, err := cmds.LoadProject(cmd, sc)
	if err != nil {
		return err
	}
	if err := p.ValidateSource(); err != nil {
		return err
	}

	matcher, err := cmds.NewMatcher(p)
	if err != nil {
		return err
	}

	summary, err := zip.ArchiveDir(p.Source, p.Archive, matcher)
	if err != nil {
		err = &deploy.ArchiveError{Source: p.Source, Path: p.Archive, Err: err}
		log.Error().Err(err).Msg("Failed to create the archive.")
		return err
	}

	sum, err := hashio.SHA256(summary.Path)
	if err != nil {
		return err
	}

	return render(w, out, Result{Path: summary.Path, Files: summary.Files, Size: summary.Size, SHA256: sum})
}

func render(w io.Writer, out string, r Result) error {
	if out == cmds.OutJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	_, err := fmt.Fprintf(w, "\nArchive: %s\nFiles:   %d\nSize:    %s\nSHA256:  %s\n", r.Path, r.Files, human.Bytes(r.Size), r.SHA256)
	return err
}
