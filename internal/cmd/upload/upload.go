package upload

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	cmds "github.com/saucelabs/zipdeploy/internal/cmd"
	"github.com/saucelabs/zipdeploy/internal/cmd/publish"
	"github.com/saucelabs/zipdeploy/internal/flags"
)

// Command creates the `upload` command.
func Command() *cobra.Command {
	var out string
	var sc *flags.SnakeCharmer

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Deploy an existing archive",
		Long: `Uploads an existing zip archive, e.g. one left behind by a failed publish, to the zip deployment
endpoint of the app. The archive is removed once the upload succeeded, unless --keep is set.`,
		Example:      "zipdeploy upload ../my-app.zip --app my-app",
		SilenceUsage: true,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 || args[0] == "" {
				return errors.New("no archive specified")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd, sc, out, args[0])
		},
	}

	sc = cmds.AddProjectFlags(cmd.Flags())
	cmds.AddOutFlag(cmd.Flags(), &out)
	// The file argument is the archive.
	_ = cmd.Flags().MarkHidden("archive")
	_ = cmd.Flags().MarkHidden("source")

	return cmd
}

// Run uploads the archive at file to the target of the project of cmd.
func Run(cmd *cobra.Command, sc *flags.SnakeCharmer, out, file string) error {
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
	if p.Archive, err = filepath.Abs(file); err != nil {
		return err
	}
	if err := p.ValidateTarget(); err != nil {
		return err
	}
	if err := p.ValidateCredentials(); err != nil {
		return err
	}

	pub, err := publish.NewPublisher(p, out)
	if err != nil {
		return err
	}
	if p.App == "" {
		pub.Name = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	_, err = pub.Upload(ctx)
	return err
}
