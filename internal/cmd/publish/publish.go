package publish

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	cmds "github.com/saucelabs/zipdeploy/internal/cmd"
	"github.com/saucelabs/zipdeploy/internal/config"
	"github.com/saucelabs/zipdeploy/internal/flags"
	zhttp "github.com/saucelabs/zipdeploy/internal/http"
	"github.com/saucelabs/zipdeploy/internal/publish"
)

// Command creates the `publish` command.
func Command() *cobra.Command {
	var out string
	var sc *flags.SnakeCharmer

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Archive a directory and deploy it",
		Long: `Compresses the source directory into a zip archive, uploads the archive to the zip deployment
endpoint of the app and removes the archive once the upload succeeded.`,
		Example:      "zipdeploy publish --app my-app --source ./dist",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Run(cmd, sc, out)
		},
	}

	sc = cmds.AddProjectFlags(cmd.Flags())
	cmds.AddOutFlag(cmd.Flags(), &out)

	return cmd
}

// Run resolves the project of cmd and publishes it.
func Run(cmd *cobra.Command, sc *flags.SnakeCharmer, out string) error {
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
	if err := p.Validate(); err != nil {
		return err
	}

	pub, err := NewPublisher(p, out)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	_, err = pub.Run(ctx)
	return err
}

// NewPublisher wires a publisher for p.
func NewPublisher(p config.Project, out string) (*publish.Publisher, error) {
	matcher, err := cmds.NewMatcher(p)
	if err != nil {
		return nil, err
	}

	creds := p.Credentials()
	log.Debug().
		Str("username", creds.Username).
		Str("credentials", creds.Source).
		Msg("Using deployment credentials.")

	return &publish.Publisher{
		Name:        p.Name(),
		Source:      p.Source,
		Archive:     p.Archive,
		URL:         p.Target.URL,
		Matcher:     matcher,
		Uploader:    zhttp.NewKudu(p.Target.URL, creds.Username, creds.Password, p.Timeout),
		KeepArchive: p.KeepArchive,
		Reporters:   cmds.NewReporters(p, out),
		Notifier:    cmds.NewNotifier(p),
	}, nil
}
