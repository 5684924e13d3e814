package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/saucelabs/zipdeploy/internal/config"
	"github.com/saucelabs/zipdeploy/internal/deployignore"
	"github.com/saucelabs/zipdeploy/internal/flags"
	"github.com/saucelabs/zipdeploy/internal/msg"
	"github.com/saucelabs/zipdeploy/internal/notification"
	"github.com/saucelabs/zipdeploy/internal/notification/slack"
	"github.com/saucelabs/zipdeploy/internal/report"
	"github.com/saucelabs/zipdeploy/internal/report/json"
	"github.com/saucelabs/zipdeploy/internal/report/table"
)

// Output formats of the --out flag.
const (
	OutText = "text"
	OutJSON = "json"
)

// FullName returns the full command name by concatenating the command names of any parents,
// except the name of the CLI itself.
func FullName(cmd *cobra.Command) string {
	name := ""

	for cmd.HasParent() {
		// Prepending, because we are looking up names from the bottom up: list < configure < zipdeploy
		// which ends up correctly as 'configure list' (sans zipdeploy).
		name = fmt.Sprintf("%s %s", cmd.Name(), name)
		cmd = cmd.Parent()
	}

	return strings.TrimSpace(name)
}

// AddProjectFlags declares the flags that override project configuration keys on fset.
func AddProjectFlags(fset *pflag.FlagSet) *flags.SnakeCharmer {
	sc := flags.New(fset)
	sc.String("app", "app", "", "The app name. Derives the deployment url, user name and archive name.")
	sc.StringP("source", "s", "source", ".", "The directory to deploy.")
	sc.StringP("archive", "a", "archive", "", "Where to write the archive. Defaults to <app or source name>.zip next to the source directory.")
	sc.String("url", "target::url", "", "The zip deployment endpoint, e.g. https://<app>.scm.azurewebsites.net/api/zip/site/wwwroot.")
	sc.StringP("username", "u", "target::username", "", "The deployment user name. Defaults to $<app>. The password is never taken from a flag.")
	sc.Bool("keep", "keepArchive", false, "Keep the archive after a successful upload.")
	sc.Duration("timeout", "timeout", config.DefaultTimeout, "Upload timeout. 0 disables the timeout.")
	return sc
}

// AddOutFlag registers the --out flag.
func AddOutFlag(fset *pflag.FlagSet, out *string) {
	fset.StringVarP(out, "out", "o", OutText, "Output format to the console. Options: text, json.")
}

// ValidateOut checks the value of the --out flag.
func ValidateOut(out string) error {
	if out != OutText && out != OutJSON {
		return fmt.Errorf(msg.UnknownOutputFormat, out)
	}
	return nil
}

// LoadProject resolves the project configuration for cmd. A .env file in the working directory is loaded first.
// The config file is read from the --config flag. The default config file is optional.
func LoadProject(cmd *cobra.Command, sc *flags.SnakeCharmer) (config.Project, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return config.Project{}, err
	}

	cfgPath, err := configFile(cmd)
	if err != nil {
		return config.Project{}, err
	}
	if cfgPath != "" {
		config.ValidateSchema(cfgPath)
	}

	return config.Load(cfgPath, sc.Fmap)
}

func configFile(cmd *cobra.Command) (string, error) {
	f := cmd.Flags().Lookup("config")
	if f == nil {
		return "", nil
	}

	path := f.Value.String()
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !f.Changed {
			log.Debug().Str("config", path).Msg("No config file found. Using flags and environment variables only.")
			return "", nil
		}
		return "", fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return path, nil
}

// NewMatcher returns the ignore rules of p.
func NewMatcher(p config.Project) (deployignore.Matcher, error) {
	return deployignore.NewMatcherFromFile(p.DeployIgnore)
}

// NewReporters returns the reporters for p. The console reporter depends on out.
func NewReporters(p config.Project, out string) []report.Reporter {
	var reps []report.Reporter
	switch out {
	case OutJSON:
		reps = append(reps, &json.Reporter{Dst: os.Stdout})
	default:
		reps = append(reps, &table.Reporter{Dst: os.Stdout})
	}

	if p.Reporters.JSON.Enabled {
		reps = append(reps, &json.Reporter{
			WebhookURL: p.Reporters.JSON.WebhookURL,
			Filename:   p.Reporters.JSON.Filename,
		})
	}

	return reps
}

// NewNotifier returns the notifier for p.
func NewNotifier(p config.Project) notification.Notifier {
	return &slack.Notifier{
		Token:  p.Notifications.Slack.Token,
		Config: p.Notifications.Slack,
	}
}

// LogToStderr moves log output to stderr, which keeps stdout free for machine readable output.
func LogToStderr() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05", NoColor: color.NoColor})
}
