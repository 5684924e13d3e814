package msg

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
)

// DeployIgnoreNotExist is a recommendation to create a .deployignore file in the case that it is missing.
const DeployIgnoreNotExist = `The .deployignore file does not exist. We *highly* recommend creating one so that zipdeploy does not
create archives with unnecessary files (node_modules, build caches, local secrets). Large archives take longer
to upload and to extract on the deployment server.

The file uses the same syntax as .gitignore, for example:

  node_modules/
  .vscode/
  *.log`

// CredentialsHelp explains where zipdeploy looks for deployment credentials.
const CredentialsHelp = `zipdeploy authenticates with the deployment credentials of your app. They can be provided via:
  - the ZIPDEPLOY_USERNAME and ZIPDEPLOY_PASSWORD environment variables (a .env file works too)
  - target.username and target.password in zipdeploy.yml
  - 'zipdeploy configure', which stores them in ~/.zipdeploy/credentials.yml`

// LogDeployIgnoreNotExist prints out a formatted and color coded version of DeployIgnoreNotExist.
func LogDeployIgnoreNotExist() {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Printf("\n%s: %s\n\n", red("WARNING"), DeployIgnoreNotExist)
}

// LogPublishSuccess prints out a publish success summary statement.
func LogPublishSuccess(name string) {
	line := fmt.Sprintf(" %s has been published! ", name)
	dashes := strings.Repeat("─", len([]rune(line)))
	log.Info().Msgf("┌%s┐", dashes)
	log.Info().Msg(line)
	log.Info().Msgf("└%s┘", dashes)
}

// LogPublishFailure prints out a publish failure summary statement.
func LogPublishFailure(name string, err error) {
	line := fmt.Sprintf(" Failed to publish %s ", name)
	dashes := strings.Repeat("─", len([]rune(line)))
	log.Error().Msgf("┌%s┐", dashes)
	log.Error().Msg(line)
	log.Error().Msgf("└%s┘", dashes)
	log.Error().Err(err).Msg("Publish failed.")
}

// LogArchiveKept tells the user where the archive of an unsuccessful publish can be found.
func LogArchiveKept(path string) {
	log.Warn().Str("archive", path).Msg("The archive has been left on disk for inspection. Run 'zipdeploy upload' to retry.")
}
