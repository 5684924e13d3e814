package configure

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/saucelabs/zipdeploy/internal/credentials"
	"github.com/saucelabs/zipdeploy/internal/msg"
)

var (
	configureUse     = "configure"
	configureShort   = "Configure your deployment credentials"
	configureLong    = `Persist locally your deployment credentials, as found in the publishing profile of your app`
	configureExample = "zipdeploy configure"
)

// Command creates the `configure` command
func Command() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:          configureUse,
		Short:        configureShort,
		Long:         configureLong,
		Example:      configureExample,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(username, password)
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "the deployment user name, e.g. $my-app")
	cmd.Flags().StringVarP(&password, "password", "p", "", "the deployment password")

	cmd.AddCommand(ListCommand())

	return cmd
}

func validateNotEmpty(what, emptyMsg string) survey.Validator {
	return func(val interface{}) error {
		str, ok := val.(string)
		if !ok {
			return fmt.Errorf("invalid %s", what)
		}
		if strings.TrimSpace(str) == "" {
			return errors.New(emptyMsg)
		}
		return nil
	}
}

// interactiveConfiguration expect user to manually type-in its credentials
func interactiveConfiguration() (credentials.Credentials, error) {
	creds := credentials.Get()

	println("") // visual paragraph break
	qs := []*survey.Question{
		{
			Name: "username",
			Prompt: &survey.Input{
				Message: "Deployment user name",
				Default: creds.Username,
				Help:    "The userName of the publishing profile, usually $<app>.",
			},
			Validate: validateNotEmpty("username", msg.EmptyUsername),
		},
		{
			Name: "password",
			Prompt: &survey.Password{
				Message: "Deployment password",
				Help:    "The userPWD of the publishing profile.",
			},
			Validate: validateNotEmpty("password", msg.EmptyPassword),
		},
	}

	if err := survey.Ask(qs, &creds); err != nil {
		return creds, err
	}
	println() // visual paragraph break
	return creds, nil
}

// Run starts the configure command
func Run(username, password string) error {
	var creds credentials.Credentials
	var err error

	if username == "" && password == "" {
		creds, err = interactiveConfiguration()
	} else {
		creds = credentials.Credentials{
			Username: strings.TrimSpace(username),
			Password: password,
		}
	}
	if err != nil {
		return err
	}

	if !creds.IsValid() {
		log.Error().Msg("The provided credentials appear to be invalid and will NOT be saved.")
		return errors.New(msg.InvalidCredentials)
	}
	if err := credentials.ToFile(creds); err != nil {
		return fmt.Errorf("unable to save credentials: %w", err)
	}
	println("You're all set!")
	return nil
}
