package credentials

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/saucelabs/zipdeploy/internal/yaml"
	yamlbase "gopkg.in/yaml.v2"
)

// Environment variables that hold the deployment credentials.
const (
	UsernameEnv = "ZIPDEPLOY_USERNAME"
	PasswordEnv = "ZIPDEPLOY_PASSWORD"
)

// Credentials contains a set of Username + Password for the deployment endpoint.
type Credentials struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Source   string `yaml:"-"`
}

// Get returns the configured credentials.
// Effectively a convenience wrapper around FromEnv, followed by a call to FromFile.
//
// The lookup order is:
//  1. Environment variables (see FromEnv)
//  2. Credentials file (see FromFile)
func Get() Credentials {
	if c := FromEnv(); c.IsValid() {
		return c
	}

	return FromFile()
}

// FromEnv reads the credentials from the user environment.
func FromEnv() Credentials {
	return Credentials{
		Username: os.Getenv(UsernameEnv),
		Password: os.Getenv(PasswordEnv),
		Source:   fmt.Sprintf("Environment variables($%s, $%s)", UsernameEnv, PasswordEnv),
	}
}

// FromFile reads the credentials that are stored in the default file location.
func FromFile() Credentials {
	return fromFile(DefaultFilepath())
}

// fromFile reads the credentials from path.
func fromFile(path string) Credentials {
	yamlFile, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			// not a real error but a valid usecase when credentials have not been persisted yet
			return Credentials{}
		}

		log.Error().Msgf("failed to read credentials: %v", err)
		return Credentials{}
	}
	defer yamlFile.Close()

	var c Credentials
	if err = yamlbase.NewDecoder(yamlFile).Decode(&c); err != nil {
		log.Error().Msgf("failed to parse credentials: %v", err)
		return Credentials{}
	}
	c.Source = fmt.Sprintf("File(%s)", path)

	return c
}

// ToFile stores the provided credentials in the default file location.
func ToFile(c Credentials) error {
	return toFile(c, DefaultFilepath())
}

// toFile stores the provided credentials into the file at path.
func toFile(c Credentials, path string) error {
	if os.MkdirAll(filepath.Dir(path), 0700) != nil {
		return fmt.Errorf("unable to create configuration folder")
	}
	return yaml.WriteFile(path, c, 0600)
}

// DefaultFilepath returns the default location of the credentials file.
// It will be based on the user home directory, if defined, or under the current working directory otherwise.
func DefaultFilepath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".zipdeploy", "credentials.yml")
}

// IsEmpty checks whether the credentials, i.e. username and password are not empty.
// Returns true if even one of the credentials is empty.
func (c *Credentials) IsEmpty() bool {
	return c.Password == "" || c.Username == ""
}

// IsValid validates that the credentials are valid.
func (c *Credentials) IsValid() bool {
	return !c.IsEmpty()
}
