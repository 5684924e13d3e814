package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/saucelabs/zipdeploy/internal/credentials"
	"github.com/saucelabs/zipdeploy/internal/deploy"
	"github.com/saucelabs/zipdeploy/internal/deployignore"
	"github.com/saucelabs/zipdeploy/internal/msg"
	"github.com/saucelabs/zipdeploy/internal/viper"
)

// DefaultFilename is the name of the config file that is picked up from the working directory.
const DefaultFilename = "zipdeploy.yml"

// Kind is the only supported kind of config file.
const Kind = "zipdeploy"

// DefaultTimeout is the default upload timeout.
const DefaultTimeout = 15 * time.Minute

// When represents a condition for when to perform an action, e.g. sending a notification.
type When string

// These conditions indicate when notifications are to be sent.
const (
	WhenFail   When = "fail"
	WhenPass   When = "pass"
	WhenNever  When = "never"
	WhenAlways When = "always"
)

// IsNow returns true if When fulfills its own condition of 'passed'.
func (w When) IsNow(passed bool) bool {
	if w == WhenAlways {
		return true
	}
	if w == WhenFail && !passed {
		return true
	}
	if w == WhenPass && passed {
		return true
	}

	return false
}

// IsValid returns true if w is a known condition. An empty condition is valid and means never.
func (w When) IsValid() bool {
	switch w {
	case "", WhenFail, WhenPass, WhenNever, WhenAlways:
		return true
	}
	return false
}

// Target represents the deployment endpoint.
type Target struct {
	URL      string `yaml:"url,omitempty" json:"url"`
	Username string `yaml:"username,omitempty" json:"username,omitempty"`
	Password string `yaml:"password,omitempty" json:"-"`
}

// Reporters represents the reporter configuration.
type Reporters struct {
	JSON struct {
		Enabled    bool   `yaml:"enabled"`
		Filename   string `yaml:"filename"`
		WebhookURL string `yaml:"webhookURL"`
	} `yaml:"json"`
}

// Notifications represents the notifications configuration.
type Notifications struct {
	Slack Slack `yaml:"slack,omitempty" json:"slack"`
}

// Slack represents slack configuration.
type Slack struct {
	Channels []string `yaml:"channels,omitempty" json:"channels"`
	Send     When     `yaml:"send,omitempty" json:"send"`
	Token    string   `yaml:"token,omitempty" json:"-"`
}

// Project represents the zipdeploy configuration.
type Project struct {
	APIVersion    string        `yaml:"apiVersion,omitempty"`
	Kind          string        `yaml:"kind,omitempty"`
	App           string        `yaml:"app,omitempty"`
	Source        string        `yaml:"source,omitempty"`
	Archive       string        `yaml:"archive,omitempty"`
	KeepArchive   bool          `yaml:"keepArchive,omitempty"`
	Timeout       time.Duration `yaml:"timeout,omitempty"`
	DeployIgnore  string        `yaml:"deployignore,omitempty"`
	Target        Target        `yaml:"target,omitempty"`
	Reporters     Reporters     `yaml:"reporters,omitempty"`
	Notifications Notifications `yaml:"notifications,omitempty"`

	// ConfigFilePath is the config file the project was read from, if any.
	ConfigFilePath string `yaml:"-" mapstructure:"-"`
}

// defaults contains every known key, so that viper resolves environment overrides for all of them.
var defaults = map[string]interface{}{
	"apiVersion":                     "",
	"kind":                           "",
	"app":                            "",
	"source":                         ".",
	"archive":                        "",
	"keepArchive":                    false,
	"timeout":                        DefaultTimeout,
	"deployignore":                   "",
	"target::url":                    "",
	"target::username":               "",
	"target::password":               "",
	"reporters::json::enabled":       false,
	"reporters::json::filename":      "",
	"reporters::json::webhookURL":    "",
	"notifications::slack::channels": []string{},
	"notifications::slack::send":     string(WhenNever),
	"notifications::slack::token":    "",
}

// Load resolves the project configuration. Values are taken from, in order of precedence, changed flags,
// ZIPDEPLOY_* environment variables, the config file at cfgPath and finally the defaults.
// An empty cfgPath means that no config file is read. binds maps config keys to the flags that override them.
func Load(cfgPath string, binds map[string]*pflag.Flag) (Project, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	for key, f := range binds {
		if err := v.BindPFlag(key, f); err != nil {
			return Project{}, fmt.Errorf("failed to bind flag --%s to %s: %w", f.Name, key, err)
		}
	}

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil {
			return Project{}, fmt.Errorf("failed to read config file %s: %w", cfgPath, err)
		}
	}

	var p Project
	if err := v.Unmarshal(&p, func(decodeCfg *mapstructure.DecoderConfig) {
		decodeCfg.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			func(in reflect.Kind, out reflect.Kind, v interface{}) (interface{}, error) {
				return expandEnv(v), nil
			},
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return Project{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfgPath != "" {
		if p.APIVersion == "" || !strings.EqualFold(p.Kind, Kind) {
			return Project{}, errors.New(msg.InvalidConfigFile)
		}
		p.ConfigFilePath = cfgPath
	}

	if err := p.SetDefaults(); err != nil {
		return Project{}, err
	}

	return p, nil
}

func expandEnv(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.String:
		return os.ExpandEnv(v.(string))
	case reflect.Slice:
		if val, ok := v.([]string); ok {
			var strs []string
			for _, item := range val {
				strs = append(strs, os.ExpandEnv(item))
			}
			return strs
		}
		if val, ok := v.([]interface{}); ok {
			var items []interface{}
			for _, item := range val {
				items = append(items, expandEnv(item))
			}
			return items
		}
	case reflect.Map:
		if mp, ok := v.(map[string]interface{}); ok {
			for key, val := range mp {
				mp[key] = expandEnv(val)
			}
			return mp
		}
	}
	return v
}

// SetDefaults derives unset values: absolute source path, target url from the app name, archive location and
// ignore file location.
func (p *Project) SetDefaults() error {
	if p.Source == "" {
		p.Source = "."
	}
	src, err := filepath.Abs(p.Source)
	if err != nil {
		return err
	}
	p.Source = src

	if p.Target.URL == "" && p.App != "" {
		p.Target.URL = deploy.KuduURL(p.App)
	}

	if p.Archive == "" {
		// Next to the source rather than inside of it, so that it never ends up in its own content.
		p.Archive = filepath.Join(filepath.Dir(p.Source), p.Name()+".zip")
	}
	if p.Archive, err = filepath.Abs(p.Archive); err != nil {
		return err
	}

	if p.DeployIgnore == "" {
		p.DeployIgnore = filepath.Join(p.Source, deployignore.Filename)
	}

	if p.Notifications.Slack.Send == "" {
		p.Notifications.Slack.Send = WhenNever
	}
	if p.Notifications.Slack.Token == "" {
		p.Notifications.Slack.Token = os.Getenv("SLACK_TOKEN")
	}

	return nil
}

// Name identifies the deployment, which is the app name or the name of the source directory.
func (p *Project) Name() string {
	if p.App != "" {
		return p.App
	}
	return filepath.Base(p.Source)
}

// Credentials returns the deployment credentials. User name and password are resolved independently, each from
// the first of these that sets it:
//  1. Environment variables (see credentials.FromEnv)
//  2. target.username and target.password of the project
//  3. Credentials file (see credentials.FromFile)
//
// If no user name is configured anywhere, the publishing profile user of the app is assumed.
func (p *Project) Credentials() credentials.Credentials {
	sources := []credentials.Credentials{
		credentials.FromEnv(),
		{Username: p.Target.Username, Password: p.Target.Password, Source: "zipdeploy config"},
		credentials.FromFile(),
	}

	var c credentials.Credentials
	var from []string
	for _, s := range sources {
		used := false
		if c.Username == "" && s.Username != "" {
			c.Username = s.Username
			used = true
		}
		if c.Password == "" && s.Password != "" {
			c.Password = s.Password
			used = true
		}
		if used {
			from = append(from, s.Source)
		}
	}

	if c.Username == "" && p.App != "" {
		c.Username = deploy.DefaultUsername(p.App)
		from = append(from, "app name")
	}
	c.Source = strings.Join(from, ", ")

	return c
}

// ValidateTarget checks that the deployment endpoint is usable.
func (p *Project) ValidateTarget() error {
	if p.Target.URL == "" {
		return errors.New(msg.MissingTarget)
	}
	u, err := url.Parse(p.Target.URL)
	if err != nil {
		return fmt.Errorf(msg.InvalidTargetURL, p.Target.URL, err)
	}
	if (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return fmt.Errorf(msg.InvalidTargetURL, p.Target.URL, "expected an http(s) url")
	}
	if u.Scheme == "http" {
		log.Warn().Str("url", p.Target.URL).Msg("The deployment target does not use https. Credentials will be sent in clear text.")
	}

	return nil
}

// ValidateSource checks that the source directory exists.
func (p *Project) ValidateSource() error {
	finfo, err := os.Stat(p.Source)
	if err != nil || !finfo.IsDir() {
		return fmt.Errorf(msg.MissingSource, p.Source)
	}
	return nil
}

// Validate checks everything that is required to publish.
func (p *Project) Validate() error {
	if err := p.ValidateSource(); err != nil {
		return err
	}
	if err := p.ValidateTarget(); err != nil {
		return err
	}
	if !p.Notifications.Slack.Send.IsValid() {
		return fmt.Errorf(msg.InvalidSendCondition, p.Notifications.Slack.Send)
	}

	return p.ValidateCredentials()
}

// ValidateCredentials checks that a password is available for the deployment user.
func (p *Project) ValidateCredentials() error {
	if c := p.Credentials(); !c.IsValid() {
		return fmt.Errorf("%s\n\n%s", msg.EmptyCredentials, msg.CredentialsHelp)
	}
	return nil
}

// LoadDotEnv loads the environment variables defined in the .env file at path. Variables that are already set take
// precedence. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	log.Debug().Str("file", path).Msg("Loaded environment variables.")

	return nil
}
