// Package viper provides convenience functions over the official spf13/viper library.
// In particular, it satisfies the need of providing consistently pre-configured viper instances.
package viper

import (
	"strings"

	"github.com/spf13/viper"
)

// KeyDelimiter separates nested keys, e.g. "target::url".
const KeyDelimiter = "::"

// EnvPrefix is prepended to every environment variable that viper looks up.
const EnvPrefix = "ZIPDEPLOY"

// New returns a new, pre-configured instance of viper. Every key can be overridden by an environment variable
// with the EnvPrefix, where nested keys are joined by an underscore, e.g. ZIPDEPLOY_TARGET_URL for "target::url".
// Environment lookups only apply to keys that viper knows about, e.g. through SetDefault.
func New() *viper.Viper {
	v := viper.NewWithOptions(viper.KeyDelimiter(KeyDelimiter))
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(KeyDelimiter, "_"))
	v.AutomaticEnv()

	return v
}

// EnvName returns the name of the environment variable that overrides key.
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, KeyDelimiter, "_"))
}
