package flags

import (
	"time"

	"github.com/spf13/pflag"
)

// SnakeCharmer because Cobra and Viper. Get it?
// It's a convenience wrapper around cobra and viper, allowing the user to declare flags and the config keys they
// override at the same time.
//
// Example:
//
//	sc := flags.SnakeCharmer{Fmap: map[string]*pflag.Flag{}}
//	sc.Fset = cmd.Flags()
//	sc.String("url", "target::url", "", "The zip deployment endpoint")
//	p, err := config.Load(cfgPath, sc.Fmap)
type SnakeCharmer struct {
	Fset *pflag.FlagSet
	// Fmap maps config keys (key) to flags (value).
	Fmap map[string]*pflag.Flag
}

// New returns a SnakeCharmer that declares its flags on fset.
func New(fset *pflag.FlagSet) *SnakeCharmer {
	return &SnakeCharmer{Fset: fset, Fmap: map[string]*pflag.Flag{}}
}

// Bool defines a bool flag with specified flagName, default value, usage string and then binds it to fieldName.
func (s *SnakeCharmer) Bool(flagName, fieldName string, value bool, usage string) {
	s.Fset.Bool(flagName, value, usage)
	s.addBind(flagName, fieldName)
}

// Duration defines a duration flag with specified flagName, default value, usage string and then binds it to fieldName.
func (s *SnakeCharmer) Duration(flagName string, fieldName string, value time.Duration, usage string) {
	s.Fset.Duration(flagName, value, usage)
	s.addBind(flagName, fieldName)
}

// String defines a string flag with specified flagName, default value, usage string and then binds it to fieldName.
func (s *SnakeCharmer) String(flagName, fieldName, value, usage string) {
	s.Fset.String(flagName, value, usage)
	s.addBind(flagName, fieldName)
}

// StringP is like String(), but accepts a shorthand letter.
func (s *SnakeCharmer) StringP(flagName, shorthand, fieldName, value, usage string) {
	s.Fset.StringP(flagName, shorthand, value, usage)
	s.addBind(flagName, fieldName)
}

func (s *SnakeCharmer) addBind(flagName, fieldName string) {
	s.Fmap[fieldName] = s.Fset.Lookup(flagName)
}
