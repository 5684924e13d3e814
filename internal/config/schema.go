package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v2"
)

//go:embed schema.json
var schema []byte

const schemaURL = "https://raw.githubusercontent.com/saucelabs/zipdeploy/main/api/zipdeploy.schema.json"

// ValidateSchema validates user config against the JSON Schema.
// If validation fails for any reason, fail softly to avoid disturbing execution as this is not critical.
func ValidateSchema(cfgFile string) {
	issues, err := SchemaIssues(cfgFile)
	if err != nil {
		log.Debug().Err(err).Msg("Skipping config validation.")
		return
	}
	if len(issues) > 0 {
		renderSchemaValidationIssues(cfgFile, issues)
	}
}

// SchemaIssues returns the root causes of every schema violation in cfgFile.
func SchemaIssues(cfgFile string) ([]*jsonschema.ValidationError, error) {
	yamlText, err := os.ReadFile(cfgFile)
	if err != nil {
		return nil, err
	}

	var m interface{}
	if err := yaml.Unmarshal(yamlText, &m); err != nil {
		return nil, err
	}
	m, err = toStringKeys(m)
	if err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schema)); err != nil {
		return nil, err
	}
	s, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, err
	}

	err = s.Validate(m)
	if err == nil {
		return nil, nil
	}
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) {
		return findRootCauses(validationErr), nil
	}
	return nil, err
}

func renderSchemaValidationIssues(cfgFile string, errors []*jsonschema.ValidationError) {
	errStr := "error"
	if len(errors) > 1 {
		errStr = "errors"
	}
	fmt.Println()
	color.Red("There is %d validation %s found in %s:\n", len(errors), errStr, cfgFile)
	for _, d := range errors {
		if d.InstanceLocation != "" {
			color.Red("- %s in %s\n", d.Message, d.InstanceLocation)
		} else {
			color.Red("- %s\n", d.Message)
		}
	}
	println()
}

func findRootCauses(validationError *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if validationError == nil {
		return []*jsonschema.ValidationError{}
	}

	if len(validationError.Causes) == 0 {
		return []*jsonschema.ValidationError{validationError}
	}

	var errors []*jsonschema.ValidationError
	for _, cause := range validationError.Causes {
		errors = append(errors, findRootCauses(cause)...)
	}
	return errors
}

// toStringKeys converts the maps produced by yaml.v2 into the map[string]interface{} that jsonschema expects.
func toStringKeys(val interface{}) (interface{}, error) {
	var err error
	switch val := val.(type) {
	case map[interface{}]interface{}:
		m := make(map[string]interface{})
		for k, v := range val {
			k, ok := k.(string)
			if !ok {
				return nil, errors.New("found non-string key")
			}
			m[k], err = toStringKeys(v)
			if err != nil {
				return nil, err
			}
		}
		return m, nil
	case []interface{}:
		var l = make([]interface{}, len(val))
		for i, v := range val {
			l[i], err = toStringKeys(v)
			if err != nil {
				return nil, err
			}
		}
		return l, nil
	default:
		return val, nil
	}
}
