//go:build generate

// Command schema_generator writes the secdash config JSON schema together with
// example YAML and .env files derived from the config struct defaults.
//
//	go run -tags generate ./jsonschema
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	iyaml "github.com/invopop/yaml"
	"github.com/mcuadros/go-defaults"

	"github.com/theopenlane/utils/envparse"

	"github.com/theopenlane/secdash/config"
)

const (
	tagName      = "koanf"
	skipper      = "-"
	defaultTag   = "default"
	sensitiveTag = "sensitive"
	modulePath   = "github.com/theopenlane/secdash/"
	fileMode     = 0o600
)

// outputs names the files written by the generator
var outputs = struct {
	schema, yaml, env string
}{
	schema: "./jsonschema/secdash.config.json",
	yaml:   "./config/config.example.yaml",
	env:    "./config/.env.example",
}

var durationType = reflect.TypeOf(time.Duration(0))

func main() {
	cfg := &config.Config{}
	defaults.SetDefaults(cfg)

	steps := []struct {
		path  string
		build func(*config.Config) ([]byte, error)
	}{
		{outputs.schema, schemaJSON},
		{outputs.yaml, exampleYAML},
		{outputs.env, exampleEnv},
	}

	for _, step := range steps {
		data, err := step.build(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", step.path, err)
			os.Exit(1)
		}

		if err := os.WriteFile(step.path, data, fileMode); err != nil {
			fmt.Fprintf(os.Stderr, "writing %s: %v\n", step.path, err)
			os.Exit(1)
		}

		fmt.Printf("wrote %s\n", step.path)
	}
}

// schemaJSON reflects the config struct, using koanf keys and Go doc comments
func schemaJSON(cfg *config.Config) ([]byte, error) {
	r := &jsonschema.Reflector{
		ExpandedStruct:             true,
		RequiredFromJSONSchemaTags: true,
		FieldNameTag:               tagName,
	}

	if err := r.AddGoComments(modulePath, "./config"); err != nil {
		return nil, fmt.Errorf("reading config comments: %w", err)
	}

	s := r.Reflect(cfg)
	s.Title = "secdash configuration"

	return json.MarshalIndent(s, "", "  ")
}

// exampleYAML renders the defaults keyed by koanf tag with durations as strings
func exampleYAML(cfg *config.Config) ([]byte, error) {
	return iyaml.Marshal(toMap(reflect.ValueOf(cfg).Elem()))
}

// toMap walks the nested config structs; sensitive fields are blanked
func toMap(v reflect.Value) map[string]any {
	out := make(map[string]any)
	t := v.Type()

	for i := range t.NumField() {
		field := t.Field(i)

		key := field.Tag.Get(tagName)
		if !field.IsExported() || key == "" || key == skipper {
			continue
		}

		fv := v.Field(i)

		switch {
		case field.Tag.Get(sensitiveTag) == "true":
			out[key] = ""
		case fv.Type() == durationType:
			out[key] = time.Duration(fv.Int()).String()
		case fv.Kind() == reflect.Struct:
			out[key] = toMap(fv)
		default:
			out[key] = fv.Interface()
		}
	}

	return out
}

// exampleEnv lists every SECDASH_ variable with its default value
func exampleEnv(cfg *config.Config) ([]byte, error) {
	parser := envparse.Config{
		FieldTagName: tagName,
		Skipper:      skipper,
	}

	vars, err := parser.GatherEnvInfo(strings.TrimSuffix(config.EnvPrefix, "_"), cfg)
	if err != nil {
		return nil, fmt.Errorf("gathering environment variables: %w", err)
	}

	var b strings.Builder

	for _, v := range vars {
		value := v.Tags.Get(defaultTag)

		if v.Tags.Get(sensitiveTag) == "true" {
			fmt.Fprintf(&b, "# %s is sensitive and should be set securely\n", v.Key)

			value = ""
		}

		fmt.Fprintf(&b, "%s=%q\n", v.Key, value)
	}

	return []byte(b.String()), nil
}
