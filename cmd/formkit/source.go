package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/formkit/internal/config"
	"github.com/vango-dev/formkit/internal/errors"
	"github.com/vango-dev/formkit/pkg/field"
	"github.com/vango-dev/formkit/pkg/form"
	"github.com/vango-dev/formkit/pkg/schema"
	"github.com/vango-dev/formkit/pkg/tui"
)

// source selects the configuration and the form definition a command
// works on.
type source struct {
	config     string
	definition string
	openapi    string
	schema     string
}

func (s *source) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.config, "config", "c", "", "Config file (default ./formkit.json or ./formkit.yaml)")
	cmd.Flags().StringVarP(&s.definition, "definition", "d", "", "Form definition file (default from config)")
	cmd.Flags().StringVar(&s.openapi, "openapi", "", "OpenAPI document to read the form from")
	cmd.Flags().StringVar(&s.schema, "schema", "", "Component schema to use with --openapi")
}

// loadConfig loads the config file, falling back to defaults when none
// exists in the working directory.
func (s *source) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case s.config != "":
		cfg, err = config.LoadFile(s.config)
	case exists(config.ConfigFileName) || exists(config.YAMLConfigFileName):
		cfg, err = config.Load(".")
	default:
		cfg = config.New()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// load returns the configuration and the definition.
func (s *source) load(ctx context.Context) (*config.Config, *config.Definition, error) {
	cfg, err := s.loadConfig()
	if err != nil {
		return nil, nil, err
	}

	if s.openapi != "" {
		if s.schema == "" {
			return nil, nil, errors.New("F021").WithDetail("--openapi needs --schema")
		}
		data, err := os.ReadFile(s.openapi)
		if err != nil {
			return nil, nil, errors.New("F020").WithDetail(s.openapi).Wrap(err)
		}
		fields, err := schema.Load(ctx, data, s.schema)
		if err != nil {
			return nil, nil, err
		}
		def := config.FromSchema(s.schema, fields)
		def.Options = cfg.Form.Options
		if err := def.Validate(); err != nil {
			return nil, nil, err
		}
		return cfg, def, nil
	}

	path := s.definition
	if path == "" {
		path = cfg.DefinitionPath()
	}
	if path == "" {
		return nil, nil, errors.New("F012").
			WithDetail("no form definition").
			WithSuggestion("Pass --definition, --openapi with --schema, or set definition in " + config.ConfigFileName)
	}
	def, err := config.LoadDefinition(path)
	if err != nil {
		return nil, nil, err
	}
	return cfg, def, nil
}

// build creates a form from def with the config's form options.
func build(cfg *config.Config, def *config.Definition, opts ...form.Option) (*form.Form, []*field.Item, error) {
	opts = append(cfg.FormOptions(), opts...)
	if def.HasUploads() {
		return def.BuildWithS3(newS3Client(), opts...)
	}
	return def.Build(opts...)
}

// newS3Client creates an S3 client from the standard AWS environment
// variables.
func newS3Client() *s3.Client {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = os.Getenv("AWS_DEFAULT_REGION")
	}
	return s3.New(s3.Options{
		Region: region,
		Credentials: aws.NewCredentialsCache(aws.CredentialsProviderFunc(
			func(context.Context) (aws.Credentials, error) {
				creds := aws.Credentials{
					AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
					SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
					SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
					Source:          "environment",
				}
				if !creds.HasKeys() {
					return aws.Credentials{}, fmt.Errorf("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
				}
				return creds, nil
			})),
	})
}

// loadValues reads a JSON or YAML object of field values.
func loadValues(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return values, nil
}

// prompts returns one prompt per definition field. Upload fields are
// asked for their object key.
func prompts(def *config.Definition) []tui.Prompt {
	out := make([]tui.Prompt, 0, len(def.Fields))
	for _, f := range def.Fields {
		p := tui.Prompt{
			Name:    f.Name,
			Label:   f.Label,
			Help:    f.Help,
			Options: f.Options,
		}
		switch f.Type {
		case config.TypePassword:
			p.Type = tui.TypePassword
		case config.TypeInteger:
			p.Type = tui.TypeInteger
		case config.TypeNumber:
			p.Type = tui.TypeNumber
		case config.TypeBoolean:
			p.Type = tui.TypeBoolean
		case config.TypeUpload:
			if p.Help == "" {
				p.Help = "Object key in s3://" + f.Bucket + "/" + f.Prefix
			}
		}
		out = append(out, p)
	}
	return out
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
