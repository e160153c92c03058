// Package commands implements the CLI command tree.
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/fivetwenty-io/sonar/pkg/sonar"
	"github.com/fivetwenty-io/sonar/pkg/sonarclient"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Common string constants used throughout the commands package.
const (
	// Output formats.
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"

	// YAML formatting.
	defaultYAMLIndent = 2
)

// Common static errors used throughout the commands package.
var (
	ErrServerRequired  = errors.New("server URL is required (use --server, SONAR_SERVER, or 'sonar login')")
	ErrProjectRequired = errors.New("project key is required")
	ErrMetricsRequired = errors.New("at least one metric key is required")
)

// CreateClient builds an API client from the resolved configuration.
func CreateClient() (sonar.Client, error) {
	server := viper.GetString("server")
	if server == "" {
		return nil, ErrServerRequired
	}

	config := &sonar.Config{
		Endpoint:     server,
		Token:        viper.GetString("token"),
		Organization: viper.GetString("organization"),
		Debug:        viper.GetBool("verbose"),
	}

	client, err := sonarclient.New(config)
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	return client, nil
}

// StandardJSONRenderer creates a standard JSON encoder.
func StandardJSONRenderer[T any](data T) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to JSON: %w", err)
	}

	return nil
}

// StandardYAMLRenderer creates a standard YAML encoder.
func StandardYAMLRenderer[T any](data T) error {
	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(defaultYAMLIndent)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to YAML: %w", err)
	}

	return nil
}

func saveConfig() error {
	if viper.ConfigFileUsed() != "" {
		return viper.WriteConfig()
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("finding home directory: %w", err)
	}

	return viper.WriteConfigAs(home + "/.sonar/config.yml")
}
