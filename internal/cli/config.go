package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default name of the config file
const DefaultConfigFile = "config.yaml"

// Config represents the configuration for the Flexy CLI.
type Config struct {
	// Version of the configuration file format
	Version string `yaml:"version"`
	// Server is the base URL of the flexy-db server
	Server string `yaml:"server"`
	// Output is the default output format: "table" or "json"
	Output string `yaml:"output"`
}

var config *Config

// GetDefaultConfigPath returns the default path for the config file
// It uses the OS-specific config directory (e.g., ~/.config/flexy on Linux)
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "flexy", DefaultConfigFile), nil
}

// LoadConfig loads the configuration from the specified file
// If no file is specified, it uses the default config location
func LoadConfig(file string) error {
	if file == "" {
		var err error
		file, err = GetDefaultConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get default config path: %w", err)
		}
	}

	yamlStr, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("unable to read config file: %w", err)
	}

	var c Config
	if err = yaml.Unmarshal(yamlStr, &c); err != nil {
		return fmt.Errorf("unable to parse config file: %w", err)
	}

	if err := c.ValidateConfig(); err != nil {
		return err
	}
	c.Server = strings.TrimSuffix(c.Server, "/")

	config = &c
	return nil
}

// GetConfig returns the current configuration
func GetConfig() *Config {
	return config
}

// WriteConfig writes the current configuration to the specified file
func (cfg *Config) WriteConfig(file string) error {
	if file == "" {
		return errors.New("file path cannot be empty")
	}

	err := os.MkdirAll(filepath.Dir(file), os.ModePerm)
	if err != nil {
		return fmt.Errorf("unable to create config directory: %w", err)
	}

	yamlStr, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("unable to generate configuration: %w", err)
	}

	err = os.WriteFile(file, yamlStr, os.FileMode(0644))
	if err != nil {
		return fmt.Errorf("unable to write config file: %w", err)
	}

	return nil
}

// ValidateConfig validates the configuration
func (cfg *Config) ValidateConfig() error {
	if cfg.Server == "" {
		return errors.New("server is required")
	}
	if !strings.HasPrefix(cfg.Server, "http://") && !strings.HasPrefix(cfg.Server, "https://") {
		return errors.New("server must be an http(s) URL")
	}
	if cfg.Output != "" && cfg.Output != "table" && cfg.Output != "json" {
		return errors.New("output must be \"table\" or \"json\"")
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the flexy configuration file",
	}
	cmd.AddCommand(newConfigCreateCmd())
	cmd.AddCommand(newConfigViewCmd())
	return cmd
}

func newConfigCreateCmd() *cobra.Command {
	var server, output string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create the flexy configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := &Config{
				Version: "v1",
				Server:  strings.TrimSuffix(server, "/"),
				Output:  output,
			}
			if err := c.ValidateConfig(); err != nil {
				return err
			}
			if err := c.WriteConfig(configFile); err != nil {
				return err
			}
			cmd.Printf("Config written to %s\n", configFile)
			return nil
		},
	}
	cmd.Flags().StringVar(&server, "server", "http://localhost:8180", "Base URL of the flexy-db server")
	cmd.Flags().StringVar(&output, "output", "table", "Default output format (table or json)")
	return cmd
}

func newConfigViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Show the current flexy configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := LoadConfig(configFile); err != nil {
				return err
			}
			yamlStr, err := yaml.Marshal(GetConfig())
			if err != nil {
				return err
			}
			cmd.Print(string(yamlStr))
			return nil
		},
	}
}
