package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/model"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage the obituary configuration file.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (OBITUARY_*, e.g. OBITUARY_CACHE_BACKEND=redis)
3. Config file (~/.obituary/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if configFile := viper.ConfigFileUsed(); configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		yamlData, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(yamlData)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	Long:  `Create ~/.obituary/config.yaml holding every option at its default value.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := configDir()
		if err != nil {
			return err
		}
		configPath, err := writeDefaultConfig(dir)
		if err != nil {
			return err
		}

		fmt.Printf("✓ Created default configuration: %s\n", configPath)
		fmt.Printf("\nTo view the configuration:\n")
		fmt.Printf("  obituary config show\n")
		return nil
	},
}

const configHeader = `# obituary configuration
#
# Configuration hierarchy (highest to lowest priority):
#   1. CLI flags
#   2. Environment variables (OBITUARY_*)
#   3. This config file
#   4. Built-in defaults
#
# cache.backend is one of memory, disk, layered, redis.
# Geocoding uses Nominatim; keep requests_per_second at 1 for the public server.

`

// writeDefaultConfig writes dir/config.yaml and refuses to overwrite
func writeDefaultConfig(dir string) (string, error) {
	configPath := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists: %s\nUse 'obituary config show' to view it, or delete it first to recreate", configPath)
	}

	yamlData, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return "", fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating config directory: %w", err)
	}
	if err := os.WriteFile(configPath, append([]byte(configHeader), yamlData...), 0o644); err != nil {
		return "", fmt.Errorf("error writing config: %w", err)
	}
	return configPath, nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
