package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/logging"
	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/model"
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=..."
var Version = "v0.3.0"

const envPrefix = "OBITUARY"

var (
	cfgFile   string
	verbose   bool
	logLevel  string
	logFormat string

	// cfg and logger are ready once PersistentPreRunE has run
	cfg    *model.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "obituary",
	Short: "Extract structured family records from obituary notices",
	Long: `obituary reads the prose of a death notice and returns who is named in it:
children, grandchildren, spouse, siblings, parents, in-laws, nieces and
nephews, plus birth, death and funeral details.

Extraction is rule based. Text that names nobody yields no record.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logging.Sync(logger)
		}
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "obituary %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.obituary/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console, json)")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if err := setDefaults(viper.GetViper(), model.DefaultConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading defaults: %v\n", err)
	}

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else if dir, err := configDir(); err == nil {
		viper.AddConfigPath(dir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// OBITUARY_CACHE_BACKEND overrides cache.backend
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setup resolves the layered configuration and builds the logger
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	cfg = loaded

	logger, err = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	return nil
}

// loadConfig unmarshals everything v knows over the defaults
func loadConfig(v *viper.Viper) (*model.Config, error) {
	c := model.DefaultConfig()
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return c, nil
}

// setDefaults registers every key of def with v so env vars can override
// keys that appear in no config file
func setDefaults(v *viper.Viper, def *model.Config) error {
	data, err := yaml.Marshal(def)
	if err != nil {
		return fmt.Errorf("marshal defaults: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("unmarshal defaults: %w", err)
	}

	var walk func(prefix string, node map[string]any)
	walk = func(prefix string, node map[string]any) {
		for k, val := range node {
			key := prefix + k
			if child, ok := val.(map[string]any); ok {
				walk(key+".", child)
				continue
			}
			v.SetDefault(key, val)
		}
	}
	walk("", tree)

	// Dropped from the YAML by omitempty
	v.SetDefault("http.http_proxy", def.HTTP.HTTPProxy)
	v.SetDefault("http.https_proxy", def.HTTP.HTTPSProxy)
	return nil
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".obituary"), nil
}
