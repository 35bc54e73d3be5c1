package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/model"
	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/pipeline"
)

var (
	outPath string
	noCache bool
	timeout time.Duration
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <file|url|->",
	Short: "Extract the family record from one obituary",
	Long: `Extract reads one obituary from a text or HTML file, a URL, or stdin ("-")
and prints the family record it names.

When nothing is found the record is null and the command still succeeds.
Text that is empty or longer than 5000 characters is rejected.

Example:
  obituary extract notice.txt
  obituary extract https://example.com/obituaries/jane-doe --format yaml
  pbpaste | obituary extract - --geocode --out jane.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().String("format", "json", "output format (json, yaml)")
	extractCmd.Flags().StringVar(&outPath, "out", "", "write the record to this file instead of stdout")
	extractCmd.Flags().Bool("geocode", false, "look up coordinates for the birth place")
	extractCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the geocode cache")
	extractCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall timeout")
	extractCmd.Flags().String("ua", model.DefaultUserAgent, "HTTP User-Agent for fetching and geocoding")

	_ = viper.BindPFlag("output.format", extractCmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("geocoder.enabled", extractCmd.Flags().Lookup("geocode"))
	_ = viper.BindPFlag("http.user_agent", extractCmd.Flags().Lookup("ua"))
	_ = viper.BindPFlag("geocoder.user_agent", extractCmd.Flags().Lookup("ua"))
}

func runExtract(cmd *cobra.Command, args []string) error {
	source := args[0]
	if noCache {
		cfg.Cache.Enabled = false
	}
	if cmd.Flags().Changed("timeout") {
		cfg.HTTP.Timeout = timeout
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if verbose {
		fmt.Fprintf(os.Stderr, "Extracting: %s\n", source)
		fmt.Fprintf(os.Stderr, "Geocoding: %v (cache: %v)\n", cfg.Geocoder.Enabled, cfg.Cache.Enabled)
	}

	var fam *model.Family
	if source == "-" {
		fam, err = a.pipeline.ExtractReader(ctx, cmd.InOrStdin())
	} else {
		fam, err = a.pipeline.Process(ctx, source)
	}
	if err != nil {
		return fmt.Errorf("extract %s: %w", source, err)
	}

	if fam == nil {
		fmt.Fprintln(os.Stderr, "No family information found")
	} else if verbose {
		fmt.Fprintf(os.Stderr, "✓ Found: %v\n", fam.Categories())
	}

	if outPath != "" {
		if err := pipeline.RenderFile(outPath, fam, cfg.Output.Format); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", outPath)
		}
		return nil
	}
	return pipeline.Render(cmd.OutOrStdout(), fam, cfg.Output.Format)
}
