package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/pipeline"
	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/worker"
)

var (
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Extract many obituaries listed in a file",
	Long: `Batch reads file paths and URLs from a list file, one per line, and
extracts each one concurrently. Blank lines and lines starting with # are
skipped. Each record is written to <output-dir>/<slug>.json.

Example:
  obituary batch notices.txt
  obituary batch notices.txt --concurrency 8 --output-dir ./families
  obituary batch urls.txt --timeout 30m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().Int("concurrency", 4, "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./obituary-records", "output directory for records")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the geocode cache")

	_ = viper.BindPFlag("concurrency.workers", batchCmd.Flags().Lookup("concurrency"))
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	if noCache {
		cfg.Cache.Enabled = false
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	processor := worker.NewBatchProcessor(a.pipeline, cfg.Concurrency.Workers, logger)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	summary := writeResults(results, outputDir, a)

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d sources\n", len(results))
	fmt.Fprintf(os.Stderr, "  Found:     %d\n", summary.found)
	fmt.Fprintf(os.Stderr, "  Empty:     %d\n", summary.empty)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", summary.failed)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if summary.failed > 0 && summary.found+summary.empty == 0 {
		return fmt.Errorf("all %d sources failed", summary.failed)
	}
	return nil
}

type batchSummary struct {
	found, empty, failed int
}

// writeResults writes one JSON record per source. Sources that share a slug
// get a numeric suffix.
func writeResults(results []*worker.ExtractResult, dir string, a *app) batchSummary {
	var s batchSummary
	used := make(map[string]int)

	for _, result := range results {
		a.metrics.ObserveSource(result.Family, result.Error, result.Duration)

		if result.Error != nil {
			s.failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Source, result.Error)
			continue
		}

		slug := pipeline.Slug(result.Source)
		if n := used[slug]; n > 0 {
			used[slug] = n + 1
			slug = fmt.Sprintf("%s-%d", slug, n+1)
		} else {
			used[slug] = 1
		}

		path := filepath.Join(dir, slug+".json")
		if err := pipeline.RenderFile(path, result.Family, pipeline.FormatJSON); err != nil {
			s.failed++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.Source, err)
			continue
		}

		if result.Family == nil {
			s.empty++
			fmt.Fprintf(os.Stderr, "- %s (no family information)\n", result.Source)
			continue
		}
		s.found++
		fmt.Fprintf(os.Stderr, "✓ %s (%d categories)\n", result.Source, len(result.Family.Categories()))
	}
	return s
}
