package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/model"
)

// Output formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Render writes fam to w. A nil family is written as null.
func Render(w io.Writer, fam *model.Family, format string) error {
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(fam); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(fam); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// RenderFile writes fam to path, creating parent directories
func RenderFile(path string, fam *model.Family, format string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := Render(f, fam, format); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
