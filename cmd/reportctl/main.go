package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dgallion1/reportgen/internal/config"
	"github.com/dgallion1/reportgen/internal/phrase"
	"github.com/dgallion1/reportgen/internal/report"
	"github.com/dgallion1/reportgen/internal/source"
)

var rootCmd = &cobra.Command{
	Use:           "reportctl",
	Short:         "Expand pathology shorthand into report text",
	Long:          `reportctl expands, checks and inspects shorthand against the configured phrase tables`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(phrasesCmd)

	rootCmd.PersistentFlags().String("phrases", "", "phrase table file (defaults to TRANSPLANT_PHRASES/NATIVE_PHRASES)")
	rootCmd.PersistentFlags().String("type", string(report.Transplant), "report type (transplant|native)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

// loadCatalog builds the catalog from --phrases, or from the environment
// when the flag is empty. A --phrases file is registered under --type.
func loadCatalog(cmd *cobra.Command) (*phrase.Catalog, report.ReportType, error) {
	typeFlag, _ := cmd.Flags().GetString("type")
	rt, err := report.ParseReportType(typeFlag)
	if err != nil {
		return nil, "", err
	}

	files := config.Load().PhraseFiles()
	if path, _ := cmd.Flags().GetString("phrases"); path != "" {
		files = map[string]string{path: string(rt)}
	}

	cat := phrase.NewCatalog()
	if err := cat.LoadFiles(files); err != nil {
		return nil, "", err
	}
	return cat, rt, nil
}

// readShorthand reads a shorthand file through the document extractors;
// "-" reads plain text from stdin.
func readShorthand(path string) (string, error) {
	if path == "-" {
		return (&source.TextExtractor{}).Extract(os.Stdin, "stdin.txt")
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return source.Extract(f, filepath.Base(path), source.Options{PDFFallbackPdftotext: true})
}

func applyColorFlag(cmd *cobra.Command) {
	switch v, _ := cmd.Flags().GetString("color"); v {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	}
}
