package main

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/reportgen/internal/report"
)

var expandCmd = &cobra.Command{
	Use:   "expand [flags] file...",
	Short: "Expand shorthand files into report text",
	Long:  `Expand reads each shorthand file (text, markdown, html, docx, pdf or csv) and prints the assembled report`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExpand,
}

func init() {
	expandCmd.Flags().String("format", "text", "output format (text|json)")
	expandCmd.Flags().Int("jobs", 0, "files expanded in parallel (0 = GOMAXPROCS)")
}

type expandResult struct {
	File string `json:"file"`
	report.Generation
}

func runExpand(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	jobs, _ := cmd.Flags().GetInt("jobs")
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	cat, rt, err := loadCatalog(cmd)
	if err != nil {
		return err
	}

	// Each goroutine writes only its own index.
	results := make([]expandResult, len(args))

	g, gctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(min(jobs, len(args)))
	for i, path := range args {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			shorthand, err := readShorthand(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			gen, err := report.Generate(cat, string(rt), shorthand)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = expandResult{File: path, Generation: gen}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	for i, res := range results {
		if len(results) > 1 {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "==> %s <==\n", res.File)
		}
		fmt.Fprintln(out, res.Text)
		for _, n := range res.Notes {
			if n.IsWarning() {
				fmt.Fprintf(os.Stderr, "%s: %s\n", res.File, n.Message)
			}
		}
	}
	return nil
}
