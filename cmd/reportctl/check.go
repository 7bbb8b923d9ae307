package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dgallion1/reportgen/internal/assemble"
	"github.com/dgallion1/reportgen/internal/report"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] file...",
	Short: "Report unknown codes and malformed spans in shorthand files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

var (
	okColor      = color.New(color.FgGreen, color.Bold)
	warnColor    = color.New(color.FgYellow, color.Bold)
	unknownColor = color.New(color.FgCyan)
	fileColor    = color.New(color.Bold)
)

func runCheck(cmd *cobra.Command, args []string) error {
	applyColorFlag(cmd)

	cat, rt, err := loadCatalog(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	failed := 0
	for _, path := range args {
		shorthand, err := readShorthand(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		gen, err := report.Generate(cat, string(rt), shorthand)
		if err != nil {
			return err
		}

		if len(gen.Notes) == 0 {
			fmt.Fprintf(out, "%s %s\n", fileColor.Sprint(path), okColor.Sprint("ok"))
			continue
		}
		failed++
		fmt.Fprintln(out, fileColor.Sprint(path))
		for _, n := range gen.Notes {
			label := unknownColor.Sprint("unknown")
			if n.IsWarning() {
				label = warnColor.Sprint("warning")
			}
			fmt.Fprintf(out, "  %d: %s %s\n", n.Line, label, n.Message)
		}
		if codes := assemble.UnresolvedTokens(gen.Notes); len(codes) > 0 {
			fmt.Fprintf(out, "  unknown codes: %v\n", codes)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) have findings", failed, len(args))
	}
	return nil
}
