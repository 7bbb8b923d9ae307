package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var phrasesCmd = &cobra.Command{
	Use:   "phrases [flags]",
	Short: "List the phrase table for a report type",
	Args:  cobra.NoArgs,
	RunE:  runPhrases,
}

func init() {
	phrasesCmd.Flags().String("format", "text", "output format (text|json)")
}

func runPhrases(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	cat, rt, err := loadCatalog(cmd)
	if err != nil {
		return err
	}
	table, ok := cat.Table(string(rt))
	if !ok {
		return fmt.Errorf("no phrase table loaded for %s", rt)
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(table.Entries())
	case "text":
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "KIND\tKEY\tTEMPLATE")
		for _, e := range table.Entries() {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Kind, e.Key, e.Template)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
