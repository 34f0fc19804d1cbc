package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harrylevesque/boardbot/internal/files"
)

var resultsFlags struct {
	dir string
}

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "List processed images saved with upload --out",
	Args:  cobra.NoArgs,
	RunE:  runResults,
}

func init() {
	resultsCmd.Flags().StringVar(&resultsFlags.dir, "dir", defaultResultsDir(), "Results directory")
}

func runResults(cmd *cobra.Command, _ []string) error {
	store, err := files.NewOutputStore(resultsFlags.dir)
	if err != nil {
		return err
	}
	entries, err := store.List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No results in %s\n", store.Dir())
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CREATED\tPATH\tSOURCE\tDIGEST")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.12s\n", e.CreatedAt.Format("2006-01-02 15:04:05"), e.Path, e.Source, e.Digest)
	}
	return w.Flush()
}
