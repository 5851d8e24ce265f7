package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/sensorable/yolods"
	"github.com/spf13/cobra"
)

// splitSummary describes one split of a dataset.
type splitSummary struct {
	Split    string `json:"split"`
	Path     string `json:"path,omitempty"`
	Labelled int    `json:"labelled"`
	Error    string `json:"error,omitempty"`
}

// datasetSummary is the output of the inspect command.
type datasetSummary struct {
	Root       string         `json:"root"`
	ClassCount int            `json:"nc"`
	ClassNames []string       `json:"names"`
	Splits     []splitSummary `json:"splits"`
}

func newInspectCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect <root>",
		Short: "Show the manifest and the number of labelled images per split",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.open(args[0])
			if err != nil {
				return err
			}
			summary := summarize(ds)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}
			return printSummary(cmd, summary)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")
	return cmd
}

// summarize counts the labelled images of all configured splits. Splits that cannot be read are
// reported in the summary rather than failing it.
func summarize(ds *yolods.Dataset) datasetSummary {
	mf := ds.Manifest()
	summary := datasetSummary{
		Root:       ds.Root(),
		ClassCount: mf.ClassCount,
		ClassNames: mf.Names(),
	}

	for _, s := range yolods.Splits() {
		path := mf.SplitPath(s)
		if path == "" {
			continue
		}
		ss := splitSummary{Split: s.String(), Path: path}
		n, err := ds.Count(s)
		switch {
		case errors.Is(err, yolods.ErrNotFound):
			ss.Error = "not found"
		case err != nil:
			ss.Error = err.Error()
		default:
			ss.Labelled = n
		}
		summary.Splits = append(summary.Splits, ss)
	}

	return summary
}

func printSummary(cmd *cobra.Command, summary datasetSummary) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Root:\t%s\n", summary.Root)
	fmt.Fprintf(w, "Classes:\t%d\n", summary.ClassCount)
	for i, name := range summary.ClassNames {
		fmt.Fprintf(w, "  %d\t%s\n", i, name)
	}
	fmt.Fprintln(w, "Splits:")
	for _, ss := range summary.Splits {
		status := fmt.Sprintf("%d labelled", ss.Labelled)
		if ss.Error != "" {
			status = ss.Error
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\n", ss.Split, ss.Path, status)
	}
	return w.Flush()
}
