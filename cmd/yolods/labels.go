package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLabelsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "labels <root>",
		Short: "Decode the labelled images of a split and print their objects",
		Long: `Decode the labelled images of a split and print, per image, its file name and
size followed by one label line per object. This validates that every image
decodes and every label file parses.`,
		Args: cobra.ExactArgs(1),
	}
	split := splitFlag(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		s, err := split()
		if err != nil {
			return err
		}
		ds, err := a.open(args[0])
		if err != nil {
			return err
		}

		it, err := ds.Records(s)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		n := 0
		for it.Next() {
			r := it.Record()
			b := r.Image.Bounds()
			fmt.Fprintf(out, "%s %dx%d\n", r.Name, b.Dx(), b.Dy())
			for _, box := range r.Boxes {
				fmt.Fprintf(out, "  %s\n", box.YOLOLine())
			}
			n++
		}
		if err := it.Err(); err != nil {
			return err
		}

		a.log.Info().Stringer("split", s).Int("records", n).Msg("Labels decoded")
		return nil
	}
	return cmd
}
