package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPairsCmd(a *app) *cobra.Command {
	var keepMissing bool

	cmd := &cobra.Command{
		Use:   "pairs <root>",
		Short: "List the image and label file paths of a split",
		Long: `List the image and label file paths of a split, one tab separated pair per line,
sorted by image file name. With --keep-missing, images without a label file are
listed with an empty label path.`,
		Args: cobra.ExactArgs(1),
	}
	split := splitFlag(cmd)
	cmd.Flags().BoolVar(&keepMissing, "keep-missing", false,
		"List images without a label file")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		s, err := split()
		if err != nil {
			return err
		}
		ds, err := a.open(args[0])
		if err != nil {
			return err
		}

		it, err := ds.Pairs(s, !keepMissing)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for it.Next() {
			p := it.Pair()
			fmt.Fprintf(out, "%s\t%s\n", p.ImagePath, p.LabelPath)
		}
		return it.Err()
	}
	return cmd
}
