package main

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ezachrisen/kindcore/span"
)

func newRangeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "range N | range FILE START END",
		Short: "Decode a packed range, or pack one",
		Args: cobra.MatchAll(cobra.RangeArgs(1, 3), func(cmd *cobra.Command, args []string) error {
			if len(args) == 2 {
				return errors.New("expected N or FILE START END")
			}
			return nil
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				n, err := strconv.ParseUint(args[0], 0, 64)
				if err != nil {
					return errors.Wrap(err, "packed range")
				}
				fmt.Fprintln(cmd.OutOrStdout(), span.Decode(n))
				return nil
			}

			file, err := strconv.ParseUint(args[0], 10, 16)
			if err != nil {
				return errors.Wrap(err, "file")
			}
			start, err := strconv.ParseUint(args[1], 10, 32)
			if err != nil {
				return errors.Wrap(err, "start")
			}
			end, err := strconv.ParseUint(args[2], 10, 32)
			if err != nil {
				return errors.Wrap(err, "end")
			}

			r := span.New(uint16(file), uint32(start), uint32(end))
			if !r.Fits() {
				return errors.Errorf("range %s does not fit in 60 bits", r)
			}
			fmt.Fprintln(cmd.OutOrStdout(), r.Encode())
			return nil
		},
	}
}
