package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ezachrisen/kindcore"
	"github.com/ezachrisen/kindcore/hvm"
	"github.com/ezachrisen/kindcore/syntax"
)

// errFailed is returned when a check or decode reports any diagnostic, so
// the process exits non-zero.
var errFailed = errors.New("type check failed")

func newCheckCmd(a *app) *cobra.Command {
	var f engineFlags

	cmd := &cobra.Command{
		Use:   "check BOOK.yaml",
		Short: "Type check a book on the configured evaluator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.options(cmd, &f)
			if err != nil {
				return err
			}
			book, err := syntax.LoadFile(args[0])
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			ev := a.cfg.Command()
			ev.Logger = a.logger
			res, err := kindcore.NewEngine(ev, opts...).Check(ctx, book)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), res)
		},
	}

	f.register(cmd)
	return cmd
}

func newDecodeCmd(a *app) *cobra.Command {
	var f engineFlags

	cmd := &cobra.Command{
		Use:   "decode ANSWER.hvm",
		Short: "Render the diagnostics in a saved evaluator answer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.options(cmd, &f)
			if err != nil {
				return err
			}
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			answer, err := hvm.Parse(strings.TrimSpace(string(src)))
			if err != nil {
				return errors.Wrapf(err, "parsing %s", args[0])
			}

			res, err := kindcore.NewEngine(nil, opts...).Decode(answer)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), res)
		},
	}

	f.register(cmd)
	return cmd
}

func render(w io.Writer, res *kindcore.Result) error {
	fmt.Fprintln(w, kindcore.RenderDiagnostics(res.Diagnostics))
	if len(res.DecodeErrors) > 0 {
		fmt.Fprintln(w, res.String())
	}
	if !res.OK() {
		return errors.Wrapf(errFailed, "%d diagnostics, %d undecodable", len(res.Diagnostics), len(res.DecodeErrors))
	}
	return nil
}
