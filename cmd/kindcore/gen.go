package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ezachrisen/kindcore"
	"github.com/ezachrisen/kindcore/hvm"
	"github.com/ezachrisen/kindcore/syntax"
)

func newGenCmd(a *app) *cobra.Command {
	var (
		f       engineFlags
		outDir  string
		summary bool
	)

	cmd := &cobra.Command{
		Use:   "gen-checker BOOK.yaml...",
		Short: "Generate the checker program for each book",
		Long: `Compiles each book into a checker program and writes it as BOOK.hvm,
next to the book or into --out. Books are compiled concurrently.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.options(cmd, &f)
			if err != nil {
				return err
			}
			engine := kindcore.NewEngine(nil, opts...)

			dir := a.cfg.OutDir
			if cmd.Flags().Changed("out") {
				dir = outDir
			}

			files := make([]*hvm.File, len(args))
			g, _ := errgroup.WithContext(cmd.Context())
			for i, path := range args {
				i, path := i, path
				g.Go(func() error {
					file, err := generate(engine, path, dir)
					if err != nil {
						return err
					}
					files[i] = file
					a.logger.Info("generated checker",
						zap.String("book", path),
						zap.String("program", outputPath(path, dir)),
						zap.String("rules", humanize.Comma(int64(len(file.Rules)))),
					)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			if summary {
				for i, file := range files {
					fmt.Fprintln(cmd.OutOrStdout(), args[i])
					fmt.Fprintln(cmd.OutOrStdout(), kindcore.FileSummary(file))
				}
			}
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "directory for generated programs")
	cmd.Flags().BoolVar(&summary, "summary", false, "print a table of the generated functions")
	return cmd
}

func generate(engine *kindcore.Engine, path, dir string) (*hvm.File, error) {
	book, err := syntax.LoadFile(path)
	if err != nil {
		return nil, err
	}
	file, err := engine.Compile(book)
	if err != nil {
		return nil, errors.Wrapf(err, "compiling %s", path)
	}

	out := outputPath(path, dir)
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "creating output directory")
		}
	}
	if err := os.WriteFile(out, []byte(file.String()), 0o644); err != nil {
		return nil, errors.Wrapf(err, "writing %s", out)
	}
	return file, nil
}

// outputPath replaces the book's extension with .hvm, in dir if given.
func outputPath(book, dir string) string {
	base := strings.TrimSuffix(filepath.Base(book), filepath.Ext(book)) + ".hvm"
	if dir == "" {
		return filepath.Join(filepath.Dir(book), base)
	}
	return filepath.Join(dir, base)
}
