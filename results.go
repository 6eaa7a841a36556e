package kindcore

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ezachrisen/kindcore/hvm"
	"github.com/ezachrisen/kindcore/report"
)

// Result of checking a book.
type Result struct {
	// The program handed to the evaluator. Nil when the result was produced
	// by Engine.Decode.
	File *hvm.File

	// The raw answer returned by the evaluator
	Answer hvm.Term

	// Errors found in the book, in the order the checker reported them
	Diagnostics []report.Diagnostic

	// Answer items that could not be decoded. These point at a mismatch
	// between the checker prelude and this package, not at the book.
	DecodeErrors []error
}

// OK reports whether the book checked without diagnostics and the answer
// decoded cleanly.
func (u *Result) OK() bool {
	return len(u.Diagnostics) == 0 && len(u.DecodeErrors) == 0
}

// String produces a table of the diagnostics and undecodable answer items.
func (u *Result) String() string {

	tw := table.NewWriter()
	tw.SetTitle("\nKINDCORE CHECK SUMMARY\n")
	tw.AppendHeader(table.Row{"\n#", "\nLocation", "\nKind", "\nMessage"})

	for i, d := range u.Diagnostics {
		tw.AppendRow(table.Row{i + 1, d.Range.String(), d.Kind.String(), d.Message()})
	}
	for _, err := range u.DecodeErrors {
		tw.AppendRow(table.Row{"-", "", "undecodable", err.Error()})
	}

	tw.AppendFooter(table.Row{"", "", "Total", fmt.Sprintf("%s diagnostics, %s undecodable",
		humanize.Comma(int64(len(u.Diagnostics))), humanize.Comma(int64(len(u.DecodeErrors))))})

	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault
	tw.SetStyle(style)
	return tw.Render()
}

// FileSummary produces a table of the functions a rule file defines and how
// many rules define each.
func FileSummary(f *hvm.File) string {
	tw := table.NewWriter()
	tw.SetTitle("\nKINDCORE CHECKER PROGRAM\n")
	tw.AppendHeader(table.Row{"Function", "Rules"})

	for _, h := range f.Heads() {
		tw.AppendRow(table.Row{h.Head, humanize.Comma(int64(h.Rules))})
	}

	tw.AppendFooter(table.Row{
		fmt.Sprintf("%s functions, %s", humanize.Comma(int64(len(f.Heads()))), humanize.Bytes(uint64(len(f.String())))),
		humanize.Comma(int64(len(f.Rules))),
	})

	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault
	tw.SetStyle(style)
	return tw.Render()
}
