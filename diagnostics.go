package kindcore

import (
	"fmt"
	"strings"

	"github.com/Delta456/box-cli-maker/v2"
	"github.com/alexeyco/simpletable"

	"github.com/ezachrisen/kindcore/report"
	"github.com/ezachrisen/kindcore/syntax"
)

// RenderDiagnostics draws a boxed report of the diagnostics, one section per
// diagnostic with its typing context.
func RenderDiagnostics(diags []report.Diagnostic) string {
	Box := box.New(box.Config{Px: 2, Py: 1, Type: "Double", Color: "Cyan", TitlePos: "Top", ContentAlign: "Left"})

	if len(diags) == 0 {
		return Box.String("KINDCORE DIAGNOSTIC REPORT", "No diagnostics.")
	}

	s := strings.Builder{}
	for i, d := range diags {
		if i > 0 {
			s.WriteString("\n\n")
		}
		title := fmt.Sprintf("Diagnostic %d of %d:", i+1, len(diags))
		s.WriteString(title)
		s.WriteString("\n")
		s.WriteString(strings.Repeat("-", len(title)))
		s.WriteString("\n")
		s.WriteString("Location: ")
		s.WriteString(d.Range.String())
		s.WriteString("\n")
		s.WriteString(wordWrap(d.Message(), 100))
		s.WriteString("\n")

		if len(d.Context) > 0 {
			s.WriteString("\n")
			s.WriteString("Context:\n")
			s.WriteString("--------\n")
			s.WriteString(contextTable(d.Context).String())
		}
	}
	return Box.String("KINDCORE DIAGNOSTIC REPORT", s.String())
}

func contextTable(ctx []report.ContextEntry) *simpletable.Table {
	table := simpletable.New()
	table.Header = &simpletable.Header{
		Cells: []*simpletable.Cell{
			{Align: simpletable.AlignCenter, Text: "Name"},
			{Align: simpletable.AlignCenter, Text: "Type"},
			{Align: simpletable.AlignCenter, Text: "Values"},
		},
	}

	for _, c := range ctx {
		r := []*simpletable.Cell{
			{Text: c.Name},
			{Text: exprString(c.Type)},
			{Text: joinExprs(c.Values)},
		}
		table.Body.Cells = append(table.Body.Cells, r)
	}

	table.SetStyle(simpletable.StyleUnicode)

	return table
}

func exprString(e syntax.Expr) string {
	if e == nil {
		return ""
	}
	return e.String()
}

func joinExprs(es []syntax.Expr) string {
	s := make([]string, len(es))
	for i, e := range es {
		s[i] = exprString(e)
	}
	return strings.Join(s, ", ")
}

func wordWrap(text string, lineWidth int) string {
	words := strings.Fields(strings.TrimSpace(text))
	if len(words) == 0 {
		return text
	}
	wrapped := words[0]
	spaceLeft := lineWidth - len(wrapped)
	for _, word := range words[1:] {
		if len(word)+1 > spaceLeft {
			wrapped += "\n" + word
			spaceLeft = lineWidth - len(word)
		} else {
			wrapped += " " + word
			spaceLeft -= 1 + len(word)
		}
	}

	return wrapped

}
