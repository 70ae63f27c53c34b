package app

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/table"
	"github.com/jedib0t/go-pretty/text"

	"github.com/w3c-validators/w3c-validators/css"
	"github.com/w3c-validators/w3c-validators/internal/input"
	"github.com/w3c-validators/w3c-validators/markup"
)

// Report is the outcome for one target. Error is set when the target could
// not be validated at all; Valid is then false.
type Report struct {
	Target    string       `json:"target"`
	Kind      input.Kind   `json:"kind"`
	Validator string       `json:"validator"`
	Size      int64        `json:"size,omitempty"`
	Valid     bool         `json:"valid"`
	Errors    int          `json:"errors"`
	Warnings  int          `json:"warnings"`
	Messages  []ReportLine `json:"messages"`
	Error     string       `json:"error,omitempty"`
}

type ReportLine struct {
	Severity string `json:"severity"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
	Message  string `json:"message"`
	Context  string `json:"context,omitempty"`
}

func (r Report) failed() bool { return r.Error != "" }

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func markupReport(t target, validator string, res *markup.Result) Report {
	rep := t.report(validator)
	rep.Valid = res.IsValid()
	rep.Errors = len(res.Errors())
	rep.Warnings = len(res.Warnings())
	rep.Messages = make([]ReportLine, 0, len(res.Messages))
	for _, m := range res.Messages {
		severity := m.Type
		if sub := deref(m.SubType); sub != "" {
			severity += "/" + sub
		}
		line := ReportLine{
			Severity: severity,
			Line:     deref(m.LastLine),
			Column:   deref(m.FirstColumn),
			Message:  m.Message,
		}
		if line.Column == 0 {
			line.Column = deref(m.LastColumn)
		}
		if h, ok := m.Highlight(); ok {
			line.Context = h
		}
		rep.Messages = append(rep.Messages, line)
	}
	return rep
}

func cssReport(t target, validator string, res *css.Result) Report {
	v := res.CSSValidation
	rep := t.report(validator)
	rep.Valid = res.IsValid()
	rep.Errors = len(v.Errors)
	rep.Warnings = len(v.Warnings)
	rep.Messages = make([]ReportLine, 0, len(v.Errors)+len(v.Warnings))
	add := func(severity string, msgs []css.Message) {
		for _, m := range msgs {
			rep.Messages = append(rep.Messages, ReportLine{
				Severity: severity,
				Line:     m.Line,
				Message:  strings.TrimSpace(m.Message),
				Context:  strings.TrimSpace(deref(m.Context)),
			})
		}
	}
	add("error", v.Errors)
	add("warning", v.Warnings)
	return rep
}

func failedReport(t target, validator string, err error) Report {
	rep := t.report(validator)
	rep.Messages = []ReportLine{}
	rep.Error = err.Error()
	return rep
}

var (
	validLabel   = color.New(color.FgGreen, color.Bold)
	invalidLabel = color.New(color.FgRed, color.Bold)
	failedLabel  = color.New(color.FgYellow, color.Bold)
)

func statusLabel(r Report) string {
	switch {
	case r.failed():
		return failedLabel.Sprint("NOT VALIDATED")
	case r.Valid:
		return validLabel.Sprint("VALID")
	default:
		return invalidLabel.Sprint("INVALID")
	}
}

// renderReport formats r for a terminal: one status line, then a table of
// the messages if there are any.
func renderReport(r Report) string {
	var b strings.Builder
	b.WriteString(statusLabel(r) + " " + r.Target)
	meta := []string{string(r.Kind)}
	if r.Size > 0 {
		meta = append(meta, humanize.Bytes(uint64(r.Size)))
	}
	fmt.Fprintf(&b, " (%s)", strings.Join(meta, ", "))
	if r.failed() {
		fmt.Fprintf(&b, "\n  %s", r.Error)
		return b.String()
	}
	fmt.Fprintf(&b, " errors=%d warnings=%d", r.Errors, r.Warnings)
	if len(r.Messages) == 0 {
		return b.String()
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Severity", "Line", "Column", "Message", "Context"})
	for _, m := range r.Messages {
		t.AppendRow(table.Row{m.Severity, position(m.Line), position(m.Column), shortText(m.Message, 100), shortText(m.Context, 40)})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	t.SetStyle(table.StyleRounded)
	b.WriteString("\n")
	b.WriteString(t.Render())
	return b.String()
}

func position(n int) string {
	if n <= 0 {
		return "-"
	}
	return fmt.Sprint(n)
}

func shortText(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "..."
}
