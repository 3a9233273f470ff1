package formatter

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/fatih/color"

	tt "github.com/gnoswap-labs/cssrules/internal/types"
)

const tabWidth = 8

// issue kinds
const (
	SyntaxError     = "syntax-error"
	NoMatch         = "no-match"
	IncompleteMatch = "incomplete-match"
	RunError        = "run-error"
)

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	warningStyle = color.New(color.FgHiYellow, color.Bold)
	kindStyle    = color.New(color.FgYellow, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	lineStyle    = color.New(color.FgHiBlue, color.Bold)
	messageStyle = color.New(color.FgRed, color.Bold)
	noteStyle    = color.New(color.FgGreen, color.Bold)
	typeStyle    = color.New(color.FgMagenta)
	valueStyle   = color.New(color.FgGreen)
)

var issueTmpl = template.Must(template.New("issue").Funcs(template.FuncMap{
	"header":              header,
	"snippet":             codeSnippet,
	"underlineAndMessage": underlineAndMessage,
	"note":                note,
}).Parse(issueTemplate))

// GenerateFormattedIssue renders issues against the source they refer to.
// A nil source renders the header and message only.
func GenerateFormattedIssue(issues []tt.Issue, source *SourceCode) string {
	var builder strings.Builder
	for _, issue := range issues {
		builder.WriteString(buildIssue(issue, source))
	}
	return builder.String()
}

type issueData struct {
	Kind      string
	Severity  string
	Filename  string
	Line      int
	Column    int
	Width     int
	Padding   string
	Source    string
	HasSource bool
	Underline int
	Span      int
	Message   string
	Note      string
}

func buildIssue(issue tt.Issue, source *SourceCode) string {
	width := len(fmt.Sprintf("%d", issue.Start.Line))
	data := issueData{
		Kind:     issue.Kind,
		Severity: issue.Severity.String(),
		Filename: issue.Filename,
		Line:     issue.Start.Line,
		Column:   issue.Start.Column,
		Width:    width,
		Padding:  strings.Repeat(" ", width+1),
		Message:  issue.Message,
		Note:     issue.Note,
	}

	if line, ok := source.line(issue.Start.Line); ok {
		data.HasSource = true
		data.Source = expandTabs(line)
		data.Underline = calculateVisualColumn(line, issue.Start.Column)
		end := len(line) + 1
		if issue.End.Line == issue.Start.Line && issue.End.Column > issue.Start.Column {
			end = issue.End.Column
		}
		data.Span = calculateVisualColumn(line, end) - data.Underline
		if data.Span < 1 {
			data.Span = 1
		}
	}

	var buf bytes.Buffer
	if err := issueTmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting issue: %v\n", err)
	}
	return buf.String()
}

// utils functions used in the text template

func header(kind, severity string, width int, filename string, line, column int) string {
	var out string
	switch severity {
	case "ERROR":
		out = errorStyle.Sprint("error: ")
	case "WARNING":
		out = warningStyle.Sprint("warning: ")
	default:
		out = messageStyle.Sprint("info: ")
	}
	out += kindStyle.Sprintf("%s\n", kind)
	out += lineStyle.Sprintf("%s--> ", strings.Repeat(" ", width))
	if line > 0 {
		out += fileStyle.Sprintf("%s:%d:%d\n", filename, line, column)
	} else {
		out += fileStyle.Sprintf("%s\n", filename)
	}
	return out
}

func codeSnippet(padding string, line, width int, source string, hasSource bool) string {
	out := lineStyle.Sprintf("%s|\n", padding)
	if !hasSource {
		return out
	}
	out += lineStyle.Sprintf("%*d | ", width, line)
	out += source + "\n"
	return out
}

func underlineAndMessage(message, padding string, underline, span int, hasSource bool) string {
	var out string
	if hasSource {
		out = lineStyle.Sprintf("%s| ", padding)
		out += strings.Repeat(" ", underline)
		out += messageStyle.Sprintf("%s\n", strings.Repeat("^", span))
	}
	out += lineStyle.Sprintf("%s= ", padding)
	out += messageStyle.Sprintf("%s\n", message)
	return out
}

func note(note, padding string) string {
	return lineStyle.Sprintf("%s= ", padding) + noteStyle.Sprint("note: ") + note + "\n"
}

// calculateVisualColumn returns the display column of the 1-based byte
// column in line, taking tab stops into account.
func calculateVisualColumn(line string, column int) int {
	if column < 1 {
		return 0
	}
	visualColumn := 0
	for i, ch := range line {
		if i+1 >= column {
			break
		}
		if ch == '\t' {
			visualColumn += tabWidth - (visualColumn % tabWidth)
		} else {
			visualColumn++
		}
	}
	return visualColumn
}

func expandTabs(line string) string {
	var expanded strings.Builder
	col := 0
	for _, ch := range line {
		if ch == '\t' {
			n := tabWidth - (col % tabWidth)
			expanded.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		expanded.WriteRune(ch)
		col++
	}
	return expanded.String()
}
