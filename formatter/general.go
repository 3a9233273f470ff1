package formatter

// issueTemplate lays out a single issue.
const issueTemplate = `{{header .Kind .Severity .Width .Filename .Line .Column}}` +
	`{{snippet .Padding .Line .Width .Source .HasSource}}` +
	`{{underlineAndMessage .Message .Padding .Underline .Span .HasSource}}` +
	`{{if .Note}}{{note .Note .Padding}}{{end}}
`
