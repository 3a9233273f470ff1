package types

// Severity of an issue.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "ERROR"
	case SeverityWarning:
		return "WARNING"
	case SeverityInfo:
		return "INFO"
	default:
		return "UNKNOWN"
	}
}

// Position is a location in an input file. Line and Column are 1-based.
type Position struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Issue explains why an input was rejected.
type Issue struct {
	Kind     string   `json:"kind"`
	Rule     string   `json:"rule"`
	Filename string   `json:"filename"`
	Severity Severity `json:"severity"`
	Start    Position `json:"start"`
	End      Position `json:"end"`
	Message  string   `json:"message"`
	Note     string   `json:"note,omitempty"`
}

// Capture is one value extracted by a successful match.
type Capture struct {
	Name  string `json:"name,omitempty"`
	Value any    `json:"value"`
}

// Result is the outcome of matching one input against a grammar rule.
type Result struct {
	Filename string    `json:"filename"`
	Rule     string    `json:"rule"`
	Units    int       `json:"units"` // top-level units in the input
	End      int       `json:"end"`   // unit offset after the match, -1 without a match
	Captures []Capture `json:"captures,omitempty"`
	Issues   []Issue   `json:"issues,omitempty"`
}

// OK reports whether the whole input matched.
func (r Result) OK() bool {
	return len(r.Issues) == 0
}
