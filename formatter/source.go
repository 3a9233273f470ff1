package formatter

import (
	"os"
	"strings"
)

// SourceCode stores the content of an input file split into lines.
type SourceCode struct {
	Lines []string
}

// NewSourceCode splits src into lines.
func NewSourceCode(src []byte) *SourceCode {
	return &SourceCode{Lines: strings.Split(string(src), "\n")}
}

// ReadSourceCode reads filename into a SourceCode.
func ReadSourceCode(filename string) (*SourceCode, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return NewSourceCode(content), nil
}

// line returns the 1-based line n without its trailing carriage return.
func (s *SourceCode) line(n int) (string, bool) {
	if s == nil || n < 1 || n > len(s.Lines) {
		return "", false
	}
	return strings.TrimSuffix(s.Lines[n-1], "\r"), true
}
