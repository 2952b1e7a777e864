// Package envfile parses .env style files into typed lines and renders them
// back without disturbing anything but assignment values.
package envfile

import (
	"bytes"
	"strings"
)

// Kind classifies a single logical line.
type Kind int

const (
	Blank Kind = iota
	Comment
	Assignment
	Other
)

func (k Kind) String() string {
	switch k {
	case Blank:
		return "blank"
	case Comment:
		return "comment"
	case Assignment:
		return "assignment"
	default:
		return "other"
	}
}

// Line is one logical line with its terminator removed.
type Line struct {
	Kind Kind
	Raw  string

	// Key and Value are set for assignments only. Key is everything before
	// the first '=' and Value everything after it, both untouched.
	Key   string
	Value string
}

// WithValue returns a copy of an assignment line carrying a new value.
func (l Line) WithValue(value string) Line {
	l.Value = value
	l.Raw = l.Key + "=" + value
	return l
}

// File is a parsed file. CRLF and TrailingNewline record how to terminate
// lines when rendering.
type File struct {
	Lines           []Line
	CRLF            bool
	TrailingNewline bool
}

// Classify returns the typed form of a single line.
func Classify(raw string) Line {
	trimmed := strings.TrimLeft(raw, " \t")
	switch {
	case strings.TrimSpace(raw) == "":
		return Line{Kind: Blank, Raw: raw}
	case strings.HasPrefix(trimmed, "#"):
		return Line{Kind: Comment, Raw: raw}
	}

	key, value, ok := strings.Cut(raw, "=")
	if !ok {
		return Line{Kind: Other, Raw: raw}
	}
	return Line{Kind: Assignment, Raw: raw, Key: key, Value: value}
}

// Parse splits content into classified lines. It accepts \n and \r\n
// terminators, and an unterminated last line is kept as an ordinary line.
func Parse(content []byte) *File {
	f := &File{}
	if len(content) == 0 {
		return f
	}

	f.TrailingNewline = content[len(content)-1] == '\n'
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		f.CRLF = true
	}

	body := content
	if f.TrailingNewline {
		body = content[:len(content)-1]
	}

	for _, raw := range strings.Split(string(body), "\n") {
		f.Lines = append(f.Lines, Classify(strings.TrimSuffix(raw, "\r")))
	}
	return f
}

// Bytes renders the file using its original terminator style.
func (f *File) Bytes() []byte {
	if len(f.Lines) == 0 {
		return nil
	}

	eol := "\n"
	if f.CRLF {
		eol = "\r\n"
	}

	var b strings.Builder
	for i, line := range f.Lines {
		b.WriteString(line.Raw)
		if i < len(f.Lines)-1 || f.TrailingNewline {
			b.WriteString(eol)
		}
	}
	return []byte(b.String())
}

// Assignments returns the assignment lines in file order.
func (f *File) Assignments() []Line {
	var out []Line
	for _, line := range f.Lines {
		if line.Kind == Assignment {
			out = append(out, line)
		}
	}
	return out
}
