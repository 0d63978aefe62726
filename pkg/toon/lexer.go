package toon

import (
	"io"

	"github.com/shapestone/toon/internal/reader"
	"github.com/shapestone/toon/internal/scanner"
)

// lineSource wraps a BufferedReader with a one-line lookahead ("peek
// slot"), skipping Empty and Comment lines, for the single-line-lookahead
// recursive descent parser built on top of it.
type lineSource struct {
	br   *reader.BufferedReader
	opts scanner.Options
	file string

	peeked Line
	has    bool
	err    error
}

// Line is re-exported from scanner for callers within this package.
type Line = scanner.Line

func newLineSource(br *reader.BufferedReader, opts scanner.Options, file string) *lineSource {
	return &lineSource{br: br, opts: opts, file: file}
}

func (s *lineSource) fill() bool {
	if s.has || s.err != nil {
		return s.has
	}
	for {
		raw, lineNo, ok := s.br.Next()
		if !ok {
			if err := s.br.Err(); err != nil {
				s.err = &IOError{Op: "read", Err: err}
			}
			return false
		}
		line, err := scanner.Classify(raw, lineNo, s.opts)
		if err != nil {
			s.err = newParseError(s.file, lineNo, 1, "", err)
			return false
		}
		if line.Kind == scanner.Empty || line.Kind == scanner.Comment {
			continue
		}
		s.peeked = line
		s.has = true
		return true
	}
}

// peek returns the next meaningful line without consuming it.
func (s *lineSource) peek() (Line, bool, error) {
	if s.err != nil {
		return Line{}, false, s.err
	}
	if !s.fill() {
		return Line{}, false, s.err
	}
	return s.peeked, true, nil
}

// next consumes and returns the next meaningful line.
func (s *lineSource) next() (Line, bool, error) {
	line, ok, err := s.peek()
	if ok {
		s.has = false
	}
	return line, ok, err
}

func (s *lineSource) closeErr() error {
	if s.err != nil && s.err != io.EOF {
		return s.err
	}
	return nil
}
