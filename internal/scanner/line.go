// Package scanner implements the line classifier and primitive scanner:
// mapping a raw source line to {indent, kind, key, value, header} and
// recognising scalar literals within it.
package scanner

import (
	"fmt"
	"strconv"
	"strings"

	"go4.org/mem"
)

// Kind identifies the syntactic shape of a classified line.
type Kind int

const (
	Empty Kind = iota
	Comment
	ListItem
	KeyValue
	KeyNested
	ArrayHeader
	TabularHeader
	RawValue
)

func (k Kind) String() string {
	switch k {
	case Empty:
		return "Empty"
	case Comment:
		return "Comment"
	case ListItem:
		return "ListItem"
	case KeyValue:
		return "KeyValue"
	case KeyNested:
		return "KeyNested"
	case ArrayHeader:
		return "ArrayHeader"
	case TabularHeader:
		return "TabularHeader"
	case RawValue:
		return "RawValue"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Header carries the declared row count and, for a tabular header, the
// ordered field-name list parsed from "[N]{f1,f2,...}:".
type Header struct {
	Count  int // 0 means unspecified
	Fields []string
}

// Line is the classified form of one input line: {indent, kind, key,
// value, header}.
type Line struct {
	LineNo int
	Indent int
	Kind   Kind
	Key    string
	Value  string // inline value text, trimmed; meaning depends on Kind
	Header Header
	Raw    string // the full line as read, before indent/comment stripping
}

// Options configures classification.
type Options struct {
	Strict        bool
	AllowComments bool
}

// Classify maps one raw source line (already split by the BufferedReader,
// CRLF stripped) to a Line record.
func Classify(raw mem.RO, lineNo int, opts Options) (Line, error) {
	text := raw.StringCopy()

	indent, rest, err := splitIndent(text, opts.Strict)
	if err != nil {
		return Line{}, fmt.Errorf("line %d: %w", lineNo, err)
	}

	if opts.AllowComments {
		rest = StripTrailingComment(rest)
	}

	trimmed := strings.TrimRight(rest, " \t")
	if trimmed == "" {
		return Line{LineNo: lineNo, Indent: indent, Kind: Empty, Raw: text}, nil
	}

	if strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "//") {
		return Line{LineNo: lineNo, Indent: indent, Kind: Comment, Raw: text}, nil
	}

	if trimmed == "-" || strings.HasPrefix(trimmed, "- ") {
		value := ""
		if len(trimmed) > 1 {
			value = strings.TrimSpace(trimmed[2:])
		}
		return Line{LineNo: lineNo, Indent: indent, Kind: ListItem, Value: value, Raw: text}, nil
	}

	if strings.HasPrefix(trimmed, "[") {
		l, err := classifyHeader(lineNo, indent, trimmed)
		if err != nil {
			return Line{}, err
		}
		l.Raw = text
		return l, nil
	}

	if idx := FirstUnquotedByte(trimmed, ':'); idx >= 0 {
		key, err := decodeKey(trimmed[:idx])
		if err != nil {
			return Line{}, fmt.Errorf("line %d: %w", lineNo, err)
		}
		value := strings.TrimSpace(trimmed[idx+1:])
		if value == "" {
			return Line{LineNo: lineNo, Indent: indent, Kind: KeyNested, Key: key, Raw: text}, nil
		}
		return Line{LineNo: lineNo, Indent: indent, Kind: KeyValue, Key: key, Value: value, Raw: text}, nil
	}

	return Line{LineNo: lineNo, Indent: indent, Kind: RawValue, Value: trimmed, Raw: text}, nil
}

// splitIndent counts leading space characters. A TAB in the indentation
// region is rejected in strict mode and otherwise counted as one column.
func splitIndent(s string, strict bool) (int, string, error) {
	i := 0
	indent := 0
	for i < len(s) {
		switch s[i] {
		case ' ':
			indent++
			i++
		case '\t':
			if strict {
				return 0, "", fmt.Errorf("TAB in indentation is rejected in strict mode")
			}
			indent++
			i++
		default:
			return indent, s[i:], nil
		}
	}
	return indent, "", nil
}

// classifyHeader parses "[N?]" optionally followed by "{f1,f2,...}",
// optionally followed by ":".
func classifyHeader(lineNo, indent int, s string) (Line, error) {
	if !strings.HasPrefix(s, "[") {
		return Line{}, fmt.Errorf("line %d: header must start with '['", lineNo)
	}
	end := strings.IndexByte(s, ']')
	if end < 0 {
		return Line{}, fmt.Errorf("line %d: unterminated array/table header", lineNo)
	}
	countStr := s[1:end]
	count := 0
	if countStr != "" {
		n, err := strconv.Atoi(countStr)
		if err != nil || n < 0 {
			return Line{}, fmt.Errorf("line %d: invalid declared row count %q", lineNo, countStr)
		}
		count = n
	}

	rest := s[end+1:]
	if strings.HasPrefix(rest, "{") {
		closeIdx := strings.IndexByte(rest, '}')
		if closeIdx < 0 {
			return Line{}, fmt.Errorf("line %d: unterminated field list", lineNo)
		}
		fieldsStr := rest[1:closeIdx]
		var fields []string
		if fieldsStr != "" {
			for _, f := range strings.Split(fieldsStr, ",") {
				fields = append(fields, strings.TrimSpace(f))
			}
		}
		rest = strings.TrimSpace(rest[closeIdx+1:])
		rest = strings.TrimPrefix(rest, ":")
		return Line{
			LineNo: lineNo, Indent: indent, Kind: TabularHeader,
			Header: Header{Count: count, Fields: fields},
			Value:  strings.TrimSpace(rest),
		}, nil
	}

	rest = strings.TrimSpace(rest)
	rest = strings.TrimPrefix(rest, ":")
	return Line{
		LineNo: lineNo, Indent: indent, Kind: ArrayHeader,
		Header: Header{Count: count},
		Value:  strings.TrimSpace(rest),
	}, nil
}

// decodeKey strips optional surrounding quotes from a key and unescapes
// it using the same escape set as string values.
func decodeKey(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		p, ok, err := ScanPrimitive(s, false, 0)
		if err != nil {
			return "", err
		}
		if ok && p.Kind == PrimString {
			return p.Text, nil
		}
	}
	return s, nil
}
