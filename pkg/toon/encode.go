package toon

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/shapestone/toon/internal/writebuf"
)

// Encode renders v as TOON text, using opts to select pretty/canonical/
// strict emission.
func Encode(v Value, opts WriterOptions) ([]byte, error) {
	buf := writebuf.Get()
	defer writebuf.Put(buf)

	e := &encoder{buf: buf, opts: opts}
	if err := e.writeRoot(v); err != nil {
		return nil, err
	}
	return append([]byte(nil), buf.Bytes()...), nil
}

type encoder struct {
	buf  *writebuf.Buffer
	opts WriterOptions
}

func (e *encoder) indentWidth() int {
	if e.opts.Pretty {
		return e.opts.Indent
	}
	return 1
}

func (e *encoder) colonSep() string {
	if e.opts.Pretty {
		return ": "
	}
	return ":"
}

// writeRoot handles the three shapes a document's top-level value may
// take: an object (the common case), an array, or a bare scalar.
func (e *encoder) writeRoot(v Value) error {
	switch v.Kind {
	case KindObject:
		return e.writeObjectMembers(v.Members, 0)
	case KindArray:
		return e.writeArrayAsBlock(v.Array, 0)
	default:
		return e.writeScalarLine(v, 0)
	}
}

func (e *encoder) writeScalarLine(v Value, depth int) error {
	e.buf.WriteIndent(depth, e.indentWidth())
	if err := e.writeScalar(v); err != nil {
		return err
	}
	e.buf.WriteByte('\n')
	return nil
}

func (e *encoder) writeScalar(v Value) error {
	switch v.Kind {
	case KindNull:
		e.buf.WriteString("null")
	case KindBool:
		if v.Bool {
			e.buf.WriteString("true")
		} else {
			e.buf.WriteString("false")
		}
	case KindInt:
		e.buf.WriteString(strconv.FormatInt(int64(v.Int), 10))
	case KindDouble:
		text, err := e.formatDouble(v.Double)
		if err != nil {
			return err
		}
		e.buf.WriteString(text)
	case KindString:
		e.buf.WriteQuoted(v.Text)
	case KindDate:
		e.buf.WriteQuoted(dateISO(v.Int))
	case KindTimestamp:
		e.buf.WriteQuoted(timestampISO(v.Double))
	default:
		return &TypeError{Kind: v.Kind}
	}
	return nil
}

// formatDouble renders a finite double in the shortest round-tripping
// form, appending ".0" when the value is integral so it stays
// distinguishable from an INTEGER on re-parse. A non-finite value is
// rejected under Strict and rendered as "null" otherwise.
func (e *encoder) formatDouble(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		if e.opts.Strict {
			return "", &EncodingError{Value: f}
		}
		return "null", nil
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s, nil
}

func (e *encoder) writeObjectMembers(members []Member, depth int) error {
	ordered := members
	if e.opts.Canonical {
		ordered = append([]Member(nil), members...)
		sort.Slice(ordered, func(i, j int) bool { return ordered[i].Key < ordered[j].Key })
	}
	for _, m := range ordered {
		if err := e.writeMember(m, depth); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) writeMember(m Member, depth int) error {
	e.buf.WriteIndent(depth, e.indentWidth())
	e.writeKey(m.Key)

	switch m.Value.Kind {
	case KindObject:
		if len(m.Value.Members) == 0 {
			e.buf.WriteString(":\n")
			return nil
		}
		e.buf.WriteString(":\n")
		return e.writeObjectMembers(m.Value.Members, depth+1)
	case KindArray:
		e.buf.WriteString(":\n")
		return e.writeArrayAsBlock(m.Value.Array, depth+1)
	default:
		e.buf.WriteString(e.colonSep())
		if err := e.writeScalar(m.Value); err != nil {
			return err
		}
		e.buf.WriteByte('\n')
		return nil
	}
}

func (e *encoder) writeKey(key string) {
	if needsKeyQuoting(key) {
		e.buf.WriteQuoted(key)
	} else {
		e.buf.WriteString(key)
	}
}

// writeArrayAsBlock writes an array value as the content occupying its
// own indent level: a standalone "[N]{...}:" header followed by tabular
// rows when every element is a uniform object, a standalone "[N]: a,b,c"
// header when every element is a scalar, or else a plain run of "-" list
// items for everything else. A header line is always its own line, never fused
// onto a preceding key or "-" (scanner.Classify only recognises "[" as a
// header when it starts the line), so callers that want the array
// nested under a key or list item must write the parent's ":\n"/"-\n"
// terminator and then call this one level deeper.
func (e *encoder) writeArrayAsBlock(elems []Value, depth int) error {
	if len(elems) == 0 {
		e.buf.WriteIndent(depth, e.indentWidth())
		e.buf.WriteString("[0]:\n")
		return nil
	}

	if fields, ok := tabularFields(elems); ok {
		e.buf.WriteIndent(depth, e.indentWidth())
		e.buf.WriteString(e.headerBracket(len(elems)))
		e.buf.WriteString(fieldList(fields))
		e.buf.WriteString(":\n")
		return e.writeTabularRows(elems, fields, depth+1)
	}

	if scalars, ok := allScalars(elems); ok {
		e.buf.WriteIndent(depth, e.indentWidth())
		e.buf.WriteString(e.headerBracket(len(elems)))
		e.buf.WriteString(": ")
		if err := e.writeInlineScalarList(scalars); err != nil {
			return err
		}
		e.buf.WriteByte('\n')
		return nil
	}

	return e.writeArrayBody(elems, depth)
}

// writeArrayBody writes elems as "-" list items at depth.
func (e *encoder) writeArrayBody(elems []Value, depth int) error {
	for _, v := range elems {
		e.buf.WriteIndent(depth, e.indentWidth())
		switch v.Kind {
		case KindObject:
			if len(v.Members) == 0 {
				e.buf.WriteString("-\n")
				continue
			}
			e.buf.WriteString("-\n")
			if err := e.writeObjectMembers(v.Members, depth+1); err != nil {
				return err
			}
		case KindArray:
			e.buf.WriteString("-\n")
			if err := e.writeArrayAsBlock(v.Array, depth+1); err != nil {
				return err
			}
		default:
			e.buf.WriteString("- ")
			if err := e.writeScalar(v); err != nil {
				return err
			}
			e.buf.WriteByte('\n')
		}
	}
	return nil
}

func (e *encoder) writeInlineScalarList(scalars []Value) error {
	for i, v := range scalars {
		if i > 0 {
			e.buf.WriteByte(',')
			if e.opts.Pretty {
				e.buf.WriteByte(' ')
			}
		}
		if err := e.writeScalar(v); err != nil {
			return err
		}
	}
	return nil
}

// writeTabularRows writes each object element as one comma-joined row,
// in the header's field order, writing null for a field the row lacks.
func (e *encoder) writeTabularRows(elems []Value, fields []string, depth int) error {
	for _, v := range elems {
		e.buf.WriteIndent(depth, e.indentWidth())
		for i, f := range fields {
			if i > 0 {
				e.buf.WriteByte(',')
				if e.opts.Pretty {
					e.buf.WriteByte(' ')
				}
			}
			val, ok := v.Get(f)
			if !ok {
				val = Null()
			}
			if err := e.writeScalar(val); err != nil {
				return err
			}
		}
		e.buf.WriteByte('\n')
	}
	return nil
}

// headerBracket renders the "[N]" (or, when e.opts.Simplify is set, the
// bare "[]") prefix of an array/table header. Simplify is only sound
// because a reader re-derives the count from the block's actual length,
// which every array_hdr/table_hdr grammar production already permits
// via the optional N.
func (e *encoder) headerBracket(n int) string {
	if e.opts.Simplify {
		return "[]"
	}
	return "[" + strconv.Itoa(n) + "]"
}

func fieldList(fields []string) string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(f)
	}
	sb.WriteByte('}')
	return sb.String()
}

// tabularFields reports whether elems is a non-empty slice of objects
// that all share exactly the same key set in the same order, and if so
// returns that shared field list.
func tabularFields(elems []Value) ([]string, bool) {
	if len(elems) == 0 || elems[0].Kind != KindObject {
		return nil, false
	}
	fields := make([]string, len(elems[0].Members))
	for i, m := range elems[0].Members {
		fields[i] = m.Key
	}
	for _, v := range elems[1:] {
		if v.Kind != KindObject || len(v.Members) != len(fields) {
			return nil, false
		}
		for i, m := range v.Members {
			if m.Key != fields[i] {
				return nil, false
			}
		}
	}
	return fields, true
}

// allScalars reports whether every element is a non-container value.
func allScalars(elems []Value) ([]Value, bool) {
	for _, v := range elems {
		if v.Kind == KindArray || v.Kind == KindObject {
			return nil, false
		}
	}
	return elems, true
}

// needsKeyQuoting decides whether an object key must be written as a
// quoted string: empty, containing any byte other than an ASCII letter,
// digit or '_' (so every structural, whitespace or '-' byte), a leading
// digit, or colliding with a literal keyword, all make a bare key
// ambiguous with the surrounding grammar.
func needsKeyQuoting(key string) bool {
	if key == "" {
		return true
	}
	switch key {
	case "null", "true", "false":
		return true
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return true
			}
		default:
			return true
		}
	}
	if key[0] == '-' {
		return true
	}
	return false
}
