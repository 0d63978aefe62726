package toon

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shapestone/toon/internal/scanner"
)

// parseCtx carries the state threaded through the recursive-descent DOM
// parse: the line source, the active options, and the warning sink for
// n_mismatch/ragged_rows/duplicate_key anomalies.
type parseCtx struct {
	src  *lineSource
	opts ReaderOptions
	wc   *warningCollector
	file string
}

// parseDocument parses the whole input as a single Value tree and returns
// any collected warnings alongside it.
func parseDocument(src *lineSource, opts ReaderOptions, sink func(Warning)) (Value, []Warning, error) {
	ctx := &parseCtx{src: src, opts: opts, wc: newWarningCollector(sink), file: src.file}

	line, ok, err := src.peek()
	if err != nil {
		return Value{}, nil, err
	}
	if !ok {
		return Null(), ctx.wc.list(), nil
	}

	v, err := ctx.parseAtIndent(line.Indent)
	if err != nil {
		return Value{}, nil, err
	}

	if rem, ok, err := src.peek(); err == nil && ok {
		return Value{}, nil, ctx.parseErr(rem.LineNo, rem.Indent+1, "unexpected trailing content at top level")
	} else if err != nil {
		return Value{}, nil, err
	}
	return v, ctx.wc.list(), nil
}

func (c *parseCtx) parseErr(lineNo, col int, msg string) error {
	return newParseError(c.file, lineNo, col, "", fmt.Errorf(msg))
}

// parseAtIndent dispatches on the kind of the (already peeked) line
// currently sitting at exactly indent, consuming the whole value rooted
// there.
func (c *parseCtx) parseAtIndent(indent int) (Value, error) {
	line, ok, err := c.src.peek()
	if err != nil {
		return Value{}, err
	}
	if !ok || line.Indent != indent {
		return Null(), nil
	}
	switch line.Kind {
	case scanner.RawValue:
		c.src.next()
		return c.parseScalar(line)
	case scanner.KeyValue, scanner.KeyNested:
		return c.parseObjectAt(indent)
	case scanner.ListItem:
		return c.parseArrayAt(indent)
	case scanner.ArrayHeader:
		c.src.next()
		return c.finishArrayHeader(indent, line)
	case scanner.TabularHeader:
		c.src.next()
		return c.finishTabularHeader(indent, line)
	default:
		return Value{}, c.parseErr(line.LineNo, indent+1, "unexpected line kind "+line.Kind.String())
	}
}

// parseNested parses the nested value belonging to a key-with-empty-value
// line, a "-" list item with no inline text, or a header line: the next
// line must be indented strictly deeper than parentIndent, and that
// indent becomes the block's own level.
func (c *parseCtx) parseNested(parentIndent int) (Value, error) {
	line, ok, err := c.src.peek()
	if err != nil {
		return Value{}, err
	}
	if !ok || line.Indent <= parentIndent {
		return Null(), nil
	}
	return c.parseAtIndent(line.Indent)
}

func (c *parseCtx) parseScalar(line Line) (Value, error) {
	prim, ok, err := scanner.ScanPrimitive(line.Value, c.opts.Strict, NAIntSentinel)
	if err != nil {
		return Value{}, newParseError(c.file, line.LineNo, 1, line.Value, err)
	}
	if !ok {
		if c.opts.Strict {
			return Value{}, newParseError(c.file, line.LineNo, 1, line.Value, fmt.Errorf("not a recognised scalar literal"))
		}
		return String(line.Value), nil
	}
	switch prim.Kind {
	case scanner.PrimNull:
		return Null(), nil
	case scanner.PrimBool:
		return Bool(prim.Bool), nil
	case scanner.PrimInt:
		return Int(prim.Int), nil
	case scanner.PrimDouble:
		return Double(prim.Double), nil
	case scanner.PrimString:
		return String(prim.Text), nil
	default:
		return Value{}, newParseError(c.file, line.LineNo, 1, line.Value, fmt.Errorf("not a recognised scalar literal"))
	}
}

func (c *parseCtx) parseObjectAt(indent int) (Value, error) {
	var members []Member
	seen := make(map[string]int)
	repeatCounts := make(map[string]int)
	var repeatOrder []string

	for {
		line, ok, err := c.src.peek()
		if err != nil {
			return Value{}, err
		}
		if !ok || line.Indent != indent || (line.Kind != scanner.KeyValue && line.Kind != scanner.KeyNested) {
			break
		}
		c.src.next()

		var val Value
		if line.Kind == scanner.KeyValue {
			val, err = c.parseScalar(line)
		} else {
			val, err = c.parseNested(indent)
		}
		if err != nil {
			return Value{}, err
		}

		if idx, dup := seen[line.Key]; dup {
			if !c.opts.AllowDuplicateKeys {
				return Value{}, newParseError(c.file, line.LineNo, 1, line.Key, ErrDuplicateKey)
			}
			members[idx].Value = val
			if repeatCounts[line.Key] == 0 {
				repeatOrder = append(repeatOrder, line.Key)
			}
			repeatCounts[line.Key]++
			continue
		}
		seen[line.Key] = len(members)
		members = append(members, Member{Key: line.Key, Value: val})
	}

	if len(repeatOrder) > 0 && c.opts.Warn {
		c.wc.add(Warning{Category: "duplicate_key", Message: duplicateKeySummary(repeatOrder, repeatCounts)})
	}
	return NewObject(members), nil
}

// duplicateKeySummary renders one aggregated message covering every
// repeated key in an object and its total occurrence count, so an object
// with many repeats produces a single warning instead of one per repeat.
func duplicateKeySummary(order []string, counts map[string]int) string {
	var sb strings.Builder
	sb.WriteString("repeated keys: ")
	for i, key := range order {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q×%d", key, counts[key]+1)
	}
	return sb.String()
}

func (c *parseCtx) parseArrayAt(indent int) (Value, error) {
	var elems []Value
	for {
		line, ok, err := c.src.peek()
		if err != nil {
			return Value{}, err
		}
		if !ok || line.Indent != indent || line.Kind != scanner.ListItem {
			break
		}
		c.src.next()

		var v Value
		if line.Value != "" {
			v, err = c.parseScalar(line)
		} else {
			v, err = c.parseNested(indent)
		}
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, v)
	}
	return NewArray(elems), nil
}

// finishArrayHeader parses the body of an ArrayHeader ("[N]:" optionally
// followed by an inline comma-separated scalar list), the compact array
// form.
func (c *parseCtx) finishArrayHeader(headerIndent int, line Line) (Value, error) {
	var elems []Value
	if line.Value != "" {
		fields, err := scanner.SplitDelimited(line.Value, ',')
		if err != nil {
			return Value{}, newParseError(c.file, line.LineNo, 1, line.Value, err)
		}
		for _, f := range fields {
			v, err := c.parseScalar(Line{LineNo: line.LineNo, Value: strings.TrimSpace(f)})
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, v)
		}
	} else {
		body, err := c.parseNested(headerIndent)
		if err != nil {
			return Value{}, err
		}
		switch body.Kind {
		case KindArray:
			elems = body.Array
		case KindNull:
			elems = nil // no nested content: an empty array
		default:
			return Value{}, c.parseErr(line.LineNo, headerIndent+1, "array header body must be a list of \"-\" items")
		}
	}

	if err := c.checkCount(line.LineNo, "n_mismatch", line.Header.Count, len(elems)); err != nil {
		return Value{}, err
	}
	return NewArray(elems), nil
}

// finishTabularHeader parses a tabular block's rows into an array of
// uniform objects, expanding ragged rows.
func (c *parseCtx) finishTabularHeader(headerIndent int, line Line) (Value, error) {
	fields := line.Header.Fields
	var elems []Value
	rowIndent := -1
	var ragged raggedRunStats

	for {
		row, ok, err := c.src.peek()
		if err != nil {
			return Value{}, err
		}
		if !ok || row.Indent <= headerIndent || row.Kind != scanner.RawValue {
			break
		}
		if rowIndent == -1 {
			rowIndent = row.Indent
		} else if row.Indent != rowIndent {
			break
		}
		c.src.next()

		cells, err := scanner.SplitDelimited(row.Value, ',')
		if err != nil {
			return Value{}, newParseError(c.file, row.LineNo, 1, row.Value, err)
		}

		members, err := c.zipRow(row.LineNo, fields, cells, &ragged)
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, NewObject(members))
	}

	if err := c.checkCount(line.LineNo, "n_mismatch", line.Header.Count, len(elems)); err != nil {
		return Value{}, err
	}
	if ragged.count > 0 && c.opts.Warn {
		c.wc.add(Warning{Category: "ragged_rows", Message: ragged.summary(len(fields))})
	}
	return NewArray(elems), nil
}

// raggedRunStats accumulates the min/max observed field width across a
// single tabular block's rows, so the whole run reports as one
// aggregated warning instead of one per ragged row.
type raggedRunStats struct {
	count    int
	minWidth int
	maxWidth int
}

func (r *raggedRunStats) observe(got int) {
	if r.count == 0 {
		r.minWidth, r.maxWidth = got, got
	} else {
		if got < r.minWidth {
			r.minWidth = got
		}
		if got > r.maxWidth {
			r.maxWidth = got
		}
	}
	r.count++
}

func (r *raggedRunStats) summary(declaredWidth int) string {
	expansions := r.maxWidth - declaredWidth
	if expansions < 0 {
		expansions = 0
	}
	return fmt.Sprintf("%d ragged row(s): observed width %d-%d against %d declared field(s), %d schema expansion(s)",
		r.count, r.minWidth, r.maxWidth, declaredWidth, expansions)
}

// zipRow pairs cells against the declared field names, handling ragged
// rows: missing trailing cells become null, extra cells are synthesised
// as V<k> columns (k counted from the absolute field position) up to
// MaxExtraCols.
func (c *parseCtx) zipRow(lineNo int, fields []string, cells []string, ragged *raggedRunStats) ([]Member, error) {
	if len(cells) != len(fields) {
		if err := c.raggedRowPolicy(lineNo, len(fields), len(cells)); err != nil {
			return nil, err
		}
		ragged.observe(len(cells))
	}

	members := make([]Member, 0, len(fields))
	for i, name := range fields {
		var v Value
		var err error
		if i < len(cells) {
			v, err = c.parseScalar(Line{LineNo: lineNo, Value: strings.TrimSpace(cells[i])})
		} else {
			v = Null()
		}
		if err != nil {
			return nil, err
		}
		members = append(members, Member{Key: name, Value: v})
	}

	extra := len(cells) - len(fields)
	for k := 0; k < extra; k++ {
		if c.opts.MaxExtraCols >= 0 && k >= c.opts.MaxExtraCols {
			break
		}
		v, err := c.parseScalar(Line{LineNo: lineNo, Value: strings.TrimSpace(cells[len(fields)+k])})
		if err != nil {
			return nil, err
		}
		members = append(members, Member{Key: "V" + strconv.Itoa(len(fields)+k+1), Value: v})
	}
	return members, nil
}

// raggedRowPolicy fails the parse immediately under PolicyError; under
// PolicyWarn it defers to the caller to fold the row into the run's
// aggregated stats.
func (c *parseCtx) raggedRowPolicy(lineNo, want, got int) error {
	if c.opts.RaggedRows == PolicyError {
		msg := fmt.Sprintf("line %d: row has %d field(s), header declares %d", lineNo, got, want)
		return &ValidationError{Category: "ragged_rows", Message: msg, Line: lineNo}
	}
	return nil
}

func (c *parseCtx) checkCount(lineNo int, category string, declared, actual int) error {
	if declared == 0 || declared == actual {
		return nil
	}
	msg := fmt.Sprintf("line %d: header declares %d row(s), parsed %d", lineNo, declared, actual)
	if c.opts.NMismatch == PolicyError {
		return &ValidationError{Category: category, Message: msg, Line: lineNo}
	}
	if c.opts.Warn {
		c.wc.add(Warning{Category: category, Message: msg})
	}
	return nil
}
