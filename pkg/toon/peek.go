package toon

import "github.com/shapestone/toon/internal/scanner"

// PeekResult is a cheap, bounded-lookahead classification of a
// document's shape: its root type, up to 5 first-seen object keys, and
// up to n raw preview lines — all without a full parse.
type PeekResult struct {
	Type         string
	FirstKeys    []string
	PreviewLines []string
}

const peekMaxKeys = 5

// Peeker performs a lazy, sample-bounded analysis: an analyzed guard
// plus an analyze() that only runs once, on first demand, scanning at
// most nLines raw lines forward.
type Peeker struct {
	src      *lineSource
	nLines   int
	analyzed bool
	result   PeekResult
	err      error
}

// NewPeeker wraps a line source for lazy peeking, bounding the number
// of preview lines collected to nLines.
func NewPeeker(src *lineSource, nLines int) *Peeker {
	if nLines <= 0 {
		nLines = 1
	}
	return &Peeker{src: src, nLines: nLines}
}

// Peek returns the document's shape, analyzing on first call only.
func (p *Peeker) Peek() (PeekResult, error) {
	p.analyze()
	return p.result, p.err
}

func (p *Peeker) analyze() {
	if p.analyzed {
		return
	}
	p.analyzed = true

	first, ok, err := p.src.peek()
	if err != nil {
		p.err = err
		return
	}
	if !ok {
		p.result = PeekResult{Type: "unknown"}
		return
	}

	switch first.Kind {
	case scanner.TabularHeader:
		p.result.Type = "tabular_array"
	case scanner.ArrayHeader, scanner.ListItem:
		p.result.Type = "array"
	case scanner.KeyValue, scanner.KeyNested:
		p.result.Type = "object"
	default:
		p.result.Type = "unknown"
	}

	var keys []string
	seen := make(map[string]bool)
	var preview []string

	for len(preview) < p.nLines {
		line, ok, err := p.src.peek()
		if err != nil {
			p.err = err
			return
		}
		if !ok {
			break
		}
		preview = append(preview, line.Raw)

		if (line.Kind == scanner.KeyValue || line.Kind == scanner.KeyNested) && !seen[line.Key] {
			seen[line.Key] = true
			if len(keys) < peekMaxKeys {
				keys = append(keys, line.Key)
			}
		}

		p.src.next()
	}

	p.result.FirstKeys = keys
	p.result.PreviewLines = preview
}

// DocumentInfo is a document-wide structural summary produced without a
// full value-tree materialisation: counts of arrays and objects
// encountered, whether a tabular block is present, and the declared row
// count of the first tabular block found, if any.
type DocumentInfo struct {
	ArrayCount      int
	ObjectCount     int
	HasTabular      bool
	DeclaredRows    int
	HasDeclaredRows bool
}

// Info walks the full document counting arrays and objects and
// recording whether a tabular block is present, mirroring the shape of
// the host `info()` binding: `{array_count, object_count, has_tabular,
// declared_rows?}`. It performs a full structural scan (every
// array/object header in the document), but never materialises scalar
// leaf values into a Value tree.
func Info(src *lineSource, opts ReaderOptions) (DocumentInfo, error) {
	c := &infoCtx{src: src, opts: opts}
	if err := c.walk(); err != nil {
		return DocumentInfo{}, err
	}
	return c.info, nil
}

type infoCtx struct {
	src  *lineSource
	opts ReaderOptions
	info DocumentInfo
}

// walk performs the same indent-driven descent as parseAtIndent but
// only tallies shape, never builds Value nodes.
func (c *infoCtx) walk() error {
	line, ok, err := c.src.peek()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return c.walkAt(line.Indent)
}

func (c *infoCtx) walkAt(indent int) error {
	line, ok, err := c.src.peek()
	if err != nil {
		return err
	}
	if !ok || line.Indent != indent {
		return nil
	}

	switch line.Kind {
	case scanner.ArrayHeader:
		c.src.next()
		c.info.ArrayCount++
		return c.walkNested(indent)
	case scanner.TabularHeader:
		c.src.next()
		c.info.ArrayCount++
		c.info.HasTabular = true
		if !c.info.HasDeclaredRows && line.Header.Count > 0 {
			c.info.DeclaredRows = line.Header.Count
			c.info.HasDeclaredRows = true
		}
		return c.skipTabularRows(indent)
	case scanner.ListItem:
		c.info.ArrayCount++
		return c.walkList(indent)
	case scanner.KeyValue, scanner.KeyNested:
		c.info.ObjectCount++
		return c.walkObject(indent)
	default:
		c.src.next()
		return nil
	}
}

func (c *infoCtx) walkNested(parentIndent int) error {
	line, ok, err := c.src.peek()
	if err != nil {
		return err
	}
	if !ok || line.Indent <= parentIndent {
		return nil
	}
	return c.walkAt(line.Indent)
}

func (c *infoCtx) walkList(indent int) error {
	for {
		line, ok, err := c.src.peek()
		if err != nil {
			return err
		}
		if !ok || line.Indent != indent || line.Kind != scanner.ListItem {
			return nil
		}
		c.src.next()
		if line.Value == "" {
			if err := c.walkNested(indent); err != nil {
				return err
			}
		}
	}
}

func (c *infoCtx) walkObject(indent int) error {
	for {
		line, ok, err := c.src.peek()
		if err != nil {
			return err
		}
		if !ok || line.Indent != indent || (line.Kind != scanner.KeyValue && line.Kind != scanner.KeyNested) {
			return nil
		}
		c.src.next()
		if line.Kind == scanner.KeyNested {
			if err := c.walkNested(indent); err != nil {
				return err
			}
		}
	}
}

func (c *infoCtx) skipTabularRows(headerIndent int) error {
	rowIndent := -1
	for {
		row, ok, err := c.src.peek()
		if err != nil {
			return err
		}
		if !ok || row.Indent <= headerIndent || row.Kind != scanner.RawValue {
			return nil
		}
		if rowIndent == -1 {
			rowIndent = row.Indent
		} else if row.Indent != rowIndent {
			return nil
		}
		c.src.next()
	}
}

// TableInfo summarises a tabular block from a bounded sample of its rows,
// without ingesting the whole block. This is a supplementary capability
// beyond the host `info()` binding (see DocumentInfo/Info above), useful
// when a caller already knows it is dealing with a tabular document and
// wants per-column inferred types.
type TableInfo struct {
	Fields        []string
	DeclaredCount int
	SampledRows   int
	ColumnTypes   []ColumnType
	Truncated     bool
}

// InfoTable locates the tabular block described by opts.Key and ingests
// up to sampleLimit rows (0 means unbounded) to report per-column
// inferred types without requiring a full parse.
func InfoTable(src *lineSource, opts ReaderOptions, sampleLimit int) (*TableInfo, error) {
	p := newTabularParser(src, opts, nil)
	if err := p.Locate(); err != nil {
		return nil, err
	}

	for sampleLimit <= 0 || p.rowCount < sampleLimit {
		more, err := p.ingestOne()
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
	}

	truncated := false
	if row, ok, err := p.src.peek(); err == nil && ok {
		if row.Indent == p.rowIndent && row.Kind == scanner.RawValue {
			truncated = true
		}
	}

	types := make([]ColumnType, len(p.builders))
	for i, b := range p.builders {
		types[i] = b.Type()
	}

	return &TableInfo{
		Fields:        p.fields,
		DeclaredCount: p.headerLine.Header.Count,
		SampledRows:   p.rowCount,
		ColumnTypes:   types,
		Truncated:     truncated,
	}, nil
}
