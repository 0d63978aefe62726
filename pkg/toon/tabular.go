package toon

import (
	"fmt"

	"github.com/shapestone/toon/internal/scanner"
)

// TabularParser extracts a typed Table directly from a tabular block,
// following a Locate/Ingest/Finalize lifecycle. Unlike the generic DOM
// parse, cell values are threaded through ColumnBuilder so a column's
// type reflects the join of every value seen in it.
type TabularParser struct {
	src  *lineSource
	opts ReaderOptions
	wc   *warningCollector
	file string

	fields   []string
	builders []*ColumnBuilder
	colIndex map[string]int

	headerLine   Line
	headerIndent int
	rowIndent    int
	rowCount     int
	batchRow     int

	raggedCount    int
	raggedMinWidth int
	raggedMaxWidth int
}

func newTabularParser(src *lineSource, opts ReaderOptions, sink func(Warning)) *TabularParser {
	return &TabularParser{
		src:      src,
		opts:     opts,
		wc:       newWarningCollector(sink),
		file:     src.file,
		colIndex:  make(map[string]int),
		rowIndent: -1,
	}
}

// Locate finds the tabular header, optionally scoped under opts.Key, and
// initialises one ColumnBuilder per declared field.
func (p *TabularParser) Locate() error {
	if p.opts.Key != "" {
		line, ok, err := p.src.peek()
		if err != nil {
			return err
		}
		if !ok || line.Kind != scanner.KeyNested || line.Key != p.opts.Key {
			return &ValidationError{Category: "n_mismatch", Message: fmt.Sprintf("key %q not found at document root", p.opts.Key)}
		}
		p.src.next()

		header, ok, err := p.src.peek()
		if err != nil {
			return err
		}
		if !ok || header.Indent <= line.Indent || header.Kind != scanner.TabularHeader {
			return &ValidationError{Category: "n_mismatch", Message: fmt.Sprintf("no tabular header nested under key %q", p.opts.Key)}
		}
		p.src.next()
		p.headerLine = header
	} else {
		header, ok, err := p.src.peek()
		if err != nil {
			return err
		}
		if !ok || header.Kind != scanner.TabularHeader {
			return &ValidationError{Category: "n_mismatch", Message: "no tabular header found at document root"}
		}
		p.src.next()
		p.headerLine = header
	}

	p.headerIndent = p.headerLine.Indent
	p.fields = p.headerLine.Header.Fields
	for i, name := range p.fields {
		b := NewColumnBuilder(name)
		if t, ok := p.opts.ColTypes[name]; ok {
			b.ForceType(t)
		}
		p.builders = append(p.builders, b)
		p.colIndex[name] = i
	}
	return nil
}

// IngestAll consumes every row line belonging to the located block.
func (p *TabularParser) IngestAll() error {
	for {
		more, err := p.ingestOne()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

// ingestOne consumes a single row, if one remains. RowStreamer and
// InfoTable call it directly so they can pull rows one at a time rather
// than materialising the whole block.
func (p *TabularParser) ingestOne() (bool, error) {
	row, ok, err := p.src.peek()
	if err != nil {
		return false, err
	}
	if !ok || row.Indent <= p.headerIndent || row.Kind != scanner.RawValue {
		return false, nil
	}
	if p.rowIndent == -1 {
		p.rowIndent = row.Indent
	} else if row.Indent != p.rowIndent {
		return false, nil
	}
	p.src.next()

	cells, err := scanner.SplitDelimited(row.Value, ',')
	if err != nil {
		return false, newParseError(p.file, row.LineNo, 1, row.Value, err)
	}

	if len(cells) != len(p.fields) {
		if err := p.raggedRows(row.LineNo, len(p.fields), len(cells)); err != nil {
			return false, err
		}
	}

	r := p.batchRow
	for i := range p.fields {
		if i < len(cells) {
			if err := p.builders[i].Set(r, cells[i], p.opts.Strict); err != nil {
				return false, newParseError(p.file, row.LineNo, 1, cells[i], err)
			}
		} else {
			p.builders[i].SetNull(r)
		}
	}

	extra := len(cells) - len(p.fields)
	for k := 0; k < extra; k++ {
		if p.opts.MaxExtraCols >= 0 && k >= p.opts.MaxExtraCols {
			break
		}
		name := fmt.Sprintf("V%d", len(p.fields)+k+1)
		idx, ok := p.colIndex[name]
		if !ok {
			b := NewColumnBuilder(name)
			p.builders = append(p.builders, b)
			idx = len(p.builders) - 1
			p.colIndex[name] = idx
		}
		if err := p.builders[idx].Set(r, cells[len(p.fields)+k], p.opts.Strict); err != nil {
			return false, newParseError(p.file, row.LineNo, 1, cells[len(p.fields)+k], err)
		}
	}

	// A synthesised column this row did not reach gets NA, so every
	// column keeps the same length.
	for _, b := range p.builders {
		if b.Len() <= r {
			b.SetNull(r)
		}
	}

	p.rowCount++
	p.batchRow++
	return true, nil
}

// raggedRows enforces the ragged-row policy for one row and, when the
// policy is warn-only, folds the row's width into the run's min/max so
// Finalize can report a single aggregated warning instead of one per row.
func (p *TabularParser) raggedRows(lineNo, want, got int) error {
	if p.opts.RaggedRows == PolicyError {
		msg := fmt.Sprintf("line %d: row has %d field(s), header declares %d", lineNo, got, want)
		return &ValidationError{Category: "ragged_rows", Message: msg, Line: lineNo}
	}
	if p.raggedCount == 0 {
		p.raggedMinWidth, p.raggedMaxWidth = got, got
	} else {
		if got < p.raggedMinWidth {
			p.raggedMinWidth = got
		}
		if got > p.raggedMaxWidth {
			p.raggedMaxWidth = got
		}
	}
	p.raggedCount++
	return nil
}

// Finalize returns the typed Table built from every ingested row and
// checks the declared row count against what was actually parsed.
func (p *TabularParser) Finalize() (*Table, error) {
	declared := p.headerLine.Header.Count
	if declared != 0 && declared != p.rowCount {
		msg := fmt.Sprintf("line %d: header declares %d row(s), parsed %d", p.headerLine.LineNo, declared, p.rowCount)
		if p.opts.NMismatch == PolicyError {
			return nil, &ValidationError{Category: "n_mismatch", Message: msg, Line: p.headerLine.LineNo}
		}
		if p.opts.Warn {
			p.wc.add(Warning{Category: "n_mismatch", Message: msg})
		}
	}

	if p.raggedCount > 0 && p.opts.Warn {
		expansions := p.raggedMaxWidth - len(p.fields)
		if expansions < 0 {
			expansions = 0
		}
		msg := fmt.Sprintf("%d ragged row(s): observed width %d-%d against %d declared field(s), %d schema expansion(s)",
			p.raggedCount, p.raggedMinWidth, p.raggedMaxWidth, len(p.fields), expansions)
		p.wc.add(Warning{Category: "ragged_rows", Message: msg})
	}

	cols := make([]*Column, len(p.builders))
	for i, b := range p.builders {
		cols[i] = b.Finalize()
	}
	return &Table{Columns: cols, RowCount: p.rowCount}, nil
}

// ResetBuilders clears every builder back to empty so RowStreamer can
// start the next batch from a bounded backing array instead of letting
// it grow for the whole file, reapplying any ColTypes forcing the reset
// would otherwise discard.
func (p *TabularParser) ResetBuilders() {
	for i, b := range p.builders {
		b.Reset()
		if i < len(p.fields) {
			if t, ok := p.opts.ColTypes[p.fields[i]]; ok {
				b.ForceType(t)
			}
		}
	}
	p.batchRow = 0
}

// Warnings returns the warnings collected during Locate/Ingest/Finalize.
func (p *TabularParser) Warnings() []Warning { return p.wc.list() }
