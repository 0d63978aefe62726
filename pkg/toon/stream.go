package toon

import "context"

// cancelProbeInterval bounds how many rows RowStreamer ingests between
// checks of ctx.Done(), keeping cooperative cancellation cheap.
const cancelProbeInterval = 10000

// RowBatch is one fixed-size slice of ingested rows delivered to a
// StreamRows callback, expressed as parallel columns matching the
// tabular block's schema.
type RowBatch struct {
	Columns  []*Column
	RowCount int
}

// StreamRows locates the tabular block (per opts.Key) and ingests it in
// batches of opts.BatchSize, invoking onBatch after each full batch and
// once more for a final partial batch. Builders are reset after every
// emitted batch, so memory stays bounded to one batch's worth of rows
// rather than growing for the whole file. Cancellation is checked every
// cancelProbeInterval rows; a cancelled context stops ingestion and
// returns ctx.Err() without invoking onBatch again.
func StreamRows(ctx context.Context, src *lineSource, opts ReaderOptions, sink func(Warning), onBatch func(RowBatch) error) error {
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultReaderOptions().BatchSize
	}

	p := newTabularParser(src, opts, sink)
	if err := p.Locate(); err != nil {
		return err
	}

	sinceProbe := 0
	for {
		sinceProbe++
		if sinceProbe >= cancelProbeInterval {
			sinceProbe = 0
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		more, err := p.ingestOne()
		if err != nil {
			return err
		}
		if !more {
			break
		}

		if p.batchRow >= batchSize {
			if err := emitBatch(p, onBatch); err != nil {
				return err
			}
		}
	}

	if p.batchRow > 0 {
		if err := emitBatch(p, onBatch); err != nil {
			return err
		}
	}

	_, err := p.Finalize()
	return err
}

// emitBatch finalises every builder's current (batch-sized) snapshot
// into a RowBatch, delivers it, and resets the builders for the next
// batch.
func emitBatch(p *TabularParser, onBatch func(RowBatch) error) error {
	cols := make([]*Column, len(p.builders))
	for i, b := range p.builders {
		cols[i] = b.Finalize()
	}
	if err := onBatch(RowBatch{Columns: cols, RowCount: p.batchRow}); err != nil {
		return err
	}
	p.ResetBuilders()
	return nil
}
