package output

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Writer outputs JSONL records.
//
// Implementations must be safe for concurrent use. Each Write* method emits
// one complete line.
type Writer interface {
	// WriteProcess emits a processing result.
	WriteProcess(ctx context.Context, result any) error

	// WriteRouting emits a routing dry run.
	WriteRouting(ctx context.Context, test any) error

	// WriteAnalysis emits a routing setup analysis.
	WriteAnalysis(ctx context.Context, analysis any) error

	WriteMatch(ctx context.Context, match *MatchRecord) error
	WriteError(ctx context.Context, err *ErrorRecord) error
	WriteSummary(ctx context.Context, sum *SummaryRecord) error

	Close() error
}

// JSONLWriter writes records as newline-delimited JSON to an io.Writer.
//
// Writes are serialized with a mutex so lines never interleave.
type JSONLWriter struct {
	w      io.Writer
	runID  string
	source string
	now    func() time.Time
	mu     sync.Mutex

	closed bool
}

// NewJSONLWriter creates a writer that stamps every record with runID and
// source.
func NewJSONLWriter(w io.Writer, runID, source string) *JSONLWriter {
	return &JSONLWriter{
		w:      w,
		runID:  runID,
		source: source,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (jw *JSONLWriter) RunID() string { return jw.runID }

func (jw *JSONLWriter) WriteProcess(ctx context.Context, result any) error {
	return jw.writeRecord(ctx, TypeProcess, result)
}

func (jw *JSONLWriter) WriteRouting(ctx context.Context, test any) error {
	return jw.writeRecord(ctx, TypeRouting, test)
}

func (jw *JSONLWriter) WriteAnalysis(ctx context.Context, analysis any) error {
	return jw.writeRecord(ctx, TypeAnalysis, analysis)
}

func (jw *JSONLWriter) WriteMatch(ctx context.Context, match *MatchRecord) error {
	return jw.writeRecord(ctx, TypeMatch, match)
}

func (jw *JSONLWriter) WriteError(ctx context.Context, err *ErrorRecord) error {
	return jw.writeRecord(ctx, TypeError, err)
}

func (jw *JSONLWriter) WriteSummary(ctx context.Context, sum *SummaryRecord) error {
	return jw.writeRecord(ctx, TypeSummary, sum)
}

// Close marks the writer as closed. The underlying writer is left open.
func (jw *JSONLWriter) Close() error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	jw.closed = true
	return nil
}

func (jw *JSONLWriter) writeRecord(ctx context.Context, recordType string, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dataBytes, err := json.Marshal(data)
	if err != nil {
		return &WriteError{Op: "marshal_data", Err: err}
	}

	jw.mu.Lock()
	defer jw.mu.Unlock()

	if jw.closed {
		return ErrWriterClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	record := Record{
		Type:   recordType,
		TS:     jw.now(),
		RunID:  jw.runID,
		Source: jw.source,
		Data:   dataBytes,
	}
	recordBytes, err := json.Marshal(record)
	if err != nil {
		return &WriteError{Op: "marshal_record", Err: err}
	}

	// io.Writer may return n < len(p) with a nil error; a truncated line
	// would corrupt the stream.
	recordBytes = append(recordBytes, '\n')
	if err := writeAll(jw.w, recordBytes); err != nil {
		return &WriteError{Op: "write", Err: err}
	}
	return nil
}

func writeAll(w io.Writer, p []byte) error {
	for len(p) > 0 {
		n, err := w.Write(p)
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		p = p[n:]
	}
	return nil
}

var _ Writer = (*JSONLWriter)(nil)
