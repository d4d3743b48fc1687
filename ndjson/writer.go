package ndjson

import (
	"bufio"
	"io"

	"github.com/goccy/go-json"

	"github.com/wippyai/avcodec/errors"
)

// Writer writes one JSON record per line.
type Writer struct {
	buf *bufio.Writer
	enc *json.Encoder
}

// NewWriter buffers output to w. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	buf := bufio.NewWriter(w)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	return &Writer{buf: buf, enc: enc}
}

// Write encodes a record followed by a newline.
func (w *Writer) Write(rec map[string]any) error {
	if err := w.enc.Encode(rec); err != nil {
		return errors.Wrap(errors.PhaseLoad, errors.KindInvalidData, err, "encode record")
	}
	return nil
}

// WriteBatch writes records in order.
func (w *Writer) WriteBatch(records []map[string]any) error {
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) Flush() error {
	return w.buf.Flush()
}

// SetIndent pretty prints each record. Output is then no longer one
// record per line.
func (w *Writer) SetIndent(prefix, indent string) {
	w.enc.SetIndent(prefix, indent)
}
