package ndjson

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/wippyai/avcodec/errors"
)

// Compression identifies the codec of an input stream.
type Compression uint8

const (
	None Compression = iota
	Gzip
	Zstd
	LZ4
)

var compressionNames = [...]string{"none", "gzip", "zstd", "lz4"}

func (c Compression) String() string {
	if int(c) < len(compressionNames) {
		return compressionNames[c]
	}
	return "unknown"
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// exportItem is the key DynamoDB exports wrap each record in.
const exportItem = "Item"

// Reader decodes one record per JSON value.
type Reader struct {
	// Unwrap strips the {"Item": {...}} envelope of DynamoDB exports.
	// Lines without the envelope pass through unchanged.
	Unwrap bool

	dec         *json.Decoder
	compression Compression
	closers     []io.Closer
	n           int
}

// Open opens a possibly compressed NDJSON file. Close releases the file.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Load("open "+path, err)
	}
	r, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.closers = append(r.closers, f)
	return r, nil
}

// NewReader wraps src, sniffing its compression. Closing the Reader does
// not close src.
func NewReader(src io.Reader) (*Reader, error) {
	br := bufio.NewReader(src)
	head, err := br.Peek(4)
	if err != nil && err != io.EOF {
		return nil, errors.Load("read header", err)
	}

	r := &Reader{}
	var body io.Reader = br
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, errors.Load("gzip header", err)
		}
		body = gz
		r.compression = Gzip
		r.closers = append(r.closers, gz)
	case bytes.HasPrefix(head, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, errors.Load("zstd header", err)
		}
		rc := zr.IOReadCloser()
		body = rc
		r.compression = Zstd
		r.closers = append(r.closers, rc)
	case bytes.HasPrefix(head, lz4Magic):
		body = lz4.NewReader(br)
		r.compression = LZ4
	}

	r.dec = json.NewDecoder(body)
	r.dec.UseNumber()
	return r, nil
}

// Compression reports the codec detected on the input.
func (r *Reader) Compression() Compression {
	return r.compression
}

// Read returns the next record, or io.EOF when the stream is exhausted.
func (r *Reader) Read() (map[string]any, error) {
	var v any
	if err := r.dec.Decode(&v); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, errors.Load("record "+strconv.Itoa(r.n), err)
	}
	rec, ok := v.(map[string]any)
	if !ok {
		return nil, errors.New(errors.PhaseLoad, errors.KindTypeMismatch).
			Path("[" + strconv.Itoa(r.n) + "]").
			Detail("record must be a JSON object, got %T", v).
			Build()
	}
	r.n++
	if r.Unwrap && len(rec) == 1 {
		if item, ok := rec[exportItem].(map[string]any); ok {
			return item, nil
		}
	}
	return rec, nil
}

// ReadBatch returns up to n records. A short batch with a nil error means
// the stream ended; io.EOF is returned only when no record was read.
func (r *Reader) ReadBatch(n int) ([]map[string]any, error) {
	if n < 1 {
		n = 1
	}
	batch := make([]map[string]any, 0, n)
	for len(batch) < n {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		batch = append(batch, rec)
	}
	if len(batch) == 0 {
		return nil, io.EOF
	}
	return batch, nil
}

// Close releases decompressors and the file opened by Open.
func (r *Reader) Close() error {
	var first error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	r.closers = nil
	return first
}
