package codec

import (
	"runtime"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wippyai/avcodec/codec/internal/column"
	"github.com/wippyai/avcodec/schema"
)

// Options configures an Engine.
type Options struct {
	// Allocator backs every column built during a batch.
	Allocator memory.Allocator
	// Workers bounds how many columns are transformed at once.
	// Values below 1 mean one.
	Workers int
}

// DefaultOptions returns options with one worker per usable CPU.
func DefaultOptions() Options {
	return Options{
		Allocator: memory.NewGoAllocator(),
		Workers:   runtime.GOMAXPROCS(0),
	}
}

// Engine runs batches of records through compiled transforms.
// It is safe for concurrent use.
type Engine struct {
	compiler *Compiler
	mem      memory.Allocator
	workers  int
}

func New(opts Options) *Engine {
	if opts.Allocator == nil {
		opts.Allocator = memory.NewGoAllocator()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Engine{
		compiler: NewCompiler(),
		mem:      opts.Allocator,
		workers:  opts.Workers,
	}
}

func NewWithDefaults() *Engine {
	return New(DefaultOptions())
}

// Compiler returns the engine's transform cache.
func (e *Engine) Compiler() *Compiler {
	return e.compiler
}

// Serialize encodes plain records into tagged records.
func (e *Engine) Serialize(records []Record, root *schema.Struct) ([]Record, error) {
	return e.Apply(records, root, Encode)
}

// Deserialize decodes tagged records into plain records.
func (e *Engine) Deserialize(records []Record, root *schema.Struct) ([]Record, error) {
	return e.Apply(records, root, Decode)
}

// Apply converts a batch in direction dir. The schema is compiled before
// any record is read, so a malformed schema fails even for an empty
// batch. Any failing record fails the whole batch.
func (e *Engine) Apply(records []Record, root *schema.Struct, dir Direction) ([]Record, error) {
	start := time.Now()

	transforms, err := e.compiler.CompileRecord(root, dir)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []Record{}, nil
	}

	in, err := BuildTable(e.mem, records, root, dir.Input())
	if err != nil {
		return nil, err
	}
	defer in.Release()

	cols, err := e.applyColumns(transforms, in)
	if err != nil {
		return nil, err
	}
	out, err := NewTable(dir.Output().Schema(root), cols, in.Rows)
	if err != nil {
		column.Release(cols)
		return nil, err
	}
	defer out.Release()

	result := Flatten(out, root, dir.Output())
	Logger().Debug("batch converted",
		zap.Stringer("direction", dir),
		zap.Int("records", len(records)),
		zap.Int("columns", len(cols)),
		zap.Duration("elapsed", time.Since(start)))
	return result, nil
}

func (e *Engine) applyColumns(transforms []*Transform, in *Table) ([]arrow.Array, error) {
	out := make([]arrow.Array, len(transforms))

	var g errgroup.Group
	g.SetLimit(e.workers)
	for i, tr := range transforms {
		g.Go(func() error {
			col, err := tr.Apply(e.mem, in.Columns[i])
			if err != nil {
				return err
			}
			out[i] = col
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		column.Release(out)
		return nil, err
	}
	return out, nil
}
