package codec

import (
	"sync"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.uber.org/zap"

	"github.com/wippyai/avcodec/codec/internal/shape"
	"github.com/wippyai/avcodec/errors"
	"github.com/wippyai/avcodec/schema"
)

// Transform converts one column of a schema node between forms.
// Transforms are immutable and safe for concurrent use.
type Transform struct {
	fn   columnFunc
	Type schema.Type
	In   arrow.DataType
	Out  arrow.DataType
	Name string
	Dir  Direction
}

// Apply runs the transform over col. The returned column is owned by the
// caller and must be released.
func (t *Transform) Apply(mem memory.Allocator, col arrow.Array) (arrow.Array, error) {
	if col == nil {
		return nil, errors.New(errors.PhaseValidate, errors.KindNilPointer).
			Path(t.Name).
			Detail("nil column").
			Build()
	}
	if !shape.Equal(col.DataType(), t.In) {
		return nil, shapeError(t.Name, col.DataType(), t.In)
	}
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	out, err := t.fn(mem, col)
	if err != nil {
		return nil, err
	}
	if !shape.Equal(out.DataType(), t.Out) {
		out.Release()
		return nil, shapeError(t.Name, out.DataType(), t.Out)
	}
	return out, nil
}

func shapeError(name string, got, want arrow.DataType) error {
	return errors.New(errors.PhaseValidate, errors.KindShape).
		Path(name).
		GoType(got.String()).
		SchemaType(want.String()).
		Detail("column shape mismatch").
		Build()
}

// Compiler builds transforms from schema nodes and caches them.
type Compiler struct {
	cache sync.Map // cacheKey -> *Transform
	rows  sync.Map // rowKey -> []*Transform
}

type cacheKey struct {
	node schema.Type
	name string
	dir  Direction
}

type rowKey struct {
	root *schema.Struct
	dir  Direction
}

func NewCompiler() *Compiler {
	return &Compiler{}
}

// Encode compiles the plain to tagged transform for a field named name.
func (c *Compiler) Encode(t schema.Type, name string) (*Transform, error) {
	return c.Compile(t, name, Encode)
}

// Decode compiles the tagged to plain transform for a field named name.
func (c *Compiler) Decode(t schema.Type, name string) (*Transform, error) {
	return c.Compile(t, name, Decode)
}

// Compile validates t and compiles its transform in direction dir.
func (c *Compiler) Compile(t schema.Type, name string, dir Direction) (*Transform, error) {
	if err := schema.Validate(t); err != nil {
		return nil, errors.WithPath(err, name)
	}

	key := cacheKey{node: t, name: name, dir: dir}
	if cached, ok := c.cache.Load(key); ok {
		return cached.(*Transform), nil
	}

	path := []string{name}
	var fn columnFunc
	var err error
	if dir == Decode {
		fn, err = c.decoder(t, path)
	} else {
		fn, err = c.encoder(t, path)
	}
	if err != nil {
		return nil, err
	}

	tr := &Transform{
		fn:   fn,
		Type: t,
		In:   dir.Input().DataType(t),
		Out:  dir.Output().DataType(t),
		Name: name,
		Dir:  dir,
	}
	actual, _ := c.cache.LoadOrStore(key, tr)
	Logger().Debug("compiled transform",
		zap.String("field", name),
		zap.Stringer("type", t),
		zap.Stringer("direction", dir))
	return actual.(*Transform), nil
}

// CompileRecord compiles one transform per top-level field of root, in
// field order.
func (c *Compiler) CompileRecord(root *schema.Struct, dir Direction) ([]*Transform, error) {
	if root == nil {
		return nil, errors.New(errors.PhaseSchema, errors.KindNilPointer).
			Detail("nil record schema").
			Build()
	}
	key := rowKey{root: root, dir: dir}
	if cached, ok := c.rows.Load(key); ok {
		if trs := cached.([]*Transform); matchesFields(trs, root) {
			return trs, nil
		}
	}
	if err := schema.Validate(root); err != nil {
		return nil, err
	}

	out := make([]*Transform, len(root.Fields))
	for i, f := range root.Fields {
		tr, err := c.Compile(f.Type, f.Name, dir)
		if err != nil {
			return nil, err
		}
		out[i] = tr
	}
	c.rows.Store(key, out)
	return out, nil
}

// matchesFields reports whether trs were compiled from root's current
// field list.
func matchesFields(trs []*Transform, root *schema.Struct) bool {
	if len(trs) != len(root.Fields) {
		return false
	}
	for i, f := range root.Fields {
		if trs[i].Name != f.Name || trs[i].Type != f.Type {
			return false
		}
	}
	return true
}

func unsupportedNode(path []string, t schema.Type) error {
	return errors.New(errors.PhaseSchema, errors.KindUnsupported).
		Path(path...).
		Detail("unsupported schema node %T", t).
		Build()
}

func childPath(path []string, seg string) []string {
	return append(append(make([]string, 0, len(path)+1), path...), seg)
}

const elemSegment = "[elem]"
