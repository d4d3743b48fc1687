package codec

import (
	"encoding/base64"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/wippyai/avcodec/attrvalue"
	"github.com/wippyai/avcodec/codec/internal/coerce"
	"github.com/wippyai/avcodec/codec/internal/column"
	"github.com/wippyai/avcodec/codec/internal/shape"
	"github.com/wippyai/avcodec/errors"
	"github.com/wippyai/avcodec/schema"
)

func (c *Compiler) encoder(t schema.Type, path []string) (columnFunc, error) {
	switch n := t.(type) {
	case schema.NullType:
		return encodeNull, nil
	case schema.BoolType:
		return encodeBool, nil
	case schema.IntegerType, schema.FloatType, schema.StringType, schema.BinaryType:
		cast, err := textCaster(n.Kind(), path)
		if err != nil {
			return nil, err
		}
		return encodeText(shape.Tag(t), cast), nil
	case *schema.Set:
		return encodeSet(n, path)
	case *schema.List:
		item, err := c.encoder(n.Item, childPath(path, elemSegment))
		if err != nil {
			return nil, err
		}
		return encodeList(item), nil
	case *schema.Struct:
		return c.encodeStruct(n, path)
	default:
		return nil, unsupportedNode(path, t)
	}
}

// textCast renders every slot of a plain leaf column as text. Null slots
// hold the placeholder's text and must be masked by the caller.
type textCast func(col arrow.Array) ([]string, error)

func textCaster(k schema.Kind, path []string) (textCast, error) {
	switch k {
	case schema.KindInteger:
		zero := schema.Placeholder(k).(int64)
		return func(col arrow.Array) ([]string, error) {
			a := col.(*array.Int64)
			vals := fill(a.Len(), a.IsValid, a.Value, zero)
			buf := getScratch()
			defer putScratch(buf)
			out := make([]string, len(vals))
			for i, v := range vals {
				*buf = coerce.AppendInt((*buf)[:0], v)
				out[i] = string(*buf)
			}
			return out, nil
		}, nil

	case schema.KindFloat:
		zero := schema.Placeholder(k).(float64)
		return func(col arrow.Array) ([]string, error) {
			a := col.(*array.Float64)
			vals := fill(a.Len(), a.IsValid, a.Value, zero)
			buf := getScratch()
			defer putScratch(buf)
			out := make([]string, len(vals))
			for i, v := range vals {
				if !coerce.Finite(v) {
					return nil, atSlot(errors.InvalidNumber(errors.PhaseEncode, path, fmt.Sprint(v), nil), i)
				}
				*buf = coerce.AppendFloat((*buf)[:0], v)
				out[i] = string(*buf)
			}
			return out, nil
		}, nil

	case schema.KindString:
		zero := schema.Placeholder(k).(string)
		return func(col arrow.Array) ([]string, error) {
			a := col.(*array.String)
			return fill(a.Len(), a.IsValid, a.Value, zero), nil
		}, nil

	case schema.KindBinary:
		zero := schema.Placeholder(k).([]byte)
		return func(col arrow.Array) ([]string, error) {
			a := col.(*array.Binary)
			vals := fill(a.Len(), a.IsValid, a.Value, zero)
			buf := getScratch()
			defer putScratch(buf)
			out := make([]string, len(vals))
			for i, v := range vals {
				*buf = base64.StdEncoding.AppendEncode((*buf)[:0], v)
				out[i] = string(*buf)
			}
			return out, nil
		}, nil

	default:
		return nil, errors.New(errors.PhaseSchema, errors.KindUnsupported).
			Path(path...).
			SchemaType(k.String()).
			Detail("%s has no text form", k).
			Build()
	}
}

// fill reads every slot of a column, substituting placeholder where the
// slot is null.
func fill[T any](n int, valid func(int) bool, value func(int) T, placeholder T) []T {
	out := make([]T, n)
	for i := range out {
		if valid(i) {
			out[i] = value(i)
		} else {
			out[i] = placeholder
		}
	}
	return out
}

func encodeText(tag string, cast textCast) columnFunc {
	return func(mem memory.Allocator, in arrow.Array) (arrow.Array, error) {
		text, err := cast(in)
		if err != nil {
			return nil, err
		}

		b := array.NewStringBuilder(mem)
		defer b.Release()
		b.Reserve(len(text))
		for i, s := range text {
			if in.IsValid(i) {
				b.Append(s)
			} else {
				b.AppendNull()
			}
		}
		payload := b.NewArray()
		defer payload.Release()
		return wrapTag(mem, tag, payload, in.IsValid)
	}
}

func encodeBool(mem memory.Allocator, in arrow.Array) (arrow.Array, error) {
	a := in.(*array.Boolean)
	vals := fill(a.Len(), a.IsValid, a.Value, schema.Placeholder(schema.KindBool).(bool))

	b := array.NewBooleanBuilder(mem)
	defer b.Release()
	b.Reserve(len(vals))
	for i, v := range vals {
		if a.IsValid(i) {
			b.Append(v)
		} else {
			b.AppendNull()
		}
	}
	payload := b.NewArray()
	defer payload.Release()
	return wrapTag(mem, string(attrvalue.TagBOOL), payload, a.IsValid)
}

// encodeNull emits the null tag for every slot, whatever the input holds.
func encodeNull(mem memory.Allocator, in arrow.Array) (arrow.Array, error) {
	flags := column.NullFlags(mem, in.Len(), func(int) bool { return false })
	defer flags.Release()
	out, err := column.Struct([]arrow.Array{flags}, []string{shape.NullField}, column.AllValid)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func encodeSet(s *schema.Set, path []string) (columnFunc, error) {
	itemPath := childPath(path, elemSegment)
	cast, err := textCaster(s.Item.Kind(), itemPath)
	if err != nil {
		return nil, err
	}
	tag := shape.Tag(s)

	return func(mem memory.Allocator, in arrow.Array) (arrow.Array, error) {
		list := in.(*array.List)
		values := list.ListValues()
		for j := 0; j < values.Len(); j++ {
			if values.IsNull(j) {
				return nil, atSlot(errors.InvalidData(errors.PhaseEncode, itemPath, "set member is null"), j)
			}
		}
		text, err := cast(values)
		if err != nil {
			return nil, err
		}

		b := array.NewStringBuilder(mem)
		defer b.Release()
		b.AppendValues(text, nil)
		members := b.NewArray()
		defer members.Release()

		payload := column.List(list, members, list.IsValid)
		defer payload.Release()
		return wrapTag(mem, tag, payload, list.IsValid)
	}, nil
}

func encodeList(item columnFunc) columnFunc {
	return func(mem memory.Allocator, in arrow.Array) (arrow.Array, error) {
		list := in.(*array.List)
		items, err := item(mem, list.ListValues())
		if err != nil {
			return nil, err
		}
		defer items.Release()

		payload := column.List(list, items, list.IsValid)
		defer payload.Release()
		return wrapTag(mem, string(attrvalue.TagL), payload, list.IsValid)
	}
}

func (c *Compiler) encodeStruct(s *schema.Struct, path []string) (columnFunc, error) {
	fields := make([]columnFunc, len(s.Fields))
	for i, f := range s.Fields {
		fn, err := c.encoder(f.Type, childPath(path, f.Name))
		if err != nil {
			return nil, err
		}
		fields[i] = fn
	}
	names := s.Names()

	return func(mem memory.Allocator, in arrow.Array) (arrow.Array, error) {
		st := in.(*array.Struct)
		children := make([]arrow.Array, len(fields))
		defer column.Release(children)
		for i, fn := range fields {
			out, err := fn(mem, st.Field(i))
			if err != nil {
				return nil, err
			}
			children[i] = out
		}

		members, err := column.Struct(children, names, st.IsValid)
		if err != nil {
			return nil, err
		}
		defer members.Release()
		return wrapTag(mem, string(attrvalue.TagM), members, st.IsValid)
	}, nil
}

// wrapTag places payload under tag next to the NULL field. Where valid is
// false the NULL field is set, so the null tag wins over whatever the
// payload holds.
func wrapTag(mem memory.Allocator, tag string, payload arrow.Array, valid func(int) bool) (arrow.Array, error) {
	flags := column.NullFlags(mem, payload.Len(), valid)
	defer flags.Release()
	out, err := column.Struct([]arrow.Array{payload, flags}, []string{tag, shape.NullField}, column.AllValid)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func atSlot(e *errors.Error, i int) *errors.Error {
	e.Detail = fmt.Sprintf("%s (slot %d)", e.Detail, i)
	return e
}
