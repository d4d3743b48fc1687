package codec

import (
	"encoding/base64"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/wippyai/avcodec/codec/internal/coerce"
	"github.com/wippyai/avcodec/codec/internal/column"
	"github.com/wippyai/avcodec/errors"
	"github.com/wippyai/avcodec/schema"
)

func (c *Compiler) decoder(t schema.Type, path []string) (columnFunc, error) {
	switch n := t.(type) {
	case schema.NullType:
		return decodeNull, nil
	case schema.BoolType:
		return decodeBool, nil
	case schema.IntegerType, schema.FloatType, schema.StringType, schema.BinaryType:
		p, err := textParser(n.Kind(), path)
		if err != nil {
			return nil, err
		}
		return decodeLeaf(p), nil
	case *schema.Set:
		return decodeSet(n, path)
	case *schema.List:
		item, err := c.decoder(n.Item, childPath(path, elemSegment))
		if err != nil {
			return nil, err
		}
		return decodeList(item), nil
	case *schema.Struct:
		return c.decodeStruct(n, path)
	default:
		return nil, unsupportedNode(path, t)
	}
}

// parser converts a text column into a plain leaf column. Slots where
// valid is false become null without being parsed.
type parser func(mem memory.Allocator, text *array.String, valid func(int) bool) (arrow.Array, error)

type appender[T any] interface {
	array.Builder
	Append(T)
}

func parseText[T any, B appender[T]](
	path []string,
	newBuilder func(memory.Allocator) B,
	parse func(string) (T, error),
	fail func(path []string, text string, err error) *errors.Error,
) parser {
	return func(mem memory.Allocator, text *array.String, valid func(int) bool) (arrow.Array, error) {
		b := newBuilder(mem)
		defer b.Release()
		b.Reserve(text.Len())
		for i := 0; i < text.Len(); i++ {
			if !valid(i) {
				b.AppendNull()
				continue
			}
			s := text.Value(i)
			v, err := parse(s)
			if err != nil {
				return nil, atSlot(fail(path, s, err), i)
			}
			b.Append(v)
		}
		return b.NewArray(), nil
	}
}

func textParser(k schema.Kind, path []string) (parser, error) {
	switch k {
	case schema.KindInteger:
		return parseText[int64](path, array.NewInt64Builder, coerce.ParseInt, badNumber), nil
	case schema.KindFloat:
		return parseText[float64](path, array.NewFloat64Builder, parseFinite, badNumber), nil
	case schema.KindString:
		return parseText[string](path, array.NewStringBuilder, identity, nil), nil
	case schema.KindBinary:
		return parseText[[]byte](path, newBinaryBuilder, base64.StdEncoding.DecodeString, badBase64), nil
	default:
		return nil, errors.New(errors.PhaseSchema, errors.KindUnsupported).
			Path(path...).
			SchemaType(k.String()).
			Detail("%s has no text form", k).
			Build()
	}
}

func newBinaryBuilder(mem memory.Allocator) *array.BinaryBuilder {
	return array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary)
}

func identity(s string) (string, error) { return s, nil }

func parseFinite(s string) (float64, error) {
	f, err := coerce.ParseFloat(s)
	if err != nil {
		return 0, err
	}
	if !coerce.Finite(f) {
		return 0, errors.InvalidInput(errors.PhaseDecode, "number is not finite")
	}
	return f, nil
}

func badNumber(path []string, text string, err error) *errors.Error {
	return errors.InvalidNumber(errors.PhaseDecode, path, text, err)
}

func badBase64(path []string, _ string, err error) *errors.Error {
	return errors.InvalidBase64(errors.PhaseDecode, path, err)
}

// decodeLeaf projects the tag field of a tagged column and parses it.
func decodeLeaf(p parser) columnFunc {
	return func(mem memory.Allocator, in arrow.Array) (arrow.Array, error) {
		st := in.(*array.Struct)
		text := st.Field(0).(*array.String)
		return p(mem, text, column.Both(st.IsValid, text.IsValid))
	}
}

func decodeBool(mem memory.Allocator, in arrow.Array) (arrow.Array, error) {
	st := in.(*array.Struct)
	payload := st.Field(0).(*array.Boolean)

	b := array.NewBooleanBuilder(mem)
	defer b.Release()
	b.Reserve(st.Len())
	for i := 0; i < st.Len(); i++ {
		if st.IsValid(i) && payload.IsValid(i) {
			b.Append(payload.Value(i))
		} else {
			b.AppendNull()
		}
	}
	return b.NewArray(), nil
}

func decodeNull(_ memory.Allocator, in arrow.Array) (arrow.Array, error) {
	return array.NewNull(in.Len()), nil
}

func decodeSet(s *schema.Set, path []string) (columnFunc, error) {
	itemPath := childPath(path, elemSegment)
	p, err := textParser(s.Item.Kind(), itemPath)
	if err != nil {
		return nil, err
	}

	return func(mem memory.Allocator, in arrow.Array) (arrow.Array, error) {
		st := in.(*array.Struct)
		list := st.Field(0).(*array.List)
		members := list.ListValues().(*array.String)
		for j := 0; j < members.Len(); j++ {
			if members.IsNull(j) {
				return nil, atSlot(errors.InvalidData(errors.PhaseDecode, itemPath, "set member is null"), j)
			}
		}

		items, err := p(mem, members, column.AllValid)
		if err != nil {
			return nil, err
		}
		defer items.Release()
		return column.List(list, items, column.Both(st.IsValid, list.IsValid)), nil
	}, nil
}

func decodeList(item columnFunc) columnFunc {
	return func(mem memory.Allocator, in arrow.Array) (arrow.Array, error) {
		st := in.(*array.Struct)
		list := st.Field(0).(*array.List)
		items, err := item(mem, list.ListValues())
		if err != nil {
			return nil, err
		}
		defer items.Release()
		return column.List(list, items, column.Both(st.IsValid, list.IsValid)), nil
	}
}

func (c *Compiler) decodeStruct(s *schema.Struct, path []string) (columnFunc, error) {
	fields := make([]columnFunc, len(s.Fields))
	for i, f := range s.Fields {
		fn, err := c.decoder(f.Type, childPath(path, f.Name))
		if err != nil {
			return nil, err
		}
		fields[i] = fn
	}
	names := s.Names()

	return func(mem memory.Allocator, in arrow.Array) (arrow.Array, error) {
		st := in.(*array.Struct)
		members := st.Field(0).(*array.Struct)
		children := make([]arrow.Array, len(fields))
		defer column.Release(children)
		for i, fn := range fields {
			out, err := fn(mem, members.Field(i))
			if err != nil {
				return nil, err
			}
			children[i] = out
		}

		out, err := column.Struct(children, names, column.Both(st.IsValid, members.IsValid))
		if err != nil {
			return nil, err
		}
		return out, nil
	}, nil
}
