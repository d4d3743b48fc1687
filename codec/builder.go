package codec

import (
	"encoding/base64"
	"fmt"
	"reflect"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/wippyai/avcodec/codec/internal/coerce"
	"github.com/wippyai/avcodec/codec/internal/column"
	"github.com/wippyai/avcodec/codec/internal/shape"
	"github.com/wippyai/avcodec/errors"
	"github.com/wippyai/avcodec/schema"
)

// Table is a batch of records transposed into one column per top-level
// field.
type Table struct {
	Schema  *arrow.Schema
	Columns []arrow.Array
	Rows    int
}

// NewTable checks that every column matches its schema field and has
// rows slots.
func NewTable(s *arrow.Schema, cols []arrow.Array, rows int) (*Table, error) {
	if s.NumFields() != len(cols) {
		return nil, errors.New(errors.PhaseValidate, errors.KindShape).
			Detail("%d columns for %d fields", len(cols), s.NumFields()).
			Build()
	}
	for i, f := range s.Fields() {
		if cols[i] == nil {
			return nil, errors.New(errors.PhaseValidate, errors.KindNilPointer).
				Path(f.Name).
				Detail("nil column").
				Build()
		}
		if !shape.Equal(cols[i].DataType(), f.Type) {
			return nil, shapeError(f.Name, cols[i].DataType(), f.Type)
		}
		if cols[i].Len() != rows {
			return nil, errors.New(errors.PhaseValidate, errors.KindShape).
				Path(f.Name).
				Detail("column has %d slots, want %d", cols[i].Len(), rows).
				Build()
		}
	}
	return &Table{Schema: s, Columns: cols, Rows: rows}, nil
}

// Release releases every column of the table.
func (t *Table) Release() {
	if t == nil {
		return
	}
	column.Release(t.Columns)
}

// BuildTable transposes records of the given form into columns shaped by
// root. Absent fields and nil values become null slots. Records whose
// values do not fit the schema fail with an error in form's phase: decode
// for tagged input, encode for plain input.
func BuildTable(mem memory.Allocator, records []Record, root *schema.Struct, form Form) (*Table, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	s := form.Schema(root)
	cols := make([]arrow.Array, len(root.Fields))

	for i, f := range root.Fields {
		b := array.NewBuilder(mem, s.Field(i).Type)
		b.Reserve(len(records))
		for row, rec := range records {
			v := rec[f.Name]
			var err error
			if form == Tagged {
				err = appendTagged(b, f.Type, v, []string{f.Name})
			} else {
				err = appendPlain(b, f.Type, v, []string{f.Name})
			}
			if err != nil {
				b.Release()
				column.Release(cols)
				return nil, errors.WithPath(err, "["+strconv.Itoa(row)+"]")
			}
		}
		cols[i] = b.NewArray()
		b.Release()
	}
	t, err := NewTable(s, cols, len(records))
	if err != nil {
		column.Release(cols)
		return nil, err
	}
	return t, nil
}

func appendPlain(b array.Builder, t schema.Type, v any, path []string) error {
	if isNil(v) {
		b.AppendNull()
		return nil
	}

	switch n := t.(type) {
	case schema.IntegerType:
		i, ok := coerce.ToInt64(v)
		if !ok {
			return plainMismatch(path, v, t)
		}
		b.(*array.Int64Builder).Append(i)

	case schema.FloatType:
		f, ok := coerce.ToFloat64(v)
		if !ok {
			return plainMismatch(path, v, t)
		}
		b.(*array.Float64Builder).Append(f)

	case schema.StringType:
		s, ok := v.(string)
		if !ok {
			return plainMismatch(path, v, t)
		}
		b.(*array.StringBuilder).Append(s)

	case schema.BinaryType:
		switch raw := v.(type) {
		case []byte:
			b.(*array.BinaryBuilder).Append(raw)
		case string:
			data, err := base64.StdEncoding.DecodeString(raw)
			if err != nil {
				return errors.InvalidBase64(errors.PhaseEncode, path, err)
			}
			b.(*array.BinaryBuilder).Append(data)
		default:
			return plainMismatch(path, v, t)
		}

	case schema.BoolType:
		bv, ok := v.(bool)
		if !ok {
			return plainMismatch(path, v, t)
		}
		b.(*array.BooleanBuilder).Append(bv)

	case schema.NullType:
		b.AppendNull()

	case *schema.Set:
		return appendPlainSeq(b, n.Item, v, path, t)

	case *schema.List:
		return appendPlainSeq(b, n.Item, v, path, t)

	case *schema.Struct:
		m, ok := v.(map[string]any)
		if !ok {
			return plainMismatch(path, v, t)
		}
		sb := b.(*array.StructBuilder)
		sb.Append(true)
		for i, f := range n.Fields {
			if err := appendPlain(sb.FieldBuilder(i), f.Type, m[f.Name], childPath(path, f.Name)); err != nil {
				return err
			}
		}

	default:
		return unsupportedNode(path, t)
	}
	return nil
}

func appendPlainSeq(b array.Builder, item schema.Type, v any, path []string, t schema.Type) error {
	items, ok := asSlice(v)
	if !ok {
		return plainMismatch(path, v, t)
	}
	lb := b.(*array.ListBuilder)
	lb.Append(true)
	vb := lb.ValueBuilder()
	for k, e := range items {
		if err := appendPlain(vb, item, e, childPath(path, "["+strconv.Itoa(k)+"]")); err != nil {
			return err
		}
	}
	return nil
}

// appendTagged accepts a tagged value: a single-key map holding either
// the node's tag or NULL:true.
func appendTagged(b array.Builder, t schema.Type, v any, path []string) error {
	sb := b.(*array.StructBuilder)
	if isNil(v) {
		sb.AppendNull()
		return nil
	}

	m, ok := v.(map[string]any)
	if !ok {
		return errors.TypeMismatch(errors.PhaseDecode, path, goTypeName(v), t.String())
	}
	if len(m) != 1 {
		return errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Path(path...).
			SchemaType(t.String()).
			Detail("tagged value must have exactly one key, got %d", len(m)).
			Build()
	}
	var key string
	var payload any
	for k, p := range m {
		key, payload = k, p
	}

	isNull := t.Kind() == schema.KindNull
	nullIdx := 1
	if isNull {
		nullIdx = 0
	}

	if key == shape.NullField {
		if flag, ok := payload.(bool); !ok || !flag {
			return errors.New(errors.PhaseDecode, errors.KindInvalidData).
				Path(path...).
				Value(payload).
				Detail("NULL tag must be true").
				Build()
		}
		sb.Append(true)
		if !isNull {
			sb.FieldBuilder(0).AppendNull()
		}
		sb.FieldBuilder(nullIdx).(*array.BooleanBuilder).Append(true)
		return nil
	}

	want := shape.Tag(t)
	if key != want {
		return errors.TagMismatch(path, key, want)
	}

	sb.Append(true)
	sb.FieldBuilder(nullIdx).AppendNull()
	pb := sb.FieldBuilder(0)

	switch n := t.(type) {
	case schema.IntegerType, schema.FloatType:
		s, ok := numberText(payload)
		if !ok {
			return payloadMismatch(path, payload, t, key)
		}
		pb.(*array.StringBuilder).Append(s)

	case schema.StringType:
		s, ok := payload.(string)
		if !ok {
			return payloadMismatch(path, payload, t, key)
		}
		pb.(*array.StringBuilder).Append(s)

	case schema.BinaryType:
		s, ok := binaryText(payload)
		if !ok {
			return payloadMismatch(path, payload, t, key)
		}
		pb.(*array.StringBuilder).Append(s)

	case schema.BoolType:
		bv, ok := payload.(bool)
		if !ok {
			return payloadMismatch(path, payload, t, key)
		}
		pb.(*array.BooleanBuilder).Append(bv)

	case *schema.Set:
		items, ok := asSlice(payload)
		if !ok {
			return payloadMismatch(path, payload, t, key)
		}
		lb := pb.(*array.ListBuilder)
		lb.Append(true)
		vb := lb.ValueBuilder().(*array.StringBuilder)
		text := numberText
		switch n.Item.Kind() {
		case schema.KindString:
			text = stringText
		case schema.KindBinary:
			text = binaryText
		}
		for k, e := range items {
			if isNil(e) {
				vb.AppendNull()
				continue
			}
			s, ok := text(e)
			if !ok {
				return payloadMismatch(childPath(path, "["+strconv.Itoa(k)+"]"), e, n.Item, key)
			}
			vb.Append(s)
		}

	case *schema.List:
		items, ok := asSlice(payload)
		if !ok {
			return payloadMismatch(path, payload, t, key)
		}
		lb := pb.(*array.ListBuilder)
		lb.Append(true)
		vb := lb.ValueBuilder()
		for k, e := range items {
			if err := appendTagged(vb, n.Item, e, childPath(path, "["+strconv.Itoa(k)+"]")); err != nil {
				return err
			}
		}

	case *schema.Struct:
		members, ok := payload.(map[string]any)
		if !ok {
			return payloadMismatch(path, payload, t, key)
		}
		ms := pb.(*array.StructBuilder)
		ms.Append(true)
		for i, f := range n.Fields {
			if err := appendTagged(ms.FieldBuilder(i), f.Type, members[f.Name], childPath(path, f.Name)); err != nil {
				return err
			}
		}

	default:
		return unsupportedNode(path, t)
	}
	return nil
}

func plainMismatch(path []string, v any, t schema.Type) error {
	return errors.TypeMismatch(errors.PhaseEncode, path, goTypeName(v), t.String())
}

func payloadMismatch(path []string, payload any, t schema.Type, tag string) error {
	return errors.New(errors.PhaseDecode, errors.KindTypeMismatch).
		Path(path...).
		GoType(goTypeName(payload)).
		SchemaType(t.String()).
		Value(payload).
		Detail("unexpected %s payload", tag).
		Build()
}

// numberText accepts decimal strings and json.Number-like values.
func numberText(v any) (string, bool) {
	switch n := v.(type) {
	case string:
		return n, true
	case fmt.Stringer:
		if _, ok := coerce.ToFloat64(v); ok {
			return n.String(), true
		}
	}
	return "", false
}

func stringText(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// binaryText accepts base64 strings and raw bytes.
func binaryText(v any) (string, bool) {
	switch b := v.(type) {
	case string:
		return b, true
	case []byte:
		return base64.StdEncoding.EncodeToString(b), true
	}
	return "", false
}

func asSlice(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// isNil reports untyped nil and nil slices, maps and pointers.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func goTypeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}
