package codec

import (
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/wippyai/avcodec/attrvalue"
	"github.com/wippyai/avcodec/codec/internal/shape"
	"github.com/wippyai/avcodec/schema"
)

// Flatten converts a table back into row-major records in row order.
// Every record carries every top-level field of root. Plain values use
// int64, float64, string, []byte, bool, nil, []any and map[string]any.
// Tagged values are single-key maps; slots holding the null tag come out
// as {"NULL": true}. The records share no memory with the table.
func Flatten(t *Table, root *schema.Struct, form Form) []Record {
	out := make([]Record, t.Rows)
	for r := range out {
		out[r] = make(Record, len(root.Fields))
	}

	value := plainValue
	if form == Tagged {
		value = taggedValue
	}
	for i, f := range root.Fields {
		col := t.Columns[i]
		for r := range out {
			out[r][f.Name] = value(col, f.Type, r)
		}
	}
	return out
}

func plainValue(a arrow.Array, t schema.Type, i int) any {
	if a.IsNull(i) {
		return nil
	}

	switch n := t.(type) {
	case schema.IntegerType:
		return a.(*array.Int64).Value(i)
	case schema.FloatType:
		return a.(*array.Float64).Value(i)
	case schema.StringType:
		return strings.Clone(a.(*array.String).Value(i))
	case schema.BinaryType:
		return append([]byte{}, a.(*array.Binary).Value(i)...)
	case schema.BoolType:
		return a.(*array.Boolean).Value(i)
	case schema.NullType:
		return nil
	case *schema.Set:
		return listValues(a.(*array.List), i, n.Item, plainValue)
	case *schema.List:
		return listValues(a.(*array.List), i, n.Item, plainValue)
	case *schema.Struct:
		st := a.(*array.Struct)
		m := make(map[string]any, len(n.Fields))
		for k, f := range n.Fields {
			m[f.Name] = plainValue(st.Field(k), f.Type, i)
		}
		return m
	default:
		return nil
	}
}

func taggedValue(a arrow.Array, t schema.Type, i int) any {
	st := a.(*array.Struct)
	if t.Kind() == schema.KindNull || st.IsNull(i) {
		return attrvalue.Null()
	}
	payload := st.Field(0)
	if payload.IsNull(i) {
		return attrvalue.Null()
	}

	var v any
	switch n := t.(type) {
	case schema.IntegerType, schema.FloatType, schema.StringType, schema.BinaryType:
		v = strings.Clone(payload.(*array.String).Value(i))
	case schema.BoolType:
		v = payload.(*array.Boolean).Value(i)
	case *schema.Set:
		list := payload.(*array.List)
		members := list.ListValues().(*array.String)
		start, end := list.ValueOffsets(i)
		items := make([]any, 0, end-start)
		for j := start; j < end; j++ {
			items = append(items, strings.Clone(members.Value(int(j))))
		}
		v = items
	case *schema.List:
		v = listValues(payload.(*array.List), i, n.Item, taggedValue)
	case *schema.Struct:
		members := payload.(*array.Struct)
		m := make(map[string]any, len(n.Fields))
		for k, f := range n.Fields {
			m[f.Name] = taggedValue(members.Field(k), f.Type, i)
		}
		v = m
	}
	return map[string]any{shape.Tag(t): v}
}

func listValues(list *array.List, i int, item schema.Type, value func(arrow.Array, schema.Type, int) any) []any {
	values := list.ListValues()
	start, end := list.ValueOffsets(i)
	out := make([]any, 0, end-start)
	for j := start; j < end; j++ {
		out = append(out, value(values, item, int(j)))
	}
	return out
}
