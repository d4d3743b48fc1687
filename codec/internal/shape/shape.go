package shape

import (
	"github.com/apache/arrow-go/v18/arrow"

	"github.com/wippyai/avcodec/attrvalue"
	"github.com/wippyai/avcodec/schema"
)

// NullField is the universal null tag carried by every tagged struct.
const NullField = string(attrvalue.TagNULL)

// Plain returns the column type of a node's plain value.
func Plain(t schema.Type) arrow.DataType {
	switch n := t.(type) {
	case schema.IntegerType:
		return arrow.PrimitiveTypes.Int64
	case schema.FloatType:
		return arrow.PrimitiveTypes.Float64
	case schema.StringType:
		return arrow.BinaryTypes.String
	case schema.BinaryType:
		return arrow.BinaryTypes.Binary
	case schema.BoolType:
		return arrow.FixedWidthTypes.Boolean
	case schema.NullType:
		return arrow.Null
	case *schema.Set:
		return arrow.ListOf(Plain(n.Item))
	case *schema.List:
		return arrow.ListOf(Plain(n.Item))
	case *schema.Struct:
		fields := make([]arrow.Field, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = field(f.Name, Plain(f.Type))
		}
		return arrow.StructOf(fields...)
	default:
		return arrow.Null
	}
}

// Tagged returns the column type of a node's tagged value: a struct of
// the node's tag field and the NULL field. Exactly one of the two is
// non-null in a well-formed cell. The Null leaf has only the NULL field.
func Tagged(t schema.Type) arrow.DataType {
	if t.Kind() == schema.KindNull {
		return arrow.StructOf(field(NullField, arrow.FixedWidthTypes.Boolean))
	}
	tag, _ := attrvalue.For(t)
	return arrow.StructOf(
		field(string(tag), Payload(t)),
		field(NullField, arrow.FixedWidthTypes.Boolean),
	)
}

// Payload returns the column type held under a node's tag.
func Payload(t schema.Type) arrow.DataType {
	switch n := t.(type) {
	case schema.IntegerType, schema.FloatType, schema.StringType, schema.BinaryType:
		return arrow.BinaryTypes.String
	case schema.BoolType, schema.NullType:
		return arrow.FixedWidthTypes.Boolean
	case *schema.Set:
		// set members are flat scalar text, not nested tagged values
		return arrow.ListOf(arrow.BinaryTypes.String)
	case *schema.List:
		return arrow.ListOf(Tagged(n.Item))
	case *schema.Struct:
		fields := make([]arrow.Field, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = field(f.Name, Tagged(f.Type))
		}
		return arrow.StructOf(fields...)
	default:
		return arrow.Null
	}
}

// PlainSchema is the table layout of plain records for root.
func PlainSchema(root *schema.Struct) *arrow.Schema {
	fields := make([]arrow.Field, len(root.Fields))
	for i, f := range root.Fields {
		fields[i] = field(f.Name, Plain(f.Type))
	}
	return arrow.NewSchema(fields, nil)
}

// TaggedSchema is the table layout of tagged records for root.
func TaggedSchema(root *schema.Struct) *arrow.Schema {
	fields := make([]arrow.Field, len(root.Fields))
	for i, f := range root.Fields {
		fields[i] = field(f.Name, Tagged(f.Type))
	}
	return arrow.NewSchema(fields, nil)
}

// Equal reports whether two column types have the same layout.
func Equal(a, b arrow.DataType) bool {
	return arrow.TypeEqual(a, b)
}

func field(name string, dt arrow.DataType) arrow.Field {
	return arrow.Field{Name: name, Type: dt, Nullable: true}
}

// Tag returns the name of the field a node's value is tagged under.
func Tag(t schema.Type) string {
	tag, _ := attrvalue.For(t)
	return string(tag)
}
