package schema

import (
	"strings"

	"github.com/wippyai/avcodec/errors"
)

// Type is a node of the type tree. The set of implementations is closed:
// Integer, Float, String, Binary, Bool, Null, *Set, *List and *Struct.
type Type interface {
	Kind() Kind
	String() string
	node()
}

type (
	IntegerType struct{}
	FloatType   struct{}
	StringType  struct{}
	BinaryType  struct{}
	BoolType    struct{}
	NullType    struct{}
)

func Integer() Type { return IntegerType{} }
func Float() Type   { return FloatType{} }
func String() Type  { return StringType{} }
func Binary() Type  { return BinaryType{} }
func Bool() Type    { return BoolType{} }
func Null() Type    { return NullType{} }

func (IntegerType) Kind() Kind { return KindInteger }
func (FloatType) Kind() Kind   { return KindFloat }
func (StringType) Kind() Kind  { return KindString }
func (BinaryType) Kind() Kind  { return KindBinary }
func (BoolType) Kind() Kind    { return KindBool }
func (NullType) Kind() Kind    { return KindNull }

func (IntegerType) String() string { return KindInteger.String() }
func (FloatType) String() string   { return KindFloat.String() }
func (StringType) String() string  { return KindString.String() }
func (BinaryType) String() string  { return KindBinary.String() }
func (BoolType) String() string    { return KindBool.String() }
func (NullType) String() string    { return KindNull.String() }

func (IntegerType) node() {}
func (FloatType) node()   {}
func (StringType) node()  {}
func (BinaryType) node()  {}
func (BoolType) node()    {}
func (NullType) node()    {}

// Set is an unordered collection of flat scalars.
type Set struct {
	Item Type
}

// NewSet validates that item is one of String, Integer, Float or Binary.
func NewSet(item Type) (*Set, error) {
	if err := checkSetItem(item, nil); err != nil {
		return nil, err
	}
	return &Set{Item: item}, nil
}

func (s *Set) Kind() Kind { return KindSet }
func (s *Set) String() string {
	return "set<" + typeName(s.Item) + ">"
}
func (s *Set) node() {}

// List is an ordered sequence of any type.
type List struct {
	Item Type
}

func NewList(item Type) (*List, error) {
	if item == nil {
		return nil, errors.New(errors.PhaseSchema, errors.KindNilPointer).
			SchemaType("list").
			Detail("list item type is nil").
			Build()
	}
	return &List{Item: item}, nil
}

func (l *List) Kind() Kind { return KindList }
func (l *List) String() string {
	return "list<" + typeName(l.Item) + ">"
}
func (l *List) node() {}

// Field is a named member of a Struct.
type Field struct {
	Type Type
	Name string
}

// F is shorthand for Field{Name: name, Type: t}.
func F(name string, t Type) Field {
	return Field{Name: name, Type: t}
}

// Struct is an ordered set of named fields. The root of every record
// schema is a Struct.
type Struct struct {
	index map[string]int
	// Fields is read only once the struct is in use. Compiled transforms
	// are cached per struct; edits after compiling force a recompile.
	Fields []Field
}

// NewStruct validates field names and types. Field order is preserved.
func NewStruct(fields ...Field) (*Struct, error) {
	if len(fields) == 0 {
		return nil, errors.New(errors.PhaseSchema, errors.KindInvalidData).
			SchemaType("struct").
			Detail("struct must declare at least one field").
			Build()
	}

	index := make(map[string]int, len(fields))
	for i, f := range fields {
		if f.Name == "" {
			return nil, errors.New(errors.PhaseSchema, errors.KindInvalidData).
				SchemaType("struct").
				Detail("field %d has an empty name", i).
				Build()
		}
		if f.Type == nil {
			return nil, errors.New(errors.PhaseSchema, errors.KindNilPointer).
				Path(f.Name).
				Detail("field type is nil").
				Build()
		}
		if _, dup := index[f.Name]; dup {
			return nil, errors.New(errors.PhaseSchema, errors.KindDuplicate).
				Path(f.Name).
				Detail("duplicate field %q", f.Name).
				Build()
		}
		index[f.Name] = i
	}

	return &Struct{
		Fields: append([]Field(nil), fields...),
		index:  index,
	}, nil
}

func (s *Struct) Kind() Kind { return KindStruct }
func (s *Struct) String() string {
	var b strings.Builder
	b.WriteString("struct{")
	for i, f := range s.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(typeName(f.Type))
	}
	b.WriteByte('}')
	return b.String()
}
func (s *Struct) node() {}

// Len returns the number of fields.
func (s *Struct) Len() int { return len(s.Fields) }

// Names returns field names in declaration order.
func (s *Struct) Names() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Lookup returns the field with the given name.
func (s *Struct) Lookup(name string) (Field, bool) {
	if i, ok := s.index[name]; ok && i < len(s.Fields) && s.Fields[i].Name == name {
		return s.Fields[i], true
	}
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// MustSet is NewSet that panics on error. Intended for static schemas.
func MustSet(item Type) *Set {
	s, err := NewSet(item)
	if err != nil {
		panic(err)
	}
	return s
}

// MustList is NewList that panics on error.
func MustList(item Type) *List {
	l, err := NewList(item)
	if err != nil {
		panic(err)
	}
	return l
}

// MustStruct is NewStruct that panics on error.
func MustStruct(fields ...Field) *Struct {
	s, err := NewStruct(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

func checkSetItem(item Type, path []string) error {
	if item == nil {
		return errors.New(errors.PhaseSchema, errors.KindNilPointer).
			Path(path...).
			SchemaType("set").
			Detail("set item type is nil").
			Build()
	}
	if !item.Kind().IsSetItem() {
		return errors.New(errors.PhaseSchema, errors.KindUnsupported).
			Path(path...).
			SchemaType("set<" + item.String() + ">").
			Detail("set items must be string, integer, float or binary").
			Build()
	}
	return nil
}

func typeName(t Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
