package schema

import (
	"github.com/wippyai/avcodec/errors"
)

// Walk visits t and its descendants depth first. path holds the field
// names leading to the node, with "[elem]" for container items. Returning
// false from fn skips the node's children.
func Walk(t Type, fn func(path []string, t Type) bool) {
	walk(nil, t, fn)
}

func walk(path []string, t Type, fn func([]string, Type) bool) {
	if !fn(path, t) {
		return
	}
	switch n := t.(type) {
	case *Set:
		walk(appendPath(path, "[elem]"), n.Item, fn)
	case *List:
		walk(appendPath(path, "[elem]"), n.Item, fn)
	case *Struct:
		for _, f := range n.Fields {
			walk(appendPath(path, f.Name), f.Type, fn)
		}
	}
}

// Validate checks a whole tree, including nodes assembled without the
// constructors. It returns the first violation as a PhaseSchema error.
func Validate(t Type) error {
	var err error
	Walk(t, func(path []string, n Type) bool {
		if err != nil {
			return false
		}
		err = validateNode(path, n)
		return err == nil
	})
	return err
}

func validateNode(path []string, t Type) error {
	switch n := t.(type) {
	case nil:
		return errors.New(errors.PhaseSchema, errors.KindNilPointer).
			Path(path...).
			Detail("type is nil").
			Build()
	case IntegerType, FloatType, StringType, BinaryType, BoolType, NullType:
		return nil
	case *Set:
		if n == nil {
			return nilNode(path, "set")
		}
		return checkSetItem(n.Item, path)
	case *List:
		if n == nil {
			return nilNode(path, "list")
		}
		if n.Item == nil {
			return errors.New(errors.PhaseSchema, errors.KindNilPointer).
				Path(path...).
				SchemaType("list").
				Detail("list item type is nil").
				Build()
		}
		return nil
	case *Struct:
		if n == nil {
			return nilNode(path, "struct")
		}
		if len(n.Fields) == 0 {
			return errors.New(errors.PhaseSchema, errors.KindInvalidData).
				Path(path...).
				SchemaType("struct").
				Detail("struct must declare at least one field").
				Build()
		}
		seen := make(map[string]struct{}, len(n.Fields))
		for _, f := range n.Fields {
			if f.Name == "" {
				return errors.New(errors.PhaseSchema, errors.KindInvalidData).
					Path(path...).
					Detail("field with empty name").
					Build()
			}
			if _, dup := seen[f.Name]; dup {
				return errors.New(errors.PhaseSchema, errors.KindDuplicate).
					Path(appendPath(path, f.Name)...).
					Detail("duplicate field %q", f.Name).
					Build()
			}
			seen[f.Name] = struct{}{}
		}
		return nil
	default:
		return errors.New(errors.PhaseSchema, errors.KindUnsupported).
			Path(path...).
			Detail("unsupported schema node %T", t).
			Build()
	}
}

func nilNode(path []string, what string) error {
	return errors.New(errors.PhaseSchema, errors.KindNilPointer).
		Path(path...).
		SchemaType(what).
		Detail("nil %s node", what).
		Build()
}

func appendPath(path []string, seg string) []string {
	return append(append(make([]string, 0, len(path)+1), path...), seg)
}

// Placeholder returns the default value of a scalar leaf's plain type.
// It fills null slots before a cast so the cast never sees an undefined
// value; callers must restore nulls afterwards.
func Placeholder(k Kind) any {
	switch k {
	case KindInteger:
		return int64(0)
	case KindFloat:
		return float64(0)
	case KindString:
		return ""
	case KindBinary:
		return []byte{}
	case KindBool:
		return false
	default:
		return nil
	}
}
