package schema

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/avcodec/errors"
)

// Parse reads a schema document. The document is a mapping of field name
// to type, where a type is either a leaf name or a one-key mapping naming
// a container:
//
//	id: string
//	tags: {set: string}
//	items:
//	  list:
//	    struct:
//	      name: string
//	      price: float
//
// JSON documents are accepted as well. Field order follows the document.
func Parse(data []byte) (*Struct, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.ParseFailed("schema", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.InvalidInput(errors.PhaseParse, "empty schema document")
	}
	return parseFields(doc.Content[0], nil)
}

// Load reads and parses a schema file.
func Load(path string) (*Struct, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseParse, errors.KindInvalidInput, err, "read "+path)
	}
	return Parse(data)
}

func parseFields(n *yaml.Node, path []string) (*Struct, error) {
	if n.Kind != yaml.MappingNode {
		return nil, parseError(n, path, "expected a mapping of field names to types")
	}

	fields := make([]Field, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		fieldPath := appendPath(path, key.Value)
		t, err := parseType(val, fieldPath)
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Name: key.Value, Type: t})
	}

	s, err := NewStruct(fields...)
	if err != nil {
		return nil, errors.WithPath(err, path...)
	}
	return s, nil
}

func parseType(n *yaml.Node, path []string) (Type, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		kind, ok := kindByName[strings.ToLower(n.Value)]
		if !ok {
			return nil, parseError(n, path, fmt.Sprintf("unknown type %q", n.Value))
		}
		if !kind.IsScalar() {
			return nil, parseError(n, path, fmt.Sprintf("%s needs an item type", kind))
		}
		return leaf(kind), nil

	case yaml.MappingNode:
		if len(n.Content) != 2 {
			return nil, parseError(n, path, "container type must have exactly one key (set, list or struct)")
		}
		key, val := n.Content[0], n.Content[1]
		kind, ok := kindByName[strings.ToLower(key.Value)]
		if !ok || kind.IsScalar() {
			return nil, parseError(key, path, fmt.Sprintf("unknown container %q", key.Value))
		}
		switch kind {
		case KindSet:
			item, err := parseType(val, appendPath(path, "[elem]"))
			if err != nil {
				return nil, err
			}
			s, err := NewSet(item)
			if err != nil {
				return nil, errors.WithPath(err, path...)
			}
			return s, nil
		case KindList:
			item, err := parseType(val, appendPath(path, "[elem]"))
			if err != nil {
				return nil, err
			}
			return NewList(item)
		default:
			return parseFields(val, path)
		}

	case yaml.AliasNode:
		return parseType(n.Alias, path)

	default:
		return nil, parseError(n, path, "expected a type name or a container mapping")
	}
}

func leaf(k Kind) Type {
	switch k {
	case KindInteger:
		return Integer()
	case KindFloat:
		return Float()
	case KindString:
		return String()
	case KindBinary:
		return Binary()
	case KindBool:
		return Bool()
	default:
		return Null()
	}
}

func parseError(n *yaml.Node, path []string, detail string) error {
	return errors.New(errors.PhaseParse, errors.KindInvalidData).
		Path(path...).
		Detail("line %d: %s", n.Line, detail).
		Build()
}

// Format renders s as a schema document accepted by Parse.
func Format(s *Struct) ([]byte, error) {
	out, err := yaml.Marshal(fieldsNode(s))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseParse, errors.KindInvalidData, err, "format schema")
	}
	return out, nil
}

func fieldsNode(s *Struct) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range s.Fields {
		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: f.Name},
			typeNode(f.Type),
		)
	}
	return n
}

func typeNode(t Type) *yaml.Node {
	container := func(name string, val *yaml.Node) *yaml.Node {
		return &yaml.Node{
			Kind:  yaml.MappingNode,
			Style: flowStyle(val),
			Content: []*yaml.Node{
				{Kind: yaml.ScalarNode, Value: name},
				val,
			},
		}
	}
	switch n := t.(type) {
	case *Set:
		return container("set", typeNode(n.Item))
	case *List:
		return container("list", typeNode(n.Item))
	case *Struct:
		return container("struct", fieldsNode(n))
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Value: t.String()}
	}
}

// flowStyle keeps one-line containers such as {set: string} compact.
func flowStyle(val *yaml.Node) yaml.Style {
	if val.Kind == yaml.ScalarNode {
		return yaml.FlowStyle
	}
	return 0
}
