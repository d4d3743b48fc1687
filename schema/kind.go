package schema

type Kind uint8

const (
	KindInteger Kind = iota
	KindFloat
	KindString
	KindBinary
	KindBool
	KindNull
	KindSet
	KindList
	KindStruct
)

var kindNames = [...]string{
	KindInteger: "integer",
	KindFloat:   "float",
	KindString:  "string",
	KindBinary:  "binary",
	KindBool:    "bool",
	KindNull:    "null",
	KindSet:     "set",
	KindList:    "list",
	KindStruct:  "struct",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsScalar reports whether k is a leaf type.
func (k Kind) IsScalar() bool {
	return k <= KindNull
}

// IsSetItem reports whether k may appear as the item type of a Set.
func (k Kind) IsSetItem() bool {
	switch k {
	case KindString, KindInteger, KindFloat, KindBinary:
		return true
	default:
		return false
	}
}

// kindByName resolves schema document names, including common aliases.
var kindByName = map[string]Kind{
	"integer": KindInteger,
	"int":     KindInteger,
	"float":   KindFloat,
	"number":  KindFloat,
	"string":  KindString,
	"str":     KindString,
	"binary":  KindBinary,
	"bytes":   KindBinary,
	"bool":    KindBool,
	"boolean": KindBool,
	"null":    KindNull,
	"set":     KindSet,
	"list":    KindList,
	"struct":  KindStruct,
	"map":     KindStruct,
}
