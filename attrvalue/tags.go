package attrvalue

import (
	"github.com/wippyai/avcodec/schema"
)

// Tag is the single key of a tagged value naming its logical type.
type Tag string

const (
	TagN    Tag = "N"    // decimal string
	TagS    Tag = "S"    // string
	TagB    Tag = "B"    // base64 string
	TagBOOL Tag = "BOOL" // boolean
	TagNULL Tag = "NULL" // always true
	TagSS   Tag = "SS"   // string set
	TagNS   Tag = "NS"   // number set, decimal strings
	TagBS   Tag = "BS"   // binary set, base64 strings
	TagL    Tag = "L"    // list of tagged values
	TagM    Tag = "M"    // map of name to tagged value
)

var knownTags = map[string]Tag{
	"N": TagN, "S": TagS, "B": TagB, "BOOL": TagBOOL, "NULL": TagNULL,
	"SS": TagSS, "NS": TagNS, "BS": TagBS, "L": TagL, "M": TagM,
}

func (t Tag) String() string { return string(t) }

// ParseTag resolves a tagged value key.
func ParseTag(s string) (Tag, bool) {
	t, ok := knownTags[s]
	return t, ok
}

// IsSet reports whether t carries a flat sequence of raw scalar text.
func (t Tag) IsSet() bool {
	return t == TagSS || t == TagNS || t == TagBS
}

// For returns the tag the schema node encodes under. The Null leaf
// encodes under TagNULL. Set items other than string, integer, float and
// binary have no tag and return ok=false.
func For(t schema.Type) (Tag, bool) {
	switch n := t.(type) {
	case schema.IntegerType, schema.FloatType:
		return TagN, true
	case schema.StringType:
		return TagS, true
	case schema.BinaryType:
		return TagB, true
	case schema.BoolType:
		return TagBOOL, true
	case schema.NullType:
		return TagNULL, true
	case *schema.Set:
		switch n.Item.(type) {
		case schema.StringType:
			return TagSS, true
		case schema.IntegerType, schema.FloatType:
			return TagNS, true
		case schema.BinaryType:
			return TagBS, true
		}
		return "", false
	case *schema.List:
		return TagL, true
	case *schema.Struct:
		return TagM, true
	default:
		return "", false
	}
}

// Null is the universal null tagged value.
func Null() map[string]any {
	return map[string]any{string(TagNULL): true}
}
