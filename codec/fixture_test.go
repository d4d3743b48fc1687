package codec

import (
	"github.com/wippyai/avcodec/schema"
)

func pair() *schema.Struct {
	return schema.MustStruct(
		schema.F("a_int", schema.Integer()),
		schema.F("a_str", schema.String()),
	)
}

func fixtureSchema() *schema.Struct {
	return schema.MustStruct(
		schema.F("id", schema.String()),
		schema.F("a_str", schema.String()),
		schema.F("a_int", schema.Integer()),
		schema.F("a_float", schema.Float()),
		schema.F("a_binary", schema.Binary()),
		schema.F("a_bool", schema.Bool()),
		schema.F("a_null", schema.Null()),
		schema.F("a_str_set", schema.MustSet(schema.String())),
		schema.F("a_int_set", schema.MustSet(schema.Integer())),
		schema.F("a_float_set", schema.MustSet(schema.Float())),
		schema.F("a_binary_set", schema.MustSet(schema.Binary())),
		schema.F("a_str_list", schema.MustList(schema.String())),
		schema.F("a_int_list", schema.MustList(schema.Integer())),
		schema.F("a_float_list", schema.MustList(schema.Float())),
		schema.F("a_binary_list", schema.MustList(schema.Binary())),
		schema.F("a_struct", schema.MustStruct(
			schema.F("a_str", schema.String()),
			schema.F("a_int", schema.Integer()),
			schema.F("a_float", schema.Float()),
			schema.F("a_binary", schema.Binary()),
			schema.F("a_bool", schema.Bool()),
			schema.F("a_null", schema.Null()),
		)),
		schema.F("a_list_of_struct", schema.MustList(pair())),
		schema.F("a_list_of_list_of_struct", schema.MustList(schema.MustList(pair()))),
		schema.F("a_struct_of_list", schema.MustStruct(
			schema.F("a_str_list", schema.MustList(schema.String())),
			schema.F("a_int_list", schema.MustList(schema.Integer())),
		)),
		schema.F("a_struct_of_struct_of_list", schema.MustStruct(
			schema.F("struct_1", schema.MustStruct(
				schema.F("a_str_list1", schema.MustList(schema.String())),
				schema.F("a_int_list1", schema.MustList(schema.Integer())),
			)),
			schema.F("struct_2", schema.MustStruct(
				schema.F("a_str_list2", schema.MustList(schema.String())),
				schema.F("a_int_list2", schema.MustList(schema.Integer())),
			)),
		)),
	)
}

func tS(v string) map[string]any          { return map[string]any{"S": v} }
func tN(v string) map[string]any          { return map[string]any{"N": v} }
func tB(v string) map[string]any          { return map[string]any{"B": v} }
func tL(v ...any) map[string]any          { return map[string]any{"L": v} }
func tM(v map[string]any) map[string]any { return map[string]any{"M": v} }

var null = map[string]any{"NULL": true}

func taggedPair(i, name string) map[string]any {
	return tM(map[string]any{"a_int": tN(i), "a_str": tS(name)})
}

func plainPair(i int64, name string) map[string]any {
	return map[string]any{"a_int": i, "a_str": name}
}

func fixtureTagged() Record {
	return Record{
		"id":            tS("id-1"),
		"a_str":         tS("alice"),
		"a_int":         tN("123"),
		"a_float":       tN("3.14"),
		"a_binary":      tB("aGVsbG8="),
		"a_bool":        map[string]any{"BOOL": false},
		"a_null":        null,
		"a_str_set":     map[string]any{"SS": []any{"a", "b", "c"}},
		"a_int_set":     map[string]any{"NS": []any{"1", "2", "3"}},
		"a_float_set":   map[string]any{"NS": []any{"1.1", "2.2", "3.3"}},
		"a_binary_set":  map[string]any{"BS": []any{"aGVsbG8=", "d29ybGQ="}},
		"a_str_list":    tL(tS("a"), tS("b"), tS("c")),
		"a_int_list":    tL(tN("1"), tN("2"), tN("3")),
		"a_float_list":  tL(tN("1.1"), tN("2.2"), tN("3.3")),
		"a_binary_list": tL(tB("aGVsbG8="), tB("d29ybGQ=")),
		"a_struct": tM(map[string]any{
			"a_str":    tS("alice"),
			"a_int":    tN("123"),
			"a_float":  tN("3.14"),
			"a_binary": tB("aGVsbG8="),
			"a_bool":   map[string]any{"BOOL": false},
			"a_null":   null,
		}),
		"a_list_of_struct": tL(taggedPair("123", "alice"), taggedPair("456", "bob")),
		"a_list_of_list_of_struct": tL(
			tL(taggedPair("123", "alice"), taggedPair("456", "bob")),
			tL(taggedPair("789", "cathy"), taggedPair("101112", "david")),
		),
		"a_struct_of_list": tM(map[string]any{
			"a_str_list": tL(tS("a"), tS("b"), tS("c")),
			"a_int_list": tL(tN("1"), tN("2"), tN("3")),
		}),
		"a_struct_of_struct_of_list": tM(map[string]any{
			"struct_1": tM(map[string]any{
				"a_str_list1": tL(tS("a"), tS("b"), tS("c")),
				"a_int_list1": tL(tN("1"), tN("2"), tN("3")),
			}),
			"struct_2": tM(map[string]any{
				"a_str_list2": tL(tS("d"), tS("e"), tS("f")),
				"a_int_list2": tL(tN("4"), tN("5"), tN("6")),
			}),
		}),
	}
}

func fixturePlain() Record {
	hello, world := []byte("hello"), []byte("world")
	return Record{
		"id":            "id-1",
		"a_str":         "alice",
		"a_int":         int64(123),
		"a_float":       3.14,
		"a_binary":      hello,
		"a_bool":        false,
		"a_null":        nil,
		"a_str_set":     []any{"a", "b", "c"},
		"a_int_set":     []any{int64(1), int64(2), int64(3)},
		"a_float_set":   []any{1.1, 2.2, 3.3},
		"a_binary_set":  []any{hello, world},
		"a_str_list":    []any{"a", "b", "c"},
		"a_int_list":    []any{int64(1), int64(2), int64(3)},
		"a_float_list":  []any{1.1, 2.2, 3.3},
		"a_binary_list": []any{hello, world},
		"a_struct": map[string]any{
			"a_str":    "alice",
			"a_int":    int64(123),
			"a_float":  3.14,
			"a_binary": hello,
			"a_bool":   false,
			"a_null":   nil,
		},
		"a_list_of_struct": []any{plainPair(123, "alice"), plainPair(456, "bob")},
		"a_list_of_list_of_struct": []any{
			[]any{plainPair(123, "alice"), plainPair(456, "bob")},
			[]any{plainPair(789, "cathy"), plainPair(101112, "david")},
		},
		"a_struct_of_list": map[string]any{
			"a_str_list": []any{"a", "b", "c"},
			"a_int_list": []any{int64(1), int64(2), int64(3)},
		},
		"a_struct_of_struct_of_list": map[string]any{
			"struct_1": map[string]any{
				"a_str_list1": []any{"a", "b", "c"},
				"a_int_list1": []any{int64(1), int64(2), int64(3)},
			},
			"struct_2": map[string]any{
				"a_str_list2": []any{"d", "e", "f"},
				"a_int_list2": []any{int64(4), int64(5), int64(6)},
			},
		},
	}
}
