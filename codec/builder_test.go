package codec

import (
	"reflect"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/wippyai/avcodec/codec/internal/shape"
	"github.com/wippyai/avcodec/errors"
	"github.com/wippyai/avcodec/schema"
)

func TestBuildTablePlain(t *testing.T) {
	root := schema.MustStruct(
		schema.F("id", schema.String()),
		schema.F("n", schema.Integer()),
		schema.F("xs", schema.MustList(schema.Float())),
	)
	records := []Record{
		{"id": "a", "n": 1, "xs": []any{1.5, nil}},
		{"id": "b"},
		nil,
	}

	tbl, err := BuildTable(memory.DefaultAllocator, records, root, Plain)
	if err != nil {
		t.Fatal(err)
	}
	defer tbl.Release()

	if tbl.Rows != 3 || len(tbl.Columns) != 3 {
		t.Fatalf("rows %d, columns %d", tbl.Rows, len(tbl.Columns))
	}
	for i, f := range root.Fields {
		if !shape.Equal(tbl.Columns[i].DataType(), shape.Plain(f.Type)) {
			t.Errorf("%s: %s", f.Name, tbl.Columns[i].DataType())
		}
	}

	ids := tbl.Columns[0].(*array.String)
	if ids.Value(0) != "a" || ids.Value(1) != "b" || ids.IsValid(2) {
		t.Errorf("ids = %v", ids)
	}
	ns := tbl.Columns[1].(*array.Int64)
	if ns.Value(0) != 1 || ns.IsValid(1) || ns.IsValid(2) {
		t.Errorf("ns = %v", ns)
	}
	xs := tbl.Columns[2].(*array.List)
	if xs.NullN() != 2 || xs.ListValues().Len() != 2 || xs.ListValues().NullN() != 1 {
		t.Errorf("xs = %v", xs)
	}
}

func TestBuildTableTagged(t *testing.T) {
	root := schema.MustStruct(
		schema.F("m", schema.MustStruct(schema.F("k", schema.String()))),
	)
	tbl, err := BuildTable(nil, []Record{
		{"m": tM(map[string]any{"k": tS("v")})},
		{"m": null},
		{},
	}, root, Tagged)
	if err != nil {
		t.Fatal(err)
	}
	defer tbl.Release()

	st := tbl.Columns[0].(*array.Struct)
	if st.NullN() != 1 || !st.IsNull(2) {
		t.Errorf("absent field should be the only null struct, got %d nulls", st.NullN())
	}
	flags := st.Field(1).(*array.Boolean)
	if !flags.IsValid(1) || !flags.Value(1) || flags.IsValid(0) {
		t.Error("NULL flags misplaced")
	}
	members := st.Field(0).(*array.Struct)
	if members.IsValid(1) || !members.IsValid(0) {
		t.Error("M payload validity wrong")
	}
}

func TestBuildTableErrorPhase(t *testing.T) {
	root := schema.MustStruct(schema.F("n", schema.Integer()))

	_, err := BuildTable(nil, []Record{{"n": "x"}}, root, Plain)
	if !errors.IsEncode(err) {
		t.Errorf("plain input: %v", err)
	}
	_, err = BuildTable(nil, []Record{{"n": "x"}}, root, Tagged)
	if !errors.IsDecode(err) {
		t.Errorf("tagged input: %v", err)
	}
}

func TestFlatten(t *testing.T) {
	root := schema.MustStruct(
		schema.F("s", schema.String()),
		schema.F("set", schema.MustSet(schema.Integer())),
		schema.F("m", schema.MustStruct(schema.F("b", schema.Bool()), schema.F("z", schema.Null()))),
	)
	plain := []Record{
		{"s": "x", "set": []any{int64(3), int64(1)}, "m": map[string]any{"b": true, "z": nil}},
		{"s": nil, "set": nil, "m": nil},
	}

	for _, form := range []Form{Plain, Tagged} {
		t.Run(form.String(), func(t *testing.T) {
			var in []Record
			if form == Plain {
				in = plain
			} else {
				in = []Record{
					{"s": tS("x"), "set": map[string]any{"NS": []any{"3", "1"}}, "m": tM(map[string]any{"b": map[string]any{"BOOL": true}, "z": null})},
					{"s": null, "set": null, "m": null},
				}
			}
			tbl, err := BuildTable(nil, in, root, form)
			if err != nil {
				t.Fatal(err)
			}
			defer tbl.Release()

			got := Flatten(tbl, root, form)
			if !reflect.DeepEqual(got, in) {
				t.Errorf("Flatten = %#v\nwant %#v", got, in)
			}
		})
	}
}

func TestNewTableValidation(t *testing.T) {
	root := schema.MustStruct(schema.F("n", schema.Integer()))
	s := Tagged.Schema(root)

	b := array.NewInt64Builder(memory.DefaultAllocator)
	b.Append(1)
	col := b.NewArray()
	b.Release()
	defer col.Release()

	if _, err := NewTable(s, nil, 0); err == nil {
		t.Error("column count not checked")
	}
	if _, err := NewTable(s, []arrow.Array{col}, 1); err == nil {
		t.Error("column shape not checked")
	}
	if _, err := NewTable(Plain.Schema(root), []arrow.Array{col}, 2); err == nil {
		t.Error("column length not checked")
	}
	if _, err := NewTable(Plain.Schema(root), []arrow.Array{col}, 1); err != nil {
		t.Errorf("valid table rejected: %v", err)
	}
}
