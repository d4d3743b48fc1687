package schema

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/wippyai/avcodec/errors"
)

const orderSchema = `
CustomerID: string
OrderID: string
Status: string
Items:
  list:
    struct:
      Name: string
      Price: float
      Quantity: int
AppliedCoupons: {set: string}
ShippingAddress:
  struct:
    City: string
    ZipCode: string
TotalAmount: number
Thumbnail: bytes
GiftWrap: boolean
Legacy: null
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(orderSchema))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	wantNames := []string{
		"CustomerID", "OrderID", "Status", "Items", "AppliedCoupons",
		"ShippingAddress", "TotalAmount", "Thumbnail", "GiftWrap", "Legacy",
	}
	if !reflect.DeepEqual(s.Names(), wantNames) {
		t.Errorf("Names() = %v, want %v", s.Names(), wantNames)
	}

	items, _ := s.Lookup("Items")
	if items.Type.String() != "list<struct{Name: string, Price: float, Quantity: integer}>" {
		t.Errorf("Items = %s", items.Type)
	}
	coupons, _ := s.Lookup("AppliedCoupons")
	if coupons.Type.String() != "set<string>" {
		t.Errorf("AppliedCoupons = %s", coupons.Type)
	}
	legacy, _ := s.Lookup("Legacy")
	if legacy.Type.Kind() != KindNull {
		t.Errorf("Legacy = %s", legacy.Type)
	}
	thumb, _ := s.Lookup("Thumbnail")
	if thumb.Type.Kind() != KindBinary {
		t.Errorf("Thumbnail = %s", thumb.Type)
	}
}

func TestParseJSON(t *testing.T) {
	s, err := Parse([]byte(`{"z": "integer", "a": {"list": {"set": "binary"}}}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if s.String() != "struct{z: integer, a: list<set<binary>>}" {
		t.Errorf("got %s", s)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		schema bool
		want   string
	}{
		{"empty", "", false, "empty schema document"},
		{"not a mapping", "- a\n- b\n", false, "expected a mapping"},
		{"unknown leaf", "a: decimal\n", false, `unknown type "decimal"`},
		{"bare container", "a: list\n", false, "needs an item type"},
		{"two keys", "a: {list: int, set: int}\n", false, "exactly one key"},
		{"unknown container", "a: {tuple: int}\n", false, `unknown container "tuple"`},
		{"set of list", "a: {set: {list: int}}\n", true, "set items"},
		{"set of bool", "a: {set: bool}\n", true, "set items"},
		{"empty struct", "a: {struct: {}}\n", true, "at least one field"},
		{"sequence type", "a: [int]\n", false, "expected a type name"},
		{"bad yaml", "a: {b\n", false, "parse schema"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.IsSchema(err) != tt.schema {
				t.Errorf("IsSchema = %v, want %v (%v)", errors.IsSchema(err), tt.schema, err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestParseErrorPath(t *testing.T) {
	_, err := Parse([]byte("outer:\n  struct:\n    inner: {set: {struct: {x: int}}}\n"))
	e, ok := err.(*errors.Error)
	if !ok {
		t.Fatalf("expected *errors.Error, got %T", err)
	}
	if got := errors.JoinPath(e.Path); got != "outer.inner" {
		t.Errorf("path = %q, want outer.inner", got)
	}
}

func TestFormatRoundTrip(t *testing.T) {
	s, err := Parse([]byte(orderSchema))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	out, err := Format(s)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	again, err := Parse(out)
	if err != nil {
		t.Fatalf("Parse(Format) failed: %v\n%s", err, out)
	}
	if again.String() != s.String() {
		t.Errorf("round trip changed schema:\n%s\n%s", s, again)
	}
	if !strings.Contains(string(out), "{set: string}") {
		t.Errorf("set should render in flow style:\n%s", out)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	if err := os.WriteFile(path, []byte("id: string\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.String() != "struct{id: string}" {
		t.Errorf("got %s", s)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load of missing file should fail")
	}
}
