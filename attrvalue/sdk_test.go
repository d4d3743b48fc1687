package attrvalue

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/wippyai/avcodec/errors"
)

func sampleTagged() map[string]any {
	return map[string]any{
		"id":    map[string]any{"S": "id-1"},
		"n":     map[string]any{"N": "3.14"},
		"bin":   map[string]any{"B": "aGVsbG8="},
		"ok":    map[string]any{"BOOL": true},
		"none":  map[string]any{"NULL": true},
		"ss":    map[string]any{"SS": []any{"a", "b"}},
		"ns":    map[string]any{"NS": []any{"1", "2.5"}},
		"bs":    map[string]any{"BS": []any{"aGVsbG8=", "d29ybGQ="}},
		"list":  map[string]any{"L": []any{map[string]any{"N": "1"}, map[string]any{"NULL": true}}},
		"empty": map[string]any{"L": []any{}},
		"m": map[string]any{"M": map[string]any{
			"inner": map[string]any{"S": "x"},
		}},
	}
}

func TestToSDK(t *testing.T) {
	item, err := ToSDK(sampleTagged())
	if err != nil {
		t.Fatal(err)
	}

	if v, ok := item["id"].(*types.AttributeValueMemberS); !ok || v.Value != "id-1" {
		t.Errorf("id = %#v", item["id"])
	}
	if v, ok := item["bin"].(*types.AttributeValueMemberB); !ok || string(v.Value) != "hello" {
		t.Errorf("bin = %#v", item["bin"])
	}
	if v, ok := item["bs"].(*types.AttributeValueMemberBS); !ok || len(v.Value) != 2 || string(v.Value[1]) != "world" {
		t.Errorf("bs = %#v", item["bs"])
	}
	if v, ok := item["ns"].(*types.AttributeValueMemberNS); !ok || !reflect.DeepEqual(v.Value, []string{"1", "2.5"}) {
		t.Errorf("ns = %#v", item["ns"])
	}
	l, ok := item["list"].(*types.AttributeValueMemberL)
	if !ok || len(l.Value) != 2 {
		t.Fatalf("list = %#v", item["list"])
	}
	if _, ok := l.Value[1].(*types.AttributeValueMemberNULL); !ok {
		t.Errorf("list[1] = %#v", l.Value[1])
	}
	m, ok := item["m"].(*types.AttributeValueMemberM)
	if !ok {
		t.Fatalf("m = %#v", item["m"])
	}
	if v, ok := m.Value["inner"].(*types.AttributeValueMemberS); !ok || v.Value != "x" {
		t.Errorf("m.inner = %#v", m.Value["inner"])
	}
}

func TestSDKRoundTrip(t *testing.T) {
	in := sampleTagged()
	item, err := ToSDK(in)
	if err != nil {
		t.Fatal(err)
	}
	back, err := FromSDK(item)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back, in) {
		t.Errorf("round trip = %#v\nwant %#v", back, in)
	}
}

func TestSDKItems(t *testing.T) {
	items, err := ToSDKItems([]map[string]any{sampleTagged(), {"k": map[string]any{"S": "v"}}})
	if err != nil {
		t.Fatal(err)
	}
	back, err := FromSDKItems(items)
	if err != nil {
		t.Fatal(err)
	}
	if len(back) != 2 || !reflect.DeepEqual(back[1], map[string]any{"k": map[string]any{"S": "v"}}) {
		t.Errorf("FromSDKItems = %#v", back)
	}

	_, err = ToSDKItems([]map[string]any{{}, {"k": "raw"}})
	if err == nil || !strings.Contains(err.Error(), "[1].k") {
		t.Errorf("err = %v, want path [1].k", err)
	}
}

func TestToSDKNumberForms(t *testing.T) {
	item, err := ToSDK(map[string]any{"n": map[string]any{"N": json.Number("42")}})
	if err != nil {
		t.Fatal(err)
	}
	if v := item["n"].(*types.AttributeValueMemberN); v.Value != "42" {
		t.Errorf("n = %q", v.Value)
	}
}

func TestToSDKErrors(t *testing.T) {
	tests := []struct {
		name string
		v    any
		kind errors.Kind
	}{
		{"not_map", "x", errors.KindInvalidData},
		{"two_keys", map[string]any{"S": "a", "N": "1"}, errors.KindInvalidData},
		{"unknown_tag", map[string]any{"X": "a"}, errors.KindInvalidData},
		{"number_payload", map[string]any{"N": 1.5}, errors.KindTypeMismatch},
		{"null_false", map[string]any{"NULL": false}, errors.KindTypeMismatch},
		{"bad_base64", map[string]any{"B": "!!"}, errors.KindInvalidBase64},
		{"set_member", map[string]any{"SS": []any{"a", 1}}, errors.KindTypeMismatch},
		{"nested", map[string]any{"L": []any{map[string]any{"BOOL": "yes"}}}, errors.KindTypeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToSDK(map[string]any{"f": tt.v})
			p, _ := errors.PhaseOf(err)
			if p != errors.PhaseConvert {
				t.Fatalf("err = %v, want convert error", err)
			}
			if !strings.Contains(err.Error(), string(tt.kind)) {
				t.Errorf("err = %v, want kind %s", err, tt.kind)
			}
		})
	}
}

type unknownAV struct{ types.AttributeValue }

func TestFromSDKUnsupported(t *testing.T) {
	_, err := FromSDK(map[string]types.AttributeValue{"x": unknownAV{}})
	if p, _ := errors.PhaseOf(err); p != errors.PhaseConvert {
		t.Errorf("err = %v", err)
	}
}
