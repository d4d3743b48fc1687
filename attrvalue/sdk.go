package attrvalue

import (
	"encoding/base64"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/wippyai/avcodec/errors"
)

// ToSDK converts a tagged record into SDK attribute values, ready for
// PutItem. Binary payloads are decoded from base64.
func ToSDK(record map[string]any) (map[string]types.AttributeValue, error) {
	out := make(map[string]types.AttributeValue, len(record))
	for name, v := range record {
		av, err := toSDK(v, []string{name})
		if err != nil {
			return nil, err
		}
		out[name] = av
	}
	return out, nil
}

// ToSDKItems converts a batch of tagged records.
func ToSDKItems(records []map[string]any) ([]map[string]types.AttributeValue, error) {
	out := make([]map[string]types.AttributeValue, len(records))
	for i, r := range records {
		item, err := ToSDK(r)
		if err != nil {
			return nil, errors.WithPath(err, "["+strconv.Itoa(i)+"]")
		}
		out[i] = item
	}
	return out, nil
}

func toSDK(v any, path []string) (types.AttributeValue, error) {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 1 {
		return nil, convertError(path, "tagged value must be a single-key map, got %T", v)
	}

	for key, payload := range m {
		tag, known := ParseTag(key)
		if !known {
			return nil, convertError(path, "unknown tag %q", key)
		}

		switch tag {
		case TagS:
			s, ok := payload.(string)
			if !ok {
				return nil, payloadError(path, tag, payload)
			}
			return &types.AttributeValueMemberS{Value: s}, nil

		case TagN:
			s, ok := numberString(payload)
			if !ok {
				return nil, payloadError(path, tag, payload)
			}
			return &types.AttributeValueMemberN{Value: s}, nil

		case TagB:
			b, err := binaryValue(payload, path)
			if err != nil {
				return nil, err
			}
			return &types.AttributeValueMemberB{Value: b}, nil

		case TagBOOL:
			b, ok := payload.(bool)
			if !ok {
				return nil, payloadError(path, tag, payload)
			}
			return &types.AttributeValueMemberBOOL{Value: b}, nil

		case TagNULL:
			b, ok := payload.(bool)
			if !ok || !b {
				return nil, payloadError(path, tag, payload)
			}
			return &types.AttributeValueMemberNULL{Value: true}, nil

		case TagSS, TagNS:
			items, ok := payload.([]any)
			if !ok {
				return nil, payloadError(path, tag, payload)
			}
			ss := make([]string, len(items))
			for i, e := range items {
				var s string
				if tag == TagNS {
					s, ok = numberString(e)
				} else {
					s, ok = e.(string)
				}
				if !ok {
					return nil, payloadError(sub(path, "["+strconv.Itoa(i)+"]"), tag, e)
				}
				ss[i] = s
			}
			if tag == TagNS {
				return &types.AttributeValueMemberNS{Value: ss}, nil
			}
			return &types.AttributeValueMemberSS{Value: ss}, nil

		case TagBS:
			items, ok := payload.([]any)
			if !ok {
				return nil, payloadError(path, tag, payload)
			}
			bs := make([][]byte, len(items))
			for i, e := range items {
				b, err := binaryValue(e, sub(path, "["+strconv.Itoa(i)+"]"))
				if err != nil {
					return nil, err
				}
				bs[i] = b
			}
			return &types.AttributeValueMemberBS{Value: bs}, nil

		case TagL:
			items, ok := payload.([]any)
			if !ok {
				return nil, payloadError(path, tag, payload)
			}
			l := make([]types.AttributeValue, len(items))
			for i, e := range items {
				av, err := toSDK(e, sub(path, "["+strconv.Itoa(i)+"]"))
				if err != nil {
					return nil, err
				}
				l[i] = av
			}
			return &types.AttributeValueMemberL{Value: l}, nil

		case TagM:
			members, ok := payload.(map[string]any)
			if !ok {
				return nil, payloadError(path, tag, payload)
			}
			mv := make(map[string]types.AttributeValue, len(members))
			for name, e := range members {
				av, err := toSDK(e, sub(path, name))
				if err != nil {
					return nil, err
				}
				mv[name] = av
			}
			return &types.AttributeValueMemberM{Value: mv}, nil
		}
	}
	return nil, convertError(path, "empty tagged value")
}

// FromSDK converts SDK attribute values, as returned by GetItem or Scan,
// into a tagged record. Binary values are encoded as base64.
func FromSDK(item map[string]types.AttributeValue) (map[string]any, error) {
	out := make(map[string]any, len(item))
	for name, av := range item {
		v, err := fromSDK(av, []string{name})
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

// FromSDKItems converts a batch of SDK items.
func FromSDKItems(items []map[string]types.AttributeValue) ([]map[string]any, error) {
	out := make([]map[string]any, len(items))
	for i, item := range items {
		r, err := FromSDK(item)
		if err != nil {
			return nil, errors.WithPath(err, "["+strconv.Itoa(i)+"]")
		}
		out[i] = r
	}
	return out, nil
}

func fromSDK(av types.AttributeValue, path []string) (map[string]any, error) {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return tagged(TagS, v.Value), nil
	case *types.AttributeValueMemberN:
		return tagged(TagN, v.Value), nil
	case *types.AttributeValueMemberB:
		return tagged(TagB, base64.StdEncoding.EncodeToString(v.Value)), nil
	case *types.AttributeValueMemberBOOL:
		return tagged(TagBOOL, v.Value), nil
	case *types.AttributeValueMemberNULL:
		return Null(), nil
	case *types.AttributeValueMemberSS:
		return tagged(TagSS, stringsToAny(v.Value)), nil
	case *types.AttributeValueMemberNS:
		return tagged(TagNS, stringsToAny(v.Value)), nil
	case *types.AttributeValueMemberBS:
		items := make([]any, len(v.Value))
		for i, b := range v.Value {
			items[i] = base64.StdEncoding.EncodeToString(b)
		}
		return tagged(TagBS, items), nil
	case *types.AttributeValueMemberL:
		items := make([]any, len(v.Value))
		for i, e := range v.Value {
			t, err := fromSDK(e, sub(path, "["+strconv.Itoa(i)+"]"))
			if err != nil {
				return nil, err
			}
			items[i] = t
		}
		return tagged(TagL, items), nil
	case *types.AttributeValueMemberM:
		members := make(map[string]any, len(v.Value))
		for name, e := range v.Value {
			t, err := fromSDK(e, sub(path, name))
			if err != nil {
				return nil, err
			}
			members[name] = t
		}
		return tagged(TagM, members), nil
	default:
		return nil, errors.New(errors.PhaseConvert, errors.KindUnsupported).
			Path(path...).
			GoType(fmt.Sprintf("%T", av)).
			Detail("unsupported attribute value").
			Build()
	}
}

func tagged(tag Tag, v any) map[string]any {
	return map[string]any{string(tag): v}
}

func stringsToAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func numberString(v any) (string, bool) {
	switch n := v.(type) {
	case string:
		return n, true
	case fmt.Stringer:
		return n.String(), true
	}
	return "", false
}

func binaryValue(v any, path []string) ([]byte, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case string:
		data, err := base64.StdEncoding.DecodeString(b)
		if err != nil {
			return nil, errors.InvalidBase64(errors.PhaseConvert, path, err)
		}
		return data, nil
	}
	return nil, payloadError(path, TagB, v)
}

func convertError(path []string, format string, args ...any) error {
	return errors.New(errors.PhaseConvert, errors.KindInvalidData).
		Path(path...).
		Detail(format, args...).
		Build()
}

func payloadError(path []string, tag Tag, v any) error {
	return errors.New(errors.PhaseConvert, errors.KindTypeMismatch).
		Path(path...).
		GoType(fmt.Sprintf("%T", v)).
		Value(v).
		Detail("unexpected %s payload", tag).
		Build()
}

func sub(path []string, seg string) []string {
	return append(append(make([]string, 0, len(path)+1), path...), seg)
}
