package codec

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/wippyai/avcodec/codec/internal/shape"
	"github.com/wippyai/avcodec/errors"
	"github.com/wippyai/avcodec/schema"
)

// Record is one row: a map from top-level field name to value.
type Record = map[string]any

// Direction selects which way a transform converts.
type Direction uint8

const (
	// Encode converts plain values into tagged values.
	Encode Direction = iota
	// Decode converts tagged values into plain values.
	Decode
)

func (d Direction) String() string {
	switch d {
	case Encode:
		return "encode"
	case Decode:
		return "decode"
	default:
		return "unknown"
	}
}

// Input is the form of the records a direction consumes.
func (d Direction) Input() Form {
	if d == Decode {
		return Tagged
	}
	return Plain
}

// Output is the form of the records a direction produces.
func (d Direction) Output() Form {
	if d == Decode {
		return Plain
	}
	return Tagged
}

func (d Direction) phase() errors.Phase {
	if d == Decode {
		return errors.PhaseDecode
	}
	return errors.PhaseEncode
}

// Form names the two record representations.
type Form uint8

const (
	Plain Form = iota
	Tagged
)

func (f Form) String() string {
	if f == Tagged {
		return "tagged"
	}
	return "plain"
}

// DataType returns the column type of a node in form f.
func (f Form) DataType(t schema.Type) arrow.DataType {
	if f == Tagged {
		return shape.Tagged(t)
	}
	return shape.Plain(t)
}

// Schema returns the table layout of root in form f.
func (f Form) Schema(root *schema.Struct) *arrow.Schema {
	if f == Tagged {
		return shape.TaggedSchema(root)
	}
	return shape.PlainSchema(root)
}

// phase is the error phase for malformed input records of form f.
func (f Form) phase() errors.Phase {
	if f == Tagged {
		return errors.PhaseDecode
	}
	return errors.PhaseEncode
}

// columnFunc converts one column into a new column. The result is owned
// by the caller.
type columnFunc func(mem memory.Allocator, in arrow.Array) (arrow.Array, error)
