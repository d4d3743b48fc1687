package column

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/bitutil"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// AllValid is a validity function for columns without nulls.
func AllValid(int) bool { return true }

// Both returns a validity function that holds where a and b both hold.
func Both(a, b func(int) bool) func(int) bool {
	return func(i int) bool { return a(i) && b(i) }
}

// Validity builds a validity bitmap over n slots. The buffer is nil when
// every slot is valid.
func Validity(n int, valid func(int) bool) (*memory.Buffer, int) {
	bits := make([]byte, bitutil.BytesForBits(int64(n)))
	nulls := 0
	for i := 0; i < n; i++ {
		if valid(i) {
			bitutil.SetBit(bits, i)
		} else {
			nulls++
		}
	}
	if nulls == 0 {
		return nil, 0
	}
	return memory.NewBufferBytes(bits), nulls
}

// List assembles a list column over values. values must be index-aligned
// with src.ListValues(): slot i spans the same child range as in src.
// The caller keeps its reference to values.
func List(src *array.List, values arrow.Array, valid func(int) bool) *array.List {
	n := src.Len()
	offsets := make([]int32, n+1)
	for i := 0; i < n; i++ {
		start, end := src.ValueOffsets(i)
		offsets[i] = int32(start)
		offsets[i+1] = int32(end)
	}
	if n == 0 {
		offsets[0] = 0
	}

	validity, nulls := Validity(n, valid)
	data := array.NewData(
		arrow.ListOf(values.DataType()),
		n,
		[]*memory.Buffer{validity, memory.NewBufferBytes(arrow.Int32Traits.CastToBytes(offsets))},
		[]arrow.ArrayData{values.Data()},
		nulls,
		0,
	)
	defer data.Release()
	return array.NewListData(data)
}

// Struct assembles a struct column from equal-length children. The caller
// keeps its references to children.
func Struct(children []arrow.Array, names []string, valid func(int) bool) (*array.Struct, error) {
	n := 0
	if len(children) > 0 {
		n = children[0].Len()
	}
	validity, nulls := Validity(n, valid)
	return array.NewStructArrayWithNulls(children, names, validity, nulls, 0)
}

// NullFlags returns a boolean column holding true where valid is false
// and null elsewhere: the NULL field of a tagged struct.
func NullFlags(mem memory.Allocator, n int, valid func(int) bool) arrow.Array {
	b := array.NewBooleanBuilder(mem)
	defer b.Release()
	b.Reserve(n)
	for i := 0; i < n; i++ {
		if valid(i) {
			b.AppendNull()
		} else {
			b.Append(true)
		}
	}
	return b.NewArray()
}

// Release releases every non-nil column.
func Release(cols []arrow.Array) {
	for _, c := range cols {
		if c != nil {
			c.Release()
		}
	}
}
