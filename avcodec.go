package avcodec

import (
	"sync"

	"github.com/wippyai/avcodec/codec"
	"github.com/wippyai/avcodec/schema"
)

// Record is one row: a map from top-level field name to value.
type Record = codec.Record

var (
	defaultEngine *codec.Engine
	engineOnce    sync.Once
)

// Default returns the engine shared by Serialize and Deserialize.
func Default() *codec.Engine {
	engineOnce.Do(func() {
		defaultEngine = codec.NewWithDefaults()
	})
	return defaultEngine
}

// Serialize converts plain records into tagged attribute-value records.
// Every output record carries every top-level field of s; nil and absent
// values become {"NULL": true}. Any failing record fails the batch.
func Serialize(records []Record, s *schema.Struct) ([]Record, error) {
	return Default().Serialize(records, s)
}

// Deserialize converts tagged attribute-value records into plain records.
// Absent fields and {"NULL": true} become nil.
func Deserialize(records []Record, s *schema.Struct) ([]Record, error) {
	return Default().Deserialize(records, s)
}
