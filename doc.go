// Package avcodec converts records between plain Go values and DynamoDB
// style tagged attribute values, driven by a schema.
//
// The library is organized into several packages:
//
//	avcodec/           Serialize and Deserialize on a shared engine
//	├── schema/        Type tree, validation and YAML schema files
//	├── codec/         Transform compiler and columnar batch engine
//	├── attrvalue/     Wire tags and AWS SDK attribute value bridge
//	├── ndjson/        Record streams, optionally compressed
//	├── errors/        Structured error types
//	└── cmd/avcodec/   Command line tool
//
// # Quick Start
//
//	s := schema.MustStruct(
//		schema.F("id", schema.String()),
//		schema.F("price", schema.Float()),
//		schema.F("tags", schema.MustSet(schema.String())),
//	)
//
//	tagged, err := avcodec.Serialize([]avcodec.Record{
//		{"id": "a1", "price": 9.5, "tags": []any{"x"}},
//	}, s)
//	// tagged[0]["price"] == map[string]any{"N": "9.5"}
//
//	plain, err := avcodec.Deserialize(tagged, s)
//	// plain[0]["price"] == 9.5
//
// Each call converts a whole batch column by column. Use codec.New to
// tune worker count or the Arrow allocator.
package avcodec
