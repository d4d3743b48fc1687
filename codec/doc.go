// Package codec converts batches of records between plain values and
// tagged attribute values.
//
// A tagged value is a single-key map whose key names the logical type:
//
//	{"N": "3.14"}             number, as decimal text
//	{"S": "hello"}            string
//	{"B": "AQID"}             binary, as base64 text
//	{"BOOL": true}            boolean
//	{"NULL": true}            null, for any schema node
//	{"SS": ["a", "b"]}        string set (NS and BS for numbers, binary)
//	{"L": [{"N": "1"}]}       list of tagged values
//	{"M": {"k": {"S": "v"}}}  map of field name to tagged value
//
// # Pipeline
//
// Conversion is columnar. A batch goes through four stages:
//
//  1. BuildTable transposes records into one Arrow column per top-level
//     field, shaped by the input form.
//  2. Compiler.Compile turns each field's schema node into a Transform.
//     Transforms are cached per node, field name and direction.
//  3. Transform.Apply rewrites each column into the output form.
//     Columns are independent and run in parallel.
//  4. Flatten turns the output columns back into records.
//
// # Column Shapes
//
//	Schema          Plain            Tagged
//	───────────────────────────────────────────────────────────
//	integer         int64            struct{N: utf8, NULL: bool}
//	float           float64          struct{N: utf8, NULL: bool}
//	string          utf8             struct{S: utf8, NULL: bool}
//	binary          binary           struct{B: utf8, NULL: bool}
//	bool            bool             struct{BOOL: bool, NULL: bool}
//	null            null             struct{NULL: bool}
//	set<x>          list<x>          struct{SS|NS|BS: list<utf8>, NULL: bool}
//	list<x>         list<x>          struct{L: list<tagged x>, NULL: bool}
//	struct{...}     struct{...}      struct{M: struct{tagged ...}, NULL: bool}
//
// Encoding fills null slots with a placeholder before casting, then sets
// the NULL field wherever the input was null. The null tag always wins.
//
// # Usage
//
//	e := codec.NewWithDefaults()
//	tagged, err := e.Serialize(records, s)
//	plain, err := e.Deserialize(tagged, s)
package codec
