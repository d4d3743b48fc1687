// Package errors provides structured error types for the avcodec module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, Go/schema type names, and cause chain.
//
// The phases map onto the three caller-facing failure classes:
//
//	PhaseSchema  malformed type tree, raised at construction or compile time
//	PhaseDecode  tagged input inconsistent with the schema
//	PhaseEncode  plain input inconsistent with the schema
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
//		Path("orders", "[3]", "total").
//		GoType("string").
//		SchemaType("float").
//		Detail("cannot convert string to number").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.TypeMismatch(errors.PhaseEncode, path, "string", "integer")
//	err := errors.TagMismatch(path, "S", "N")
//
// All errors implement the standard error interface and support errors.Is/As.
// IsSchema, IsDecode and IsEncode classify an error chain by phase.
package errors
