package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseSchema   Phase = "schema"   // type tree construction and compilation
	PhaseEncode   Phase = "encode"   // plain to tagged
	PhaseDecode   Phase = "decode"   // tagged to plain
	PhaseValidate Phase = "validate" // column shape checks
	PhaseParse    Phase = "parse"    // schema documents
	PhaseLoad     Phase = "load"     // record streams
	PhaseConvert  Phase = "convert"  // SDK attribute values
)

// Kind categorizes the error
type Kind string

const (
	KindTypeMismatch  Kind = "type_mismatch"
	KindTagMismatch   Kind = "tag_mismatch"
	KindInvalidData   Kind = "invalid_data"
	KindInvalidNumber Kind = "invalid_number"
	KindInvalidBase64 Kind = "invalid_base64"
	KindUnsupported   Kind = "unsupported"
	KindFieldMissing  Kind = "field_missing"
	KindDuplicate     Kind = "duplicate"
	KindOverflow      Kind = "overflow"
	KindNilPointer    Kind = "nil_pointer"
	KindShape         Kind = "shape"
	KindInvalidInput  Kind = "invalid_input"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value      any
	Cause      error
	Phase      Phase
	Kind       Kind
	GoType     string
	SchemaType string
	Detail     string
	Path       []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(JoinPath(e.Path))
	}

	if e.GoType != "" || e.SchemaType != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.SchemaType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", schema type ")
			b.WriteString(e.SchemaType)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("schema type ")
			b.WriteString(e.SchemaType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.SchemaType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// JoinPath renders a path. Index segments such as "[3]" attach to the
// previous segment without a dot.
func JoinPath(path []string) string {
	var b strings.Builder
	for i, p := range path {
		if i > 0 && !strings.HasPrefix(p, "[") {
			b.WriteByte('.')
		}
		b.WriteString(p)
	}
	return b.String()
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// SchemaType sets the schema node name
func (b *Builder) SchemaType(t string) *Builder {
	b.err.SchemaType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, schemaType string) *Error {
	return &Error{
		Phase:      phase,
		Kind:       KindTypeMismatch,
		Path:       path,
		GoType:     goType,
		SchemaType: schemaType,
	}
}

// TagMismatch creates an error for a tagged value carrying the wrong tag
func TagMismatch(path []string, got, want string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindTagMismatch,
		Path:   path,
		Detail: fmt.Sprintf("got tag %q, want %q or %q", got, want, "NULL"),
		Value:  got,
	}
}

// InvalidNumber creates an error for unparseable or unrepresentable numbers
func InvalidNumber(phase Phase, path []string, text string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidNumber,
		Path:   path,
		Detail: fmt.Sprintf("invalid number %q", text),
		Value:  text,
		Cause:  cause,
	}
}

// InvalidBase64 creates an error for binary payloads that are not base64
func InvalidBase64(phase Phase, path []string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidBase64,
		Path:   path,
		Detail: "payload is not valid base64",
		Cause:  cause,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, value any, targetType string) *Error {
	return &Error{
		Phase:      phase,
		Kind:       KindOverflow,
		Path:       path,
		SchemaType: targetType,
		Detail:     fmt.Sprintf("value %v overflows %s", value, targetType),
		Value:      value,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Load creates a record stream error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}

// PhaseOf returns the phase of the first *Error in err's chain.
func PhaseOf(err error) (Phase, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Phase, true
	}
	return "", false
}

// IsSchema reports whether err is a malformed schema error.
func IsSchema(err error) bool {
	p, ok := PhaseOf(err)
	return ok && p == PhaseSchema
}

// IsDecode reports whether err was raised while decoding tagged records.
func IsDecode(err error) bool {
	p, ok := PhaseOf(err)
	return ok && p == PhaseDecode
}

// IsEncode reports whether err was raised while encoding plain records.
func IsEncode(err error) bool {
	p, ok := PhaseOf(err)
	return ok && p == PhaseEncode
}

// IsLoad reports whether err was raised reading a record stream.
func IsLoad(err error) bool {
	p, ok := PhaseOf(err)
	return ok && p == PhaseLoad
}

// WithPath returns a copy of err with prefix prepended to its path.
// Errors that are not *Error are returned unchanged.
func WithPath(err error, prefix ...string) error {
	var e *Error
	if !stderrors.As(err, &e) {
		return err
	}
	cp := *e
	cp.Path = append(append(make([]string, 0, len(prefix)+len(e.Path)), prefix...), e.Path...)
	return &cp
}
