package motion

import "fmt"

// ErrorKind identifies the category of an adapter error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindGeneration indicates a supporting adapter could not produce
	// properties for a keypath.
	KindGeneration
	// KindRetrieve indicates a supporting adapter could not read a value.
	KindRetrieve
	// KindResolve indicates the direct-access keypath walk failed.
	KindResolve
	// KindCast indicates a resolved value has no numeric representation.
	KindCast
)

func (k ErrorKind) String() string {
	switch k {
	case KindGeneration:
		return "generation"
	case KindRetrieve:
		return "retrieve"
	case KindResolve:
		return "resolve"
	case KindCast:
		return "cast"
	default:
		return "unknown"
	}
}

// Error represents a structured adapter error.
//
// Adapter implementations return *Error so callers and tests can see why
// a supporting adapter failed; a value no adapter claims surfaces as an
// absent result, never an error. [AdapterGroup] itself never lets one
// escape a dispatch: failures resolve to absent or empty results so a
// running animation frame is never halted.
type Error struct {
	// Op is the operation that failed (e.g., "motion.StructAdapter.GenerateProperties").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s [%s]", e.Op, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}
