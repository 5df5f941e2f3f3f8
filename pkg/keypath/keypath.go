// Package keypath resolves dot-separated property paths against arbitrary
// Go values and converts boxed scalars to a uniform float64 representation.
//
// A keypath like "position.x" names a (possibly nested) property: each
// segment steps through an exported struct field (matched by name,
// case-insensitively) or a string-keyed map entry. Pointers and interfaces
// are dereferenced transparently at every step.
//
// The package is the direct-access collaborator used by
// [github.com/go-drift/motion/pkg/motion.AdapterGroup] when no adapter
// claims a value, and the casting utility adapters share.
package keypath

import (
	"fmt"
	"reflect"
	"strings"
)

// PathError reports a keypath segment that could not be resolved.
type PathError struct {
	// Path is the full keypath being resolved.
	Path string
	// Segment is the segment that failed.
	Segment string
	// Target is the value the segment was resolved against.
	Target any
}

func (e *PathError) Error() string {
	return fmt.Sprintf("keypath %q: no segment %q on %T", e.Path, e.Segment, e.Target)
}

// CastError reports a value that has no numeric representation.
type CastError struct {
	// Value is the value that could not be cast.
	Value any
}

func (e *CastError) Error() string {
	return fmt.Sprintf("cannot cast %T to number", e.Value)
}

// Segments splits a keypath into its segment names.
// An empty path yields no segments.
func Segments(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// Leaf returns the last segment of a keypath, or the path itself
// when it has a single segment.
func Leaf(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[i+1:]
	}
	return path
}

// Parent returns the keypath with its last segment removed.
// A single-segment path has an empty parent.
func Parent(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[:i]
	}
	return ""
}

// Resolve walks path segment by segment starting at obj and returns the
// value it names. An empty path returns obj unchanged. Resolution fails
// with a *PathError when a segment does not exist on the value reached
// so far.
func Resolve(obj any, path string) (any, error) {
	current := obj
	for _, segment := range Segments(path) {
		next, err := Child(current, segment)
		if err != nil {
			return nil, &PathError{Path: path, Segment: segment, Target: current}
		}
		current = next
	}
	return current, nil
}

// Child resolves a single segment against obj: an exported struct field
// (exact or case-insensitive name match) or a string-keyed map entry.
func Child(obj any, segment string) (any, error) {
	v := reflect.ValueOf(obj)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, &PathError{Path: segment, Segment: segment, Target: obj}
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			if f.Name == segment || strings.EqualFold(f.Name, segment) {
				return v.Field(i).Interface(), nil
			}
		}
	case reflect.Map:
		if v.Type().Key().Kind() == reflect.String {
			entry := v.MapIndex(reflect.ValueOf(segment).Convert(v.Type().Key()))
			if entry.IsValid() {
				return entry.Interface(), nil
			}
		}
	}
	return nil, &PathError{Path: segment, Segment: segment, Target: obj}
}

// ToNumber converts a boxed scalar to float64. All Go integer, unsigned
// and float kinds are supported, including pointer forms. The conversion
// is deterministic; anything else fails with a *CastError.
func ToNumber(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return 0, &CastError{Value: v}
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	}
	return 0, &CastError{Value: v}
}

// IsNumeric reports whether v is a raw numeric scalar (or pointer to one)
// that ToNumber can convert.
func IsNumeric(v any) bool {
	_, err := ToNumber(v)
	return err == nil
}

// Convert boxes a float64 back into the concrete numeric type of
// prototype, so values written through adapters keep their original kind.
func Convert(value float64, prototype any) (any, error) {
	rt := reflect.TypeOf(prototype)
	for rt != nil && rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt == nil || !reflect.TypeOf(value).ConvertibleTo(rt) {
		return nil, &CastError{Value: prototype}
	}
	switch rt.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return reflect.ValueOf(value).Convert(rt).Interface(), nil
	}
	return nil, &CastError{Value: prototype}
}
