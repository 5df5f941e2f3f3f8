package motion

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-drift/motion/pkg/keypath"
)

// StructAdapter animates multi-field struct values — point, size and
// inset-like shapes — field by field through their owning object.
//
// Any struct (or pointer to struct) with at least one exported numeric
// field qualifies. Sub-properties are addressed by field name,
// case-insensitively, as the trailing segment of a keypath
// ("position.x" animates field X of the struct at "position").
type StructAdapter struct {
	AdapterBase
}

// NewStructAdapter creates a struct adapter with weighting 1.0.
func NewStructAdapter() *StructAdapter {
	a := &StructAdapter{}
	a.SetAdditiveWeighting(1)
	return a
}

// Supports reports whether obj is a struct (or pointer to one) with at
// least one exported numeric field.
func (a *StructAdapter) Supports(obj any) bool {
	v := structValue(obj)
	if !v.IsValid() {
		return false
	}
	for i := 0; i < v.NumField(); i++ {
		if f := v.Type().Field(i); f.IsExported() && numericKind(v.Field(i).Kind()) {
			return true
		}
	}
	return false
}

// AcceptsKeypath reports whether keypaths may continue through obj.
func (a *StructAdapter) AcceptsKeypath(obj any) bool {
	return true
}

// GenerateProperties produces one descriptor per exported numeric field
// whose value differs between obj and the destination struct. When the
// keypath's trailing segment names a field directly, only that field is
// generated. Generation fails when the destination is not the same struct
// type or nothing animatable changes.
func (a *StructAdapter) GenerateProperties(obj any, path string, end any) ([]*Property, error) {
	const op = "motion.StructAdapter.GenerateProperties"

	start := structValue(obj)
	dest := structValue(end)
	if !start.IsValid() || !dest.IsValid() || start.Type() != dest.Type() {
		return nil, &Error{Op: op, Kind: KindGeneration,
			Err: fmt.Errorf("destination %T does not match %T", end, obj)}
	}

	// A trailing segment naming a field narrows generation to that field.
	if leaf := keypath.Leaf(path); leaf != "" {
		if i, ok := fieldIndex(start.Type(), leaf); ok && numericKind(start.Field(i).Kind()) {
			current, _ := keypath.ToNumber(start.Field(i).Interface())
			return []*Property{{Path: path, Target: obj, Current: current}}, nil
		}
	}

	var props []*Property
	for i := 0; i < start.NumField(); i++ {
		f := start.Type().Field(i)
		if !f.IsExported() || !numericKind(start.Field(i).Kind()) {
			continue
		}
		from, _ := keypath.ToNumber(start.Field(i).Interface())
		to, _ := keypath.ToNumber(dest.Field(i).Interface())
		if from == to {
			continue
		}
		props = append(props, &Property{
			Path:    joinPath(path, strings.ToLower(f.Name)),
			Target:  obj,
			Current: from,
		})
	}
	if len(props) == 0 {
		return nil, &Error{Op: op, Kind: KindGeneration,
			Err: fmt.Errorf("no animatable fields on %T for %q", obj, path)}
	}
	return props, nil
}

// RetrieveValue returns the numeric value of the field the keypath's
// trailing segment names on obj.
func (a *StructAdapter) RetrieveValue(obj any, path string) (float64, error) {
	const op = "motion.StructAdapter.RetrieveValue"
	v := structValue(obj)
	if !v.IsValid() {
		return 0, &Error{Op: op, Kind: KindRetrieve, Err: fmt.Errorf("%T is not a struct", obj)}
	}
	i, ok := fieldIndex(v.Type(), keypath.Leaf(path))
	if !ok {
		return 0, &Error{Op: op, Kind: KindRetrieve,
			Err: &keypath.PathError{Path: path, Segment: keypath.Leaf(path), Target: obj}}
	}
	n, err := keypath.ToNumber(v.Field(i).Interface())
	if err != nil {
		return 0, &Error{Op: op, Kind: KindRetrieve, Err: err}
	}
	return n, nil
}

// UpdateValue writes each supplied segment's value into the matching field
// and returns the updated struct. A pointer target is mutated in place;
// a value target yields a modified copy. ok is false when no segment
// matches a settable field.
func (a *StructAdapter) UpdateValue(obj any, newValues map[string]float64) (any, bool) {
	rv := reflect.ValueOf(obj)
	isPtr := rv.Kind() == reflect.Pointer
	if isPtr {
		if rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
			return nil, false
		}
		rv = rv.Elem()
	} else {
		if rv.Kind() != reflect.Struct {
			return nil, false
		}
		clone := reflect.New(rv.Type()).Elem()
		clone.Set(rv)
		rv = clone
	}

	applied := false
	for segment, value := range newValues {
		i, ok := fieldIndex(rv.Type(), keypath.Leaf(segment))
		if !ok || !numericKind(rv.Field(i).Kind()) {
			continue
		}
		rv.Field(i).Set(reflect.ValueOf(value).Convert(rv.Field(i).Type()))
		applied = true
	}
	if !applied {
		return nil, false
	}
	if isPtr {
		return obj, true
	}
	return rv.Interface(), true
}

// RetrieveCurrentObjectValue reads the field named by the descriptor
// path's trailing segment from the descriptor's Target.
func (a *StructAdapter) RetrieveCurrentObjectValue(p *Property) (float64, bool) {
	v, err := a.RetrieveValue(p.Target, p.Path)
	if err != nil {
		return 0, false
	}
	return v, true
}

// CalculateValue blends newValue for the descriptor's field and returns
// the updated struct. The descriptor's Current is advanced to the blended
// value.
func (a *StructAdapter) CalculateValue(p *Property, newValue float64) (any, bool) {
	blended := a.blend(p.Current, newValue)
	out, ok := a.UpdateValue(p.Target, map[string]float64{keypath.Leaf(p.Path): blended})
	if !ok {
		return nil, false
	}
	p.Current = blended
	return out, true
}

func structValue(obj any) reflect.Value {
	v := reflect.ValueOf(obj)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}
	}
	return v
}

func fieldIndex(t reflect.Type, name string) (int, bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if f.Name == name || strings.EqualFold(f.Name, name) {
			return i, true
		}
	}
	return 0, false
}

func numericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func joinPath(path, segment string) string {
	if path == "" {
		return segment
	}
	return path + "." + segment
}
