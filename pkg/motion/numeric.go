package motion

import (
	"github.com/go-drift/motion/pkg/keypath"
)

// NumericAdapter animates raw numeric scalars.
//
// It claims any value [keypath.ToNumber] can convert — all Go integer,
// unsigned and float kinds — and replaces the scalar wholesale, preserving
// the value's original numeric kind on the way back out.
type NumericAdapter struct {
	AdapterBase
}

// NewNumericAdapter creates a numeric adapter with weighting 1.0.
func NewNumericAdapter() *NumericAdapter {
	a := &NumericAdapter{}
	a.SetAdditiveWeighting(1)
	return a
}

// Supports reports whether obj is a raw numeric scalar.
func (a *NumericAdapter) Supports(obj any) bool {
	return keypath.IsNumeric(obj)
}

// AcceptsKeypath reports whether keypaths may continue through obj.
// Scalars have no sub-properties, but a keypath ending at one is valid.
func (a *NumericAdapter) AcceptsKeypath(obj any) bool {
	return true
}

// GenerateProperties produces a single descriptor for the scalar at path.
// Generation fails when the destination value is not numeric.
func (a *NumericAdapter) GenerateProperties(obj any, path string, end any) ([]*Property, error) {
	current, err := keypath.ToNumber(obj)
	if err != nil {
		return nil, &Error{Op: "motion.NumericAdapter.GenerateProperties", Kind: KindGeneration, Err: err}
	}
	if _, err := keypath.ToNumber(end); err != nil {
		return nil, &Error{Op: "motion.NumericAdapter.GenerateProperties", Kind: KindGeneration, Err: err}
	}
	return []*Property{{Path: path, Target: obj, Current: current}}, nil
}

// RetrieveValue returns obj's numeric value. The path is ignored: a raw
// scalar has no sub-properties to address.
func (a *NumericAdapter) RetrieveValue(obj any, path string) (float64, error) {
	v, err := keypath.ToNumber(obj)
	if err != nil {
		return 0, &Error{Op: "motion.NumericAdapter.RetrieveValue", Kind: KindRetrieve, Err: err}
	}
	return v, nil
}

// UpdateValue replaces the scalar with the single supplied value, boxed
// back into obj's original numeric kind. With multiple entries the update
// is ambiguous for a scalar and nothing is applied.
func (a *NumericAdapter) UpdateValue(obj any, newValues map[string]float64) (any, bool) {
	if len(newValues) != 1 {
		return nil, false
	}
	for _, v := range newValues {
		out, err := keypath.Convert(v, obj)
		if err != nil {
			return nil, false
		}
		return out, true
	}
	return nil, false
}

// RetrieveCurrentObjectValue returns the descriptor target's numeric value.
func (a *NumericAdapter) RetrieveCurrentObjectValue(p *Property) (float64, bool) {
	v, err := keypath.ToNumber(p.Target)
	if err != nil {
		return 0, false
	}
	return v, true
}

// CalculateValue blends newValue against the descriptor's Current value
// and returns it boxed into the target's numeric kind. The descriptor's
// Current is advanced to the blended value.
func (a *NumericAdapter) CalculateValue(p *Property, newValue float64) (any, bool) {
	blended := a.blend(p.Current, newValue)
	out, err := keypath.Convert(blended, p.Target)
	if err != nil {
		return nil, false
	}
	p.Current = blended
	return out, true
}
