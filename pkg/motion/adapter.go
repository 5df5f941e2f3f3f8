package motion

// Property describes one animatable property discovered on a target value.
//
// Properties are created by [Adapter.GenerateProperties] and handed back to
// adapters by the per-frame calls. The caller owns the descriptor's
// lifecycle; adapters read and update its fields but never retain it.
type Property struct {
	// Path is the dot-separated keypath identifying the property, possibly
	// nested (e.g. "position.x").
	Path string

	// Target is the innermost value actually mutated. It may be a raw
	// boxed scalar (a bare float64 animated wholesale), a multi-field
	// struct mutated field by field, or an opaque composite value (a
	// color) replaced as a unit.
	Target any

	// ParentObject is the owning object through which Target is reached.
	// It is nil when Target is itself the thing being replaced wholesale.
	ParentObject any

	// Current is the property's last known numeric value. Adapters update
	// it as they calculate new values.
	Current float64
}

// Adapter is the capability contract for one class of value shapes.
//
// An adapter declares which values it understands ([Adapter.Supports]),
// discovers animatable sub-properties from a keypath, extracts a numeric
// representation of a property's current value, computes a new boxed value
// from an interpolated number, and writes values back. [AdapterGroup]
// satisfies Adapter itself, so groups nest.
//
// Error conventions: GenerateProperties and RetrieveValue return an error
// to mean "supports the value but failed for this keypath" — a dispatching
// group swallows the error and continues its scan. The (value, ok) pairs on
// the remaining calls report presence only; an absent result is not a
// failure.
type Adapter interface {
	// Supports reports whether this adapter understands obj's shape.
	Supports(obj any) bool

	// AcceptsKeypath reports whether keypaths may continue through obj.
	AcceptsKeypath(obj any) bool

	// GenerateProperties discovers the animatable properties of obj for
	// the given keypath. The end parameter carries the destination value
	// the animation is heading toward; adapters use it to decide which
	// sub-properties actually change.
	GenerateProperties(obj any, path string, end any) ([]*Property, error)

	// RetrieveValue extracts the numeric value at path from obj.
	RetrieveValue(obj any, path string) (float64, error)

	// UpdateValue writes the supplied per-segment numeric values into obj
	// and returns the resulting boxed value. ok is false when nothing
	// could be applied.
	UpdateValue(obj any, newValues map[string]float64) (value any, ok bool)

	// RetrieveCurrentObjectValue extracts the numeric value the descriptor
	// currently points at on its Target.
	RetrieveCurrentObjectValue(p *Property) (value float64, ok bool)

	// CalculateValue computes the boxed value the descriptor's Target
	// should take for the interpolated newValue, honoring the adapter's
	// additive configuration.
	CalculateValue(p *Property, newValue float64) (value any, ok bool)

	// Additive reports whether computed values are added to the current
	// value instead of replacing it.
	Additive() bool

	// SetAdditive switches additive blending on or off.
	SetAdditive(additive bool)

	// AdditiveWeighting returns the additive contribution scale in [0, 1].
	AdditiveWeighting() float64

	// SetAdditiveWeighting sets the additive contribution scale, clamped
	// to [0, 1].
	SetAdditiveWeighting(weighting float64)
}

// AdapterBase provides the shared additive configuration for adapter
// implementations. Embed it and implement the remaining Adapter methods.
type AdapterBase struct {
	additive  bool
	weighting float64
}

// Additive reports whether additive blending is enabled.
func (b *AdapterBase) Additive() bool {
	return b.additive
}

// SetAdditive switches additive blending on or off.
func (b *AdapterBase) SetAdditive(additive bool) {
	b.additive = additive
}

// AdditiveWeighting returns the additive contribution scale.
func (b *AdapterBase) AdditiveWeighting() float64 {
	return b.weighting
}

// SetAdditiveWeighting sets the additive contribution scale, clamped to [0, 1].
func (b *AdapterBase) SetAdditiveWeighting(weighting float64) {
	b.weighting = clampWeighting(weighting)
}

// blend resolves newValue against current under the adapter's additive
// configuration.
func (b *AdapterBase) blend(current, newValue float64) float64 {
	if b.additive {
		return current + newValue*b.weighting
	}
	return newValue
}

func clampWeighting(w float64) float64 {
	if w < 0 {
		return 0
	}
	if w > 1 {
		return 1
	}
	return w
}
