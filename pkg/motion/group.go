package motion

import (
	"github.com/go-drift/motion/pkg/keypath"
)

// AdapterGroup combines an ordered set of [Adapter] values into a single
// composite adapter.
//
// Registration order is the dispatch priority: single-winner operations
// delegate to the first supporting adapter in insertion order. The group
// carries one shared additive configuration and pushes it to every member,
// so a heterogeneous adapter set always sees a consistent blending setup.
//
// AdapterGroup satisfies [Adapter] itself, so a group can be registered
// inside another group and nested to any depth.
//
// A group is not safe for concurrent use. The driving engine is expected
// to invoke it from a single goroutine; configuration writes rewrite every
// member and must not interleave with dispatch calls.
type AdapterGroup struct {
	adapters  []Adapter
	additive  bool
	weighting float64

	// resolve and toNumber back the direct-access fallback in
	// RetrieveValue. They default to the keypath package.
	resolve  func(obj any, path string) (any, error)
	toNumber func(v any) (float64, error)
}

// NewAdapterGroup creates a group with the given adapters registered in
// order. Additive blending starts disabled with weighting 1.0.
func NewAdapterGroup(adapters ...Adapter) *AdapterGroup {
	g := &AdapterGroup{
		weighting: 1,
		resolve:   keypath.Resolve,
		toNumber:  keypath.ToNumber,
	}
	for _, a := range adapters {
		g.Add(a)
	}
	return g
}

// DefaultGroup creates a group with the built-in adapters registered in
// their natural priority: colors before generic structs (a color struct
// would otherwise be claimed field-by-field), scalars last.
func DefaultGroup() *AdapterGroup {
	return NewAdapterGroup(NewColorAdapter(), NewStructAdapter(), NewNumericAdapter())
}

// Add registers an adapter at the end of the dispatch order (lowest
// priority among current members). The incoming adapter is stamped with
// the group's current additive configuration.
func (g *AdapterGroup) Add(a Adapter) {
	a.SetAdditive(g.additive)
	a.SetAdditiveWeighting(g.weighting)
	g.adapters = append(g.adapters, a)
}

// Adapters returns the registered adapters in dispatch order.
func (g *AdapterGroup) Adapters() []Adapter {
	out := make([]Adapter, len(g.adapters))
	copy(out, g.adapters)
	return out
}

// Additive reports whether additive blending is enabled.
func (g *AdapterGroup) Additive() bool {
	return g.additive
}

// SetAdditive switches additive blending and propagates the new setting to
// every registered adapter.
func (g *AdapterGroup) SetAdditive(additive bool) {
	g.additive = additive
	for _, a := range g.adapters {
		a.SetAdditive(additive)
	}
}

// AdditiveWeighting returns the additive contribution scale.
func (g *AdapterGroup) AdditiveWeighting() float64 {
	return g.weighting
}

// SetAdditiveWeighting clamps weighting to [0, 1] and propagates the
// clamped value to every registered adapter.
func (g *AdapterGroup) SetAdditiveWeighting(weighting float64) {
	g.weighting = clampWeighting(weighting)
	for _, a := range g.adapters {
		a.SetAdditiveWeighting(g.weighting)
	}
}

// Supports reports whether any registered adapter supports obj.
func (g *AdapterGroup) Supports(obj any) bool {
	for _, a := range g.adapters {
		if a.Supports(obj) {
			return true
		}
	}
	return false
}

// AcceptsKeypath reports whether keypaths may continue through obj.
//
// Unlike the first-match rule used elsewhere, this is a veto across the
// whole member set: the result is false if any supporting adapter rejects
// obj, regardless of registration order.
func (g *AdapterGroup) AcceptsKeypath(obj any) bool {
	accepts := true
	for _, a := range g.adapters {
		if a.Supports(obj) && !a.AcceptsKeypath(obj) {
			accepts = false
		}
	}
	return accepts
}

// GenerateProperties asks each supporting adapter, in order, to discover
// the animatable properties of obj for path. A supporting adapter that
// fails is skipped and the scan continues; the first adapter that both
// supports obj and succeeds wins. When none succeeds the result is empty,
// never an error.
func (g *AdapterGroup) GenerateProperties(obj any, path string, end any) ([]*Property, error) {
	for _, a := range g.adapters {
		if !a.Supports(obj) {
			continue
		}
		props, err := a.GenerateProperties(obj, path, end)
		if err != nil {
			continue
		}
		return props, nil
	}
	return nil, nil
}

// RetrieveValue returns the numeric value at path on obj from the first
// supporting adapter whose retrieval succeeds; failures are skipped as in
// [AdapterGroup.GenerateProperties]. When no adapter yields a value the
// group falls back to direct access: the keypath is resolved against obj
// and the result cast to a number. Errors from the fallback carry
// [KindResolve] or [KindCast] so an enclosing group treats them as one
// more skippable failure.
func (g *AdapterGroup) RetrieveValue(obj any, path string) (float64, error) {
	for _, a := range g.adapters {
		if !a.Supports(obj) {
			continue
		}
		v, err := a.RetrieveValue(obj, path)
		if err != nil {
			continue
		}
		return v, nil
	}

	raw, err := g.resolve(obj, path)
	if err != nil {
		return 0, &Error{Op: "motion.AdapterGroup.RetrieveValue", Kind: KindResolve, Err: err}
	}
	v, err := g.toNumber(raw)
	if err != nil {
		return 0, &Error{Op: "motion.AdapterGroup.RetrieveValue", Kind: KindCast, Err: err}
	}
	return v, nil
}

// UpdateValue delegates the write to the first adapter supporting obj and
// returns its result verbatim, success or not. An empty newValues map is a
// no-op: no adapter is invoked and the result is absent.
func (g *AdapterGroup) UpdateValue(obj any, newValues map[string]float64) (any, bool) {
	if len(newValues) == 0 {
		return nil, false
	}
	for _, a := range g.adapters {
		if a.Supports(obj) {
			return a.UpdateValue(obj, newValues)
		}
	}
	return nil, false
}

// RetrieveCurrentObjectValue delegates to the first adapter supporting the
// descriptor's Target and returns its result verbatim, even when absent.
// A descriptor without a Target yields an absent result.
func (g *AdapterGroup) RetrieveCurrentObjectValue(p *Property) (float64, bool) {
	if p == nil || p.Target == nil {
		return 0, false
	}
	for _, a := range g.adapters {
		if a.Supports(p.Target) {
			return a.RetrieveCurrentObjectValue(p)
		}
	}
	return 0, false
}

// CalculateValue computes the boxed value the descriptor's Target should
// take for newValue. A descriptor without a Target yields an absent
// result; when no adapter produces one, the result is the descriptor's
// Current value boxed as a float64.
//
// Dispatch depends on the descriptor's shape. A raw numeric scalar with no
// distinct owner scans supporting adapters and continues past absent
// results, because several adapters may claim the generic scalar shape.
// Every other shape — a property reached through an owning object, or an
// opaque composite replaced wholesale — delegates to the first supporting
// adapter only and returns its result verbatim.
func (g *AdapterGroup) CalculateValue(p *Property, newValue float64) (any, bool) {
	if p == nil || p.Target == nil {
		return nil, false
	}

	if keypath.IsNumeric(p.Target) && (p.ParentObject == nil || p.ParentObject == p.Target) {
		for _, a := range g.adapters {
			if !a.Supports(p.Target) {
				continue
			}
			if v, ok := a.CalculateValue(p, newValue); ok {
				return v, true
			}
		}
		return p.Current, true
	}

	for _, a := range g.adapters {
		if a.Supports(p.Target) {
			return a.CalculateValue(p, newValue)
		}
	}
	return p.Current, true
}
