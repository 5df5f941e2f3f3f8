package motion

import (
	"errors"
	"testing"
)

// stubAdapter is a scriptable adapter for dispatch tests.
type stubAdapter struct {
	AdapterBase

	supportsFn func(any) bool
	accepts    bool

	props  []*Property
	genErr error

	value       float64
	retrieveErr error

	updated   any
	updatedOK bool

	current   float64
	currentOK bool

	calc   any
	calcOK bool

	calls []string
}

func newStub(supports func(any) bool) *stubAdapter {
	return &stubAdapter{supportsFn: supports, accepts: true}
}

func supportsAll(any) bool { return true }

func (s *stubAdapter) Supports(obj any) bool {
	if s.supportsFn == nil {
		return false
	}
	return s.supportsFn(obj)
}

func (s *stubAdapter) AcceptsKeypath(obj any) bool {
	return s.accepts
}

func (s *stubAdapter) GenerateProperties(obj any, path string, end any) ([]*Property, error) {
	s.calls = append(s.calls, "generate")
	if s.genErr != nil {
		return nil, s.genErr
	}
	return s.props, nil
}

func (s *stubAdapter) RetrieveValue(obj any, path string) (float64, error) {
	s.calls = append(s.calls, "retrieve")
	if s.retrieveErr != nil {
		return 0, s.retrieveErr
	}
	return s.value, nil
}

func (s *stubAdapter) UpdateValue(obj any, newValues map[string]float64) (any, bool) {
	s.calls = append(s.calls, "update")
	return s.updated, s.updatedOK
}

func (s *stubAdapter) RetrieveCurrentObjectValue(p *Property) (float64, bool) {
	s.calls = append(s.calls, "current")
	return s.current, s.currentOK
}

func (s *stubAdapter) CalculateValue(p *Property, newValue float64) (any, bool) {
	s.calls = append(s.calls, "calculate")
	return s.calc, s.calcOK
}

func (s *stubAdapter) called(op string) bool {
	for _, c := range s.calls {
		if c == op {
			return true
		}
	}
	return false
}

func TestAdapterGroup_SupportsAnyMember(t *testing.T) {
	yes := newStub(func(obj any) bool { _, ok := obj.(string); return ok })
	no := newStub(func(obj any) bool { return false })

	// Result must not depend on registration order.
	orders := [][]Adapter{{yes, no}, {no, yes}}
	for _, adapters := range orders {
		g := NewAdapterGroup(adapters...)
		if !g.Supports("hello") {
			t.Errorf("Supports(string) = false, want true")
		}
		if g.Supports(42.0) {
			t.Errorf("Supports(float64) = true, want false")
		}
	}

	empty := NewAdapterGroup()
	if empty.Supports("hello") {
		t.Errorf("empty group Supports = true, want false")
	}
}

func TestAdapterGroup_WeightingClamp(t *testing.T) {
	tests := []struct {
		assign float64
		want   float64
	}{
		{1.6, 1.0},
		{-0.2, 0.0},
		{0.4, 0.4},
		{0.0, 0.0},
		{1.0, 1.0},
	}
	for _, tt := range tests {
		g := NewAdapterGroup(newStub(supportsAll))
		g.SetAdditiveWeighting(tt.assign)
		if got := g.AdditiveWeighting(); got != tt.want {
			t.Errorf("SetAdditiveWeighting(%v): group weighting = %v, want %v", tt.assign, got, tt.want)
		}
		if got := g.Adapters()[0].AdditiveWeighting(); got != tt.want {
			t.Errorf("SetAdditiveWeighting(%v): member weighting = %v, want %v", tt.assign, got, tt.want)
		}
	}
}

func TestAdapterGroup_ConfigPropagation(t *testing.T) {
	a := newStub(supportsAll)
	b := newStub(supportsAll)
	g := NewAdapterGroup(a, b)

	g.SetAdditive(true)
	g.SetAdditiveWeighting(0.5)
	if !a.Additive() || !b.Additive() {
		t.Errorf("SetAdditive(true) not propagated: a=%v b=%v", a.Additive(), b.Additive())
	}
	if a.AdditiveWeighting() != 0.5 || b.AdditiveWeighting() != 0.5 {
		t.Errorf("SetAdditiveWeighting(0.5) not propagated: a=%v b=%v",
			a.AdditiveWeighting(), b.AdditiveWeighting())
	}

	// A late registration is stamped with the group's current values.
	c := newStub(supportsAll)
	c.SetAdditiveWeighting(0.9)
	g.Add(c)
	if !c.Additive() {
		t.Errorf("Add did not stamp additive onto new member")
	}
	if c.AdditiveWeighting() != 0.5 {
		t.Errorf("Add stamped weighting %v, want 0.5", c.AdditiveWeighting())
	}
}

func TestAdapterGroup_FirstMatchDispatch(t *testing.T) {
	a := newStub(supportsAll)
	a.value = 1
	a.updated, a.updatedOK = "from-a", true
	a.current, a.currentOK = 10, true
	b := newStub(supportsAll)
	b.value = 2
	b.updated, b.updatedOK = "from-b", true
	b.current, b.currentOK = 20, true
	g := NewAdapterGroup(a, b)

	if v, err := g.RetrieveValue("x", "path"); err != nil || v != 1 {
		t.Errorf("RetrieveValue = %v, %v; want 1, nil", v, err)
	}
	if v, ok := g.UpdateValue("x", map[string]float64{"path": 5}); !ok || v != "from-a" {
		t.Errorf("UpdateValue = %v, %v; want from-a, true", v, ok)
	}
	p := &Property{Path: "path", Target: "x"}
	if v, ok := g.RetrieveCurrentObjectValue(p); !ok || v != 10 {
		t.Errorf("RetrieveCurrentObjectValue = %v, %v; want 10, true", v, ok)
	}

	if len(b.calls) != 0 {
		t.Errorf("second adapter was invoked: %v", b.calls)
	}
}

func TestAdapterGroup_UpdateValue_FirstMatchEvenOnFailure(t *testing.T) {
	a := newStub(supportsAll) // fails: updatedOK stays false
	b := newStub(supportsAll)
	b.updated, b.updatedOK = "from-b", true
	g := NewAdapterGroup(a, b)

	v, ok := g.UpdateValue("x", map[string]float64{"path": 5})
	if ok || v != nil {
		t.Errorf("UpdateValue = %v, %v; want nil, false from first match", v, ok)
	}
	if b.called("update") {
		t.Errorf("dispatch continued past the first supporting adapter")
	}
}

func TestAdapterGroup_GenerationFallback(t *testing.T) {
	want := []*Property{{Path: "x", Current: 3}}
	a := newStub(supportsAll)
	a.genErr = errors.New("cannot generate")
	b := newStub(supportsAll)
	b.props = want
	g := NewAdapterGroup(a, b)

	props, err := g.GenerateProperties("obj", "x", 9.0)
	if err != nil {
		t.Fatalf("GenerateProperties returned error: %v", err)
	}
	if len(props) != 1 || props[0] != want[0] {
		t.Errorf("GenerateProperties = %v, want result from second adapter", props)
	}
	if !a.called("generate") {
		t.Errorf("failing adapter was never attempted")
	}
}

func TestAdapterGroup_GenerateProperties_NoneSucceeds(t *testing.T) {
	a := newStub(supportsAll)
	a.genErr = errors.New("cannot generate")
	unsupporting := newStub(func(any) bool { return false })
	g := NewAdapterGroup(a, unsupporting)

	props, err := g.GenerateProperties("obj", "x", 9.0)
	if err != nil {
		t.Fatalf("GenerateProperties returned error: %v", err)
	}
	if len(props) != 0 {
		t.Errorf("GenerateProperties = %v, want empty", props)
	}
	if unsupporting.called("generate") {
		t.Errorf("non-supporting adapter was asked to generate")
	}
}

func TestAdapterGroup_AcceptsKeypathVeto(t *testing.T) {
	rejecting := newStub(supportsAll)
	rejecting.accepts = false
	accepting := newStub(supportsAll)

	// The veto holds in either registration order.
	if g := NewAdapterGroup(rejecting, accepting); g.AcceptsKeypath("x") {
		t.Errorf("AcceptsKeypath = true with rejecting adapter first")
	}
	if g := NewAdapterGroup(accepting, rejecting); g.AcceptsKeypath("x") {
		t.Errorf("AcceptsKeypath = true with rejecting adapter last")
	}

	// A rejection from an adapter that does not support the value is ignored.
	irrelevant := newStub(func(any) bool { return false })
	irrelevant.accepts = false
	if g := NewAdapterGroup(accepting, irrelevant); !g.AcceptsKeypath("x") {
		t.Errorf("AcceptsKeypath = false from a non-supporting adapter's rejection")
	}

	if g := NewAdapterGroup(); !g.AcceptsKeypath("x") {
		t.Errorf("empty group AcceptsKeypath = false, want default true")
	}
}

func TestAdapterGroup_RetrieveValue_SkipsFailures(t *testing.T) {
	a := newStub(supportsAll)
	a.retrieveErr = errors.New("cannot retrieve")
	b := newStub(supportsAll)
	b.value = 7
	g := NewAdapterGroup(a, b)

	v, err := g.RetrieveValue("obj", "x")
	if err != nil || v != 7 {
		t.Errorf("RetrieveValue = %v, %v; want 7, nil", v, err)
	}
}

func TestAdapterGroup_RetrieveValue_DirectAccessFallback(t *testing.T) {
	type point struct{ X, Y float64 }
	type sprite struct{ Position point }

	g := NewAdapterGroup(newStub(func(any) bool { return false }))
	target := sprite{Position: point{X: 12.5}}

	v, err := g.RetrieveValue(target, "position.x")
	if err != nil || v != 12.5 {
		t.Errorf("fallback RetrieveValue = %v, %v; want 12.5, nil", v, err)
	}

	_, err = g.RetrieveValue(target, "position.missing")
	var me *Error
	if !errors.As(err, &me) || me.Kind != KindResolve {
		t.Errorf("fallback on missing segment = %v, want KindResolve error", err)
	}

	_, err = g.RetrieveValue(target, "position")
	if !errors.As(err, &me) || me.Kind != KindCast {
		t.Errorf("fallback on non-numeric value = %v, want KindCast error", err)
	}
}

func TestAdapterGroup_UpdateValue_EmptyNoOp(t *testing.T) {
	a := newStub(supportsAll)
	g := NewAdapterGroup(a)

	if v, ok := g.UpdateValue("x", nil); ok || v != nil {
		t.Errorf("UpdateValue(nil) = %v, %v; want nil, false", v, ok)
	}
	if v, ok := g.UpdateValue("x", map[string]float64{}); ok || v != nil {
		t.Errorf("UpdateValue(empty) = %v, %v; want nil, false", v, ok)
	}
	if len(a.calls) != 0 {
		t.Errorf("empty update invoked an adapter: %v", a.calls)
	}
}

func TestAdapterGroup_RetrieveCurrentObjectValue_MissingTarget(t *testing.T) {
	a := newStub(supportsAll)
	g := NewAdapterGroup(a)

	if v, ok := g.RetrieveCurrentObjectValue(&Property{Path: "x"}); ok || v != 0 {
		t.Errorf("missing target = %v, %v; want 0, false", v, ok)
	}
	if len(a.calls) != 0 {
		t.Errorf("missing target invoked an adapter: %v", a.calls)
	}
}

func TestAdapterGroup_RetrieveCurrentObjectValue_Verbatim(t *testing.T) {
	a := newStub(supportsAll) // currentOK stays false
	b := newStub(supportsAll)
	b.current, b.currentOK = 42, true
	g := NewAdapterGroup(a, b)

	v, ok := g.RetrieveCurrentObjectValue(&Property{Path: "x", Target: "obj"})
	if ok || v != 0 {
		t.Errorf("RetrieveCurrentObjectValue = %v, %v; want first adapter's absent result", v, ok)
	}
	if b.called("current") {
		t.Errorf("dispatch continued past the first supporting adapter")
	}
}

func TestAdapterGroup_CalculateValue_ScalarFallback(t *testing.T) {
	a := newStub(supportsAll) // calcOK stays false
	b := newStub(supportsAll)
	b.calc, b.calcOK = 99.0, true
	g := NewAdapterGroup(a, b)

	// Ownerless raw scalar target: the scan continues past absent results.
	p := &Property{Path: "x", Target: 5.0, Current: 5}
	v, ok := g.CalculateValue(p, 9)
	if !ok || v != 99.0 {
		t.Errorf("CalculateValue = %v, %v; want 99 from second adapter", v, ok)
	}
	if !a.called("calculate") {
		t.Errorf("first adapter was never attempted")
	}

	// Same adapters, but an owner is present: first match is final.
	a.calls, b.calls = nil, nil
	owned := &Property{Path: "x", Target: 5.0, ParentObject: "owner", Current: 5}
	v, ok = g.CalculateValue(owned, 9)
	if ok || v != nil {
		t.Errorf("owned CalculateValue = %v, %v; want first adapter's absent result", v, ok)
	}
	if b.called("calculate") {
		t.Errorf("dispatch continued past the first supporting adapter")
	}
}

func TestAdapterGroup_CalculateValue_OwnerEqualsTarget(t *testing.T) {
	a := newStub(supportsAll) // absent
	b := newStub(supportsAll)
	b.calc, b.calcOK = 99.0, true
	g := NewAdapterGroup(a, b)

	// Owner identical to the scalar target behaves like no owner at all.
	p := &Property{Path: "x", Target: 5.0, ParentObject: 5.0, Current: 5}
	if v, ok := g.CalculateValue(p, 9); !ok || v != 99.0 {
		t.Errorf("CalculateValue = %v, %v; want fallback to second adapter", v, ok)
	}
}

func TestAdapterGroup_CalculateValue_OpaqueComposite(t *testing.T) {
	type opaque struct{ s string }
	a := newStub(supportsAll) // absent
	b := newStub(supportsAll)
	b.calc, b.calcOK = "replaced", true
	g := NewAdapterGroup(a, b)

	// Ownerless but not a raw scalar: first match is final, no fallback.
	p := &Property{Path: "x", Target: opaque{s: "v"}}
	v, ok := g.CalculateValue(p, 9)
	if ok || v != nil {
		t.Errorf("CalculateValue = %v, %v; want first adapter's absent result", v, ok)
	}
	if b.called("calculate") {
		t.Errorf("dispatch continued past the first supporting adapter")
	}
}

func TestAdapterGroup_CalculateValue_Defaults(t *testing.T) {
	g := NewAdapterGroup(newStub(func(any) bool { return false }))

	if v, ok := g.CalculateValue(nil, 9); ok || v != nil {
		t.Errorf("nil descriptor = %v, %v; want nil, false", v, ok)
	}
	if v, ok := g.CalculateValue(&Property{Path: "x"}, 9); ok || v != nil {
		t.Errorf("missing target = %v, %v; want nil, false", v, ok)
	}

	// No capable adapter: the descriptor's current value, boxed.
	p := &Property{Path: "x", Target: 5.0, Current: 3.5}
	if v, ok := g.CalculateValue(p, 9); !ok || v != 3.5 {
		t.Errorf("no adapter = %v, %v; want current 3.5, true", v, ok)
	}

	// Exhausted scalar scan: same default.
	absent := newStub(supportsAll)
	g = NewAdapterGroup(absent)
	if v, ok := g.CalculateValue(p, 9); !ok || v != 3.5 {
		t.Errorf("exhausted scan = %v, %v; want current 3.5, true", v, ok)
	}
}

func TestAdapterGroup_Nesting(t *testing.T) {
	inner := newStub(supportsAll)
	inner.value = 11
	innerGroup := NewAdapterGroup(inner)
	outer := NewAdapterGroup(innerGroup)

	// Configuration fans out through nested groups.
	outer.SetAdditive(true)
	outer.SetAdditiveWeighting(0.25)
	if !inner.Additive() || inner.AdditiveWeighting() != 0.25 {
		t.Errorf("nested member config = %v, %v; want true, 0.25",
			inner.Additive(), inner.AdditiveWeighting())
	}

	// Dispatch reaches the nested member.
	if !outer.Supports("x") {
		t.Errorf("outer group does not support what the nested member supports")
	}
	if v, err := outer.RetrieveValue("x", "path"); err != nil || v != 11 {
		t.Errorf("nested RetrieveValue = %v, %v; want 11, nil", v, err)
	}
}
