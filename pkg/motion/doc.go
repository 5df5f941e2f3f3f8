// Package motion dispatches property animation over pluggable value
// adapters.
//
// An animation engine that wants to read, interpolate and write arbitrary
// properties of heterogeneous targets never touches concrete shapes
// directly. Instead it talks to an [AdapterGroup]: an ordered, composite
// set of [Adapter] values, each of which understands one class of shapes —
// raw numeric scalars ([NumericAdapter]), multi-field structs
// ([StructAdapter]), opaque colors ([ColorAdapter]) or custom shapes
// supplied by the caller.
//
// The group resolves every call deterministically over its members in
// registration order, shares one additive-blending configuration across
// all of them, and satisfies [Adapter] itself so groups nest.
//
// See ExampleAdapterGroup for the typical setup.
package motion
