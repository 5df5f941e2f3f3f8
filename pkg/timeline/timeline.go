// Package timeline loads declarative animation descriptions from
// motion.yaml files and binds them to live targets through an
// [github.com/go-drift/motion/pkg/motion.AdapterGroup].
//
// A timeline file names keypaths on a target and where each should end:
//
//	version: 1.0.0
//	additive: false
//	tracks:
//	  - path: position
//	    to: {x: 120, y: 40}
//	    duration: 300ms
//	    curve: ease-out
//	  - path: fill
//	    to: cornflowerblue
//	    duration: 250ms
//
// Destinations may be a number (scalar tracks), a field map (struct
// tracks) or a named color from the SVG 1.1 palette. The timeline never
// interpolates or writes values itself: sampling drives the adapter group,
// which owns all shape-specific math.
package timeline

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strings"
	"time"

	"golang.org/x/image/colornames"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/motion/pkg/easing"
	"github.com/go-drift/motion/pkg/keypath"
	"github.com/go-drift/motion/pkg/motion"
)

// File is the raw motion.yaml document.
type File struct {
	Version   string      `yaml:"version,omitempty"`
	Additive  bool        `yaml:"additive,omitempty"`
	Weighting *float64    `yaml:"weighting,omitempty"`
	Tracks    []TrackSpec `yaml:"tracks"`
}

// TrackSpec is one declared track in a motion.yaml document.
type TrackSpec struct {
	Path     string      `yaml:"path"`
	To       Destination `yaml:"to"`
	Duration string      `yaml:"duration"`
	Curve    string      `yaml:"curve,omitempty"`
}

// Destination is a track's end state: a number, a per-field map, or a
// named color.
type Destination struct {
	Number float64
	Fields map[string]float64
	Color  color.Color

	kind destinationKind
}

type destinationKind int

const (
	destNumber destinationKind = iota
	destFields
	destColor
)

// UnmarshalYAML decodes a scalar number, a mapping of field names to
// numbers, or an SVG 1.1 color name.
func (d *Destination) UnmarshalYAML(node *yaml.Node) error {
	var n float64
	if err := node.Decode(&n); err == nil {
		d.Number = n
		d.kind = destNumber
		return nil
	}

	var fields map[string]float64
	if err := node.Decode(&fields); err == nil {
		d.Fields = fields
		d.kind = destFields
		return nil
	}

	var name string
	if err := node.Decode(&name); err != nil {
		return fmt.Errorf("destination must be a number, field map or color name")
	}
	c, ok := colornames.Map[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("unknown color name %q", name)
	}
	d.Color = c
	d.kind = destColor
	return nil
}

// Timeline is a validated set of animation tracks ready to bind.
type Timeline struct {
	// Version is the document's declared version, normalized to a leading v.
	Version string
	// Additive is the blending mode applied to the group at bind time.
	Additive bool
	// Weighting is the additive contribution scale applied at bind time.
	Weighting float64
	// Tracks are the declared tracks in document order.
	Tracks []*Track
}

// Track is one animatable keypath with its easing and destination.
type Track struct {
	// Path is the keypath on the bound target.
	Path string
	// Duration is the track's length.
	Duration time.Duration
	// Curve eases sampling progress.
	Curve easing.Curve

	to    Destination
	group *motion.AdapterGroup
	value any
	props []*motion.Property
	from  map[string]float64
	end   map[string]float64
}

// Load reads and parses a motion.yaml file.
func Load(path string) (*Timeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses and validates a motion.yaml document.
func Parse(data []byte) (*Timeline, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse motion.yaml: %w", err)
	}

	version := strings.TrimSpace(f.Version)
	if version != "" {
		normalized := version
		if !strings.HasPrefix(normalized, "v") {
			normalized = "v" + normalized
		}
		if !semver.IsValid(normalized) {
			return nil, fmt.Errorf("invalid version %q", version)
		}
		version = normalized
	}

	weighting := 1.0
	if f.Weighting != nil {
		weighting = *f.Weighting
	}

	if len(f.Tracks) == 0 {
		return nil, errors.New("motion.yaml declares no tracks")
	}

	tl := &Timeline{
		Version:   version,
		Additive:  f.Additive,
		Weighting: weighting,
	}
	for i, spec := range f.Tracks {
		track, err := newTrack(spec)
		if err != nil {
			return nil, fmt.Errorf("track %d: %w", i, err)
		}
		tl.Tracks = append(tl.Tracks, track)
	}
	return tl, nil
}

func newTrack(spec TrackSpec) (*Track, error) {
	if strings.TrimSpace(spec.Path) == "" {
		return nil, errors.New("missing path")
	}
	duration, err := time.ParseDuration(spec.Duration)
	if err != nil {
		return nil, fmt.Errorf("invalid duration %q: %w", spec.Duration, err)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("duration %q is not positive", spec.Duration)
	}
	curve, ok := easing.ByName(spec.Curve)
	if !ok {
		return nil, fmt.Errorf("unknown curve %q", spec.Curve)
	}
	return &Track{
		Path:     spec.Path,
		Duration: duration,
		Curve:    curve,
		to:       spec.To,
	}, nil
}

// Bind resolves every track against target, generates property
// descriptors through g, and applies the timeline's additive
// configuration to the group. Bound tracks sample through g until rebound.
func (tl *Timeline) Bind(g *motion.AdapterGroup, target any) error {
	g.SetAdditive(tl.Additive)
	g.SetAdditiveWeighting(tl.Weighting)
	for _, track := range tl.Tracks {
		if err := track.bind(g, target); err != nil {
			return fmt.Errorf("track %q: %w", track.Path, err)
		}
	}
	return nil
}

func (t *Track) bind(g *motion.AdapterGroup, target any) error {
	value, err := keypath.Resolve(target, t.Path)
	if err != nil {
		return err
	}

	end, err := t.destinationValue(g, value)
	if err != nil {
		return err
	}

	props, _ := g.GenerateProperties(value, t.Path, end)
	if len(props) == 0 {
		return fmt.Errorf("no adapter can animate %T", value)
	}

	// A scalar leaf reached through a nested path keeps its owner so the
	// group treats it as a normal nested property.
	if parent := keypath.Parent(t.Path); parent != "" && keypath.IsNumeric(value) {
		owner, err := keypath.Resolve(target, parent)
		if err != nil {
			return err
		}
		for _, p := range props {
			p.ParentObject = owner
		}
	}

	t.group = g
	t.value = value
	t.props = props
	t.from = make(map[string]float64, len(props))
	t.end = make(map[string]float64, len(props))
	for _, p := range props {
		t.from[p.Path] = p.Current
		to, err := t.endFor(g, p)
		if err != nil {
			return err
		}
		t.end[p.Path] = to
	}
	return nil
}

// destinationValue turns the declared destination into the boxed end
// value GenerateProperties expects for the resolved track value.
func (t *Track) destinationValue(g *motion.AdapterGroup, value any) (any, error) {
	switch t.to.kind {
	case destNumber:
		return t.to.Number, nil
	case destColor:
		return t.to.Color, nil
	case destFields:
		end, ok := g.UpdateValue(value, t.to.Fields)
		if !ok {
			return nil, fmt.Errorf("no adapter can apply fields %v to %T", t.to.Fields, value)
		}
		return end, nil
	}
	return nil, errors.New("empty destination")
}

// endFor resolves the numeric end value of one generated descriptor.
func (t *Track) endFor(g *motion.AdapterGroup, p *motion.Property) (float64, error) {
	leaf := keypath.Leaf(p.Path)
	switch t.to.kind {
	case destNumber:
		return t.to.Number, nil
	case destColor:
		return g.RetrieveValue(t.to.Color, leaf)
	case destFields:
		if v, ok := t.to.Fields[leaf]; ok {
			return v, nil
		}
		return 0, fmt.Errorf("destination declares no field %q", leaf)
	}
	return 0, errors.New("empty destination")
}

// Sample computes the track's boxed value at progress in [0, 1].
//
// Progress is eased through the track's curve, each descriptor's value is
// interpolated between its bound start and declared end, and the adapter
// group computes the boxed result: CalculateValue for a single-descriptor
// track, UpdateValue across segments for multi-descriptor (struct, color)
// tracks. ok is false when no adapter produced a value or the track is
// unbound.
func (t *Track) Sample(progress float64) (any, bool) {
	if t.group == nil || len(t.props) == 0 {
		return nil, false
	}
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	eased := t.Curve(progress)

	if len(t.props) == 1 {
		p := t.props[0]
		from := t.from[p.Path]
		return t.group.CalculateValue(p, from+(t.end[p.Path]-from)*eased)
	}

	updates := make(map[string]float64, len(t.props))
	for _, p := range t.props {
		from := t.from[p.Path]
		updates[keypath.Leaf(p.Path)] = from + (t.end[p.Path]-from)*eased
	}
	return t.group.UpdateValue(t.value, updates)
}

// SampleAt computes the track's value at an elapsed wall time, clamping
// past the track's duration.
func (t *Track) SampleAt(elapsed time.Duration) (any, bool) {
	if t.Duration <= 0 {
		return t.Sample(1)
	}
	return t.Sample(float64(elapsed) / float64(t.Duration))
}
