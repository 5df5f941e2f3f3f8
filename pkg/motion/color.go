package motion

import (
	"fmt"
	"image/color"
	"math"

	"github.com/go-drift/motion/pkg/keypath"
)

// ColorAdapter animates [image/color.Color] values.
//
// A color is an opaque composite: its channels are not independently
// settable from outside, so every computed value replaces the color
// wholesale. Channels are addressed as the sub-properties "r", "g", "b"
// and "a" (long forms "red", "green", "blue", "alpha" also resolve) on a
// 0–255 scale, non-premultiplied.
type ColorAdapter struct {
	AdapterBase
}

// NewColorAdapter creates a color adapter with weighting 1.0.
func NewColorAdapter() *ColorAdapter {
	a := &ColorAdapter{}
	a.SetAdditiveWeighting(1)
	return a
}

// Supports reports whether obj implements [image/color.Color].
func (a *ColorAdapter) Supports(obj any) bool {
	_, ok := obj.(color.Color)
	return ok
}

// AcceptsKeypath reports false: keypaths cannot continue through an opaque
// color value.
func (a *ColorAdapter) AcceptsKeypath(obj any) bool {
	return false
}

// GenerateProperties produces one descriptor per channel whose value
// differs between obj and the destination color. Generation fails when
// the destination is not a color or no channel changes.
func (a *ColorAdapter) GenerateProperties(obj any, path string, end any) ([]*Property, error) {
	const op = "motion.ColorAdapter.GenerateProperties"

	from, ok := obj.(color.Color)
	if !ok {
		return nil, &Error{Op: op, Kind: KindGeneration, Err: fmt.Errorf("%T is not a color", obj)}
	}
	to, ok := end.(color.Color)
	if !ok {
		return nil, &Error{Op: op, Kind: KindGeneration, Err: fmt.Errorf("destination %T is not a color", end)}
	}

	start := channels(from)
	dest := channels(to)
	var props []*Property
	for _, ch := range [4]string{"r", "g", "b", "a"} {
		if start[ch] == dest[ch] {
			continue
		}
		props = append(props, &Property{
			Path:    joinPath(path, ch),
			Target:  obj,
			Current: start[ch],
		})
	}
	if len(props) == 0 {
		return nil, &Error{Op: op, Kind: KindGeneration, Err: fmt.Errorf("no channel changes for %q", path)}
	}
	return props, nil
}

// RetrieveValue returns the channel named by the keypath's trailing
// segment.
func (a *ColorAdapter) RetrieveValue(obj any, path string) (float64, error) {
	const op = "motion.ColorAdapter.RetrieveValue"
	c, ok := obj.(color.Color)
	if !ok {
		return 0, &Error{Op: op, Kind: KindRetrieve, Err: fmt.Errorf("%T is not a color", obj)}
	}
	ch, ok := channelName(keypath.Leaf(path))
	if !ok {
		return 0, &Error{Op: op, Kind: KindRetrieve, Err: fmt.Errorf("unknown channel %q", keypath.Leaf(path))}
	}
	return channels(c)[ch], nil
}

// UpdateValue writes the supplied channel values into a copy of obj and
// returns the resulting [image/color.NRGBA]. ok is false when no segment
// names a channel.
func (a *ColorAdapter) UpdateValue(obj any, newValues map[string]float64) (any, bool) {
	c, ok := obj.(color.Color)
	if !ok {
		return nil, false
	}
	out := color.NRGBAModel.Convert(c).(color.NRGBA)
	applied := false
	for segment, value := range newValues {
		ch, ok := channelName(keypath.Leaf(segment))
		if !ok {
			continue
		}
		b := channelByte(value)
		switch ch {
		case "r":
			out.R = b
		case "g":
			out.G = b
		case "b":
			out.B = b
		case "a":
			out.A = b
		}
		applied = true
	}
	if !applied {
		return nil, false
	}
	return out, true
}

// RetrieveCurrentObjectValue reads the channel named by the descriptor
// path's trailing segment from the descriptor's Target.
func (a *ColorAdapter) RetrieveCurrentObjectValue(p *Property) (float64, bool) {
	v, err := a.RetrieveValue(p.Target, p.Path)
	if err != nil {
		return 0, false
	}
	return v, true
}

// CalculateValue blends newValue for the descriptor's channel and returns
// the replacement color. The descriptor's Target is advanced to the new
// color and Current to the blended channel value, so successive channel
// calculations against the same descriptor chain compose.
func (a *ColorAdapter) CalculateValue(p *Property, newValue float64) (any, bool) {
	blended := a.blend(p.Current, newValue)
	out, ok := a.UpdateValue(p.Target, map[string]float64{keypath.Leaf(p.Path): blended})
	if !ok {
		return nil, false
	}
	p.Target = out
	p.Current = blended
	return out, true
}

// channels decomposes a color into non-premultiplied 0–255 channel values.
func channels(c color.Color) map[string]float64 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return map[string]float64{
		"r": float64(n.R),
		"g": float64(n.G),
		"b": float64(n.B),
		"a": float64(n.A),
	}
}

func channelName(segment string) (string, bool) {
	switch segment {
	case "r", "red":
		return "r", true
	case "g", "green":
		return "g", true
	case "b", "blue":
		return "b", true
	case "a", "alpha":
		return "a", true
	}
	return "", false
}

func channelByte(v float64) uint8 {
	return uint8(math.Round(math.Min(255, math.Max(0, v))))
}
