// Package ring lays out the concentric sleep-stage rings: arc lengths for
// stroke dashing and anchor points for the stage markers.
package ring

import (
	"fmt"
	"math"
)

const (
	Size        = 260.0
	Center      = Size / 2
	StrokeWidth = 32.0
)

type Stage string

const (
	StageAwake Stage = "awake"
	StageLight Stage = "light"
	StageDeep  Stage = "deep"
)

// IconKind names the marker drawn at the end of an arc. The presentation
// layer resolves it to a glyph.
type IconKind string

const (
	IconActivity IconKind = "activity"
	IconBrain    IconKind = "brain"
	IconPlus     IconKind = "plus"
)

type Segment struct {
	Time     string  `json:"time"`
	Fraction float64 `json:"fraction"`
	Color    string  `json:"color"`
}

type Breakdown struct {
	Awake Segment `json:"awake"`
	Light Segment `json:"light"`
	Deep  Segment `json:"deep"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Ring struct {
	Stage         Stage    `json:"stage"`
	Radius        float64  `json:"radius"`
	Circumference float64  `json:"circumference"`
	DashLength    float64  `json:"dash_length"`
	DashArray     string   `json:"dash_array"`
	Color         string   `json:"color"`
	TrackColor    string   `json:"track_color"`
	Icon          IconKind `json:"icon"`
	Anchor        Point    `json:"anchor"`
}

type Chart struct {
	Size        float64 `json:"size"`
	Center      Point   `json:"center"`
	StrokeWidth float64 `json:"stroke_width"`
	// Rotation applied to every arc so drawing starts at 12 o'clock.
	Rotation float64 `json:"rotation"`
	Rings    []Ring  `json:"rings"`
}

var layout = []struct {
	stage  Stage
	radius float64
	track  string
	icon   IconKind
}{
	{StageAwake, 100, "#DCDCDC", IconActivity},
	{StageLight, 65, "#EBEBEB", IconBrain},
	{StageDeep, 30, "#F5F5F5", IconPlus},
}

func (b Breakdown) segment(s Stage) Segment {
	switch s {
	case StageAwake:
		return b.Awake
	case StageLight:
		return b.Light
	default:
		return b.Deep
	}
}

// Layout computes the three rings, outermost first. Fractions are used as
// given; values outside [0,1] yield over- or under-length arcs.
func Layout(b Breakdown) Chart {
	c := Chart{
		Size:        Size,
		Center:      Point{X: Center, Y: Center},
		StrokeWidth: StrokeWidth,
		Rotation:    -90,
		Rings:       make([]Ring, 0, len(layout)),
	}
	for _, l := range layout {
		seg := b.segment(l.stage)
		circ := Circumference(l.radius)
		dash := seg.Fraction * circ
		c.Rings = append(c.Rings, Ring{
			Stage:         l.stage,
			Radius:        l.radius,
			Circumference: circ,
			DashLength:    dash,
			DashArray:     fmt.Sprintf("%g %g", dash, circ),
			Color:         seg.Color,
			TrackColor:    l.track,
			Icon:          l.icon,
			Anchor:        Anchor(l.radius, seg.Fraction),
		})
	}
	return c
}

func Circumference(radius float64) float64 {
	return 2 * math.Pi * radius
}

// Anchor is the end point of an arc of the given fraction drawn clockwise
// from 12 o'clock around the chart center. Screen coordinates: y grows down.
func Anchor(radius, fraction float64) Point {
	rad := (fraction*360 - 90) * math.Pi / 180
	return Point{
		X: Center + radius*math.Cos(rad),
		Y: Center + radius*math.Sin(rad),
	}
}
