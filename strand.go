package main

import (
	"image/color"
	"math"
)

// Point is a 2D coordinate in world (pixel) space.
type Point struct {
	X, Y float64
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

const pointEpsilon = 1e-6

func pointsEqual(p, q Point) bool {
	return math.Abs(p.X-q.X) < pointEpsilon && math.Abs(p.Y-q.Y) < pointEpsilon
}

// Rect is an axis-aligned bounding rectangle.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

func (r Rect) Empty() bool {
	return r.MaxX <= r.MinX || r.MaxY <= r.MinY
}

func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	return Rect{
		MinX: math.Min(r.MinX, o.MinX),
		MinY: math.Min(r.MinY, o.MinY),
		MaxX: math.Max(r.MaxX, o.MaxX),
		MaxY: math.Max(r.MaxY, o.MaxY),
	}
}

func (r Rect) Intersect(o Rect) Rect {
	out := Rect{
		MinX: math.Max(r.MinX, o.MinX),
		MinY: math.Max(r.MinY, o.MinY),
		MaxX: math.Min(r.MaxX, o.MaxX),
		MaxY: math.Min(r.MaxY, o.MaxY),
	}
	if out.Empty() {
		return Rect{}
	}
	return out
}

// StrandKind discriminates the strand variants.
type StrandKind int

const (
	KindBasic StrandKind = iota
	KindAttached
	KindMasked
)

func (k StrandKind) String() string {
	switch k {
	case KindBasic:
		return "basic"
	case KindAttached:
		return "attached"
	case KindMasked:
		return "masked"
	default:
		return "unknown"
	}
}

// Strand is a single drawable curve segment. The three variants share this
// one struct: Kind tells them apart, Parent is set for attached strands and
// First/Second are set for masked strands. Masked strands have no geometry
// of their own; their shape is the overlap of the two referenced strands.
type Strand struct {
	Start, End  Point
	Width       float64
	StrokeWidth float64
	Color       color.RGBA
	SetNumber   int
	LayerName   string
	HasCircles  [2]bool // endpoint decoration: [start, end]

	Kind            StrandKind
	Parent          *Strand // attached strands only
	AttachedStrands []*Strand

	First, Second *Strand // masked strands only
}

// NewStrand creates a root strand between two points.
func NewStrand(start, end Point, width float64) *Strand {
	return &Strand{
		Start:       start,
		End:         end,
		Width:       width,
		StrokeWidth: defaultStrokeWidth,
		Color:       defaultStrandColor,
		Kind:        KindBasic,
	}
}

// NewAttachedStrand creates a child strand anchored at one of the parent's
// endpoints. The caller positions the far endpoint.
func NewAttachedStrand(parent *Strand, anchor, end Point) *Strand {
	return &Strand{
		Start:       anchor,
		End:         end,
		Width:       parent.Width,
		StrokeWidth: parent.StrokeWidth,
		Color:       parent.Color,
		Kind:        KindAttached,
		Parent:      parent,
		HasCircles:  [2]bool{true, false}, // the attachment point is occupied
	}
}

// NewMaskedStrand creates a strand representing the visual overlap of two
// other strands. Geometry mirrors the first constituent so midpoint labels
// and ordering have something to anchor on.
func NewMaskedStrand(first, second *Strand) *Strand {
	return &Strand{
		Start:       first.Start,
		End:         first.End,
		Width:       first.Width,
		StrokeWidth: first.StrokeWidth,
		Color:       first.Color,
		Kind:        KindMasked,
		First:       first,
		Second:      second,
	}
}

// MaskedLayerName composes a masked strand's display name from both
// constituents, e.g. "1_2_3_1".
func MaskedLayerName(first, second *Strand) string {
	return first.LayerName + "_" + second.LayerName
}

// MidPoint returns the center of the strand's segment.
func (s *Strand) MidPoint() Point {
	if s.Kind == KindMasked && s.First != nil {
		b := s.BoundingBox()
		return Point{(b.MinX + b.MaxX) / 2, (b.MinY + b.MaxY) / 2}
	}
	return Point{(s.Start.X + s.End.X) / 2, (s.Start.Y + s.End.Y) / 2}
}

// inSegmentBody reports whether p lies inside the flat-capped rectangle a
// strand's stroked segment covers.
func inSegmentBody(p, a, b Point, halfWidth float64) bool {
	ab := b.Sub(a)
	lenSq := ab.X*ab.X + ab.Y*ab.Y
	if lenSq == 0 {
		return p.Dist(a) <= halfWidth
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / lenSq
	if t < 0 || t > 1 {
		return false
	}
	closest := Point{a.X + t*ab.X, a.Y + t*ab.Y}
	return p.Dist(closest) <= halfWidth
}

// PathContains reports whether p lies inside the strand's filled outline:
// the flat-capped segment body plus any endpoint circles. For masked
// strands the outline is the overlap of both constituents.
func (s *Strand) PathContains(p Point) bool {
	if s.Kind == KindMasked {
		if s.First == nil || s.Second == nil {
			return false
		}
		return s.First.PathContains(p) && s.Second.PathContains(p)
	}
	if inSegmentBody(p, s.Start, s.End, s.Width/2) {
		return true
	}
	for i, has := range s.HasCircles {
		if !has {
			continue
		}
		center := s.Start
		if i == 1 {
			center = s.End
		}
		if p.Dist(center) <= s.Width/2 {
			return true
		}
	}
	return false
}

// BoundingBox returns the strand's axis-aligned bounds, padded for width
// and stroke. A masked strand's bounds are the intersection of its
// constituents' bounds.
func (s *Strand) BoundingBox() Rect {
	if s.Kind == KindMasked {
		if s.First == nil || s.Second == nil {
			return Rect{}
		}
		return s.First.BoundingBox().Intersect(s.Second.BoundingBox())
	}
	pad := s.Width/2 + s.StrokeWidth
	return Rect{
		MinX: math.Min(s.Start.X, s.End.X) - pad,
		MinY: math.Min(s.Start.Y, s.End.Y) - pad,
		MaxX: math.Max(s.Start.X, s.End.X) + pad,
		MaxY: math.Max(s.Start.Y, s.End.Y) + pad,
	}
}

// SetColor sets the strand's fill color.
func (s *Strand) SetColor(c color.RGBA) {
	s.Color = c
}
