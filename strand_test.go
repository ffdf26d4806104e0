package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPathContains(t *testing.T) {
	s := NewStrand(Point{0, 0}, Point{100, 0}, 40)

	require.True(t, s.PathContains(Point{50, 0}))
	require.True(t, s.PathContains(Point{50, 19}))
	require.False(t, s.PathContains(Point{50, 21}))
	require.False(t, s.PathContains(Point{150, 0}), "beyond the segment cap")

	// An endpoint circle extends the hit area past the cap.
	s.HasCircles[1] = true
	require.True(t, s.PathContains(Point{115, 0}))
	require.False(t, s.PathContains(Point{125, 0}))
}

func TestPathContainsDegenerateSegment(t *testing.T) {
	s := NewStrand(Point{10, 10}, Point{10, 10}, 20)
	require.True(t, s.PathContains(Point{15, 10}))
	require.False(t, s.PathContains(Point{25, 10}))
}

func TestBoundingBoxPadsForWidthAndStroke(t *testing.T) {
	s := NewStrand(Point{0, 0}, Point{100, 50}, 40)
	b := s.BoundingBox()
	pad := 40.0/2 + defaultStrokeWidth
	require.Equal(t, -pad, b.MinX)
	require.Equal(t, -pad, b.MinY)
	require.Equal(t, 100+pad, b.MaxX)
	require.Equal(t, 50+pad, b.MaxY)
}

func TestMaskedStrandGeometryIsOverlap(t *testing.T) {
	horiz := NewStrand(Point{0, 0}, Point{200, 0}, 40)
	vert := NewStrand(Point{100, -100}, Point{100, 100}, 40)
	mask := NewMaskedStrand(horiz, vert)

	require.True(t, mask.PathContains(Point{100, 0}), "inside both strands")
	require.False(t, mask.PathContains(Point{10, 0}), "inside only the horizontal strand")
	require.False(t, mask.PathContains(Point{100, 80}), "inside only the vertical strand")

	b := mask.BoundingBox()
	require.False(t, b.Empty())
	inner := Rect{MinX: 80, MinY: -20, MaxX: 120, MaxY: 20}
	require.LessOrEqual(t, b.MinX, inner.MinX)
	require.GreaterOrEqual(t, b.MaxX, inner.MaxX)
}

func TestMaskedStrandDisjointConstituents(t *testing.T) {
	a := NewStrand(Point{0, 0}, Point{10, 0}, 10)
	b := NewStrand(Point{500, 500}, Point{510, 500}, 10)
	mask := NewMaskedStrand(a, b)
	require.True(t, mask.BoundingBox().Empty())
	require.False(t, mask.PathContains(Point{5, 0}))
}

func TestNewAttachedStrandInheritsStyle(t *testing.T) {
	parent := NewStrand(Point{0, 0}, Point{100, 0}, 30)
	parent.Color = colorPalette[1]
	child := NewAttachedStrand(parent, parent.End, Point{200, 50})

	require.Equal(t, KindAttached, child.Kind)
	require.Equal(t, parent.End, child.Start)
	require.Equal(t, parent.Width, child.Width)
	require.Equal(t, parent.Color, child.Color)
	require.Same(t, parent, child.Parent)
	require.True(t, child.HasCircles[0], "attachment point carries a circle")
}

func TestRectUnionIntersect(t *testing.T) {
	a := Rect{0, 0, 10, 10}
	b := Rect{5, 5, 20, 20}
	u := a.Union(b)
	require.Equal(t, Rect{0, 0, 20, 20}, u)
	require.Equal(t, Rect{5, 5, 10, 10}, a.Intersect(b))

	var empty Rect
	require.Equal(t, a, a.Union(empty))
	require.Equal(t, a, empty.Union(a))
	require.True(t, a.Intersect(Rect{50, 50, 60, 60}).Empty())
}

func TestParseLayerName(t *testing.T) {
	set, index, err := parseLayerName("3_2")
	require.NoError(t, err)
	require.Equal(t, 3, set)
	require.Equal(t, 2, index)

	// Masked composite names parse by their leading parts.
	set, index, err = parseLayerName("1_2_3_4")
	require.NoError(t, err)
	require.Equal(t, 1, set)
	require.Equal(t, 2, index)

	for _, bad := range []string{"", "3", "x_1", "1_y"} {
		_, _, err := parseLayerName(bad)
		require.ErrorIs(t, err, ErrMalformedLayerName, "input %q", bad)
	}
}
