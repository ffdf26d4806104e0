package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestModel() *model {
	canvas := NewCanvas()
	return &model{
		canvas: canvas,
		panel:  newSidePanel(canvas),
		config: &Config{GridSize: defaultGridSize},
		width:  120,
		height: 40,
	}
}

func (m *model) cursorToWorld(x, y int) {
	m.cursorX = x
	m.cursorY = y
}

func TestEndpointAt(t *testing.T) {
	m := newTestModel()
	s := addRootStrand(m.canvas, 0, 0, 100, 0)

	hit, end := m.endpointAt(Point{2, 2})
	require.Same(t, s, hit)
	require.Equal(t, 0, end)

	hit, end = m.endpointAt(Point{99, 1})
	require.Same(t, s, hit)
	require.Equal(t, 1, end)

	hit, _ = m.endpointAt(Point{500, 500})
	require.Nil(t, hit)
}

func TestAttachPressCreatesStrand(t *testing.T) {
	m := newTestModel()

	m.cursorToWorld(3, 2) // world (30, 40), snaps to (30, 30)
	m.handleAttachPress()
	require.NotNil(t, m.pendingStart)
	require.Equal(t, Point{30, 30}, *m.pendingStart)
	require.Zero(t, m.canvas.StrandCount())

	m.cursorToWorld(12, 2) // world (120, 40), snaps to (120, 30)
	m.handleAttachPress()
	require.Nil(t, m.pendingStart)
	require.Equal(t, 1, m.canvas.StrandCount())

	s := m.canvas.Strands()[0]
	require.Equal(t, Point{30, 30}, s.Start)
	require.Equal(t, Point{120, 30}, s.End)
	require.Equal(t, "1_1", s.LayerName)
}

func TestAttachPressRejectsZeroLengthStrand(t *testing.T) {
	m := newTestModel()
	m.cursorToWorld(3, 2)
	m.handleAttachPress()
	m.handleAttachPress()
	require.NotEmpty(t, m.errorMessage)
	require.Zero(t, m.canvas.StrandCount())
	require.NotNil(t, m.pendingStart, "the pending start stays armed")
}

func TestAttachPressOnOpenEndpointAttaches(t *testing.T) {
	m := newTestModel()
	parent := addRootStrand(m.canvas, 0, 0, 90, 0)

	m.cursorToWorld(9, 0) // world (90, 0): parent's end
	m.handleAttachPress()
	require.Same(t, parent, m.attachParent)
	require.NotNil(t, m.pendingStart)
	require.Equal(t, parent.End, *m.pendingStart)

	m.cursorToWorld(15, 0) // world (150, 0)
	m.handleAttachPress()

	require.Equal(t, 2, m.canvas.StrandCount())
	child := m.canvas.Strands()[1]
	require.Equal(t, KindAttached, child.Kind)
	require.Same(t, parent, child.Parent)
	require.Len(t, parent.AttachedStrands, 1)
	require.True(t, parent.HasCircles[1])
	require.Equal(t, "1_2", child.LayerName)
}

func TestAttachPressSkipsOccupiedEndpoint(t *testing.T) {
	m := newTestModel()
	parent := addRootStrand(m.canvas, 0, 0, 90, 0)
	attachChild(m.canvas, parent, 150, 0)
	require.True(t, parent.HasCircles[1])

	// The occupied endpoint no longer offers itself as an anchor; the
	// press starts a free strand there instead.
	m.cursorToWorld(9, 0) // world (90, 0): the occupied attachment point
	m.handleAttachPress()
	require.Nil(t, m.attachParent)
	require.NotNil(t, m.pendingStart)
	require.Equal(t, Point{90, 0}, *m.pendingStart)
}

func TestMovePressRelocatesEndpoint(t *testing.T) {
	m := newTestModel()
	s := addRootStrand(m.canvas, 0, 0, 100, 0)

	m.cursorToWorld(10, 0) // world (100, 0): the far endpoint
	m.handleMovePress()
	require.Same(t, s, m.movingStrand)
	require.Equal(t, 1, m.movingEnd)
	require.Same(t, s, m.canvas.SelectedStrand())

	m.cursorToWorld(15, 5) // world (150, 100), snaps to (150, 90)
	m.handleMovePress()
	require.Nil(t, m.movingStrand)
	require.Equal(t, Point{150, 90}, s.End)
}

func TestMovePressRefusesAttachmentPoint(t *testing.T) {
	m := newTestModel()
	parent := addRootStrand(m.canvas, 0, 0, 100, 0)
	attachChild(m.canvas, parent, 200, 100)

	m.cursorToWorld(10, 0) // world (100, 0): the shared attachment point
	m.handleMovePress()
	require.Nil(t, m.movingStrand)
	require.NotEmpty(t, m.errorMessage)
}

func TestMaskPressComposesMask(t *testing.T) {
	m := newTestModel()
	s1 := addRootStrand(m.canvas, 0, 0, 200, 0)
	s2 := addRootStrand(m.canvas, 100, -100, 100, 100)

	m.cursorToWorld(1, 0) // world (10, 0): only s1
	m.handleMaskPress()
	require.Same(t, s1, m.maskFirst)

	m.cursorToWorld(10, 4) // world (100, 80): only s2
	m.handleMaskPress()
	require.Nil(t, m.maskFirst)
	require.Equal(t, 3, m.canvas.StrandCount())

	mask := m.canvas.Strands()[2]
	require.Equal(t, KindMasked, mask.Kind)
	require.Same(t, s1, mask.First)
	require.Same(t, s2, mask.Second)
	require.Equal(t, "1_1_2_1", mask.LayerName)
}

func TestMaskPressRejectsMaskingAMask(t *testing.T) {
	m := newTestModel()
	s1 := addRootStrand(m.canvas, 0, 0, 200, 0)
	s2 := addRootStrand(m.canvas, 100, -100, 100, 100)
	m.canvas.AddMaskedStrand(s1, s2)

	m.cursorToWorld(10, 0) // world (100, 0): the mask is topmost there
	m.handleMaskPress()
	require.Nil(t, m.maskFirst)
	require.NotEmpty(t, m.errorMessage)
}

func TestSelectPress(t *testing.T) {
	m := newTestModel()
	s := addRootStrand(m.canvas, 0, 0, 100, 0)
	m.canvas.DeselectAll()

	m.cursorToWorld(5, 0)
	m.handleSelectPress()
	require.Same(t, s, m.canvas.SelectedStrand())

	m.cursorToWorld(50, 20)
	m.handleSelectPress()
	require.Nil(t, m.canvas.SelectedStrand())
}
