package main

import (
	"bytes"
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildDocument assembles a canvas with two sets, an attachment chain, and
// a mask, so every record variant shows up in a snapshot.
func buildDocument(t *testing.T) *Canvas {
	t.Helper()
	c := NewCanvas()
	s1 := addRootStrand(c, 0, 0, 100, 0)
	a1 := attachChild(c, s1, 200, 50)
	s2 := addRootStrand(c, 50, -100, 50, 100)
	c.UpdateColorForSet(2, color.RGBA{B: 255, A: 255})
	mask := c.AddMaskedStrand(a1, s2)
	require.NotNil(t, mask)
	return c
}

func requireCanvasesEqual(t *testing.T, want, got *Canvas) {
	t.Helper()
	require.Equal(t, want.StrandCount(), got.StrandCount())
	for i, ws := range want.Strands() {
		gs := got.Strands()[i]
		require.Equal(t, ws.Kind, gs.Kind, "strand %d kind", i)
		require.Equal(t, ws.LayerName, gs.LayerName, "strand %d layer name", i)
		require.Equal(t, ws.SetNumber, gs.SetNumber, "strand %d set", i)
		require.Equal(t, ws.Start, gs.Start, "strand %d start", i)
		require.Equal(t, ws.End, gs.End, "strand %d end", i)
		require.Equal(t, ws.Width, gs.Width, "strand %d width", i)
		require.Equal(t, ws.Color, gs.Color, "strand %d color", i)
		require.Equal(t, ws.HasCircles, gs.HasCircles, "strand %d circles", i)
	}
	require.Equal(t, want.strandColors, got.strandColors)
}

func TestSnapshotRoundTrip(t *testing.T) {
	c := buildDocument(t)

	records := c.ExportSnapshot()
	restored := NewCanvas()
	restored.ImportSnapshot(records)

	requireCanvasesEqual(t, c, restored)
	require.Nil(t, restored.SelectedStrand(), "selection does not survive import")

	// Relationships are rebuilt as live references, not just copied fields.
	var child, mask *Strand
	for _, s := range restored.Strands() {
		switch s.Kind {
		case KindAttached:
			child = s
		case KindMasked:
			mask = s
		}
	}
	require.NotNil(t, child)
	require.Same(t, restored.FindParentStrand(child), child.Parent)
	require.True(t, child.Parent.HasCircles[1])
	require.NotNil(t, mask)
	require.GreaterOrEqual(t, restored.StrandIndex(mask.First), 0)
	require.GreaterOrEqual(t, restored.StrandIndex(mask.Second), 0)
}

func TestSnapshotRoundTripThroughWriter(t *testing.T) {
	c := buildDocument(t)

	var buf bytes.Buffer
	require.NoError(t, c.WriteSnapshot(&buf))

	restored := NewCanvas()
	require.NoError(t, restored.ReadSnapshot(&buf))
	requireCanvasesEqual(t, c, restored)
}

func TestSnapshotFileRoundTrip(t *testing.T) {
	c := buildDocument(t)
	path := filepath.Join(t.TempDir(), "doc.lny")

	require.NoError(t, c.SaveToFile(path))
	restored := NewCanvas()
	require.NoError(t, restored.LoadFromFile(path))
	requireCanvasesEqual(t, c, restored)
}

func TestImportDropsMaskWithUnresolvedReference(t *testing.T) {
	c := buildDocument(t)
	records := c.ExportSnapshot()

	// Point the mask at a record that does not exist.
	for i := range records {
		if records[i].Kind == KindMasked {
			records[i].Second = len(records) + 5
		}
	}

	restored := NewCanvas()
	restored.ImportSnapshot(records)
	for _, s := range restored.Strands() {
		require.NotEqual(t, KindMasked, s.Kind, "dangling mask must be dropped")
	}
	require.Equal(t, c.StrandCount()-1, restored.StrandCount())
}

func TestImportDropsAttachedWithUnresolvedParent(t *testing.T) {
	c := buildDocument(t)
	records := c.ExportSnapshot()

	for i := range records {
		if records[i].Kind == KindAttached {
			records[i].Parent = -1
		}
	}

	restored := NewCanvas()
	restored.ImportSnapshot(records)
	for _, s := range restored.Strands() {
		require.NotEqual(t, KindAttached, s.Kind)
	}
}

func TestImportDropsMaskWhoseConstituentIsDropped(t *testing.T) {
	// The mask's first constituent is an attached strand that itself gets
	// dropped for lacking a parent; the mask must go with it even though it
	// precedes the attached record.
	records := []StrandRecord{
		{Kind: KindMasked, SetNumber: 1, LayerName: "1_2_1_1", First: 1, Second: 2, Parent: -1},
		{Kind: KindAttached, SetNumber: 1, LayerName: "1_2", Parent: -1, First: -1, Second: -1},
		{Kind: KindBasic, SetNumber: 1, LayerName: "1_1", Parent: -1, First: -1, Second: -1},
	}

	c := NewCanvas()
	c.ImportSnapshot(records)

	require.Equal(t, 1, c.StrandCount())
	for _, s := range c.Strands() {
		require.NotEqual(t, KindAttached, s.Kind)
		if s.Kind == KindMasked {
			require.GreaterOrEqual(t, c.StrandIndex(s.First), 0, "mask constituents must be in the collection")
			require.GreaterOrEqual(t, c.StrandIndex(s.Second), 0, "mask constituents must be in the collection")
		}
	}
}

func TestImportRestoresInvariants(t *testing.T) {
	c := buildDocument(t)
	records := c.ExportSnapshot()

	// Garble the stored names; import renumbers from scratch.
	for i := range records {
		if records[i].Kind != KindMasked {
			records[i].LayerName = "99_99"
		}
	}

	restored := NewCanvas()
	restored.ImportSnapshot(records)
	requireLayerNamesDense(t, restored)
}

func TestReadSnapshotRejectsBadHeader(t *testing.T) {
	c := NewCanvas()
	err := c.ReadSnapshot(strings.NewReader("FLOWCHART\n"))
	require.Error(t, err)
}
