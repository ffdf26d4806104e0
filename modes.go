package main

// Interaction modes translate cursor gestures into canvas operations. The
// canvas itself never moves or constructs geometry; that happens here.

// endpointAt finds a strand whose start or end lies under the world point,
// searching topmost first. The returned index is 0 for start, 1 for end.
func (m *model) endpointAt(p Point) (*Strand, int) {
	strands := m.canvas.Strands()
	for i := len(strands) - 1; i >= 0; i-- {
		s := strands[i]
		if s.Kind == KindMasked {
			continue
		}
		if p.Dist(s.Start) <= s.Width/2 {
			return s, 0
		}
		if p.Dist(s.End) <= s.Width/2 {
			return s, 1
		}
	}
	return nil, -1
}

// handleAttachPress places strand endpoints. The first press anchors a new
// strand, either free or on an open endpoint of an existing strand; the
// second press fixes the far endpoint and commits the strand.
func (m *model) handleAttachPress() {
	world := m.canvas.SnapToGrid(m.worldCoords())

	if m.pendingStart == nil {
		if parent, end := m.endpointAt(m.worldCoords()); parent != nil && !parent.HasCircles[end] {
			anchor := parent.Start
			if end == 1 {
				anchor = parent.End
			}
			m.attachParent = parent
			m.pendingStart = &anchor
			return
		}
		m.attachParent = nil
		m.pendingStart = &world
		return
	}

	start := *m.pendingStart
	if pointsEqual(start, world) {
		m.setError("strand needs two distinct points")
		return
	}

	if m.attachParent != nil {
		s := NewAttachedStrand(m.attachParent, start, world)
		m.canvas.AttachStrand(m.attachParent, s)
	} else {
		s := NewStrand(start, world, m.canvas.strandWidth)
		m.canvas.CreateStrand(s)
	}
	m.pendingStart = nil
	m.attachParent = nil
}

func (m *model) cancelAttach() {
	m.pendingStart = nil
	m.attachParent = nil
}

// handleMovePress grabs a strand endpoint on the first press and drops it
// at the cursor on the second. Attachment points stay put: only the far
// endpoint of an attached strand can be grabbed.
func (m *model) handleMovePress() {
	if m.movingStrand == nil {
		s, end := m.endpointAt(m.worldCoords())
		if s == nil {
			m.setError("no strand endpoint here")
			return
		}
		if s.Kind == KindAttached && end == 0 {
			m.setError("attachment point cannot move")
			return
		}
		m.movingStrand = s
		m.movingEnd = end
		if i := m.canvas.StrandIndex(s); i >= 0 {
			m.canvas.SelectStrand(i)
		}
		return
	}

	world := m.canvas.SnapToGrid(m.worldCoords())
	if m.movingEnd == 0 {
		m.movingStrand.Start = world
	} else {
		m.movingStrand.End = world
	}
	m.movingStrand = nil
}

func (m *model) cancelMove() {
	m.movingStrand = nil
}

// handleMaskPress picks the two mask constituents on successive presses.
func (m *model) handleMaskPress() {
	s := m.canvas.StrandAtPosition(m.worldCoords())
	if s == nil {
		m.setError("no strand here")
		return
	}
	if s.Kind == KindMasked {
		m.setError("cannot mask a mask")
		return
	}
	if m.maskFirst == nil {
		m.maskFirst = s
		return
	}
	if s == m.maskFirst {
		m.setError("pick a second, different strand")
		return
	}
	if mask := m.canvas.AddMaskedStrand(m.maskFirst, s); mask != nil {
		m.setSuccess("created mask " + mask.LayerName)
	}
	m.maskFirst = nil
}

func (m *model) cancelMask() {
	m.maskFirst = nil
}

// handleSelectPress selects the topmost strand under the cursor, or
// deselects when the cursor is over empty canvas.
func (m *model) handleSelectPress() {
	s := m.canvas.StrandAtPosition(m.worldCoords())
	if s == nil {
		m.canvas.DeselectAll()
		return
	}
	if i := m.canvas.StrandIndex(s); i >= 0 {
		m.canvas.SelectStrand(i)
	}
}
