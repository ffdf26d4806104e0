package main

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Sentinel errors for degraded canvas operations. The mutation entry points
// never propagate these to the UI; they log a warning and no-op instead.
var (
	ErrStrandNotFound     = errors.New("strand not found in canvas")
	ErrInvalidReference   = errors.New("masked strand reference cannot be resolved")
	ErrMalformedLayerName = errors.New("malformed layer name")
)

// parseLayerName splits a "{set}_{index}" layer name into its parts.
// Masked names carry extra parts; only the leading two are read.
func parseLayerName(name string) (setNumber, index int, err error) {
	parts := strings.Split(name, "_")
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedLayerName, name)
	}
	setNumber, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedLayerName, name)
	}
	index, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedLayerName, name)
	}
	return setNumber, index, nil
}

// LayerPanel receives structural-change notifications from the canvas.
// The TUI side panel implements it; tests plug in a recorder.
type LayerPanel interface {
	AddLayerButton(setNumber, count int)
	UpdateLayerNames(setNumber int)
	OnColorChanged(setNumber int, c color.RGBA)
	OnStrandAttached()
	Refresh()
	UpdateAttachableStates()
}

// Canvas owns the ordered strand sequence (back to front), the per-set
// colors, and the current selection. All strand bookkeeping goes through it.
type Canvas struct {
	strands           []*Strand
	strandColors      map[int]color.RGBA
	selected          *Strand
	selectedIndex     int
	lastSelectedIndex int

	panel LayerPanel

	strandWidth  float64
	strokeWidth  float64
	defaultColor color.RGBA

	gridSize  float64
	showGrid  bool
	showNames bool
}

func NewCanvas() *Canvas {
	return &Canvas{
		strands:           make([]*Strand, 0),
		strandColors:      make(map[int]color.RGBA),
		selectedIndex:     -1,
		lastSelectedIndex: -1,
		strandWidth:       defaultStrandWidth,
		strokeWidth:       defaultStrokeWidth,
		defaultColor:      defaultStrandColor,
		gridSize:          defaultGridSize,
		showGrid:          true,
	}
}

// SetLayerPanel connects the side panel for structural notifications.
func (c *Canvas) SetLayerPanel(p LayerPanel) {
	c.panel = p
}

// Strands exposes the ordered sequence for read-only iteration (rendering).
func (c *Canvas) Strands() []*Strand { return c.strands }

func (c *Canvas) StrandCount() int { return len(c.strands) }

// StrandIndex returns the z-order index of a strand, or -1 if absent.
func (c *Canvas) StrandIndex(s *Strand) int {
	for i, cur := range c.strands {
		if cur == s {
			return i
		}
	}
	return -1
}

// ColorForSet returns the stored color for a set.
func (c *Canvas) ColorForSet(setNumber int) (color.RGBA, bool) {
	col, ok := c.strandColors[setNumber]
	return col, ok
}

// CreateStrand registers a new strand with the canvas and returns the set
// number it was assigned. Attached strands inherit their parent's set, a
// current selection donates its set, and otherwise a brand-new set opens.
func (c *Canvas) CreateStrand(s *Strand) int {
	return c.createStrand(s, false)
}

// createStrand is the two-phase form: midDeletion suppresses the
// panel-button side effects while a deletion cascade rebuilds bookkeeping.
func (c *Canvas) createStrand(s *Strand, midDeletion bool) int {
	var setNumber int
	switch {
	case s.Kind == KindAttached && s.Parent != nil:
		setNumber = s.Parent.SetNumber
	case c.selected != nil:
		setNumber = c.selected.SetNumber
	default:
		setNumber = c.maxSetNumber() + 1
	}
	s.SetNumber = setNumber

	if _, ok := c.strandColors[setNumber]; !ok {
		c.strandColors[setNumber] = c.defaultColor
	}
	s.SetColor(c.strandColors[setNumber])

	c.strands = append(c.strands, s)

	count := c.countInSet(setNumber)
	s.LayerName = fmt.Sprintf("%d_%d", setNumber, count)

	if c.panel != nil {
		if !midDeletion {
			zap.L().Info("adding layer button",
				zap.Int("set", setNumber), zap.Int("count", count))
			c.panel.AddLayerButton(setNumber, count)
		} else {
			c.panel.UpdateLayerNames(setNumber)
		}
		c.panel.OnColorChanged(setNumber, c.strandColors[setNumber])
	}

	if s.Kind != KindAttached {
		c.SelectStrand(len(c.strands) - 1)
	}

	if c.panel != nil {
		c.panel.UpdateAttachableStates()
	}
	return setNumber
}

// AttachStrand binds a new strand as a child of parent and registers it.
// Geometry is the caller's business; this only maintains bookkeeping.
func (c *Canvas) AttachStrand(parent, s *Strand) {
	c.attachStrand(parent, s, false)
}

func (c *Canvas) attachStrand(parent, s *Strand, midDeletion bool) {
	if c.StrandIndex(parent) < 0 {
		zap.L().Warn("attach to strand not on canvas",
			zap.String("layer", parent.LayerName),
			zap.Error(ErrStrandNotFound))
		return
	}
	parent.AttachedStrands = append(parent.AttachedStrands, s)
	s.Parent = parent
	s.Kind = KindAttached
	s.SetNumber = parent.SetNumber

	// The parent endpoint the child hangs off gets a circle.
	if pointsEqual(s.Start, parent.Start) {
		parent.HasCircles[0] = true
	} else if pointsEqual(s.Start, parent.End) {
		parent.HasCircles[1] = true
	}

	c.strands = append(c.strands, s)

	count := c.countInSet(s.SetNumber)
	s.LayerName = fmt.Sprintf("%d_%d", s.SetNumber, count)

	if col, ok := c.strandColors[s.SetNumber]; ok {
		s.SetColor(col)
	}

	if c.panel != nil {
		if !midDeletion {
			c.panel.AddLayerButton(s.SetNumber, count)
		} else {
			c.panel.UpdateLayerNames(s.SetNumber)
		}
		c.panel.OnStrandAttached()
	}
}

// AddMaskedStrand composes a masked strand over two existing strands. The
// mask joins the first constituent's set and takes its stored color.
func (c *Canvas) AddMaskedStrand(first, second *Strand) *Strand {
	if c.StrandIndex(first) < 0 || c.StrandIndex(second) < 0 {
		zap.L().Warn("mask over strand not on canvas", zap.Error(ErrStrandNotFound))
		return nil
	}
	mask := NewMaskedStrand(first, second)
	mask.SetNumber = first.SetNumber
	mask.LayerName = MaskedLayerName(first, second)
	if col, ok := c.strandColors[first.SetNumber]; ok {
		mask.SetColor(col)
	}
	c.strands = append(c.strands, mask)
	if c.panel != nil {
		c.panel.Refresh()
	}
	return mask
}

// UpdateColorForSet stores a set's color and propagates it to every strand
// in the set and everything transitively attached beneath them. Masked
// strands match by layer-name prefix since their names are composite.
func (c *Canvas) UpdateColorForSet(setNumber int, col color.RGBA) {
	c.strandColors[setNumber] = col
	prefix := fmt.Sprintf("%d_", setNumber)
	for _, s := range c.strands {
		if s.Kind == KindMasked {
			if strings.HasPrefix(s.LayerName, prefix) {
				s.SetColor(col)
				c.updateAttachedStrandsColor(s, col)
			}
		} else if s.SetNumber == setNumber {
			s.SetColor(col)
			c.updateAttachedStrandsColor(s, col)
		}
	}
	if c.panel != nil {
		c.panel.OnColorChanged(setNumber, col)
	}
}

func (c *Canvas) updateAttachedStrandsColor(parent *Strand, col color.RGBA) {
	for _, attached := range parent.AttachedStrands {
		attached.SetColor(col)
		c.updateAttachedStrandsColor(attached, col)
	}
}

func (c *Canvas) maxSetNumber() int {
	maxSet := 0
	for set := range c.strandColors {
		if set > maxSet {
			maxSet = set
		}
	}
	return maxSet
}

// countInSet counts a set's members in sequence order. Masked strands never
// count toward set numbering; their names are composite.
func (c *Canvas) countInSet(setNumber int) int {
	count := 0
	for _, s := range c.strands {
		if s.Kind != KindMasked && s.SetNumber == setNumber {
			count++
		}
	}
	return count
}

// RemoveStrand deletes a strand and everything that depends on it. Deleting
// a set's main strand (index 1) removes the whole set plus any mask touching
// it and closes the set-number gap; deleting any other strand removes just
// it and its masks, then renumbers the affected set.
func (c *Canvas) RemoveStrand(strand *Strand) {
	log := zap.L()
	log.Info("removing strand", zap.String("layer", strand.LayerName))
	if c.StrandIndex(strand) < 0 {
		log.Warn("strand not on canvas",
			zap.String("layer", strand.LayerName),
			zap.Error(ErrStrandNotFound))
		return
	}

	setNumber, strandNumber, err := parseLayerName(strand.LayerName)
	if err != nil {
		// Treated as a non-main strand: remove just it and its masks.
		log.Warn("cannot parse layer name, treating as non-main",
			zap.String("layer", strand.LayerName), zap.Error(err))
		setNumber = strand.SetNumber
		strandNumber = 0
	}
	isMainStrand := strandNumber == 1

	var strandsToRemove, masksToRemove []*Strand
	for _, s := range c.strands {
		if isMainStrand {
			if c.isRelatedStrand(s, setNumber) {
				strandsToRemove = append(strandsToRemove, s)
			} else if s.Kind == KindMasked &&
				(c.isRelatedStrand(s.First, setNumber) || c.isRelatedStrand(s.Second, setNumber)) {
				masksToRemove = append(masksToRemove, s)
			}
		} else {
			if s == strand {
				strandsToRemove = append(strandsToRemove, s)
			} else if s.Kind == KindMasked && (s.First == strand || s.Second == strand) {
				masksToRemove = append(masksToRemove, s)
			}
		}
	}

	for _, s := range append(strandsToRemove, masksToRemove...) {
		if i := c.StrandIndex(s); i >= 0 {
			c.strands = append(c.strands[:i], c.strands[i+1:]...)
			log.Info("removed strand", zap.String("layer", s.LayerName))
			if c.selected == s {
				c.selected = nil
				c.selectedIndex = -1
			}
		}
	}

	// Unlink an attached strand from its parent and drop the circle on the
	// endpoint it hung off.
	if strand.Kind == KindAttached {
		if parent := c.FindParentStrand(strand); parent != nil {
			for i, attached := range parent.AttachedStrands {
				if attached == strand {
					parent.AttachedStrands = append(parent.AttachedStrands[:i], parent.AttachedStrands[i+1:]...)
					break
				}
			}
			if pointsEqual(strand.Start, parent.Start) {
				parent.HasCircles[0] = false
			} else if pointsEqual(strand.Start, parent.End) {
				parent.HasCircles[1] = false
			}
		}
	}

	if !isMainStrand {
		c.updateLayerNamesForSet(setNumber)
	} else {
		c.updateSetNumbers(setNumber)
	}

	// Removals earlier in z-order shift the surviving selection's index.
	c.resyncSelection()

	if c.panel != nil {
		c.panel.Refresh()
	}
}

// isRelatedStrand reports whether a strand belongs to a set, matching by
// layer-name parts so composite masked names are caught by substring
// presence. This loose matching rule is deliberate; the deletion cascade
// depends on it.
func (c *Canvas) isRelatedStrand(s *Strand, setNumber int) bool {
	if s == nil {
		return false
	}
	parts := strings.Split(s.LayerName, "_")
	want := strconv.Itoa(setNumber)
	if len(parts) > 0 && parts[0] == want {
		return true
	}
	if len(parts) > 2 {
		for _, part := range parts {
			if part == want {
				return true
			}
		}
	}
	return false
}

// updateLayerNamesForSet renumbers one set's members in sequence order.
func (c *Canvas) updateLayerNamesForSet(setNumber int) {
	count := 1
	for _, s := range c.strands {
		if s.Kind == KindMasked || s.SetNumber != setNumber {
			continue
		}
		newName := fmt.Sprintf("%d_%d", setNumber, count)
		if s.LayerName != newName {
			zap.L().Info("renamed strand",
				zap.String("from", s.LayerName), zap.String("to", newName))
			s.LayerName = newName
		}
		count++
	}
	c.refreshMaskedNames()
	if c.panel != nil {
		c.panel.UpdateLayerNames(setNumber)
	}
}

// updateSetNumbers closes the gap a deleted set leaves behind: every higher
// set shifts down by one and the color map is re-keyed to match.
func (c *Canvas) updateSetNumbers(deletedSetNumber int) {
	for _, s := range c.strands {
		if s.Kind != KindMasked && s.SetNumber > deletedSetNumber {
			s.SetNumber--
		}
	}

	newColors := make(map[int]color.RGBA, len(c.strandColors))
	for set, col := range c.strandColors {
		switch {
		case set == deletedSetNumber:
			// dropped with the set
		case set > deletedSetNumber:
			newColors[set-1] = col
		default:
			newColors[set] = col
		}
	}
	c.strandColors = newColors

	c.UpdateLayerNames()
	if c.panel != nil {
		c.panel.Refresh()
	}
}

// UpdateLayerNames recomputes every layer name from scratch by counting set
// members in sequence order. Masked names are rebuilt from their
// constituents afterward so they track any renumbering.
func (c *Canvas) UpdateLayerNames() {
	setCounts := make(map[int]int)
	affectedSet := -1
	for _, s := range c.strands {
		if s.Kind == KindMasked {
			continue
		}
		setCounts[s.SetNumber]++
		newName := fmt.Sprintf("%d_%d", s.SetNumber, setCounts[s.SetNumber])
		if newName != s.LayerName {
			affectedSet = s.SetNumber
			s.LayerName = newName
		}
	}
	c.refreshMaskedNames()
	if c.panel != nil && affectedSet != -1 {
		c.panel.UpdateLayerNames(affectedSet)
	}
}

// refreshMaskedNames re-derives composite names and set numbers from mask
// constituents.
func (c *Canvas) refreshMaskedNames() {
	for _, s := range c.strands {
		if s.Kind != KindMasked || s.First == nil || s.Second == nil {
			continue
		}
		s.SetNumber = s.First.SetNumber
		s.LayerName = MaskedLayerName(s.First, s.Second)
	}
}

// FindParentStrand finds the strand whose attached list contains s.
func (c *Canvas) FindParentStrand(attached *Strand) *Strand {
	for _, s := range c.strands {
		for _, child := range s.AttachedStrands {
			if child == attached {
				return s
			}
		}
	}
	return nil
}

// SelectStrand selects a strand by z-order index. Out-of-range indices
// clear the selection.
func (c *Canvas) SelectStrand(index int) {
	if index >= 0 && index < len(c.strands) {
		c.selected = c.strands[index]
		c.selectedIndex = index
		c.lastSelectedIndex = index
	} else {
		c.selected = nil
		c.selectedIndex = -1
	}
}

func (c *Canvas) SelectedStrand() *Strand { return c.selected }

func (c *Canvas) SelectedIndex() int { return c.selectedIndex }

// LastSelectedIndex remembers where the selection last was, surviving a
// deselect so cycling can resume from there.
func (c *Canvas) LastSelectedIndex() int { return c.lastSelectedIndex }

func (c *Canvas) DeselectAll() {
	c.selected = nil
	c.selectedIndex = -1
}

// StrandAtPosition returns the topmost strand whose outline contains p.
func (c *Canvas) StrandAtPosition(p Point) *Strand {
	for i := len(c.strands) - 1; i >= 0; i-- {
		if c.strands[i].PathContains(p) {
			return c.strands[i]
		}
	}
	return nil
}

// MoveStrandToFront relocates a strand to the top of the drawing order.
func (c *Canvas) MoveStrandToFront(strand *Strand) {
	i := c.StrandIndex(strand)
	if i < 0 {
		return
	}
	c.strands = append(c.strands[:i], c.strands[i+1:]...)
	c.strands = append(c.strands, strand)
	c.resyncSelection()
}

// MoveStrandToBack relocates a strand to the bottom of the drawing order.
func (c *Canvas) MoveStrandToBack(strand *Strand) {
	i := c.StrandIndex(strand)
	if i < 0 {
		return
	}
	c.strands = append(c.strands[:i], c.strands[i+1:]...)
	c.strands = append([]*Strand{strand}, c.strands...)
	c.resyncSelection()
}

func (c *Canvas) resyncSelection() {
	if c.selected != nil {
		c.selectedIndex = c.StrandIndex(c.selected)
	}
}

// BoundingRect unions every strand's bounding box; empty when no strands.
func (c *Canvas) BoundingRect() Rect {
	var out Rect
	for _, s := range c.strands {
		out = out.Union(s.BoundingBox())
	}
	return out
}

// Clear removes every strand and selection but keeps canvas settings.
func (c *Canvas) Clear() {
	c.strands = c.strands[:0]
	c.strandColors = make(map[int]color.RGBA)
	c.selected = nil
	c.selectedIndex = -1
	c.lastSelectedIndex = -1
	if c.panel != nil {
		c.panel.Refresh()
	}
}

// SnapToGrid rounds a point to the nearest grid intersection.
func (c *Canvas) SnapToGrid(p Point) Point {
	return Point{
		X: math.Round(p.X/c.gridSize) * c.gridSize,
		Y: math.Round(p.Y/c.gridSize) * c.gridSize,
	}
}

func (c *Canvas) ToggleGrid() { c.showGrid = !c.showGrid }

func (c *Canvas) SetGridSize(size float64) {
	if size > 0 {
		c.gridSize = size
	}
}

func (c *Canvas) ToggleNames() { c.showNames = !c.showNames }

func (c *Canvas) SetStrandWidth(w float64) {
	if w >= 0 {
		c.strandWidth = w
	}
}

func (c *Canvas) SetDefaultStrandColor(col color.RGBA) {
	c.defaultColor = col
}
