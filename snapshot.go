package main

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// StrandRecord is one serialized strand. Cross-references (parent, mask
// constituents) are encoded as indices into the same record sequence; -1
// means absent.
type StrandRecord struct {
	Kind        StrandKind
	SetNumber   int
	LayerName   string
	Start, End  Point
	Width       float64
	StrokeWidth float64
	Color       color.RGBA
	HasCircles  [2]bool
	Parent      int
	First       int
	Second      int
}

// ExportSnapshot serializes every strand in z-order.
func (c *Canvas) ExportSnapshot() []StrandRecord {
	index := make(map[*Strand]int, len(c.strands))
	for i, s := range c.strands {
		index[s] = i
	}
	ref := func(s *Strand) int {
		if s == nil {
			return -1
		}
		if i, ok := index[s]; ok {
			return i
		}
		return -1
	}

	records := make([]StrandRecord, 0, len(c.strands))
	for _, s := range c.strands {
		records = append(records, StrandRecord{
			Kind:        s.Kind,
			SetNumber:   s.SetNumber,
			LayerName:   s.LayerName,
			Start:       s.Start,
			End:         s.End,
			Width:       s.Width,
			StrokeWidth: s.StrokeWidth,
			Color:       s.Color,
			HasCircles:  s.HasCircles,
			Parent:      ref(s.Parent),
			First:       ref(s.First),
			Second:      ref(s.Second),
		})
	}
	return records
}

// ImportSnapshot clears the canvas and rebuilds it from records. Masked
// records whose references cannot be resolved are dropped rather than left
// dangling. Selection is cleared; a layer-name pass restores consistency.
func (c *Canvas) ImportSnapshot(records []StrandRecord) {
	c.Clear()

	strands := make([]*Strand, len(records))
	for i, r := range records {
		s := &Strand{
			Start:       r.Start,
			End:         r.End,
			Width:       r.Width,
			StrokeWidth: r.StrokeWidth,
			Color:       r.Color,
			SetNumber:   r.SetNumber,
			LayerName:   r.LayerName,
			HasCircles:  r.HasCircles,
			Kind:        r.Kind,
		}
		strands[i] = s
	}

	resolve := func(idx int) *Strand {
		if idx < 0 || idx >= len(strands) {
			return nil
		}
		return strands[idx]
	}

	// Dropping a record can orphan later references to it, so references are
	// validated to a fixed point before any pointers are wired.
	for dropped := true; dropped; {
		dropped = false
		for i, r := range records {
			s := strands[i]
			if s == nil {
				continue
			}
			switch r.Kind {
			case KindAttached:
				if resolve(r.Parent) == nil {
					zap.L().Warn("dropping attached strand with unresolved parent",
						zap.String("layer", r.LayerName),
						zap.Error(ErrInvalidReference))
					strands[i] = nil
					dropped = true
				}
			case KindMasked:
				first, second := resolve(r.First), resolve(r.Second)
				if first == nil || second == nil || first == s || second == s {
					zap.L().Warn("dropping masked strand with unresolved reference",
						zap.String("layer", r.LayerName),
						zap.Error(ErrInvalidReference))
					strands[i] = nil
					dropped = true
				}
			}
		}
	}

	for i, r := range records {
		s := strands[i]
		if s == nil {
			continue
		}
		switch r.Kind {
		case KindAttached:
			parent := resolve(r.Parent)
			s.Parent = parent
			parent.AttachedStrands = append(parent.AttachedStrands, s)
		case KindMasked:
			s.First = resolve(r.First)
			s.Second = resolve(r.Second)
		}
	}

	for i, s := range strands {
		if s == nil {
			continue
		}
		c.strands = append(c.strands, s)
		if s.Kind != KindMasked {
			if _, ok := c.strandColors[s.SetNumber]; !ok {
				c.strandColors[s.SetNumber] = records[i].Color
			}
		}
	}

	c.UpdateLayerNames()
	if c.panel != nil {
		c.panel.Refresh()
	}
}

// WriteSnapshot writes the canvas in the line-oriented document format.
func (c *Canvas) WriteSnapshot(w io.Writer) error {
	records := c.ExportSnapshot()

	if _, err := fmt.Fprintf(w, "LANYARD\n"); err != nil {
		return err
	}

	sets := make([]int, 0, len(c.strandColors))
	for set := range c.strandColors {
		sets = append(sets, set)
	}
	sort.Ints(sets)
	fmt.Fprintf(w, "COLORS:%d\n", len(sets))
	for _, set := range sets {
		col := c.strandColors[set]
		fmt.Fprintf(w, "%d,%d,%d,%d,%d\n", set, col.R, col.G, col.B, col.A)
	}

	fmt.Fprintf(w, "STRANDS:%d\n", len(records))
	for _, r := range records {
		circles := [2]int{}
		for i, has := range r.HasCircles {
			if has {
				circles[i] = 1
			}
		}
		_, err := fmt.Fprintf(w, "%d,%d,%s,%s,%s,%s,%s,%s,%s,%d,%d,%d,%d,%d,%d,%d,%d,%d\n",
			int(r.Kind), r.SetNumber, r.LayerName,
			formatCoord(r.Start.X), formatCoord(r.Start.Y),
			formatCoord(r.End.X), formatCoord(r.End.Y),
			formatCoord(r.Width), formatCoord(r.StrokeWidth),
			r.Color.R, r.Color.G, r.Color.B, r.Color.A,
			circles[0], circles[1],
			r.Parent, r.First, r.Second)
		if err != nil {
			return err
		}
	}
	return nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ReadSnapshot parses the document format and loads it into the canvas.
func (c *Canvas) ReadSnapshot(r io.Reader) error {
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() || scanner.Text() != "LANYARD" {
		return fmt.Errorf("invalid file format")
	}

	if !scanner.Scan() {
		return fmt.Errorf("missing colors header")
	}
	colorCount, err := strconv.Atoi(strings.TrimPrefix(scanner.Text(), "COLORS:"))
	if err != nil {
		return fmt.Errorf("invalid color count: %v", err)
	}
	colors := make(map[int]color.RGBA, colorCount)
	for i := 0; i < colorCount; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("missing color data")
		}
		parts := strings.Split(scanner.Text(), ",")
		if len(parts) != 5 {
			return fmt.Errorf("invalid color format")
		}
		set, _ := strconv.Atoi(parts[0])
		colors[set] = color.RGBA{
			R: parseByte(parts[1]),
			G: parseByte(parts[2]),
			B: parseByte(parts[3]),
			A: parseByte(parts[4]),
		}
	}

	if !scanner.Scan() {
		return fmt.Errorf("missing strands header")
	}
	strandCount, err := strconv.Atoi(strings.TrimPrefix(scanner.Text(), "STRANDS:"))
	if err != nil {
		return fmt.Errorf("invalid strand count: %v", err)
	}
	records := make([]StrandRecord, 0, strandCount)
	for i := 0; i < strandCount; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("missing strand data")
		}
		parts := strings.Split(scanner.Text(), ",")
		if len(parts) != 18 {
			return fmt.Errorf("invalid strand format")
		}
		kind, _ := strconv.Atoi(parts[0])
		set, _ := strconv.Atoi(parts[1])
		parent, _ := strconv.Atoi(parts[15])
		first, _ := strconv.Atoi(parts[16])
		second, _ := strconv.Atoi(parts[17])
		records = append(records, StrandRecord{
			Kind:        StrandKind(kind),
			SetNumber:   set,
			LayerName:   parts[2],
			Start:       Point{parseCoord(parts[3]), parseCoord(parts[4])},
			End:         Point{parseCoord(parts[5]), parseCoord(parts[6])},
			Width:       parseCoord(parts[7]),
			StrokeWidth: parseCoord(parts[8]),
			Color: color.RGBA{
				R: parseByte(parts[9]),
				G: parseByte(parts[10]),
				B: parseByte(parts[11]),
				A: parseByte(parts[12]),
			},
			HasCircles: [2]bool{parts[13] == "1", parts[14] == "1"},
			Parent:     parent,
			First:      first,
			Second:     second,
		})
	}

	c.ImportSnapshot(records)
	// The file's stored palette wins over colors derived from records.
	for set, col := range colors {
		c.strandColors[set] = col
	}
	return nil
}

func parseByte(s string) uint8 {
	v, _ := strconv.Atoi(s)
	return uint8(v)
}

func parseCoord(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

// SaveToFile writes the canvas document to disk.
func (c *Canvas) SaveToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	w := bufio.NewWriter(file)
	if err := c.WriteSnapshot(w); err != nil {
		return err
	}
	return w.Flush()
}

// LoadFromFile replaces the canvas contents with the file's document.
func (c *Canvas) LoadFromFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	return c.ReadSnapshot(file)
}
