package main

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type viewCell struct {
	ch    rune
	color color.RGBA
	plain bool
}

var gridDotColor = color.RGBA{R: 100, G: 100, B: 100, A: 255}

// renderCanvas rasterizes the strand sequence into terminal cells, back to
// front so later strands draw over earlier ones.
func (m *model) renderCanvas(width, height int) []string {
	cells := make([][]viewCell, height)
	for y := range cells {
		cells[y] = make([]viewCell, width)
		for x := range cells[y] {
			cells[y][x] = viewCell{ch: ' ', plain: true}
		}
	}

	if m.canvas.showGrid {
		m.drawGridCells(cells, width, height)
	}

	selected := m.canvas.SelectedStrand()
	for _, s := range m.canvas.Strands() {
		m.drawStrandCells(cells, width, height, s, s == selected)
	}

	if m.canvas.showNames {
		for _, s := range m.canvas.Strands() {
			m.drawLabelCells(cells, width, height, s)
		}
	}

	m.drawMarkers(cells, width, height)

	lines := make([]string, height)
	for y := range cells {
		lines[y] = renderCellRow(cells[y])
	}
	return lines
}

func (m *model) worldToCell(p Point) (int, int) {
	return int(math.Round(p.X/cellWorldWidth)) - m.panX,
		int(math.Round(p.Y/cellWorldHeight)) - m.panY
}

func (m *model) cellToWorld(x, y int) Point {
	return Point{
		X: float64(x+m.panX) * cellWorldWidth,
		Y: float64(y+m.panY) * cellWorldHeight,
	}
}

func (m *model) drawGridCells(cells [][]viewCell, width, height int) {
	grid := m.canvas.gridSize
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			w := m.cellToWorld(x, y)
			nearX := math.Abs(w.X-math.Round(w.X/grid)*grid) < cellWorldWidth/2
			nearY := math.Abs(w.Y-math.Round(w.Y/grid)*grid) < cellWorldHeight/2
			if nearX && nearY {
				cells[y][x] = viewCell{ch: '·', color: gridDotColor}
			}
		}
	}
}

func (m *model) drawStrandCells(cells [][]viewCell, width, height int, s *Strand, highlighted bool) {
	col := s.Color
	if highlighted {
		col = highlightColor
	}

	if s.Kind == KindMasked {
		// A mask has no segment of its own; fill the cells covered by both
		// constituents.
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				if s.PathContains(m.cellToWorld(x, y)) {
					cells[y][x] = viewCell{ch: '▒', color: col}
				}
			}
		}
		return
	}

	x0, y0 := m.worldToCell(s.Start)
	x1, y1 := m.worldToCell(s.End)
	plotLine(cells, width, height, x0, y0, x1, y1, col)

	for i, has := range s.HasCircles {
		if !has {
			continue
		}
		x, y := x0, y0
		if i == 1 {
			x, y = x1, y1
		}
		plotCell(cells, width, height, x, y, viewCell{ch: '●', color: col})
	}
}

func (m *model) drawLabelCells(cells [][]viewCell, width, height int, s *Strand) {
	mid := s.MidPoint()
	x, y := m.worldToCell(mid)
	x -= len(s.LayerName) / 2
	for i, ch := range s.LayerName {
		plotCell(cells, width, height, x+i, y, viewCell{ch: ch, plain: true})
	}
}

func (m *model) drawMarkers(cells [][]viewCell, width, height int) {
	if m.pendingStart != nil {
		x, y := m.worldToCell(*m.pendingStart)
		plotCell(cells, width, height, x, y, viewCell{ch: '+', color: highlightColor})
	}
	if m.movingStrand != nil {
		p := m.movingStrand.Start
		if m.movingEnd == 1 {
			p = m.movingStrand.End
		}
		x, y := m.worldToCell(p)
		plotCell(cells, width, height, x, y, viewCell{ch: '◆', color: highlightColor})
	}
	if m.maskFirst != nil {
		x, y := m.worldToCell(m.maskFirst.MidPoint())
		plotCell(cells, width, height, x, y, viewCell{ch: '1', color: highlightColor})
	}
	plotCell(cells, width, height, m.cursorX, m.cursorY, viewCell{ch: '█', plain: true})
}

func plotCell(cells [][]viewCell, width, height, x, y int, c viewCell) {
	if x < 0 || x >= width || y < 0 || y >= height {
		return
	}
	cells[y][x] = c
}

// plotLine draws a segment between two cells with a simple DDA walk.
func plotLine(cells [][]viewCell, width, height, x0, y0, x1, y1 int, col color.RGBA) {
	steps := max(abs(x1-x0), abs(y1-y0))
	if steps == 0 {
		plotCell(cells, width, height, x0, y0, viewCell{ch: '█', color: col})
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(math.Round(float64(x0) + t*float64(x1-x0)))
		y := int(math.Round(float64(y0) + t*float64(y1-y0)))
		plotCell(cells, width, height, x, y, viewCell{ch: '█', color: col})
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// renderCellRow groups runs of equally-colored cells into styled chunks.
func renderCellRow(row []viewCell) string {
	var b strings.Builder
	i := 0
	for i < len(row) {
		if row[i].plain {
			j := i
			for j < len(row) && row[j].plain {
				b.WriteRune(row[j].ch)
				j++
			}
			i = j
			continue
		}
		col := row[i].color
		var run strings.Builder
		j := i
		for j < len(row) && !row[j].plain && row[j].color == col {
			run.WriteRune(row[j].ch)
			j++
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(
			fmt.Sprintf("#%02x%02x%02x", col.R, col.G, col.B)))
		b.WriteString(style.Render(run.String()))
		i = j
	}
	return b.String()
}
