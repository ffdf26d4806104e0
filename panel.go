package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// sidePanel is the TUI layer panel. The canvas notifies it of structural
// changes through the LayerPanel interface; the panel rebuilds its button
// list from the canvas on each notification rather than patching in place.
type sidePanel struct {
	canvas  *Canvas
	entries []panelEntry
}

type panelEntry struct {
	layerName  string
	setNumber  int
	color      color.RGBA
	masked     bool
	attachable bool
}

var (
	panelBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), false, false, false, true).
				PaddingLeft(1).
				Width(panelWidth)
	panelTitleStyle = lipgloss.NewStyle().Bold(true)
	panelSelStyle   = lipgloss.NewStyle().Reverse(true)
	panelDimStyle   = lipgloss.NewStyle().Faint(true)
)

func newSidePanel(canvas *Canvas) *sidePanel {
	p := &sidePanel{canvas: canvas}
	canvas.SetLayerPanel(p)
	return p
}

func (p *sidePanel) rebuild() {
	p.entries = p.entries[:0]
	for _, s := range p.canvas.Strands() {
		p.entries = append(p.entries, panelEntry{
			layerName:  s.LayerName,
			setNumber:  s.SetNumber,
			color:      s.Color,
			masked:     s.Kind == KindMasked,
			attachable: s.Kind != KindMasked && (!s.HasCircles[0] || !s.HasCircles[1]),
		})
	}
}

func (p *sidePanel) AddLayerButton(setNumber, count int) { p.rebuild() }

func (p *sidePanel) UpdateLayerNames(setNumber int) { p.rebuild() }

func (p *sidePanel) OnColorChanged(setNumber int, c color.RGBA) { p.rebuild() }

func (p *sidePanel) OnStrandAttached() { p.rebuild() }

func (p *sidePanel) Refresh() { p.rebuild() }

func (p *sidePanel) UpdateAttachableStates() { p.rebuild() }

// SelectLayer is the panel-to-canvas command for picking a layer by index.
func (p *sidePanel) SelectLayer(index int) {
	p.canvas.SelectStrand(index)
}

// SetColorForSet is the panel-to-canvas color command.
func (p *sidePanel) SetColorForSet(setNumber int, c color.RGBA) {
	p.canvas.UpdateColorForSet(setNumber, c)
}

// DeleteLayer removes the strand behind a panel entry, cascading as the
// canvas dictates.
func (p *sidePanel) DeleteLayer(index int) {
	strands := p.canvas.Strands()
	if index < 0 || index >= len(strands) {
		return
	}
	p.canvas.RemoveStrand(strands[index])
}

func colorSwatch(c color.RGBA) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(
		fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)))
	return style.Render("■")
}

// render draws the panel, one line per layer, topmost layer first.
func (p *sidePanel) render(height int) string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Layers"))
	b.WriteString("\n")

	selected := p.canvas.SelectedIndex()
	lines := 1
	for i := len(p.entries) - 1; i >= 0 && lines < height; i-- {
		e := p.entries[i]
		label := fmt.Sprintf("%s %s", colorSwatch(e.color), e.layerName)
		if e.masked {
			label += " (mask)"
		}
		switch {
		case i == selected:
			b.WriteString(panelSelStyle.Render(label))
		case !e.attachable:
			b.WriteString(panelDimStyle.Render(label))
		default:
			b.WriteString(label)
		}
		b.WriteString("\n")
		lines++
	}
	return panelBorderStyle.Height(height).Render(b.String())
}
