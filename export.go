package main

import (
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

const exportPadding = 40.0

// ExportToPNG renders the canvas to an image file: grid first, then strands
// back to front so z-order is honored, labels on top.
func (c *Canvas) ExportToPNG(filename string) error {
	bounds := c.BoundingRect()
	if bounds.Empty() {
		return fmt.Errorf("nothing to export")
	}

	bounds.MinX -= exportPadding
	bounds.MinY -= exportPadding
	bounds.MaxX += exportPadding
	bounds.MaxY += exportPadding

	imageWidth := int(bounds.MaxX - bounds.MinX)
	imageHeight := int(bounds.MaxY - bounds.MinY)
	if imageWidth < 1 || imageHeight < 1 {
		return fmt.Errorf("nothing to export")
	}

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(color.White)
	dc.Clear()
	dc.Translate(-bounds.MinX, -bounds.MinY)

	if c.showGrid {
		c.drawGridPNG(dc, bounds)
	}

	for _, s := range c.strands {
		if s == c.selected {
			c.drawHighlightPNG(dc, s)
		}
		c.drawStrandPNG(dc, s)
	}

	if c.showNames {
		face, err := exportFontFace()
		if err != nil {
			return err
		}
		dc.SetFontFace(face)
		for _, s := range c.strands {
			c.drawStrandLabelPNG(dc, s)
		}
	}

	return dc.SavePNG(filename)
}

func exportFontFace() (font.Face, error) {
	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %v", err)
	}
	return truetype.NewFace(ttfFont, &truetype.Options{
		Size:    14,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

func (c *Canvas) drawGridPNG(dc *gg.Context, bounds Rect) {
	dc.SetRGBA255(200, 200, 200, 255)
	dc.SetLineWidth(1)
	startX := c.SnapToGrid(Point{bounds.MinX, bounds.MinY}).X
	startY := c.SnapToGrid(Point{bounds.MinX, bounds.MinY}).Y
	for x := startX; x <= bounds.MaxX; x += c.gridSize {
		dc.DrawLine(x, bounds.MinY, x, bounds.MaxY)
		dc.Stroke()
	}
	for y := startY; y <= bounds.MaxY; y += c.gridSize {
		dc.DrawLine(bounds.MinX, y, bounds.MaxX, y)
		dc.Stroke()
	}
}

// drawStrandPNG draws one strand: a black outline stroke with the set color
// laid over it, plus endpoint circles where children hang off. Masked
// strands draw the first constituent's body clipped to the second's.
func (c *Canvas) drawStrandPNG(dc *gg.Context, s *Strand) {
	if s.Kind == KindMasked {
		if s.First == nil || s.Second == nil {
			return
		}
		dc.Push()
		strandBodyPath(dc, s.Second)
		dc.Clip()
		drawStrandBody(dc, s.First, s.Color, s.First.StrokeWidth)
		dc.ResetClip()
		dc.Pop()
		return
	}

	drawStrandBody(dc, s, s.Color, s.StrokeWidth)

	for i, has := range s.HasCircles {
		if !has {
			continue
		}
		center := s.Start
		if i == 1 {
			center = s.End
		}
		dc.SetColor(strokeColor)
		dc.DrawCircle(center.X, center.Y, s.Width/2+s.StrokeWidth)
		dc.Fill()
		dc.SetColor(s.Color)
		dc.DrawCircle(center.X, center.Y, s.Width/2)
		dc.Fill()
	}
}

// strandBodyPath traces the strand's segment into the current path without
// stroking it, for use as a clip region.
func strandBodyPath(dc *gg.Context, s *Strand) {
	half := s.Width / 2
	dx := s.End.X - s.Start.X
	dy := s.End.Y - s.Start.Y
	length := s.Start.Dist(s.End)
	if length == 0 {
		dc.DrawCircle(s.Start.X, s.Start.Y, half)
		return
	}
	// Unit normal to the segment.
	nx := -dy / length * half
	ny := dx / length * half
	dc.MoveTo(s.Start.X+nx, s.Start.Y+ny)
	dc.LineTo(s.End.X+nx, s.End.Y+ny)
	dc.LineTo(s.End.X-nx, s.End.Y-ny)
	dc.LineTo(s.Start.X-nx, s.Start.Y-ny)
	dc.ClosePath()
}

func drawStrandBody(dc *gg.Context, s *Strand, fill color.RGBA, strokeWidth float64) {
	dc.SetColor(strokeColor)
	dc.SetLineWidth(s.Width + 2*strokeWidth)
	dc.DrawLine(s.Start.X, s.Start.Y, s.End.X, s.End.Y)
	dc.Stroke()

	dc.SetColor(fill)
	dc.SetLineWidth(s.Width)
	dc.DrawLine(s.Start.X, s.Start.Y, s.End.X, s.End.Y)
	dc.Stroke()
}

func (c *Canvas) drawHighlightPNG(dc *gg.Context, s *Strand) {
	if s.Kind == KindMasked {
		if s.First == nil || s.Second == nil {
			return
		}
		dc.Push()
		strandBodyPath(dc, s.Second)
		dc.Clip()
		drawStrandBody(dc, s.First, s.Color, s.First.StrokeWidth+4)
		dc.ResetClip()
		dc.Pop()
		return
	}
	dc.SetColor(highlightColor)
	dc.SetLineWidth(s.Width + 4*s.StrokeWidth)
	dc.DrawLine(s.Start.X, s.Start.Y, s.End.X, s.End.Y)
	dc.Stroke()
}

func (c *Canvas) drawStrandLabelPNG(dc *gg.Context, s *Strand) {
	mid := s.MidPoint()
	// White halo so the label reads over the strand body.
	dc.SetColor(color.White)
	for _, off := range []Point{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		dc.DrawStringAnchored(s.LayerName, mid.X+off.X, mid.Y+off.Y, 0.5, 0.5)
	}
	dc.SetColor(color.Black)
	dc.DrawStringAnchored(s.LayerName, mid.X, mid.Y, 0.5, 0.5)
}
