package main

import (
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseHexColor(t *testing.T) {
	cases := []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{"#800080", color.RGBA{128, 0, 128, 255}, true},
		{"ff0000", color.RGBA{255, 0, 0, 255}, true},
		{"#00ff0080", color.RGBA{0, 255, 0, 128}, true},
		{"#fff", color.RGBA{}, false},
		{"zzzzzz", color.RGBA{}, false},
		{"", color.RGBA{}, false},
	}
	for _, tc := range cases {
		got, err := parseHexColor(tc.in)
		if !tc.ok {
			require.Error(t, err, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		require.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestGetSavePath(t *testing.T) {
	c := &Config{}
	require.Equal(t, "doc.lny", c.GetSavePath("doc.lny"))

	dir := t.TempDir()
	c.SaveDirectory = filepath.Join(dir, "docs")
	require.Equal(t, filepath.Join(dir, "docs", "doc.lny"), c.GetSavePath("doc.lny"))
}

func TestConfigApply(t *testing.T) {
	canvas := NewCanvas()
	c := &Config{
		GridSize:     15,
		ShowGrid:     false,
		StrandWidth:  40,
		DefaultColor: color.RGBA{10, 20, 30, 255},
	}
	c.apply(canvas)

	require.Equal(t, Point{15, 30}, canvas.SnapToGrid(Point{16, 23}))
	require.False(t, canvas.showGrid)

	addRootStrand(canvas, 0, 0, 100, 0)
	got, ok := canvas.ColorForSet(1)
	require.True(t, ok)
	require.Equal(t, c.DefaultColor, got)
}
