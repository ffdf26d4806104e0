package main

import "image/color"

type Mode int

const (
	ModeAttach Mode = iota
	ModeMove
	ModeMask
	ModeFileInput
	ModeConfirm
)

type FileOperation int

const (
	FileOpSave FileOperation = iota
	FileOpSavePNG
	FileOpOpen
)

type ConfirmAction int

const (
	ConfirmDeleteStrand ConfirmAction = iota
	ConfirmNewCanvas
	ConfirmQuit
	ConfirmOverwriteFile
)

const (
	defaultStrandWidth = 55.0
	defaultStrokeWidth = 5.0
	defaultGridSize    = 30.0

	// Terminal cells are taller than wide, so world units map to cells at
	// different horizontal and vertical scales.
	cellWorldWidth  = 10.0
	cellWorldHeight = 20.0

	panelWidth = 26
)

var (
	defaultStrandColor = color.RGBA{R: 128, G: 0, B: 128, A: 255} // purple
	strokeColor        = color.RGBA{A: 255}
	highlightColor     = color.RGBA{R: 255, A: 255}

	// colorPalette is the cycle order for the set-color key.
	colorPalette = []color.RGBA{
		{R: 128, G: 0, B: 128, A: 255},   // purple
		{R: 0, G: 100, B: 255, A: 255},   // blue
		{R: 0, G: 160, B: 70, A: 255},    // green
		{R: 255, G: 140, B: 0, A: 255},   // orange
		{R: 220, G: 40, B: 40, A: 255},   // red
		{R: 0, G: 170, B: 170, A: 255},   // teal
		{R: 200, G: 60, B: 180, A: 255},  // magenta
		{R: 140, G: 100, B: 60, A: 255},  // brown
	}
)
