package main

// model is the bubbletea application state wrapped around one Canvas.
type model struct {
	width  int
	height int

	cursorX  int
	cursorY  int
	panX     int
	panY     int
	zPanMode bool

	canvas *Canvas
	panel  *sidePanel
	config *Config

	mode       Mode
	help       bool
	helpScroll int

	// attach-mode state
	pendingStart *Point
	attachParent *Strand

	// move-mode state
	movingStrand *Strand
	movingEnd    int

	// mask-mode state
	maskFirst *Strand

	// file input state
	fileOp            FileOperation
	filenameInput     string
	fileList          []string
	selectedFileIndex int

	confirmAction ConfirmAction
	confirmStrand *Strand

	filename        string
	pendingSavePath string
	errorMessage    string
	successMessage  string
}
