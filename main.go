package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	var l *zap.Logger
	var err error
	if *debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatal(err)
	}
	defer l.Sync()
	zap.ReplaceGlobals(l)

	p := tea.NewProgram(
		initialModel(),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		l.Fatal("program exited", zap.Error(err))
	}
}

func initialModel() model {
	config := loadConfig()
	canvas := NewCanvas()
	config.apply(canvas)
	panel := newSidePanel(canvas)

	return model{
		canvas: canvas,
		panel:  panel,
		config: config,
		mode:   ModeAttach,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorInBounds()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m model) handleKey(key string) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModeFileInput:
		return m.handleFileInputKey(key)
	case ModeConfirm:
		return m.handleConfirmKey(key)
	}
	return m.handleCanvasKey(key)
}

func (m model) handleCanvasKey(key string) (tea.Model, tea.Cmd) {
	if m.help {
		switch key {
		case "ctrl+c":
			return m, tea.Quit
		case "j", "down":
			m.helpScroll++
		case "k", "up":
			if m.helpScroll > 0 {
				m.helpScroll--
			}
		default:
			m.help = false
		}
		return m, nil
	}

	switch key {
	case "h", "j", "k", "l", "H", "J", "K", "L",
		"left", "right", "up", "down",
		"shift+left", "shift+right", "shift+up", "shift+down":
		return m.handleNavigation(key, m.getMoveSpeed(key))
	case "z":
		m.zPanMode = !m.zPanMode
		return m, nil
	case "?":
		m.help = !m.help
		m.helpScroll = 0
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		if m.config.Confirmations {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmQuit
			return m, nil
		}
		return m, tea.Quit
	case "a":
		m.mode = ModeAttach
		m.cancelMove()
		m.cancelMask()
		return m, nil
	case "m":
		m.mode = ModeMove
		m.cancelAttach()
		m.cancelMask()
		return m, nil
	case "x":
		m.mode = ModeMask
		m.cancelAttach()
		m.cancelMove()
		return m, nil
	case " ":
		m.clearMessages()
		switch m.mode {
		case ModeAttach:
			m.handleAttachPress()
		case ModeMove:
			m.handleMovePress()
		case ModeMask:
			m.handleMaskPress()
		}
		return m, nil
	case "enter":
		m.handleSelectPress()
		return m, nil
	case "esc":
		m.cancelAttach()
		m.cancelMove()
		m.cancelMask()
		m.canvas.DeselectAll()
		m.clearMessages()
		return m, nil
	case "tab":
		m.cycleSelection(1)
		return m, nil
	case "shift+tab":
		m.cycleSelection(-1)
		return m, nil
	case "d":
		if s := m.canvas.SelectedStrand(); s != nil {
			if m.config.Confirmations {
				m.mode = ModeConfirm
				m.confirmAction = ConfirmDeleteStrand
				m.confirmStrand = s
			} else {
				m.canvas.RemoveStrand(s)
			}
		}
		return m, nil
	case "c":
		m.cycleSelectedSetColor()
		return m, nil
	case "f":
		if s := m.canvas.SelectedStrand(); s != nil {
			m.canvas.MoveStrandToFront(s)
		}
		return m, nil
	case "b":
		if s := m.canvas.SelectedStrand(); s != nil {
			m.canvas.MoveStrandToBack(s)
		}
		return m, nil
	case "g":
		m.canvas.ToggleGrid()
		return m, nil
	case "n":
		m.canvas.ToggleNames()
		return m, nil
	case "N":
		m.mode = ModeConfirm
		m.confirmAction = ConfirmNewCanvas
		return m, nil
	case "s":
		m.mode = ModeFileInput
		m.fileOp = FileOpSave
		m.filenameInput = strings.TrimSuffix(filepath.Base(m.filename), ".lny")
		return m, nil
	case "o":
		m.mode = ModeFileInput
		m.fileOp = FileOpOpen
		m.scanDocumentFiles()
		return m, nil
	case "e":
		m.mode = ModeFileInput
		m.fileOp = FileOpSavePNG
		m.filenameInput = ""
		return m, nil
	case "y":
		if err := m.copySnapshotToClipboard(); err != nil {
			m.setError("clipboard copy failed: " + err.Error())
		} else {
			m.setSuccess("copied document to clipboard")
		}
		return m, nil
	case "p":
		if err := m.pasteSnapshotFromClipboard(); err != nil {
			m.setError("clipboard paste failed: " + err.Error())
		} else {
			m.setSuccess("pasted document from clipboard")
		}
		return m, nil
	}

	// Number keys select panel layers directly.
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		m.panel.SelectLayer(int(key[0] - '1'))
		return m, nil
	}
	return m, nil
}

func (m *model) cycleSelection(delta int) {
	count := m.canvas.StrandCount()
	if count == 0 {
		return
	}
	next := m.canvas.SelectedIndex()
	if next < 0 {
		// Nothing selected: resume from wherever the selection last was.
		next = m.canvas.LastSelectedIndex()
		if next < 0 || next >= count {
			next = 0
		}
	} else {
		next += delta
		if next < 0 {
			next = count - 1
		}
		if next >= count {
			next = 0
		}
	}
	m.canvas.SelectStrand(next)
}

func (m *model) cycleSelectedSetColor() {
	s := m.canvas.SelectedStrand()
	if s == nil {
		m.setError("no strand selected")
		return
	}
	current, _ := m.canvas.ColorForSet(s.SetNumber)
	next := 0
	for i, col := range colorPalette {
		if col == current {
			next = (i + 1) % len(colorPalette)
			break
		}
	}
	m.panel.SetColorForSet(s.SetNumber, colorPalette[next])
}

func (m model) handleConfirmKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "Y":
		switch m.confirmAction {
		case ConfirmQuit:
			return m, tea.Quit
		case ConfirmDeleteStrand:
			if m.confirmStrand != nil {
				m.canvas.RemoveStrand(m.confirmStrand)
				m.confirmStrand = nil
			}
		case ConfirmNewCanvas:
			m.canvas.Clear()
			m.filename = ""
		case ConfirmOverwriteFile:
			m.saveDocument(m.pendingSavePath)
			m.pendingSavePath = ""
		}
		m.mode = ModeAttach
		return m, nil
	case "n", "N", "esc":
		m.confirmStrand = nil
		m.pendingSavePath = ""
		m.mode = ModeAttach
		return m, nil
	}
	return m, nil
}

func (m model) handleFileInputKey(key string) (tea.Model, tea.Cmd) {
	if m.fileOp == FileOpOpen {
		switch key {
		case "esc":
			m.mode = ModeAttach
			return m, nil
		case "j", "down":
			if m.selectedFileIndex < len(m.fileList)-1 {
				m.selectedFileIndex++
			}
			return m, nil
		case "k", "up":
			if m.selectedFileIndex > 0 {
				m.selectedFileIndex--
			}
			return m, nil
		case "enter":
			if m.selectedFileIndex >= 0 && m.selectedFileIndex < len(m.fileList) {
				path := m.fileList[m.selectedFileIndex]
				if err := m.canvas.LoadFromFile(path); err != nil {
					m.setError("open failed: " + err.Error())
				} else {
					m.filename = path
					m.setSuccess("opened " + filepath.Base(path))
				}
			}
			m.mode = ModeAttach
			return m, nil
		}
		return m, nil
	}

	switch key {
	case "esc":
		m.mode = ModeAttach
		return m, nil
	case "enter":
		name := strings.TrimSpace(m.filenameInput)
		if name == "" {
			m.setError("filename required")
			m.mode = ModeAttach
			return m, nil
		}
		switch m.fileOp {
		case FileOpSave:
			path := m.config.GetSavePath(name + ".lny")
			if _, err := os.Stat(path); err == nil && m.config.Confirmations && path != m.filename {
				m.mode = ModeConfirm
				m.confirmAction = ConfirmOverwriteFile
				m.pendingSavePath = path
				return m, nil
			}
			m.saveDocument(path)
		case FileOpSavePNG:
			path := m.config.GetSavePath(name + ".png")
			if err := m.canvas.ExportToPNG(path); err != nil {
				m.setError("export failed: " + err.Error())
			} else {
				m.setSuccess("exported " + filepath.Base(path))
			}
		}
		m.mode = ModeAttach
		return m, nil
	case "backspace":
		if len(m.filenameInput) > 0 {
			m.filenameInput = m.filenameInput[:len(m.filenameInput)-1]
		}
		return m, nil
	}
	if len(key) == 1 {
		m.filenameInput += key
	}
	return m, nil
}

func (m *model) saveDocument(path string) {
	if err := m.canvas.SaveToFile(path); err != nil {
		m.setError("save failed: " + err.Error())
	} else {
		m.filename = path
		m.setSuccess("saved " + filepath.Base(path))
	}
}

var (
	statusStyle  = lipgloss.NewStyle().Reverse(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func (m model) View() string {
	if m.width < 1 || m.height < 1 {
		return ""
	}
	if m.help {
		return m.helpView()
	}

	canvasWidth := m.width - panelWidth
	if canvasWidth < 1 {
		canvasWidth = 1
	}
	canvasHeight := m.height - 1
	if canvasHeight < 1 {
		canvasHeight = 1
	}

	if m.mode == ModeFileInput && m.fileOp == FileOpOpen {
		return m.fileListView(canvasHeight)
	}

	m.panel.rebuild()
	canvasLines := m.renderCanvas(canvasWidth, canvasHeight)
	left := strings.Join(canvasLines, "\n")
	right := m.panel.render(canvasHeight)
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	return body + "\n" + m.statusBar()
}

func (m model) fileListView(height int) string {
	var b strings.Builder
	b.WriteString("Select a saved document:\n")
	b.WriteString(strings.Repeat("─", m.width))
	b.WriteString("\n")
	if len(m.fileList) == 0 {
		b.WriteString("(No .lny files found)\n")
	}
	for i, file := range m.fileList {
		name := strings.TrimSuffix(filepath.Base(file), ".lny")
		if i == m.selectedFileIndex {
			b.WriteString(statusStyle.Render("> " + name))
		} else {
			b.WriteString("  " + name)
		}
		b.WriteString("\n")
	}
	b.WriteString("\nj/k: navigate  enter: open  esc: cancel")
	return b.String()
}

func (m model) statusBar() string {
	var parts []string
	parts = append(parts, m.modeString())
	if m.filename != "" {
		parts = append(parts, filepath.Base(m.filename))
	}
	if s := m.canvas.SelectedStrand(); s != nil {
		parts = append(parts, "sel:"+s.LayerName)
	}
	parts = append(parts, fmt.Sprintf("%d strands", m.canvas.StrandCount()))
	if m.mode == ModeFileInput {
		parts = append(parts, "name: "+m.filenameInput+"▏")
	}

	left := statusStyle.Render(" " + strings.Join(parts, " │ ") + " ")
	switch {
	case m.errorMessage != "":
		return left + " " + errorStyle.Render(m.errorMessage)
	case m.successMessage != "":
		return left + " " + successStyle.Render(m.successMessage)
	}
	return left + " ?: help"
}

func (m model) modeString() string {
	switch m.mode {
	case ModeAttach:
		if m.pendingStart != nil {
			if m.attachParent != nil {
				return "ATTACH (to " + m.attachParent.LayerName + ")"
			}
			return "ATTACH (placing)"
		}
		return "ATTACH"
	case ModeMove:
		if m.movingStrand != nil {
			return "MOVE (" + m.movingStrand.LayerName + ")"
		}
		return "MOVE"
	case ModeMask:
		if m.maskFirst != nil {
			return "MASK (" + m.maskFirst.LayerName + " + ?)"
		}
		return "MASK"
	case ModeFileInput:
		switch m.fileOp {
		case FileOpSave:
			return "SAVE"
		case FileOpSavePNG:
			return "EXPORT"
		default:
			return "OPEN"
		}
	case ModeConfirm:
		switch m.confirmAction {
		case ConfirmQuit:
			return "Quit? (y/n)"
		case ConfirmDeleteStrand:
			return "Delete strand? (y/n)"
		case ConfirmNewCanvas:
			return "Discard canvas? (y/n)"
		case ConfirmOverwriteFile:
			return "Overwrite " + filepath.Base(m.pendingSavePath) + "? (y/n)"
		default:
			return "Confirm? (y/n)"
		}
	}
	return ""
}

func (m model) helpView() string {
	lines := strings.Split(helpText, "\n")
	start := m.helpScroll
	if start > len(lines)-1 {
		start = len(lines) - 1
	}
	if start < 0 {
		start = 0
	}
	return strings.Join(lines[start:], "\n")
}

const helpText = `Lanyard Studio — keys

  Navigation
    h j k l / arrows     move cursor (shift: faster)
    z                    toggle pan mode

  Modes
    a                    attach mode: space places start then end;
                         starting on an open strand endpoint attaches
    m                    move mode: space grabs an endpoint, space drops it
    x                    mask mode: space picks two strands to overlap

  Strands
    enter                select strand under cursor
    tab / shift+tab      cycle selection
    1-9                  select layer by panel position
    c                    cycle the selected set's color
    d                    delete selected strand (cascades)
    f / b                move selected strand to front / back

  Canvas
    g                    toggle grid        n    toggle names
    s                    save               o    open
    e                    export PNG         N    new canvas
    y / p                copy / paste document via clipboard

    ?                    toggle this help   q    quit

  In this help: j/k scroll, any other key closes.
`
