package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/atotto/clipboard"
)

// worldCoords maps the cursor cell (plus pan offset) to world coordinates.
func (m *model) worldCoords() Point {
	return Point{
		X: float64(m.cursorX+m.panX) * cellWorldWidth,
		Y: float64(m.cursorY+m.panY) * cellWorldHeight,
	}
}

func (m *model) ensureCursorInBounds() {
	maxX := m.width - panelWidth - 1
	maxY := m.height - 2
	if m.cursorX < 0 {
		m.cursorX = 0
	}
	if maxX >= 0 && m.cursorX > maxX {
		m.cursorX = maxX
	}
	if m.cursorY < 0 {
		m.cursorY = 0
	}
	if maxY >= 0 && m.cursorY > maxY {
		m.cursorY = maxY
	}
}

func (m *model) setError(msg string) {
	m.errorMessage = msg
	m.successMessage = ""
}

func (m *model) setSuccess(msg string) {
	m.successMessage = msg
	m.errorMessage = ""
}

func (m *model) clearMessages() {
	m.errorMessage = ""
	m.successMessage = ""
}

// copySnapshotToClipboard puts the serialized document on the clipboard.
func (m *model) copySnapshotToClipboard() error {
	var b strings.Builder
	if err := m.canvas.WriteSnapshot(&b); err != nil {
		return err
	}
	return clipboard.WriteAll(b.String())
}

// pasteSnapshotFromClipboard replaces the canvas with a document from the
// clipboard, if one is there.
func (m *model) pasteSnapshotFromClipboard() error {
	text, err := readClipboardText()
	if err != nil {
		return err
	}
	return m.canvas.ReadSnapshot(strings.NewReader(text))
}

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
		if output, err := exec.Command("pbpaste").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

// scanDocumentFiles lists saved .lny documents in the save directory.
func (m *model) scanDocumentFiles() {
	m.fileList = nil
	dir := m.config.SaveDirectory
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".lny") {
			m.fileList = append(m.fileList, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(m.fileList)
	m.selectedFileIndex = 0
}
