package main

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCycleSelectionResumesFromLastSelection(t *testing.T) {
	m := newTestModel()
	addRootStrand(m.canvas, 0, 0, 100, 0)
	addRootStrand(m.canvas, 0, 200, 100, 200)
	addRootStrand(m.canvas, 0, 400, 100, 400)

	m.canvas.SelectStrand(1)
	m.canvas.DeselectAll()

	m.cycleSelection(1)
	require.Equal(t, 1, m.canvas.SelectedIndex(), "resumes at the last selection")

	m.cycleSelection(1)
	require.Equal(t, 2, m.canvas.SelectedIndex())

	m.cycleSelection(1)
	require.Equal(t, 0, m.canvas.SelectedIndex(), "wraps past the top")

	m.cycleSelection(-1)
	require.Equal(t, 2, m.canvas.SelectedIndex(), "wraps past the bottom")
}

func TestHelpViewScrolls(t *testing.T) {
	m := model{}
	full := m.helpView()

	m.helpScroll = 2
	scrolled := m.helpView()
	require.NotEqual(t, full, scrolled)
	require.Equal(t,
		len(strings.Split(full, "\n"))-2,
		len(strings.Split(scrolled, "\n")))

	// Scrolling far past the end still shows the last line.
	m.helpScroll = 10000
	require.NotEmpty(t, m.helpView())
}

func TestSaveConfirmsOverwrite(t *testing.T) {
	m := newTestModel()
	m.config.SaveDirectory = t.TempDir()
	m.config.Confirmations = true
	addRootStrand(m.canvas, 0, 0, 100, 0)

	path := m.config.GetSavePath("doc.lny")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

	m.mode = ModeFileInput
	m.fileOp = FileOpSave
	m.filenameInput = "doc"

	next, _ := m.handleFileInputKey("enter")
	asked := next.(model)
	require.Equal(t, ModeConfirm, asked.mode)
	require.Equal(t, ConfirmOverwriteFile, asked.confirmAction)
	require.Equal(t, path, asked.pendingSavePath)

	// Declining leaves the file untouched.
	declinedModel, _ := asked.handleConfirmKey("n")
	declined := declinedModel.(model)
	require.Equal(t, ModeAttach, declined.mode)
	require.Empty(t, declined.pendingSavePath)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "old", string(data))

	// Accepting writes the document over it.
	confirmedModel, _ := asked.handleConfirmKey("y")
	confirmed := confirmedModel.(model)
	require.Equal(t, ModeAttach, confirmed.mode)
	require.NotEmpty(t, confirmed.successMessage)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "LANYARD"))
}

func TestSaveWithoutExistingFileSkipsConfirm(t *testing.T) {
	m := newTestModel()
	m.config.SaveDirectory = t.TempDir()
	m.config.Confirmations = true
	addRootStrand(m.canvas, 0, 0, 100, 0)

	m.mode = ModeFileInput
	m.fileOp = FileOpSave
	m.filenameInput = "fresh"

	next, _ := m.handleFileInputKey("enter")
	saved := next.(model)
	require.Equal(t, ModeAttach, saved.mode)
	require.NotEmpty(t, saved.successMessage)

	_, err := os.Stat(m.config.GetSavePath("fresh.lny"))
	require.NoError(t, err)
}
