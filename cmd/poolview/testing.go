package main

import (
	tea "github.com/charmbracelet/bubbletea"
)

// TestHelper provides utilities for driving the TUI without a terminal
type TestHelper struct {
	model Model
}

// NewTestHelper creates a test helper with a model backed by a fresh pool
func NewTestHelper(capacity uint64) (*TestHelper, error) {
	m, err := NewModel(capacity)
	if err != nil {
		return nil, err
	}
	return &TestHelper{model: m}, nil
}

// Close releases the pool behind the model
func (h *TestHelper) Close() error {
	return h.model.Close()
}

// SendKey simulates a special key press. Returned commands are discarded;
// tests inspect model state directly.
func (h *TestHelper) SendKey(keyType tea.KeyType) *TestHelper {
	msg := tea.KeyMsg{Type: keyType}
	updated, _ := h.model.Update(msg)
	h.model = updated.(Model)
	return h
}

// SendKeyRune simulates a character key press
func (h *TestHelper) SendKeyRune(r rune) *TestHelper {
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
	updated, _ := h.model.Update(msg)
	h.model = updated.(Model)
	return h
}

// SendWindowSize simulates a window resize
func (h *TestHelper) SendWindowSize(width, height int) *TestHelper {
	msg := tea.WindowSizeMsg{Width: width, Height: height}
	updated, _ := h.model.Update(msg)
	h.model = updated.(Model)
	return h
}

// GetModel returns the current model
func (h *TestHelper) GetModel() Model {
	return h.model
}

// GetView returns the rendered view
func (h *TestHelper) GetView() string {
	return h.model.View()
}

// GetAllocCount returns the number of listed allocations
func (h *TestHelper) GetAllocCount() int {
	return len(h.model.allocs)
}

// GetCursor returns the allocation cursor position
func (h *TestHelper) GetCursor() int {
	return h.model.cursor
}
