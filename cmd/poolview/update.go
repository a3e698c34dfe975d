package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joshuapare/poolkit/cmd/poolview/logger"
	"github.com/joshuapare/poolkit/internal/format"
	"github.com/joshuapare/poolkit/pool/verify"
)

// Update handles all messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case clearStatusMsg:
		m.statusMessage = ""
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// If help is showing, handle help keys
	if m.showHelp {
		if key.Matches(msg, m.keys.Esc) || key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Quit) {
			m.showHelp = false
			return m, nil
		}
		// Ignore other keys when help is showing
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.allocs)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Home):
		m.cursor = 0
		return m, nil

	case key.Matches(msg, m.keys.End):
		if len(m.allocs) > 0 {
			m.cursor = len(m.allocs) - 1
		}
		return m, nil

	case key.Matches(msg, m.keys.Alloc):
		return m.handleAlloc()

	case key.Matches(msg, m.keys.Free):
		return m.handleFree()

	case key.Matches(msg, m.keys.Corrupt):
		return m.handleCorrupt()

	case key.Matches(msg, m.keys.ClearPoison):
		return m.handleClearPoison()

	case key.Matches(msg, m.keys.Verify):
		return m.handleVerify()
	}

	return m, nil
}

func (m Model) handleAlloc() (tea.Model, tea.Cmd) {
	size := allocSizes[m.sizeIdx%len(allocSizes)]

	ref, payload, err := m.pool.Alloc(size)
	if err != nil {
		logger.Debug("alloc failed", "size", size, "error", err)
		return m.setStatus(fmt.Sprintf("alloc %d B: %v", size, err))
	}

	m.sizeIdx++
	m.allocs = append(m.allocs, allocation{
		ref:    ref,
		size:   size,
		blocks: uint64(len(payload))/format.BlockSize + format.MetaBlocks,
	})
	m.cursor = len(m.allocs) - 1

	logger.Debug("alloc", "size", size, "ref", uint64(ref))
	return m.setStatus(fmt.Sprintf("allocated %d B at ref 0x%x", size, uint64(ref)))
}

func (m Model) handleFree() (tea.Model, tea.Cmd) {
	sel := m.selected()
	if sel == nil {
		return m.setStatus("nothing to release")
	}
	// Copy before the delete below shifts the slice under the pointer.
	a := *sel

	err := m.pool.Free(a.ref)

	// Drop the entry either way: a clean release returned the blocks, a
	// failed one leaked them and there is nothing more to do with the ref.
	m.allocs = append(m.allocs[:m.cursor], m.allocs[m.cursor+1:]...)
	if m.cursor >= len(m.allocs) && m.cursor > 0 {
		m.cursor--
	}

	if err != nil {
		logger.Debug("free failed", "ref", uint64(a.ref), "error", err)
		return m.setStatus(fmt.Sprintf("release 0x%x: %v", uint64(a.ref), err))
	}

	logger.Debug("free", "ref", uint64(a.ref))
	return m.setStatus(fmt.Sprintf("released 0x%x (%d blocks back)", uint64(a.ref), a.blocks))
}

func (m Model) handleCorrupt() (tea.Model, tea.Cmd) {
	a := m.selected()
	if a == nil {
		return m.setStatus("nothing to trample")
	}

	footOff := a.footerOffset()
	copy(m.pool.Bytes()[footOff:footOff+format.WordSize], "OVERRUN!")

	logger.Debug("trampled footer", "ref", uint64(a.ref), "offset", footOff)
	return m.setStatus(fmt.Sprintf("trampled footer of 0x%x; release it to see detection", uint64(a.ref)))
}

func (m Model) handleClearPoison() (tea.Model, tea.Cmd) {
	if !m.pool.Poisoned() {
		return m.setStatus("pool is not poisoned")
	}

	m.pool.ClearPoison()
	logger.Info("poison cleared", "leaked_blocks", m.pool.Stats().LeakedBlocks)
	return m.setStatus("poison cleared; leaked blocks stay leaked")
}

func (m Model) handleVerify() (tea.Model, tea.Cmd) {
	if err := verify.Pool(m.pool); err != nil {
		logger.Warn("verify failed", "error", err)
		return m.setStatus(fmt.Sprintf("verify: %v", err))
	}
	return m.setStatus("verify: all invariants hold")
}

// setStatus sets a transient status message and schedules its removal.
func (m Model) setStatus(s string) (tea.Model, tea.Cmd) {
	m.statusMessage = s
	return m, tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
