package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/joshuapare/poolkit/internal/format"
)

// View renders the entire UI
func (m Model) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	// If help overlay is showing, render it
	if m.showHelp {
		return m.renderHelpOverlay()
	}

	header := m.renderHeader()
	content := m.renderContent()
	status := m.renderStatus()

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		status,
	)
}

// renderHeader renders the title line with pool info and the poison badge
func (m Model) renderHeader() string {
	title := headerStyle.Render("Block Pool Playground")
	info := infoStyle.Render(fmt.Sprintf("Pool: %d B, %d blocks", m.pool.Capacity(), m.pool.Blocks()))

	parts := []string{title, lipgloss.NewStyle().Render("  "), info}
	if m.pool.Poisoned() {
		parts = append(parts, lipgloss.NewStyle().Render("  "), poisonedStyle.Render("POISONED"))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// renderContent renders the block map pane and the allocation pane side by side
func (m Model) renderContent() string {
	perRow := 32
	if m.width > 0 && m.width < 80 {
		perRow = 16
	}

	left := paneTitleStyle.Render(fmt.Sprintf("Blocks (%d)", m.pool.Blocks())) +
		"\n" + m.renderBlockMap(perRow)

	right := paneTitleStyle.Render(fmt.Sprintf("Allocations (%d)", len(m.allocs))) +
		"\n" + m.renderAllocList() +
		"\n\n" + m.renderCounters()

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		paneStyle.Render(left),
		paneStyle.Render(right),
	)
}

// renderBlockMap renders one styled character per block. The run belonging
// to the selected allocation is drawn reversed.
func (m Model) renderBlockMap(perRow int) string {
	data := m.pool.Bytes()
	blocks := m.pool.Blocks()

	kinds := make([]byte, blocks)
	for i := uint64(0); i < blocks; {
		if !m.pool.Occupied(i) {
			kinds[i] = '.'
			i++
			continue
		}
		hdr, err := format.DecodeHeader(data, format.BlockOffset(i))
		if err != nil || hdr.Blocks < format.MetaBlocks || i+hdr.Blocks > blocks {
			// Occupied but the header does not describe a sane run
			kinds[i] = '?'
			i++
			continue
		}
		kinds[i] = 'H'
		for j := i + 1; j < i+hdr.Blocks-1; j++ {
			kinds[j] = 'P'
		}
		kinds[i+hdr.Blocks-1] = 'F'
		i += hdr.Blocks
	}

	selStart, selEnd := uint64(0), uint64(0)
	if a := m.selected(); a != nil {
		selStart = a.headerBlock()
		selEnd = selStart + a.blocks
	}

	var sb strings.Builder
	for i := uint64(0); i < blocks; i++ {
		if i > 0 && i%uint64(perRow) == 0 {
			sb.WriteByte('\n')
		}
		style := blockStyle(kinds[i])
		if selEnd > 0 && i >= selStart && i < selEnd {
			style = style.Reverse(true)
		}
		ch := string(kinds[i])
		if kinds[i] == '.' {
			ch = "·"
		}
		sb.WriteString(style.Render(ch))
	}
	return sb.String()
}

// blockStyle maps a block kind character to its style
func blockStyle(kind byte) lipgloss.Style {
	switch kind {
	case 'H':
		return headerBlockStyle
	case 'P':
		return payloadBlockStyle
	case 'F':
		return footerBlockStyle
	case '?':
		return unknownBlockStyle
	default:
		return freeBlockStyle
	}
}

// renderAllocList renders the allocation rows with a sliding window around
// the cursor so long lists stay inside the pane.
func (m Model) renderAllocList() string {
	if len(m.allocs) == 0 {
		return freeBlockStyle.Render("(none; press a to allocate)")
	}

	maxRows := max(m.height-14, 5)
	start := 0
	if m.cursor >= maxRows {
		start = m.cursor - maxRows + 1
	}
	end := min(start+maxRows, len(m.allocs))

	var sb strings.Builder
	for i := start; i < end; i++ {
		a := m.allocs[i]
		line := fmt.Sprintf(" 0x%04x  %4d B  %2d blocks ", uint64(a.ref), a.size, a.blocks)
		if i == m.cursor {
			sb.WriteString(rowSelectedStyle.Render(line))
		} else {
			sb.WriteString(rowStyle.Render(line))
		}
		sb.WriteByte('\n')
	}
	if end < len(m.allocs) {
		sb.WriteString(freeBlockStyle.Render(fmt.Sprintf(" … %d more", len(m.allocs)-end)))
		sb.WriteByte('\n')
	}
	return strings.TrimRight(sb.String(), "\n")
}

// renderCounters renders the stats section under the allocation list
func (m Model) renderCounters() string {
	s := m.pool.Stats()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Free blocks: %d/%d\n", s.FreeBlocks, s.Blocks))
	sb.WriteString(fmt.Sprintf("Alloc calls: %d (%d failed)\n", s.AllocCalls, s.FailedAllocs))
	sb.WriteString(fmt.Sprintf("Free calls: %d\n", s.FreeCalls))
	if s.LeakedBlocks > 0 {
		sb.WriteString(warnStyle.Render(fmt.Sprintf("Leaked blocks: %d", s.LeakedBlocks)))
		sb.WriteByte('\n')
	}
	if s.PoisonEvents > 0 {
		sb.WriteString(fmt.Sprintf("Poison events: %d\n", s.PoisonEvents))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// renderStatus renders the bottom status bar
func (m Model) renderStatus() string {
	// Show status message if set (takes priority over normal help)
	if m.statusMessage != "" {
		return statusStyle.Width(m.width).Render(
			statusMsgStyle.Render(truncate(m.statusMessage, max(m.width-4, 10))),
		)
	}

	var help strings.Builder
	help.WriteString(helpStyle.Render("a: Alloc"))
	help.WriteString(" │ ")
	help.WriteString(helpStyle.Render("f: Free"))
	help.WriteString(" │ ")
	help.WriteString(helpStyle.Render("x: Trample"))
	help.WriteString(" │ ")
	if m.pool.Poisoned() {
		help.WriteString(helpStyle.Render("p: Clear poison"))
		help.WriteString(" │ ")
	}
	help.WriteString(helpStyle.Render("V: Verify"))
	help.WriteString(" │ ")
	help.WriteString(helpStyle.Render("?: Help"))
	help.WriteString(" │ ")
	help.WriteString(helpStyle.Render("q: Quit"))

	s := m.pool.Stats()
	stats := statusCountStyle.Render(fmt.Sprintf("%d", s.FreeBlocks)) + " free │ " +
		statusCountStyle.Render(fmt.Sprintf("%d", s.LiveAllocs)) + " live"

	statusLine := lipgloss.JoinHorizontal(
		lipgloss.Top,
		help.String(),
		lipgloss.NewStyle().Width(10).Render(""), // Spacer
		stats,
	)

	return statusStyle.
		Width(m.width).
		Render(statusLine)
}

// renderHelpOverlay renders the centered help box
func (m Model) renderHelpOverlay() string {
	var helpContent strings.Builder

	title := helpTitleStyle.Render("Keyboard Shortcuts")
	helpContent.WriteString(title)
	helpContent.WriteString("\n\n")

	const keyWidth = 14

	writeRow := func(keys, desc string) {
		helpContent.WriteString(helpKeyStyle.Width(keyWidth).Render(keys))
		helpContent.WriteString("  ")
		helpContent.WriteString(helpDescStyle.Render(desc))
		helpContent.WriteString("\n")
	}

	helpContent.WriteString(modalTitleStyle.Render("Navigation"))
	helpContent.WriteString("\n")
	writeRow("↑/↓ or k/j", "Select an allocation")
	writeRow("Home/g", "First allocation")
	writeRow("End/G", "Last allocation")
	helpContent.WriteString("\n")

	helpContent.WriteString(modalTitleStyle.Render("Pool Actions"))
	helpContent.WriteString("\n")
	writeRow("a", "Allocate the next size in the cycle")
	writeRow("f", "Release the selected allocation")
	writeRow("x", "Trample the selected footer guard")
	writeRow("p", "Clear poison after detection")
	writeRow("V", "Verify bitmap and guard invariants")
	helpContent.WriteString("\n")

	helpContent.WriteString(helpStyle.Render("Press Esc, ?, or q to close this help"))

	// Create bordered help box
	helpBox := modalStyle.
		Width(60).
		Render(helpContent.String())

	// Calculate centering
	helpHeight := lipgloss.Height(helpBox)
	helpWidth := lipgloss.Width(helpBox)

	verticalPadding := (m.height - helpHeight) / 2
	horizontalPadding := (m.width - helpWidth) / 2

	if verticalPadding < 0 {
		verticalPadding = 0
	}
	if horizontalPadding < 0 {
		horizontalPadding = 0
	}

	// Position the help box
	positioned := lipgloss.NewStyle().
		MarginTop(verticalPadding).
		MarginLeft(horizontalPadding).
		Render(helpBox)

	return positioned
}
