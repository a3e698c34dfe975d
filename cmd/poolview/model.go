package main

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joshuapare/poolkit/internal/format"
	"github.com/joshuapare/poolkit/pool"
)

// allocSizes is the cycle of request sizes the allocate key walks through.
var allocSizes = []uint64{16, 48, 100, 256, 32}

// allocation tracks one live allocation for the list pane.
type allocation struct {
	ref    pool.Ref
	size   uint64
	blocks uint64
}

// Model is the main application model
type Model struct {
	pool *pool.Pool
	keys KeyMap

	// Live allocations in creation order; cursor selects one of them
	allocs []allocation
	cursor int

	// Next index into allocSizes
	sizeIdx int

	width  int
	height int

	// Help overlay
	showHelp bool

	// Status message for temporary feedback
	statusMessage string

	err error
}

// NewModel creates a new TUI model backed by a fresh pool.
//
// Corruption diagnostics are discarded: the pool would otherwise write them
// to stderr, which the alternate screen owns while the TUI runs. Detection
// results surface through the status bar instead.
func NewModel(capacity uint64) (Model, error) {
	p, err := pool.New(capacity, &pool.Options{Diagnostics: io.Discard})
	if err != nil {
		return Model{}, err
	}

	return Model{
		pool: p,
		keys: DefaultKeyMap(),
	}, nil
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Close cleans up resources held by the model
func (m *Model) Close() error {
	if m.pool == nil {
		return nil
	}
	return m.pool.Close()
}

// selected returns the allocation under the cursor, or nil if there is none.
func (m *Model) selected() *allocation {
	if len(m.allocs) == 0 || m.cursor < 0 || m.cursor >= len(m.allocs) {
		return nil
	}
	return &m.allocs[m.cursor]
}

// footerOffset returns the arena offset of an allocation's footer block.
func (a allocation) footerOffset() uint64 {
	return uint64(a.ref) + (a.blocks-format.MetaBlocks)*format.BlockSize
}

// headerBlock returns the index of the allocation's header block.
func (a allocation) headerBlock() uint64 {
	return uint64(a.ref)/format.BlockSize - 1
}

// Messages

type clearStatusMsg struct{}
