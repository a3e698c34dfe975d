package main

import (
	"fmt"

	"github.com/joshuapare/poolkit/internal/format"
	"github.com/joshuapare/poolkit/pool"
	"github.com/spf13/cobra"
)

var (
	layoutCapacity uint64
	layoutReserve  string
	layoutAllocs   []int64
	layoutFrees    []int
)

func init() {
	cmd := newLayoutCmd()
	cmd.Flags().Uint64Var(&layoutCapacity, "capacity", 1024, "Pool capacity in bytes")
	cmd.Flags().StringVar(&layoutReserve, "reserve", "auto", "Reservation strategy (auto, mmap, heap)")
	cmd.Flags().Int64SliceVar(&layoutAllocs, "alloc", nil, "Allocation sizes to perform, in order")
	cmd.Flags().IntSliceVar(&layoutFrees, "free", nil, "Allocation numbers to release afterwards")
	rootCmd.AddCommand(cmd)
}

func newLayoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Render the block map after a scripted workload",
		Long: `The layout command performs a scripted sequence of allocations and
releases, then renders one character per block: H for a header, P for
payload, F for a footer, and a dot for a free block.

Allocations are numbered from zero in the order given; --free takes those
numbers. Releasing the same number twice demonstrates poisoning.

Example:
  poolctl layout --capacity 512 --alloc 16,100,48
  poolctl layout --alloc 64,64,64 --free 1
  poolctl layout --alloc 32 --free 0,0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout()
		},
	}
	return cmd
}

type LayoutReport struct {
	Capacity uint64
	Blocks   uint64

	Allocations []LayoutAlloc
	Map         []string
	Poisoned    bool

	Stats pool.Stats
}

type LayoutAlloc struct {
	Index  int
	Size   uint64
	Ref    uint64
	Blocks uint64
	Freed  bool
}

func runLayout() error {
	strategy, err := parseReservation(layoutReserve)
	if err != nil {
		return err
	}

	p, err := pool.New(layoutCapacity, &pool.Options{Reservation: strategy})
	if err != nil {
		return fmt.Errorf("failed to create pool: %w", err)
	}
	defer p.Close()

	report := LayoutReport{Capacity: p.Capacity(), Blocks: p.Blocks()}

	refs := make([]pool.Ref, 0, len(layoutAllocs))
	for i, size := range layoutAllocs {
		if size < 0 {
			return fmt.Errorf("allocation size must not be negative, got %d", size)
		}
		ref, payload, err := p.Alloc(uint64(size))
		if err != nil {
			return fmt.Errorf("allocation #%d (%d bytes) failed: %w", i, size, err)
		}
		refs = append(refs, ref)
		blocks := uint64(len(payload))/format.BlockSize + format.MetaBlocks
		report.Allocations = append(report.Allocations, LayoutAlloc{
			Index:  i,
			Size:   uint64(size),
			Ref:    uint64(ref),
			Blocks: blocks,
		})
		printVerbose("alloc #%d: %d bytes at ref 0x%x (%d blocks)\n", i, size, uint64(ref), blocks)
	}

	for _, idx := range layoutFrees {
		if idx < 0 || idx >= len(refs) {
			return fmt.Errorf("no allocation #%d to free", idx)
		}
		// A failed release poisons the pool; keep going so the map shows
		// the aftermath.
		if err := p.Free(refs[idx]); err != nil {
			printError("free #%d: %v\n", idx, err)
			continue
		}
		report.Allocations[idx].Freed = true
		printVerbose("freed #%d\n", idx)
	}

	report.Map = blockMapRows(p)
	report.Poisoned = p.Poisoned()
	report.Stats = p.Stats()

	if jsonOut {
		return printJSON(report)
	}

	printInfo("\nBlock map: %d blocks, %s\n", report.Blocks, formatBytes(int64(report.Capacity)))
	for i, row := range report.Map {
		printInfo("%6d  %s\n", i*blocksPerRow, row)
	}
	printInfo("\n")
	for _, a := range report.Allocations {
		state := "live"
		if a.Freed {
			state = "freed"
		}
		printInfo("  #%d: %d bytes at ref 0x%x, %d blocks, %s\n", a.Index, a.Size, a.Ref, a.Blocks, state)
	}
	if report.Poisoned {
		printInfo("\nPool is poisoned; run corrupt --help for the recovery walkthrough.\n")
	}
	printInfo("\nFree: %d of %d blocks\n", report.Stats.FreeBlocks, report.Stats.Blocks)

	return nil
}

const blocksPerRow = 64

// blockMapRows renders one character per block, blocksPerRow blocks to a row.
func blockMapRows(p *pool.Pool) []string {
	data := p.Bytes()
	blocks := p.Blocks()

	marks := make([]byte, blocks)
	for i := uint64(0); i < blocks; {
		if !p.Occupied(i) {
			marks[i] = '.'
			i++
			continue
		}
		hdr, err := format.DecodeHeader(data, format.BlockOffset(i))
		if err != nil || hdr.Blocks < format.MetaBlocks || i+hdr.Blocks > blocks {
			// Occupied but the header does not describe a sane run. Paint the
			// one block and keep walking.
			marks[i] = '?'
			i++
			continue
		}
		marks[i] = 'H'
		for j := i + 1; j < i+hdr.Blocks-1; j++ {
			marks[j] = 'P'
		}
		marks[i+hdr.Blocks-1] = 'F'
		i += hdr.Blocks
	}

	var rows []string
	for i := uint64(0); i < blocks; i += blocksPerRow {
		end := i + blocksPerRow
		if end > blocks {
			end = blocks
		}
		rows = append(rows, string(marks[i:end]))
	}
	return rows
}
