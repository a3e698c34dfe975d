package main

import (
	"errors"
	"fmt"

	"github.com/joshuapare/poolkit/internal/format"
	"github.com/joshuapare/poolkit/pool"
	"github.com/spf13/cobra"
)

var (
	corruptCapacity uint64
	corruptReserve  string
)

var corruptCmd = &cobra.Command{
	Use:   "corrupt",
	Short: "Walk through corruption detection and recovery",
	Long: `Demonstrates the pool's corruption handling end to end: an allocation
overruns its payload into the footer, the release detects the mismatch and
poisons the pool, intact allocations still release cleanly, and clearing
the poison brings the pool back while the corrupted blocks stay leaked.`,
	Example: `  # Run the walkthrough
  poolctl corrupt

  # Show the guard words as they are trampled
  poolctl corrupt --verbose`,
	Args: cobra.NoArgs,
	RunE: runCorrupt,
}

func init() {
	corruptCmd.Flags().Uint64Var(&corruptCapacity, "capacity", 1024, "Pool capacity in bytes")
	corruptCmd.Flags().
		StringVar(&corruptReserve, "reserve", "auto", "Reservation strategy (auto, mmap, heap)")
	rootCmd.AddCommand(corruptCmd)
}

func runCorrupt(cmd *cobra.Command, args []string) error {
	strategy, err := parseReservation(corruptReserve)
	if err != nil {
		return err
	}

	p, err := pool.New(corruptCapacity, &pool.Options{Reservation: strategy})
	if err != nil {
		return fmt.Errorf("failed to create pool: %w", err)
	}
	defer p.Close()

	victim, payload, err := p.Alloc(48)
	if err != nil {
		return fmt.Errorf("failed to allocate victim: %w", err)
	}
	neighbor, _, err := p.Alloc(16)
	if err != nil {
		return fmt.Errorf("failed to allocate neighbor: %w", err)
	}
	printInfo("Allocated 48 bytes at ref 0x%x and 16 bytes at ref 0x%x.\n",
		uint64(victim), uint64(neighbor))

	footOff := uint64(victim) + uint64(len(payload))
	if verbose {
		if foot, err := format.DecodeFooter(p.Bytes(), footOff); err == nil {
			printVerbose("Footer before overrun: guard=0x%x echo=0x%x\n", foot.Guard, foot.Echo)
		}
	}

	// Write one word past the payload, straight over the footer guard.
	printInfo("Overrunning the 48-byte payload by %d bytes.\n", format.WordSize)
	copy(p.Bytes()[footOff:footOff+format.WordSize], []byte("OVERRUN!"))

	if verbose {
		if foot, err := format.DecodeFooter(p.Bytes(), footOff); err == nil {
			printVerbose("Footer after overrun:  guard=0x%x echo=0x%x\n", foot.Guard, foot.Echo)
		}
	}

	err = p.Free(victim)
	if err == nil {
		return errors.New("overrun went undetected; the release should have failed")
	}
	printInfo("Release failed: %v\n", err)
	printInfo("Pool poisoned: %v\n", p.Poisoned())

	if _, _, err := p.Alloc(16); err != nil {
		printInfo("Allocation while poisoned: %v\n", err)
	}

	if err := p.Free(neighbor); err != nil {
		return fmt.Errorf("intact release failed: %w", err)
	}
	printInfo("Intact allocation at ref 0x%x released cleanly.\n", uint64(neighbor))

	p.ClearPoison()
	printInfo("Poison cleared.\n")

	if _, _, err := p.Alloc(16); err != nil {
		return fmt.Errorf("allocation after clearing poison failed: %w", err)
	}
	printInfo("Allocation works again.\n")

	s := p.Stats()
	if jsonOut {
		return printJSON(s)
	}
	printInfo("\nAftermath:\n")
	printInfo("  Poison events: %d\n", s.PoisonEvents)
	printInfo("  Leaked blocks: %d (unreachable until the pool is reset)\n", s.LeakedBlocks)
	printInfo("  Free blocks: %d of %d\n", s.FreeBlocks, s.Blocks)

	return nil
}
