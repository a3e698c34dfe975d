package main

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/joshuapare/poolkit/pool"
	"github.com/joshuapare/poolkit/pool/verify"
	"github.com/spf13/cobra"
)

var (
	stressCapacity uint64
	stressOps      int
	stressMaxSize  uint64
	stressSeed     int64
	stressReserve  string
	stressVerify   bool
)

func init() {
	cmd := newStressCmd()
	cmd.Flags().Uint64Var(&stressCapacity, "capacity", 1<<20, "Pool capacity in bytes")
	cmd.Flags().IntVar(&stressOps, "ops", 10000, "Number of operations to run")
	cmd.Flags().Uint64Var(&stressMaxSize, "max-size", 4096, "Largest allocation size in bytes")
	cmd.Flags().Int64Var(&stressSeed, "seed", 1, "Seed for the workload generator")
	cmd.Flags().StringVar(&stressReserve, "reserve", "auto", "Reservation strategy (auto, mmap, heap)")
	cmd.Flags().BoolVar(&stressVerify, "verify", false, "Walk the pool and check invariants after the run")
	rootCmd.AddCommand(cmd)
}

func newStressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Run a randomized allocate/release workload",
		Long: `The stress command drives a pool with a reproducible randomized mix of
allocations and releases, then reports the final counters. The same seed
always produces the same workload.

Example:
  poolctl stress --capacity 1048576 --ops 50000
  poolctl stress --seed 7 --max-size 512 --json
  poolctl stress --reserve heap --verify`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStress()
		},
	}
	return cmd
}

type StressReport struct {
	Capacity uint64
	Ops      int
	MaxSize  uint64
	Seed     int64
	Elapsed  time.Duration

	PeakLive        uint64
	PeakBlocksInUse uint64
	Verified        bool

	Stats pool.Stats
}

func runStress() error {
	strategy, err := parseReservation(stressReserve)
	if err != nil {
		return err
	}
	if stressMaxSize >= 1<<62 {
		return fmt.Errorf("max-size %d is too large", stressMaxSize)
	}

	p, err := pool.New(stressCapacity, &pool.Options{Reservation: strategy})
	if err != nil {
		return fmt.Errorf("failed to create pool: %w", err)
	}
	defer p.Close()

	printVerbose("Pool ready: %d blocks, seed %d\n", p.Blocks(), stressSeed)

	report := StressReport{
		Capacity: p.Capacity(),
		Ops:      stressOps,
		MaxSize:  stressMaxSize,
		Seed:     stressSeed,
	}

	rng := rand.New(rand.NewSource(stressSeed))
	live := make([]pool.Ref, 0, 1024)
	start := time.Now()

	for i := 0; i < stressOps; i++ {
		// Roughly one release for every three allocations keeps the pool
		// churning without draining it.
		if len(live) > 0 && rng.Intn(4) == 0 {
			k := rng.Intn(len(live))
			if err := p.Free(live[k]); err != nil {
				return fmt.Errorf("release failed at op %d: %w", i, err)
			}
			live = append(live[:k], live[k+1:]...)
			continue
		}

		size := uint64(rng.Int63n(int64(stressMaxSize) + 1))
		ref, _, err := p.Alloc(size)
		switch {
		case err == nil:
			live = append(live, ref)
		case errors.Is(err, pool.ErrNoSpace) && len(live) > 0:
			// Full pools are part of a stress run. Drop something and move on.
			k := rng.Intn(len(live))
			if err := p.Free(live[k]); err != nil {
				return fmt.Errorf("release failed at op %d: %w", i, err)
			}
			live = append(live[:k], live[k+1:]...)
		case errors.Is(err, pool.ErrNoSpace):
			// Nothing to release; the request simply does not fit. Skip it.
		default:
			return fmt.Errorf("allocation failed at op %d: %w", i, err)
		}

		if n := uint64(len(live)); n > report.PeakLive {
			report.PeakLive = n
		}
		if used := p.Blocks() - p.FreeBlocks(); used > report.PeakBlocksInUse {
			report.PeakBlocksInUse = used
		}
	}

	report.Elapsed = time.Since(start)

	if stressVerify {
		if err := verify.Pool(p); err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}
		report.Verified = true
		printVerbose("Verification passed\n")
	}

	report.Stats = p.Stats()

	if jsonOut {
		return printJSON(report)
	}

	s := report.Stats
	printInfo("\nStress Run\n")
	printInfo("  Capacity: %s (%d blocks)\n", formatBytes(int64(s.Capacity)), s.Blocks)
	printInfo("  Ops: %s in %v (seed %d)\n", formatNumber(int64(report.Ops)), report.Elapsed, report.Seed)
	printInfo("\nCounters:\n")
	printInfo("  Alloc calls: %s (%s failed)\n",
		formatNumber(int64(s.AllocCalls)), formatNumber(int64(s.FailedAllocs)))
	printInfo("  Free calls: %s\n", formatNumber(int64(s.FreeCalls)))
	printInfo("  Released blocks: %s\n", formatNumber(int64(s.ReleasedBlocks)))
	printInfo("\nFinal state:\n")
	printInfo("  Live allocations: %d (%d blocks in use)\n", s.LiveAllocs, s.Blocks-s.FreeBlocks)
	printInfo("  Peak live: %d allocations, %d blocks\n", report.PeakLive, report.PeakBlocksInUse)
	if report.Verified {
		printInfo("  Verified: all invariants hold\n")
	}

	return nil
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func formatNumber(n int64) string {
	str := fmt.Sprintf("%d", n)
	if len(str) <= 3 {
		return str
	}

	// Add commas
	var result strings.Builder
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(c)
	}
	return result.String()
}
