package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joshuapare/poolkit/pool"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	jsonOut bool
)

var rootCmd = &cobra.Command{
	Use:   "poolctl",
	Short: "Exercise and inspect fixed-capacity block pools",
	Long: `poolctl is a tool for exercising and inspecting fixed-capacity block
pool allocators. It drives randomized and scripted workloads against a pool,
renders the block map, and walks through corruption detection and recovery.`,
	Version: "0.1.0",
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// parseReservation maps a --reserve flag value to a pool reservation strategy
func parseReservation(name string) (pool.Reservation, error) {
	switch name {
	case "auto":
		return pool.ReserveAuto, nil
	case "mmap":
		return pool.ReserveMmap, nil
	case "heap":
		return pool.ReserveHeap, nil
	default:
		return 0, fmt.Errorf("unknown reservation strategy %q (want auto, mmap, or heap)", name)
	}
}
