package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joshuapare/poolkit/cmd/poolview/logger"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const defaultCapacity = 4096

func main() {
	// Parse flags first (before positional args)
	args := os.Args[1:]
	debugMode := false

	// Extract --debug/-d flag
	filteredArgs := make([]string, 0, len(args))
	for _, arg := range args {
		if arg == "--debug" || arg == "-d" {
			debugMode = true
		} else {
			filteredArgs = append(filteredArgs, arg)
		}
	}

	// Initialize logger (must be before any logging calls)
	if err := logger.Init(logger.Options{
		Enabled: debugMode,
		Level:   slog.LevelDebug,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to init logging: %v\n", err)
	}

	capacity := uint64(defaultCapacity)
	if len(filteredArgs) > 0 {
		switch filteredArgs[0] {
		case "--help", "-h":
			printHelp()
			os.Exit(0)
		case "--version", "-v":
			fmt.Printf("poolview %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built: %s\n", date)
			os.Exit(0)
		}

		n, err := strconv.ParseUint(filteredArgs[0], 10, 64)
		if err != nil {
			printUsage()
			os.Exit(1)
		}
		capacity = n
	}

	logger.Info("starting poolview", "capacity", capacity, "debug", debugMode)

	// Create the TUI model
	m, err := NewModel(capacity)
	if err != nil {
		logger.Error("pool setup failed", "capacity", capacity, "error", err)
		fmt.Fprintf(os.Stderr, "Error: failed to create pool: %v\n", err)
		os.Exit(1)
	}

	// Create the Bubbletea program
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	// Run the program
	finalModel, err := p.Run()
	if err != nil {
		logger.Error("TUI error", "error", err)
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}

	// Clean up resources
	if model, ok := finalModel.(Model); ok {
		if err := model.Close(); err != nil {
			// Log error but don't fail - cleanup is best effort
			logger.Warn("error closing pool", "error", err)
		}
	}

	logger.Info("poolview exited normally")
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: poolview [options] [capacity-bytes]\n")
	fmt.Fprintf(os.Stderr, "Try 'poolview --help' for more information.\n")
}

func printHelp() {
	fmt.Println("poolview - Interactive TUI for block pool allocators")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  poolview [options] [capacity-bytes]")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  Launches an interactive terminal UI for playing with a fixed-capacity")
	fmt.Println("  block pool. Allocate, release, trample guard words, and watch the")
	fmt.Println("  block map and counters react.")
	fmt.Println()
	fmt.Println("  The capacity defaults to 4096 bytes (256 blocks).")
	fmt.Println()
	fmt.Println("  Keys:")
	fmt.Println("    ↑/k, ↓/j    Select an allocation")
	fmt.Println("    a           Allocate (sizes cycle through a fixed set)")
	fmt.Println("    f           Release the selected allocation")
	fmt.Println("    x           Trample the selected allocation's footer")
	fmt.Println("    p           Clear poison after a detected corruption")
	fmt.Println("    V           Verify pool invariants")
	fmt.Println("    ?           Show help")
	fmt.Println("    q           Quit")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -d, --debug    Enable debug logging to ~/.poolview/logs/")
	fmt.Println("  -h, --help     Show this help message")
	fmt.Println("  -v, --version  Show version information")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  poolview")
	fmt.Println("  poolview 16384")
	fmt.Println()
	fmt.Println("For scripted workloads, use the 'poolctl' command instead.")
}
