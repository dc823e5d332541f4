package cli

import (
	"flag"

	"github.com/eshaffer321/tcg-inventory-backend/internal/application/sync"
)

// SyncFlags are common flags for the sync command
type SyncFlags struct {
	Config    string
	DryRun    bool
	SkipSales bool
	Verbose   bool
}

// ParseSyncFlags parses common sync flags from command line
func ParseSyncFlags() SyncFlags {
	var flags SyncFlags
	flag.StringVar(&flags.Config, "config", "config.yaml", "Configuration file path")
	flag.BoolVar(&flags.DryRun, "dry-run", false, "Run without saving the snapshot")
	flag.BoolVar(&flags.SkipSales, "skip-sales", false, "Skip sale email ingestion")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	flag.Parse()
	return flags
}

// ToSyncOptions converts SyncFlags to sync.Options
func (f SyncFlags) ToSyncOptions() sync.Options {
	return sync.Options{
		DryRun:  f.DryRun,
		Verbose: f.Verbose,
	}
}
