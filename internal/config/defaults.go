package config

import "runtime"

const (
	defaultLogDir        = "~/.local/share/sorter"
	defaultJournalFile   = "journal.db"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
	defaultFailurePolicy = FailurePolicyContinue
	workersPerCPU        = 4
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Organizer: Organizer{
			FailurePolicy: defaultFailurePolicy,
		},
		Journal: Journal{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// DefaultWorkers is the concurrency limit used when organizer.workers is zero.
// Relocation is I/O bound, so the limit is a multiple of the CPU count.
func DefaultWorkers() int {
	return runtime.NumCPU() * workersPerCPU
}
