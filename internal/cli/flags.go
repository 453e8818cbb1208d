package cli

import (
	"time"

	"jts/internal/config"
)

// Flags holds command-line flags
type Flags struct {
	ConfigFile   string
	Verbose      bool
	Subject      string
	Dirs         []string
	Processors   int
	Timeout      time.Duration
	TimeoutSet   bool
	CrashPolicy  string
	NameFilter   string
	DumpDir      string
	HistoryDSN   string
	NoSort       bool
	Strict       bool
	FailFast     bool
	OnlyFailed   bool
	Progress     bool
	OpenFailures bool
	Limit        int
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		Subject:     f.Subject,
		Dirs:        f.Dirs,
		Processors:  f.Processors,
		Timeout:     f.Timeout,
		TimeoutSet:  f.TimeoutSet,
		CrashPolicy: f.CrashPolicy,
		NameFilter:  f.NameFilter,
		DumpDir:     f.DumpDir,
		HistoryDSN:  f.HistoryDSN,
		NoSort:      f.NoSort,
		Strict:      f.Strict,
		FailFast:    f.FailFast,
		OnlyFailed:  f.OnlyFailed,
		Progress:    f.Progress,
		Verbose:     f.Verbose,
		Limit:       f.Limit,
	}
}
