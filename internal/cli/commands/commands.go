package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jts/internal/cli"
	"jts/internal/config"
	"jts/internal/logging"
	"jts/internal/storage"
	"jts/internal/ui"
)

// Env carries the resolved configuration and logger shared by all commands.
// It is filled in by the root command's PersistentPreRunE.
type Env struct {
	Config *config.Config
	Logger *zap.Logger
}

// Commands holds all CLI commands
type Commands struct {
	env      *Env
	Run      *RunCommand
	List     *ListCommand
	Failures *FailuresCommand
	History  *HistoryCommand
}

// NewCommands creates all commands with dependencies
func NewCommands(cfg *config.Config) *Commands {
	env := &Env{Config: cfg, Logger: zap.NewNop()}

	// Initialize dependencies
	jsonStorage := storage.NewJSONStorage(cfg)
	formatter := ui.NewFormatter(os.Stdout)
	viewer := ui.NewFailureViewer(jsonStorage)

	return &Commands{
		env:      env,
		Run:      NewRunCommand(env, jsonStorage, formatter, viewer),
		List:     NewListCommand(env, jsonStorage, formatter),
		Failures: NewFailuresCommand(env, jsonStorage, viewer),
		History:  NewHistoryCommand(env),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags) {
	rootCmd.PersistentFlags().StringVar(&flags.ConfigFile, "config", config.DefaultConfigFile, "Path to the YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging on stderr")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return c.load(cmd, flags, args)
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		_ = c.env.Logger.Sync()
	}

	// Run command; a bare "jts [dir...]" runs as well
	runCmd := &cobra.Command{
		Use:   "run [dir...]",
		Short: "Run the subject over the corpus",
		Long:  "Invoke the subject parser once per corpus file, classify each outcome against the file name prefix, and report unexpected failures",
		RunE:  c.Run.Execute,
	}
	for _, cmd := range []*cobra.Command{rootCmd, runCmd} {
		addRunFlags(cmd, flags)
	}
	rootCmd.Args = cobra.ArbitraryArgs
	rootCmd.RunE = c.Run.Execute
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:   "list [dir...]",
		Short: "List corpus files by expectation",
		Long:  "Enumerate corpus directories and show each file's expectation without invoking the subject",
		RunE:  c.List.Execute,
	}
	listCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter corpus files by name pattern (supports wildcards, e.g. 'n_number_*' or '*string*')")
	rootCmd.AddCommand(listCmd)

	// Failures command
	failuresCmd := &cobra.Command{
		Use:   "failures",
		Short: "View unexpected failures interactively",
		Long:  "Display unexpected failures from the last run in an interactive viewer",
		RunE:  c.Failures.Execute,
	}
	rootCmd.AddCommand(failuresCmd)

	// History command
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded run summaries",
		Long:  "List directory summaries recorded in the history database",
		RunE:  c.History.Execute,
	}
	historyCmd.Flags().StringVar(&flags.HistoryDSN, "history-dsn", "", "History database (sqlite://path or mysql://dsn)")
	historyCmd.Flags().IntVarP(&flags.Limit, "limit", "n", 20, "Number of entries to show")
	rootCmd.AddCommand(historyCmd)
}

// load resolves the configuration (defaults, YAML, .env, flags) and the logger
func (c *Commands) load(cmd *cobra.Command, flags *cli.Flags, args []string) error {
	loaded, err := config.Load(flags.ConfigFile)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		flags.Dirs = args
	}
	flags.TimeoutSet = cmd.Flags().Changed("timeout")
	loaded.ApplyFlags(flags.ToConfigFlags())
	*c.env.Config = *loaded

	logger, err := logging.New(flags.Verbose)
	if err != nil {
		return err
	}
	c.env.Logger = logger
	return nil
}

func addRunFlags(cmd *cobra.Command, flags *cli.Flags) {
	cmd.Flags().StringVarP(&flags.Subject, "subject", "s", "", "Parser executable under test (default from config, ./json_test)")
	cmd.Flags().IntVarP(&flags.Processors, "processors", "p", 0, "Number of concurrent subject processes (default from config, 4)")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", 0, "Per-file subject timeout (default from config, 10s)")
	cmd.Flags().StringVar(&flags.CrashPolicy, "crash-policy", "", "How to count crashed or timed-out subjects: failure or error")
	cmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter corpus files by name pattern (supports wildcards, e.g. 'n_number_*' or '*string*')")
	cmd.Flags().StringVar(&flags.DumpDir, "dump-dir", "", "Directory for dump<timestamp> files (default current directory)")
	cmd.Flags().StringVar(&flags.HistoryDSN, "history-dsn", "", "Record summaries in a history database (sqlite://path or mysql://dsn)")
	cmd.Flags().BoolVar(&flags.NoSort, "no-sort", false, "Process files in directory listing order instead of by name")
	cmd.Flags().BoolVar(&flags.Strict, "strict", false, "Exit non-zero when any case fails unexpectedly or errors")
	cmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Stop on first unexpected failure")
	cmd.Flags().BoolVar(&flags.OnlyFailed, "failed", false, "Run only the files that failed in the last run")
	cmd.Flags().BoolVar(&flags.Progress, "progress", false, "Show a progress bar instead of one line per file")
	cmd.Flags().BoolVar(&flags.OpenFailures, "open-failures", false, "Open the failures viewer when the run finishes with failures")
}

func exitWith(code int, format string, args ...interface{}) error {
	return &cli.ExitError{Code: code, Err: fmt.Errorf(format, args...)}
}
