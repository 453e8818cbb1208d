package config

import "time"

const (
	// DefaultSubject is the parser executable under test
	DefaultSubject = "./json_test"
	// DefaultCorpusDir is the JSONTestSuite parsing corpus
	DefaultCorpusDir = "./JSONTestSuite/test_parsing"
	// DefaultDumpDir is where dump<timestamp> files are written
	DefaultDumpDir = "."
	// DefaultDumpPrefix is the dump file name prefix
	DefaultDumpPrefix = "dump"
	// DefaultOutputJSONFile is the default JSON report file name
	DefaultOutputJSONFile = "results.json"
	// DefaultOutputJSONDir is the default JSON report directory
	DefaultOutputJSONDir = ".jts"
	// DefaultConfigFile is looked up in the working directory
	DefaultConfigFile = "jts.yaml"
	// DefaultEnvFile is loaded from the working directory when present
	DefaultEnvFile = ".env"
	// DefaultProcessors is the default number of concurrent subject processes
	DefaultProcessors = 4
	// DefaultTimeout bounds a single subject invocation
	DefaultTimeout = 10 * time.Second
	// DefaultCrashPolicy counts crashes as unexpected failures
	DefaultCrashPolicy = "failure"
	// DefaultDumpCollision picks the next free timestamp instead of overwriting
	DefaultDumpCollision = "next"
)

// Dump collision policies
const (
	CollisionNext      = "next"
	CollisionOverwrite = "overwrite"
	CollisionError     = "error"
)

// DefaultCorpusDirs are the corpus directories processed when none are configured
var DefaultCorpusDirs = []string{
	DefaultCorpusDir,
}
