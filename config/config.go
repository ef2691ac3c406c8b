// config.go — CLI and file configuration for the reverser
// ============================================================================
// CONFIGURATION LAYER
// ============================================================================
//
// Config resolves the pipeline's tunables from three layers, lowest
// precedence first:
//   1. Compiled defaults (constants package)
//   2. Optional JSON tuning file (--config)
//   3. Command-line flags
//
// The JSON layer uses pointer fields so an absent key keeps the layer
// below it; a flag explicitly set on the command line wins over both.
//
// Invocation shape:
//   reverser <input> <output> [flags]
//
// All validation failures are startup-only and map to the usage exit
// code at the process boundary.
// ============================================================================

package config

import (
	"errors"
	"os"

	"github.com/spf13/pflag"
	"github.com/sugawarayuuta/sonnet"

	"linerev/constants"
	"linerev/utils"
)

// ============================================================================
// RESOLVED CONFIGURATION
// ============================================================================

// Config is the fully resolved, validated run configuration.
type Config struct {
	InPath  string
	OutPath string

	BufferSize    int // B: bytes requested per read syscall
	BufferCount   int // Arena slots, odd and >= 3
	QueueCapacity int // Ring slots, power of two

	Pin        bool // Hard per-stage core affinity
	ReaderCore int
	WorkerCore int
	WriterCore int
}

// Default returns the compiled-in configuration before any overrides.
func Default() Config {
	return Config{
		BufferSize:    constants.DefaultBufferSize,
		BufferCount:   constants.DefaultBufferCount,
		QueueCapacity: constants.DefaultQueueCapacity,
		Pin:           true,
		ReaderCore:    constants.ReaderCore,
		WorkerCore:    constants.WorkerCore,
		WriterCore:    constants.WriterCore,
	}
}

// JobCount derives the circulating job population from the buffer count.
//
//go:inline
func (c *Config) JobCount() int {
	return (c.BufferCount - 1) / 2
}

// ============================================================================
// JSON TUNING FILE
// ============================================================================

// fileConfig mirrors the tunable subset of Config with pointer fields
// so absent keys fall through to the defaults.
type fileConfig struct {
	BufferSize    *int  `json:"buffer_size"`
	BufferCount   *int  `json:"buffer_count"`
	QueueCapacity *int  `json:"queue_capacity"`
	Pin           *bool `json:"pin"`
	ReaderCore    *int  `json:"reader_core"`
	WorkerCore    *int  `json:"worker_core"`
	WriterCore    *int  `json:"writer_core"`
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var fc fileConfig
	if err := sonnet.Unmarshal(data, &fc); err != nil {
		return errors.New("config file " + path + ": " + err.Error())
	}
	if fc.BufferSize != nil {
		cfg.BufferSize = *fc.BufferSize
	}
	if fc.BufferCount != nil {
		cfg.BufferCount = *fc.BufferCount
	}
	if fc.QueueCapacity != nil {
		cfg.QueueCapacity = *fc.QueueCapacity
	}
	if fc.Pin != nil {
		cfg.Pin = *fc.Pin
	}
	if fc.ReaderCore != nil {
		cfg.ReaderCore = *fc.ReaderCore
	}
	if fc.WorkerCore != nil {
		cfg.WorkerCore = *fc.WorkerCore
	}
	if fc.WriterCore != nil {
		cfg.WriterCore = *fc.WriterCore
	}
	return nil
}

// ============================================================================
// COMMAND LINE PARSING
// ============================================================================

// Parse resolves the configuration from args (without the program
// name). Flag values set explicitly on the command line override the
// tuning file; the tuning file overrides the defaults.
func Parse(args []string) (Config, error) {
	cfg := Default()

	fs := pflag.NewFlagSet("reverser", pflag.ContinueOnError)
	fs.SortFlags = false
	configPath := fs.String("config", "", "JSON tuning file applied before flags")
	bufSize := fs.Int("buffer-size", cfg.BufferSize, "read buffer capacity in bytes")
	bufCount := fs.Int("buffer-count", cfg.BufferCount, "arena buffer slots (odd, >= 3)")
	queueCap := fs.Int("queue-capacity", cfg.QueueCapacity, "ring slots (power of two)")
	noPin := fs.Bool("no-pin", false, "run stages without hard core affinity")
	readerCore := fs.Int("reader-core", cfg.ReaderCore, "core for the reader stage")
	workerCore := fs.Int("worker-core", cfg.WorkerCore, "core for the worker stage")
	writerCore := fs.Int("writer-core", cfg.WriterCore, "core for the writer stage")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *configPath != "" {
		if err := applyFile(&cfg, *configPath); err != nil {
			return Config{}, err
		}
	}

	if fs.Changed("buffer-size") {
		cfg.BufferSize = *bufSize
	}
	if fs.Changed("buffer-count") {
		cfg.BufferCount = *bufCount
	}
	if fs.Changed("queue-capacity") {
		cfg.QueueCapacity = *queueCap
	}
	if fs.Changed("no-pin") && *noPin {
		cfg.Pin = false
	}
	if fs.Changed("reader-core") {
		cfg.ReaderCore = *readerCore
	}
	if fs.Changed("worker-core") {
		cfg.WorkerCore = *workerCore
	}
	if fs.Changed("writer-core") {
		cfg.WriterCore = *writerCore
	}

	rest := fs.Args()
	if len(rest) != 2 {
		return Config{}, errors.New("expected exactly two positional arguments: <input> <output>")
	}
	cfg.InPath = rest[0]
	cfg.OutPath = rest[1]

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Usage is the one-line synopsis printed alongside usage faults.
const Usage = "usage: reverser <input> <output> [--buffer-size N] [--buffer-count N] [--queue-capacity N] [--no-pin] [--config FILE]"

// ============================================================================
// VALIDATION
// ============================================================================

// Validate enforces the geometric invariants the arena and rings rely
// on. Called by Parse; exported for tuning-file round-trip tests.
func (c *Config) Validate() error {
	if c.BufferSize < constants.MinBufferSize {
		return errors.New("buffer size " + utils.Itoa(c.BufferSize) +
			" below minimum " + utils.Itoa(constants.MinBufferSize))
	}
	if c.BufferCount < 3 || c.BufferCount%2 == 0 {
		return errors.New("buffer count " + utils.Itoa(c.BufferCount) + " must be odd and >= 3")
	}
	jobs := c.JobCount()
	if jobs > 255 {
		return errors.New("buffer count " + utils.Itoa(c.BufferCount) +
			" yields " + utils.Itoa(jobs) + " jobs, beyond the one-byte index range")
	}
	if c.QueueCapacity < 2 || c.QueueCapacity&(c.QueueCapacity-1) != 0 {
		return errors.New("queue capacity " + utils.Itoa(c.QueueCapacity) + " must be a power of two >= 2")
	}
	if c.QueueCapacity-1 < jobs {
		return errors.New("queue capacity " + utils.Itoa(c.QueueCapacity) +
			" cannot hold " + utils.Itoa(jobs) + " circulating jobs")
	}
	return nil
}
