// Package config holds the toolkit's process-wide defaults, modeled on the
// teacher's pkg/config.Config + Default()/Validate()/Clone() trio: a single
// struct of knobs, a documented default, and deep-copy semantics so callers
// can derive a variant without aliasing slices.
//
// None of these settings are consulted by internal/workflow itself (the
// core is a pure in-memory model, per spec §5). cmd/spate validates the
// whole Config and reads DefaultShell and OutdatedOnlyDefault when building
// export options; DefaultEngine and StatTimeout are validated but not read
// anywhere else.
package config

import "time"

// Config holds the toolkit's process-wide defaults.
type Config struct {
	// DefaultEngine names the process-wide default template engine. Nothing
	// reads it when a workflow is created: a new workflow's engine registry
	// selects "mustache" on its own, and a loaded document's engine comes
	// from the document.
	DefaultEngine string

	// DefaultShell is the shebang/submission shell exporters fall back to
	// when Options.Shell is unset (spec §6, shell and SLURM targets).
	DefaultShell string

	// StatTimeout is a duration for how long the outdatedness analyzer's
	// filesystem scan may run before a caller should treat it as stuck. It
	// is not enforced: the analyzer imposes no deadline, and cmd/spate calls
	// it without one.
	StatTimeout time.Duration

	// OutdatedOnlyDefault is the default for exporters' Options.OutdatedOnly
	// when a CLI invocation doesn't override it (spec §6: shell and SLURM
	// default to true; Make-family targets ignore the flag entirely).
	OutdatedOnlyDefault bool
}

// Default returns a Config with the toolkit's documented defaults.
func Default() *Config {
	return &Config{
		DefaultEngine:       "mustache",
		DefaultShell:        "/bin/bash",
		StatTimeout:         30 * time.Second,
		OutdatedOnlyDefault: true,
	}
}

// Validate checks whether c's values are self-consistent.
func (c *Config) Validate() error {
	if c.DefaultEngine == "" {
		return ErrInvalidDefaultEngine
	}
	if c.DefaultShell == "" {
		return ErrInvalidDefaultShell
	}
	if c.StatTimeout < 0 {
		return ErrInvalidStatTimeout
	}
	return nil
}

// Clone creates a deep copy of c. Config currently holds no reference
// fields, but Clone is kept (rather than relying on a bare struct copy at
// call sites) so it stays correct if a future field adds one, matching the
// teacher's own Clone discipline.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
