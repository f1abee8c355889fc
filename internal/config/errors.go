package config

import "errors"

// Sentinel errors for Config.Validate, following the teacher's grouped
// sentinel-error-table idiom (see internal/spateerr for this codebase's
// main error family; this one stays a plain error since it never needs to
// cross the public API as a SpateError).
var (
	ErrInvalidDefaultEngine = errors.New("config: default template engine must not be empty")
	ErrInvalidDefaultShell  = errors.New("config: default shell must not be empty")
	ErrInvalidStatTimeout   = errors.New("config: stat timeout must not be negative")
)
