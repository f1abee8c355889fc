// Package spateerr defines the single error family used across the toolkit.
//
// Every public operation that can fail returns a *Error carrying one of the
// Kind values below, following the sentinel-error-table idiom (see the
// Err* variables at the end of this file, and internal/config/errors.go):
// group related sentinels, document the raising operation, and let callers
// compare with errors.Is.
package spateerr

import (
	"errors"
	"fmt"
)

// Kind classifies the error family described in spec §7.
type Kind string

const (
	InvalidName         Kind = "invalid_name"
	EmptyJob            Kind = "empty_job"
	DuplicateJob        Kind = "duplicate_job"
	UnknownJob          Kind = "unknown_job"
	DuplicatePath       Kind = "duplicate_path"
	DoubleProducer      Kind = "double_producer"
	Cycle               Kind = "cycle"
	TemplateError       Kind = "template_error"
	FilesystemError     Kind = "filesystem_error"
	SerializationError  Kind = "serialization_error"
)

// Error is the concrete error type returned by every fallible operation.
type Error struct {
	Kind Kind
	// Job and Path identify the offending entity, when applicable. Either
	// may be empty.
	Job  string
	Path string
	// Msg is a short human-readable detail.
	Msg string
	// Cause is the underlying error, if any (e.g. an *os.PathError from a
	// stat, or a YAML decode error).
	Cause error
}

func (e *Error) Error() string {
	switch {
	case e.Job != "" && e.Path != "":
		return fmt.Sprintf("%s: job %q, path %q: %s", e.Kind, e.Job, e.Path, e.Msg)
	case e.Job != "":
		return fmt.Sprintf("%s: job %q: %s", e.Kind, e.Job, e.Msg)
	case e.Path != "":
		return fmt.Sprintf("%s: path %q: %s", e.Kind, e.Path, e.Msg)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// Is supports errors.Is(err, spateerr.Kind) style comparisons by also
// matching against a bare Kind wrapped in an Error with no other fields,
// and supports errors.Is(err, spateerr.New(kind, "")) comparisons.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New constructs an Error of the given kind with a message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf constructs an Error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// WithJob returns a copy of e annotated with a job identifier.
func (e *Error) WithJob(job string) *Error {
	c := *e
	c.Job = job
	return &c
}

// WithPath returns a copy of e annotated with a path.
func (e *Error) WithPath(path string) *Error {
	c := *e
	c.Path = path
	return &c
}

// WithCause returns a copy of e with an underlying cause attached.
func (e *Error) WithCause(cause error) *Error {
	c := *e
	c.Cause = cause
	return &c
}

// Sentinel, kind-only markers usable with errors.Is(err, spateerr.ErrCycle)
// and friends, for callers that don't need the job/path detail.
var (
	ErrInvalidName        = &Error{Kind: InvalidName}
	ErrEmptyJob           = &Error{Kind: EmptyJob}
	ErrDuplicateJob       = &Error{Kind: DuplicateJob}
	ErrUnknownJob         = &Error{Kind: UnknownJob}
	ErrDuplicatePath      = &Error{Kind: DuplicatePath}
	ErrDoubleProducer     = &Error{Kind: DoubleProducer}
	ErrCycle              = &Error{Kind: Cycle}
	ErrTemplateError      = &Error{Kind: TemplateError}
	ErrFilesystemError    = &Error{Kind: FilesystemError}
	ErrSerializationError = &Error{Kind: SerializationError}
)

// Of reports whether err is a *Error of the given kind.
func Of(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
