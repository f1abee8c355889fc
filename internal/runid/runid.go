// Package runid mints the per-invocation correlation identifier stamped on
// cmd/spate's load/save/echo/draw/export operations, grounded on the
// teacher's use of google/uuid for per-request identifiers (backend/pkg/
// storage and the root workflow registry). The identifier never enters the
// persisted workflow document (internal/serialize's round-trip law, spec
// §8, must not depend on it) — it exists purely for log correlation across
// one CLI invocation.
package runid

import "github.com/google/uuid"

// New mints a fresh run identifier.
func New() string {
	return uuid.New().String()
}
