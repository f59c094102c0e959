package market

import (
	"time"

	"github.com/google/uuid"
)

// AuditEntry records one command submitted to the analytics engine, kept for
// traceability only. Entries are append-only for the lifetime of the engine
// instance.
type AuditEntry struct {
	ID       uuid.UUID
	Command  string
	IssuedAt time.Time
}
