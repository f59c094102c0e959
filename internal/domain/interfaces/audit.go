package interfaces

import market "main/internal/domain/entity/market"

// AuditSink receives one entry per engine invocation, success or failure.
// Implementations choose their own concurrency discipline; the engine calls
// Record from whatever goroutine handles the command.
type AuditSink interface {
	Record(entry market.AuditEntry)
	// Entries returns a copy of everything recorded so far, oldest first.
	Entries() []market.AuditEntry
}
