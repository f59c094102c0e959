package audit

import (
	"sync"

	market "main/internal/domain/entity/market"
	interfaces "main/internal/domain/interfaces"
)

// MemoryLog is a process-lifetime, mutex-guarded audit sink. It grows without
// bound: entries are traceability records, never replayed or compacted.
type MemoryLog struct {
	mu      sync.Mutex
	entries []market.AuditEntry
}

var _ interfaces.AuditSink = (*MemoryLog)(nil)

func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

// Record appends one entry. Safe for concurrent callers; append order under
// concurrency follows lock acquisition order.
func (l *MemoryLog) Record(entry market.AuditEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
}

// Entries returns a copy of the recorded entries, oldest first.
func (l *MemoryLog) Entries() []market.AuditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]market.AuditEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len reports how many commands have been recorded.
func (l *MemoryLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
