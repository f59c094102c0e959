package audit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	market "main/internal/domain/entity/market"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLogRecordOrder(t *testing.T) {
	log := NewMemoryLog()
	for i := 0; i < 3; i++ {
		log.Record(market.AuditEntry{
			ID:       uuid.New(),
			Command:  fmt.Sprintf("price_history: ticker=AAPL, days=%d", i),
			IssuedAt: time.Now(),
		})
	}

	entries := log.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "price_history: ticker=AAPL, days=0", entries[0].Command)
	assert.Equal(t, "price_history: ticker=AAPL, days=2", entries[2].Command)
}

func TestMemoryLogEntriesReturnsCopy(t *testing.T) {
	log := NewMemoryLog()
	log.Record(market.AuditEntry{Command: "first"})

	entries := log.Entries()
	entries[0].Command = "mutated"

	assert.Equal(t, "first", log.Entries()[0].Command)
}

func TestMemoryLogConcurrentAppend(t *testing.T) {
	log := NewMemoryLog()

	const writers = 16
	const perWriter = 50

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				log.Record(market.AuditEntry{Command: "correlation_analysis: symbol1=AAPL, symbol2=MSFT"})
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, writers*perWriter, log.Len())
}
