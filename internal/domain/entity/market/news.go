package market

import (
	"time"

	"github.com/google/uuid"
)

// NewsItem is a dated news record attached to a company. Sentiment is
// conventionally in [-1, 1] but the range is not enforced here.
type NewsItem struct {
	ID        uuid.UUID `json:"id"`
	Date      time.Time `json:"date"`
	Title     string    `json:"title"`
	Sentiment float64   `json:"sentiment"`
}
