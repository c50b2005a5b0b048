package outbox

import (
	"time"

	"github.com/fastygo/salescore/domain"
)

// Entry is a domain event awaiting republication after a failed
// delivery to the live sink.
type Entry struct {
	Event     domain.Event `json:"event"`
	Retries   int          `json:"retries"`
	Timestamp time.Time    `json:"timestamp"`
	Sequence  uint64       `json:"sequence"`

	bucketKey []byte
}

func (e *Entry) normalize(seq uint64) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	e.Sequence = seq
}
