package checkout

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// IDGenerator issues order ids. Ids are unique per placement attempt, so a
// retried checkout produces a new id.
type IDGenerator interface {
	NewOrderID() string
}

// TimestampIDGenerator builds ids of the form ord_<unix millis>_<8 hex>.
// Calls are serialized.
type TimestampIDGenerator struct {
	mu  sync.Mutex
	now func() time.Time
}

func NewTimestampIDGenerator() *TimestampIDGenerator {
	return &TimestampIDGenerator{now: time.Now}
}

func (g *TimestampIDGenerator) NewOrderID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("ord_%d_%s", g.now().UnixMilli(), suffix)
}
