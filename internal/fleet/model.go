package fleet

import (
	"time"

	"github.com/google/uuid"
)

// Fleet represents a row in the fleets table. The SRP core only needs a
// fleet's existence and display name; everything else is bookkeeping.
type Fleet struct {
	ID            uuid.UUID
	DisplayName   string
	CommanderName string
	CreatedAt     time.Time
}
