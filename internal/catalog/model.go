package catalog

import "time"

// Item represents a row in the asset_types table: one reimbursable asset
// type, its category (the tier table keys on this) and its market base value.
type Item struct {
	TypeID      string
	DisplayName string
	Category    string
	BaseValue   int64
	CreatedAt   time.Time
}
