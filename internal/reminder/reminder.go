// Package reminder defines the Reminder record shared by the store,
// scheduler, transport, and TUI layers.
package reminder

import "github.com/kalo-labs/hkb/internal/hdate"

// Reminder is a single scheduled note. Id is assigned by the store on
// creation and is unique and monotonically increasing; CreatedAt is
// immutable once set.
type Reminder struct {
	ID        int64            `json:"id"`
	Note      string           `json:"note"`
	RemindAt  hdate.SimpleDate `json:"remind_at"`
	CreatedAt hdate.SimpleDate `json:"created_at"`
}
