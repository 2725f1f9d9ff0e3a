package model

import (
	"strings"
	"time"
)

// EventType categorizes ledger events
type EventType string

const (
	EventPay   EventType = "pay"   // one participant lent money to another
	EventDutch EventType = "dutch" // one payer's outlay split across several participants
	EventClear EventType = "clear" // a pairwise debt discharged in full
)

// Event is an immutable, append-only ledger action. The balance table is a
// pure fold of all events in ID order; the newest event may be removed by
// undo, which also reverses its balance effect.
type Event struct {
	ID        int64
	Type      EventType
	FromName  string
	ToNames   string // single name, or comma-joined list for dutch splits
	Amount    int64  // positive; the full total for dutch events
	Comment   string
	CreatedAt time.Time
}

// Recipients splits ToNames into its member names
func (e *Event) Recipients() []string {
	if e.ToNames == "" {
		return nil
	}
	return strings.Split(e.ToNames, ",")
}

// Involves reports whether the given participant is the sender or one of the
// recipients of this event
func (e *Event) Involves(name string) bool {
	if e.FromName == name {
		return true
	}
	for _, to := range e.Recipients() {
		if to == name {
			return true
		}
	}
	return false
}

// DutchShare is the ceiling-division share each recipient of a dutch event
// owes the payer: the total is split across the recipients plus the payer's
// own implicit share, rounded up. Undo recomputes the share with this same
// formula, since events record only the total.
func DutchShare(total int64, recipients int) int64 {
	heads := int64(recipients) + 1
	return (total + heads - 1) / heads
}
