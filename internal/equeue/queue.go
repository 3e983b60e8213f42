// Package equeue implements the client's process-wide input event queue:
// single-producer, drained once per render tick, with auxiliary key-repeat
// detection for the TUI's held-key affordances.
package equeue

import "time"

// Event is one queued input event. Char is non-zero when the event
// represents a printable character keypress; Payload carries the original
// event value (e.g. a bubbletea tea.Msg) for consumers to type-assert.
type Event struct {
	Payload any
	Char    rune
}

// Key wraps a character keypress.
func Key(r rune) Event { return Event{Payload: r, Char: r} }

// Other wraps any non-character event (resize, non-rune key, etc).
func Other(payload any) Event { return Event{Payload: payload} }

const repeatWindow = 300 * time.Millisecond

// Queue is the process-wide FIFO of input events. It is written and read
// only by the UI thread and is never shared across goroutines, so it needs
// no internal lock.
type Queue struct {
	events []Event

	lastChar   rune
	lastCharAt time.Time
	repeatN    int

	now func() time.Time
}

// New returns an empty Queue.
func New() *Queue {
	return &Queue{now: time.Now}
}

// Push appends e, an O(1) operation, and updates key-repeat bookkeeping.
func (q *Queue) Push(e Event) {
	q.events = append(q.events, e)

	if e.Char == 0 {
		return
	}
	now := q.now()
	if e.Char == q.lastChar && now.Sub(q.lastCharAt) < repeatWindow {
		q.repeatN++
	} else {
		q.repeatN = 1
	}
	q.lastChar = e.Char
	q.lastCharAt = now
}

// ConsumeIf scans the queue once, removing and returning every event
// matching pred. Consumers treat the result as a set per tick; no ordering
// guarantee is part of the contract.
func (q *Queue) ConsumeIf(pred func(Event) bool) []Event {
	var matched []Event
	remaining := q.events[:0]
	for _, e := range q.events {
		if pred(e) {
			matched = append(matched, e)
		} else {
			remaining = append(remaining, e)
		}
	}
	q.events = remaining
	return matched
}

// Clear empties the queue.
func (q *Queue) Clear() {
	q.events = nil
}

// Len reports the number of events currently queued.
func (q *Queue) Len() int { return len(q.events) }

// PressedAtLeast reports whether character c has been pushed at least n
// times in a row with inter-event gaps under 300ms.
func (q *Queue) PressedAtLeast(c rune, n int) bool {
	return q.lastChar == c && q.repeatN >= n
}
