// Package wireevent defines the tagged-union Event carried across the
// daemon↔client transport. Payloads are JSON-encoded tagged unions; the
// decoder accepts any unrecognized tag as Unknown so older peers can be
// ignored rather than rejected.
package wireevent

import (
	"encoding/json"
	"fmt"

	"github.com/kalo-labs/hkb/internal/reminder"
)

// Kind tags which variant an Event carries.
type Kind string

const (
	KindPing            Kind = "ping"
	KindPong            Kind = "pong"
	KindReminderCreated Kind = "reminder_created"
	KindReminderUpdated Kind = "reminder_updated"
	KindReminderDeleted Kind = "reminder_deleted"
	// A freshly connected client has nothing but push announcements to go
	// on; SyncRequest/SyncResponse give it an initial snapshot of existing
	// reminders to populate its list.
	KindSyncRequest  Kind = "sync_request"
	KindSyncResponse Kind = "sync_response"
	// KindUnknown is never produced by Marshal; it is what Unmarshal
	// produces for a tag it does not recognize.
	KindUnknown Kind = "unknown"
)

// Event is the tagged union {Ping, Pong, ReminderCreated(Reminder),
// ReminderUpdated(Reminder), ReminderDeleted(id), SyncRequest,
// SyncResponse([]Reminder)}. Ping/Pong exists so the transport always has
// a payload-free heartbeat to exercise.
//
// ReminderCreated and ReminderUpdated double as client→daemon requests:
// a client proposes a reminder with ID == 0 (create) or ID set (update)
// and the daemon answers by persisting it and broadcasting the same Kind
// back out, now carrying the store-assigned fields, to every connection
// including the sender. ReminderDeleted is symmetric: a client sends it
// as a delete-by-id request, the daemon deletes and rebroadcasts it
// unchanged as confirmation.
type Event struct {
	Kind       Kind
	Reminder   reminder.Reminder
	ReminderID int64
	Reminders  []reminder.Reminder
}

// Ping builds a Ping event.
func Ping() Event { return Event{Kind: KindPing} }

// Pong builds a Pong event.
func Pong() Event { return Event{Kind: KindPong} }

// ReminderCreated builds a ReminderCreated event.
func ReminderCreated(r reminder.Reminder) Event {
	return Event{Kind: KindReminderCreated, Reminder: r}
}

// ReminderUpdated builds a ReminderUpdated event.
func ReminderUpdated(r reminder.Reminder) Event {
	return Event{Kind: KindReminderUpdated, Reminder: r}
}

// ReminderDeleted builds a ReminderDeleted event.
func ReminderDeleted(id int64) Event {
	return Event{Kind: KindReminderDeleted, ReminderID: id}
}

// SyncRequest builds a request for the daemon's current reminder list.
func SyncRequest() Event { return Event{Kind: KindSyncRequest} }

// SyncResponse builds a snapshot reply to a SyncRequest.
func SyncResponse(rs []reminder.Reminder) Event {
	return Event{Kind: KindSyncResponse, Reminders: rs}
}

type wireEnvelope struct {
	Type       Kind                `json:"type"`
	Reminder   *reminder.Reminder  `json:"reminder,omitempty"`
	ReminderID *int64              `json:"reminder_id,omitempty"`
	Reminders  []reminder.Reminder `json:"reminders,omitempty"`
}

// Marshal serializes e to its wire JSON form.
func Marshal(e Event) ([]byte, error) {
	env := wireEnvelope{Type: e.Kind}
	switch e.Kind {
	case KindReminderCreated, KindReminderUpdated:
		r := e.Reminder
		env.Reminder = &r
	case KindReminderDeleted:
		id := e.ReminderID
		env.ReminderID = &id
	case KindSyncResponse:
		env.Reminders = e.Reminders
	case KindPing, KindPong, KindSyncRequest:
		// no payload
	default:
		return nil, fmt.Errorf("wireevent: cannot marshal unknown kind %q", e.Kind)
	}
	return json.Marshal(env)
}

// Unmarshal parses b into an Event. An unrecognized type tag resolves to
// KindUnknown rather than an error.
func Unmarshal(b []byte) (Event, error) {
	var env wireEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return Event{}, fmt.Errorf("wireevent: decode: %w", err)
	}

	switch env.Type {
	case KindPing:
		return Ping(), nil
	case KindPong:
		return Pong(), nil
	case KindReminderCreated:
		if env.Reminder == nil {
			return Event{}, fmt.Errorf("wireevent: reminder_created missing reminder payload")
		}
		return ReminderCreated(*env.Reminder), nil
	case KindReminderUpdated:
		if env.Reminder == nil {
			return Event{}, fmt.Errorf("wireevent: reminder_updated missing reminder payload")
		}
		return ReminderUpdated(*env.Reminder), nil
	case KindReminderDeleted:
		if env.ReminderID == nil {
			return Event{}, fmt.Errorf("wireevent: reminder_deleted missing reminder_id")
		}
		return ReminderDeleted(*env.ReminderID), nil
	case KindSyncRequest:
		return SyncRequest(), nil
	case KindSyncResponse:
		return SyncResponse(env.Reminders), nil
	default:
		return Event{Kind: KindUnknown}, nil
	}
}
