package wireevent

import (
	"testing"
	"time"

	"github.com/kalo-labs/hkb/internal/hdate"
	"github.com/kalo-labs/hkb/internal/reminder"
)

func sampleReminder() reminder.Reminder {
	at := hdate.FromTime(time.Date(2024, 4, 14, 9, 0, 0, 0, time.UTC), hdate.UTC)
	created := hdate.FromTime(time.Date(2024, 4, 14, 8, 0, 0, 0, time.UTC), hdate.UTC)
	return reminder.Reminder{ID: 7, Note: "stand up", RemindAt: at, CreatedAt: created}
}

func TestEventRoundTrip(t *testing.T) {
	tests := []Event{
		Ping(),
		Pong(),
		ReminderCreated(sampleReminder()),
		ReminderUpdated(sampleReminder()),
		ReminderDeleted(42),
		SyncRequest(),
		SyncResponse([]reminder.Reminder{sampleReminder()}),
	}

	for _, e := range tests {
		t.Run(string(e.Kind), func(t *testing.T) {
			b, err := Marshal(e)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			got, err := Unmarshal(b)
			if err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if got.Kind != e.Kind {
				t.Errorf("Kind = %v, want %v", got.Kind, e.Kind)
			}
			if got.Kind == KindReminderCreated || got.Kind == KindReminderUpdated {
				if got.Reminder.ID != e.Reminder.ID || got.Reminder.Note != e.Reminder.Note {
					t.Errorf("Reminder = %+v, want %+v", got.Reminder, e.Reminder)
				}
			}
			if got.Kind == KindReminderDeleted && got.ReminderID != e.ReminderID {
				t.Errorf("ReminderID = %d, want %d", got.ReminderID, e.ReminderID)
			}
			if got.Kind == KindSyncResponse && len(got.Reminders) != len(e.Reminders) {
				t.Errorf("Reminders = %+v, want %+v", got.Reminders, e.Reminders)
			}
		})
	}
}

func TestUnmarshal_UnknownTagDiscards(t *testing.T) {
	got, err := Unmarshal([]byte(`{"type":"something_from_the_future"}`))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Kind != KindUnknown {
		t.Errorf("Kind = %v, want KindUnknown", got.Kind)
	}
}
