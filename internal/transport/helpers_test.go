package transport

import (
	"time"

	"github.com/kalo-labs/hkb/internal/hdate"
	"github.com/kalo-labs/hkb/internal/reminder"
)

func sampleReminderWithNote(note string) reminder.Reminder {
	at := hdate.FromTime(time.Date(2024, 4, 14, 9, 0, 0, 0, time.UTC), hdate.UTC)
	return reminder.Reminder{ID: 1, Note: note, RemindAt: at, CreatedAt: at}
}
