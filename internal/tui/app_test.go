package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kalo-labs/hkb/internal/equeue"
	"github.com/kalo-labs/hkb/internal/hdate"
	"github.com/kalo-labs/hkb/internal/reminder"
	"github.com/kalo-labs/hkb/internal/wireevent"
)

// fakeClient substitutes for *transport.Client in tests: it needs no
// socket, just records what the app model sent.
type fakeClient struct {
	sent []wireevent.Event
}

func (f *fakeClient) Send(e wireevent.Event)           { f.sent = append(f.sent, e) }
func (f *fakeClient) SetOnEvent(func(wireevent.Event)) {}

func newTestApp(t *testing.T) (*appModel, *fakeClient) {
	t.Helper()
	fc := &fakeClient{}
	m := NewAppModel(fc, nil).(*appModel)
	m.width, m.height = 80, 24
	return m, fc
}

func TestApp_TabCyclesView(t *testing.T) {
	m, _ := newTestApp(t)
	if m.view != viewMain {
		t.Fatalf("initial view = %v, want Main", m.view)
	}
	m.queue.Push(equeue.Other(tea.KeyMsg{Type: tea.KeyTab}))
	if quit := m.drainQueue(); quit {
		t.Fatal("unexpected quit")
	}
	if m.view != viewReminders {
		t.Fatalf("view after Tab = %v, want Reminders", m.view)
	}
	m.queue.Push(equeue.Other(tea.KeyMsg{Type: tea.KeyTab}))
	m.drainQueue()
	if m.view != viewMain {
		t.Fatalf("view after second Tab = %v, want Main", m.view)
	}
}

func TestApp_CtrlCQuits(t *testing.T) {
	m, _ := newTestApp(t)
	m.queue.Push(equeue.Other(tea.KeyMsg{Type: tea.KeyCtrlC}))
	if quit := m.drainQueue(); !quit {
		t.Fatal("expected Ctrl-C to request quit")
	}
}

func TestApp_CreateFlowValidatesAndSubmits(t *testing.T) {
	m, fc := newTestApp(t)
	m.view = viewReminders

	// 'a' opens Create, sets Editing mode, focuses title.
	m.queue.Push(equeue.Key('a'))
	m.drainQueue()
	if m.sub != subCreate || m.mode != modeEditing || m.createFocus != focusTitle {
		t.Fatalf("after 'a': sub=%v mode=%v focus=%v", m.sub, m.mode, m.createFocus)
	}

	for _, r := range "stand up" {
		m.queue.Push(equeue.Key(r))
	}
	m.drainQueue()
	if m.titleInput.Value() != "stand up" {
		t.Fatalf("title = %q, want %q", m.titleInput.Value(), "stand up")
	}

	m.queue.Push(equeue.Other(tea.KeyMsg{Type: tea.KeyTab}))
	m.drainQueue()
	if m.createFocus != focusDate {
		t.Fatalf("focus = %v, want Date", m.createFocus)
	}
	for _, r := range "in 10 minutes" {
		m.queue.Push(equeue.Key(r))
	}
	m.drainQueue()

	// Esc returns to Normal mode without leaving Create.
	m.queue.Push(equeue.Other(tea.KeyMsg{Type: tea.KeyEsc}))
	m.drainQueue()
	if m.mode != modeNormal || m.sub != subCreate {
		t.Fatalf("after Esc: mode=%v sub=%v", m.mode, m.sub)
	}

	m.queue.Push(equeue.Other(tea.KeyMsg{Type: tea.KeyTab}))
	m.drainQueue()
	if m.createFocus != focusSubmit {
		t.Fatalf("focus = %v, want Submit", m.createFocus)
	}
	m.queue.Push(equeue.Other(tea.KeyMsg{Type: tea.KeyEnter}))
	m.drainQueue()

	if m.formErr != "" {
		t.Fatalf("formErr = %q, want none", m.formErr)
	}
	if m.sub != subList {
		t.Fatalf("sub after submit = %v, want List", m.sub)
	}
	if len(fc.sent) != 1 || fc.sent[0].Kind != wireevent.KindReminderCreated {
		t.Fatalf("sent = %+v, want exactly one ReminderCreated", fc.sent)
	}
	if fc.sent[0].Reminder.Note != "stand up" {
		t.Errorf("sent note = %q, want %q", fc.sent[0].Reminder.Note, "stand up")
	}
}

func TestApp_SubmitRejectsEmptyTitle(t *testing.T) {
	m, _ := newTestApp(t)
	m.view = viewReminders
	m.sub = subCreate
	m.createFocus = focusSubmit
	m.submitCreate()
	if m.formErr == "" {
		t.Fatal("expected a validation error for empty title")
	}
}

func TestApp_ListMotionsAndDelete(t *testing.T) {
	m, fc := newTestApp(t)
	m.view = viewReminders
	now := hdate.NowLocal()
	m.today = []reminder.Reminder{{ID: 1, Note: "a", RemindAt: now}, {ID: 2, Note: "b", RemindAt: now}}

	m.queue.Push(equeue.Key('j'))
	m.drainQueue()
	if m.selected != 1 {
		t.Fatalf("selected = %d, want 1", m.selected)
	}
	m.queue.Push(equeue.Key('k'))
	m.drainQueue()
	if m.selected != 0 {
		t.Fatalf("selected = %d, want 0", m.selected)
	}

	m.queue.Push(equeue.Key('d'))
	m.drainQueue()

	if len(fc.sent) != 1 || fc.sent[0].Kind != wireevent.KindReminderDeleted || fc.sent[0].ReminderID != 1 {
		t.Fatalf("sent = %+v, want exactly one ReminderDeleted{1}", fc.sent)
	}
}

func TestApp_BackspaceDeletesSelected(t *testing.T) {
	m, fc := newTestApp(t)
	m.view = viewReminders
	now := hdate.NowLocal()
	m.today = []reminder.Reminder{{ID: 7, Note: "a", RemindAt: now}}

	m.queue.Push(equeue.Other(tea.KeyMsg{Type: tea.KeyBackspace}))
	m.drainQueue()

	if len(fc.sent) != 1 || fc.sent[0].Kind != wireevent.KindReminderDeleted || fc.sent[0].ReminderID != 7 {
		t.Fatalf("sent = %+v, want exactly one ReminderDeleted{7}", fc.sent)
	}
}

func TestApp_FilterNarrowsListBySubstring(t *testing.T) {
	m, _ := newTestApp(t)
	m.view = viewReminders
	now := hdate.NowLocal()
	m.today = []reminder.Reminder{
		{ID: 1, Note: "pay rent", RemindAt: now},
		{ID: 2, Note: "walk the dog", RemindAt: now},
	}

	m.queue.Push(equeue.Key('/'))
	m.drainQueue()
	if !m.filtering || m.mode != modeEditing {
		t.Fatalf("after '/': filtering=%v mode=%v", m.filtering, m.mode)
	}

	for _, r := range "rent" {
		m.queue.Push(equeue.Key(r))
	}
	m.drainQueue()

	today, upcoming := m.filteredLists()
	if len(today)+len(upcoming) != 1 || (len(today) == 1 && today[0].ID != 1) {
		t.Fatalf("filtered = today:%+v upcoming:%+v, want only reminder 1", today, upcoming)
	}

	m.queue.Push(equeue.Other(tea.KeyMsg{Type: tea.KeyEsc}))
	m.drainQueue()
	if m.filtering {
		t.Fatal("expected Esc to clear the filter")
	}
	today, upcoming = m.filteredLists()
	if len(today)+len(upcoming) != 2 {
		t.Fatalf("after clearing filter, got %d+%d rows, want 2", len(today), len(upcoming))
	}
}

func TestApp_SyncResponsePartitionsTodayAndUpcoming(t *testing.T) {
	m, _ := newTestApp(t)
	now := hdate.NowLocal()
	today := now.StartOfDay().Add(hdate.Duration{Unit: hdate.Hour, N: 2})
	future := now.Add(hdate.Duration{Unit: hdate.Day, N: 3})

	m.applyServerEvent(wireevent.SyncResponse([]reminder.Reminder{
		{ID: 1, Note: "today-item", RemindAt: today},
		{ID: 2, Note: "future-item", RemindAt: future},
	}))

	if len(m.today) != 1 || m.today[0].ID != 1 {
		t.Errorf("today = %+v, want one row id 1", m.today)
	}
	if len(m.upcoming) != 1 || m.upcoming[0].ID != 2 {
		t.Errorf("upcoming = %+v, want one row id 2", m.upcoming)
	}
}
