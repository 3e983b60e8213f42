// Package tui implements the HKB TUI client: a (view, mode) state machine
// layered over the input event queue and a non-blocking connection to the
// daemon. The top-level tea.Model reacts to tea.Tick for the render loop
// and to a channel-fed Cmd for events pushed by the daemon; it never
// awaits socket I/O itself.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/kalo-labs/hkb/internal/equeue"
	"github.com/kalo-labs/hkb/internal/hdate"
	"github.com/kalo-labs/hkb/internal/hdate/parser"
	"github.com/kalo-labs/hkb/internal/reminder"
	"github.com/kalo-labs/hkb/internal/wireevent"
)

// tickRate paces the render loop at roughly 60 Hz: the queue is drained
// and the UI re-rendered once per tick, never on every raw keystroke.
const tickRate = 16 * time.Millisecond

// view is the top-level screen.
type view int

const (
	viewMain view = iota
	viewReminders
)

// mode is Normal (navigation/motions) or Editing (text insertion).
type mode int

const (
	modeNormal mode = iota
	modeEditing
)

// remindersSub is the Reminders view's own sub-state machine.
type remindersSub int

const (
	subList remindersSub = iota
	subCreate
)

// createFocus indexes the Create sub-state's focus ring.
type createFocus int

const (
	focusTitle createFocus = iota
	focusDate
	focusSubmit
	focusRingLen
)

// daemonClient is the slice of *transport.Client the app model needs;
// narrowed to an interface so tests can substitute a fake without a real
// socket connection.
type daemonClient interface {
	Send(wireevent.Event)
	SetOnEvent(func(wireevent.Event))
}

// NewAppModel constructs the client's top-level tea.Model, wired to a
// daemon connection via cli. cli.Run must be driven by the caller;
// NewAppModel only registers the callback that feeds pushed events into
// the UI loop. watch is optional; pass nil to skip live config reload.
func NewAppModel(cli daemonClient, watch *ConfigWatch) tea.Model {
	events := make(chan wireevent.Event, 64)
	cli.SetOnEvent(func(e wireevent.Event) {
		select {
		case events <- e:
		default:
		}
	})

	return &appModel{
		client:      cli,
		serverEvent: events,
		watch:       watch,
		queue:       equeue.New(),
		view:        viewMain,
		mode:        modeNormal,
		sub:         subList,
		titleInput:  newInput(40, "reminder note"),
		dateInput:   newInput(40, "e.g. \"in 10 minutes\", \"next monday\""),
		filterInput: newInput(40, "/ to filter by note"),
	}
}

type appModel struct {
	client      daemonClient
	serverEvent chan wireevent.Event
	watch       *ConfigWatch
	queue       *equeue.Queue

	width, height int

	view view
	mode mode
	sub  remindersSub

	today    []reminder.Reminder
	upcoming []reminder.Reminder
	selected int

	createFocus createFocus
	titleInput  *input
	dateInput   *input
	formErr     string

	// filtering is List's type-to-jump affordance: "/" opens a fuzzy
	// filter over both stacked lists' notes.
	filtering   bool
	filterInput *input

	status string
}

func (m *appModel) Init() tea.Cmd {
	m.client.Send(wireevent.SyncRequest())
	cmds := []tea.Cmd{tickEvery(), waitForServerEvent(m.serverEvent)}
	if m.watch != nil {
		cmds = append(cmds, listenConfig(m.watch))
	}
	return tea.Batch(cmds...)
}

type tickMsg time.Time
type serverEventMsg wireevent.Event
type configChangedMsg struct{}

func listenConfig(w *ConfigWatch) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		for range w.Changes(ctx) {
			return configChangedMsg{}
		}
		return nil
	}
}

func tickEvery() tea.Cmd {
	return tea.Tick(tickRate, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func waitForServerEvent(ch <-chan wireevent.Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return nil
		}
		return serverEventMsg(e)
	}
}

func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.titleInput.width = max(10, m.width-20)
		m.dateInput.width = max(10, m.width-20)
		return m, nil

	case tea.KeyMsg:
		// Keys are queued and drained on the next render tick, not acted
		// on immediately.
		if r := keyRune(msg); r != 0 {
			m.queue.Push(equeue.Key(r))
		} else {
			m.queue.Push(equeue.Other(msg))
		}
		return m, nil

	case tickMsg:
		if m.drainQueue() {
			return m, tea.Quit
		}
		return m, tickEvery()

	case serverEventMsg:
		m.applyServerEvent(wireevent.Event(msg))
		return m, waitForServerEvent(m.serverEvent)

	case configChangedMsg:
		m.status = RenderStatus("info", "config reloaded")
		if m.watch != nil {
			return m, listenConfig(m.watch)
		}
		return m, nil

	default:
		return m, nil
	}
}

// drainQueue consumes every queued input event for this tick and reports
// whether a quit was requested.
func (m *appModel) drainQueue() bool {
	events := m.queue.ConsumeIf(func(equeue.Event) bool { return true })
	for _, e := range events {
		if m.handleInput(e) {
			return true
		}
	}
	return false
}

func (m *appModel) applyServerEvent(e wireevent.Event) {
	switch e.Kind {
	case wireevent.KindSyncResponse:
		m.today, m.upcoming = partitionReminders(e.Reminders)
		m.clampSelection()
	case wireevent.KindReminderCreated, wireevent.KindReminderUpdated:
		m.upsertReminder(e.Reminder)
		m.clampSelection()
	case wireevent.KindReminderDeleted:
		m.removeReminder(e.ReminderID)
		m.clampSelection()
	}
}

func (m *appModel) upsertReminder(r reminder.Reminder) {
	all := append(append([]reminder.Reminder{}, m.today...), m.upcoming...)
	replaced := false
	for i := range all {
		if all[i].ID == r.ID {
			all[i] = r
			replaced = true
			break
		}
	}
	if !replaced {
		all = append(all, r)
	}
	m.today, m.upcoming = partitionReminders(all)
}

func (m *appModel) removeReminder(id int64) {
	all := append(append([]reminder.Reminder{}, m.today...), m.upcoming...)
	out := all[:0]
	for _, r := range all {
		if r.ID != id {
			out = append(out, r)
		}
	}
	m.today, m.upcoming = partitionReminders(out)
}

// partitionReminders splits rows into "today" (remind_at within the
// current local day) and "upcoming" (everything else), both ordered by
// remind_at ascending.
func partitionReminders(rs []reminder.Reminder) (today, upcoming []reminder.Reminder) {
	now := hdate.NowLocal()
	startOfDay := now.StartOfDay()
	endOfDay := now.EndOfDay()
	for _, r := range rs {
		at := r.RemindAt.Local()
		if !at.Before(startOfDay) && !at.After(endOfDay) {
			today = append(today, r)
		} else {
			upcoming = append(upcoming, r)
		}
	}
	sortByRemindAt(today)
	sortByRemindAt(upcoming)
	return today, upcoming
}

func sortByRemindAt(rs []reminder.Reminder) {
	for i := 1; i < len(rs); i++ {
		for j := i; j > 0 && rs[j].RemindAt.Before(rs[j-1].RemindAt); j-- {
			rs[j], rs[j-1] = rs[j-1], rs[j]
		}
	}
}

func (m *appModel) clampSelection() {
	today, upcoming := m.filteredLists()
	n := len(today) + len(upcoming)
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *appModel) selectedReminder() (reminder.Reminder, bool) {
	today, upcoming := m.filteredLists()
	n := len(today) + len(upcoming)
	if n == 0 || m.selected < 0 || m.selected >= n {
		return reminder.Reminder{}, false
	}
	if m.selected < len(today) {
		return today[m.selected], true
	}
	return upcoming[m.selected-len(today)], true
}

// filteredLists returns today/upcoming narrowed to the List sub-state's
// active fuzzy filter, or the unfiltered lists when no filter text has
// been entered.
func (m *appModel) filteredLists() (today, upcoming []reminder.Reminder) {
	term := strings.TrimSpace(m.filterInput.Value())
	if term == "" {
		return m.today, m.upcoming
	}
	return fuzzyFilterReminders(m.today, term), fuzzyFilterReminders(m.upcoming, term)
}

// fuzzyFilterReminders ranks rs by approximate match of term against each
// note.
func fuzzyFilterReminders(rs []reminder.Reminder, term string) []reminder.Reminder {
	if len(rs) == 0 {
		return nil
	}
	notes := make([]string, len(rs))
	for i, r := range rs {
		notes[i] = r.Note
	}
	matches := fuzzy.Find(term, notes)
	out := make([]reminder.Reminder, 0, len(matches))
	for _, mt := range matches {
		out = append(out, rs[mt.Index])
	}
	return out
}

// handleInput applies the (view, mode) transition table to a single
// dequeued input event. It reports whether Ctrl-C was seen.
func (m *appModel) handleInput(e equeue.Event) bool {
	key, ok := e.Payload.(rune)
	keyMsg, isKeyMsg := e.Payload.(tea.KeyMsg)

	// Global transitions apply before any view/mode-specific handling.
	if isKeyMsg && keyMsg.Type == tea.KeyCtrlC {
		return true
	}

	navDisabled := m.view == viewReminders && (m.sub == subCreate || m.filtering)

	if isKeyMsg && keyMsg.Type == tea.KeyEsc {
		if m.view == viewReminders && m.sub == subList && m.filtering {
			m.cancelFilter()
			return false
		}
		if m.mode == modeEditing {
			m.mode = modeNormal
			return false
		}
		if m.view == viewReminders && m.sub == subCreate {
			m.cancelCreate()
			return false
		}
		return false
	}

	if isKeyMsg && keyMsg.Type == tea.KeyTab && !navDisabled {
		m.cycleView()
		return false
	}

	if m.view == viewReminders {
		m.handleRemindersInput(e, key, ok, keyMsg, isKeyMsg)
	}
	return false
}

func (m *appModel) cycleView() {
	if m.view == viewMain {
		m.view = viewReminders
	} else {
		m.view = viewMain
	}
}

func (m *appModel) handleRemindersInput(e equeue.Event, key rune, ok bool, keyMsg tea.KeyMsg, isKeyMsg bool) {
	switch m.sub {
	case subList:
		if m.filtering && m.mode == modeEditing {
			m.handleFilterInput(key, ok, keyMsg, isKeyMsg)
			return
		}
		m.handleListInput(key, ok, keyMsg, isKeyMsg)
	case subCreate:
		m.handleCreateInput(e, key, ok, keyMsg, isKeyMsg)
	}
}

func (m *appModel) handleListInput(key rune, ok bool, keyMsg tea.KeyMsg, isKeyMsg bool) {
	if isKeyMsg && keyMsg.Type == tea.KeyBackspace {
		m.deleteSelected()
		return
	}
	if !ok {
		return
	}
	switch key {
	case 'a', 'A':
		m.openCreate()
	case '/':
		m.startFilter()
	case 'j':
		today, upcoming := m.filteredLists()
		n := len(today) + len(upcoming)
		if m.selected < n-1 {
			m.selected++
		}
	case 'k':
		if m.selected > 0 {
			m.selected--
		}
	case 'd':
		m.deleteSelected()
	}
}

// startFilter opens the List sub-state's type-to-jump filter, reusing
// Editing mode's text-insertion handling the way the Create form's
// fields do.
func (m *appModel) startFilter() {
	m.filtering = true
	m.mode = modeEditing
	m.filterInput.Clear()
	m.selected = 0
}

func (m *appModel) cancelFilter() {
	m.filtering = false
	m.mode = modeNormal
	m.filterInput.Clear()
	m.clampSelection()
}

func (m *appModel) handleFilterInput(key rune, ok bool, keyMsg tea.KeyMsg, isKeyMsg bool) {
	if isKeyMsg && keyMsg.Type == tea.KeyEnter {
		m.mode = modeNormal
		return
	}
	if isKeyMsg && (keyMsg.Type == tea.KeyBackspace || keyMsg.Type == tea.KeyCtrlH) {
		m.filterInput.Backspace()
		m.selected = 0
		return
	}
	if isKeyMsg && keyMsg.Type == tea.KeyLeft {
		m.filterInput.ArrowLeft()
		return
	}
	if isKeyMsg && keyMsg.Type == tea.KeyRight {
		m.filterInput.ArrowRight()
		return
	}
	if ok {
		m.filterInput.InsertRune(key)
		m.selected = 0
		return
	}
	if isKeyMsg && keyMsg.Type == tea.KeySpace {
		m.filterInput.InsertRune(' ')
		m.selected = 0
	}
}

func (m *appModel) openCreate() {
	m.sub = subCreate
	m.mode = modeEditing
	m.createFocus = focusTitle
	m.titleInput.Clear()
	m.dateInput.Clear()
	m.formErr = ""
}

func (m *appModel) cancelCreate() {
	m.sub = subList
	m.mode = modeNormal
	m.formErr = ""
}

func (m *appModel) deleteSelected() {
	r, ok := m.selectedReminder()
	if !ok {
		return
	}
	m.client.Send(wireevent.ReminderDeleted(r.ID))
}

func (m *appModel) handleCreateInput(e equeue.Event, key rune, ok bool, keyMsg tea.KeyMsg, isKeyMsg bool) {
	if m.mode == modeNormal {
		if ok {
			switch key {
			case 'i', 'I', 'a', 'A':
				if m.createFocus != focusSubmit {
					m.mode = modeEditing
				}
				return
			}
		}
		if isKeyMsg && keyMsg.Type == tea.KeyTab {
			m.createFocus = (m.createFocus + 1) % focusRingLen
			return
		}
		if isKeyMsg && keyMsg.Type == tea.KeyShiftTab {
			m.createFocus = (m.createFocus - 1 + focusRingLen) % focusRingLen
			return
		}
		if isKeyMsg && keyMsg.Type == tea.KeyEnter && m.createFocus == focusSubmit {
			m.submitCreate()
			return
		}
		m.applyNormalMotion(m.focusedInput(), key, ok, keyMsg, isKeyMsg)
		return
	}

	// Editing mode: text insertion into the focused field.
	in := m.focusedInput()
	if in == nil {
		return
	}
	if isKeyMsg && keyMsg.Type == tea.KeyTab {
		m.createFocus = (m.createFocus + 1) % focusRingLen
		return
	}
	if isKeyMsg && keyMsg.Type == tea.KeyShiftTab {
		m.createFocus = (m.createFocus - 1 + focusRingLen) % focusRingLen
		return
	}
	if isKeyMsg && keyMsg.Type == tea.KeyEnter {
		m.mode = modeNormal
		return
	}
	if isKeyMsg && (keyMsg.Type == tea.KeyBackspace || keyMsg.Type == tea.KeyCtrlH) {
		in.Backspace()
		return
	}
	if isKeyMsg && keyMsg.Type == tea.KeyLeft {
		in.ArrowLeft()
		return
	}
	if isKeyMsg && keyMsg.Type == tea.KeyRight {
		in.ArrowRight()
		return
	}
	if ok {
		in.InsertRune(key)
		return
	}
	if isKeyMsg && keyMsg.Type == tea.KeySpace {
		in.InsertRune(' ')
	}
}

func (m *appModel) applyNormalMotion(in *input, key rune, ok bool, keyMsg tea.KeyMsg, isKeyMsg bool) {
	if in == nil {
		return
	}
	if ok {
		switch key {
		case 'h':
			in.MoveCharLeft()
		case 'l':
			in.MoveCharRight()
		case '^':
			in.JumpStart()
		case '$':
			in.JumpEnd()
		case 'e':
			in.WordEnd()
		case 'b':
			in.WordBegin()
		}
		return
	}
	if isKeyMsg {
		switch keyMsg.Type {
		case tea.KeyLeft:
			in.MoveCharLeft()
		case tea.KeyRight:
			in.MoveCharRight()
		case tea.KeyHome:
			in.JumpStart()
		case tea.KeyEnd:
			in.JumpEnd()
		}
	}
}

func (m *appModel) focusedInput() *input {
	switch m.createFocus {
	case focusTitle:
		return m.titleInput
	case focusDate:
		return m.dateInput
	default:
		return nil
	}
}

func (m *appModel) submitCreate() {
	title := m.titleInput.Value()
	dateText := m.dateInput.Value()
	if title == "" {
		m.formErr = "title must not be empty"
		return
	}
	if dateText == "" {
		m.formErr = "date must not be empty"
		return
	}
	at, err := parser.Parse(dateText, hdate.NowLocal())
	if err != nil {
		m.formErr = fmt.Sprintf("could not parse date: %v", err)
		return
	}
	m.client.Send(wireevent.ReminderCreated(reminder.Reminder{Note: title, RemindAt: at}))
	m.sub = subList
	m.mode = modeNormal
	m.formErr = ""
}

func keyRune(msg tea.KeyMsg) rune {
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		return msg.Runes[0]
	}
	return 0
}

func (m *appModel) View() string {
	now := time.Now().Format("2006-01-02 15:04:05")
	header := RenderHeader("hkb", now, m.width)
	footer := RenderFooter(m.hints(), m.status, m.width)

	var body string
	switch m.view {
	case viewMain:
		body = m.viewMainScreen()
	case viewReminders:
		body = m.viewRemindersScreen()
	}

	return header + "\n" + body + "\n" + footer
}

func (m *appModel) viewMainScreen() string {
	content := "Press Tab to view reminders.\n\n" +
		fmt.Sprintf("Today: %d   Upcoming: %d", len(m.today), len(m.upcoming))
	return RenderSection("hkb", content, m.width)
}

func (m *appModel) viewRemindersScreen() string {
	switch m.sub {
	case subCreate:
		return m.viewCreateForm()
	default:
		return m.viewLists()
	}
}

func (m *appModel) viewLists() string {
	today, upcoming := m.filteredLists()
	todayItems := reminderLabels(today)
	upcomingItems := reminderLabels(upcoming)

	selToday, selUpcoming := -1, -1
	if m.selected < len(today) {
		selToday = m.selected
	} else {
		selUpcoming = m.selected - len(today)
	}

	todaySec := RenderSection("Today", nonEmpty(RenderList(todayItems, selToday, max(20, m.width-6))), m.width)
	upcomingSec := RenderSection("Upcoming", nonEmpty(RenderList(upcomingItems, selUpcoming, max(20, m.width-6))), m.width)

	body := todaySec + "\n" + upcomingSec
	if detail := m.viewSelectedDetail(); detail != "" {
		body += "\n" + detail
	}
	if m.filtering || m.filterInput.Value() != "" {
		filterLine := fieldLabel("Filter", m.filtering) + " " + m.filterInput.View(m.filtering, m.filtering)
		body = filterLine + "\n" + body
	}
	return body
}

// viewSelectedDetail renders the currently selected reminder's full record
// as aligned key/value pairs below the two lists, so moving the j/k
// selection shows more than the single truncated list line.
func (m *appModel) viewSelectedDetail() string {
	r, ok := m.selectedReminder()
	if !ok {
		return ""
	}
	kv := [][2]string{
		{"id", fmt.Sprintf("%d", r.ID)},
		{"note", r.Note},
		{"remind at", r.RemindAt.Local().String()},
		{"created at", r.CreatedAt.Local().String()},
	}
	return RenderSection("Detail", RenderKeyValueList(kv, max(20, m.width-6)), m.width)
}

func nonEmpty(s string) string {
	if s == "" {
		return MutedStyle.Render("(none)")
	}
	return s
}

func reminderLabels(rs []reminder.Reminder) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = fmt.Sprintf("%s — %s", r.RemindAt.Local().Time().Format("2006-01-02 15:04"), r.Note)
	}
	return out
}

func (m *appModel) viewCreateForm() string {
	editingTitle := m.mode == modeEditing && m.createFocus == focusTitle
	editingDate := m.mode == modeEditing && m.createFocus == focusDate

	title := fieldLabel("Note", m.createFocus == focusTitle) + "\n" +
		m.titleInput.View(editingTitle, m.createFocus == focusTitle)
	date := fieldLabel("When", m.createFocus == focusDate) + "\n" +
		m.dateInput.View(editingDate, m.createFocus == focusDate)

	submitLabel := "[ Create ]"
	if m.createFocus == focusSubmit {
		submitLabel = ListSelectedStyle.Render(submitLabel)
	} else {
		submitLabel = EmphStyle.Render(submitLabel)
	}

	body := title + "\n\n" + date + "\n\n" + submitLabel
	if m.formErr != "" {
		body += "\n\n" + RenderStatus("err", m.formErr)
	}
	return RenderSection("New reminder", body, m.width)
}

func fieldLabel(name string, focused bool) string {
	if focused {
		return SectionTitleStyle.Render(name + " *")
	}
	return MutedStyle.Render(name)
}

func (m *appModel) hints() []Hint {
	if m.view == viewReminders && m.sub == subCreate {
		if m.mode == modeEditing {
			return []Hint{
				{Key: "Enter", Text: "commit field"},
				{Key: "Tab", Text: "next field"},
				{Key: "Esc", Text: "normal mode"},
			}
		}
		return []Hint{
			{Key: "i/a", Text: "edit field"},
			{Key: "Tab", Text: "next field"},
			{Key: "Enter", Text: "submit (on button)"},
			{Key: "Esc", Text: "cancel"},
		}
	}
	if m.view == viewReminders && m.filtering {
		return []Hint{
			{Key: "Enter", Text: "keep filter"},
			{Key: "Esc", Text: "clear filter"},
		}
	}
	if m.view == viewReminders {
		return []Hint{
			{Key: "j/k", Text: "move"},
			{Key: "a", Text: "new reminder"},
			{Key: "/", Text: "filter"},
			{Key: "d", Text: "delete"},
			{Key: "Tab", Text: "switch view"},
			{Key: "Ctrl+C", Text: "quit"},
		}
	}
	return []Hint{
		{Key: "Tab", Text: "reminders"},
		{Key: "Ctrl+C", Text: "quit"},
	}
}
