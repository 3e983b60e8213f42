package equeue

import (
	"testing"
	"time"
)

func TestPushAndConsumeIf(t *testing.T) {
	q := New()
	q.Push(Key('a'))
	q.Push(Other("resize"))
	q.Push(Key('b'))

	keys := q.ConsumeIf(func(e Event) bool { return e.Char != 0 })
	if len(keys) != 2 {
		t.Fatalf("ConsumeIf(isKey) len = %d, want 2", len(keys))
	}
	if q.Len() != 1 {
		t.Errorf("remaining queue len = %d, want 1", q.Len())
	}
}

func TestClear(t *testing.T) {
	q := New()
	q.Push(Key('x'))
	q.Clear()
	if q.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", q.Len())
	}
}

func TestPressedAtLeast(t *testing.T) {
	q := New()
	var clock time.Time = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	q.now = func() time.Time { return clock }

	q.Push(Key('j'))
	if q.PressedAtLeast('j', 2) {
		t.Errorf("PressedAtLeast('j',2) true after only 1 push")
	}

	clock = clock.Add(100 * time.Millisecond)
	q.Push(Key('j'))
	if !q.PressedAtLeast('j', 2) {
		t.Errorf("PressedAtLeast('j',2) false after 2 quick pushes")
	}

	clock = clock.Add(500 * time.Millisecond)
	q.Push(Key('j'))
	if q.PressedAtLeast('j', 3) {
		t.Errorf("PressedAtLeast('j',3) true despite a >300ms gap resetting the streak")
	}
}

func TestPressedAtLeast_DifferentCharResets(t *testing.T) {
	q := New()
	q.Push(Key('j'))
	q.Push(Key('k'))
	if q.PressedAtLeast('j', 1) {
		t.Errorf("PressedAtLeast('j',1) true after last push was 'k'")
	}
	if !q.PressedAtLeast('k', 1) {
		t.Errorf("PressedAtLeast('k',1) false after pushing 'k'")
	}
}
