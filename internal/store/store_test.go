package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kalo-labs/hkb/internal/hdate"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return s
}

func dateAt(hour int) hdate.SimpleDate {
	return hdate.FromTime(time.Date(2024, 4, 14, hour, 0, 0, 0, time.UTC), hdate.UTC)
}

func TestCreateFetchOne(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, "stand up", dateAt(9))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("Create did not assign an id")
	}

	got, err := s.FetchOne(ctx, created.ID)
	if err != nil {
		t.Fatalf("FetchOne: %v", err)
	}
	if got.Note != "stand up" || !got.RemindAt.Equal(dateAt(9)) {
		t.Errorf("FetchOne = %+v, want note=stand up remind_at=%s", got, dateAt(9))
	}
}

func TestFetchOne_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.FetchOne(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("FetchOne(999) = %v, want ErrNotFound", err)
	}
}

func TestFetchMany_BetweenAndWithoutIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, _ := s.Create(ctx, "a", dateAt(6))
	b, _ := s.Create(ctx, "b", dateAt(9))
	_, _ = s.Create(ctx, "c", dateAt(12))

	got, err := s.FetchMany(ctx, Between(dateAt(6), dateAt(10)))
	if err != nil {
		t.Fatalf("FetchMany: %v", err)
	}
	if len(got) != 2 || got[0].ID != a.ID || got[1].ID != b.ID {
		t.Errorf("FetchMany(between) = %+v, want [a,b]", got)
	}

	got, err = s.FetchMany(ctx, Options{WithoutIDs: []int64{a.ID}})
	if err != nil {
		t.Fatalf("FetchMany withoutIds: %v", err)
	}
	for _, r := range got {
		if r.ID == a.ID {
			t.Errorf("FetchMany(withoutIds) still contains excluded id %d", a.ID)
		}
	}
	if len(got) != 2 {
		t.Errorf("FetchMany(withoutIds) len = %d, want 2", len(got))
	}
}

func TestUpdate_PartialFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r, _ := s.Create(ctx, "original", dateAt(9))

	newNote := "renamed"
	updated, err := s.Update(ctx, r.ID, &newNote, nil)
	if err != nil {
		t.Fatalf("Update note only: %v", err)
	}
	if updated.Note != "renamed" || !updated.RemindAt.Equal(dateAt(9)) {
		t.Errorf("Update note only = %+v, want note=renamed remind_at unchanged", updated)
	}

	newTime := dateAt(15)
	updated, err = s.Update(ctx, r.ID, nil, &newTime)
	if err != nil {
		t.Fatalf("Update remind_at only: %v", err)
	}
	if updated.Note != "renamed" || !updated.RemindAt.Equal(dateAt(15)) {
		t.Errorf("Update remind_at only = %+v, want note unchanged remind_at=%s", updated, dateAt(15))
	}
}

func TestUpdate_NotFound(t *testing.T) {
	s := newTestStore(t)
	note := "x"
	_, err := s.Update(context.Background(), 999, &note, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Update(999) = %v, want ErrNotFound", err)
	}
}

func TestDeleteOneAndMany(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r1, _ := s.Create(ctx, "a", dateAt(1))
	r2, _ := s.Create(ctx, "b", dateAt(2))

	if err := s.DeleteOne(ctx, r1.ID); err != nil {
		t.Fatalf("DeleteOne: %v", err)
	}
	if _, err := s.FetchOne(ctx, r1.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("FetchOne after delete = %v, want ErrNotFound", err)
	}

	n, err := s.DeleteMany(ctx, Options{RemindAtLe: remindAtPtr(dateAt(23))})
	if err != nil {
		t.Fatalf("DeleteMany: %v", err)
	}
	if n != 1 {
		t.Errorf("DeleteMany removed %d rows, want 1", n)
	}
	if _, err := s.FetchOne(ctx, r2.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("FetchOne(r2) after DeleteMany = %v, want ErrNotFound", err)
	}
}

func remindAtPtr(d hdate.SimpleDate) *hdate.SimpleDate { return &d }
