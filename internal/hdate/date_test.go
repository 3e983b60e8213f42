package hdate

import (
	"errors"
	"testing"
	"time"
)

func TestSimpleDate_String_NormalizesToUTCWithZ(t *testing.T) {
	d, err := ParseRFC3339("2024-04-14T08:00:00Z")
	if err != nil {
		t.Fatalf("ParseRFC3339: %v", err)
	}
	want := "2024-04-14T08:00:00Z"
	if got := d.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestSetters_OutOfRange(t *testing.T) {
	d := FromTime(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), UTC)

	tests := []struct {
		name    string
		apply   func() (SimpleDate, error)
		wantErr bool
	}{
		{"feb 30 invalid", func() (SimpleDate, error) { return d.SetDay(30) }, true},
		{"feb 29 valid in leap year 2024", func() (SimpleDate, error) { return d.SetDay(29) }, false},
		{"hour 25 invalid", func() (SimpleDate, error) { return d.SetHour(25) }, true},
		{"minute 61 invalid", func() (SimpleDate, error) { return d.SetMinute(61) }, true},
		{"valid day 15", func() (SimpleDate, error) { return d.SetDay(15) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.apply()
			if tt.wantErr && !errors.Is(err, ErrOutOfRange) {
				t.Errorf("expected ErrOutOfRange, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestStartOfDayEndOfDay(t *testing.T) {
	d := FromTime(time.Date(2024, 4, 14, 13, 37, 42, 0, time.UTC), UTC)

	sod := d.StartOfDay()
	if sod.Hour() != 0 || sod.Minute() != 0 || sod.Second() != 0 {
		t.Errorf("StartOfDay() = %v, want midnight", sod)
	}

	eod := d.EndOfDay()
	if eod.Hour() != 23 || eod.Minute() != 59 || eod.Second() != 59 {
		t.Errorf("EndOfDay() = %v, want 23:59:59", eod)
	}
}

func TestDifference_NonNegative(t *testing.T) {
	a := FromTime(time.Date(2024, 4, 14, 8, 0, 0, 0, time.UTC), UTC)
	b := FromTime(time.Date(2024, 4, 14, 9, 0, 0, 0, time.UTC), UTC)

	if got := a.Difference(b); got != time.Hour {
		t.Errorf("a.Difference(b) = %v, want 1h", got)
	}
	if got := b.Difference(a); got != time.Hour {
		t.Errorf("b.Difference(a) = %v, want 1h (non-negative)", got)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	orig, _ := ParseRFC3339("2024-04-14T08:00:00Z")
	b, err := orig.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	var got SimpleDate
	if err := got.UnmarshalJSON(b); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if !got.Equal(orig) {
		t.Errorf("round trip mismatch: got %v, want %v", got, orig)
	}
}
