package clock

import (
	"testing"
	"time"
)

var (
	_ Clocker = New()
	_ Clocker = &Static{}
)

func TestTimeClocker_Now(t *testing.T) {
	before := time.Now()
	got := New().Now()
	after := time.Now()

	if got.Before(before) || got.After(after) {
		t.Fatalf("Now() = %v, want between %v and %v", got, before, after)
	}
}

func TestStatic_Now(t *testing.T) {
	at := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	clk := &Static{At: at}

	if got := clk.Now(); !got.Equal(at) {
		t.Fatalf("Now() = %v, want %v", got, at)
	}

	clk.At = at.Add(90 * time.Second)
	if got := clk.Now(); !got.Equal(at.Add(90 * time.Second)) {
		t.Fatalf("Now() after advance = %v, want %v", got, at.Add(90*time.Second))
	}
}
