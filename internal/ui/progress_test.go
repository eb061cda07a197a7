package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"missionreview/internal/driver"
)

func TestProgressModelEvents(t *testing.T) {
	names := []string{"contracts/CO10_Alpha", "contracts/CO4_Bravo", "specials/SCO8_Charlie"}
	m := NewProgressModel("Reviewing missions", names, nil).(*progressModel)

	m.applyEvent(driver.Event{Mission: names[0], Stage: driver.StageCheck, Status: driver.StatusWorking})
	if m.items[0].status != "checking" || m.finished != 0 {
		t.Fatalf("working: %+v finished=%d", m.items[0], m.finished)
	}
	m.applyEvent(driver.Event{Mission: names[0], Stage: driver.StageCheck, Status: driver.StatusDone, Errors: 2})
	m.applyEvent(driver.Event{Mission: names[1], Stage: driver.StageCheck, Status: driver.StatusDone, Cached: true})
	m.applyEvent(driver.Event{Mission: names[2], Stage: driver.StageCheck, Status: driver.StatusError, Err: errors.New("boom")})
	// повторное финальное событие не должно увеличивать счётчик
	m.applyEvent(driver.Event{Mission: names[2], Stage: driver.StageCheck, Status: driver.StatusError})
	m.applyEvent(driver.Event{Mission: "unknown", Status: driver.StatusDone})

	want := []string{"2 errors", "cached", "failed"}
	for i, w := range want {
		if m.items[i].status != w {
			t.Errorf("item %d status = %q, want %q", i, m.items[i].status, w)
		}
	}
	if m.finished != 3 {
		t.Errorf("finished = %d, want 3", m.finished)
	}

	view := m.View()
	if !strings.Contains(view, "(3/3)") || !strings.Contains(view, "SCO8_Charlie") {
		t.Errorf("view:\n%s", view)
	}
}

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		ev   driver.Event
		want string
	}{
		{driver.Event{Status: driver.StatusQueued}, "queued"},
		{driver.Event{Stage: driver.StageCache, Status: driver.StatusWorking}, "cache"},
		{driver.Event{Status: driver.StatusDone}, "ok"},
		{driver.Event{Status: driver.StatusDone, Errors: 1, Cached: true}, "1 error"},
	}
	for _, tt := range tests {
		if got := statusLabel(tt.ev); got != tt.want {
			t.Errorf("statusLabel(%+v) = %q, want %q", tt.ev, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("contracts/CO10_Alpha", 10); got != "contrac..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("contracts/CO10_Alpha", 10); runewidth.StringWidth(got) != 10 {
		t.Errorf("truncate width = %d, want 10", runewidth.StringWidth(got))
	}
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("абвгд", 2); got != "аб" {
		t.Errorf("truncate = %q", got)
	}
}
