package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseClock(t *testing.T) {
	testCases := []struct {
		in      string
		h, m    int
		wantErr bool
	}{
		{in: "09:00", h: 9, m: 0},
		{in: "9:05", h: 9, m: 5},
		{in: "23:59", h: 23, m: 59},
		{in: " 08:00 ", h: 8, m: 0},
		{in: "25:99", wantErr: true},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "", wantErr: true},
		{in: "0800", wantErr: true},
		{in: "+8:00", wantErr: true},
		{in: "08:5", wantErr: true},
		{in: "ab:cd", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			h, m, err := ParseClock(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.h, h)
			assert.Equal(t, tc.m, m)
		})
	}
}

func TestDailyDue(t *testing.T) {
	at := func(h, m, s int) time.Time {
		return time.Date(2026, 3, 14, h, m, s, 0, time.UTC)
	}

	d := Daily{Clock: "08:00"}
	assert.True(t, d.Due(at(8, 0, 3)))
	assert.True(t, d.Due(at(8, 0, 59)))
	assert.False(t, d.Due(at(7, 59, 59)))
	assert.False(t, d.Due(at(8, 1, 0)))

	assert.False(t, Daily{Clock: "25:99"}.Due(at(1, 39, 0)))
	assert.False(t, Daily{Clock: ""}.Due(at(0, 0, 0)))
}

func TestEventWindowBounds(t *testing.T) {
	w := EventWindow("2026-03-14", "10:00", 15, time.UTC)
	at := func(h, m int) time.Time {
		return time.Date(2026, 3, 14, h, m, 0, 0, time.UTC)
	}

	assert.False(t, w.Due(at(9, 44)))
	assert.True(t, w.Due(at(9, 45)))
	assert.True(t, w.Due(at(10, 0)))
	assert.True(t, w.Due(at(10, 29)))
	assert.False(t, w.Due(at(10, 30)))
	assert.False(t, w.Due(time.Date(2026, 3, 15, 9, 50, 0, 0, time.UTC)))
}

func TestEventWindowMalformed(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	assert.False(t, EventWindow("2026-13-40", "10:00", 15, time.UTC).Due(now))
	assert.False(t, EventWindow("2026-03-14", "nope", 15, time.UTC).Due(now))
	assert.False(t, EventWindow("", "", 0, nil).Due(now))
}

func TestEventWindowNegativeLeadClamped(t *testing.T) {
	w := EventWindow("2026-03-14", "10:00", -30, time.UTC)
	assert.Equal(t, time.Duration(0), w.Lead)
	assert.False(t, w.Due(time.Date(2026, 3, 14, 9, 59, 0, 0, time.UTC)))
	assert.True(t, w.Due(time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)))
}

func TestTriggerSignatureChangesOnEdit(t *testing.T) {
	a := EventWindow("2026-03-14", "10:00", 15, time.UTC)
	b := EventWindow("2026-03-14", "10:00", 10, time.UTC)
	assert.NotEqual(t, a.String(), b.String())
	assert.NotEqual(t, Daily{Clock: "08:00"}.String(), Daily{Clock: "08:30"}.String())
}

func TestDueSkipsInactive(t *testing.T) {
	now := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	items := []Item{
		{Kind: KindTodo, ID: "a", RemindMe: true, Trigger: Daily{Clock: "08:00"}},
		{Kind: KindTodo, ID: "b", RemindMe: false, Trigger: Daily{Clock: "08:00"}},
		{Kind: KindTodo, ID: "c", RemindMe: true, Done: true, Trigger: Daily{Clock: "08:00"}},
		{Kind: KindTodo, ID: "d", RemindMe: true},
	}

	due := Due(items, now)
	assert.Len(t, due, 1)
	assert.Equal(t, "a", due[0].ID)
}
