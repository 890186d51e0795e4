// Package ics converts the calendar to and from iCalendar files.
package ics

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/natefinch/atomic"
	"github.com/sosodev/duration"

	"github.com/notexe/personal-hub/internal/hub"
)

const productID = "-//notexe//personal-hub//EN"

// defaultDuration is used for DTEND since events carry no end time.
const defaultDuration = time.Hour

// Export writes events as one VCALENDAR. Events with reminders switched on
// get a display alarm at their lead time. Events whose date or time does not
// parse are skipped.
func Export(events []hub.CalendarEvent, loc *time.Location, w io.Writer) error {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	stamp := time.Now()
	for _, e := range events {
		start, ok := e.Start(loc)
		if !ok {
			continue
		}

		ve := cal.AddEvent(e.ID + "@personal-hub")
		ve.SetDtStampTime(stamp)
		ve.SetStartAt(start)
		ve.SetEndAt(start.Add(defaultDuration))
		ve.SetSummary(e.Title)
		if e.Location != "" {
			ve.SetLocation(e.Location)
		}
		if desc := description(e); desc != "" {
			ve.SetDescription(desc)
		}
		if e.Link != "" {
			ve.SetURL(e.Link)
		}

		if e.RemindMe {
			alarm := ve.AddAlarm()
			alarm.SetAction(ical.ActionDisplay)
			alarm.SetTrigger(fmt.Sprintf("-PT%dM", e.Lead()))
			alarm.SetProperty(ical.ComponentPropertyDescription, e.Title)
		}
	}

	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return fmt.Errorf("failed to write calendar: %w", err)
	}
	return nil
}

// WriteFile exports to path, replacing any previous file atomically.
func WriteFile(path string, events []hub.CalendarEvent, loc *time.Location) error {
	var buf bytes.Buffer
	if err := Export(events, loc, &buf); err != nil {
		return err
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func description(e hub.CalendarEvent) string {
	var lines []string
	if e.Description != "" {
		lines = append(lines, e.Description)
	}
	if e.Person != "" {
		lines = append(lines, "With: "+e.Person)
	}
	if e.Phone != "" {
		lines = append(lines, "Phone: "+e.Phone)
	}
	return strings.Join(lines, "\n")
}

// Import reads the VEVENTs of an iCalendar document. Dates and times are
// converted to loc. Events without a usable start are logged and skipped.
// Returned events have no ids; the event list assigns them.
func Import(r io.Reader, loc *time.Location, logger *slog.Logger) ([]hub.CalendarEvent, error) {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}

	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse calendar: %w", err)
	}

	var out []hub.CalendarEvent
	for _, ve := range cal.Events() {
		e, err := fromVEvent(ve, loc)
		if err != nil {
			logger.Warn("skipping calendar event", "uid", ve.Id(), "err", err)
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func fromVEvent(ve *ical.VEvent, loc *time.Location) (hub.CalendarEvent, error) {
	start, err := ve.GetStartAt()
	if err != nil {
		if start, err = ve.GetAllDayStartAt(); err != nil {
			return hub.CalendarEvent{}, fmt.Errorf("no start: %w", err)
		}
		start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	}
	start = start.In(loc)

	e := hub.CalendarEvent{
		Title:       propValue(ve, ical.ComponentPropertySummary),
		Date:        start.Format("2006-01-02"),
		Time:        start.Format("15:04"),
		Location:    propValue(ve, ical.ComponentPropertyLocation),
		Description: propValue(ve, ical.ComponentPropertyDescription),
		Link:        propValue(ve, ical.ComponentPropertyUrl),
	}
	if strings.TrimSpace(e.Title) == "" {
		e.Title = "(untitled)"
	}

	for _, alarm := range ve.Alarms() {
		p := alarm.GetProperty(ical.ComponentPropertyTrigger)
		if p == nil {
			continue
		}
		if lead, err := parseTrigger(p.Value); err == nil {
			e.RemindMe = true
			e.ReminderMinutes = hub.Minutes(lead)
			break
		}
	}
	return e, nil
}

func propValue(ve *ical.VEvent, name ical.ComponentProperty) string {
	if p := ve.GetProperty(name); p != nil {
		return p.Value
	}
	return ""
}

var errTrigger = errors.New("unsupported alarm trigger")

// maxTriggerMinutes bounds imported leads to four weeks.
const maxTriggerMinutes = 4 * 7 * 24 * 60

// parseTrigger reads a relative "-PT15M" / "-PT1H" / "-P1D" style trigger
// into minutes before the start. Triggers after the start, calendar units
// and leads beyond four weeks are rejected.
func parseTrigger(v string) (int, error) {
	v = strings.ToUpper(strings.TrimSpace(v))
	if v == "" || !strings.ContainsRune("WDHMS", rune(v[len(v)-1])) {
		return 0, errTrigger
	}
	d, err := duration.Parse(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errTrigger, err)
	}
	if d.Years != 0 || d.Months != 0 {
		return 0, errTrigger
	}

	minutes := d.Weeks*7*24*60 + d.Days*24*60 + d.Hours*60 + d.Minutes + d.Seconds/60
	switch {
	case minutes == 0:
		return 0, nil
	case !d.Negative:
		return 0, errTrigger
	case minutes > maxTriggerMinutes:
		return 0, fmt.Errorf("%w: lead of %.0f minutes", errTrigger, minutes)
	}
	return int(minutes), nil
}
