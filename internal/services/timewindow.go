package services

import (
	"strings"
	"time"
)

type TimeToken string

const (
	TimeToday    TimeToken = "today"
	TimeTomorrow TimeToken = "tomorrow"
	TimeThisWeek TimeToken = "thisWeek"
	TimeNextWeek TimeToken = "nextWeek"
)

var timeTokens = []TimeToken{TimeToday, TimeTomorrow, TimeThisWeek, TimeNextWeek}

// TimeWindow is an inclusive range of instants.
type TimeWindow struct {
	Token TimeToken
	Start time.Time
	End   time.Time
}

func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

func ParseTimeToken(s string) (TimeToken, bool) {
	s = strings.TrimSpace(s)
	for _, tok := range timeTokens {
		if strings.EqualFold(string(tok), s) {
			return tok, true
		}
	}
	return "", false
}

// ResolveTimeWindows maps each recognized token to its window in now's
// location. Unknown tokens are skipped and repeated tokens resolve once, so
// the result may be empty.
func ResolveTimeWindows(tokens []string, now time.Time) []TimeWindow {
	var windows []TimeWindow
	seen := map[TimeToken]bool{}
	for _, raw := range tokens {
		tok, ok := ParseTimeToken(raw)
		if !ok || seen[tok] {
			continue
		}
		seen[tok] = true
		windows = append(windows, ResolveTimeWindow(tok, now))
	}
	return windows
}

func ResolveTimeWindow(tok TimeToken, now time.Time) TimeWindow {
	today := startOfDay(now)
	monday := startOfWeek(now)

	w := TimeWindow{Token: tok}
	switch tok {
	case TimeToday:
		w.Start, w.End = today, endOfDay(today)
	case TimeTomorrow:
		tomorrow := today.AddDate(0, 0, 1)
		w.Start, w.End = tomorrow, endOfDay(tomorrow)
	case TimeThisWeek:
		w.Start, w.End = monday, endOfDay(monday.AddDate(0, 0, 6))
	case TimeNextWeek:
		next := monday.AddDate(0, 0, 7)
		w.Start, w.End = next, endOfDay(next.AddDate(0, 0, 6))
	}
	return w
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// endOfDay returns the last millisecond of t's calendar day.
func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Millisecond)
}

// startOfWeek returns Monday 00:00 of t's week, counting Sunday as day 7.
func startOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return startOfDay(t).AddDate(0, 0, -(weekday - 1))
}
