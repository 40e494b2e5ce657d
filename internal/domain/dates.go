package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var dueDatePhraseRe = regexp.MustCompile(
	`(?i)\b(` +
		`\d{4}-\d{2}-\d{2}` + // YYYY-MM-DD
		`|` +
		`\d{1,2}/\d{1,2}/\d{4}` + // DD/MM/YYYY or MM/DD/YYYY
		`|` +
		`(?:jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\s+\d{1,2},?\s+\d{4}` +
		`|` +
		`today|tomorrow|yesterday` +
		`|` +
		`(?:next\s+|this\s+)?(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday)` +
		`)`,
)

// ResolveDueDate turns a raw due-date string from a tool call into a concrete
// date. Relative phrases like "tomorrow" or "next friday" resolve against ref.
// An empty input resolves to ref's date, truncated to midnight in loc.
func ResolveDueDate(raw string, ref time.Time, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return dateOnly(ref.In(loc)), nil
	}

	if t, ok := ExtractDateFromText(raw, ref, loc); ok {
		return t, nil
	}

	t, err := dateparse.ParseIn(raw, loc)
	if err != nil {
		return time.Time{}, NewValidationErr(fmt.Sprintf("could not understand due date %q", raw))
	}
	return dateOnly(t), nil
}

// ExtractDateFromText scans free text for the first date-like phrase and
// resolves it against ref.
func ExtractDateFromText(text string, ref time.Time, loc *time.Location) (time.Time, bool) {
	m := dueDatePhraseRe.FindStringSubmatch(text)
	if len(m) < 2 {
		return time.Time{}, false
	}

	token := strings.ToLower(strings.TrimSpace(m[1]))

	if t, ok := resolveRelativeDate(token, ref, loc); ok {
		return t, true
	}

	t, err := dateparse.ParseIn(token, loc)
	if err != nil {
		return time.Time{}, false
	}
	return dateOnly(t), true
}

func resolveRelativeDate(token string, ref time.Time, loc *time.Location) (time.Time, bool) {
	base := dateOnly(ref.In(loc))

	switch token {
	case "today":
		return base, true
	case "tomorrow":
		return base.AddDate(0, 0, 1), true
	case "yesterday":
		return base.AddDate(0, 0, -1), true
	}

	name := token
	forward := false
	if after, ok := strings.CutPrefix(token, "next "); ok {
		name = after
		forward = true
	} else if after, ok := strings.CutPrefix(token, "this "); ok {
		name = after
	}

	wd, ok := parseWeekday(name)
	if !ok {
		return time.Time{}, false
	}

	delta := (int(wd) - int(base.Weekday()) + 7) % 7
	if delta == 0 && forward {
		delta = 7
	}
	return base.AddDate(0, 0, delta), true
}

func parseWeekday(s string) (time.Weekday, bool) {
	switch s {
	case "sunday":
		return time.Sunday, true
	case "monday":
		return time.Monday, true
	case "tuesday":
		return time.Tuesday, true
	case "wednesday":
		return time.Wednesday, true
	case "thursday":
		return time.Thursday, true
	case "friday":
		return time.Friday, true
	case "saturday":
		return time.Saturday, true
	default:
		return 0, false
	}
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
