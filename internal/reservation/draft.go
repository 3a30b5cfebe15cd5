package reservation

import (
	"encoding/json"
	"strings"
	"time"
)

// DefaultDescription is attached to every reservation created through chat.
const DefaultDescription = "Reservation made via chatbot"

// DefaultTitleSuffix is appended to an accepted name to form the title.
const DefaultTitleSuffix = " Appointment"

// Draft is the in-progress reservation threaded through a conversation.
//
// Date and Time hold what the user asked for (canonical DD.MM.YYYY / HH:MM,
// or raw phrases when unresolved). StartAt and EndAt are set only once the
// two could be combined into instants; the draft is then a committed candidate.
type Draft struct {
	Title       string
	Date        string
	Time        string
	StartAt     *time.Time
	EndAt       *time.Time
	AllDay      bool
	Description string
}

// EmptyDraft returns the canonical empty reservation.
func EmptyDraft() Draft {
	return Draft{Description: DefaultDescription}
}

// Combined reports whether Date and Time have been fused into instants.
func (d Draft) Combined() bool {
	return d.StartAt != nil && d.EndAt != nil
}

// ClearTime drops the requested time and any instants derived from it. The
// date survives so the next turn only needs a new time.
func (d *Draft) ClearTime() {
	d.Time = ""
	d.StartAt = nil
	d.EndAt = nil
}

// Start is the wire "start" value: the ISO instant once combined, the date otherwise.
func (d Draft) Start() string {
	if d.StartAt != nil {
		return d.StartAt.Format(InstantLayout)
	}
	return d.Date
}

// End is the wire "end" value: the ISO instant once combined, the time otherwise.
func (d Draft) End() string {
	if d.EndAt != nil {
		return d.EndAt.Format(InstantLayout)
	}
	return d.Time
}

// Interval converts the draft into the record persisted on commit.
func (d Draft) Interval() BookedInterval {
	return BookedInterval{
		Title:       d.Title,
		Start:       d.Start(),
		End:         d.End(),
		AllDay:      d.AllDay,
		Description: d.Description,
	}
}

type wireDraft struct {
	Title       *string `json:"title"`
	Start       *string `json:"start"`
	End         *string `json:"end"`
	AllDay      bool    `json:"all_day"`
	Description *string `json:"description"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// MarshalJSON emits the wire shape {title,start,end,all_day,description}.
func (d Draft) MarshalJSON() ([]byte, error) {
	desc := d.Description
	return json.Marshal(wireDraft{
		Title:       optional(d.Title),
		Start:       optional(d.Start()),
		End:         optional(d.End()),
		AllDay:      d.AllDay,
		Description: &desc,
	})
}

// UnmarshalJSON accepts a partial wire record; missing keys take the
// canonical empty values. ISO instants in start/end are split back into
// their date and time parts.
func (d *Draft) UnmarshalJSON(data []byte) error {
	var w wireDraft
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	out := EmptyDraft()
	out.Title = deref(w.Title)
	out.AllDay = w.AllDay
	if desc := deref(w.Description); desc != "" {
		out.Description = desc
	}

	start, end := deref(w.Start), deref(w.End)
	startAt, startIsInstant := parseISOInstant(start, time.Local)
	endAt, endIsInstant := parseISOInstant(end, time.Local)
	switch {
	case startIsInstant && endIsInstant:
		out.Date = startAt.Format(DateLayout)
		out.Time = startAt.Format(ClockLayout)
		out.StartAt, out.EndAt = &startAt, &endAt
	case startIsInstant:
		out.Date = startAt.Format(DateLayout)
		out.Time = end
	default:
		out.Date = start
		out.Time = end
	}
	*d = out
	return nil
}

// In re-reads the draft's instants as wall-clock times in loc. Wire instants
// carry no zone, so the same digits name the same slot.
func (d Draft) In(loc *time.Location) Draft {
	d.StartAt = wallClockIn(d.StartAt, loc)
	d.EndAt = wallClockIn(d.EndAt, loc)
	return d
}

func wallClockIn(t *time.Time, loc *time.Location) *time.Time {
	if t == nil || loc == nil {
		return t
	}
	w := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
	return &w
}

func parseISOInstant(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{InstantLayout, time.RFC3339} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
