package reservation

import (
	"fmt"
	"time"
)

// State is where a conversation stands after a turn.
type State string

const (
	StateAwaitingTitle     State = "AWAITING_TITLE"
	StateAwaitingDate      State = "AWAITING_DATE"
	StateAwaitingTime      State = "AWAITING_TIME"
	StateAwaitingValidTime State = "AWAITING_VALID_TIME"
	StateReadyToCommit     State = "READY_TO_COMMIT"
	StateCommitted         State = "COMMITTED"
)

// Missing-field names reported alongside prompts.
const (
	FieldTitle = "title"
	FieldStart = "start"
	FieldEnd   = "end"
)

// User-facing prompts.
const (
	PromptTitle       = "Please enter the name for the appointment:"
	PromptDate        = "Please enter the date for the appointment:"
	PromptTime        = "Please enter the time for the appointment:"
	PromptInvalidTime = "Invalid time format. Please enter a valid time:"
	PromptConflict    = "That time is already booked. Please choose a different time."
	PromptProcessing  = "I'm processing your reservation. Please provide more details if needed."
)

// Rejection reasons reported when a requested time is refused.
const (
	RejectInvalidTime  = "invalid_time"
	RejectOutsideHours = "outside_hours"
	RejectConflict     = "conflict"
)

// Clock is a time of day in minutes after midnight.
type Clock int

// NewClock builds a Clock from hour and minute.
func NewClock(hour, minute int) Clock { return Clock(hour*60 + minute) }

// ParseClockValue reads "HH:MM" into a Clock.
func ParseClockValue(s string) (Clock, error) {
	h, m, err := splitClock(s)
	if err != nil {
		return 0, err
	}
	return NewClock(h, m), nil
}

func clockOf(t time.Time) Clock { return NewClock(t.Hour(), t.Minute()) }

func (c Clock) String() string { return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60) }

// Policy holds the business constraints checked before commit.
type Policy struct {
	WorkdayStart Clock
	WorkdayEnd   Clock
}

// DefaultPolicy is the 09:00-17:00 working window.
func DefaultPolicy() Policy {
	return Policy{WorkdayStart: NewClock(9, 0), WorkdayEnd: NewClock(17, 0)}
}

// Within reports whether c lies in the inclusive working window.
func (p Policy) Within(c Clock) bool {
	return c >= p.WorkdayStart && c <= p.WorkdayEnd
}

// OutsideHoursPrompt renders the working-hours rejection.
func (p Policy) OutsideHoursPrompt() string {
	return fmt.Sprintf("The time you entered is outside working hours (%s-%s). Please enter a different time:",
		p.WorkdayStart, p.WorkdayEnd)
}

// Turn is the outcome of advancing a draft by one step.
type Turn struct {
	Draft        Draft
	Prompts      []string
	State        State
	MissingField string
	// Rejection is set when the requested time was refused and cleared.
	Rejection string
	Committed bool
	// Interval is the record to append to the owner's booked list when Committed.
	Interval *BookedInterval
}

// NeedsInfo reports whether the user must supply or correct a field.
func (t Turn) NeedsInfo() bool { return t.MissingField != "" }

// Machine decides what to ask next and when a draft may be committed.
type Machine struct {
	policy  Policy
	overlap *OverlapChecker
}

// NewMachine creates a state machine enforcing policy. Booked instants are
// read in the local zone.
func NewMachine(policy Policy) *Machine {
	return NewMachineIn(policy, localOverlap)
}

// NewMachineIn creates a state machine that checks conflicts with overlap.
func NewMachineIn(policy Policy, overlap *OverlapChecker) *Machine {
	if overlap == nil {
		overlap = localOverlap
	}
	return &Machine{policy: policy, overlap: overlap}
}

// Check evaluates the draft in priority order without committing:
// time validity first (returning immediately on failure), then title, date,
// time presence, then conflicts. A fully valid draft is READY_TO_COMMIT.
func (m *Machine) Check(d Draft, booked []BookedInterval) Turn {
	turn := Turn{Draft: d}

	if d.Time != "" || d.EndAt != nil {
		clock, ok := appointmentClock(d)
		switch {
		case !ok:
			return m.reject(turn, RejectInvalidTime, PromptInvalidTime)
		case !m.policy.Within(clock):
			return m.reject(turn, RejectOutsideHours, m.policy.OutsideHoursPrompt())
		}
	}

	switch {
	case d.Title == "" || IsExcludedName(d.Title) || IsTimeExpression(d.Title):
		return m.ask(turn, StateAwaitingTitle, FieldTitle, PromptTitle)
	case d.Date == "" && d.StartAt == nil:
		return m.ask(turn, StateAwaitingDate, FieldStart, PromptDate)
	case d.Time == "" && d.EndAt == nil:
		return m.ask(turn, StateAwaitingTime, FieldEnd, PromptTime)
	}

	if m.overlap.Check(d.Interval(), booked) {
		return m.reject(turn, RejectConflict, PromptConflict)
	}
	turn.State = StateReadyToCommit
	return turn
}

// Advance runs Check and commits a ready draft. The caller persists
// Turn.Interval into the owner's booked list.
func (m *Machine) Advance(d Draft, booked []BookedInterval) Turn {
	turn := m.Check(d, booked)
	if turn.State == StateReadyToCommit {
		interval := turn.Draft.Interval()
		turn.Interval = &interval
		turn.Committed = true
		turn.State = StateCommitted
		turn.Prompts = append(turn.Prompts, Confirmation(turn.Draft))
	}
	if len(turn.Prompts) == 0 && !turn.Committed {
		turn.Prompts = append(turn.Prompts, PromptProcessing)
	}
	return turn
}

// appointmentClock is the clock time validated against working hours: the
// end of the appointment once combined, the requested time otherwise.
func appointmentClock(d Draft) (Clock, bool) {
	if d.EndAt != nil {
		return clockOf(*d.EndAt), true
	}
	t, err := ParseClock(d.Time)
	if err != nil {
		return 0, false
	}
	return clockOf(t), true
}

func (m *Machine) reject(turn Turn, reason, prompt string) Turn {
	turn.Draft.ClearTime()
	turn.Rejection = reason
	turn.State = StateAwaitingValidTime
	turn.MissingField = FieldEnd
	turn.Prompts = append(turn.Prompts, prompt)
	return turn
}

func (m *Machine) ask(turn Turn, state State, field, prompt string) Turn {
	turn.State = state
	turn.MissingField = field
	turn.Prompts = append(turn.Prompts, prompt)
	return turn
}

// Confirmation renders the booking confirmation for a committed draft.
func Confirmation(d Draft) string {
	if d.StartAt != nil {
		return fmt.Sprintf("Appointment booked for %s on %s at %s.",
			d.Title, d.StartAt.Format(DateLayout), d.StartAt.Format(ClockLayout))
	}
	return fmt.Sprintf("Appointment booked for %s!", d.Title)
}
