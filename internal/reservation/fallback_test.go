package reservation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTitle(t *testing.T) {
	p := NewPatternExtractor(newTestNormalizer(), DefaultTitleSuffix)

	tests := []struct {
		input string
		want  string
	}{
		{"reservation for Maria on friday", "Maria Appointment"},
		{"under the name of Alice Smith", "Alice Smith Appointment"},
		{"book it under Bob please", "Bob Appointment"},
		{"my name is Carol", "Carol Appointment"},
		{"a table for Dan at noon", "Dan Appointment"},
		{"book for tomorrow", ""},
		{"book a table for 3pm", ""},
		{"hello there", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, p.ExtractTitle(tt.input))
		})
	}
}

func TestTitleTemplateOrderIsFixed(t *testing.T) {
	names := make([]string, 0, len(TitleTemplateOrder))
	for _, tpl := range TitleTemplateOrder {
		names = append(names, tpl.Name)
	}
	assert.Equal(t, []string{"under-the-name-of", "under", "for", "name-is", "reservation-for"}, names)
}

func TestExtractDate(t *testing.T) {
	p := NewPatternExtractor(newTestNormalizer(), DefaultTitleSuffix)

	tests := []struct {
		name  string
		input string
		want  Outcome
	}{
		{"tomorrow", "see you Tomorrow", Parsed("15.10.2026")},
		{"today beats weekday", "today or friday", Parsed("14.10.2026")},
		{"bare same weekday is today", "see you wednesday", Parsed("14.10.2026")},
		{"next same weekday is a week out", "next wednesday works", Parsed("21.10.2026")},
		{"bare later weekday", "monday works", Parsed("19.10.2026")},
		{"canonical order wins over mention order", "friday or monday", Parsed("19.10.2026")},
		{"nothing", "whenever suits", Outcome{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.ExtractDate(tt.input))
		})
	}
}

func TestPatternExtractHonoursNeeds(t *testing.T) {
	p := NewPatternExtractor(newTestNormalizer(), DefaultTitleSuffix)
	text := "reservation for Maria tomorrow at 3 o'clock in the afternoon"

	all := p.Extract(text, FallbackNeeds{Title: true, Date: true, Time: true})
	assert.Equal(t, "Maria Appointment", all.Title)
	assert.Equal(t, Parsed("15.10.2026"), all.Date)
	assert.Equal(t, Parsed("15:00"), all.Time)

	none := p.Extract(text, FallbackNeeds{})
	assert.Equal(t, Extraction{}, none)
}

func TestPatternExtractSkipsUnparsedTime(t *testing.T) {
	p := NewPatternExtractor(newTestNormalizer(), DefaultTitleSuffix)

	got := p.Extract("whenever suits", FallbackNeeds{Time: true})
	assert.True(t, got.Time.Empty())
}
