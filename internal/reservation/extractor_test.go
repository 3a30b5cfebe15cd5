package reservation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityExtract(t *testing.T) {
	x := NewEntityExtractor(newTestNormalizer(), DefaultTitleSuffix)

	tests := []struct {
		name     string
		entities []Entity
		want     Extraction
	}{
		{
			name: "person date time",
			entities: []Entity{
				{LabelPerson, "John"},
				{LabelDate, "tomorrow"},
				{LabelTime, "3pm"},
			},
			want: Extraction{Title: "John Appointment", Date: Parsed("15.10.2026"), Time: Parsed("15:00")},
		},
		{
			name:     "last person wins",
			entities: []Entity{{LabelPerson, "John"}, {LabelPerson, "Mary"}},
			want:     Extraction{Title: "Mary Appointment"},
		},
		{
			name:     "rejected person keeps earlier title",
			entities: []Entity{{LabelPerson, "John"}, {LabelPerson, "Tomorrow"}},
			want:     Extraction{Title: "John Appointment"},
		},
		{
			name:     "time-like person rejected",
			entities: []Entity{{LabelPerson, "5 pm"}},
			want:     Extraction{},
		},
		{
			name:     "unparsed time kept raw",
			entities: []Entity{{LabelTime, "3 in the afternoon"}},
			want:     Extraction{Time: Unparsed("3 in the afternoon")},
		},
		{
			name:     "timestamp span read by date parser",
			entities: []Entity{{LabelTime, "2026-10-15 16:30"}},
			want:     Extraction{Time: Parsed("16:30")},
		},
		{
			name:     "unresolved date kept raw",
			entities: []Entity{{LabelDate, "the fifth"}},
			want:     Extraction{Date: Unparsed("the fifth")},
		},
		{
			name:     "other labels ignored",
			entities: []Entity{{Label("ORG"), "Acme"}, {LabelPerson, "  "}},
			want:     Extraction{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, x.Extract(tt.entities))
		})
	}
}
