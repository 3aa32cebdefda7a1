package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Category
		wantErr bool
	}{
		{"exact match", "interested", CategoryInterested, false},
		{"uppercase", "INTERESTED", CategoryInterested, false},
		{"surrounding whitespace", " Interested \n", CategoryInterested, false},
		{"meeting booked", "meeting_booked", CategoryMeetingBooked, false},
		{"not interested", "not_interested", CategoryNotInterested, false},
		{"spam", "spam", CategorySpam, false},
		{"out of office", "out_of_office", CategoryOutOfOffice, false},
		{"outside the set", "banana", "", true},
		{"empty", "", "", true},
		{"prose around the label", "the category is interested", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCategory(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, got)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBestBody(t *testing.T) {
	e := &Email{BodyText: "plain", BodyHTML: "<p>html</p>"}
	assert.Equal(t, "plain", e.BestBody())

	e.BodyText = ""
	assert.Equal(t, "<p>html</p>", e.BestBody())
}
