package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category is the closed classification label attached to an email.
type Category string

const (
	CategoryInterested    Category = "interested"
	CategoryMeetingBooked Category = "meeting_booked"
	CategoryNotInterested Category = "not_interested"
	CategorySpam          Category = "spam"
	CategoryOutOfOffice   Category = "out_of_office"
)

// ParseCategory normalizes a free-text classifier response (trim +
// lowercase) and maps it onto the closed category set. Anything outside
// the set is an error: the caller must surface it rather than coerce the
// response into a default category.
func ParseCategory(s string) (Category, error) {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case CategoryInterested, CategoryMeetingBooked, CategoryNotInterested, CategorySpam, CategoryOutOfOffice:
		return c, nil
	default:
		return "", fmt.Errorf("unrecognized category %q", s)
	}
}

// Email is a persisted inbound message. (AccountID, MessageID) is unique:
// no two stored emails for the same account may share an external message
// identifier. Category stays nil until classification succeeds.
type Email struct {
	ID          uuid.UUID
	AccountID   uuid.UUID
	MessageID   string // external identifier assigned by the mail source
	FromAddress string
	ToAddress   string
	Subject     string
	BodyText    string
	BodyHTML    string
	Folder      string
	ReceivedAt  time.Time
	IsRead      bool
	Category    *Category
	CreatedAt   time.Time
}

// BestBody returns the plain-text body, falling back to HTML when the
// source provided no text part.
func (e *Email) BestBody() string {
	if e.BodyText != "" {
		return e.BodyText
	}
	return e.BodyHTML
}
