package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

type Weekday int16

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var weekdayNames = [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func (d Weekday) String() string {
	if d < Sunday || d > Saturday {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// DaySortOrder returns 0 for the weekday of now, up to 6 for the day before.
func (d Weekday) DaySortOrder(now time.Time) int {
	return (int(d) - int(now.Weekday()) + 7) % 7
}

type MeetingStatus int16

const (
	MeetingStatusInactive MeetingStatus = 0
	MeetingStatusActive   MeetingStatus = 1
)

// ClockTime is a time of day in minutes since midnight.
type ClockTime int

var ErrInvalidClockTime = errors.New("invalid time of day")

func NewClockTime(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

func ParseClockTime(s string) (ClockTime, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewClockTime(t.Hour(), t.Minute()), nil
		}
	}
	return 0, errors.Wrap(ErrInvalidClockTime, s)
}

func (c ClockTime) Hour() int   { return int(c) / 60 }
func (c ClockTime) Minute() int { return int(c) % 60 }

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// Kitchen renders the time as "7:30PM" for printed listings.
func (c ClockTime) Kitchen() string {
	return time.Date(0, 1, 1, c.Hour(), c.Minute(), 0, 0, time.UTC).Format(time.Kitchen)
}

func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *ClockTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseClockTime(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

type Meeting struct {
	ID              int64         `json:"id"`
	LocationID      int64         `json:"location_id" validate:"required"`
	GroupID         *int64        `json:"group_id"`
	Title           string        `json:"title" validate:"required,max=255"`
	Slug            string        `json:"slug" validate:"omitempty,max=255"`
	DayOfWeek       Weekday       `json:"day_of_week" validate:"min=0,max=6"`
	StartTime       *ClockTime    `json:"start_time"`
	EndTime         *ClockTime    `json:"end_time"`
	Status          MeetingStatus `json:"status" validate:"oneof=0 1"`
	Details         *string       `json:"details"`
	Area            string        `json:"area" validate:"max=10"`
	District        string        `json:"district" validate:"max=10"`
	ConferenceURL   string        `json:"conference_url" validate:"omitempty,max=200,url"`
	ConferencePhone string        `json:"conference_phone" validate:"omitempty,max=255,conference_phone"`
	Venmo           string        `json:"venmo" validate:"omitempty,max=31,venmo"`
	PayPal          string        `json:"paypal" validate:"omitempty,min=3,max=255,paypal"`
	CashApp         string        `json:"cashapp" validate:"omitempty,max=31,cashapp"`
	TypeIDs         []int64       `json:"types"`
	Live            bool          `json:"live"`
	LastPublishedAt *time.Time    `json:"last_published_at"`
}

func (m *Meeting) IsOnline() bool {
	return m.ConferenceURL != ""
}

func (m *Meeting) String() string {
	start := "None"
	if m.StartTime != nil {
		start = m.StartTime.String()
	}
	return fmt.Sprintf("%s: %s @ %s", m.Title, m.DayOfWeek, start)
}
