package model

// MeetingFilter narrows the public listing. Nil fields match everything.
type MeetingFilter struct {
	Day      *Weekday
	RegionID *int64
	SpecCode *string
	// FromToday orders the listing starting with today's weekday.
	FromToday bool
}

// FeedMeeting is one record of the public JSON listing.
type FeedMeeting struct {
	Name             string   `json:"name"`
	Slug             string   `json:"slug"`
	Notes            *string  `json:"notes"`
	Updated          string   `json:"updated"`
	URL              string   `json:"url"`
	Day              Weekday  `json:"day"`
	Time             string   `json:"time"`
	EndTime          string   `json:"end_time"`
	ConferenceURL    string   `json:"conference_url"`
	ConferencePhone  string   `json:"conference_phone"`
	Types            []string `json:"types"`
	Location         string   `json:"location"`
	FormattedAddress *string  `json:"formatted_address"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	Regions          []string `json:"regions"`
	Group            string   `json:"group"`
	PayPal           string   `json:"paypal"`
	Venmo            string   `json:"venmo"`
	CashApp          string   `json:"cashapp"`
}

// ListedMeeting is a live meeting joined with everything the public views
// render about it.
type ListedMeeting struct {
	Meeting   *Meeting
	Location  *Location
	GSONumber *string
	Regions   []string
	Types     []*MeetingType
}

type PrintMeeting struct {
	Day      Weekday
	Time     string
	EndTime  string
	Name     string
	Location string
	Address  string
	Flags    []string
	Types    []string
	Notes    string
	Online   bool
}

// PrintRegion groups printed meetings under a region path.
type PrintRegion struct {
	Name     string
	Meetings []*PrintMeeting
}
