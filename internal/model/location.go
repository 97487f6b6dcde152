package model

import (
	"fmt"
	"time"
)

type Location struct {
	ID               int64      `json:"id"`
	Title            string     `json:"title" validate:"required,max=255"`
	Slug             string     `json:"slug" validate:"omitempty,max=255"`
	RegionID         int64      `json:"region_id" validate:"required"`
	RegionPath       string     `json:"region,omitempty"`
	FormattedAddress *string    `json:"formatted_address" validate:"omitempty,max=255"`
	Latitude         *float64   `json:"latitude" validate:"omitempty,latitude"`
	Longitude        *float64   `json:"longitude" validate:"omitempty,longitude"`
	PostalCode       string     `json:"postal_code" validate:"max=12"`
	Details          *string    `json:"details"`
	Live             bool       `json:"live"`
	LastPublishedAt  *time.Time `json:"last_published_at"`
}

func (l *Location) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

func (l *Location) String() string {
	return fmt.Sprintf("%s: %s", l.RegionPath, l.Title)
}
