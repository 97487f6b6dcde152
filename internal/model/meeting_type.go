package model

import "fmt"

// SpecCodeOnline is attached automatically to meetings with a conference URL.
const SpecCodeOnline = "ONL"

const DefaultDisplayOrder = 100

type MeetingType struct {
	ID             int64   `json:"id"`
	TypeName       string  `json:"type_name" validate:"required,max=191"`
	IntergroupCode *string `json:"intergroup_code" validate:"omitempty,max=5"`
	SpecCode       *string `json:"spec_code" validate:"omitempty,max=5"`
	DisplayOrder   int     `json:"display_order" validate:"min=0,max=32767"`
}

// Selectable reports whether editors may attach the type to a meeting.
func (t *MeetingType) Selectable() bool {
	return t.IntergroupCode != nil
}

func (t *MeetingType) String() string {
	return fmt.Sprintf("%s (%s / %s)", t.TypeName, deref(t.IntergroupCode), deref(t.SpecCode))
}

func deref(s *string) string {
	if s == nil {
		return "None"
	}
	return *s
}
