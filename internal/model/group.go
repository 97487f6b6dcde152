package model

import (
	"fmt"
	"time"
)

type GroupStatus int16

const (
	GroupStatusInactive GroupStatus = 0
	GroupStatusActive   GroupStatus = 1
)

type Group struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name" validate:"required,max=255"`
	GSONumber *string     `json:"gso_number" validate:"omitempty,max=10"`
	Status    GroupStatus `json:"status" validate:"oneof=0 1"`
	Founded   *time.Time  `json:"founded"`
	History   *string     `json:"history"`
}

func (g *Group) String() string {
	return g.Name
}

type GroupContribution struct {
	ID        int64     `json:"id"`
	GroupID   int64     `json:"group_id" validate:"required"`
	GroupName string    `json:"group_name,omitempty"`
	Date      time.Time `json:"date"`
	Amount    string    `json:"amount" validate:"required,numeric"`
}

func (c *GroupContribution) String() string {
	return fmt.Sprintf("%s (%s: $%s)", c.GroupName, c.Date.Format(time.DateOnly), c.Amount)
}
