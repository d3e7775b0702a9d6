package schedule

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/virtuallab/portal/core"
)

type Event struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	StartsAt  time.Time   `json:"starts_at"` // UTC
	EndsAt    null.Time   `json:"ends_at"`
	Location  null.String `json:"location"`
	CreatedBy string      `json:"created_by"`
	CreatedAt time.Time   `json:"created_at"` // UTC
}

// NewEvent contains information needed to create a new calendar Event.
type NewEvent struct {
	Title    string    `json:"title" validate:"required"`
	StartsAt time.Time `json:"starts_at" validate:"required"`
	EndsAt   null.Time `json:"ends_at"`
	Location string    `json:"location"`
}

func (ne *NewEvent) Validate() error {
	ne.Title = core.CleanString(ne.Title)
	ne.Location = core.CleanString(ne.Location)
	if err := core.Validate.Struct(ne); err != nil {
		return err
	}
	if ne.EndsAt.Valid && ne.EndsAt.Time.Before(ne.StartsAt) {
		return core.NewValidationError(nil, core.FieldError{Field: "ends_at", Error: "must not be before starts_at"})
	}
	return nil
}

// DueTask is a task deadline projected into the agenda.
type DueTask struct {
	Title  string    `json:"title"`
	DueAt  time.Time `json:"due_at"`
	Status string    `json:"status"`
}

// AgendaItem is one line of the merged upcoming view: either a calendar
// event or a task deadline.
type AgendaItem struct {
	Kind     string    `json:"kind"` // "event" | "task"
	Title    string    `json:"title"`
	At       time.Time `json:"at"`
	Location string    `json:"location,omitempty"`
	Status   string    `json:"status,omitempty"`
}
