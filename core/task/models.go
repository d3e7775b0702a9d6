package task

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/virtuallab/portal/core"
)

// Statuses (kanban columns)
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

// Priorities
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

type Task struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	DueAt       null.Time   `json:"due_at"`
	Status      string      `json:"status"`
	Course      null.String `json:"course"`
	Assignee    null.String `json:"assignee"`
	Priority    string      `json:"priority"`
	CreatedBy   string      `json:"created_by"`
	CreatedAt   time.Time   `json:"created_at"` // UTC
	UpdatedAt   time.Time   `json:"updated_at"` // UTC

	// submitted attachment, if any
	FileName        null.String `json:"file_name"`
	FileContentType null.String `json:"file_content_type"`
	FileSize        null.Int64  `json:"file_size"`
	FileData        []byte      `json:"-"`
	FileSubmittedBy null.String `json:"file_submitted_by"`
}

func (t *Task) HasFile() bool { return t.FileName.Valid }

// NewTask contains information needed to create a new Task.
// Only the title is required; everything else has a usable default.
type NewTask struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	DueAt       null.Time `json:"due_at"`
	Status      string    `json:"status" validate:"omitempty,oneof=todo in_progress done"`
	Course      string    `json:"course"`
	Assignee    string    `json:"assignee"`
	Priority    string    `json:"priority" validate:"omitempty,oneof=Low Medium High"`
}

func (nt *NewTask) Validate() error {
	nt.Title = core.CleanString(nt.Title)
	nt.Description = core.CleanString(nt.Description)
	nt.Course = core.CleanString(nt.Course)
	nt.Assignee = core.CleanString(nt.Assignee)
	if nt.Status == "" {
		nt.Status = StatusTodo
	}
	if nt.Priority == "" {
		nt.Priority = PriorityMedium
	}
	return core.Validate.Struct(nt)
}

// StatusUpdate moves a task to another kanban column.
type StatusUpdate struct {
	Status string `json:"status" validate:"required,oneof=todo in_progress done"`
}

func (su *StatusUpdate) Validate() error {
	su.Status = core.CleanString(su.Status, true /* lower */)
	return core.Validate.Struct(su)
}

// FileUpload carries a file submitted against a task. Size limits are
// enforced before the store is contacted.
type FileUpload struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}
