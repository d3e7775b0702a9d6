package task

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/virtuallab/portal/core"
	"github.com/virtuallab/portal/core/realtime"
	"github.com/virtuallab/portal/core/schedule"
	"github.com/volatiletech/null/v8"
)

var (
	// errors
	ErrNotFound = errors.New("task not found")
	ErrNoFile   = errors.New("task has no submitted file")
)

type (
	Repository interface {
		CreateTask(ctx context.Context, t Task) (Task, error)
		// QueryTasks returns all tasks ordered descending by creation time.
		QueryTasks(ctx context.Context) ([]Task, error)
		GetTaskByID(ctx context.Context, id string) (Task, error)
		UpdateTaskStatus(ctx context.Context, id, status string) (Task, error)
		// AttachTaskFile stores the submitted file and marks the task done.
		AttachTaskFile(ctx context.Context, id string, upload FileUpload, submittedBy string) (Task, error)
		// GetTaskFile loads the task row including the file bytes.
		GetTaskFile(ctx context.Context, id string) (Task, error)
	}

	Service struct {
		repo    Repository
		changes *realtime.Hub
	}
)

var _ schedule.TaskSource = (*Service)(nil)

func NewService(repo Repository, changes *realtime.Hub) *Service {
	return &Service{repo: repo, changes: changes}
}

func (svc *Service) Create(ctx context.Context, userID string, nt NewTask) (Task, error) {
	now := time.Now().UTC()
	t := Task{
		Title:       nt.Title,
		Description: nt.Description,
		DueAt:       nt.DueAt,
		Status:      nt.Status,
		Course:      null.NewString(nt.Course, nt.Course != ""),
		Assignee:    null.NewString(nt.Assignee, nt.Assignee != ""),
		Priority:    nt.Priority,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	ctx, cancel := core.StoreContext(ctx)
	defer cancel()
	t, err := svc.repo.CreateTask(ctx, t)
	if err != nil {
		return Task{}, errors.Wrap(err, "creating task")
	}
	svc.changes.Publish(realtime.CollectionTasks)
	return t, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]Task, error) {
	ctx, cancel := core.StoreContext(ctx)
	defer cancel()
	return svc.repo.QueryTasks(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Task, error) {
	ctx, cancel := core.StoreContext(ctx)
	defer cancel()
	return svc.repo.GetTaskByID(ctx, id)
}

func (svc *Service) UpdateStatus(ctx context.Context, id, status string) (Task, error) {
	ctx, cancel := core.StoreContext(ctx)
	defer cancel()
	t, err := svc.repo.UpdateTaskStatus(ctx, id, status)
	if err != nil {
		return Task{}, err
	}
	svc.changes.Publish(realtime.CollectionTasks)
	return t, nil
}

// SubmitFile validates the upload locally, then stores it against the task
// and marks the task done. An upload exactly at the limit is accepted; one
// byte over is rejected before any store interaction.
func (svc *Service) SubmitFile(ctx context.Context, taskID, userID string, upload FileUpload) (Task, error) {
	if upload.Name == "" || len(upload.Data) == 0 {
		return Task{}, core.NewValidationError(nil, core.FieldError{Field: "file", Error: "this field is required"})
	}
	maxBytes := core.Conf.GetInt64("maxUploadBytes")
	if upload.Size > maxBytes || int64(len(upload.Data)) > maxBytes {
		return Task{}, core.NewValidationError(nil, core.FieldError{
			Field: "file",
			Error: fmt.Sprintf("file too large. maximum size is %d bytes", maxBytes),
		})
	}
	upload.Size = int64(len(upload.Data))

	ctx, cancel := core.StoreContext(ctx)
	defer cancel()
	t, err := svc.repo.AttachTaskFile(ctx, taskID, upload, userID)
	if err != nil {
		return Task{}, err
	}
	svc.changes.Publish(realtime.CollectionTasks)
	return t, nil
}

func (svc *Service) GetFile(ctx context.Context, taskID string) (Task, error) {
	ctx, cancel := core.StoreContext(ctx)
	defer cancel()
	t, err := svc.repo.GetTaskFile(ctx, taskID)
	if err != nil {
		return Task{}, err
	}
	if !t.HasFile() {
		return Task{}, ErrNoFile
	}
	return t, nil
}

// QueryDueTasks feeds task deadlines into the schedule agenda.
func (svc *Service) QueryDueTasks(ctx context.Context) ([]schedule.DueTask, error) {
	tasks, err := svc.QueryAll(ctx)
	if err != nil {
		return nil, err
	}
	due := make([]schedule.DueTask, 0, len(tasks))
	for _, t := range tasks {
		if !t.DueAt.Valid {
			continue
		}
		due = append(due, schedule.DueTask{Title: t.Title, DueAt: t.DueAt.Time, Status: t.Status})
	}
	return due, nil
}
