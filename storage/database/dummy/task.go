package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/virtuallab/portal/core/task"
)

type taskRepository struct {
	db *taskTable
}

var _ task.Repository = (*taskRepository)(nil) // interface compliance check

func NewTaskRepository(db *DB) task.Repository {
	return &taskRepository{db: db.task}
}

func (repo *taskRepository) query() []task.Task {
	tasks := make([]task.Task, 0, len(repo.db.table))
	for _, t := range repo.db.table {
		tasks = append(tasks, *t)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].CreatedAt.After(tasks[j].CreatedAt) })
	return tasks
}

func (repo *taskRepository) CreateTask(ctx context.Context, t task.Task) (task.Task, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	t.ID = uuid.New().String()
	repo.db.table[t.ID] = &t
	return t, nil
}

func (repo *taskRepository) QueryTasks(ctx context.Context) ([]task.Task, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *taskRepository) GetTaskByID(ctx context.Context, id string) (task.Task, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if t, ok := repo.db.table[id]; ok {
		return *t, nil
	}
	return task.Task{}, task.ErrNotFound
}

func (repo *taskRepository) UpdateTaskStatus(ctx context.Context, id, status string) (task.Task, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	t, ok := repo.db.table[id]
	if !ok {
		return task.Task{}, task.ErrNotFound
	}
	t.Status = status
	t.UpdatedAt = time.Now().UTC()
	return *t, nil
}

func (repo *taskRepository) AttachTaskFile(ctx context.Context, id string, upload task.FileUpload, submittedBy string) (task.Task, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	t, ok := repo.db.table[id]
	if !ok {
		return task.Task{}, task.ErrNotFound
	}
	t.Status = task.StatusDone
	t.FileName = null.StringFrom(upload.Name)
	t.FileContentType = null.StringFrom(upload.ContentType)
	t.FileSize = null.Int64From(upload.Size)
	t.FileData = upload.Data
	t.FileSubmittedBy = null.StringFrom(submittedBy)
	t.UpdatedAt = time.Now().UTC()
	return *t, nil
}

func (repo *taskRepository) GetTaskFile(ctx context.Context, id string) (task.Task, error) {
	return repo.GetTaskByID(ctx, id)
}
