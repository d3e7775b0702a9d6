package database

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/virtuallab/portal/core"
	"github.com/virtuallab/portal/core/task"
)

var taskColumns = []string{
	"id", "title", "description", "due_at", "status", "course", "assignee",
	"priority", "created_by", "created_at", "updated_at",
	"file_name", "file_content_type", "file_size", "file_submitted_by",
}

type taskRow struct {
	ID              string      `db:"id"`
	Title           string      `db:"title"`
	Description     string      `db:"description"`
	DueAt           null.Time   `db:"due_at"`
	Status          string      `db:"status"`
	Course          null.String `db:"course"`
	Assignee        null.String `db:"assignee"`
	Priority        string      `db:"priority"`
	CreatedBy       string      `db:"created_by"`
	CreatedAt       time.Time   `db:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at"`
	FileName        null.String `db:"file_name"`
	FileContentType null.String `db:"file_content_type"`
	FileSize        null.Int64  `db:"file_size"`
	FileData        []byte      `db:"file_data"`
	FileSubmittedBy null.String `db:"file_submitted_by"`
}

func (r taskRow) toDomain() task.Task {
	return task.Task{
		ID:              r.ID,
		Title:           r.Title,
		Description:     r.Description,
		DueAt:           r.DueAt,
		Status:          r.Status,
		Course:          r.Course,
		Assignee:        r.Assignee,
		Priority:        r.Priority,
		CreatedBy:       r.CreatedBy,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		FileName:        r.FileName,
		FileContentType: r.FileContentType,
		FileSize:        r.FileSize,
		FileData:        r.FileData,
		FileSubmittedBy: r.FileSubmittedBy,
	}
}

type TaskRepository struct {
	exec core.DBExecutor
}

var _ task.Repository = (*TaskRepository)(nil) // interface compliance check

func NewTaskRepository(exec core.DBExecutor) *TaskRepository {
	return &TaskRepository{exec: exec}
}

func (repo *TaskRepository) trapNoRowsErr(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return task.ErrNotFound
	}
	return trapErr(err, msg)
}

func (repo *TaskRepository) CreateTask(ctx context.Context, t task.Task) (task.Task, error) {
	t.ID = uuid.New().String()

	query, args, err := psql.Insert("tasks").
		Columns("id", "title", "description", "due_at", "status", "course",
			"assignee", "priority", "created_by", "created_at", "updated_at").
		Values(t.ID, t.Title, t.Description, t.DueAt, t.Status, t.Course,
			t.Assignee, t.Priority, t.CreatedBy, t.CreatedAt, t.UpdatedAt).
		ToSql()
	if err != nil {
		return task.Task{}, errors.Wrap(err, "building task insert")
	}
	if _, err = repo.exec.ExecContext(ctx, query, args...); err != nil {
		return task.Task{}, trapErr(err, "inserting task")
	}
	return t, nil
}

func (repo *TaskRepository) QueryTasks(ctx context.Context) ([]task.Task, error) {
	query, args, err := psql.Select(taskColumns...).From("tasks").
		OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building task query")
	}
	var rows []taskRow
	if err = repo.exec.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, trapErr(err, "querying tasks")
	}
	tasks := make([]task.Task, 0, len(rows))
	for _, r := range rows {
		tasks = append(tasks, r.toDomain())
	}
	return tasks, nil
}

func (repo *TaskRepository) GetTaskByID(ctx context.Context, id string) (task.Task, error) {
	query, args, err := psql.Select(taskColumns...).From("tasks").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return task.Task{}, errors.Wrap(err, "building task query")
	}
	var row taskRow
	if err = repo.exec.GetContext(ctx, &row, query, args...); err != nil {
		return task.Task{}, repo.trapNoRowsErr(err, "finding task by ID")
	}
	return row.toDomain(), nil
}

func (repo *TaskRepository) UpdateTaskStatus(ctx context.Context, id, status string) (task.Task, error) {
	query, args, err := psql.Update("tasks").
		Set("status", status).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + columnList(taskColumns)).
		ToSql()
	if err != nil {
		return task.Task{}, errors.Wrap(err, "building task status update")
	}
	var row taskRow
	if err = repo.exec.GetContext(ctx, &row, query, args...); err != nil {
		return task.Task{}, repo.trapNoRowsErr(err, "updating task status")
	}
	return row.toDomain(), nil
}

func (repo *TaskRepository) AttachTaskFile(ctx context.Context, id string, upload task.FileUpload, submittedBy string) (task.Task, error) {
	query, args, err := psql.Update("tasks").
		Set("status", task.StatusDone).
		Set("file_name", upload.Name).
		Set("file_content_type", upload.ContentType).
		Set("file_size", upload.Size).
		Set("file_data", upload.Data).
		Set("file_submitted_by", submittedBy).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + columnList(taskColumns)).
		ToSql()
	if err != nil {
		return task.Task{}, errors.Wrap(err, "building task file update")
	}
	var row taskRow
	if err = repo.exec.GetContext(ctx, &row, query, args...); err != nil {
		return task.Task{}, repo.trapNoRowsErr(err, "attaching task file")
	}
	return row.toDomain(), nil
}

func (repo *TaskRepository) GetTaskFile(ctx context.Context, id string) (task.Task, error) {
	cols := append(append([]string{}, taskColumns...), "file_data")
	query, args, err := psql.Select(cols...).From("tasks").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return task.Task{}, errors.Wrap(err, "building task file query")
	}
	var row taskRow
	if err = repo.exec.GetContext(ctx, &row, query, args...); err != nil {
		return task.Task{}, repo.trapNoRowsErr(err, "loading task file")
	}
	return row.toDomain(), nil
}
