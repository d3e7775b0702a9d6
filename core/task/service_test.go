package task_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/virtuallab/portal/core"
	"github.com/virtuallab/portal/core/task"
	dummydb "github.com/virtuallab/portal/storage/database/dummy"
)

func newTestService(t *testing.T) *task.Service {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open(): %v", err)
	}
	return task.NewService(dummydb.NewTaskRepository(db), nil)
}

func TestNewTask_Validate(t *testing.T) {
	tests := []struct {
		name    string
		nt      task.NewTask
		wantErr bool
	}{
		{name: "title required", nt: task.NewTask{}, wantErr: true},
		{name: "whitespace title rejected", nt: task.NewTask{Title: "   "}, wantErr: true},
		{name: "title only is enough", nt: task.NewTask{Title: "Lab report"}},
		{name: "bad status", nt: task.NewTask{Title: "T", Status: "blocked"}, wantErr: true},
		{name: "bad priority", nt: task.NewTask{Title: "T", Priority: "Urgent"}, wantErr: true},
		{name: "full", nt: task.NewTask{Title: "T", Status: task.StatusInProgress, Priority: task.PriorityHigh}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.nt.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewTask_Validate_defaults(t *testing.T) {
	nt := task.NewTask{Title: "Lab report"}
	if err := nt.Validate(); err != nil {
		t.Fatalf("Validate(): %v", err)
	}
	if nt.Status != task.StatusTodo {
		t.Errorf("status = %q, want %q", nt.Status, task.StatusTodo)
	}
	if nt.Priority != task.PriorityMedium {
		t.Errorf("priority = %q, want %q", nt.Priority, task.PriorityMedium)
	}
}

func TestService_SubmitFile_sizeLimit(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	maxBytes := core.Conf.GetInt64("maxUploadBytes")

	created, err := svc.Create(ctx, "usr1", task.NewTask{Title: "T", Status: task.StatusTodo, Priority: task.PriorityMedium})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}

	// one byte over the limit is rejected
	tooBig := task.FileUpload{
		Name:        "report.pdf",
		ContentType: "application/pdf",
		Size:        maxBytes + 1,
		Data:        bytes.Repeat([]byte{0x1}, int(maxBytes)+1),
	}
	if _, err := svc.SubmitFile(ctx, created.ID, "usr1", tooBig); !core.IsValidationError(err) {
		t.Errorf("SubmitFile(over limit) error = %v, want validation error", err)
	}

	// exactly at the limit is accepted
	atLimit := task.FileUpload{
		Name:        "report.pdf",
		ContentType: "application/pdf",
		Size:        maxBytes,
		Data:        bytes.Repeat([]byte{0x1}, int(maxBytes)),
	}
	got, err := svc.SubmitFile(ctx, created.ID, "usr1", atLimit)
	if err != nil {
		t.Fatalf("SubmitFile(at limit): %v", err)
	}
	if got.Status != task.StatusDone {
		t.Errorf("status = %q, want %q", got.Status, task.StatusDone)
	}
	if got.FileSize.Int64 != maxBytes {
		t.Errorf("file size = %d, want %d", got.FileSize.Int64, maxBytes)
	}
}

func TestService_SubmitFile_missingFile(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "usr1", task.NewTask{Title: "T", Status: task.StatusTodo, Priority: task.PriorityMedium})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}
	if _, err := svc.SubmitFile(ctx, created.ID, "usr1", task.FileUpload{}); !core.IsValidationError(err) {
		t.Errorf("SubmitFile(empty) error = %v, want validation error", err)
	}
}

func TestService_GetFile(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "usr1", task.NewTask{Title: "T", Status: task.StatusTodo, Priority: task.PriorityMedium})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}

	if _, err := svc.GetFile(ctx, created.ID); err != task.ErrNoFile {
		t.Errorf("GetFile(no file) error = %v, want %v", err, task.ErrNoFile)
	}

	upload := task.FileUpload{Name: "notes.txt", ContentType: "text/plain", Size: 5, Data: []byte("hello")}
	if _, err := svc.SubmitFile(ctx, created.ID, "usr2", upload); err != nil {
		t.Fatalf("SubmitFile(): %v", err)
	}

	got, err := svc.GetFile(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetFile(): %v", err)
	}
	if string(got.FileData) != "hello" {
		t.Errorf("file data = %q, want %q", got.FileData, "hello")
	}
	if got.FileSubmittedBy.String != "usr2" {
		t.Errorf("submitted by = %q, want %q", got.FileSubmittedBy.String, "usr2")
	}
}
