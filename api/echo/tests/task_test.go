package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/virtuallab/portal/core"
	"github.com/virtuallab/portal/core/task"
	"github.com/virtuallab/portal/core/user"
)

func createTask(t *testing.T, createdBy, title string) task.Task {
	t.Helper()
	tsk, err := taskSvc.Create(context.Background(), createdBy, task.NewTask{
		Title: title, Status: task.StatusTodo, Priority: task.PriorityMedium,
	})
	if err != nil {
		t.Fatalf("creating task: %v", err)
	}
	return tsk
}

func newUploadRequest(t *testing.T, path, token, filename string, content []byte) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("creating form file: %v", err)
	}
	if _, err = part.Write(content); err != nil {
		t.Fatalf("writing form file: %v", err)
	}
	if err = w.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req, httptest.NewRecorder()
}

func Test_taskApi_create(t *testing.T) {
	usr := createUser(t, "Task Maker", "maker1", "maker1@test.cd", []string{user.RoleStudent})
	token := getToken(t, usr)

	tests := []httpTest{
		{
			name: "Auth required", method: http.MethodPost, path: "/v1/tasks",
			body: []byte(`{"title":"Lab report"}`),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "Title required", method: http.MethodPost, path: "/v1/tasks",
			body: []byte(`{"title":"   "}`), token: token,
			wantCode: http.StatusBadRequest, wantData: []byte(`{"title":"this field is required"}`),
		},
		{
			name: "Bad status", method: http.MethodPost, path: "/v1/tasks",
			body: []byte(`{"title":"Lab report","status":"blocked"}`), token: token,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"status":"status must be one of [todo in_progress done]"}`),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("Defaults applied", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/tasks", token, []byte(`{"title":"Lab report"}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %d; body %s", rec.Code, rec.Body.String())
		}
		var got task.Task
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("decoding: %v", err)
		}
		if got.Status != task.StatusTodo {
			t.Errorf("status = %q; want %q", got.Status, task.StatusTodo)
		}
		if got.Priority != task.PriorityMedium {
			t.Errorf("priority = %q; want %q", got.Priority, task.PriorityMedium)
		}
		if got.CreatedBy != usr.ID {
			t.Errorf("created_by = %q; want %q", got.CreatedBy, usr.ID)
		}
	})
}

func Test_taskApi_updateStatus(t *testing.T) {
	usr := createUser(t, "Mover", "mover1", "mover1@test.cd", []string{user.RoleStudent})
	token := getToken(t, usr)
	tsk := createTask(t, usr.ID, "Grade quizzes")

	tests := []httpTest{
		{
			name: "Moves column", method: http.MethodPatch, path: "/v1/tasks/" + tsk.ID,
			body: []byte(`{"status":"in_progress"}`), token: token, wantCode: http.StatusOK,
		},
		{
			name: "Unknown task", method: http.MethodPatch, path: "/v1/tasks/no-such-id",
			body: []byte(`{"status":"done"}`), token: token,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "Bad status rejected", method: http.MethodPatch, path: "/v1/tasks/" + tsk.ID,
			body: []byte(`{"status":"parked"}`), token: token,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"status":"status must be one of [todo in_progress done]"}`),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Fatalf("code = %d; wantCode %d; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
			}
		})
	}

	t.Run("Status persisted", func(t *testing.T) {
		got, err := taskSvc.QueryAll(context.Background())
		if err != nil {
			t.Fatalf("QueryAll(): %v", err)
		}
		for _, tk := range got {
			if tk.ID == tsk.ID && tk.Status != task.StatusInProgress {
				t.Errorf("status = %q; want %q", tk.Status, task.StatusInProgress)
			}
		}
	})
}

func Test_taskApi_submitAndDownloadFile(t *testing.T) {
	usr := createUser(t, "Uploader", "upload1", "upload1@test.cd", []string{user.RoleStudent})
	token := getToken(t, usr)
	tsk := createTask(t, usr.ID, "Hand in report")
	content := []byte("%PDF-1.4 report body")

	t.Run("File required", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, fmt.Sprintf("/v1/tasks/%s/submit", tsk.ID), token, []byte(`{}`))
		app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusBadRequest, wantData: []byte(`{"file":"this field is required"}`)}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("File too large", func(t *testing.T) {
		orig := core.Conf.GetInt64("maxUploadBytes")
		core.Conf.Set("maxUploadBytes", int64(8))
		t.Cleanup(func() { core.Conf.Set("maxUploadBytes", orig) })

		req, rec := newUploadRequest(t, fmt.Sprintf("/v1/tasks/%s/submit", tsk.ID), token, "report.pdf", content)
		app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusBadRequest, wantData: []byte(`{"file":"file too large"}`)}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("Upload marks task done", func(t *testing.T) {
		req, rec := newUploadRequest(t, fmt.Sprintf("/v1/tasks/%s/submit", tsk.ID), token, "report.pdf", content)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d; body %s", rec.Code, rec.Body.String())
		}
		var got task.Task
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("decoding: %v", err)
		}
		if got.Status != task.StatusDone {
			t.Errorf("status = %q; want %q", got.Status, task.StatusDone)
		}
		if got.FileName.String != "report.pdf" {
			t.Errorf("file_name = %q; want %q", got.FileName.String, "report.pdf")
		}
		if got.FileSize.Int64 != int64(len(content)) {
			t.Errorf("file_size = %d; want %d", got.FileSize.Int64, len(content))
		}
	})

	t.Run("Download", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, fmt.Sprintf("/v1/tasks/%s/file", tsk.ID), token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d", rec.Code)
		}
		if !bytes.Equal(rec.Body.Bytes(), content) {
			t.Error("downloaded bytes differ from the uploaded file")
		}
		if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "report.pdf") {
			t.Errorf("Content-Disposition = %q; want the filename in it", cd)
		}
	})

	t.Run("No file yet", func(t *testing.T) {
		bare := createTask(t, usr.ID, "Nothing attached")
		req, rec := newAuthRequest(http.MethodGet, fmt.Sprintf("/v1/tasks/%s/file", bare.ID), token)
		app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})}
		checkCodeAndData(t, tt, rec)
	})
}
