package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/virtuallab/portal/core/announce"
	"github.com/virtuallab/portal/core/schedule"
	"github.com/virtuallab/portal/core/user"
	emailsvc "github.com/virtuallab/portal/services/email"
)

func Test_announcementApi_create(t *testing.T) {
	poster := createUser(t, "Poster", "poster1", "poster1@test.cd", []string{user.RoleAssistant})
	token := getToken(t, poster)
	emailsvc.ClearSentMessages()

	tests := []httpTest{
		{
			name: "Content required", method: http.MethodPost, path: "/v1/announcements",
			body: []byte(`{"title":"Exam moved"}`), token: token,
			wantCode: http.StatusBadRequest, wantData: []byte(`{"content":"this field is required"}`),
		},
		{
			name: "Auth required", method: http.MethodPost, path: "/v1/announcements",
			body:     []byte(`{"title":"Exam moved","content":"New date follows."}`),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("Create fans out email", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/announcements", token,
			[]byte(`{"title":"Exam moved","content":"New date follows.","tag":"exam"}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %d; body %s", rec.Code, rec.Body.String())
		}
		var ann announce.Announcement
		if err := json.Unmarshal(rec.Body.Bytes(), &ann); err != nil {
			t.Fatalf("decoding: %v", err)
		}
		if ann.CreatedBy != poster.ID {
			t.Errorf("created_by = %q; want %q", ann.CreatedBy, poster.ID)
		}

		var matched int
		for _, msg := range emailsvc.SentMessages {
			if msg.Subject == "Exam moved" {
				matched++
			}
		}
		if matched != 1 {
			t.Errorf("sent %d announcement emails; want 1", matched)
		}
	})
}

func Test_scheduleApi(t *testing.T) {
	usr := createUser(t, "Planner", "planner1", "planner1@test.cd", []string{user.RoleAssistant})
	token := getToken(t, usr)
	starts := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)

	t.Run("Starts at required", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/events", token, []byte(`{"title":"Demo day"}`))
		app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusBadRequest, wantData: []byte(`{"starts_at":"this field is required"}`)}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("Create and agenda", func(t *testing.T) {
		body := fmt.Sprintf(`{"title":"Demo day","starts_at":%q,"location":"Lab 2"}`, starts.Format(time.RFC3339))
		req, rec := newAuthRequest(http.MethodPost, "/v1/events", token, []byte(body))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %d; body %s", rec.Code, rec.Body.String())
		}

		req, rec = newAuthRequest(http.MethodGet, "/v1/schedule", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d", rec.Code)
		}
		var items []schedule.AgendaItem
		if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
			t.Fatalf("decoding: %v", err)
		}
		var found bool
		for _, it := range items {
			if it.Kind == "event" && it.Title == "Demo day" {
				found = true
				if !it.At.Equal(starts) {
					t.Errorf("at = %v; want %v", it.At, starts)
				}
				if it.Location != "Lab 2" {
					t.Errorf("location = %q; want %q", it.Location, "Lab 2")
				}
			}
		}
		if !found {
			t.Error("event missing from agenda")
		}
	})
}
