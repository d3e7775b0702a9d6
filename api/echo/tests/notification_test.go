package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/virtuallab/portal/core/notification"
	"github.com/virtuallab/portal/core/user"
)

func unreadFor(t *testing.T, token string) notification.UnreadList {
	t.Helper()
	req, rec := newAuthRequest(http.MethodGet, "/v1/notifications", token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d; body %s", rec.Code, rec.Body.String())
	}
	var list notification.UnreadList
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	return list
}

func Test_notificationApi(t *testing.T) {
	alice := createUser(t, "Alice Reader", "alice1", "alice1@test.cd", []string{user.RoleStudent})
	bob := createUser(t, "Bob Reader", "bob1", "bob1@test.cd", []string{user.RoleStudent})
	aliceTok, bobTok := getToken(t, alice), getToken(t, bob)

	err := notifSvc.Broadcast(context.Background(), []string{alice.ID, bob.ID}, "Lab session moved to 14:00")
	if err != nil {
		t.Fatalf("Broadcast(): %v", err)
	}

	t.Run("Unread list is scoped to the caller", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/notifications", aliceTok)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d", rec.Code)
		}
		if hdr := rec.Header().Get("X-Poll-Interval"); hdr == "" {
			t.Error("X-Poll-Interval header missing")
		}

		var list notification.UnreadList
		if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
			t.Fatalf("decoding: %v", err)
		}
		if list.Count != 1 || len(list.Notifications) != 1 {
			t.Fatalf("count = %d, len = %d; want 1, 1", list.Count, len(list.Notifications))
		}
		n := list.Notifications[0]
		if n.UserID != alice.ID {
			t.Errorf("user_id = %q; want %q", n.UserID, alice.ID)
		}
		if n.Message != "Lab session moved to 14:00" {
			t.Errorf("message = %q", n.Message)
		}
	})

	t.Run("Mark read is idempotent", func(t *testing.T) {
		id := unreadFor(t, aliceTok).Notifications[0].ID

		for i := 0; i < 2; i++ {
			req, rec := newAuthRequest(http.MethodPatch, "/v1/notifications/"+id, aliceTok)
			app.ServeHTTP(rec, req)
			if rec.Code != http.StatusNoContent {
				t.Fatalf("code = %d; want %d", rec.Code, http.StatusNoContent)
			}
		}
		if got := unreadFor(t, aliceTok); got.Count != 0 {
			t.Errorf("count = %d; want 0", got.Count)
		}
		// bob's copy is untouched
		if got := unreadFor(t, bobTok); got.Count != 1 {
			t.Errorf("bob count = %d; want 1", got.Count)
		}
	})

	t.Run("Read all", func(t *testing.T) {
		if err := notifSvc.Broadcast(context.Background(), []string{bob.ID}, "Second one"); err != nil {
			t.Fatalf("Broadcast(): %v", err)
		}
		req, rec := newAuthRequest(http.MethodPost, "/v1/notifications/read-all", bobTok)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %d; want %d", rec.Code, http.StatusNoContent)
		}
		if got := unreadFor(t, bobTok); got.Count != 0 {
			t.Errorf("count = %d; want 0", got.Count)
		}
	})
}
