package notification_test

import (
	"context"
	"testing"

	"github.com/virtuallab/portal/core/notification"
	dummydb "github.com/virtuallab/portal/storage/database/dummy"
)

func newTestService(t *testing.T) *notification.Service {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open(): %v", err)
	}
	return notification.NewService(dummydb.NewNotificationRepository(db), nil)
}

func TestService_Broadcast(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.Broadcast(ctx, []string{"usr1", "usr2"}, "New announcement: Exam moved"); err != nil {
		t.Fatalf("Broadcast(): %v", err)
	}

	for _, uid := range []string{"usr1", "usr2"} {
		list, err := svc.QueryUnread(ctx, uid)
		if err != nil {
			t.Fatalf("QueryUnread(%s): %v", uid, err)
		}
		if list.Count != 1 {
			t.Errorf("count for %s = %d, want 1", uid, list.Count)
		}
	}

	// empty recipient list is a no-op
	if err := svc.Broadcast(ctx, nil, "nobody home"); err != nil {
		t.Errorf("Broadcast(nil) error = %v", err)
	}
}

func TestService_MarkRead_idempotent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.Broadcast(ctx, []string{"usr1"}, "hello"); err != nil {
		t.Fatalf("Broadcast(): %v", err)
	}
	list, err := svc.QueryUnread(ctx, "usr1")
	if err != nil {
		t.Fatalf("QueryUnread(): %v", err)
	}
	if list.Count != 1 {
		t.Fatalf("count = %d, want 1", list.Count)
	}
	id := list.Notifications[0].ID

	// marking twice succeeds both times
	for i := 0; i < 2; i++ {
		if err := svc.MarkRead(ctx, id, "usr1"); err != nil {
			t.Fatalf("MarkRead() #%d: %v", i+1, err)
		}
	}
	// as does marking an unknown id
	if err := svc.MarkRead(ctx, "no-such-id", "usr1"); err != nil {
		t.Errorf("MarkRead(unknown) error = %v", err)
	}

	list, err = svc.QueryUnread(ctx, "usr1")
	if err != nil {
		t.Fatalf("QueryUnread(): %v", err)
	}
	if list.Count != 0 {
		t.Errorf("count = %d, want 0", list.Count)
	}
}

func TestService_MarkRead_otherUser(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.Broadcast(ctx, []string{"usr1"}, "hello"); err != nil {
		t.Fatalf("Broadcast(): %v", err)
	}
	list, err := svc.QueryUnread(ctx, "usr1")
	if err != nil {
		t.Fatalf("QueryUnread(): %v", err)
	}
	id := list.Notifications[0].ID

	// another user cannot mark someone else's notification
	if err := svc.MarkRead(ctx, id, "usr2"); err != nil {
		t.Fatalf("MarkRead(): %v", err)
	}
	list, err = svc.QueryUnread(ctx, "usr1")
	if err != nil {
		t.Fatalf("QueryUnread(): %v", err)
	}
	if list.Count != 1 {
		t.Errorf("count = %d, want 1", list.Count)
	}
}

func TestService_MarkAllRead(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.Broadcast(ctx, []string{"usr1", "usr1", "usr2"}, "hello"); err != nil {
		t.Fatalf("Broadcast(): %v", err)
	}
	if err := svc.MarkAllRead(ctx, "usr1"); err != nil {
		t.Fatalf("MarkAllRead(): %v", err)
	}

	list, err := svc.QueryUnread(ctx, "usr1")
	if err != nil {
		t.Fatalf("QueryUnread(): %v", err)
	}
	if list.Count != 0 {
		t.Errorf("usr1 count = %d, want 0", list.Count)
	}
	list, err = svc.QueryUnread(ctx, "usr2")
	if err != nil {
		t.Fatalf("QueryUnread(): %v", err)
	}
	if list.Count != 1 {
		t.Errorf("usr2 count = %d, want 1", list.Count)
	}
}
