package notification

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/virtuallab/portal/core"
	"github.com/virtuallab/portal/core/realtime"
)

var ErrNotFound = errors.New("notification not found")

type (
	Repository interface {
		CreateNotifications(ctx context.Context, notifs []Notification) error
		// QueryUnreadNotifications returns the user's unread notifications,
		// newest first, capped at limit.
		QueryUnreadNotifications(ctx context.Context, userID string, limit int) ([]Notification, error)
		// MarkNotificationRead sets is_read on the given (id, user) pair.
		// Marking an already-read notification is a no-op, not an error.
		MarkNotificationRead(ctx context.Context, id, userID string) error
		MarkAllNotificationsRead(ctx context.Context, userID string) error
	}

	Service struct {
		repo    Repository
		changes *realtime.Hub
	}
)

func NewService(repo Repository, changes *realtime.Hub) *Service {
	return &Service{repo: repo, changes: changes}
}

func (svc *Service) QueryUnread(ctx context.Context, userID string) (UnreadList, error) {
	ctx, cancel := core.StoreContext(ctx)
	defer cancel()
	notifs, err := svc.repo.QueryUnreadNotifications(ctx, userID, core.Conf.GetInt("notifPageSize"))
	if err != nil {
		return UnreadList{}, errors.Wrap(err, "querying unread notifications")
	}
	if notifs == nil {
		notifs = []Notification{}
	}
	return UnreadList{Notifications: notifs, Count: len(notifs)}, nil
}

// MarkRead is idempotent: marking an already-read notification read again
// succeeds with no observable change.
func (svc *Service) MarkRead(ctx context.Context, id, userID string) error {
	ctx, cancel := core.StoreContext(ctx)
	defer cancel()
	if err := svc.repo.MarkNotificationRead(ctx, id, userID); err != nil {
		return err
	}
	svc.changes.Publish(realtime.CollectionNotifications)
	return nil
}

func (svc *Service) MarkAllRead(ctx context.Context, userID string) error {
	ctx, cancel := core.StoreContext(ctx)
	defer cancel()
	if err := svc.repo.MarkAllNotificationsRead(ctx, userID); err != nil {
		return err
	}
	svc.changes.Publish(realtime.CollectionNotifications)
	return nil
}

// Broadcast creates one unread notification per user.
func (svc *Service) Broadcast(ctx context.Context, userIDs []string, message string) error {
	if len(userIDs) == 0 {
		return nil
	}
	now := time.Now().UTC()
	notifs := make([]Notification, 0, len(userIDs))
	for _, uid := range userIDs {
		notifs = append(notifs, Notification{UserID: uid, Message: message, CreatedAt: now})
	}
	ctx, cancel := core.StoreContext(ctx)
	defer cancel()
	if err := svc.repo.CreateNotifications(ctx, notifs); err != nil {
		return errors.Wrap(err, "creating notifications")
	}
	svc.changes.Publish(realtime.CollectionNotifications)
	return nil
}
