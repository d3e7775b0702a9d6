package database

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/virtuallab/portal/core"
	"github.com/virtuallab/portal/core/notification"
)

var notificationColumns = []string{"id", "user_id", "message", "is_read", "created_at"}

type notificationRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Message   string    `db:"message"`
	IsRead    bool      `db:"is_read"`
	CreatedAt time.Time `db:"created_at"`
}

func (r notificationRow) toDomain() notification.Notification {
	return notification.Notification(r)
}

type NotificationRepository struct {
	exec core.DBExecutor
}

var _ notification.Repository = (*NotificationRepository)(nil) // interface compliance check

func NewNotificationRepository(exec core.DBExecutor) *NotificationRepository {
	return &NotificationRepository{exec: exec}
}

func (repo *NotificationRepository) CreateNotifications(ctx context.Context, notifs []notification.Notification) error {
	if len(notifs) == 0 {
		return nil
	}
	builder := psql.Insert("notifications").Columns(notificationColumns...)
	for _, n := range notifs {
		builder = builder.Values(uuid.New().String(), n.UserID, n.Message, n.IsRead, n.CreatedAt)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return errors.Wrap(err, "building notification insert")
	}
	if _, err = repo.exec.ExecContext(ctx, query, args...); err != nil {
		return trapErr(err, "inserting notifications")
	}
	return nil
}

func (repo *NotificationRepository) QueryUnreadNotifications(ctx context.Context, userID string, limit int) ([]notification.Notification, error) {
	query, args, err := psql.Select(notificationColumns...).From("notifications").
		Where(sq.Eq{"user_id": userID, "is_read": false}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building notification query")
	}
	var rows []notificationRow
	if err = repo.exec.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, trapErr(err, "querying unread notifications")
	}
	notifs := make([]notification.Notification, 0, len(rows))
	for _, r := range rows {
		notifs = append(notifs, r.toDomain())
	}
	return notifs, nil
}

func (repo *NotificationRepository) MarkNotificationRead(ctx context.Context, id, userID string) error {
	// No-op when the row is missing or already read.
	query, args, err := psql.Update("notifications").
		Set("is_read", true).
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "building notification update")
	}
	if _, err = repo.exec.ExecContext(ctx, query, args...); err != nil {
		return trapErr(err, "marking notification read")
	}
	return nil
}

func (repo *NotificationRepository) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	query, args, err := psql.Update("notifications").
		Set("is_read", true).
		Where(sq.Eq{"user_id": userID, "is_read": false}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "building notification update")
	}
	if _, err = repo.exec.ExecContext(ctx, query, args...); err != nil {
		return trapErr(err, "marking notifications read")
	}
	return nil
}
