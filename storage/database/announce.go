package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/virtuallab/portal/core"
	"github.com/virtuallab/portal/core/announce"
)

var announcementColumns = []string{"id", "title", "content", "tag", "created_by", "created_at"}

type announcementRow struct {
	ID        string    `db:"id"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	Tag       string    `db:"tag"`
	CreatedBy string    `db:"created_by"`
	CreatedAt time.Time `db:"created_at"`
}

func (r announcementRow) toDomain() announce.Announcement {
	return announce.Announcement(r)
}

type AnnouncementRepository struct {
	exec core.DBExecutor
}

var _ announce.Repository = (*AnnouncementRepository)(nil) // interface compliance check

func NewAnnouncementRepository(exec core.DBExecutor) *AnnouncementRepository {
	return &AnnouncementRepository{exec: exec}
}

func (repo *AnnouncementRepository) CreateAnnouncement(ctx context.Context, ann announce.Announcement) (announce.Announcement, error) {
	ann.ID = uuid.New().String()

	query, args, err := psql.Insert("announcements").
		Columns(announcementColumns...).
		Values(ann.ID, ann.Title, ann.Content, ann.Tag, ann.CreatedBy, ann.CreatedAt).
		ToSql()
	if err != nil {
		return announce.Announcement{}, errors.Wrap(err, "building announcement insert")
	}
	if _, err = repo.exec.ExecContext(ctx, query, args...); err != nil {
		return announce.Announcement{}, trapErr(err, "inserting announcement")
	}
	return ann, nil
}

func (repo *AnnouncementRepository) QueryAnnouncements(ctx context.Context) ([]announce.Announcement, error) {
	query, args, err := psql.Select(announcementColumns...).From("announcements").
		OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building announcement query")
	}
	var rows []announcementRow
	if err = repo.exec.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, trapErr(err, "querying announcements")
	}
	anns := make([]announce.Announcement, 0, len(rows))
	for _, r := range rows {
		anns = append(anns, r.toDomain())
	}
	return anns, nil
}
