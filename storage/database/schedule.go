package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/virtuallab/portal/core"
	"github.com/virtuallab/portal/core/schedule"
)

var eventColumns = []string{"id", "title", "starts_at", "ends_at", "location", "created_by", "created_at"}

type eventRow struct {
	ID        string      `db:"id"`
	Title     string      `db:"title"`
	StartsAt  time.Time   `db:"starts_at"`
	EndsAt    null.Time   `db:"ends_at"`
	Location  null.String `db:"location"`
	CreatedBy string      `db:"created_by"`
	CreatedAt time.Time   `db:"created_at"`
}

func (r eventRow) toDomain() schedule.Event {
	return schedule.Event(r)
}

type EventRepository struct {
	exec core.DBExecutor
}

var _ schedule.Repository = (*EventRepository)(nil) // interface compliance check

func NewEventRepository(exec core.DBExecutor) *EventRepository {
	return &EventRepository{exec: exec}
}

func (repo *EventRepository) CreateEvent(ctx context.Context, ev schedule.Event) (schedule.Event, error) {
	ev.ID = uuid.New().String()

	query, args, err := psql.Insert("events").
		Columns(eventColumns...).
		Values(ev.ID, ev.Title, ev.StartsAt, ev.EndsAt, ev.Location, ev.CreatedBy, ev.CreatedAt).
		ToSql()
	if err != nil {
		return schedule.Event{}, errors.Wrap(err, "building event insert")
	}
	if _, err = repo.exec.ExecContext(ctx, query, args...); err != nil {
		return schedule.Event{}, trapErr(err, "inserting event")
	}
	return ev, nil
}

func (repo *EventRepository) QueryEvents(ctx context.Context) ([]schedule.Event, error) {
	query, args, err := psql.Select(eventColumns...).From("events").
		OrderBy("starts_at ASC").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building event query")
	}
	var rows []eventRow
	if err = repo.exec.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, trapErr(err, "querying events")
	}
	events := make([]schedule.Event, 0, len(rows))
	for _, r := range rows {
		events = append(events, r.toDomain())
	}
	return events, nil
}
