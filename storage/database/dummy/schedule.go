package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/virtuallab/portal/core/schedule"
)

type eventRepository struct {
	db *eventTable
}

var _ schedule.Repository = (*eventRepository)(nil) // interface compliance check

func NewEventRepository(db *DB) schedule.Repository {
	return &eventRepository{db: db.event}
}

func (repo *eventRepository) CreateEvent(ctx context.Context, ev schedule.Event) (schedule.Event, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	ev.ID = uuid.New().String()
	repo.db.table[ev.ID] = &ev
	return ev, nil
}

func (repo *eventRepository) QueryEvents(ctx context.Context) ([]schedule.Event, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	events := make([]schedule.Event, 0, len(repo.db.table))
	for _, ev := range repo.db.table {
		events = append(events, *ev)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].StartsAt.Before(events[j].StartsAt) })
	return events, nil
}
