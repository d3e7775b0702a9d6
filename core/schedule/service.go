package schedule

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/virtuallab/portal/core"
	"github.com/virtuallab/portal/core/realtime"
	"github.com/volatiletech/null/v8"
)

var ErrNotFound = errors.New("event not found")

type (
	Repository interface {
		CreateEvent(ctx context.Context, ev Event) (Event, error)
		// QueryEvents returns all events ordered ascending by start time.
		QueryEvents(ctx context.Context) ([]Event, error)
	}

	// TaskSource supplies task deadlines for the merged agenda.
	TaskSource interface {
		QueryDueTasks(ctx context.Context) ([]DueTask, error)
	}

	Service struct {
		repo    Repository
		tasks   TaskSource
		changes *realtime.Hub
	}
)

func NewService(repo Repository, tasks TaskSource, changes *realtime.Hub) *Service {
	return &Service{repo: repo, tasks: tasks, changes: changes}
}

func (svc *Service) Create(ctx context.Context, userID string, ne NewEvent) (Event, error) {
	ev := Event{
		Title:     ne.Title,
		StartsAt:  ne.StartsAt.UTC(),
		EndsAt:    ne.EndsAt,
		Location:  null.NewString(ne.Location, ne.Location != ""),
		CreatedBy: userID,
		CreatedAt: time.Now().UTC(),
	}
	ctx, cancel := core.StoreContext(ctx)
	defer cancel()
	ev, err := svc.repo.CreateEvent(ctx, ev)
	if err != nil {
		return Event{}, errors.Wrap(err, "creating event")
	}
	svc.changes.Publish(realtime.CollectionEvents)
	return ev, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]Event, error) {
	ctx, cancel := core.StoreContext(ctx)
	defer cancel()
	return svc.repo.QueryEvents(ctx)
}

// Agenda merges calendar events with task deadlines into one upcoming view,
// ordered ascending by time.
func (svc *Service) Agenda(ctx context.Context) ([]AgendaItem, error) {
	events, err := svc.QueryAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying events")
	}
	var due []DueTask
	if svc.tasks != nil {
		if due, err = svc.tasks.QueryDueTasks(ctx); err != nil {
			return nil, errors.Wrap(err, "querying due tasks")
		}
	}

	items := make([]AgendaItem, 0, len(events)+len(due))
	for _, ev := range events {
		items = append(items, AgendaItem{Kind: "event", Title: ev.Title, At: ev.StartsAt, Location: ev.Location.String})
	}
	for _, t := range due {
		items = append(items, AgendaItem{Kind: "task", Title: t.Title, At: t.DueAt, Status: t.Status})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].At.Before(items[j].At) })
	return items, nil
}
