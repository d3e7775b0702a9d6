package wiki

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/virtuallab/portal/core"
	"github.com/virtuallab/portal/core/realtime"
)

var ErrNotFound = errors.New("wiki page not found")

type (
	Repository interface {
		GetPageBySlug(ctx context.Context, slug string) (Page, error)
		// QueryPageRefs returns slug+title for all pages, ordered by slug.
		QueryPageRefs(ctx context.Context) ([]PageRef, error)
		// UpsertPage inserts or replaces the page keyed by slug.
		UpsertPage(ctx context.Context, page Page) (Page, error)
	}

	Service struct {
		repo    Repository
		changes *realtime.Hub
	}
)

func NewService(repo Repository, changes *realtime.Hub) *Service {
	return &Service{repo: repo, changes: changes}
}

func (svc *Service) Get(ctx context.Context, slug string) (Page, error) {
	ctx, cancel := core.StoreContext(ctx)
	defer cancel()
	return svc.repo.GetPageBySlug(ctx, core.CleanString(slug, true /* lower */))
}

func (svc *Service) List(ctx context.Context) ([]PageRef, error) {
	ctx, cancel := core.StoreContext(ctx)
	defer cancel()
	refs, err := svc.repo.QueryPageRefs(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying wiki pages")
	}
	if refs == nil {
		refs = []PageRef{}
	}
	return refs, nil
}

func (svc *Service) Upsert(ctx context.Context, userID string, up UpsertPage) (Page, error) {
	now := time.Now().UTC()
	page := Page{
		Slug:      up.Slug,
		Title:     up.Title,
		Content:   up.Content,
		UpdatedBy: userID,
		// kept from the stored row when the slug already exists
		CreatedAt: now,
		UpdatedAt: now,
	}
	ctx, cancel := core.StoreContext(ctx)
	defer cancel()
	page, err := svc.repo.UpsertPage(ctx, page)
	if err != nil {
		return Page{}, errors.Wrap(err, "upserting wiki page")
	}
	svc.changes.Publish(realtime.CollectionWikiPages)
	return page, nil
}
