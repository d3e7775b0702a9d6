package dummydb

import (
	"context"
	"sort"

	"github.com/virtuallab/portal/core/wiki"
)

type wikiRepository struct {
	db *wikiTable
}

var _ wiki.Repository = (*wikiRepository)(nil) // interface compliance check

func NewWikiRepository(db *DB) wiki.Repository {
	return &wikiRepository{db: db.wiki}
}

func (repo *wikiRepository) GetPageBySlug(ctx context.Context, slug string) (wiki.Page, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if page, ok := repo.db.table[slug]; ok {
		return *page, nil
	}
	return wiki.Page{}, wiki.ErrNotFound
}

func (repo *wikiRepository) QueryPageRefs(ctx context.Context) ([]wiki.PageRef, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	refs := make([]wiki.PageRef, 0, len(repo.db.table))
	for _, page := range repo.db.table {
		refs = append(refs, wiki.PageRef{Slug: page.Slug, Title: page.Title})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Slug < refs[j].Slug })
	return refs, nil
}

func (repo *wikiRepository) UpsertPage(ctx context.Context, page wiki.Page) (wiki.Page, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if orig, ok := repo.db.table[page.Slug]; ok {
		page.CreatedAt = orig.CreatedAt
	}
	repo.db.table[page.Slug] = &page
	return page, nil
}
