package database

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/virtuallab/portal/core"
	"github.com/virtuallab/portal/core/wiki"
)

var wikiPageColumns = []string{"slug", "title", "content", "updated_by", "created_at", "updated_at"}

type wikiPageRow struct {
	Slug      string    `db:"slug"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	UpdatedBy string    `db:"updated_by"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r wikiPageRow) toDomain() wiki.Page {
	return wiki.Page(r)
}

type WikiRepository struct {
	exec core.DBExecutor
}

var _ wiki.Repository = (*WikiRepository)(nil) // interface compliance check

func NewWikiRepository(exec core.DBExecutor) *WikiRepository {
	return &WikiRepository{exec: exec}
}

func (repo *WikiRepository) GetPageBySlug(ctx context.Context, slug string) (wiki.Page, error) {
	query, args, err := psql.Select(wikiPageColumns...).From("wiki_pages").
		Where(sq.Eq{"slug": slug}).ToSql()
	if err != nil {
		return wiki.Page{}, errors.Wrap(err, "building page query")
	}
	var row wikiPageRow
	if err = repo.exec.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return wiki.Page{}, wiki.ErrNotFound
		}
		return wiki.Page{}, trapErr(err, "finding page by slug")
	}
	return row.toDomain(), nil
}

func (repo *WikiRepository) QueryPageRefs(ctx context.Context) ([]wiki.PageRef, error) {
	query, args, err := psql.Select("slug", "title").From("wiki_pages").
		OrderBy("slug ASC").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building page list query")
	}
	var rows []struct {
		Slug  string `db:"slug"`
		Title string `db:"title"`
	}
	if err = repo.exec.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, trapErr(err, "querying pages")
	}
	refs := make([]wiki.PageRef, 0, len(rows))
	for _, r := range rows {
		refs = append(refs, wiki.PageRef(r))
	}
	return refs, nil
}

func (repo *WikiRepository) UpsertPage(ctx context.Context, page wiki.Page) (wiki.Page, error) {
	query, args, err := psql.Insert("wiki_pages").
		Columns(wikiPageColumns...).
		Values(page.Slug, page.Title, page.Content, page.UpdatedBy, page.CreatedAt, page.UpdatedAt).
		Suffix(`ON CONFLICT (slug) DO UPDATE
			SET title = EXCLUDED.title,
			    content = EXCLUDED.content,
			    updated_by = EXCLUDED.updated_by,
			    updated_at = EXCLUDED.updated_at
			RETURNING ` + columnList(wikiPageColumns)).
		ToSql()
	if err != nil {
		return wiki.Page{}, errors.Wrap(err, "building page upsert")
	}
	var row wikiPageRow
	if err = repo.exec.GetContext(ctx, &row, query, args...); err != nil {
		return wiki.Page{}, trapErr(err, "upserting page")
	}
	return row.toDomain(), nil
}
