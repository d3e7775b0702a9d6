package wiki

import (
	"time"

	"github.com/virtuallab/portal/core"
)

// DefaultSlug is the landing page of the wiki.
const DefaultSlug = "main"

// Page holds raw markdown; rendering happens client-side.
type Page struct {
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UpdatedBy string    `json:"updated_by"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// PageRef is the list form: slug and title only.
type PageRef struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// UpsertPage creates the page if the slug is new, replaces it otherwise.
type UpsertPage struct {
	Slug    string `json:"slug" validate:"required,slug"`
	Title   string `json:"title" validate:"required"`
	Content string `json:"content"`
}

func (up *UpsertPage) Validate() error {
	up.Slug = core.CleanString(up.Slug, true /* lower */)
	up.Title = core.CleanString(up.Title)
	return core.Validate.Struct(up)
}
