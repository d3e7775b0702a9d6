package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/virtuallab/portal/core/wiki"
)

type wikiApi struct {
	svc *wiki.Service
}

func registerWikiAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *wiki.Service) {
	api := wikiApi{svc: svc}

	wg := g.Group("/wiki", jwt)
	wg.GET("", api.list)
	wg.PUT("", api.upsert)
	wg.GET("/:slug", api.retrieve)
}

func (api *wikiApi) list(ctx echo.Context) error {
	refs, err := api.svc.List(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying pages")
	}
	if refs == nil {
		refs = []wiki.PageRef{}
	}
	return ctx.JSON(http.StatusOK, refs)
}

func (api *wikiApi) retrieve(ctx echo.Context) error {
	page, err := api.svc.Get(ctx.Request().Context(), ctx.Param("slug"))
	if err != nil {
		if errors.Cause(err) == wiki.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding page")
	}
	return ctx.JSON(http.StatusOK, page)
}

func (api *wikiApi) upsert(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data wiki.UpsertPage
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpsertPage")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	page, err := api.svc.Upsert(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "upserting page")
	}
	return ctx.JSON(http.StatusOK, page)
}
