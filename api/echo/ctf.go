package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/virtuallab/portal/core/ctf"
)

type ctfApi struct {
	svc *ctf.Service
}

func registerCTFAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *ctf.Service) {
	api := ctfApi{svc: svc}

	cg := g.Group("/ctf", jwt)
	cg.GET("/challenges", api.queryChallenges)
	cg.POST("/challenges", api.createChallenge, adminMiddleware())
	cg.POST("/challenges/:id/submit", api.submitFlag)
	cg.GET("/submissions", api.querySubmissions)
	cg.GET("/leaderboard", api.leaderboard)
}

func (api *ctfApi) queryChallenges(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	chs, err := api.svc.ListChallenges(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying challenges")
	}
	if chs == nil {
		chs = []ctf.AnnotatedChallenge{}
	}
	return ctx.JSON(http.StatusOK, chs)
}

func (api *ctfApi) createChallenge(ctx echo.Context) error {
	var data ctf.NewChallenge
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewChallenge")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	ch, err := api.svc.CreateChallenge(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating challenge")
	}
	return ctx.JSON(http.StatusCreated, ch)
}

func (api *ctfApi) submitFlag(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data SubmitFlagRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubmitFlagRequest")
	}

	correct, err := api.svc.SubmitFlag(ctx.Request().Context(), claims.Subject, ctx.Param("id"), data.Flag)
	if err != nil {
		if errors.Cause(err) == ctf.ErrChallengeNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "submitting flag")
	}
	return ctx.JSON(http.StatusOK, SubmitFlagResponse{Correct: correct})
}

func (api *ctfApi) querySubmissions(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	subs, err := api.svc.QuerySubmissions(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}
	if subs == nil {
		subs = []ctf.Submission{}
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *ctfApi) leaderboard(ctx echo.Context) error {
	entries, err := api.svc.Leaderboard(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying leaderboard")
	}
	if entries == nil {
		entries = []ctf.LeaderboardEntry{}
	}
	return ctx.JSON(http.StatusOK, entries)
}

type (
	SubmitFlagRequest struct {
		Flag string `json:"flag"`
	}

	SubmitFlagResponse struct {
		Correct bool `json:"correct"`
	}
)
