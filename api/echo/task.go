package echoapi

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/virtuallab/portal/core"
	"github.com/virtuallab/portal/core/task"
)

type taskApi struct {
	svc *task.Service
}

func registerTaskAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *task.Service) {
	api := taskApi{svc: svc}

	tg := g.Group("/tasks", jwt)
	tg.POST("", api.create)
	tg.GET("", api.query)
	tg.PATCH("/:id", api.updateStatus)
	tg.POST("/:id/submit", api.submitFile)
	tg.GET("/:id/file", api.file)
}

func (api *taskApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data task.NewTask
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTask")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	t, err := api.svc.Create(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating task")
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (api *taskApi) query(ctx echo.Context) error {
	tasks, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying tasks")
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return ctx.JSON(http.StatusOK, tasks)
}

func (api *taskApi) updateStatus(ctx echo.Context) error {
	var data task.StatusUpdate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusUpdate")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	t, err := api.svc.UpdateStatus(ctx.Request().Context(), ctx.Param("id"), data.Status)
	if err != nil {
		if errors.Cause(err) == task.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating task status")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *taskApi) submitFile(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	fh, err := ctx.FormFile("file")
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: "this field is required"})
	}

	max := core.Conf.GetInt64("maxUploadBytes")
	if fh.Size > max {
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: "file too large"})
	}

	src, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer src.Close()

	// re-check the actual bytes; the declared size is client-controlled
	data, err := io.ReadAll(io.LimitReader(src, max+1))
	if err != nil {
		return errors.Wrap(err, "reading uploaded file")
	}
	if int64(len(data)) > max {
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: "file too large"})
	}

	upload := task.FileUpload{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        int64(len(data)),
		Data:        data,
	}
	t, err := api.svc.SubmitFile(ctx.Request().Context(), ctx.Param("id"), claims.Subject, upload)
	if err != nil {
		if errors.Cause(err) == task.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "submitting task file")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *taskApi) file(ctx echo.Context) error {
	t, err := api.svc.GetFile(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		switch errors.Cause(err) {
		case task.ErrNotFound, task.ErrNoFile:
			return errHttpNotFound
		}
		return errors.Wrap(err, "loading task file")
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+t.FileName.String+`"`)
	return ctx.Blob(http.StatusOK, t.FileContentType.String, t.FileData)
}
