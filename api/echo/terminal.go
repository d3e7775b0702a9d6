package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/virtuallab/portal/core/terminal"
)

func registerTerminalAPI(g *echo.Group, jwt echo.MiddlewareFunc) {
	g.POST("/terminal", runCommand, jwt)
}

func runCommand(ctx echo.Context) error {
	var data TerminalRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TerminalRequest")
	}
	return ctx.JSON(http.StatusOK, terminal.Run(data.Command))
}

type TerminalRequest struct {
	Command string `json:"command"`
}
