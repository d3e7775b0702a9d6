package echoapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/virtuallab/portal/core/realtime"
)

type realtimeApi struct {
	hub *realtime.Hub
}

func registerRealtimeAPI(g *echo.Group, jwt echo.MiddlewareFunc, hub *realtime.Hub) {
	api := realtimeApi{hub: hub}
	g.GET("/realtime/:collection", api.stream, jwt)
}

// stream sends change events for one collection as server-sent events.
// The subscription is torn down when the client disconnects.
func (api *realtimeApi) stream(ctx echo.Context) error {
	collection := ctx.Param("collection")
	if !realtime.Known(collection) {
		return errHttpNotFound
	}

	reqCtx := ctx.Request().Context()
	changes, err := api.hub.Subscribe(reqCtx, collection)
	if err != nil {
		return errors.Wrap(err, "subscribing to changes")
	}

	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-store")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	for change := range changes {
		payload, err := json.Marshal(change)
		if err != nil {
			return errors.Wrap(err, "encoding change event")
		}
		if _, err := fmt.Fprintf(res, "data: %s\n\n", payload); err != nil {
			return nil // client went away
		}
		res.Flush()
	}
	return nil
}
