package echoapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/virtuallab/portal/core"
	"github.com/virtuallab/portal/core/announce"
	"github.com/virtuallab/portal/core/ctf"
	"github.com/virtuallab/portal/core/notification"
	"github.com/virtuallab/portal/core/realtime"
	"github.com/virtuallab/portal/core/schedule"
	"github.com/virtuallab/portal/core/task"
	"github.com/virtuallab/portal/core/user"
	"github.com/virtuallab/portal/core/wiki"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool

		UserSvc     *user.Service
		CTFSvc      *ctf.Service
		TaskSvc     *task.Service
		AnnounceSvc *announce.Service
		ScheduleSvc *schedule.Service
		NotifSvc    *notification.Service
		WikiSvc     *wiki.Service
		Hub         *realtime.Hub
		Logger      core.Logger
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
		// ShutdownRequested fires when an unrecoverable error asks for a stop.
		ShutdownRequested() <-chan struct{}
	}

	server struct {
		opts     *Options
		app      *echo.Echo
		shutdown chan struct{}
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:     opts,
		app:      echo.New(),
		shutdown: make(chan struct{}, 1),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	debug := core.Conf.GetBool("debug")

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(debug || core.Conf.GetBool("testMode")) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	// a little headroom over the upload limit for multipart framing
	s.app.Use(middleware.BodyLimit(fmt.Sprintf("%dK", (core.Conf.GetInt64("maxUploadBytes")/1024)+512)))

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.signalShutdown)
	s.app.Debug = debug
	s.app.HideBanner = true

	s.app.GET("/", home)
	s.app.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.app.Group("/v1")
	jwt := appJWTMiddleware()

	registerUserAPI(v1, jwt, s.opts.UserSvc)
	registerCTFAPI(v1, jwt, s.opts.CTFSvc)
	registerTaskAPI(v1, jwt, s.opts.TaskSvc)
	registerAnnouncementAPI(v1, jwt, s.opts.AnnounceSvc)
	registerScheduleAPI(v1, jwt, s.opts.ScheduleSvc)
	registerNotificationAPI(v1, jwt, s.opts.NotifSvc)
	registerWikiAPI(v1, jwt, s.opts.WikiSvc)
	registerTerminalAPI(v1, jwt)
	registerRealtimeAPI(v1, jwt, s.opts.Hub)
}

// signalShutdown requests a graceful stop; cmd/api waits on ShutdownRequested.
func (s *server) signalShutdown() {
	select {
	case s.shutdown <- struct{}{}:
	default:
	}
}

func (s *server) ShutdownRequested() <-chan struct{} { return s.shutdown }

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Address))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to the Virtual Lab Portal API!")
}
