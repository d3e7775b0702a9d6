package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	echoapi "github.com/virtuallab/portal/api/echo"
	"github.com/virtuallab/portal/core"
	"github.com/virtuallab/portal/core/announce"
	"github.com/virtuallab/portal/core/ctf"
	"github.com/virtuallab/portal/core/notification"
	"github.com/virtuallab/portal/core/realtime"
	"github.com/virtuallab/portal/core/schedule"
	"github.com/virtuallab/portal/core/task"
	"github.com/virtuallab/portal/core/user"
	"github.com/virtuallab/portal/core/wiki"
	emailsvc "github.com/virtuallab/portal/services/email"
	logsvc "github.com/virtuallab/portal/services/logger"
	"github.com/virtuallab/portal/storage/database"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	var logger core.Logger
	if core.Conf.GetString("rollbarToken") != "" {
		logger = logsvc.NewRollbarLogger(std)
	} else {
		logger = core.StdLogger{Std: std}
	}

	// set up DB
	db, err := database.Open()
	errAndDie(std, err)
	defer db.Close()

	// set up services
	var mailSvc core.EmailService
	if core.Conf.GetBool("debug") {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	hub := realtime.NewHub()
	defer hub.Close()

	usrSvc := user.NewService(database.NewUserRepository(db))
	notifSvc := notification.NewService(database.NewNotificationRepository(db), hub)
	taskSvc := task.NewService(database.NewTaskRepository(db), hub)
	annSvc := announce.NewService(database.NewAnnouncementRepository(db), usrSvc, notifSvc, mailSvc, hub, logger)
	schedSvc := schedule.NewService(database.NewEventRepository(db), taskSvc, hub)
	wikiSvc := wiki.NewService(database.NewWikiRepository(db), hub)
	ctfSvc := ctf.NewService(database.NewCTFRepository(db), hub)

	// start API server
	app := echoapi.NewServer(&echoapi.Options{
		Address:     core.Conf.GetString("server.address"),
		UserSvc:     usrSvc,
		CTFSvc:      ctfSvc,
		TaskSvc:     taskSvc,
		AnnounceSvc: annSvc,
		ScheduleSvc: schedSvc,
		NotifSvc:    notifSvc,
		WikiSvc:     wikiSvc,
		Hub:         hub,
		Logger:      logger,
	})

	go app.Start()

	// wait for a stop signal, then drain in-flight requests
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	select {
	case sig := <-shutdown:
		std.Printf("received %v, shutting down", sig)
	case <-app.ShutdownRequested():
		std.Print("unrecoverable error, shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), core.Conf.GetDuration("server.shutdownTimeout"))
	defer cancel()
	if err := app.Stop(ctx); err != nil {
		std.Printf("graceful shutdown failed: %v", err)
	}
}

func errAndDie(std *log.Logger, err error) {
	if err != nil {
		std.Fatal(err)
	}
}
