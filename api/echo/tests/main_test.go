package tests

import (
	"log"
	"os"
	"testing"

	. "github.com/virtuallab/portal/api/echo"
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
	dummydb "github.com/virtuallab/portal/storage/database/dummy"
)

var (
	app Server

	usrSvc   *user.Service
	ctfSvc   *ctf.Service
	taskSvc  *task.Service
	notifSvc *notification.Service

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

func TestMain(m *testing.M) {
	core.Conf.Set("debug", false)
	core.Conf.Set("testMode", true)

	db, err := dummydb.Open()
	if err != nil {
		log.Fatalf("dummydb.Open(): %v", err)
	}

	hub := realtime.NewHub()
	mailSvc := emailsvc.NewConsoleServiceMock()

	usrSvc = user.NewService(dummydb.NewUserRepository(db))
	notifSvc = notification.NewService(dummydb.NewNotificationRepository(db), hub)
	taskSvc = task.NewService(dummydb.NewTaskRepository(db), hub)
	ctfSvc = ctf.NewService(dummydb.NewCTFRepository(db), hub)
	annSvc := announce.NewService(dummydb.NewAnnouncementRepository(db), usrSvc, notifSvc, mailSvc, hub, core.StdLogger{Std: log.Default()})
	schedSvc := schedule.NewService(dummydb.NewEventRepository(db), taskSvc, hub)
	wikiSvc := wiki.NewService(dummydb.NewWikiRepository(db), hub)

	app = NewServer(&Options{
		DisableReqLogs: true,
		UserSvc:        usrSvc,
		CTFSvc:         ctfSvc,
		TaskSvc:        taskSvc,
		AnnounceSvc:    annSvc,
		ScheduleSvc:    schedSvc,
		NotifSvc:       notifSvc,
		WikiSvc:        wikiSvc,
		Hub:            hub,
		Logger:         core.StdLogger{Std: log.Default()},
	})

	os.Exit(m.Run())
}
